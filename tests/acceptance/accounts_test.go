package acceptance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/mvalerio/account-service/internal/dto"
)

const (
	testPassword    = "Str0ng_Pass!x"
	testNewPassword = "An0ther_Pass!x"
)

func (s *Suite) createAccount(nickname, email string) map[string]any {
	reqBody := dto.CreateAccountRequest{
		Nickname:  nickname,
		Email:     email,
		Password:  testPassword,
		Name:      "John Doe",
		BirthDate: "1990-05-10",
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(s.BaseURL+"/api/v1/accounts", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Require().Equal(http.StatusCreated, resp.StatusCode, "Account creation should succeed")

	var account map[string]any
	s.Require().NoError(json.NewDecoder(resp.Body).Decode(&account))
	return account
}

func (s *Suite) signIn(login, password string, isNickname bool) (*http.Response, dto.SignInResponse) {
	body, _ := json.Marshal(dto.SignInRequest{
		Login:      login,
		Password:   password,
		IsNickname: isNickname,
	})

	resp, err := http.Post(s.BaseURL+"/api/v1/auth/sign-in", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)

	var signInResp dto.SignInResponse
	_ = json.NewDecoder(resp.Body).Decode(&signInResp)
	resp.Body.Close()
	return resp, signInResp
}

func (s *Suite) activationCode(email string) string {
	var code string
	err := s.Postgres.DB.QueryRow(`
		SELECT d.activation_code FROM account_details d
		JOIN accounts a ON a.id = d.account_id
		WHERE a.email = $1
	`, email).Scan(&code)
	s.Require().NoError(err)
	return code
}

func (s *Suite) recoverCode(email string) string {
	var code string
	err := s.Postgres.DB.QueryRow(`
		SELECT d.recover_code FROM account_details d
		JOIN accounts a ON a.id = d.account_id
		WHERE a.email = $1
	`, email).Scan(&code)
	s.Require().NoError(err)
	return code
}

func (s *Suite) authorizedRequest(method, path, token string, payload any) *http.Response {
	var body *bytes.Buffer
	if payload != nil {
		b, _ := json.Marshal(payload)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, _ := http.NewRequest(method, s.BaseURL+path, body)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", token))

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	return resp
}

func (s *Suite) decodeError(resp *http.Response) dto.ErrorResponse {
	var errResp dto.ErrorResponse
	_ = json.NewDecoder(resp.Body).Decode(&errResp)
	return errResp
}

func (s *Suite) TestCreateAccount_Success() {
	account := s.createAccount("some.user", "some.user@example.com")

	s.Equal("some.user", account["nickname"])
	s.Equal("some.user@example.com", account["email"])
	s.Equal("unverified", account["status"])
	s.NotEmpty(account["id"])
	s.NotContains(account, "password_hash")
	s.NotContains(account, "password")

	person, ok := account["person"].(map[string]any)
	s.Require().True(ok, "Response should embed the person")
	s.Equal("John Doe", person["name"])

	// an activation code was issued on creation
	s.Len(s.activationCode("some.user@example.com"), 8)
}

func (s *Suite) TestCreateAccount_DuplicateNicknameIgnoresCase() {
	s.createAccount("some.user", "some.user@example.com")

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Nickname:  "SOME.USER",
		Email:     "other@example.com",
		Password:  testPassword,
		Name:      "Mary Jane",
		BirthDate: "1995-02-20",
	})
	resp, err := http.Post(s.BaseURL+"/api/v1/accounts", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("NICKNAME_ALREADY_EXISTS", s.decodeError(resp).Error)
}

func (s *Suite) TestCreateAccount_DuplicateEmail() {
	s.createAccount("some.user", "some.user@example.com")

	body, _ := json.Marshal(dto.CreateAccountRequest{
		Nickname:  "other.user",
		Email:     "some.user@example.com",
		Password:  testPassword,
		Name:      "Mary Jane",
		BirthDate: "1995-02-20",
	})
	resp, err := http.Post(s.BaseURL+"/api/v1/accounts", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusConflict, resp.StatusCode)
	s.Equal("EMAIL_ALREADY_EXISTS", s.decodeError(resp).Error)
}

func (s *Suite) TestSignIn_Success() {
	s.createAccount("some.user", "some.user@example.com")

	resp, signInResp := s.signIn("some.user@example.com", testPassword, false)
	s.Equal(http.StatusOK, resp.StatusCode)
	s.NotEmpty(signInResp.AccessToken)
	s.Equal("Bearer", signInResp.TokenType)
	s.NotZero(signInResp.ExpiresIn)

	// nickname sign-in works too, case-insensitively
	resp, _ = s.signIn("SOME.USER", testPassword, true)
	s.Equal(http.StatusOK, resp.StatusCode)
}

func (s *Suite) TestSignIn_WrongPassword() {
	s.createAccount("some.user", "some.user@example.com")

	resp, _ := s.signIn("some.user@example.com", "Wr0ng_Pass!x", false)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *Suite) TestSignIn_UnknownAccount() {
	resp, _ := s.signIn("nobody@example.com", testPassword, false)
	s.Equal(http.StatusNotFound, resp.StatusCode)
}

func (s *Suite) TestActivateFlow() {
	s.createAccount("some.user", "some.user@example.com")

	_, signInResp := s.signIn("some.user@example.com", testPassword, false)
	code := s.activationCode("some.user@example.com")

	resp := s.authorizedRequest("POST", "/api/v1/accounts/activate", signInResp.AccessToken, dto.ActivateRequest{Code: code})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	var status string
	err := s.Postgres.DB.QueryRow(`SELECT status FROM accounts WHERE email = $1`, "some.user@example.com").Scan(&status)
	s.Require().NoError(err)
	s.Equal("verified", status)

	// a verified account cannot be activated again
	resp2 := s.authorizedRequest("POST", "/api/v1/accounts/activate", signInResp.AccessToken, dto.ActivateRequest{Code: code})
	defer resp2.Body.Close()
	s.Equal(http.StatusForbidden, resp2.StatusCode)
	s.Equal("CANT_ACTIVATE_ACCOUNT", s.decodeError(resp2).Error)
}

func (s *Suite) TestActivate_InvalidCode() {
	s.createAccount("some.user", "some.user@example.com")
	_, signInResp := s.signIn("some.user@example.com", testPassword, false)

	resp := s.authorizedRequest("POST", "/api/v1/accounts/activate", signInResp.AccessToken, dto.ActivateRequest{Code: "00000000"})
	defer resp.Body.Close()
	s.Equal(http.StatusBadRequest, resp.StatusCode)
	s.Equal("ACTIVATION_CODE_INVALID", s.decodeError(resp).Error)
}

func (s *Suite) TestChangeActivationCode_Throttled() {
	s.createAccount("some.user", "some.user@example.com")
	_, signInResp := s.signIn("some.user@example.com", testPassword, false)

	// the code issued on creation is fresh, so a re-request is throttled
	resp := s.authorizedRequest("POST", "/api/v1/accounts/activation-code", signInResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusTooManyRequests, resp.StatusCode)
	s.Equal("ACTIVATION_CODE_MANY_REQUESTS", s.decodeError(resp).Error)
}

func (s *Suite) TestUpdatePassword() {
	s.createAccount("some.user", "some.user@example.com")
	_, signInResp := s.signIn("some.user@example.com", testPassword, false)

	resp := s.authorizedRequest("PUT", "/api/v1/accounts/password", signInResp.AccessToken, dto.UpdatePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     testNewPassword,
	})
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	oldPassResp, _ := s.signIn("some.user@example.com", testPassword, false)
	s.Equal(http.StatusUnauthorized, oldPassResp.StatusCode)

	newPassResp, _ := s.signIn("some.user@example.com", testNewPassword, false)
	s.Equal(http.StatusOK, newPassResp.StatusCode)
}

func (s *Suite) TestRecoverPasswordFlow() {
	s.createAccount("some.user", "some.user@example.com")

	body, _ := json.Marshal(dto.RequestRecoverPasswordRequest{Email: "some.user@example.com"})
	resp, err := http.Post(s.BaseURL+"/api/v1/accounts/recover/request", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	code := s.recoverCode("some.user@example.com")
	s.Len(code, 8)

	body, _ = json.Marshal(dto.RecoverPasswordRequest{
		Email:    "some.user@example.com",
		Code:     code,
		Password: testNewPassword,
	})
	resp, err = http.Post(s.BaseURL+"/api/v1/accounts/recover", "application/json", bytes.NewBuffer(body))
	s.Require().NoError(err)
	resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	newPassResp, _ := s.signIn("some.user@example.com", testNewPassword, false)
	s.Equal(http.StatusOK, newPassResp.StatusCode)
}

func (s *Suite) TestSignOut_RevokesToken() {
	s.createAccount("some.user", "some.user@example.com")
	_, signInResp := s.signIn("some.user@example.com", testPassword, false)

	resp := s.authorizedRequest("POST", "/api/v1/auth/sign-out", signInResp.AccessToken, nil)
	defer resp.Body.Close()
	s.Equal(http.StatusOK, resp.StatusCode)

	// the revoked token no longer opens authenticated endpoints
	resp2 := s.authorizedRequest("POST", "/api/v1/accounts/activation-code", signInResp.AccessToken, nil)
	defer resp2.Body.Close()
	s.Equal(http.StatusUnauthorized, resp2.StatusCode)
}

func (s *Suite) TestUpdatePerson_GatedOnVerifiedAccount() {
	s.createAccount("some.user", "some.user@example.com")
	_, signInResp := s.signIn("some.user@example.com", testPassword, false)

	update := dto.UpdatePersonRequest{Name: "John Smith", BirthDate: "1990-05-10"}

	resp := s.authorizedRequest("PUT", "/api/v1/persons", signInResp.AccessToken, update)
	defer resp.Body.Close()
	s.Equal(http.StatusForbidden, resp.StatusCode)
	s.Equal("ACCOUNT_IS_NOT_VERIFIED", s.decodeError(resp).Error)

	code := s.activationCode("some.user@example.com")
	activateResp := s.authorizedRequest("POST", "/api/v1/accounts/activate", signInResp.AccessToken, dto.ActivateRequest{Code: code})
	activateResp.Body.Close()
	s.Require().Equal(http.StatusOK, activateResp.StatusCode)

	resp2 := s.authorizedRequest("PUT", "/api/v1/persons", signInResp.AccessToken, update)
	defer resp2.Body.Close()
	s.Equal(http.StatusOK, resp2.StatusCode)

	var person map[string]any
	s.Require().NoError(json.NewDecoder(resp2.Body).Decode(&person))
	s.Equal("John Smith", person["name"])
}

func (s *Suite) TestAuthenticatedEndpoint_NoToken() {
	req, _ := http.NewRequest("POST", s.BaseURL+"/api/v1/auth/sign-out", nil)

	resp, err := http.DefaultClient.Do(req)
	s.Require().NoError(err)
	defer resp.Body.Close()

	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}
