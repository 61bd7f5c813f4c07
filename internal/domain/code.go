package domain

import "crypto/rand"

// ActivationCodeLength is the number of digits in activation and
// recovery codes.
const ActivationCodeLength = 8

// RandomCode returns a random numeric string of exactly length digits.
// Leading zeros are allowed; expiry and attempt limits are the real
// defense, not code entropy.
func RandomCode(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms
		panic(err)
	}

	digits := make([]byte, length)
	for i, b := range buf {
		digits[i] = '0' + (b % 10)
	}

	return string(digits)
}
