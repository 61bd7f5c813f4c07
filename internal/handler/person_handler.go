package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mvalerio/account-service/internal/domain"
	"github.com/mvalerio/account-service/internal/dto"
	"github.com/mvalerio/account-service/internal/service"
)

// PersonHandler handles person profile requests
type PersonHandler struct {
	personService service.PersonService
}

// NewPersonHandler creates a new person handler
func NewPersonHandler(personService service.PersonService) *PersonHandler {
	return &PersonHandler{personService: personService}
}

// Update rewrites the profile of the authenticated account's person
// @Summary Update person
// @Tags persons
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body dto.UpdatePersonRequest true "Person update"
// @Success 200 {object} domain.Person
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Router /persons [put]
func (h *PersonHandler) Update(c *gin.Context) {
	var req dto.UpdatePersonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "VALIDATION_FAILED",
			Message: err.Error(),
		})
		return
	}

	birthDate, err := parseBirthDate(req.BirthDate)
	if err != nil {
		respondError(c, err)
		return
	}

	person, err := h.personService.Update(c.Request.Context(), domain.PersonInput{
		ID:        c.GetString("person_id"),
		Name:      req.Name,
		BirthDate: birthDate,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, person)
}
