package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/services"
	"github.com/pgs-software-club/club-service/internal/utils"
	"github.com/pgs-software-club/club-service/internal/validator"
)

type RegistrationHandler struct {
	BaseHandler
	service services.RegistrationService
}

func NewRegistrationHandler(service services.RegistrationService, logger utils.Logger) *RegistrationHandler {
	return &RegistrationHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Register accepts a public self-registration
// @Summary Register for the club
// @Description Submit a membership application; an admin reviews it before the member appears on the roster
// @Tags registration
// @Accept json
// @Produce json
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Email or GitHub username already registered"
// @Router /register [post]
func (h *RegistrationHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Processing registration")

	var req validator.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Registration received, awaiting verification",
		"student": student,
	})
}

// Verify applies an admin decision to a pending registration
func (h *RegistrationHandler) Verify(c *gin.Context) {
	h.LogRequest(c, "Verifying registration")

	var req validator.VerifyStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Verify(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}
