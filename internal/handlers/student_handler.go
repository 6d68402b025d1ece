package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/services"
	"github.com/pgs-software-club/club-service/internal/utils"
	"github.com/pgs-software-club/club-service/internal/validator"
)

type StudentHandler struct {
	BaseHandler
	service services.StudentService
}

func NewStudentHandler(service services.StudentService, logger utils.Logger) *StudentHandler {
	return &StudentHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ===== ROSTER ENDPOINTS =====

// ListStudents returns the active roster
// @Summary List students
// @Description List active verified students; include_unverified=true adds pending registrations
// @Tags students
// @Produce json
// @Param include_unverified query bool false "Include pending self-registrations"
// @Success 200 {array} models.Student
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /students [get]
func (h *StudentHandler) ListStudents(c *gin.Context) {
	h.LogRequest(c, "Listing students")

	includeUnverified := c.Query("include_unverified") == "true"

	students, err := h.service.List(c.Request.Context(), includeUnverified)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, students)
}

// CreateStudent adds a student to the roster
// @Summary Create student
// @Tags students
// @Accept json
// @Produce json
// @Success 201 {object} models.Student
// @Failure 400 {object} ErrorResponse "Validation failed"
// @Failure 409 {object} ErrorResponse "Student ID already in use"
// @Router /students [post]
func (h *StudentHandler) CreateStudent(c *gin.Context) {
	h.LogRequest(c, "Creating student")

	var req validator.CreateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, student)
}

// UpdateStudent edits a roster record
func (h *StudentHandler) UpdateStudent(c *gin.Context) {
	h.LogRequest(c, "Updating student")

	var req validator.UpdateStudentRequest
	if !h.bindJSON(c, &req) {
		return
	}

	student, err := h.service.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, student)
}

// DeleteStudent soft-deletes a roster record
func (h *StudentHandler) DeleteStudent(c *gin.Context) {
	h.LogRequest(c, "Deleting student")

	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, MessageResponse{Message: "Student removed"})
}

// NextStudentID suggests the next free code in the palette. Advisory
// only: two admins may see the same suggestion, creation settles it.
func (h *StudentHandler) NextStudentID(c *gin.Context) {
	h.LogRequest(c, "Suggesting next student id")

	code, err := h.service.NextStudentID(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"studentId": code})
}
