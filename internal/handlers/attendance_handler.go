package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/services"
	"github.com/pgs-software-club/club-service/internal/utils"
	"github.com/pgs-software-club/club-service/internal/validator"
)

type AttendanceHandler struct {
	BaseHandler
	service services.AttendanceService
}

func NewAttendanceHandler(service services.AttendanceService, logger utils.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// ListAttendance returns the ledger, newest day first
// @Summary List attendance
// @Tags attendance
// @Produce json
// @Param date query string false "Restrict to one day (YYYY-MM-DD)"
// @Param student_id query string false "Restrict to one student"
// @Success 200 {array} models.AttendanceRecord
// @Failure 400 {object} ErrorResponse "Bad date"
// @Router /attendance [get]
func (h *AttendanceHandler) ListAttendance(c *gin.Context) {
	h.LogRequest(c, "Listing attendance")

	var date *time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "date must be a YYYY-MM-DD date"})
			return
		}
		date = &parsed
	}

	var studentID *string
	if raw := c.Query("student_id"); raw != "" {
		studentID = &raw
	}

	records, err := h.service.List(c.Request.Context(), date, studentID)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// RecordAttendance marks one student for one day; re-marking overwrites
func (h *AttendanceHandler) RecordAttendance(c *gin.Context) {
	h.LogRequest(c, "Recording attendance")

	var req validator.RecordAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.MarkedBy = c.GetString("admin_email")

	record, err := h.service.Record(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, record)
}

// RecordBulkAttendance marks a whole session in one call
// @Summary Bulk attendance
// @Description Marks many students for one day. A processed batch always answers 200 with per-entry successes and failures; one bad entry never rejects the rest.
// @Tags attendance
// @Accept json
// @Produce json
// @Success 200 {object} services.BulkAttendanceResult
// @Failure 400 {object} ErrorResponse "Malformed batch"
// @Router /attendance/bulk [post]
func (h *AttendanceHandler) RecordBulkAttendance(c *gin.Context) {
	h.LogRequest(c, "Recording bulk attendance")

	var req validator.BulkAttendanceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	req.MarkedBy = c.GetString("admin_email")

	result, err := h.service.RecordBulk(c.Request.Context(), &req)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
