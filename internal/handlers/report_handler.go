package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/services"
	"github.com/pgs-software-club/club-service/internal/utils"
)

type ReportHandler struct {
	BaseHandler
	service services.ReportService
}

func NewReportHandler(service services.ReportService, logger utils.Logger) *ReportHandler {
	return &ReportHandler{
		BaseHandler: NewBaseHandler(logger),
		service:     service,
	}
}

// Summary aggregates the ledger overall and per student
// @Summary Attendance summary
// @Tags reports
// @Produce json
// @Param from query string false "Range start (YYYY-MM-DD)"
// @Param to query string false "Range end (YYYY-MM-DD)"
// @Param student_id query string false "Restrict to one student"
// @Param status query string false "Restrict to one status"
// @Success 200 {object} services.AttendanceSummary
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	h.LogRequest(c, "Building attendance summary")

	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	summary, err := h.service.Summary(c.Request.Context(), filters)
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, summary)
}

// Export downloads the ledger as CSV (default) or XLSX
func (h *ReportHandler) Export(c *gin.Context) {
	h.LogRequest(c, "Exporting attendance")

	filters, ok := h.parseFilters(c)
	if !ok {
		return
	}

	filename := fmt.Sprintf("attendance-%s", time.Now().Format("2006-01-02"))

	switch c.DefaultQuery("format", "csv") {
	case "csv":
		data, err := h.service.ExportCSV(c.Request.Context(), filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", data)
	case "xlsx":
		data, err := h.service.ExportXLSX(c.Request.Context(), filters)
		if err != nil {
			h.handleServiceError(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "format must be csv or xlsx"})
	}
}

// DashboardStats feeds the admin dashboard tiles
func (h *ReportHandler) DashboardStats(c *gin.Context) {
	h.LogRequest(c, "Getting dashboard stats")

	stats, err := h.service.DashboardStats(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *ReportHandler) parseFilters(c *gin.Context) (services.ReportFilters, bool) {
	var filters services.ReportFilters

	if raw := c.Query("from"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "from must be a YYYY-MM-DD date"})
			return filters, false
		}
		filters.From = &parsed
	}
	if raw := c.Query("to"); raw != "" {
		parsed, err := models.ParseDate(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "to must be a YYYY-MM-DD date"})
			return filters, false
		}
		filters.To = &parsed
	}
	if raw := c.Query("student_id"); raw != "" {
		filters.StudentID = &raw
	}
	if raw := c.Query("status"); raw != "" {
		status := models.AttendanceStatus(raw)
		if !status.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Message: "status must be present, absent or late"})
			return filters, false
		}
		filters.Status = &status
	}

	return filters, true
}
