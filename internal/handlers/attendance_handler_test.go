package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/services"
	"github.com/pgs-software-club/club-service/internal/utils"
	"github.com/pgs-software-club/club-service/internal/validator"
)

// stubAttendanceService captures the requests the handler passes down.
type stubAttendanceService struct {
	recorded *validator.RecordAttendanceRequest
	bulk     *validator.BulkAttendanceRequest
}

func (s *stubAttendanceService) Record(ctx context.Context, req *validator.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	s.recorded = req
	return &models.AttendanceRecord{}, nil
}

func (s *stubAttendanceService) RecordBulk(ctx context.Context, req *validator.BulkAttendanceRequest) (*services.BulkAttendanceResult, error) {
	s.bulk = req
	return &services.BulkAttendanceResult{}, nil
}

func (s *stubAttendanceService) List(ctx context.Context, date *time.Time, studentID *string) ([]*models.AttendanceRecord, error) {
	return nil, nil
}

func newAttendanceTestContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("admin_email", "boss@club.dev")
	return c, w
}

func TestRecordAttendance_MarkerComesFromSession(t *testing.T) {
	stub := &stubAttendanceService{}
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	handler := NewAttendanceHandler(stub, logger)

	// A markedBy in the body must not override the session identity.
	c, w := newAttendanceTestContext(t, `{"studentId":"s1","date":"2026-01-15","status":"present","markedBy":"spoofed@evil.dev"}`)
	handler.RecordAttendance(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if stub.recorded == nil {
		t.Fatal("expected the service to be called")
	}
	if stub.recorded.MarkedBy != "boss@club.dev" {
		t.Errorf("expected marker from session, got %q", stub.recorded.MarkedBy)
	}
}

func TestRecordBulkAttendance_MarkerComesFromSession(t *testing.T) {
	stub := &stubAttendanceService{}
	logger := utils.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	handler := NewAttendanceHandler(stub, logger)

	c, w := newAttendanceTestContext(t, `{"date":"2026-01-15","markedBy":"spoofed@evil.dev","entries":[{"studentId":"s1","status":"present"}]}`)
	handler.RecordBulkAttendance(c)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if stub.bulk == nil {
		t.Fatal("expected the service to be called")
	}
	if stub.bulk.MarkedBy != "boss@club.dev" {
		t.Errorf("expected marker from session, got %q", stub.bulk.MarkedBy)
	}
}
