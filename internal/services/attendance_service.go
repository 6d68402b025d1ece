package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/events"
	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
	"github.com/pgs-software-club/club-service/internal/validator"
)

const defaultMarkedBy = "admin"

// ===== RESPONSE DTOs =====

// BulkEntryError tags a failed bulk entry with the student it belongs to.
type BulkEntryError struct {
	StudentID string `json:"studentId"`
	Error     string `json:"error"`
}

// BulkAttendanceResult reports a bulk submission entry by entry. A bad
// entry never rejects the rest of the batch.
type BulkAttendanceResult struct {
	Successful int                        `json:"successful"`
	Failed     int                        `json:"failed"`
	Results    []*models.AttendanceRecord `json:"results"`
	Errors     []BulkEntryError           `json:"errors"`
}

// ===== SERVICE INTERFACE =====

type AttendanceService interface {
	// Record marks one student for one day. Marking the same pair again
	// overwrites status, notes, and marker.
	Record(ctx context.Context, req *validator.RecordAttendanceRequest) (*models.AttendanceRecord, error)
	// RecordBulk marks a whole session. Entries are processed in order
	// and isolated from each other's failures.
	RecordBulk(ctx context.Context, req *validator.BulkAttendanceRequest) (*BulkAttendanceResult, error)
	List(ctx context.Context, date *time.Time, studentID *string) ([]*models.AttendanceRecord, error)
}

// ===== SERVICE IMPLEMENTATION =====

type attendanceService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	events    events.Publisher
}

func NewAttendanceService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator, publisher events.Publisher) AttendanceService {
	return &attendanceService{
		repo:      repo,
		logger:    logger,
		validator: bv,
		events:    publisher,
	}
}

func (s *attendanceService) Record(ctx context.Context, req *validator.RecordAttendanceRequest) (*models.AttendanceRecord, error) {
	if errs := s.validator.ValidateAttendanceRecord(req); len(errs) > 0 {
		return nil, errs
	}

	day, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	return s.mark(ctx, req.StudentID, day, models.AttendanceStatus(req.Status), req.Notes, req.MarkedBy)
}

func (s *attendanceService) RecordBulk(ctx context.Context, req *validator.BulkAttendanceRequest) (*BulkAttendanceResult, error) {
	if errs := s.validator.ValidateAttendanceBulk(req); len(errs) > 0 {
		return nil, errs
	}

	day, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, fmt.Errorf("failed to parse date: %w", err)
	}

	result := &BulkAttendanceResult{
		Results: []*models.AttendanceRecord{},
		Errors:  []BulkEntryError{},
	}

	for _, entry := range req.Entries {
		record, err := s.markEntry(ctx, entry, day, req.MarkedBy)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, BulkEntryError{
				StudentID: entry.StudentID,
				Error:     err.Error(),
			})
			continue
		}
		result.Successful++
		result.Results = append(result.Results, record)
	}

	s.logger.Info("Bulk attendance recorded",
		"date", req.Date,
		"successful", result.Successful,
		"failed", result.Failed)
	return result, nil
}

func (s *attendanceService) List(ctx context.Context, date *time.Time, studentID *string) ([]*models.AttendanceRecord, error) {
	records, err := s.repo.Attendance().List(ctx, nil, repositories.AttendanceFilters{
		Date:      date,
		StudentID: studentID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}

func (s *attendanceService) markEntry(ctx context.Context, entry validator.BulkAttendanceEntry, day time.Time, markedBy string) (*models.AttendanceRecord, error) {
	if strings.TrimSpace(entry.StudentID) == "" {
		return nil, fmt.Errorf("student id is required")
	}
	if !models.AttendanceStatus(entry.Status).Valid() {
		return nil, fmt.Errorf("invalid status %q", entry.Status)
	}
	return s.mark(ctx, entry.StudentID, day, models.AttendanceStatus(entry.Status), entry.Notes, markedBy)
}

// mark runs one student's lookup and upsert in its own transaction, so
// a bulk batch never ties its entries' outcomes together.
func (s *attendanceService) mark(ctx context.Context, studentID string, day time.Time, status models.AttendanceStatus, notes, markedBy string) (*models.AttendanceRecord, error) {
	if markedBy == "" {
		markedBy = defaultMarkedBy
	}

	record := &models.AttendanceRecord{
		Date:     models.NewDate(day),
		Status:   status,
		Notes:    notes,
		MarkedBy: markedBy,
	}

	err := s.repo.WithTransaction(ctx, func(tx *gorm.DB) error {
		student, err := s.repo.Student().GetByID(ctx, tx, studentID)
		if err != nil {
			return fmt.Errorf("failed to get student: %w", err)
		}
		if student == nil || !student.IsActive {
			return ErrStudentNotFound
		}

		record.StudentID = student.ID
		if err := s.repo.Attendance().Upsert(ctx, tx, record); err != nil {
			return fmt.Errorf("failed to record attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := events.NewEvent(events.TopicAttendanceRecorded, map[string]interface{}{
		"studentId": record.StudentID,
		"date":      models.NormalizeDate(day).Format("2006-01-02"),
		"status":    status,
	})
	if err := s.events.Publish(ctx, events.TopicAttendanceRecorded, event); err != nil {
		s.logger.Warn("Failed to publish event", "topic", events.TopicAttendanceRecorded, "error", err)
	}

	return record, nil
}
