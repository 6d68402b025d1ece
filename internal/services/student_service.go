package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
	"github.com/pgs-software-club/club-service/internal/validator"
)

// Student codes follow the PGS palette: PGS001, PGS002, ...
const (
	studentCodePrefix  = "PGS"
	studentCodePattern = "^PGS[0-9]+$"
	firstStudentCode   = "PGS001"
)

// ===== SERVICE INTERFACE =====

type StudentService interface {
	// List returns the active roster; includeUnverified adds pending
	// self-registrations for admin review screens.
	List(ctx context.Context, includeUnverified bool) ([]*models.Student, error)
	Create(ctx context.Context, req *validator.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id string, req *validator.UpdateStudentRequest) (*models.Student, error)
	// Delete soft-deletes: the record stays for history, the code is freed.
	Delete(ctx context.Context, id string) error
	// NextStudentID suggests the next free code. It reserves nothing; the
	// partial unique index settles races at creation time.
	NextStudentID(ctx context.Context) (string, error)
}

// ===== SERVICE IMPLEMENTATION =====

type studentService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
}

func NewStudentService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator) StudentService {
	return &studentService{
		repo:      repo,
		logger:    logger,
		validator: bv,
	}
}

func (s *studentService) List(ctx context.Context, includeUnverified bool) ([]*models.Student, error) {
	students, err := s.repo.Student().List(ctx, nil, repositories.StudentFilters{
		IncludeUnverified: includeUnverified,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	return students, nil
}

func (s *studentService) Create(ctx context.Context, req *validator.CreateStudentRequest) (*models.Student, error) {
	if errs := s.validator.ValidateStudentCreate(req); len(errs) > 0 {
		return nil, errs
	}

	student := &models.Student{
		Name:             strings.TrimSpace(req.Name),
		Email:            normalizeOptional(req.Email),
		GitHubUsername:   normalizeOptional(req.GitHubUsername),
		StudentID:        normalizeOptional(req.StudentID),
		Phone:            normalizeOptional(req.Phone),
		Course:           normalizeOptional(req.Course),
		Year:             normalizeOptional(req.Year),
		AreaOfStudy:      normalizeOptional(req.AreaOfStudy),
		IsActive:         true,
		IsVerified:       true,
		RegistrationType: models.RegistrationAdmin,
	}

	if student.StudentID != nil {
		if err := s.ensureCodeAvailable(ctx, *student.StudentID, ""); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Student().Create(ctx, nil, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateStudentID
		}
		return nil, fmt.Errorf("failed to create student: %w", err)
	}

	s.logger.Info("Student created", "student_id", student.ID, "code", strOrEmpty(student.StudentID))
	return student, nil
}

func (s *studentService) Update(ctx context.Context, id string, req *validator.UpdateStudentRequest) (*models.Student, error) {
	if errs := s.validator.ValidateStudentUpdate(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil || !student.IsActive {
		return nil, ErrStudentNotFound
	}

	if req.StudentID != nil {
		code := strings.TrimSpace(*req.StudentID)
		if err := s.ensureCodeAvailable(ctx, code, student.ID); err != nil {
			return nil, err
		}
		student.StudentID = &code
	}
	student.Name = strings.TrimSpace(*req.Name)
	if req.Email != nil {
		student.Email = normalizeOptional(req.Email)
	}
	if req.GitHubUsername != nil {
		student.GitHubUsername = normalizeOptional(req.GitHubUsername)
	}
	if req.Phone != nil {
		student.Phone = normalizeOptional(req.Phone)
	}
	if req.Course != nil {
		student.Course = normalizeOptional(req.Course)
	}
	if req.Year != nil {
		student.Year = normalizeOptional(req.Year)
	}
	if req.AreaOfStudy != nil {
		student.AreaOfStudy = normalizeOptional(req.AreaOfStudy)
	}

	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateStudentID
		}
		return nil, fmt.Errorf("failed to update student: %w", err)
	}

	return student, nil
}

func (s *studentService) Delete(ctx context.Context, id string) error {
	student, err := s.repo.Student().GetByID(ctx, nil, id)
	if err != nil {
		return fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil || !student.IsActive {
		return ErrStudentNotFound
	}

	student.IsActive = false
	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}

	s.logger.Info("Student removed", "student_id", student.ID, "code", strOrEmpty(student.StudentID))
	return nil
}

func (s *studentService) NextStudentID(ctx context.Context) (string, error) {
	highest, err := s.repo.Student().HighestStudentID(ctx, nil, studentCodePattern)
	if err != nil {
		return "", fmt.Errorf("failed to find highest student id: %w", err)
	}
	if highest == "" {
		return firstStudentCode, nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(highest, studentCodePrefix))
	if err != nil {
		// Codes outside the palette are filtered by the repository; a
		// parse failure here means the data was edited by hand.
		return firstStudentCode, nil
	}
	return fmt.Sprintf("%s%03d", studentCodePrefix, n+1), nil
}

// ensureCodeAvailable checks that no other active student holds the code.
// This is a courtesy pre-check; the partial unique index is authoritative.
func (s *studentService) ensureCodeAvailable(ctx context.Context, code, excludeID string) error {
	if code == "" {
		return nil
	}

	existing, err := s.repo.Student().FindActiveByStudentID(ctx, nil, code, excludeID)
	if err != nil {
		return fmt.Errorf("failed to check student id: %w", err)
	}
	if existing != nil {
		return ErrDuplicateStudentID
	}
	return nil
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func strOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
