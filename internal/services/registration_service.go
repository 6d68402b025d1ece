package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/events"
	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
	"github.com/pgs-software-club/club-service/internal/validator"
)

// ===== SERVICE INTERFACE =====

type RegistrationService interface {
	// Register accepts a public self-registration. The record enters the
	// roster unverified and waits for an admin decision.
	Register(ctx context.Context, req *validator.RegisterRequest) (*models.Student, error)
	// Verify applies an admin decision to a pending registration.
	Verify(ctx context.Context, req *validator.VerifyStudentRequest) (*models.Student, error)
}

// ===== SERVICE IMPLEMENTATION =====

type registrationService struct {
	repo      repositories.Repository
	logger    *slog.Logger
	validator *validator.BusinessValidator
	events    events.Publisher
}

func NewRegistrationService(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator, publisher events.Publisher) RegistrationService {
	return &registrationService{
		repo:      repo,
		logger:    logger,
		validator: bv,
		events:    publisher,
	}
}

func (s *registrationService) Register(ctx context.Context, req *validator.RegisterRequest) (*models.Student, error) {
	if errs := s.validator.ValidateRegistration(req); len(errs) > 0 {
		return nil, errs
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	username := strings.TrimSpace(req.GitHubUsername)

	// Duplicate checks are scoped to active records: a removed or
	// rejected member may register again with the same identity.
	existing, err := s.repo.Student().FindActiveByEmail(ctx, nil, email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateEmail
	}

	existing, err = s.repo.Student().FindActiveByGitHubUsername(ctx, nil, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check github username: %w", err)
	}
	if existing != nil {
		return nil, ErrDuplicateGitHubUsername
	}

	student := &models.Student{
		Name:             strings.TrimSpace(req.Name),
		Email:            &email,
		GitHubUsername:   &username,
		Course:           normalizeOptional(req.Course),
		Year:             strPtrTrim(req.Year),
		Phone:            normalizeOptional(req.Phone),
		AreaOfStudy:      strPtrTrim(req.AreaOfStudy),
		IsActive:         true,
		IsVerified:       false,
		RegistrationType: models.RegistrationSelf,
	}

	if err := s.repo.Student().Create(ctx, nil, student); err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	s.publish(ctx, events.TopicStudentRegistered, student)
	s.logger.Info("Registration received", "student_id", student.ID, "github", username)
	return student, nil
}

func (s *registrationService) Verify(ctx context.Context, req *validator.VerifyStudentRequest) (*models.Student, error) {
	if errs := s.validator.ValidateVerify(req); len(errs) > 0 {
		return nil, errs
	}

	student, err := s.repo.Student().GetByID(ctx, nil, req.StudentID)
	if err != nil {
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	if student == nil {
		return nil, ErrStudentNotFound
	}
	if student.RegistrationState() != models.StatePending {
		return nil, ErrRegistrationNotPending
	}

	switch req.Action {
	case validator.VerifyActionApprove:
		return s.approve(ctx, student, req.StudentIDToAssign)
	case validator.VerifyActionReject:
		return s.reject(ctx, student)
	default:
		// Unknown actions are caught by validation above.
		return nil, ErrRegistrationNotPending
	}
}

func (s *registrationService) approve(ctx context.Context, student *models.Student, codeToAssign *string) (*models.Student, error) {
	if codeToAssign != nil {
		code := strings.TrimSpace(*codeToAssign)
		if code != "" {
			// A code conflict aborts the approval and leaves the
			// registration pending for a retry with a different code.
			existing, err := s.repo.Student().FindActiveByStudentID(ctx, nil, code, student.ID)
			if err != nil {
				return nil, fmt.Errorf("failed to check student id: %w", err)
			}
			if existing != nil {
				return nil, ErrDuplicateStudentID
			}
			student.StudentID = &code
		}
	}

	student.IsVerified = true
	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateStudentID
		}
		return nil, fmt.Errorf("failed to approve registration: %w", err)
	}

	s.publish(ctx, events.TopicStudentVerified, student)
	s.logger.Info("Registration approved", "student_id", student.ID, "code", strOrEmpty(student.StudentID))
	return student, nil
}

func (s *registrationService) reject(ctx context.Context, student *models.Student) (*models.Student, error) {
	student.IsActive = false
	if err := s.repo.Student().Update(ctx, nil, student); err != nil {
		return nil, fmt.Errorf("failed to reject registration: %w", err)
	}

	s.publish(ctx, events.TopicStudentRejected, student)
	s.logger.Info("Registration rejected", "student_id", student.ID)
	return student, nil
}

// publish emits a domain event; failures are logged, never surfaced.
func (s *registrationService) publish(ctx context.Context, topic string, student *models.Student) {
	event := events.NewEvent(topic, map[string]interface{}{
		"studentId":        student.ID,
		"name":             student.Name,
		"registrationType": student.RegistrationType,
		"state":            student.RegistrationState(),
	})
	if err := s.events.Publish(ctx, topic, event); err != nil {
		s.logger.Warn("Failed to publish event", "topic", topic, "error", err)
	}
}

func strPtrTrim(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
