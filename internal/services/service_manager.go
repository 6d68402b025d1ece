package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/pgs-software-club/club-service/internal/cache"
	"github.com/pgs-software-club/club-service/internal/events"
	"github.com/pgs-software-club/club-service/internal/repositories"
	"github.com/pgs-software-club/club-service/internal/validator"
)

// ServiceManager owns service construction and lifecycle.
type ServiceManager interface {
	Initialize(ctx context.Context) error
	Student() StudentService
	Registration() RegistrationService
	Attendance() AttendanceService
	Report() ReportService
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}

type serviceManager struct {
	repo         repositories.Repository
	logger       *slog.Logger
	validator    *validator.BusinessValidator
	events       events.Publisher
	cacheManager *cache.CacheManager

	studentService      StudentService
	registrationService RegistrationService
	attendanceService   AttendanceService
	reportService       ReportService

	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

func NewServiceManager(repo repositories.Repository, logger *slog.Logger, bv *validator.BusinessValidator, publisher events.Publisher, cacheManager *cache.CacheManager) ServiceManager {
	return &serviceManager{
		repo:         repo,
		logger:       logger,
		validator:    bv,
		events:       publisher,
		cacheManager: cacheManager,
	}
}

func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.studentService = NewStudentService(sm.repo, sm.logger, sm.validator)
	sm.registrationService = NewRegistrationService(sm.repo, sm.logger, sm.validator, sm.events)
	sm.attendanceService = NewAttendanceService(sm.repo, sm.logger, sm.validator, sm.events)
	sm.reportService = NewReportService(sm.repo, sm.logger, sm.cacheManager)

	if err := sm.repo.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}

	sm.initialized = true
	sm.logger.Info("Service manager initialized")
	return nil
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.studentService
}

func (sm *serviceManager) Registration() RegistrationService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.registrationService
}

func (sm *serviceManager) Attendance() AttendanceService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.attendanceService
}

func (sm *serviceManager) Report() ReportService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.reportService
}

func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}
	return sm.repo.Ping(ctx)
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if err := sm.events.Close(); err != nil {
		sm.logger.Error("Failed to close event publisher", "error", err)
	}
	if err := sm.repo.Close(); err != nil {
		sm.logger.Error("Failed to close repository", "error", err)
	}

	sm.shutdown = true
	return nil
}
