package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/models"
)

// ===== SHARED FILTER STRUCTS =====

type StudentFilters struct {
	// IncludeUnverified adds pending self-registrations to the listing
	// (admin review screens). Inactive records are never listed.
	IncludeUnverified bool
}

type AttendanceFilters struct {
	// Date restricts to the [date, date+1d) day span.
	Date *time.Time
	// From and To bound an inclusive day range for reports.
	From *time.Time
	To   *time.Time
	// StudentID restricts to a single student's history.
	StudentID *string
}

// ===== REPOSITORY INTERFACES =====

// StudentRepository persists roster records. Finder methods return
// (nil, nil) when no matching row exists; the services turn that into
// their own not-found/conflict errors.
type StudentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, student *models.Student) error
	GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error)
	Update(ctx context.Context, tx *gorm.DB, student *models.Student) error
	List(ctx context.Context, tx *gorm.DB, filters StudentFilters) ([]*models.Student, error)

	CountActive(ctx context.Context, tx *gorm.DB) (int64, error)
	CountPending(ctx context.Context, tx *gorm.DB) (int64, error)

	// Uniqueness pre-checks, scoped to active records. excludeID is the
	// record to ignore (empty for creates).
	FindActiveByStudentID(ctx context.Context, tx *gorm.DB, code, excludeID string) (*models.Student, error)
	FindActiveByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error)
	FindActiveByGitHubUsername(ctx context.Context, tx *gorm.DB, username string) (*models.Student, error)

	// HighestStudentID returns the lexicographically highest active
	// student code matching the given POSIX regex, or "" when none exist.
	HighestStudentID(ctx context.Context, tx *gorm.DB, pattern string) (string, error)
}

// AttendanceRepository persists the ledger. Upsert is keyed on the
// (student_id, date) unique index and reloads the record with the
// student reference populated.
type AttendanceRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error
	List(ctx context.Context, tx *gorm.DB, filters AttendanceFilters) ([]*models.AttendanceRecord, error)
}

// ===== REPOSITORY MANAGER =====

type Repository interface {
	Student() StudentRepository
	Attendance() AttendanceRepository

	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
	Ping(ctx context.Context) error
	Close() error
}

type RepositoryManager interface {
	Initialize() error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
