package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/repositories"
)

// PostgreSQLRepository bundles the concrete repositories behind the
// Repository interface.
type PostgreSQLRepository struct {
	db          *gorm.DB
	redisClient *redis.Client

	studentRepo    repositories.StudentRepository
	attendanceRepo repositories.AttendanceRepository
}

func NewPostgreSQLRepository(db *gorm.DB, redisClient *redis.Client) *PostgreSQLRepository {
	return &PostgreSQLRepository{
		db:             db,
		redisClient:    redisClient,
		studentRepo:    NewStudentPostgreSQL(db, redisClient),
		attendanceRepo: NewAttendancePostgreSQL(db, redisClient),
	}
}

func (r *PostgreSQLRepository) Student() repositories.StudentRepository {
	return r.studentRepo
}

func (r *PostgreSQLRepository) Attendance() repositories.AttendanceRepository {
	return r.attendanceRepo
}

// WithTransaction runs fn inside a database transaction. The tx handle is
// passed through to the repository methods, which fall back to the shared
// connection when it is nil.
func (r *PostgreSQLRepository) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return r.db.WithContext(ctx).Transaction(fn)
}

func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database handle: %w", err)
	}
	return sqlDB.Close()
}

// PostgreSQLRepositoryManager owns the repository lifecycle.
type PostgreSQLRepositoryManager struct {
	repository *PostgreSQLRepository
}

func NewPostgreSQLRepositoryManager(db *gorm.DB, redisClient *redis.Client) repositories.RepositoryManager {
	return &PostgreSQLRepositoryManager{
		repository: NewPostgreSQLRepository(db, redisClient),
	}
}

func (m *PostgreSQLRepositoryManager) Initialize() error {
	if m.repository == nil {
		return fmt.Errorf("repository not configured")
	}
	return nil
}

func (m *PostgreSQLRepositoryManager) GetRepository() repositories.Repository {
	return m.repository
}

func (m *PostgreSQLRepositoryManager) HealthCheck(ctx context.Context) error {
	return m.repository.Ping(ctx)
}

func (m *PostgreSQLRepositoryManager) Shutdown(ctx context.Context) error {
	return m.repository.Close()
}
