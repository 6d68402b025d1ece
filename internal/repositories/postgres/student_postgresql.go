package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/pgs-software-club/club-service/internal/cache"
	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
)

type StudentPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewStudentPostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.StudentRepository {
	return &StudentPostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

// getDB returns the transaction DB if provided, otherwise the default DB
func (r *StudentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func (r *StudentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Create(student).Error; err != nil {
		return fmt.Errorf("failed to create student: %w", err)
	}
	r.cacheManager.InvalidateRoster(ctx)
	return nil
}

func (r *StudentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, id string) (*models.Student, error) {
	db := r.getDB(tx)

	var student models.Student
	err := db.WithContext(ctx).First(&student, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get student: %w", err)
	}
	return &student, nil
}

func (r *StudentPostgreSQL) Update(ctx context.Context, tx *gorm.DB, student *models.Student) error {
	db := r.getDB(tx)
	if err := db.WithContext(ctx).Save(student).Error; err != nil {
		return fmt.Errorf("failed to update student: %w", err)
	}
	r.cacheManager.InvalidateRoster(ctx)
	return nil
}

// List returns active students, most recently created first. The roster
// cache is invalidated on every write, so a short TTL is safe here.
func (r *StudentPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.StudentFilters) ([]*models.Student, error) {
	db := r.getDB(tx)
	cacheKey := fmt.Sprintf("list:unverified:%t", filters.IncludeUnverified)

	var students []*models.Student
	err := r.cacheManager.Roster.CacheOrExecute(ctx, cacheKey, &students, cache.RosterCacheConfig.TTL, func() (interface{}, error) {
		query := db.WithContext(ctx).Where("is_active = ?", true)
		if !filters.IncludeUnverified {
			query = query.Where("is_verified = ?", true)
		}

		var fresh []*models.Student
		if err := query.Order("created_at DESC").Find(&fresh).Error; err != nil {
			return nil, fmt.Errorf("failed to list students: %w", err)
		}
		return fresh, nil
	})
	if err != nil {
		return nil, err
	}

	return students, nil
}

func (r *StudentPostgreSQL) CountActive(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)

	var count int64
	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("is_active = ?", true).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count active students: %w", err)
	}
	return count, nil
}

func (r *StudentPostgreSQL) CountPending(ctx context.Context, tx *gorm.DB) (int64, error) {
	db := r.getDB(tx)

	var count int64
	err := db.WithContext(ctx).
		Model(&models.Student{}).
		Where("is_active = ? AND is_verified = ?", true, false).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pending registrations: %w", err)
	}
	return count, nil
}

func (r *StudentPostgreSQL) FindActiveByStudentID(ctx context.Context, tx *gorm.DB, code, excludeID string) (*models.Student, error) {
	return r.findActive(ctx, tx, "student_id = ?", code, excludeID)
}

func (r *StudentPostgreSQL) FindActiveByEmail(ctx context.Context, tx *gorm.DB, email string) (*models.Student, error) {
	return r.findActive(ctx, tx, "email = ?", email, "")
}

func (r *StudentPostgreSQL) FindActiveByGitHubUsername(ctx context.Context, tx *gorm.DB, username string) (*models.Student, error) {
	return r.findActive(ctx, tx, "github_username = ?", username, "")
}

func (r *StudentPostgreSQL) findActive(ctx context.Context, tx *gorm.DB, cond, value, excludeID string) (*models.Student, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Where("is_active = ?", true).Where(cond, value)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}

	var student models.Student
	err := query.First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find student: %w", err)
	}
	return &student, nil
}

func (r *StudentPostgreSQL) HighestStudentID(ctx context.Context, tx *gorm.DB, pattern string) (string, error) {
	db := r.getDB(tx)

	var student models.Student
	err := db.WithContext(ctx).
		Where("is_active = ? AND student_id ~ ?", true, pattern).
		Order("student_id DESC").
		First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to find highest student id: %w", err)
	}
	if student.StudentID == nil {
		return "", nil
	}
	return *student.StudentID, nil
}
