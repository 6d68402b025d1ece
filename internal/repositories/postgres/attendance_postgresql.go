package postgres

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/pgs-software-club/club-service/internal/cache"
	"github.com/pgs-software-club/club-service/internal/models"
	"github.com/pgs-software-club/club-service/internal/repositories"
)

type AttendancePostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
}

func NewAttendancePostgreSQL(db *gorm.DB, redisClient *redis.Client) repositories.AttendanceRepository {
	return &AttendancePostgreSQL{
		db:           db,
		cacheManager: cache.NewCacheManager(redisClient),
	}
}

func (r *AttendancePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

// Upsert inserts or overwrites the record for the (student, date) pair.
// The conflict target is the composite unique index, which is the
// authoritative guard under concurrency.
func (r *AttendancePostgreSQL) Upsert(ctx context.Context, tx *gorm.DB, record *models.AttendanceRecord) error {
	db := r.getDB(tx)

	err := db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "student_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "notes", "marked_by", "updated_at"}),
		}).
		Create(record).Error
	if err != nil {
		return fmt.Errorf("failed to upsert attendance: %w", err)
	}

	// Reload through the natural key so the caller sees the surviving row
	// with the student reference populated.
	err = db.WithContext(ctx).
		Preload("Student").
		Where("student_id = ? AND date = ?", record.StudentID, record.Date).
		First(record).Error
	if err != nil {
		return fmt.Errorf("failed to reload attendance: %w", err)
	}

	r.cacheManager.InvalidateRoster(ctx)
	return nil
}

// List returns records sorted by date descending then creation time
// descending, with the student reference populated (read-time join).
func (r *AttendancePostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.AttendanceFilters) ([]*models.AttendanceRecord, error) {
	db := r.getDB(tx)

	query := db.WithContext(ctx).Model(&models.AttendanceRecord{})

	if filters.Date != nil {
		start := models.NormalizeDate(*filters.Date)
		end := start.AddDate(0, 0, 1)
		query = query.Where("date >= ? AND date < ?", start, end)
	}
	if filters.From != nil {
		query = query.Where("date >= ?", models.NormalizeDate(*filters.From))
	}
	if filters.To != nil {
		query = query.Where("date < ?", models.NormalizeDate(*filters.To).AddDate(0, 0, 1))
	}
	if filters.StudentID != nil {
		query = query.Where("student_id = ?", *filters.StudentID)
	}

	var records []*models.AttendanceRecord
	err := query.
		Preload("Student").
		Order("date DESC, created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	return records, nil
}
