// File: internal/telemetry/repository.go
package telemetry

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Repository defines the interface for telemetry data operations.
type Repository interface {
	Create(ctx context.Context, record *Record) error
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM telemetry repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, record *Record) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("recorded_at < ?", cutoff).
		Delete(&Record{})
	return result.RowsAffected, result.Error
}
