// File: internal/mapping/repository.go
package mapping

import (
	"context"
	"errors"

	"github.com/Ninano9/camera/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for mapping data operations.
type Repository interface {
	Create(ctx context.Context, mapping *Mapping) error
	FindByID(ctx context.Context, id uuid.UUID) (*Mapping, error)
	FindByProfile(ctx context.Context, profileID uuid.UUID) ([]Mapping, error)
	Update(ctx context.Context, mapping *Mapping) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM mapping repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, mapping *Mapping) error {
	return r.db.WithContext(ctx).Create(mapping).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Mapping, error) {
	var m Mapping
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Mapping not found.")
		}
		return nil, err
	}
	return &m, nil
}

func (r *gormRepository) FindByProfile(ctx context.Context, profileID uuid.UUID) ([]Mapping, error) {
	var mappings []Mapping
	err := r.db.WithContext(ctx).
		Where("profile_id = ?", profileID).
		Order("priority DESC, created_at ASC").
		Find(&mappings).Error
	if err != nil {
		return nil, err
	}
	return mappings, nil
}

func (r *gormRepository) Update(ctx context.Context, mapping *Mapping) error {
	return r.db.WithContext(ctx).Save(mapping).Error
}

func (r *gormRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&Mapping{}, "id = ?", id).Error
}
