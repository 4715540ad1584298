// File: internal/profile/repository.go
package profile

import (
	"context"
	"errors"

	"github.com/Ninano9/camera/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for profile data operations.
type Repository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]Profile, error)
	FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*Profile, error)
	ExistsActiveName(ctx context.Context, userID uuid.UUID, name string) (bool, error)
	Update(ctx context.Context, profile *Profile) error
	// ClearDefaults unsets is_default on every active profile of the user.
	ClearDefaults(ctx context.Context, userID uuid.UUID) error
	// CountMappings reports how many mappings reference the profile.
	CountMappings(ctx context.Context, profileID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM profile repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, profile *Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Profile not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) FindActiveByUser(ctx context.Context, userID uuid.UUID) ([]Profile, error) {
	var profiles []Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ?", userID, true).
		Order("created_at ASC").
		Find(&profiles).Error
	if err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *gormRepository) FindDefaultByUser(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	var p Profile
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_default = ? AND is_active = ?", userID, true, true).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Default profile not found.")
		}
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) ExistsActiveName(ctx context.Context, userID uuid.UUID, name string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ? AND name = ? AND is_active = ?", userID, name, true).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *gormRepository) Update(ctx context.Context, profile *Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

func (r *gormRepository) ClearDefaults(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&Profile{}).
		Where("user_id = ? AND is_default = ?", userID, true).
		Update("is_default", false).Error
}

// CountMappings queries the mappings table by name to avoid importing the
// mapping module from here.
func (r *gormRepository) CountMappings(ctx context.Context, profileID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Table("mappings").
		Where("profile_id = ?", profileID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
