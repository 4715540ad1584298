// File: internal/profile/service.go
package profile

import (
	"context"
	"fmt"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines profile business logic. All operations are scoped to the
// requesting user; a profile owned by someone else reads as not found.
type Service interface {
	List(ctx context.Context, userID uuid.UUID) ([]Profile, error)
	Get(ctx context.Context, userID, profileID uuid.UUID) (*Profile, []shared.MappingSummary, error)
	GetDefault(ctx context.Context, userID uuid.UUID) (*Profile, error)
	Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Profile, error)
	Update(ctx context.Context, userID, profileID uuid.UUID, req UpdateRequest) (*Profile, error)
	Delete(ctx context.Context, userID, profileID uuid.UUID) error

	shared.ProfileSummaryProvider
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	mappings shared.MappingSummaryProvider
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new profile service.
func NewService(repo Repository, mappings shared.MappingSummaryProvider, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		mappings: mappings,
		logger:   logger,
	}
}

func (s *ServiceImplementation) List(ctx context.Context, userID uuid.UUID) ([]Profile, error) {
	return s.repo.FindActiveByUser(ctx, userID)
}

func (s *ServiceImplementation) Get(ctx context.Context, userID, profileID uuid.UUID) (*Profile, []shared.MappingSummary, error) {
	p, err := s.findOwned(ctx, userID, profileID)
	if err != nil {
		return nil, nil, err
	}

	summaries, err := s.mappings.SummariesForProfile(ctx, p.ID)
	if err != nil {
		s.logger.Warn("Failed to load mapping summaries for profile",
			zap.String("profileID", p.ID.String()), zap.Error(err))
		summaries = nil
	}

	return p, summaries, nil
}

func (s *ServiceImplementation) GetDefault(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	return s.repo.FindDefaultByUser(ctx, userID)
}

func (s *ServiceImplementation) Create(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Profile, error) {
	exists, err := s.repo.ExistsActiveName(ctx, userID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("failed to check profile name: %w", err)
	}
	if exists {
		return nil, common.ErrConflict.WithDetails("Profile name already exists: " + req.Name)
	}

	// A new default displaces the previous one.
	if req.IsDefault {
		if err := s.repo.ClearDefaults(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to clear default profiles: %w", err)
		}
	}

	p := &Profile{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		Context:     req.Context,
		IsDefault:   req.IsDefault,
		IsActive:    true,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.Error("Failed to create profile", zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.logger.Info("Profile created",
		zap.String("profileID", p.ID.String()), zap.String("userID", userID.String()))
	return p, nil
}

func (s *ServiceImplementation) Update(ctx context.Context, userID, profileID uuid.UUID, req UpdateRequest) (*Profile, error) {
	p, err := s.findOwned(ctx, userID, profileID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil && *req.Name != p.Name {
		exists, err := s.repo.ExistsActiveName(ctx, userID, *req.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to check profile name: %w", err)
		}
		if exists {
			return nil, common.ErrConflict.WithDetails("Profile name already exists: " + *req.Name)
		}
		p.Name = *req.Name
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.Context != nil {
		p.Context = req.Context
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
	if req.IsDefault != nil {
		if *req.IsDefault && !p.IsDefault {
			if err := s.repo.ClearDefaults(ctx, userID); err != nil {
				return nil, fmt.Errorf("failed to clear default profiles: %w", err)
			}
			p.IsDefault = true
		} else if !*req.IsDefault {
			p.IsDefault = false
		}
	}

	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to update profile", zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("Profile updated", zap.String("profileID", p.ID.String()))
	return p, nil
}

// Delete soft-deletes a profile. The default profile cannot be deleted.
func (s *ServiceImplementation) Delete(ctx context.Context, userID, profileID uuid.UUID) error {
	p, err := s.findOwned(ctx, userID, profileID)
	if err != nil {
		return err
	}

	if p.IsDefault {
		return common.ErrConflict.WithDetails("Cannot delete the default profile.")
	}

	p.IsActive = false
	if err := s.repo.Update(ctx, p); err != nil {
		s.logger.Error("Failed to delete profile", zap.String("profileID", profileID.String()), zap.Error(err))
		return fmt.Errorf("failed to delete profile: %w", err)
	}

	s.logger.Info("Profile deleted", zap.String("profileID", p.ID.String()))
	return nil
}

// SummariesForUser implements shared.ProfileSummaryProvider.
func (s *ServiceImplementation) SummariesForUser(ctx context.Context, userID uuid.UUID) ([]shared.ProfileSummary, error) {
	profiles, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]shared.ProfileSummary, 0, len(profiles))
	for i := range profiles {
		count, err := s.repo.CountMappings(ctx, profiles[i].ID)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, ToSummary(&profiles[i], int(count)))
	}
	return summaries, nil
}

// findOwned loads a profile and hides other users' profiles behind not-found.
func (s *ServiceImplementation) findOwned(ctx context.Context, userID, profileID uuid.UUID) (*Profile, error) {
	p, err := s.repo.FindByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, common.ErrNotFound.WithDetails("Profile not found.")
	}
	if !p.IsActive {
		return nil, common.ErrNotFound.WithDetails("Profile not found.")
	}
	return p, nil
}
