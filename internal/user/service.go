// File: internal/user/service.go
package user

import (
	"context"
	"fmt"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines user-related business logic.
type Service interface {
	// GetMe returns the current user together with their profile summaries.
	GetMe(ctx context.Context, userID uuid.UUID) (*User, []shared.ProfileSummary, error)
	Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*User, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	profiles shared.ProfileSummaryProvider
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new user service.
func NewService(repo Repository, profiles shared.ProfileSummaryProvider, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		profiles: profiles,
		logger:   logger,
	}
}

func (s *ServiceImplementation) GetMe(ctx context.Context, userID uuid.UUID) (*User, []shared.ProfileSummary, error) {
	usr, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}

	summaries, err := s.profiles.SummariesForUser(ctx, userID)
	if err != nil {
		// Profile summaries are decoration on the user record; do not fail the whole read.
		s.logger.Warn("Failed to load profile summaries for user",
			zap.String("userID", userID.String()), zap.Error(err))
		summaries = nil
	}

	return usr, summaries, nil
}

func (s *ServiceImplementation) Update(ctx context.Context, userID uuid.UUID, req UpdateRequest) (*User, error) {
	usr, err := s.repo.FindActiveByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		usr.DisplayName = req.DisplayName
	}
	if req.IsActive != nil {
		usr.IsActive = *req.IsActive
	}

	if err := s.repo.Update(ctx, usr); err != nil {
		s.logger.Error("Failed to update user", zap.String("userID", userID.String()), zap.Error(err))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.logger.Info("User updated", zap.String("userID", usr.ID.String()))
	return usr, nil
}
