// File: internal/mapping/service.go
package mapping

import (
	"context"
	"fmt"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/profile"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines mapping business logic. Ownership is checked through the
// parent profile on every operation.
type Service interface {
	List(ctx context.Context, userID, profileID uuid.UUID) ([]Mapping, error)
	Create(ctx context.Context, userID, profileID uuid.UUID, req CreateRequest) (*Mapping, error)
	Update(ctx context.Context, userID, mappingID uuid.UUID, req UpdateRequest) (*Mapping, error)
	Delete(ctx context.Context, userID, mappingID uuid.UUID) error

	shared.MappingSummaryProvider
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo     Repository
	profiles profile.Repository
	logger   *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new mapping service.
func NewService(repo Repository, profiles profile.Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:     repo,
		profiles: profiles,
		logger:   logger,
	}
}

func (s *ServiceImplementation) List(ctx context.Context, userID, profileID uuid.UUID) ([]Mapping, error) {
	if err := s.checkProfileOwnership(ctx, userID, profileID); err != nil {
		return nil, err
	}
	return s.repo.FindByProfile(ctx, profileID)
}

func (s *ServiceImplementation) Create(ctx context.Context, userID, profileID uuid.UUID, req CreateRequest) (*Mapping, error) {
	if err := s.checkProfileOwnership(ctx, userID, profileID); err != nil {
		return nil, err
	}

	enabled := true
	if req.Enabled != nil {
		enabled = *req.Enabled
	}

	m := &Mapping{
		ProfileID: profileID,
		Name:      req.Name,
		Condition: req.Condition,
		Action:    req.Action,
		Priority:  req.Priority,
		Enabled:   enabled,
	}
	if err := s.repo.Create(ctx, m); err != nil {
		s.logger.Error("Failed to create mapping",
			zap.String("profileID", profileID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to create mapping: %w", err)
	}

	s.logger.Info("Mapping created",
		zap.String("mappingID", m.ID.String()), zap.String("profileID", profileID.String()))
	return m, nil
}

func (s *ServiceImplementation) Update(ctx context.Context, userID, mappingID uuid.UUID, req UpdateRequest) (*Mapping, error) {
	m, err := s.findOwned(ctx, userID, mappingID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		m.Name = *req.Name
	}
	if req.Condition != nil {
		m.Condition = req.Condition
	}
	if req.Action != nil {
		m.Action = req.Action
	}
	if req.Priority != nil {
		m.Priority = *req.Priority
	}
	if req.Enabled != nil {
		m.Enabled = *req.Enabled
	}

	if err := s.repo.Update(ctx, m); err != nil {
		s.logger.Error("Failed to update mapping", zap.String("mappingID", mappingID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to update mapping: %w", err)
	}

	s.logger.Info("Mapping updated", zap.String("mappingID", m.ID.String()))
	return m, nil
}

func (s *ServiceImplementation) Delete(ctx context.Context, userID, mappingID uuid.UUID) error {
	m, err := s.findOwned(ctx, userID, mappingID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, m.ID); err != nil {
		s.logger.Error("Failed to delete mapping", zap.String("mappingID", mappingID.String()), zap.Error(err))
		return fmt.Errorf("failed to delete mapping: %w", err)
	}

	s.logger.Info("Mapping deleted", zap.String("mappingID", m.ID.String()))
	return nil
}

// SummariesForProfile implements shared.MappingSummaryProvider. Only enabled
// mappings are embedded in profile responses.
func (s *ServiceImplementation) SummariesForProfile(ctx context.Context, profileID uuid.UUID) ([]shared.MappingSummary, error) {
	mappings, err := s.repo.FindByProfile(ctx, profileID)
	if err != nil {
		return nil, err
	}

	summaries := make([]shared.MappingSummary, 0, len(mappings))
	for i := range mappings {
		if !mappings[i].Enabled {
			continue
		}
		summaries = append(summaries, ToSummary(&mappings[i]))
	}
	return summaries, nil
}

func (s *ServiceImplementation) checkProfileOwnership(ctx context.Context, userID, profileID uuid.UUID) error {
	p, err := s.profiles.FindByID(ctx, profileID)
	if err != nil {
		return err
	}
	if p.UserID != userID || !p.IsActive {
		return common.ErrNotFound.WithDetails("Profile not found.")
	}
	return nil
}

func (s *ServiceImplementation) findOwned(ctx context.Context, userID, mappingID uuid.UUID) (*Mapping, error) {
	m, err := s.repo.FindByID(ctx, mappingID)
	if err != nil {
		return nil, err
	}
	if err := s.checkProfileOwnership(ctx, userID, m.ProfileID); err != nil {
		return nil, common.ErrNotFound.WithDetails("Mapping not found.")
	}
	return m, nil
}
