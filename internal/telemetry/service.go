// File: internal/telemetry/service.go
package telemetry

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines telemetry business logic.
type Service interface {
	Record(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Record, error)
	// Purge removes records older than the given retention window and
	// returns how many rows were deleted.
	Purge(ctx context.Context, retentionDays int) (int64, error)
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new telemetry service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger,
	}
}

func (s *ServiceImplementation) Record(ctx context.Context, userID uuid.UUID, req CreateRequest) (*Record, error) {
	recordedAt := time.Now()
	if req.RecordedAt != nil {
		recordedAt = *req.RecordedAt
	}

	record := &Record{
		UserID:     userID,
		SessionID:  req.SessionID,
		EventType:  req.EventType,
		Payload:    req.Payload,
		RecordedAt: recordedAt,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to store telemetry record",
			zap.String("userID", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to store telemetry record: %w", err)
	}
	return record, nil
}

func (s *ServiceImplementation) Purge(ctx context.Context, retentionDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	deleted, err := s.repo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge telemetry: %w", err)
	}
	return deleted, nil
}
