// File: internal/shared/core.go
package shared

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// UserDataForToken abstracts the user data needed for token generation.
type UserDataForToken interface {
	GetID() uuid.UUID
	GetEmail() string
}

// TokenService defines the interface for JWT operations.
type TokenService interface {
	GenerateAccessToken(userData UserDataForToken) (string, time.Time, error)
	GenerateRefreshToken(userData UserDataForToken) (string, time.Time, error)
	// ValidateAccessToken rejects refresh tokens presented as access tokens.
	ValidateAccessToken(tokenString string) (*Claims, error)
	// ParseRefreshToken validates a refresh token and returns its claims.
	ParseRefreshToken(refreshTokenString string) (*Claims, error)
}

// Claims represents the JWT claims structure.
type Claims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	TokenType string    `json:"typ"` // "access" or "refresh"
	jwt.RegisteredClaims
}

// ProfileSummary is the compact profile shape embedded in user responses.
type ProfileSummary struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description,omitempty"`
	IsDefault    bool      `json:"isDefault"`
	IsActive     bool      `json:"isActive"`
	MappingCount int       `json:"mappingCount"`
}

// ProfileSummaryProvider lets the user module embed profile summaries
// without importing the profile module.
type ProfileSummaryProvider interface {
	SummariesForUser(ctx context.Context, userID uuid.UUID) ([]ProfileSummary, error)
}

// MappingSummary is the compact mapping shape embedded in profile responses.
type MappingSummary struct {
	ID        uuid.UUID         `json:"id"`
	Name      string            `json:"name"`
	Condition datatypes.JSONMap `json:"condition"`
	Action    datatypes.JSONMap `json:"action"`
	Priority  int               `json:"priority"`
	Enabled   bool              `json:"enabled"`
}

// MappingSummaryProvider lets the profile module embed mapping summaries
// without importing the mapping module.
type MappingSummaryProvider interface {
	SummariesForProfile(ctx context.Context, profileID uuid.UUID) ([]MappingSummary, error)
}
