// File: internal/auth/service.go
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/shared"
	"github.com/Ninano9/camera/internal/user"

	"go.uber.org/zap"
)

// Service defines authentication business logic.
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*user.User, error)
	Login(ctx context.Context, email, password string) (*user.User, *TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*user.User, *TokenPair, error)
	Logout(ctx context.Context, claims *shared.Claims) error
}

// ServiceImplementation implements Service.
type ServiceImplementation struct {
	users     user.Repository
	tokens    shared.TokenService
	blocklist TokenBlocklistService
	logger    *zap.Logger
}

var _ Service = (*ServiceImplementation)(nil)

// NewService creates a new auth service.
func NewService(
	users user.Repository,
	tokens shared.TokenService,
	blocklist TokenBlocklistService,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		users:     users,
		tokens:    tokens,
		blocklist: blocklist,
		logger:    logger,
	}
}

// Register creates a new user. It deliberately does not issue tokens;
// clients follow up with a login using the same credentials.
func (s *ServiceImplementation) Register(ctx context.Context, req RegisterRequest) (*user.User, error) {
	_, err := s.users.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, common.ErrConflict.WithDetails("User with this email already exists.")
	}
	if !errors.Is(err, common.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user by email: %w", err)
	}

	hashedPassword, err := common.HashPassword(req.Password)
	if err != nil {
		s.logger.Error("Failed to hash password during registration", zap.Error(err))
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	usr := &user.User{
		Email:        req.Email,
		PasswordHash: hashedPassword,
		DisplayName:  req.DisplayName,
		IsActive:     true,
	}
	if err := s.users.Create(ctx, usr); err != nil {
		s.logger.Error("Failed to create user in repository", zap.Error(err), zap.String("email", req.Email))
		if apiErr, ok := common.IsAPIError(err); ok {
			return nil, apiErr
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("User registered successfully", zap.String("userID", usr.ID.String()))
	return usr, nil
}

func (s *ServiceImplementation) Login(ctx context.Context, email, password string) (*user.User, *TokenPair, error) {
	usr, err := s.users.FindActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			s.logger.Info("User not found during login", zap.String("email", email))
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
		}
		s.logger.Error("Error finding user by email during login", zap.Error(err), zap.String("email", email))
		return nil, nil, common.ErrInternalServer.WithDetails("Login failed due to an internal error.")
	}

	if !common.CheckPasswordHash(password, usr.PasswordHash) {
		s.logger.Warn("Invalid password attempt", zap.String("userID", usr.ID.String()))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid email or password.")
	}

	pair, err := s.issuePair(usr)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("User logged in", zap.String("userID", usr.ID.String()))
	return usr, pair, nil
}

// Refresh exchanges a valid refresh token for a brand new token pair.
// Both tokens are rotated together; the pair is never half-renewed.
func (s *ServiceImplementation) Refresh(ctx context.Context, refreshToken string) (*user.User, *TokenPair, error) {
	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		s.logger.Info("Refresh token rejected", zap.Error(err))
		return nil, nil, common.ErrUnauthorized.WithDetails("Invalid refresh token.")
	}

	usr, err := s.users.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, nil, common.ErrUnauthorized.WithDetails("Invalid refresh token.")
		}
		return nil, nil, common.ErrInternalServer.WithDetails("Token refresh failed due to an internal error.")
	}

	pair, err := s.issuePair(usr)
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("Token pair refreshed", zap.String("userID", usr.ID.String()))
	return usr, pair, nil
}

// Logout blocklists the presented access token until its natural expiry.
func (s *ServiceImplementation) Logout(ctx context.Context, claims *shared.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	if err := s.blocklist.AddToBlocklist(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Error("Failed to blocklist token on logout",
			zap.String("jti", claims.ID), zap.Error(err))
		return common.ErrInternalServer.WithDetails("Logout failed.")
	}
	s.logger.Info("User logged out", zap.String("userID", claims.UserID.String()))
	return nil
}

func (s *ServiceImplementation) issuePair(usr *user.User) (*TokenPair, error) {
	accessToken, accessExpiresAt, err := s.tokens.GenerateAccessToken(usr)
	if err != nil {
		s.logger.Error("Failed to generate access token", zap.Error(err), zap.String("userID", usr.ID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not generate access token.")
	}
	refreshToken, _, err := s.tokens.GenerateRefreshToken(usr)
	if err != nil {
		s.logger.Error("Failed to generate refresh token", zap.Error(err), zap.String("userID", usr.ID.String()))
		return nil, common.ErrInternalServer.WithDetails("Could not generate refresh token.")
	}
	return &TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessExpiresAt: accessExpiresAt,
	}, nil
}
