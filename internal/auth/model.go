// File: internal/auth/model.go
package auth

import (
	"time"

	"github.com/Ninano9/camera/internal/user"
)

// LoginRequest is the body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest is the body for POST /auth/register.
// Registration returns the user record only; it does not authenticate.
type RegisterRequest struct {
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,max=100"`
}

// TokenPair carries a freshly issued access/refresh token pair.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessExpiresAt time.Time
}

// LoginResponse is the body returned by login and refresh.
type LoginResponse struct {
	AccessToken  string        `json:"accessToken"`
	RefreshToken string        `json:"refreshToken"`
	User         user.Response `json:"user"`
}
