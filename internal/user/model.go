// File: internal/user/model.go
package user

import (
	"time"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt
	Email            string  `gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash     string  `gorm:"type:varchar(255);not null"`
	DisplayName      *string `gorm:"type:varchar(100)"`
	IsActive         bool    `gorm:"not null;default:true"`
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

// --- DTOs for API requests/responses ---

// UpdateRequest defines the partial update accepted by PUT /users/me.
type UpdateRequest struct {
	DisplayName *string `json:"displayName,omitempty" binding:"omitempty,max=100"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

// Response defines the structure for user data sent in API responses.
type Response struct {
	ID          uuid.UUID               `json:"id"`
	Email       string                  `json:"email"`
	DisplayName *string                 `json:"displayName,omitempty"`
	IsActive    bool                    `json:"isActive"`
	CreatedAt   time.Time               `json:"createdAt"`
	Profiles    []shared.ProfileSummary `json:"profiles,omitempty"`
}

// ToResponse converts a User model to a Response DTO.
func ToResponse(u *User) Response {
	return Response{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		IsActive:    u.IsActive,
		CreatedAt:   u.CreatedAt,
	}
}
