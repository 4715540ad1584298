// File: internal/profile/model.go
package profile

import (
	"time"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Profile represents a named collection of interaction context owned by a user.
type Profile struct {
	common.BaseModel
	UserID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name        string            `gorm:"type:varchar(100);not null"`
	Description *string           `gorm:"type:text"`
	Context     datatypes.JSONMap `gorm:"type:jsonb"`
	IsDefault   bool              `gorm:"not null;default:false"`
	IsActive    bool              `gorm:"not null;default:true"`
}

// TableName specifies the table name for the Profile model.
func (Profile) TableName() string {
	return "profiles"
}

// --- DTOs for API requests/responses ---

// CreateRequest defines the structure for creating a new profile.
type CreateRequest struct {
	Name        string                 `json:"name" binding:"required,max=100"`
	Description *string                `json:"description,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	IsDefault   bool                   `json:"isDefault,omitempty"`
}

// UpdateRequest defines the partial update accepted by PUT /profiles/:id.
type UpdateRequest struct {
	Name        *string                `json:"name,omitempty" binding:"omitempty,max=100"`
	Description *string                `json:"description,omitempty"`
	Context     map[string]interface{} `json:"context,omitempty"`
	IsDefault   *bool                  `json:"isDefault,omitempty"`
	IsActive    *bool                  `json:"isActive,omitempty"`
}

// Response defines the structure for profile data sent in API responses.
type Response struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Description *string                 `json:"description,omitempty"`
	Context     datatypes.JSONMap       `json:"context"`
	IsDefault   bool                    `json:"isDefault"`
	IsActive    bool                    `json:"isActive"`
	CreatedAt   time.Time               `json:"createdAt"`
	UpdatedAt   time.Time               `json:"updatedAt"`
	Mappings    []shared.MappingSummary `json:"mappings,omitempty"`
}

// ToResponse converts a Profile model to a Response DTO.
func ToResponse(p *Profile) Response {
	return Response{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Context:     p.Context,
		IsDefault:   p.IsDefault,
		IsActive:    p.IsActive,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToSummary converts a Profile to the compact shape embedded in user responses.
func ToSummary(p *Profile, mappingCount int) shared.ProfileSummary {
	return shared.ProfileSummary{
		ID:           p.ID,
		Name:         p.Name,
		Description:  p.Description,
		IsDefault:    p.IsDefault,
		IsActive:     p.IsActive,
		MappingCount: mappingCount,
	}
}
