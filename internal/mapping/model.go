// File: internal/mapping/model.go
package mapping

import (
	"time"

	"github.com/Ninano9/camera/internal/common"
	"github.com/Ninano9/camera/internal/shared"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Mapping is a condition→action rule scoped to a profile.
type Mapping struct {
	common.BaseModel
	ProfileID uuid.UUID         `gorm:"type:uuid;not null;index"`
	Name      string            `gorm:"type:varchar(100);not null"`
	Condition datatypes.JSONMap `gorm:"type:jsonb;not null"`
	Action    datatypes.JSONMap `gorm:"type:jsonb;not null"`
	Priority  int               `gorm:"not null;default:0"`
	Enabled   bool              `gorm:"not null;default:true"`
}

// TableName specifies the table name for the Mapping model.
func (Mapping) TableName() string {
	return "mappings"
}

// --- DTOs for API requests/responses ---

// CreateRequest defines the structure for creating a new mapping.
type CreateRequest struct {
	Name      string                 `json:"name" binding:"required,max=100"`
	Condition map[string]interface{} `json:"condition" binding:"required"`
	Action    map[string]interface{} `json:"action" binding:"required"`
	Priority  int                    `json:"priority,omitempty"`
	Enabled   *bool                  `json:"enabled,omitempty"`
}

// UpdateRequest defines the partial update accepted by PUT /mappings/:id.
type UpdateRequest struct {
	Name      *string                `json:"name,omitempty" binding:"omitempty,max=100"`
	Condition map[string]interface{} `json:"condition,omitempty"`
	Action    map[string]interface{} `json:"action,omitempty"`
	Priority  *int                   `json:"priority,omitempty"`
	Enabled   *bool                  `json:"enabled,omitempty"`
}

// Response defines the structure for mapping data sent in API responses.
type Response struct {
	ID        uuid.UUID         `json:"id"`
	ProfileID uuid.UUID         `json:"profileId"`
	Name      string            `json:"name"`
	Condition datatypes.JSONMap `json:"condition"`
	Action    datatypes.JSONMap `json:"action"`
	Priority  int               `json:"priority"`
	Enabled   bool              `json:"enabled"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ToResponse converts a Mapping model to a Response DTO.
func ToResponse(m *Mapping) Response {
	return Response{
		ID:        m.ID,
		ProfileID: m.ProfileID,
		Name:      m.Name,
		Condition: m.Condition,
		Action:    m.Action,
		Priority:  m.Priority,
		Enabled:   m.Enabled,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// ToSummary converts a Mapping to the compact shape embedded in profile responses.
func ToSummary(m *Mapping) shared.MappingSummary {
	return shared.MappingSummary{
		ID:        m.ID,
		Name:      m.Name,
		Condition: m.Condition,
		Action:    m.Action,
		Priority:  m.Priority,
		Enabled:   m.Enabled,
	}
}
