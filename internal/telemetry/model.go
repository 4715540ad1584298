// File: internal/telemetry/model.go
package telemetry

import (
	"time"

	"github.com/Ninano9/camera/internal/common"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Record captures a single client-side interaction event.
type Record struct {
	common.BaseModel
	UserID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	SessionID  string            `gorm:"type:varchar(64);not null;index"`
	EventType  string            `gorm:"type:varchar(50);not null"`
	Payload    datatypes.JSONMap `gorm:"type:jsonb"`
	RecordedAt time.Time         `gorm:"not null;index"`
}

// TableName specifies the table name for the Record model.
func (Record) TableName() string {
	return "telemetry"
}

// CreateRequest defines the structure for reporting a telemetry event.
type CreateRequest struct {
	SessionID  string                 `json:"sessionId" binding:"required,max=64"`
	EventType  string                 `json:"eventType" binding:"required,max=50"`
	Payload    map[string]interface{} `json:"payload,omitempty"`
	RecordedAt *time.Time             `json:"recordedAt,omitempty"`
}
