package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AIModelConfig carries the persona's display colours.
type AIModelConfig struct {
	Bg    string `json:"bg,omitempty"`
	Hover string `json:"hover,omitempty"`
}

// AIModel is a persona. A nil WorkspaceID marks a global default.
type AIModel struct {
	ID             uuid.UUID                         `gorm:"type:uuid;primaryKey" json:"id"`
	WorkspaceID    *uuid.UUID                        `gorm:"type:uuid;index" json:"workspace_id"`
	Name           string                            `gorm:"not null" json:"name"`
	Role           string                            `gorm:"not null" json:"role"`
	Personality    string                            `gorm:"not null" json:"personality"`
	Predefined     bool                              `json:"predefined"`
	Topics         datatypes.JSONSlice[string]       `json:"topics"`
	SystemPrompt   string                            `json:"system_prompt"`
	CustomTriggers datatypes.JSONSlice[string]       `json:"custom_triggers"`
	Config         datatypes.JSONType[AIModelConfig] `json:"config"`
	IsActive       bool                              `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time                         `json:"created_at"`
	UpdatedAt      time.Time                         `json:"updated_at"`
}

func (AIModel) TableName() string { return "ai_models" }

// IsGlobal reports whether the persona is shared by every workspace.
func (m *AIModel) IsGlobal() bool {
	return m.WorkspaceID == nil
}
