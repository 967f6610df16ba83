package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Workspace holds the user's profile and onboarding progress. Chats and
// personas hang off it.
type Workspace struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	Name   string    `json:"name"`

	Age             *int                        `json:"age"`
	Gender          string                      `json:"gender"`
	Interests       datatypes.JSONSlice[string] `json:"interests"`
	Goals           datatypes.JSONSlice[string] `json:"goals"`
	PersonalityType string                      `json:"personality_type"`

	PreferredCommunication datatypes.JSONSlice[string] `json:"preferred_communication"`
	PrivacyLevel           string                      `json:"privacy_level"`
	MemoryEnabled          *bool                       `json:"memory_enabled"`

	CurrentStep        int  `gorm:"not null;default:1" json:"current_step"`
	OnboardingComplete bool `gorm:"not null;default:false" json:"onboarding_complete"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Workspace) TableName() string { return "workspaces" }
