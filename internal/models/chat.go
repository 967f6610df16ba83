package models

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Chat is a conversation between one user and one persona in a workspace.
type Chat struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	AIModelID   uuid.UUID `gorm:"column:ai_model_id;type:uuid;not null;index" json:"ai_model_id"`
	Title       string    `gorm:"not null" json:"title"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Chat) TableName() string { return "chats" }

// Message stores one prompt and the persona's response to it.
type Message struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ChatID      uuid.UUID `gorm:"type:uuid;not null;index" json:"chat_id"`
	UserID      uuid.UUID `gorm:"type:uuid;not null" json:"user_id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null" json:"workspace_id"`
	AIModelID   uuid.UUID `gorm:"column:ai_model_id;type:uuid;not null" json:"ai_model_id"`
	Prompt      string    `json:"prompt"`
	Response    string    `json:"response"`
	CreatedAt   time.Time `json:"created_at"`
}

func (Message) TableName() string { return "messages" }
