package models

import (
	"time"

	"github.com/google/uuid"
)

// Image is the metadata row of an object stored in the images bucket.
type Image struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	ChatID      *uuid.UUID `gorm:"type:uuid" json:"chat_id"`
	URL         string     `gorm:"not null" json:"url"`
	StoragePath string     `gorm:"not null" json:"storage_path"`
	FileName    string     `json:"file_name"`
	FileSize    int64      `json:"file_size"`
	MimeType    string     `json:"mime_type"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (Image) TableName() string { return "images" }
