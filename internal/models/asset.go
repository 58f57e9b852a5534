package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset represents an uploaded media object. Assets are independently owned:
// they survive the uploader's soft delete, and on hard delete only the
// owning reference is cleared, the row itself stays.
type Asset struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID *uint64   `gorm:"index"`

	Key         string `gorm:"size:512;not null"`
	ContentType string `gorm:"size:100"`
	Size        int64

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
