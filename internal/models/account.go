package models

import (
	"time"

	"github.com/google/uuid"
)

// Connection represents an authenticated device/session. Exclusively owned;
// untouched by deactivation and soft delete, removed on hard delete.
type Connection struct {
	ID     uint64    `gorm:"primaryKey;autoIncrement"`
	UserID uint64    `gorm:"not null;index"`
	Token  uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`

	UserAgent string `gorm:"size:512"`
	IP        string `gorm:"size:64"`

	LastSeenAt time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime"`
}

// AccountActivity records a security-relevant account event (login, password
// change, lifecycle transition). Exclusively owned; removed on hard delete.
type AccountActivity struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;index"`

	Action string `gorm:"size:100;not null"`
	IP     string `gorm:"size:64"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
