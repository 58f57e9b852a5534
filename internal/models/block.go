package models

import "time"

// Block represents one user blocking another.
type Block struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	BlockerID uint64 `gorm:"not null;uniqueIndex:idx_block_pair,priority:1;index"`
	BlockedID uint64 `gorm:"not null;uniqueIndex:idx_block_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Blocker User `gorm:"foreignKey:BlockerID"`
	Blocked User `gorm:"foreignKey:BlockedID"`
}
