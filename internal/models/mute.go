package models

import "time"

// Mute represents one user muting another.
type Mute struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	MuterID uint64 `gorm:"not null;uniqueIndex:idx_mute_pair,priority:1;index"`
	MutedID uint64 `gorm:"not null;uniqueIndex:idx_mute_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Muter User `gorm:"foreignKey:MuterID"`
	Muted User `gorm:"foreignKey:MutedID"`
}
