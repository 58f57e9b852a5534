package models

import "time"

// Comment represents a comment under a story.
//
// A comment has two dependencies: its author and its parent story. It stays
// soft-deleted while either one is inactive.
type Comment struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID  uint64 `gorm:"not null;index"`
	StoryID uint64 `gorm:"not null;index"`

	Content string `gorm:"not null"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User  User  `gorm:"foreignKey:UserID"`
	Story Story `gorm:"foreignKey:StoryID"`
}
