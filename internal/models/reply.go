package models

import "time"

// Reply represents a reply under a comment. Like Comment it has two
// dependencies: its author and its parent comment.
type Reply struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;index"`
	CommentID uint64 `gorm:"not null;index"`

	Content string `gorm:"not null"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User    User    `gorm:"foreignKey:UserID"`
	Comment Comment `gorm:"foreignKey:CommentID"`
}
