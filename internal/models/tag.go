package models

import "time"

// Tag represents a story tag (e.g. "fiction", "poetry"). Tags have no
// lifecycle of their own.
type Tag struct {
	ID   uint64 `gorm:"primaryKey;autoIncrement"`
	Name string `gorm:"size:100;uniqueIndex;not null"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TagFollower represents a user following a tag. Its only lifecycle
// dependency is the user.
type TagFollower struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;uniqueIndex:idx_tag_follower_pair,priority:1"`
	TagID  uint64 `gorm:"not null;uniqueIndex:idx_tag_follower_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	User User `gorm:"foreignKey:UserID"`
	Tag  Tag  `gorm:"foreignKey:TagID"`
}
