package models

import "time"

// Relation represents a follow edge: FollowerID follows FollowedID.
type Relation struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	FollowerID uint64 `gorm:"not null;uniqueIndex:idx_relation_pair,priority:1;index"`
	FollowedID uint64 `gorm:"not null;uniqueIndex:idx_relation_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Follower User `gorm:"foreignKey:FollowerID"`
	Followed User `gorm:"foreignKey:FollowedID"`
}
