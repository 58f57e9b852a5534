package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendListVisibility controls who may list a user's friends.
type FriendListVisibility string

const (
	// VisibilityEveryone makes the friend list visible to anyone, including
	// anonymous viewers (unless the account itself is private).
	VisibilityEveryone FriendListVisibility = "everyone"

	// VisibilityFriends restricts the friend list to accepted friends.
	VisibilityFriends FriendListVisibility = "friends"

	// VisibilityNone hides the friend list from everyone but the user.
	VisibilityNone FriendListVisibility = "none"
)

// User represents an account in the system.
//
// DeletedAt and DeactivatedAt are independent flags; either one marks the
// user inactive for cascade purposes. Both are managed by the lifecycle
// manager, never written directly by handlers.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:255;not null"`
	Username     string `gorm:"size:64;uniqueIndex;not null"`
	Email        string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Bio          string
	Role         string `gorm:"size:50;not null;default:'user';index"`

	AvatarID    *uuid.UUID
	Avatar      *Asset `gorm:"foreignKey:AvatarID"`
	PublicFlags int64  `gorm:"not null;default:0"`

	IsPrivate            bool                 `gorm:"not null;default:false"`
	FriendListVisibility FriendListVisibility `gorm:"type:varchar(20);not null;default:'everyone'"`

	// Denormalized counter kept coherent by the follow handlers.
	FollowerCount int64 `gorm:"not null;default:0"`

	DeletedAt     *time.Time `gorm:"index"`
	DeactivatedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Active reports whether the user is currently active. A user is inactive
// while soft-deleted or deactivated, and both flags must be clear before
// dependent rows may be restored.
func (u *User) Active() bool {
	return u.DeletedAt == nil && u.DeactivatedAt == nil
}
