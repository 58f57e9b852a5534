package models

import "time"

// Notification represents an outgoing notification authored by NotifierID.
// Notifications are not soft-deletable: they are removed outright as soon as
// the owning user becomes inactive, and are never restored.
type Notification struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	NotifierID uint64 `gorm:"not null;index"`
	NotifiedID uint64 `gorm:"not null;index"`

	Kind string `gorm:"size:50;not null"`
	Body string

	ReadAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// NotificationOut represents a delivered notification owned by its recipient.
// Same removal semantics as Notification, keyed on the recipient.
type NotificationOut struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement"`
	NotifiedID uint64 `gorm:"not null;index"`

	Kind string `gorm:"size:50;not null"`
	Body string

	ReadAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// NotificationSettings holds a user's notification preferences. Exclusively
// owned; removed only with the user's hard delete.
type NotificationSettings struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"not null;uniqueIndex"`

	EmailEnabled bool `gorm:"not null;default:true"`
	PushEnabled  bool `gorm:"not null;default:true"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
