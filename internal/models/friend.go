package models

import "time"

// Friend represents a friendship edge between two users.
//
// The row is created when TransmitterID sends a request to ReceiverID and
// becomes an accepted, bidirectional friendship once AcceptedAt is set.
// Uniqueness is per ordered pair; the application never creates both
// directions for the same pair.
type Friend struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	TransmitterID uint64 `gorm:"not null;uniqueIndex:idx_friend_pair,priority:1;index"`
	ReceiverID    uint64 `gorm:"not null;uniqueIndex:idx_friend_pair,priority:2;index"`

	AcceptedAt *time.Time
	DeletedAt  *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Transmitter User `gorm:"foreignKey:TransmitterID"`
	Receiver    User `gorm:"foreignKey:ReceiverID"`
}

// Accepted reports whether the request has been accepted.
func (f *Friend) Accepted() bool { return f.AcceptedAt != nil }
