package models

import "time"

// Engagement rows (likes, bookmarks, reading histories) all have two
// lifecycle dependencies: the engaging user and the target content row.

// StoryLike represents a user liking a story.
type StoryLike struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_story_like_pair,priority:1"`
	StoryID uint64 `gorm:"not null;uniqueIndex:idx_story_like_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// CommentLike represents a user liking a comment.
type CommentLike struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	UserID    uint64 `gorm:"not null;uniqueIndex:idx_comment_like_pair,priority:1"`
	CommentID uint64 `gorm:"not null;uniqueIndex:idx_comment_like_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// ReplyLike represents a user liking a reply.
type ReplyLike struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_reply_like_pair,priority:1"`
	ReplyID uint64 `gorm:"not null;uniqueIndex:idx_reply_like_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Bookmark represents a user bookmarking a story.
type Bookmark struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_bookmark_pair,priority:1"`
	StoryID uint64 `gorm:"not null;uniqueIndex:idx_bookmark_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// History represents a story appearing in a user's reading history.
type History struct {
	ID      uint64 `gorm:"primaryKey;autoIncrement"`
	UserID  uint64 `gorm:"not null;uniqueIndex:idx_history_pair,priority:1"`
	StoryID uint64 `gorm:"not null;uniqueIndex:idx_history_pair,priority:2;index"`

	DeletedAt *time.Time `gorm:"index"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
