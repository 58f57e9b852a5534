// Package friends computes privacy-aware, ranked, paginated friend listings.
package friends

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PageSize is the fixed number of rows per page.
const PageSize = 10

// Sort selects the ordering of a friend listing.
type Sort string

const (
	SortRecent  Sort = "recent"
	SortOld     Sort = "old"
	SortPopular Sort = "popular"
)

// Params are the validated inputs of a listing. The HTTP layer owns
// range/format validation; the builder assumes well-formed values.
type Params struct {
	SubjectID uint64
	ViewerID  *uint64
	Page      int
	Sort      Sort
	Search    string
}

// Summary is one row of the listing. The relevance rank participates in
// ordering but is not part of the output.
type Summary struct {
	ID          uint64     `gorm:"column:id" json:"id"`
	Name        string     `gorm:"column:name" json:"name"`
	Username    string     `gorm:"column:username" json:"username"`
	AvatarID    *uuid.UUID `gorm:"column:avatar_id" json:"avatar_id"`
	PublicFlags int64      `gorm:"column:public_flags" json:"public_flags"`
	IsFollower  bool       `gorm:"column:is_follower" json:"is_follower"`
	IsFollowing bool       `gorm:"column:is_following" json:"is_following"`
	IsFriend    bool       `gorm:"column:is_friend" json:"is_friend"`
}

// Builder composes the listing query out of independent fragments selected
// by the input flags (viewer present, search present, sort mode). Fragments
// are separate methods so clause presence and bind order stay testable in
// isolation.
type Builder struct {
	db *gorm.DB
	p  Params
}

// NewBuilder creates a builder over the given connection.
func NewBuilder(db *gorm.DB, p Params) *Builder {
	return &Builder{db: db, p: p}
}

// Candidates is the base fragment: accepted, live friend edges touching the
// subject, joined to the user on the other side.
func (b *Builder) Candidates() *gorm.DB {
	return b.db.
		Table("friends f").
		Joins(
			"JOIN users u ON u.id = CASE WHEN f.transmitter_id = ? THEN f.receiver_id ELSE f.transmitter_id END",
			b.p.SubjectID,
		).
		Where("f.transmitter_id = ? OR f.receiver_id = ?", b.p.SubjectID, b.p.SubjectID).
		Where("f.accepted_at IS NOT NULL").
		Where("f.deleted_at IS NULL")
}

// WithSearch narrows candidates to relevance matches. Postgres uses
// full-text matching over name and username; the SQLite used by tests has
// no tsquery support, so a LIKE filter stands in.
func (b *Builder) WithSearch(q *gorm.DB) *gorm.DB {
	if b.db.Dialector.Name() == "postgres" {
		return q.Where(
			"to_tsvector('simple', u.name || ' ' || u.username) @@ plainto_tsquery('simple', ?)",
			b.p.Search,
		)
	}
	pat := "%" + b.p.Search + "%"
	return q.Where("(u.name LIKE ? OR u.username LIKE ?)", pat, pat)
}

// rankExpr is the relevance score selected as search_rank and used as the
// primary ordering key while searching.
func (b *Builder) rankExpr() (string, []interface{}) {
	if b.db.Dialector.Name() == "postgres" {
		return "ts_rank(to_tsvector('simple', u.name || ' ' || u.username), plainto_tsquery('simple', ?))",
			[]interface{}{b.p.Search}
	}
	return "(CASE WHEN u.username = ? OR u.name = ? THEN 2 WHEN u.name LIKE ? THEN 1 ELSE 0 END)",
		[]interface{}{b.p.Search, b.p.Search, "%" + b.p.Search + "%"}
}

// Projected selects the output row. When a viewer is present the three
// relationship flags are computed as independent subselects against the
// viewer, not derived from the candidate edge; while searching the rank is
// carried as an extra column for ordering.
func (b *Builder) Projected(q *gorm.DB) *gorm.DB {
	sql := "u.id, u.name, u.username, u.avatar_id, u.public_flags"
	var args []interface{}

	if b.p.ViewerID != nil {
		viewer := *b.p.ViewerID
		sql += `,
		EXISTS (SELECT 1 FROM relations r WHERE r.follower_id = u.id AND r.followed_id = ? AND r.deleted_at IS NULL) AS is_follower,
		EXISTS (SELECT 1 FROM relations r WHERE r.follower_id = ? AND r.followed_id = u.id AND r.deleted_at IS NULL) AS is_following,
		EXISTS (
			SELECT 1 FROM friends f2
			WHERE ((f2.transmitter_id = ? AND f2.receiver_id = u.id) OR (f2.transmitter_id = u.id AND f2.receiver_id = ?))
			  AND f2.accepted_at IS NOT NULL AND f2.deleted_at IS NULL
		) AS is_friend`
		args = append(args, viewer, viewer, viewer, viewer)
	} else {
		sql += ", 0 AS is_follower, 0 AS is_following, 0 AS is_friend"
	}

	if b.p.Search != "" {
		rank, rankArgs := b.rankExpr()
		sql += ", " + rank + " AS search_rank"
		args = append(args, rankArgs...)
	}

	return q.Select(sql, args...)
}

// Ordered applies the sort mode, with the relevance score first while
// searching. Unknown modes fall back to newest-first.
func (b *Builder) Ordered(q *gorm.DB) *gorm.DB {
	if b.p.Search != "" {
		q = q.Order("search_rank DESC")
	}
	switch b.p.Sort {
	case SortOld:
		return q.Order("f.created_at ASC")
	case SortPopular:
		return q.Order("u.follower_count DESC")
	default:
		return q.Order("f.created_at DESC")
	}
}

// Paged applies the fixed page size with a 1-based page number.
func (b *Builder) Paged(q *gorm.DB) *gorm.DB {
	return q.Offset((b.p.Page - 1) * PageSize).Limit(PageSize)
}

// Build assembles the full listing query from the fragments the params call
// for.
func (b *Builder) Build() *gorm.DB {
	q := b.Candidates()
	if b.p.Search != "" {
		q = b.WithSearch(q)
	}
	q = b.Projected(q)
	q = b.Ordered(q)
	return b.Paged(q)
}
