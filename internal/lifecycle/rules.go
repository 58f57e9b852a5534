package lifecycle

// parent identifies a table a dependent row may depend on, together with the
// SQL predicate (over alias "p") that decides whether a row of that table is
// currently active.
type parent struct {
	table string
	alive string
}

var (
	parentUser    = parent{table: "users", alive: "p.deleted_at IS NULL AND p.deactivated_at IS NULL"}
	parentStory   = parent{table: "stories", alive: "p.deleted_at IS NULL"}
	parentComment = parent{table: "comments", alive: "p.deleted_at IS NULL"}
	parentReply   = parent{table: "replies", alive: "p.deleted_at IS NULL"}
)

// dependency binds a foreign-key column of the dependent table to its parent.
type dependency struct {
	column string
	parent parent
}

// hardAction is what happens to a table's rows when the owning user is hard
// deleted.
type hardAction int

const (
	// hardDelete removes the user's ownership closure outright.
	hardDelete hardAction = iota
	// hardNullify clears the owning reference and keeps the row.
	hardNullify
)

// rule declares the cascade policy for one dependent table.
//
// softDelete tables follow the full cascade: soft-deleted while any
// dependency is inactive, restored once every dependency is active again.
// purgeOnInactive tables (notifications) are removed outright as soon as
// their owner goes inactive and have no restore semantics. Tables with
// neither flag are untouched until the owner's hard delete.
type rule struct {
	table           string
	deps            []dependency
	softDelete      bool
	purgeOnInactive bool
	onHardDelete    hardAction
}

// rules is the per-entity-type cascade policy table, ordered parents before
// children. Both sweeps walk it top to bottom so that a parent's updated
// liveness is visible to its dependents within the same pass; the hard
// delete walks it bottom to top so children go before the rows their scoping
// subqueries reference.
var rules = []rule{
	{
		table:      "stories",
		deps:       []dependency{{"user_id", parentUser}},
		softDelete: true,
	},
	{
		table:      "comments",
		deps:       []dependency{{"user_id", parentUser}, {"story_id", parentStory}},
		softDelete: true,
	},
	{
		table:      "replies",
		deps:       []dependency{{"user_id", parentUser}, {"comment_id", parentComment}},
		softDelete: true,
	},
	{
		table:      "story_likes",
		deps:       []dependency{{"user_id", parentUser}, {"story_id", parentStory}},
		softDelete: true,
	},
	{
		table:      "comment_likes",
		deps:       []dependency{{"user_id", parentUser}, {"comment_id", parentComment}},
		softDelete: true,
	},
	{
		table:      "reply_likes",
		deps:       []dependency{{"user_id", parentUser}, {"reply_id", parentReply}},
		softDelete: true,
	},
	{
		table:      "bookmarks",
		deps:       []dependency{{"user_id", parentUser}, {"story_id", parentStory}},
		softDelete: true,
	},
	{
		table:      "histories",
		deps:       []dependency{{"user_id", parentUser}, {"story_id", parentStory}},
		softDelete: true,
	},
	{
		table:      "tag_followers",
		deps:       []dependency{{"user_id", parentUser}},
		softDelete: true,
	},
	{
		table:      "friends",
		deps:       []dependency{{"transmitter_id", parentUser}, {"receiver_id", parentUser}},
		softDelete: true,
	},
	{
		table:      "relations",
		deps:       []dependency{{"follower_id", parentUser}, {"followed_id", parentUser}},
		softDelete: true,
	},
	{
		table:      "blocks",
		deps:       []dependency{{"blocker_id", parentUser}, {"blocked_id", parentUser}},
		softDelete: true,
	},
	{
		table:      "mutes",
		deps:       []dependency{{"muter_id", parentUser}, {"muted_id", parentUser}},
		softDelete: true,
	},
	{
		table:           "notifications",
		deps:            []dependency{{"notifier_id", parentUser}},
		purgeOnInactive: true,
	},
	{
		table:           "notification_outs",
		deps:            []dependency{{"notified_id", parentUser}},
		purgeOnInactive: true,
	},
	{
		table: "connections",
		deps:  []dependency{{"user_id", parentUser}},
	},
	{
		table: "account_activities",
		deps:  []dependency{{"user_id", parentUser}},
	},
	{
		table: "notification_settings",
		deps:  []dependency{{"user_id", parentUser}},
	},
	{
		table:        "assets",
		deps:         []dependency{{"user_id", parentUser}},
		onHardDelete: hardNullify,
	},
}
