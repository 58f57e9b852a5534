// Package lifecycle implements user lifecycle transitions and the cascade
// rules that keep dependent rows (content, relationships, engagement)
// consistent with the liveness of everything they depend on.
package lifecycle

import (
	"time"

	"storiny/backend/internal/models"
)

// State is the lifecycle view of a single entity: whether it is currently
// soft-deleted and, for users, whether it is deactivated.
type State struct {
	Deleted     bool
	Deactivated bool
}

// Alive reports whether the entity itself is active.
func (s State) Alive() bool {
	return !s.Deleted && !s.Deactivated
}

// UserState derives the lifecycle state of a user row.
func UserState(u *models.User) State {
	return State{
		Deleted:     u.DeletedAt != nil,
		Deactivated: u.DeactivatedAt != nil,
	}
}

// ContentState derives the lifecycle state of a content row from its own
// deleted_at flag. Inactivity of a grandparent has already propagated into
// that flag by the cascade, so one level is enough.
func ContentState(deletedAt *time.Time) State {
	return State{Deleted: deletedAt != nil}
}

// AllAlive is the liveness predicate: a dependent row should be active iff
// every entity in its dependency set is itself active.
func AllAlive(deps ...State) bool {
	for _, d := range deps {
		if !d.Alive() {
			return false
		}
	}
	return true
}
