package lifecycle

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"storiny/backend/internal/models"
)

// ErrInconsistent marks a cascade invariant violation. The enclosing
// transaction aborts; nothing is repaired in place.
var ErrInconsistent = errors.New("cascade invariant violated")

// Manager orchestrates user lifecycle transitions. Every transition updates
// the user row's flags and applies the full cascade in a single transaction;
// a failure anywhere rolls the whole transition back.
type Manager struct {
	db     *gorm.DB
	engine *Engine
}

// NewManager creates a lifecycle manager bound to the given DB connection.
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db, engine: NewEngine()}
}

// Engine exposes the cascade engine, mainly for consistency audits.
func (m *Manager) Engine() *Engine { return m.engine }

// Deactivate marks the user deactivated and cascades inactivity to
// everything they own or participate in. Deactivating an already
// deactivated user is a no-op.
func (m *Manager) Deactivate(ctx context.Context, userID uint64) error {
	return m.transition(ctx, userID, "account.deactivate", func(u *models.User, now time.Time) bool {
		if u.DeactivatedAt != nil {
			return false
		}
		u.DeactivatedAt = &now
		return true
	})
}

// Activate clears the deactivation flag. Dependents are restored only if
// the user actually becomes active, i.e. is not also soft-deleted.
func (m *Manager) Activate(ctx context.Context, userID uint64) error {
	return m.transition(ctx, userID, "account.activate", func(u *models.User, now time.Time) bool {
		if u.DeactivatedAt == nil {
			return false
		}
		u.DeactivatedAt = nil
		return true
	})
}

// SoftDelete marks the user deleted and cascades inactivity. Reversible via
// Restore.
func (m *Manager) SoftDelete(ctx context.Context, userID uint64) error {
	return m.transition(ctx, userID, "account.delete", func(u *models.User, now time.Time) bool {
		if u.DeletedAt != nil {
			return false
		}
		u.DeletedAt = &now
		return true
	})
}

// Restore clears the soft-delete flag. Dependents are restored only if the
// user is not also deactivated.
func (m *Manager) Restore(ctx context.Context, userID uint64) error {
	return m.transition(ctx, userID, "account.restore", func(u *models.User, now time.Time) bool {
		if u.DeletedAt == nil {
			return false
		}
		u.DeletedAt = nil
		return true
	})
}

// HardDelete permanently removes the user, their ownership closure, and the
// user row itself. Terminal: the identity is gone and no further transition
// on it can succeed.
func (m *Manager) HardDelete(ctx context.Context, userID uint64) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockUser(tx).First(&user, userID).Error; err != nil {
			return err
		}
		if err := m.engine.HardDelete(tx, userID); err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

// lockUser applies a row lock on the user load. Concurrent transitions on
// the same user write both lifecycle flags from their loaded snapshot, so
// they must serialize on the row or a stale snapshot could undo the other
// transition's flag. SQLite has no FOR UPDATE; its single writer already
// serializes writes.
func lockUser(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// transition loads the user, applies the flag mutation, and runs the
// appropriate sweep when the user's effective liveness changed. mutate
// returns false for no-op transitions, which leave dependents untouched.
func (m *Manager) transition(ctx context.Context, userID uint64, action string, mutate func(*models.User, time.Time) bool) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := lockUser(tx).First(&user, userID).Error; err != nil {
			return err
		}

		wasAlive := UserState(&user).Alive()
		now := time.Now().UTC()
		if !mutate(&user, now) {
			return nil
		}

		updates := map[string]interface{}{
			"deleted_at":     user.DeletedAt,
			"deactivated_at": user.DeactivatedAt,
		}
		if err := tx.Model(&models.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
			return err
		}

		isAlive := UserState(&user).Alive()
		switch {
		case wasAlive && !isAlive:
			if err := m.engine.DeleteSweep(tx, now); err != nil {
				return err
			}
		case !wasAlive && isAlive:
			if err := m.engine.RestoreSweep(tx); err != nil {
				return err
			}
		}

		return tx.Create(&models.AccountActivity{UserID: userID, Action: action}).Error
	})
}
