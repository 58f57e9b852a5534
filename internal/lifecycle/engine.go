package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Engine translates user lifecycle transitions into row mutations driven by
// the static rule table. Every method expects to run inside the caller's
// transaction; the engine never commits on its own.
type Engine struct {
	rules   []rule
	byTable map[string]rule
}

// NewEngine builds an engine over the package rule table.
func NewEngine() *Engine {
	byTable := make(map[string]rule, len(rules))
	for _, r := range rules {
		byTable[r.table] = r
	}
	return &Engine{rules: rules, byTable: byTable}
}

// depAliveExpr is the SQL predicate asserting that one dependency of the
// dependent table is currently active.
func depAliveExpr(table string, d dependency) string {
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM %s p WHERE p.id = %s.%s AND %s)",
		d.parent.table, table, d.column, d.parent.alive,
	)
}

// allAliveExpr asserts every dependency is active; anyDeadExpr asserts at
// least one is not. They are the SQL form of the liveness predicate.
func allAliveExpr(r rule) string {
	parts := make([]string, 0, len(r.deps))
	for _, d := range r.deps {
		parts = append(parts, depAliveExpr(r.table, d))
	}
	return strings.Join(parts, " AND ")
}

func anyDeadExpr(r rule) string {
	parts := make([]string, 0, len(r.deps))
	for _, d := range r.deps {
		parts = append(parts, "NOT "+depAliveExpr(r.table, d))
	}
	return strings.Join(parts, " OR ")
}

// DeleteSweep propagates inactivity: in dependency order, every live row
// with an inactive dependency is soft-deleted, and purge-class rows whose
// owner went inactive are removed outright. The sweep re-evaluates liveness
// table by table, so fan-out through content chains (story -> comment ->
// reply -> like) happens in a single pass.
func (e *Engine) DeleteSweep(tx *gorm.DB, at time.Time) error {
	for _, r := range e.rules {
		switch {
		case r.softDelete:
			sql := fmt.Sprintf(
				"UPDATE %s SET deleted_at = ? WHERE deleted_at IS NULL AND (%s)",
				r.table, anyDeadExpr(r),
			)
			if err := tx.Exec(sql, at).Error; err != nil {
				return fmt.Errorf("delete sweep %s: %w", r.table, err)
			}
		case r.purgeOnInactive:
			sql := fmt.Sprintf("DELETE FROM %s WHERE %s", r.table, anyDeadExpr(r))
			if err := tx.Exec(sql).Error; err != nil {
				return fmt.Errorf("purge %s: %w", r.table, err)
			}
		}
	}
	return nil
}

// RestoreSweep is the inverse pass: in dependency order, every soft-deleted
// row whose dependency set is fully active again is restored. A row with a
// second inactive dependency (the other side of an edge, a still-deleted
// parent story) stays deleted.
func (e *Engine) RestoreSweep(tx *gorm.DB) error {
	for _, r := range e.rules {
		if !r.softDelete {
			continue
		}
		sql := fmt.Sprintf(
			"UPDATE %s SET deleted_at = NULL WHERE deleted_at IS NOT NULL AND %s",
			r.table, allAliveExpr(r),
		)
		if err := tx.Exec(sql).Error; err != nil {
			return fmt.Errorf("restore sweep %s: %w", r.table, err)
		}
	}
	return nil
}

// ownedExpr builds the predicate selecting the ownership closure of one user
// within a table: rows owned by the user directly, plus rows under content
// that is itself in the user's closure. Returns the expression and the
// number of user-id binds it needs.
func (e *Engine) ownedExpr(table string) (string, int) {
	r := e.byTable[table]
	parts := make([]string, 0, len(r.deps))
	binds := 0
	for _, d := range r.deps {
		if d.parent.table == parentUser.table {
			parts = append(parts, fmt.Sprintf("%s = ?", d.column))
			binds++
			continue
		}
		sub, n := e.ownedExpr(d.parent.table)
		parts = append(parts, fmt.Sprintf(
			"%s IN (SELECT id FROM %s WHERE %s)",
			d.column, d.parent.table, sub,
		))
		binds += n
	}
	return strings.Join(parts, " OR "), binds
}

// HardDelete removes one user's ownership closure. Rules run bottom to top
// so dependents are gone before the rows their scoping subqueries select
// from; shared-reference tables only have the owning column cleared. The
// user row itself is the caller's to delete.
func (e *Engine) HardDelete(tx *gorm.DB, userID uint64) error {
	for i := len(e.rules) - 1; i >= 0; i-- {
		r := e.rules[i]
		if r.onHardDelete == hardNullify {
			col := r.deps[0].column
			sql := fmt.Sprintf("UPDATE %s SET %s = NULL WHERE %s = ?", r.table, col, col)
			if err := tx.Exec(sql, userID).Error; err != nil {
				return fmt.Errorf("hard delete %s: %w", r.table, err)
			}
			continue
		}
		expr, binds := e.ownedExpr(r.table)
		args := make([]interface{}, binds)
		for j := range args {
			args[j] = userID
		}
		sql := fmt.Sprintf("DELETE FROM %s WHERE %s", r.table, expr)
		if err := tx.Exec(sql, args...).Error; err != nil {
			return fmt.Errorf("hard delete %s: %w", r.table, err)
		}
	}
	return nil
}

// Verify checks the cascade invariant: no live row with a dead dependency
// and no dead row with a fully live dependency set. A non-zero count means
// the enclosing transaction must abort rather than partially repair.
func (e *Engine) Verify(tx *gorm.DB) error {
	for _, r := range e.rules {
		if !r.softDelete {
			continue
		}
		var live int64
		sql := fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE deleted_at IS NULL AND (%s)",
			r.table, anyDeadExpr(r),
		)
		if err := tx.Raw(sql).Scan(&live).Error; err != nil {
			return err
		}
		if live > 0 {
			return fmt.Errorf("%w: %d live rows in %s with an inactive dependency", ErrInconsistent, live, r.table)
		}
		var dead int64
		sql = fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE deleted_at IS NOT NULL AND %s",
			r.table, allAliveExpr(r),
		)
		if err := tx.Raw(sql).Scan(&dead).Error; err != nil {
			return err
		}
		if dead > 0 {
			return fmt.Errorf("%w: %d deleted rows in %s with all dependencies active", ErrInconsistent, dead, r.table)
		}
	}
	return nil
}
