package friends_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"storiny/backend/internal/friends"
)

// dryRunSQL renders the listing query without executing it.
func dryRunSQL(t *testing.T, p friends.Params) string {
	t.Helper()
	db := setupTestDB(t)

	var rows []friends.Summary
	tx := friends.NewBuilder(db.Session(&gorm.Session{DryRun: true}), p).Build().Find(&rows)
	require.NoError(t, tx.Error)
	return tx.Statement.SQL.String()
}

func TestBuildOmitsSearchClausesByDefault(t *testing.T) {
	sql := dryRunSQL(t, friends.Params{SubjectID: 1, Page: 1})

	assert.NotContains(t, sql, "search_rank")
	assert.Contains(t, sql, "accepted_at IS NOT NULL")
	assert.Contains(t, sql, "deleted_at IS NULL")
	assert.Contains(t, sql, "ORDER BY f.created_at DESC")
	assert.Contains(t, sql, "LIMIT")
}

func TestBuildAddsRankColumnWhileSearching(t *testing.T) {
	sql := dryRunSQL(t, friends.Params{SubjectID: 1, Page: 1, Search: "sam"})

	assert.Contains(t, sql, "search_rank")
	assert.Contains(t, sql, "ORDER BY search_rank DESC")
}

func TestBuildSkipsRelationshipSubqueriesForAnonymous(t *testing.T) {
	anon := dryRunSQL(t, friends.Params{SubjectID: 1, Page: 1})
	assert.NotContains(t, anon, "relations")

	viewer := uint64(7)
	authed := dryRunSQL(t, friends.Params{SubjectID: 1, ViewerID: &viewer, Page: 1})
	assert.Contains(t, authed, "relations")
	assert.Contains(t, authed, "is_friend")
}

func TestBuildPagesWithFixedSize(t *testing.T) {
	sql := dryRunSQL(t, friends.Params{SubjectID: 1, Page: 3})

	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
}
