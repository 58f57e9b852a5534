package lifecycle_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storiny/backend/internal/lifecycle"
	"storiny/backend/internal/models"
)

func TestTransitionsAreIdempotent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	first := deletedAt(t, db, "stories", story.ID)
	require.NotNil(t, first)

	// repeating the transition is a no-op and leaves timestamps alone
	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	assert.Equal(t, first, deletedAt(t, db, "stories", story.ID))

	require.NoError(t, mgr.Activate(ctx, u1.ID))
	require.NoError(t, mgr.Activate(ctx, u1.ID))
	assert.Nil(t, deletedAt(t, db, "stories", story.ID))

	// no-ops do not record account activity
	var n int64
	require.NoError(t, db.Model(&models.AccountActivity{}).Where("user_id = ?", u1.ID).Count(&n).Error)
	assert.EqualValues(t, 2, n)
}

func TestCombinedFlagsBothMustClear(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	require.NoError(t, mgr.SoftDelete(ctx, u1.ID))
	assert.NotNil(t, deletedAt(t, db, "stories", story.ID))

	// clearing one flag is not enough while the other is still set
	require.NoError(t, mgr.Restore(ctx, u1.ID))
	assert.NotNil(t, deletedAt(t, db, "stories", story.ID))

	require.NoError(t, mgr.Activate(ctx, u1.ID))
	assert.Nil(t, deletedAt(t, db, "stories", story.ID))

	var user models.User
	require.NoError(t, db.First(&user, u1.ID).Error)
	assert.True(t, user.Active())
}

func TestTransitionRecordsAccountActivity(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	require.NoError(t, mgr.Activate(ctx, u1.ID))
	require.NoError(t, mgr.SoftDelete(ctx, u1.ID))
	require.NoError(t, mgr.Restore(ctx, u1.ID))

	var actions []string
	require.NoError(t, db.Model(&models.AccountActivity{}).
		Where("user_id = ?", u1.ID).
		Order("id ASC").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{
		"account.deactivate",
		"account.activate",
		"account.delete",
		"account.restore",
	}, actions)
}

func TestSweepsKeepInvariantsConsistent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)
	u3 := seedUser(t, db, 3)

	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)
	comment := &models.Comment{UserID: u2.ID, StoryID: story.ID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)
	reply := &models.Reply{UserID: u3.ID, CommentID: comment.ID, Content: "r"}
	require.NoError(t, db.Create(reply).Error)
	require.NoError(t, db.Create(&models.ReplyLike{UserID: u1.ID, ReplyID: reply.ID}).Error)
	acceptedFriend(t, db, u1.ID, u2.ID)
	acceptedFriend(t, db, u2.ID, u3.ID)

	// every intermediate state must satisfy the cascade invariant
	steps := []func() error{
		func() error { return mgr.Deactivate(ctx, u1.ID) },
		func() error { return mgr.SoftDelete(ctx, u2.ID) },
		func() error { return mgr.Activate(ctx, u1.ID) },
		func() error { return mgr.Restore(ctx, u2.ID) },
		func() error { return mgr.SoftDelete(ctx, u3.ID) },
		func() error { return mgr.Restore(ctx, u3.ID) },
	}
	for i, step := range steps {
		require.NoError(t, step())
		require.NoError(t, mgr.Engine().Verify(db), "invariant violated after step %d", i)
	}
}
