package lifecycle_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"storiny/backend/internal/database"
	"storiny/backend/internal/lifecycle"
	"storiny/backend/internal/models"
)

// setupTestDB opens an isolated in-memory SQLite DB with the full schema.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, database.Migrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, id uint64) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Name:         fmt.Sprintf("User %d", id),
		Username:     fmt.Sprintf("user%d", id),
		Email:        fmt.Sprintf("u%d@test.com", id),
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func acceptedFriend(t *testing.T, db *gorm.DB, from, to uint64) *models.Friend {
	t.Helper()
	now := time.Now().UTC()
	f := &models.Friend{TransmitterID: from, ReceiverID: to, AcceptedAt: &now}
	require.NoError(t, db.Create(f).Error)
	return f
}

// deletedAt fetches the deleted_at flag of an arbitrary row by table and id.
func deletedAt(t *testing.T, db *gorm.DB, table string, id uint64) *time.Time {
	t.Helper()
	var row struct{ DeletedAt *time.Time }
	require.NoError(t, db.Table(table).Where("id = ?", id).Select("deleted_at").Scan(&row).Error)
	return row.DeletedAt
}

func count(t *testing.T, db *gorm.DB, table string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Table(table).Count(&n).Error)
	return n
}

func TestDeactivateCascadesOwnedContent(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)

	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)
	// u2's comment under u1's story goes down with the story
	comment := &models.Comment{UserID: u2.ID, StoryID: story.ID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)
	reply := &models.Reply{UserID: u2.ID, CommentID: comment.ID, Content: "r"}
	require.NoError(t, db.Create(reply).Error)
	like := &models.StoryLike{UserID: u2.ID, StoryID: story.ID}
	require.NoError(t, db.Create(like).Error)
	bookmark := &models.Bookmark{UserID: u2.ID, StoryID: story.ID}
	require.NoError(t, db.Create(bookmark).Error)
	history := &models.History{UserID: u2.ID, StoryID: story.ID}
	require.NoError(t, db.Create(history).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))

	assert.NotNil(t, deletedAt(t, db, "stories", story.ID))
	assert.NotNil(t, deletedAt(t, db, "comments", comment.ID))
	assert.NotNil(t, deletedAt(t, db, "replies", reply.ID))
	assert.NotNil(t, deletedAt(t, db, "story_likes", like.ID))
	assert.NotNil(t, deletedAt(t, db, "bookmarks", bookmark.ID))
	assert.NotNil(t, deletedAt(t, db, "histories", history.ID))

	require.NoError(t, mgr.Activate(ctx, u1.ID))

	assert.Nil(t, deletedAt(t, db, "stories", story.ID))
	assert.Nil(t, deletedAt(t, db, "comments", comment.ID))
	assert.Nil(t, deletedAt(t, db, "replies", reply.ID))
	assert.Nil(t, deletedAt(t, db, "story_likes", like.ID))
	assert.Nil(t, deletedAt(t, db, "bookmarks", bookmark.ID))
	assert.Nil(t, deletedAt(t, db, "histories", history.ID))
}

func TestSoftDeleteCascadesEdgesAndEngagement(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)

	friend := acceptedFriend(t, db, u1.ID, u2.ID)
	relation := &models.Relation{FollowerID: u2.ID, FollowedID: u1.ID}
	require.NoError(t, db.Create(relation).Error)
	block := &models.Block{BlockerID: u1.ID, BlockedID: u2.ID}
	require.NoError(t, db.Create(block).Error)
	mute := &models.Mute{MuterID: u2.ID, MutedID: u1.ID}
	require.NoError(t, db.Create(mute).Error)
	tag := &models.Tag{Name: "fiction"}
	require.NoError(t, db.Create(tag).Error)
	tagFollower := &models.TagFollower{UserID: u1.ID, TagID: tag.ID}
	require.NoError(t, db.Create(tagFollower).Error)

	require.NoError(t, mgr.SoftDelete(ctx, u1.ID))

	assert.NotNil(t, deletedAt(t, db, "friends", friend.ID))
	assert.NotNil(t, deletedAt(t, db, "relations", relation.ID))
	assert.NotNil(t, deletedAt(t, db, "blocks", block.ID))
	assert.NotNil(t, deletedAt(t, db, "mutes", mute.ID))
	assert.NotNil(t, deletedAt(t, db, "tag_followers", tagFollower.ID))

	require.NoError(t, mgr.Restore(ctx, u1.ID))

	assert.Nil(t, deletedAt(t, db, "friends", friend.ID))
	assert.Nil(t, deletedAt(t, db, "relations", relation.ID))
	assert.Nil(t, deletedAt(t, db, "blocks", block.ID))
	assert.Nil(t, deletedAt(t, db, "mutes", mute.ID))
	assert.Nil(t, deletedAt(t, db, "tag_followers", tagFollower.ID))
}

func TestTwoSidedEdgeRestoresOnlyWhenBothSidesActive(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)
	friend := acceptedFriend(t, db, u1.ID, u2.ID)

	require.NoError(t, mgr.SoftDelete(ctx, u1.ID))
	require.NoError(t, mgr.SoftDelete(ctx, u2.ID))
	assert.NotNil(t, deletedAt(t, db, "friends", friend.ID))

	// one side back is not enough
	require.NoError(t, mgr.Restore(ctx, u1.ID))
	assert.NotNil(t, deletedAt(t, db, "friends", friend.ID))

	require.NoError(t, mgr.Restore(ctx, u2.ID))
	assert.Nil(t, deletedAt(t, db, "friends", friend.ID))
}

func TestCrossDependencyNonRestore(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1) // comment author
	u2 := seedUser(t, db, 2) // story owner
	u3 := seedUser(t, db, 3) // reply author, stays active

	story := &models.Story{UserID: u2.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)
	comment := &models.Comment{UserID: u1.ID, StoryID: story.ID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)
	reply := &models.Reply{UserID: u3.ID, CommentID: comment.ID, Content: "r"}
	require.NoError(t, db.Create(reply).Error)

	require.NoError(t, mgr.SoftDelete(ctx, u1.ID))
	require.NoError(t, mgr.SoftDelete(ctx, u2.ID))

	assert.NotNil(t, deletedAt(t, db, "stories", story.ID))
	assert.NotNil(t, deletedAt(t, db, "comments", comment.ID))
	assert.NotNil(t, deletedAt(t, db, "replies", reply.ID))

	// author back, but the story owner is still gone: the story stays
	// deleted and the comment and reply stay down with it
	require.NoError(t, mgr.Restore(ctx, u1.ID))
	assert.NotNil(t, deletedAt(t, db, "stories", story.ID))
	assert.NotNil(t, deletedAt(t, db, "comments", comment.ID))
	assert.NotNil(t, deletedAt(t, db, "replies", reply.ID))

	// story owner back: the whole chain comes back in one pass
	require.NoError(t, mgr.Restore(ctx, u2.ID))
	assert.Nil(t, deletedAt(t, db, "stories", story.ID))
	assert.Nil(t, deletedAt(t, db, "comments", comment.ID))
	assert.Nil(t, deletedAt(t, db, "replies", reply.ID))
}

func TestOwnContentRestoresWithSingleOwner(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)

	// owner == parent owner: both dependencies resolve to the same user
	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)
	comment := &models.Comment{UserID: u1.ID, StoryID: story.ID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	assert.NotNil(t, deletedAt(t, db, "comments", comment.ID))

	require.NoError(t, mgr.Activate(ctx, u1.ID))
	assert.Nil(t, deletedAt(t, db, "stories", story.ID))
	assert.Nil(t, deletedAt(t, db, "comments", comment.ID))
}

func TestEngagementNeedsBothUserAndTargetActive(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1) // story owner
	u2 := seedUser(t, db, 2) // liker

	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)
	like := &models.StoryLike{UserID: u2.ID, StoryID: story.ID}
	require.NoError(t, db.Create(like).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	require.NoError(t, mgr.Deactivate(ctx, u2.ID))
	assert.NotNil(t, deletedAt(t, db, "story_likes", like.ID))

	// liker back, target story still gone
	require.NoError(t, mgr.Activate(ctx, u2.ID))
	assert.NotNil(t, deletedAt(t, db, "story_likes", like.ID))

	require.NoError(t, mgr.Activate(ctx, u1.ID))
	assert.Nil(t, deletedAt(t, db, "story_likes", like.ID))
}

func TestNotificationsPurgedNotSoftDeleted(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)

	require.NoError(t, db.Create(&models.Notification{NotifierID: u1.ID, NotifiedID: u2.ID, Kind: "user.follow"}).Error)
	require.NoError(t, db.Create(&models.Notification{NotifierID: u2.ID, NotifiedID: u1.ID, Kind: "user.follow"}).Error)
	require.NoError(t, db.Create(&models.NotificationOut{NotifiedID: u1.ID, Kind: "user.follow"}).Error)
	require.NoError(t, db.Create(&models.NotificationOut{NotifiedID: u2.ID, Kind: "user.follow"}).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))

	// u1's rows are gone for good; u2's survive
	assert.EqualValues(t, 1, count(t, db, "notifications"))
	assert.EqualValues(t, 1, count(t, db, "notification_outs"))

	require.NoError(t, mgr.Activate(ctx, u1.ID))
	assert.EqualValues(t, 1, count(t, db, "notifications"))
	assert.EqualValues(t, 1, count(t, db, "notification_outs"))
}

func TestExclusivesUntouchedBySoftLifecycle(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	require.NoError(t, db.Create(&models.Connection{UserID: u1.ID, Token: uuid.New()}).Error)
	require.NoError(t, db.Create(&models.NotificationSettings{UserID: u1.ID}).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	require.NoError(t, mgr.SoftDelete(ctx, u1.ID))

	assert.EqualValues(t, 1, count(t, db, "connections"))
	assert.EqualValues(t, 1, count(t, db, "notification_settings"))
}

func TestHardDeleteRemovesClosureAndNullifiesAssets(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	u2 := seedUser(t, db, 2)

	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)
	// other users' activity under u1's story is part of the closure
	comment := &models.Comment{UserID: u2.ID, StoryID: story.ID, Content: "c"}
	require.NoError(t, db.Create(comment).Error)
	like := &models.StoryLike{UserID: u2.ID, StoryID: story.ID}
	require.NoError(t, db.Create(like).Error)
	// u2's own story is not
	otherStory := &models.Story{UserID: u2.ID, Title: "o"}
	require.NoError(t, db.Create(otherStory).Error)

	acceptedFriend(t, db, u1.ID, u2.ID)
	require.NoError(t, db.Create(&models.Connection{UserID: u1.ID, Token: uuid.New()}).Error)
	require.NoError(t, db.Create(&models.NotificationSettings{UserID: u1.ID}).Error)
	require.NoError(t, db.Create(&models.Notification{NotifierID: u1.ID, NotifiedID: u2.ID, Kind: "k"}).Error)

	userID := u1.ID
	asset := &models.Asset{ID: uuid.New(), UserID: &userID, Key: "avatars/1"}
	require.NoError(t, db.Create(asset).Error)

	require.NoError(t, mgr.HardDelete(ctx, u1.ID))

	assert.EqualValues(t, 1, count(t, db, "stories")) // only u2's
	assert.EqualValues(t, 0, count(t, db, "comments"))
	assert.EqualValues(t, 0, count(t, db, "story_likes"))
	assert.EqualValues(t, 0, count(t, db, "friends"))
	assert.EqualValues(t, 0, count(t, db, "connections"))
	assert.EqualValues(t, 0, count(t, db, "notification_settings"))
	assert.EqualValues(t, 0, count(t, db, "notifications"))

	var users int64
	require.NoError(t, db.Model(&models.User{}).Where("id = ?", u1.ID).Count(&users).Error)
	assert.EqualValues(t, 0, users)

	// asset survives with the owning reference cleared
	var got models.Asset
	require.NoError(t, db.First(&got, "id = ?", asset.ID).Error)
	assert.Nil(t, got.UserID)
}

func TestHardDeleteIsTerminal(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	require.NoError(t, mgr.HardDelete(ctx, u1.ID))

	assert.ErrorIs(t, mgr.Deactivate(ctx, u1.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, mgr.Restore(ctx, u1.ID), gorm.ErrRecordNotFound)
	assert.ErrorIs(t, mgr.HardDelete(ctx, u1.ID), gorm.ErrRecordNotFound)
}

func TestVerifyDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	mgr := lifecycle.NewManager(db)

	u1 := seedUser(t, db, 1)
	story := &models.Story{UserID: u1.ID, Title: "s"}
	require.NoError(t, db.Create(story).Error)

	require.NoError(t, mgr.Deactivate(ctx, u1.ID))
	require.NoError(t, mgr.Engine().Verify(db))

	// resurrect the story behind the engine's back
	require.NoError(t, db.Exec("UPDATE stories SET deleted_at = NULL WHERE id = ?", story.ID).Error)
	assert.ErrorIs(t, mgr.Engine().Verify(db), lifecycle.ErrInconsistent)
}
