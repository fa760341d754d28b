package services

import (
	"context"
	"testing"

	"Wildography/models"
	"Wildography/utils/testdb"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newUser(t *testing.T, db *gorm.DB, handle string) *models.User {
	t.Helper()
	user := models.User{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: "password123",
	}
	if handle != "" {
		user.Username = &handle
	}
	user.Prepare()
	saved, err := user.SaveUser(db)
	require.NoError(t, err)
	return saved
}

func reload(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	user, err := (&models.User{}).FindUserByID(db, id)
	require.NoError(t, err)
	return user
}

func countRequests(t *testing.T, db *gorm.DB, recipientID, originID uint) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&models.Notification{}).
		Where("recipient_id = ? AND origin_id = ? AND type = ?", recipientID, originID, models.NotificationFollowRequest).
		Count(&count).Error)
	return count
}

func publicIDs(users []models.User) []string {
	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].PublicID
	}
	return ids
}

func TestFollow(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	require.NoError(t, graph.Follow(ctx, alice.ID, bob.ID))

	followers, err := graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.PublicID}, publicIDs(followers))

	following, err := graph.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.PublicID}, publicIDs(following))

	assert.Equal(t, int64(1), reload(t, db, bob.ID).FollowersCount)
	assert.Equal(t, int64(1), reload(t, db, alice.ID).FollowingCount)
	assert.Equal(t, int64(0), countRequests(t, db, bob.ID, alice.ID))
}

func TestFollowTwiceIsAlreadyFollowing(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	require.NoError(t, graph.Follow(ctx, alice.ID, bob.ID))
	assert.ErrorIs(t, graph.Follow(ctx, alice.ID, bob.ID), ErrAlreadyFollowing)

	followers, err := graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Len(t, followers, 1)
	assert.Equal(t, int64(1), reload(t, db, bob.ID).FollowersCount)
}

func TestFollowUnknownUser(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	alice := newUser(t, db, "alice")

	assert.ErrorIs(t, graph.Follow(context.Background(), alice.ID, 9999), ErrUserNotFound)
	assert.ErrorIs(t, graph.Follow(context.Background(), 9999, alice.ID), ErrUserNotFound)
}

func TestFollowSelf(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	alice := newUser(t, db, "alice")

	assert.ErrorIs(t, graph.Follow(context.Background(), alice.ID, alice.ID), ErrSelfFollow)
	assert.ErrorIs(t, graph.FollowBack(context.Background(), alice.ID, alice.ID), ErrSelfFollow)
}

func TestUnfollow(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	assert.ErrorIs(t, graph.Unfollow(ctx, alice.ID, bob.ID), ErrNotFollowing)

	require.NoError(t, graph.Follow(ctx, alice.ID, bob.ID))
	require.NoError(t, graph.Unfollow(ctx, alice.ID, bob.ID))

	followers, err := graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
	assert.Equal(t, int64(0), reload(t, db, bob.ID).FollowersCount)
	assert.Equal(t, int64(0), reload(t, db, alice.ID).FollowingCount)

	assert.ErrorIs(t, graph.Unfollow(ctx, alice.ID, bob.ID), ErrNotFollowing)
	assert.ErrorIs(t, graph.Unfollow(ctx, alice.ID, 9999), ErrUserNotFound)
}

func TestRequestFollowAllowsDuplicates(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	first, err := graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, models.NotificationFollowRequest, first.Type)
	assert.Equal(t, bob.ID, first.RecipientID)
	assert.Equal(t, alice.ID, first.OriginID)
	assert.Equal(t, "alice wants to follow you", first.Message)
	assert.Equal(t, int64(1), countRequests(t, db, bob.ID, alice.ID))

	_, err = graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), countRequests(t, db, bob.ID, alice.ID))

	following, err := graph.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, following)
}

func TestRequestFollowDedupPolicy(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, true)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	first, err := graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	second, err := graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, int64(1), countRequests(t, db, bob.ID, alice.ID))
}

func TestRequestFollowMessageFallsBackToName(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	alice := newUser(t, db, "")
	bob := newUser(t, db, "bob")

	notification, err := graph.RequestFollow(context.Background(), alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, alice.Name+" wants to follow you", notification.Message)
}

func TestRequestFollowErrors(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	alice := newUser(t, db, "alice")

	_, err := graph.RequestFollow(context.Background(), alice.ID, 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = graph.RequestFollow(context.Background(), alice.ID, alice.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestAcceptFollowRequest(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	_, err := graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	_, err = graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, graph.AcceptFollowRequest(ctx, bob.ID, alice.ID))

	followers, err := graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.PublicID}, publicIDs(followers))

	following, err := graph.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.PublicID}, publicIDs(following))

	assert.Equal(t, int64(0), countRequests(t, db, bob.ID, alice.ID))
}

func TestAcceptFollowRequestIsIdempotent(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	require.NoError(t, graph.Follow(ctx, alice.ID, bob.ID))

	// No notification and the edge already exists: still a success.
	require.NoError(t, graph.AcceptFollowRequest(ctx, bob.ID, alice.ID))
	require.NoError(t, graph.AcceptFollowRequest(ctx, bob.ID, alice.ID))

	assert.Equal(t, int64(1), reload(t, db, bob.ID).FollowersCount)
	assert.Equal(t, int64(1), reload(t, db, alice.ID).FollowingCount)
}

func TestAcceptFollowRequestUnknownUser(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	bob := newUser(t, db, "bob")

	assert.ErrorIs(t, graph.AcceptFollowRequest(context.Background(), bob.ID, 9999), ErrUserNotFound)
}

func TestRejectFollowRequest(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	_, err := graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)

	require.NoError(t, graph.RejectFollowRequest(ctx, bob.ID, alice.ID))
	assert.Equal(t, int64(0), countRequests(t, db, bob.ID, alice.ID))

	followers, err := graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Empty(t, followers)
	following, err := graph.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, following)

	// Nothing pending and unknown ids are both fine.
	require.NoError(t, graph.RejectFollowRequest(ctx, bob.ID, alice.ID))
	require.NoError(t, graph.RejectFollowRequest(ctx, bob.ID, 9999))
}

func TestFollowBack(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	require.NoError(t, graph.Follow(ctx, bob.ID, alice.ID))
	require.NoError(t, graph.FollowBack(ctx, alice.ID, bob.ID))

	following, err := graph.Following(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.PublicID}, publicIDs(following))

	followers, err := graph.Followers(ctx, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{alice.PublicID}, publicIDs(followers))

	assert.ErrorIs(t, graph.FollowBack(ctx, alice.ID, bob.ID), ErrAlreadyFollowing)
	assert.ErrorIs(t, graph.FollowBack(ctx, alice.ID, 9999), ErrUserNotFound)
}

func TestRelationship(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)
	ctx := context.Background()
	alice := newUser(t, db, "alice")
	bob := newUser(t, db, "bob")

	rel, err := graph.Relationship(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Relationship{}, rel)

	_, err = graph.RequestFollow(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	rel, err = graph.Relationship(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.True(t, rel.RequestPending)

	require.NoError(t, graph.AcceptFollowRequest(ctx, bob.ID, alice.ID))
	require.NoError(t, graph.FollowBack(ctx, bob.ID, alice.ID))

	rel, err = graph.Relationship(ctx, alice.ID, bob.ID)
	require.NoError(t, err)
	assert.Equal(t, Relationship{Following: true, FollowedBy: true, Mutual: true}, rel)

	followers, following, err := graph.FollowIDs(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{bob.PublicID}, followers)
	assert.Equal(t, []string{bob.PublicID}, following)
}

func TestFollowersOfUnknownUser(t *testing.T) {
	db := testdb.Open(t)
	graph := NewSocialGraph(db, false)

	_, err := graph.Followers(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = graph.Following(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
