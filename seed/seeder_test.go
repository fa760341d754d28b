package seed

import (
	"context"
	"testing"

	"Wildography/models"
	"Wildography/utils/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoad(t *testing.T) {
	db := testdb.Open(t)
	require.NoError(t, Load(context.Background(), db, Options{Users: 4, PostsPerUser: 2, Seed: 42}, zap.NewNop()))

	var users, posts, comments, follows, requests int64
	require.NoError(t, db.Model(&models.User{}).Count(&users).Error)
	require.NoError(t, db.Model(&models.Post{}).Count(&posts).Error)
	require.NoError(t, db.Model(&models.PostComment{}).Count(&comments).Error)
	require.NoError(t, db.Model(&models.Follow{}).Count(&follows).Error)
	require.NoError(t, db.Model(&models.Notification{}).Count(&requests).Error)

	assert.EqualValues(t, 4, users)
	assert.EqualValues(t, 8, posts)
	assert.EqualValues(t, 8, comments)
	assert.EqualValues(t, 4, follows)
	assert.EqualValues(t, 4, requests)
}

func TestLoadNeedsTwoUsers(t *testing.T) {
	assert.Error(t, Load(context.Background(), testdb.Open(t), Options{Users: 1}, zap.NewNop()))
}
