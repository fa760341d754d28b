package controllers

import (
	"context"
	"errors"
	"time"

	"Wildography/cache"
	"Wildography/models"

	"go.uber.org/zap"
)

// Follow lists are cached briefly. Edge changes evict both users' lists; profile
// changes on listed users show up once the entry expires.
const followListTTL = time.Minute

func (server *Server) cachedUserList(ctx context.Context, key string, load func() ([]models.User, error)) ([]UserDTO, error) {
	var cached []UserDTO
	err := cache.GetJSON(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		server.Log.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}

	users, err := load()
	if err != nil {
		return nil, err
	}
	dtos := usersToDTOs(users)
	if err := cache.SetJSON(ctx, key, dtos, followListTTL); err != nil {
		server.Log.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
	return dtos, nil
}

func (server *Server) invalidateFollowCaches(ctx context.Context, userIDs ...uint) {
	keys := make([]string, 0, len(userIDs)*2)
	for _, id := range userIDs {
		if id == 0 {
			continue
		}
		keys = append(keys, cache.FollowersKey(id), cache.FollowingKey(id))
	}
	if err := cache.Delete(ctx, keys...); err != nil {
		server.Log.Warn("cache invalidation failed", zap.Strings("keys", keys), zap.Error(err))
	}
}
