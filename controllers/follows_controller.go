package controllers

import (
	"context"
	"errors"
	"net/http"

	"Wildography/cache"
	"Wildography/models"
	httpctx "Wildography/utils/httpctx"

	"github.com/gin-gonic/gin"
)

// withTarget resolves the authenticated caller and the :id user, runs fn and
// answers with message on success.
func (server *Server) withTarget(c *gin.Context, message, fallback string, fn func(ctx context.Context, callerID uint, target *models.User) error) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	target, err := resolveUserByIdentifier(server.DB.WithContext(ctx), c.Param("id"))
	if err != nil {
		server.respondError(c, err, fallback)
		return
	}
	if err := fn(ctx, callerID, target); err != nil {
		server.respondError(c, err, fallback)
		return
	}
	server.invalidateFollowCaches(ctx, callerID, target.ID)
	respondOK(c, message, nil)
}

// FollowUser makes the caller a follower of :id.
func (server *Server) FollowUser(c *gin.Context) {
	server.withTarget(c, "User followed successfully", "Error following user",
		func(ctx context.Context, callerID uint, target *models.User) error {
			return server.Graph.Follow(ctx, callerID, target.ID)
		})
}

// UnfollowUser removes the caller from :id's followers.
func (server *Server) UnfollowUser(c *gin.Context) {
	server.withTarget(c, "User unfollowed successfully", "Error unfollowing user",
		func(ctx context.Context, callerID uint, target *models.User) error {
			return server.Graph.Unfollow(ctx, callerID, target.ID)
		})
}

// RequestFollow sends :id a follow request from the caller.
func (server *Server) RequestFollow(c *gin.Context) {
	server.withTarget(c, "Follow request sent", "Error sending follow request",
		func(ctx context.Context, callerID uint, target *models.User) error {
			_, err := server.Graph.RequestFollow(ctx, callerID, target.ID)
			return err
		})
}

// AcceptFollowRequest accepts the request :id sent to the caller.
func (server *Server) AcceptFollowRequest(c *gin.Context) {
	server.withTarget(c, "Follow request accepted", "Error accepting follow request",
		func(ctx context.Context, callerID uint, requester *models.User) error {
			return server.Graph.AcceptFollowRequest(ctx, callerID, requester.ID)
		})
}

// RejectFollowRequest discards the request :id sent to the caller. An unknown
// requester has nothing pending, so the call still succeeds.
func (server *Server) RejectFollowRequest(c *gin.Context) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	requester, err := resolveUserByIdentifier(server.DB.WithContext(ctx), c.Param("id"))
	if errors.Is(err, models.ErrUserNotFound) {
		respondOK(c, "Follow request rejected", nil)
		return
	}
	if err != nil {
		server.respondError(c, err, "Error rejecting follow request")
		return
	}
	if err := server.Graph.RejectFollowRequest(ctx, callerID, requester.ID); err != nil {
		server.respondError(c, err, "Error rejecting follow request")
		return
	}
	respondOK(c, "Follow request rejected", nil)
}

// FollowBack follows :id in answer to their follow.
func (server *Server) FollowBack(c *gin.Context) {
	server.withTarget(c, "User followed back successfully", "Error following back user",
		func(ctx context.Context, callerID uint, target *models.User) error {
			return server.Graph.FollowBack(ctx, callerID, target.ID)
		})
}

// GetFollowers lists the users following :id.
func (server *Server) GetFollowers(c *gin.Context) {
	ctx := c.Request.Context()
	target, err := resolveUserByIdentifier(server.DB.WithContext(ctx), c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error fetching followers")
		return
	}

	users, err := server.cachedUserList(ctx, cache.FollowersKey(target.ID), func() ([]models.User, error) {
		return server.Graph.Followers(ctx, target.ID)
	})
	if err != nil {
		server.respondError(c, err, "Error fetching followers")
		return
	}
	respondOK(c, "Followers fetched", users)
}

// GetFollowing lists the users :id follows.
func (server *Server) GetFollowing(c *gin.Context) {
	ctx := c.Request.Context()
	target, err := resolveUserByIdentifier(server.DB.WithContext(ctx), c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error fetching following")
		return
	}

	users, err := server.cachedUserList(ctx, cache.FollowingKey(target.ID), func() ([]models.User, error) {
		return server.Graph.Following(ctx, target.ID)
	})
	if err != nil {
		server.respondError(c, err, "Error fetching following")
		return
	}
	respondOK(c, "Following fetched", users)
}

// GetRelationship reports how the caller relates to :id.
func (server *Server) GetRelationship(c *gin.Context) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	ctx := c.Request.Context()

	target, err := resolveUserByIdentifier(server.DB.WithContext(ctx), c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error checking relationship")
		return
	}
	rel, err := server.Graph.Relationship(ctx, callerID, target.ID)
	if err != nil {
		server.respondError(c, err, "Error checking relationship")
		return
	}
	respondOK(c, "Relationship fetched", relationshipToDTO(rel))
}
