package services

import (
	"context"
	"errors"
	"fmt"

	"Wildography/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrUserNotFound     = models.ErrUserNotFound
	ErrAlreadyFollowing = errors.New("Already following user")
	ErrNotFollowing     = errors.New("Not following user")
	ErrSelfFollow       = errors.New("Cannot follow yourself")
)

// SocialGraph owns every change to follow edges and follow-request
// notifications. Each operation runs as one unit of work.
type SocialGraph struct {
	db            *gorm.DB
	dedupRequests bool
}

// NewSocialGraph builds the service. With dedupRequests set, a second follow
// request for a pair that already has one pending is not stored again.
func NewSocialGraph(db *gorm.DB, dedupRequests bool) *SocialGraph {
	return &SocialGraph{db: db, dedupRequests: dedupRequests}
}

// Relationship describes how a viewer relates to another user.
type Relationship struct {
	Following      bool `json:"following"`
	FollowedBy     bool `json:"followed_by"`
	Mutual         bool `json:"mutual"`
	RequestPending bool `json:"request_pending"`
}

// withinUnitOfWork stages all writes made by fn and commits them together.
// If fn returns an error nothing it wrote is kept.
func (g *SocialGraph) withinUnitOfWork(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return g.db.WithContext(ctx).Transaction(fn)
}

func loadUser(tx *gorm.DB, id uint) (*models.User, error) {
	user, err := (&models.User{}).FindUserByID(tx, id)
	if err != nil {
		if errors.Is(err, models.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return user, nil
}

func loadPair(tx *gorm.DB, firstID, secondID uint) (*models.User, *models.User, error) {
	first, err := loadUser(tx, firstID)
	if err != nil {
		return nil, nil, err
	}
	second, err := loadUser(tx, secondID)
	if err != nil {
		return nil, nil, err
	}
	return first, second, nil
}

// insertEdge adds follower -> followed and bumps both counters. It reports
// false, without error, when the edge was already there.
func insertEdge(tx *gorm.DB, followerID, followedID uint) (bool, error) {
	follow := models.Follow{FollowerID: followerID, FollowedID: followedID}
	result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&follow)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		return false, fmt.Errorf("insert follow edge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", followerID).
		UpdateColumn("following_count", gorm.Expr("following_count + 1")).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&models.User{}).
		Where("id = ?", followedID).
		UpdateColumn("followers_count", gorm.Expr("followers_count + 1")).Error; err != nil {
		return false, err
	}
	return true, nil
}

// removeEdge deletes follower -> followed and decrements both counters,
// never below zero. It reports false when there was no edge.
func removeEdge(tx *gorm.DB, followerID, followedID uint) (bool, error) {
	result := tx.Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Delete(&models.Follow{})
	if result.Error != nil {
		return false, fmt.Errorf("delete follow edge: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	if err := tx.Model(&models.User{}).
		Where("id = ?", followerID).
		UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count > 0 THEN following_count - 1 ELSE 0 END")).Error; err != nil {
		return false, err
	}
	if err := tx.Model(&models.User{}).
		Where("id = ?", followedID).
		UpdateColumn("followers_count", gorm.Expr("CASE WHEN followers_count > 0 THEN followers_count - 1 ELSE 0 END")).Error; err != nil {
		return false, err
	}
	return true, nil
}

func edgeExists(tx *gorm.DB, followerID, followedID uint) (bool, error) {
	var count int64
	err := tx.Model(&models.Follow{}).
		Where("follower_id = ? AND followed_id = ?", followerID, followedID).
		Count(&count).Error
	return count > 0, err
}

func (g *SocialGraph) follow(ctx context.Context, actorID, targetID uint) error {
	return g.withinUnitOfWork(ctx, func(tx *gorm.DB) error {
		if _, _, err := loadPair(tx, actorID, targetID); err != nil {
			return err
		}
		if actorID == targetID {
			return ErrSelfFollow
		}
		created, err := insertEdge(tx, actorID, targetID)
		if err != nil {
			return err
		}
		if !created {
			return ErrAlreadyFollowing
		}
		return nil
	})
}

// Follow makes actor a follower of target.
func (g *SocialGraph) Follow(ctx context.Context, actorID, targetID uint) error {
	return g.follow(ctx, actorID, targetID)
}

// FollowBack makes actor follow target in answer to target's incoming follow.
// It fails with ErrAlreadyFollowing when actor already follows target.
func (g *SocialGraph) FollowBack(ctx context.Context, actorID, targetID uint) error {
	return g.follow(ctx, actorID, targetID)
}

// Unfollow removes actor from target's followers.
func (g *SocialGraph) Unfollow(ctx context.Context, actorID, targetID uint) error {
	return g.withinUnitOfWork(ctx, func(tx *gorm.DB) error {
		if _, _, err := loadPair(tx, actorID, targetID); err != nil {
			return err
		}
		removed, err := removeEdge(tx, actorID, targetID)
		if err != nil {
			return err
		}
		if !removed {
			return ErrNotFollowing
		}
		return nil
	})
}

// RequestFollow leaves a follow_request notification for target naming actor.
// Follow edges are not touched.
func (g *SocialGraph) RequestFollow(ctx context.Context, actorID, targetID uint) (*models.Notification, error) {
	var created *models.Notification
	err := g.withinUnitOfWork(ctx, func(tx *gorm.DB) error {
		actor, _, err := loadPair(tx, actorID, targetID)
		if err != nil {
			return err
		}
		if actorID == targetID {
			return ErrSelfFollow
		}

		if g.dedupRequests {
			pending, err := (&models.Notification{}).FindPending(tx, targetID, actorID, models.NotificationFollowRequest)
			if err != nil {
				return err
			}
			if pending != nil {
				created = pending
				return nil
			}
		}

		notification := models.Notification{
			RecipientID: targetID,
			OriginID:    actorID,
			Type:        models.NotificationFollowRequest,
			Message:     fmt.Sprintf("%s wants to follow you", actor.Handle()),
		}
		saved, err := notification.SaveNotification(tx)
		if err != nil {
			return fmt.Errorf("save follow request: %w", err)
		}
		created = saved
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AcceptFollowRequest makes requester a follower of recipient, if it is not
// one already, and clears the pending requests for the pair. A missing
// notification is not an error.
func (g *SocialGraph) AcceptFollowRequest(ctx context.Context, recipientID, requesterID uint) error {
	return g.withinUnitOfWork(ctx, func(tx *gorm.DB) error {
		if _, _, err := loadPair(tx, recipientID, requesterID); err != nil {
			return err
		}
		if recipientID == requesterID {
			return ErrSelfFollow
		}
		if _, err := insertEdge(tx, requesterID, recipientID); err != nil {
			return err
		}
		if _, err := (&models.Notification{}).DeleteBy(tx, recipientID, requesterID, models.NotificationFollowRequest); err != nil {
			return fmt.Errorf("clear follow request: %w", err)
		}
		return nil
	})
}

// RejectFollowRequest clears the pending requests for the pair and nothing else.
func (g *SocialGraph) RejectFollowRequest(ctx context.Context, recipientID, requesterID uint) error {
	_, err := (&models.Notification{}).DeleteBy(g.db.WithContext(ctx), recipientID, requesterID, models.NotificationFollowRequest)
	if err != nil {
		return fmt.Errorf("clear follow request: %w", err)
	}
	return nil
}

// Followers lists the users following userID, newest follow first.
func (g *SocialGraph) Followers(ctx context.Context, userID uint) ([]models.User, error) {
	return g.listEdges(ctx, userID, "follows.followed_id = ?", "users.id = follows.follower_id")
}

// Following lists the users userID follows, newest follow first.
func (g *SocialGraph) Following(ctx context.Context, userID uint) ([]models.User, error) {
	return g.listEdges(ctx, userID, "follows.follower_id = ?", "users.id = follows.followed_id")
}

func (g *SocialGraph) listEdges(ctx context.Context, userID uint, whereClause, joinClause string) ([]models.User, error) {
	db := g.db.WithContext(ctx)
	if _, err := loadUser(db, userID); err != nil {
		return nil, err
	}

	users := []models.User{}
	err := db.Model(&models.User{}).
		Select("users.*").
		Joins("JOIN follows ON "+joinClause).
		Where(whereClause, userID).
		Order("follows.created_at DESC, follows.id DESC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("list follows: %w", err)
	}
	return users, nil
}

// Relationship reports the edges and pending request between viewer and target.
func (g *SocialGraph) Relationship(ctx context.Context, viewerID, targetID uint) (Relationship, error) {
	var rel Relationship
	if viewerID == targetID {
		return rel, nil
	}
	db := g.db.WithContext(ctx)

	following, err := edgeExists(db, viewerID, targetID)
	if err != nil {
		return rel, err
	}
	followedBy, err := edgeExists(db, targetID, viewerID)
	if err != nil {
		return rel, err
	}
	pending, err := (&models.Notification{}).FindPending(db, targetID, viewerID, models.NotificationFollowRequest)
	if err != nil {
		return rel, err
	}

	rel.Following = following
	rel.FollowedBy = followedBy
	rel.Mutual = following && followedBy
	rel.RequestPending = pending != nil
	return rel, nil
}

// FollowIDs returns the public ids on both sides of userID's edges.
func (g *SocialGraph) FollowIDs(ctx context.Context, userID uint) (followers []string, following []string, err error) {
	db := g.db.WithContext(ctx)
	followers = []string{}
	following = []string{}

	if err = db.Table("follows").
		Select("users.public_id").
		Joins("JOIN users ON users.id = follows.follower_id").
		Where("follows.followed_id = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Scan(&followers).Error; err != nil {
		return nil, nil, err
	}
	if err = db.Table("follows").
		Select("users.public_id").
		Joins("JOIN users ON users.id = follows.followed_id").
		Where("follows.follower_id = ?", userID).
		Order("follows.created_at DESC, follows.id DESC").
		Scan(&following).Error; err != nil {
		return nil, nil, err
	}
	return followers, following, nil
}
