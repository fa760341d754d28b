package controllers

import (
	"Wildography/models"
	"Wildography/services"
)

func userToDTO(user *models.User) UserDTO {
	return UserDTO{
		ID:             user.PublicID,
		Name:           user.Name,
		Username:       user.Username,
		Email:          user.Email,
		AvatarPath:     user.AvatarPath,
		Troop:          user.Troop,
		FollowersCount: user.FollowersCount,
		FollowingCount: user.FollowingCount,
		CreatedAt:      user.CreatedAt,
		UpdatedAt:      user.UpdatedAt,
	}
}

func usersToDTOs(users []models.User) []UserDTO {
	out := make([]UserDTO, len(users))
	for i := range users {
		out[i] = userToDTO(&users[i])
	}
	return out
}

func userToSummary(user *models.User) UserSummaryDTO {
	return UserSummaryDTO{
		ID:         user.PublicID,
		Name:       user.Name,
		Username:   user.Username,
		AvatarPath: user.AvatarPath,
	}
}

func userToProfile(user *models.User, followers, following []string) UserProfileDTO {
	if followers == nil {
		followers = []string{}
	}
	if following == nil {
		following = []string{}
	}
	return UserProfileDTO{
		UserDTO:   userToDTO(user),
		Followers: followers,
		Following: following,
	}
}

func relationshipToDTO(rel services.Relationship) RelationshipDTO {
	return RelationshipDTO{
		Following:      rel.Following,
		FollowedBy:     rel.FollowedBy,
		Mutual:         rel.Mutual,
		RequestPending: rel.RequestPending,
	}
}

func notificationToDTO(n *models.Notification, recipientPublicID string) NotificationDTO {
	return NotificationDTO{
		ID:        uintToString(n.ID),
		Recipient: recipientPublicID,
		Origin:    n.Origin.PublicID,
		From:      userToSummary(&n.Origin),
		Type:      n.Type,
		Message:   n.Message,
		CreatedAt: n.CreatedAt,
	}
}

func postToDTO(post *models.Post) PostDTO {
	comments := make([]CommentDTO, len(post.Comments))
	for i, comment := range post.Comments {
		comments[i] = CommentDTO{
			Author:    comment.Author,
			Text:      comment.Text,
			CreatedAt: comment.CreatedAt,
		}
	}
	return PostDTO{
		ID:          post.PublicID,
		Owner:       userToSummary(&post.Owner),
		Title:       post.Title,
		ImageURL:    post.ImageURL,
		Description: post.Description,
		Likes:       post.Likes,
		Tag:         post.Tag,
		Comments:    comments,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

func postsToDTOs(posts []models.Post) []PostDTO {
	out := make([]PostDTO, len(posts))
	for i := range posts {
		out[i] = postToDTO(&posts[i])
	}
	return out
}
