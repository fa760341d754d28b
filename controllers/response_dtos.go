package controllers

import "time"

type UserDTO struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Username       *string   `json:"username"`
	Email          string    `json:"email"`
	AvatarPath     string    `json:"avatar_path"`
	Troop          string    `json:"troop"`
	FollowersCount int64     `json:"followers_count"`
	FollowingCount int64     `json:"following_count"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// UserProfileDTO adds the public ids on both sides of the user's follow edges.
type UserProfileDTO struct {
	UserDTO
	Followers []string `json:"followers"`
	Following []string `json:"following"`
}

type RelationshipDTO struct {
	Following      bool `json:"following"`
	FollowedBy     bool `json:"followed_by"`
	Mutual         bool `json:"mutual"`
	RequestPending bool `json:"request_pending"`
}

type UserSummaryDTO struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Username   *string `json:"username"`
	AvatarPath string  `json:"avatar_path"`
}

type NotificationDTO struct {
	ID        string         `json:"id"`
	Recipient string         `json:"recipient"`
	Origin    string         `json:"origin"`
	From      UserSummaryDTO `json:"from"`
	Type      string         `json:"type"`
	Message   string         `json:"message"`
	CreatedAt time.Time      `json:"created_at"`
}

type CommentDTO struct {
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

type PostDTO struct {
	ID          string         `json:"id"`
	Owner       UserSummaryDTO `json:"owner"`
	Title       string         `json:"title"`
	ImageURL    string         `json:"image_url"`
	Description string         `json:"description"`
	Likes       int64          `json:"likes"`
	Tag         string         `json:"tag"`
	Comments    []CommentDTO   `json:"comments"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

type LoginDTO struct {
	Token string         `json:"token"`
	User  UserProfileDTO `json:"user"`
}
