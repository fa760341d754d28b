package controllers

// Request bodies are bound with gin's validator before any handler logic runs.

type SignupRequest struct {
	Name     string  `json:"name" binding:"required"`
	Username *string `json:"username"`
	Email    string  `json:"email" binding:"required"`
	Password string  `json:"password" binding:"required"`
	Troop    string  `json:"troop"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type UpdateUserRequest struct {
	Name       *string `json:"name"`
	Username   *string `json:"username"`
	AvatarPath *string `json:"avatar_path"`
	Troop      *string `json:"troop"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

type ResetPasswordRequest struct {
	Token          string `json:"token" binding:"required"`
	NewPassword    string `json:"new_password" binding:"required,min=6"`
	RetypePassword string `json:"retype_password" binding:"required,eqfield=NewPassword"`
}

type CreatePostRequest struct {
	Title       string `json:"title" binding:"required"`
	ImageURL    string `json:"image_url" binding:"required"`
	Description string `json:"description"`
	Tag         string `json:"tag" binding:"required,oneof=Marine Wild"`
}

type CreateCommentRequest struct {
	Author string `json:"author"`
	Text   string `json:"text" binding:"required"`
}
