package controllers

import (
	"errors"
	"net/http"

	"Wildography/auth"
	"Wildography/models"
	"Wildography/storage"
	"Wildography/utils/formaterror"
	httpctx "Wildography/utils/httpctx"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateUser handles user registration
func (server *Server) CreateUser(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user := models.User{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Troop:    req.Troop,
	}
	user.Prepare()
	errorMessages := user.Validate("")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	userCreated, err := user.SaveUser(server.DB.WithContext(c.Request.Context()))
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": formaterror.FormatError(err).Error()})
			return
		}
		server.respondError(c, err, "Error creating user")
		return
	}

	token, err := auth.CreateToken(userCreated.ID)
	if err != nil {
		server.respondError(c, err, "Error creating user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status":  http.StatusCreated,
		"message": "User created",
		"response": LoginDTO{
			Token: token,
			User:  userToProfile(userCreated, nil, nil),
		},
	})
}

// GetUsers lists the directory, newest first.
func (server *Server) GetUsers(c *gin.Context) {
	users, err := (&models.User{}).FindAllUsers(server.DB.WithContext(c.Request.Context()))
	if err != nil {
		server.respondError(c, err, "No users found")
		return
	}
	respondOK(c, "Users fetched", usersToDTOs(*users))
}

// GetUser returns one profile with the ids on both sides of its follow edges.
func (server *Server) GetUser(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := resolveUserByIdentifier(server.DB.WithContext(ctx), c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error fetching user")
		return
	}

	followers, following, err := server.Graph.FollowIDs(ctx, user.ID)
	if err != nil {
		server.respondError(c, err, "Error fetching user")
		return
	}
	respondOK(c, "User fetched", userToProfile(user, followers, following))
}

// ownedUser resolves :id and checks it is the caller.
func (server *Server) ownedUser(c *gin.Context) (*models.User, error) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		return nil, errUnauthorized
	}
	user, err := resolveUserByIdentifier(server.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		return nil, err
	}
	if user.ID != callerID {
		return nil, errForbidden
	}
	return user, nil
}

// UpdateUser changes the caller's name, handle, troop or avatar URL.
func (server *Server) UpdateUser(c *gin.Context) {
	user, err := server.ownedUser(c)
	if err != nil {
		server.respondError(c, err, "Error updating user")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cannot parse request body"})
		return
	}
	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Username != nil {
		user.Username = req.Username
	}
	if req.Troop != nil {
		user.Troop = *req.Troop
	}
	if req.AvatarPath != nil {
		user.AvatarPath = *req.AvatarPath
	}

	user.Prepare()
	errorMessages := user.Validate("update")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	ctx := c.Request.Context()
	updated, err := user.UpdateProfile(server.DB.WithContext(ctx), user.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": formaterror.FormatError(err).Error()})
			return
		}
		server.respondError(c, err, "Error updating user")
		return
	}
	server.respondProfile(c, updated, "User updated")
}

// UpdateAvatar stores a multipart "file" image in S3 as the caller's avatar.
func (server *Server) UpdateAvatar(c *gin.Context) {
	user, err := server.ownedUser(c)
	if err != nil {
		server.respondError(c, err, "Error updating avatar")
		return
	}

	url, status, err := server.storeUploadedImage(c, models.AvatarPrefix, storage.MaxAvatarBytes, storage.AvatarMaxDimension)
	if err != nil {
		if status == http.StatusInternalServerError {
			server.respondError(c, err, "Failed to upload image")
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	user.AvatarPath = url
	updated, err := user.UpdateAUserAvatar(server.DB.WithContext(ctx), user.ID)
	if err != nil {
		server.respondError(c, err, "Cannot save image, please try again later")
		return
	}
	server.Log.Info("avatar updated", zap.String("user", updated.PublicID))
	server.respondProfile(c, updated, "Avatar updated")
}

func (server *Server) respondProfile(c *gin.Context, user *models.User, message string) {
	followers, following, err := server.Graph.FollowIDs(c.Request.Context(), user.ID)
	if err != nil {
		server.respondError(c, err, "Error fetching user")
		return
	}
	respondOK(c, message, userToProfile(user, followers, following))
}
