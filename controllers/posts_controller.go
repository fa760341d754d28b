package controllers

import (
	"net/http"
	"strings"

	"Wildography/models"
	httpctx "Wildography/utils/httpctx"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func findPost(db *gorm.DB, identifier string) (*models.Post, error) {
	if !isUUIDLike(strings.TrimSpace(identifier)) {
		return nil, models.ErrPostNotFound
	}
	return (&models.Post{}).FindPostByPublicID(db, strings.ToLower(identifier))
}

// CreatePost publishes a post owned by the caller.
func (server *Server) CreatePost(c *gin.Context) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	post := models.Post{
		Title:       req.Title,
		ImageURL:    req.ImageURL,
		Description: req.Description,
		Tag:         req.Tag,
	}
	post.Prepare()
	post.UserID = callerID
	errorMessages := post.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	created, err := post.SavePost(server.DB.WithContext(c.Request.Context()))
	if err != nil {
		server.respondError(c, err, "Error creating post")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"message":  "Post created",
		"response": postToDTO(created),
	})
}

// GetPosts lists posts newest first, optionally only one ?tag.
func (server *Server) GetPosts(c *gin.Context) {
	tag := strings.TrimSpace(c.Query("tag"))
	if tag != "" && !models.ValidTag(tag) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tag must be Marine or Wild"})
		return
	}

	posts, err := (&models.Post{}).FindAllPosts(server.DB.WithContext(c.Request.Context()), tag)
	if err != nil {
		server.respondError(c, err, "Error fetching posts")
		return
	}
	respondOK(c, "Posts fetched", postsToDTOs(posts))
}

func (server *Server) GetPost(c *gin.Context) {
	post, err := findPost(server.DB.WithContext(c.Request.Context()), c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error fetching post")
		return
	}
	respondOK(c, "Post fetched", postToDTO(post))
}

// LikePost adds one like.
func (server *Server) LikePost(c *gin.Context) {
	db := server.DB.WithContext(c.Request.Context())
	post, err := findPost(db, c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error liking post")
		return
	}
	liked, err := post.IncrementLikes(db)
	if err != nil {
		server.respondError(c, err, "Error liking post")
		return
	}
	respondOK(c, "Post liked", postToDTO(liked))
}

// CreateComment appends a comment. The author label defaults to the caller's handle.
func (server *Server) CreateComment(c *gin.Context) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	db := server.DB.WithContext(c.Request.Context())
	post, err := findPost(db, c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error adding comment")
		return
	}

	author := req.Author
	if strings.TrimSpace(author) == "" {
		caller, err := (&models.User{}).FindUserByID(db, callerID)
		if err != nil {
			server.respondError(c, err, "Error adding comment")
			return
		}
		author = caller.Handle()
	}

	comment := models.PostComment{Author: author, Text: req.Text}
	comment.Prepare()
	comment.PostID = post.ID
	comment.UserID = callerID
	errorMessages := comment.Validate()
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}
	if _, err := comment.SaveComment(db); err != nil {
		server.respondError(c, err, "Error adding comment")
		return
	}

	updated, err := (&models.Post{}).FindPostByPublicID(db, post.PublicID)
	if err != nil {
		server.respondError(c, err, "Error adding comment")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":   http.StatusCreated,
		"message":  "Comment added",
		"response": postToDTO(updated),
	})
}

// DeletePost removes one of the caller's posts with its comments.
func (server *Server) DeletePost(c *gin.Context) {
	callerID, ok := httpctx.CurrentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	db := server.DB.WithContext(c.Request.Context())
	post, err := findPost(db, c.Param("id"))
	if err != nil {
		server.respondError(c, err, "Error deleting post")
		return
	}
	if post.UserID != callerID {
		server.respondError(c, errForbidden, "Error deleting post")
		return
	}
	if _, err := post.DeletePost(db); err != nil {
		server.respondError(c, err, "Error deleting post")
		return
	}
	respondOK(c, "Post deleted", nil)
}
