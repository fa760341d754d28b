package controllers

import (
	"net/http"

	"Wildography/middlewares"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initializeRoutes() {
	authRequired := middlewares.TokenAuthMiddleware(s.DB)
	authLimit := s.authLimiter.Middleware()

	s.Router.GET("/health", s.Health)
	s.Router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.Registry, promhttp.HandlerOpts{})))

	// Auth routes
	s.Router.POST("/auth/signup", authLimit, s.CreateUser)
	s.Router.POST("/auth/login", authLimit, s.Login)
	s.Router.POST("/password/forgot", authLimit, s.ForgotPassword)
	s.Router.POST("/password/reset", authLimit, s.ResetPassword)

	// Users routes
	s.Router.GET("/users", s.GetUsers)
	s.Router.GET("/users/:id", s.GetUser)
	s.Router.PUT("/users/:id", authRequired, s.UpdateUser)
	s.Router.PUT("/users/:id/avatar", authRequired, s.UpdateAvatar)

	// Social graph routes
	s.Router.POST("/users/:id/follow", authRequired, s.FollowUser)
	s.Router.POST("/users/:id/unfollow", authRequired, s.UnfollowUser)
	s.Router.POST("/users/:id/follow-request", authRequired, s.RequestFollow)
	s.Router.POST("/users/:id/accept-follow-request", authRequired, s.AcceptFollowRequest)
	s.Router.POST("/users/:id/reject-follow-request", authRequired, s.RejectFollowRequest)
	s.Router.POST("/users/:id/follow-back", authRequired, s.FollowBack)
	s.Router.GET("/users/:id/followers", s.GetFollowers)
	s.Router.GET("/users/:id/following", s.GetFollowing)
	s.Router.GET("/users/:id/relationship", authRequired, s.GetRelationship)

	// Notifications
	s.Router.GET("/notifications", s.GetNotifications)

	// Posts routes
	s.Router.GET("/posts", s.GetPosts)
	s.Router.GET("/posts/:id", s.GetPost)
	s.Router.POST("/posts", authRequired, s.CreatePost)
	s.Router.POST("/posts/:id/like", authRequired, s.LikePost)
	s.Router.POST("/posts/:id/comments", authRequired, s.CreateComment)
	s.Router.DELETE("/posts/:id", authRequired, s.DeletePost)

	s.Router.POST("/uploads/images", authRequired, s.UploadImage)
}

func (s *Server) Health(c *gin.Context) {
	status := http.StatusOK
	db := "ok"
	if sqlDB, err := s.DB.DB(); err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		db = "unavailable"
	}
	c.JSON(status, gin.H{"status": status, "database": db})
}
