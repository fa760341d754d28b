package controllers

import (
	"errors"
	"net/http"

	"Wildography/models"
	"Wildography/services"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var (
	errUnauthorized = errors.New("Unauthorized")
	errForbidden    = errors.New("Forbidden")
)

// statusFor maps domain errors to HTTP status codes. Anything unknown is a 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, models.ErrPostNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrAlreadyFollowing),
		errors.Is(err, services.ErrNotFollowing),
		errors.Is(err, services.ErrSelfFollow),
		errors.Is(err, models.ErrDuplicateEmail),
		errors.Is(err, models.ErrInvalidResetToken):
		return http.StatusBadRequest
	case errors.Is(err, errUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden):
		return http.StatusForbidden
	}
	return http.StatusInternalServerError
}

// respondError writes {"error": ...}. Unexpected errors are logged, reported
// and replaced by fallback so storage details never reach the client.
func (server *Server) respondError(c *gin.Context, err error, fallback string) {
	status := statusFor(err)
	if status != http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	server.Log.Error(fallback,
		zap.Error(err),
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
	)
	sentry.CaptureException(err)
	c.JSON(status, gin.H{"error": fallback})
}

func respondOK(c *gin.Context, message string, payload interface{}) {
	body := gin.H{"status": http.StatusOK, "message": message}
	if payload != nil {
		body["response"] = payload
	}
	c.JSON(http.StatusOK, body)
}
