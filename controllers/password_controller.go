package controllers

import (
	"errors"
	"net/http"
	"time"

	"Wildography/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const resetTokenTTL = time.Hour

// ForgotPassword e-mails a reset link. It answers the same way whether or not
// the address belongs to an account.
func (server *Server) ForgotPassword(c *gin.Context) {
	var req ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	probe := models.User{Email: req.Email}
	probe.Prepare()
	if errorMessages := probe.Validate("forgotpassword"); len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": errorMessages})
		return
	}

	const message = "If the email exists, a reset link has been sent"
	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)

	user, err := probe.FindUserByEmail(db, probe.Email)
	if errors.Is(err, models.ErrUserNotFound) {
		respondOK(c, message, nil)
		return
	}
	if err != nil {
		server.respondError(c, err, "Error processing request")
		return
	}

	token, err := models.NewResetToken()
	if err != nil {
		server.respondError(c, err, "Error processing request")
		return
	}
	reset := models.ResetPassword{Email: user.Email, Token: token, ExpiresAt: time.Now().Add(resetTokenTTL)}
	if _, err := reset.SaveDetails(db); err != nil {
		server.respondError(c, err, "Error processing request")
		return
	}

	if err := server.Mailer.SendResetPassword(ctx, user.Email, user.Handle(), token); err != nil {
		server.Log.Error("reset e-mail failed", zap.String("to", user.Email), zap.Error(err))
	}
	respondOK(c, message, nil)
}

// ResetPassword consumes a reset token and sets the new password.
func (server *Server) ResetPassword(c *gin.Context) {
	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"status": http.StatusUnprocessableEntity, "error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	db := server.DB.WithContext(ctx)
	now := time.Now()
	reset, err := (&models.ResetPassword{}).FindValid(db, req.Token, now)
	if err != nil {
		server.respondError(c, err, "Error resetting password")
		return
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := reset.Consume(tx, now); err != nil {
			return err
		}
		user := models.User{Email: reset.Email, Password: req.NewPassword}
		return user.UpdatePassword(tx)
	})
	if err != nil {
		server.respondError(c, err, "Error resetting password")
		return
	}
	respondOK(c, "Password updated", nil)
}
