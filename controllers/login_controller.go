package controllers

import (
	"errors"
	"net/http"

	"Wildography/auth"
	"Wildography/models"
	"Wildography/security"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
)

var errBadCredentials = errors.New("Incorrect Details")

// Login exchanges email and password for a bearer token.
func (server *Server) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  "Cannot unmarshal body",
		})
		return
	}

	user := models.User{Email: req.Email, Password: req.Password}
	user.Prepare()
	errorMessages := user.Validate("login")
	if len(errorMessages) > 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": http.StatusUnprocessableEntity,
			"error":  errorMessages,
		})
		return
	}

	userData, err := server.SignIn(c, user.Email, user.Password)
	if err != nil {
		if errors.Is(err, errBadCredentials) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"status": http.StatusUnprocessableEntity,
				"error":  err.Error(),
			})
			return
		}
		server.respondError(c, err, "Error logging in")
		return
	}
	respondOK(c, "Logged in", userData)
}

// SignIn checks the credentials and issues a token. Unknown email and wrong
// password are reported the same way.
func (server *Server) SignIn(c *gin.Context, email, password string) (*LoginDTO, error) {
	ctx := c.Request.Context()
	user, err := (&models.User{}).FindUserByEmail(server.DB.WithContext(ctx), email)
	if errors.Is(err, models.ErrUserNotFound) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	err = security.VerifyPassword(user.Password, password)
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return nil, errBadCredentials
	}
	if err != nil {
		return nil, err
	}

	token, err := auth.CreateToken(user.ID)
	if err != nil {
		return nil, err
	}
	followers, following, err := server.Graph.FollowIDs(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	return &LoginDTO{Token: token, User: userToProfile(user, followers, following)}, nil
}
