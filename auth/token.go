package auth

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	jwt "github.com/dgrijalva/jwt-go"
)

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

const defaultTokenTTL = 24 * time.Hour

func secret() ([]byte, error) {
	value := strings.TrimSpace(os.Getenv("API_SECRET"))
	if value == "" {
		return nil, errors.New("API_SECRET is not set")
	}
	return []byte(value), nil
}

func tokenTTL() time.Duration {
	if hours, err := strconv.Atoi(os.Getenv("TOKEN_TTL_HOURS")); err == nil && hours > 0 {
		return time.Duration(hours) * time.Hour
	}
	return defaultTokenTTL
}

// CreateToken signs an HS256 token carrying the user id.
func CreateToken(userID uint) (string, error) {
	key, err := secret()
	if err != nil {
		return "", err
	}
	claims := jwt.MapClaims{
		"authorized": true,
		"user_id":    userID,
		"exp":        time.Now().Add(tokenTTL()).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(key)
}

// ExtractToken returns the bearer token from the Authorization header.
func ExtractToken(r *http.Request) string {
	bearer := r.Header.Get("Authorization")
	parts := strings.Fields(bearer)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return parts[1]
	}
	return ""
}

func parse(tokenString string) (*jwt.Token, error) {
	key, err := secret()
	if err != nil {
		return nil, err
	}
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return key, nil
	})
}

// TokenValid reports whether the request carries a valid, unexpired token.
func TokenValid(r *http.Request) error {
	_, err := ExtractTokenID(r)
	return err
}

// ExtractTokenID verifies the bearer token and returns the user id it names.
func ExtractTokenID(r *http.Request) (uint, error) {
	tokenString := ExtractToken(r)
	if tokenString == "" {
		return 0, ErrMissingToken
	}
	token, err := parse(tokenString)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return 0, ErrInvalidToken
	}
	raw, ok := claims["user_id"].(float64)
	if !ok || raw <= 0 {
		return 0, ErrInvalidToken
	}
	return uint(raw), nil
}
