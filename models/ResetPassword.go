package models

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

var ErrInvalidResetToken = errors.New("Invalid link. Try requesting again")

type ResetPassword struct {
	ID        uint      `gorm:"primary_key;autoIncrement" json:"-"`
	Email     string    `gorm:"size:100;not null;index" json:"email"`
	Token     string    `gorm:"size:255;not null;uniqueIndex" json:"-"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewResetToken returns a random 32 byte hex token.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (r *ResetPassword) SaveDetails(db *gorm.DB) (*ResetPassword, error) {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	if err := db.Create(r).Error; err != nil {
		return nil, err
	}
	return r, nil
}

// FindValid returns the unexpired reset row for token.
func (r *ResetPassword) FindValid(db *gorm.DB, token string, now time.Time) (*ResetPassword, error) {
	var found ResetPassword
	err := db.Where("token = ? AND expires_at > ?", strings.TrimSpace(token), now).Take(&found).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidResetToken
		}
		return nil, err
	}
	return &found, nil
}

// Consume deletes the row if it is still unexpired. A token consumed by
// someone else in the meantime yields ErrInvalidResetToken.
func (r *ResetPassword) Consume(db *gorm.DB, now time.Time) error {
	result := db.Where("id = ? AND expires_at > ?", r.ID, now).Delete(&ResetPassword{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidResetToken
	}
	return nil
}

// DeleteExpired purges reset rows that expired before now.
func (r *ResetPassword) DeleteExpired(db *gorm.DB, now time.Time) (int64, error) {
	result := db.Where("expires_at <= ?", now).Delete(&ResetPassword{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
