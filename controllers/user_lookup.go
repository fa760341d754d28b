package controllers

import (
	"errors"
	"strings"

	"Wildography/models"

	"gorm.io/gorm"
)

// resolveUserByIdentifier finds a user by public id, numeric id or handle,
// in that order. It returns models.ErrUserNotFound when none match.
func resolveUserByIdentifier(db *gorm.DB, identifier string) (*models.User, error) {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil, models.ErrUserNotFound
	}

	var user models.User
	if isUUIDLike(trimmed) {
		if err := db.Where("public_id = ?", strings.ToLower(trimmed)).Take(&user).Error; err == nil {
			return &user, nil
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	if id, ok := parseNumericID(trimmed); ok {
		return (&models.User{}).FindUserByID(db, id)
	}

	if err := db.Where("username = ?", strings.ToLower(trimmed)).Take(&user).Error; err == nil {
		return &user, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return nil, models.ErrUserNotFound
}
