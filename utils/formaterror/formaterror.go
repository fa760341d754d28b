package formaterror

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

// FormatError turns storage errors into messages safe to show to clients.
func FormatError(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey) && strings.Contains(msg, "username"):
		return errors.New("Username Already Taken")
	case strings.Contains(msg, "username") && strings.Contains(strings.ToLower(msg), "unique"):
		return errors.New("Username Already Taken")
	case strings.Contains(msg, "email") && strings.Contains(strings.ToLower(msg), "unique"):
		return errors.New("Email Already Taken")
	case strings.Contains(msg, "hashedPassword"):
		return errors.New("Incorrect Password")
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return errors.New("Already exists")
	}
	return errors.New("Incorrect Details")
}
