package formaterror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestFormatError(t *testing.T) {
	cases := []struct {
		in   error
		want string
	}{
		{fmt.Errorf("username taken: %w", gorm.ErrDuplicatedKey), "Username Already Taken"},
		{errors.New("UNIQUE constraint failed: users.email"), "Email Already Taken"},
		{errors.New("crypto/bcrypt: hashedPassword is not the hash of the given password"), "Incorrect Password"},
		{gorm.ErrDuplicatedKey, "Already exists"},
		{errors.New("something else"), "Incorrect Details"},
	}
	for _, tc := range cases {
		assert.EqualError(t, FormatError(tc.in), tc.want)
	}
	assert.NoError(t, FormatError(nil))
}
