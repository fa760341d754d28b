package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	hashed, err := Hash("otter-pup")
	require.NoError(t, err)

	assert.True(t, IsHashed(string(hashed)))
	assert.False(t, IsHashed("otter-pup"))
	assert.NoError(t, VerifyPassword(string(hashed), "otter-pup"))
	assert.ErrorIs(t, VerifyPassword(string(hashed), "wrong"), bcrypt.ErrMismatchedHashAndPassword)
}
