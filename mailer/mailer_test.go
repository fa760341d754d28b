package mailer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResetPasswordBodyContainsLink(t *testing.T) {
	m := New("", "no-reply@example.com", "https://wild.example/")

	html, text, err := m.ResetPasswordBody("Alice", "tok123")
	require.NoError(t, err)

	assert.Contains(t, html, "https://wild.example/resetpassword/tok123")
	assert.Contains(t, text, "https://wild.example/resetpassword/tok123")
	assert.Contains(t, text, "Alice")
}

func TestSendWithoutAPIKeyIsSkipped(t *testing.T) {
	m := New("", "no-reply@example.com", "http://localhost:3000")
	assert.NoError(t, m.SendResetPassword(context.Background(), "alice@example.com", "Alice", "tok"))
}
