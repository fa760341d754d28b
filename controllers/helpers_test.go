package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"Wildography/config"
	"Wildography/utils/testdb"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeUploader) Upload(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

type fakeMailer struct {
	mu     sync.Mutex
	tokens map[string]string
}

func (f *fakeMailer) SendResetPassword(ctx context.Context, toEmail, toName, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.tokens == nil {
		f.tokens = map[string]string{}
	}
	f.tokens[toEmail] = token
	return nil
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	t.Setenv("API_SECRET", "controllers-test-secret")
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:         "test",
		APISecret:   "controllers-test-secret",
		TokenTTL:    time.Hour,
		FrontendURL: "http://localhost:3000",
		CORSOrigins: []string{"http://localhost:3000"},
	}
	return NewServer(testdb.Open(t), cfg, zap.NewNop())
}

type envelope struct {
	Status   int             `json:"status"`
	Message  string          `json:"message"`
	Response json.RawMessage `json:"response"`
	Error    json.RawMessage `json:"error"`
}

func doJSON(t *testing.T, server *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}
	req := httptest.NewRequest(method, path, &payload)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	server.Router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

// errorText returns the "error" field of a failure response as a string.
func errorText(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var msg string
	require.NoError(t, json.Unmarshal(decode(t, w).Error, &msg), w.Body.String())
	return msg
}

func responseInto(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(decode(t, w).Response, dest), w.Body.String())
}

type testUser struct {
	ID    string
	Token string
}

func signup(t *testing.T, server *Server, name, handle, email string) testUser {
	t.Helper()
	w := doJSON(t, server, http.MethodPost, "/auth/signup", "", gin.H{
		"name":     name,
		"username": handle,
		"email":    email,
		"password": "password123",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var login LoginDTO
	responseInto(t, w, &login)
	return testUser{ID: login.User.ID, Token: login.Token}
}

func userIDs(users []UserDTO) []string {
	ids := make([]string, len(users))
	for i := range users {
		ids[i] = users[i].ID
	}
	return ids
}
