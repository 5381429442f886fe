package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIdentity_PassesIdentityThrough(t *testing.T) {
	t.Parallel()

	var seen string

	handler := Identity(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CallerIdentity(r.Context())
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)
	req.Header.Set(IdentityHeader, "alice")

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Result().StatusCode)
	assert.Equal(t, "alice", seen)
}

func TestIdentity_RejectsAnonymousMutation(t *testing.T) {
	t.Parallel()

	called := false

	handler := Identity(slog.Default())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/documents", nil)

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Result().StatusCode)
	assert.False(t, called)
}
