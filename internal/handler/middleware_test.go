package handler_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/vasapolrittideah/minishop-api/internal/handler"
	"github.com/vasapolrittideah/minishop-api/shared/auth"
)

const testSecret = "test-signing-secret"

func authProtected(t *testing.T, invoked *bool) http.Handler {
	t.Helper()

	logger := zerolog.Nop()
	tokens := auth.NewTokenService(testSecret)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*invoked = true

		subject, ok := handler.SubjectFromContext(r.Context())
		require.True(t, ok)
		require.NotEmpty(t, subject)

		w.WriteHeader(http.StatusOK)
	})

	return handler.RequireAuth(tokens, &logger)(next)
}

func TestRequireAuthMissingHeader(t *testing.T) {
	var invoked bool
	protected := authProtected(t, &invoked)

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/auth", nil))

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "no token provided")
	require.False(t, invoked, "business handler must not run without a token")
}

func TestRequireAuthMalformedHeader(t *testing.T) {
	var invoked bool
	protected := authProtected(t, &invoked)

	for _, header := range []string{"Bearer", "Bearer ", "Token abc", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/auth", nil)
		req.Header.Set("Authorization", header)

		rec := httptest.NewRecorder()
		protected.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		require.Contains(t, rec.Body.String(), "no token provided")
	}

	require.False(t, invoked)
}

func TestRequireAuthExpiredToken(t *testing.T) {
	var invoked bool
	protected := authProtected(t, &invoked)

	claims := jwt.RegisteredClaims{
		Subject:   "openid-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.Header.Set("Authorization", "Bearer "+expired)

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.Contains(t, rec.Body.String(), "token expired")
	require.False(t, invoked)
}

func TestRequireAuthInvalidToken(t *testing.T) {
	var invoked bool
	protected := authProtected(t, &invoked)

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.Header.Set("Authorization", "Bearer garbage")

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), "invalid token")
	require.False(t, invoked)
}

func TestRequireAuthValidToken(t *testing.T) {
	var invoked bool
	protected := authProtected(t, &invoked)

	tokens := auth.NewTokenService(testSecret)
	token, err := tokens.Issue("openid-123")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	protected.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, invoked)
}
