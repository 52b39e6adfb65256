package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/minishop-api/shared/apperror"
	"github.com/vasapolrittideah/minishop-api/shared/auth"
)

type contextKey struct{}

var subjectKey = contextKey{}

// SubjectFromContext returns the verified subject attached by RequireAuth.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}

// RequireAuth verifies the bearer credential before the wrapped handler runs.
// A missing or malformed Authorization header is treated as "no token
// provided"; the business handler is never invoked on a rejected request.
func RequireAuth(tokens *auth.TokenService, logger *zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr, err := extractBearer(r)
			if err != nil {
				respondError(logger, w, err)
				return
			}

			subject, err := tokens.Verify(tokenStr)
			if err != nil {
				respondError(logger, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func extractBearer(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", apperror.NewAccess("no token provided")
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", apperror.NewAccess("no token provided")
	}

	return parts[1], nil
}
