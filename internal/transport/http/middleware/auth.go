package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/vedran77/roomie/internal/service"
	"go.uber.org/zap"
)

type contextKey string

const (
	UserIDKey  contextKey = "user_id"
	SessionKey contextKey = "session"
)

// Authenticator turns a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (service.Session, error)
}

func Auth(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Missing or invalid token")
				return
			}

			sess, err := auth.Authenticate(r.Context(), strings.TrimPrefix(header, "Bearer "))
			switch {
			case errors.Is(err, service.ErrTokenRevoked):
				writeError(w, http.StatusUnauthorized, "TOKEN_REVOKED", "Token has been revoked")
				return
			case errors.Is(err, service.ErrInvalidToken):
				writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "Invalid or expired token")
				return
			case err != nil:
				logger.Error("authenticate", zap.Error(err))
				writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, sess.UserID)
			ctx = context.WithValue(ctx, SessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID extracts user ID from request context
func GetUserID(ctx context.Context) uuid.UUID {
	return ctx.Value(UserIDKey).(uuid.UUID)
}

func GetSession(ctx context.Context) service.Session {
	return ctx.Value(SessionKey).(service.Session)
}

// WithUserID stores a user ID the way Auth does. Handlers under test use it to skip tokens.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
