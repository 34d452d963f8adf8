package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"freshguard-api/internal/model"
	"freshguard-api/internal/service"
	"freshguard-api/pkg/apierror"
	"freshguard-api/pkg/response"
)

// OwnerKey is the key for storing the authenticated owner in request context.
const OwnerKey contextKey = "owner"

// SessionValidator resolves session tokens.
type SessionValidator interface {
	Validate(ctx context.Context, token string) (*model.SessionData, error)
}

// AuthConfig holds configuration for the auth middleware.
type AuthConfig struct {
	Sessions   SessionValidator
	CookieName string
}

// TokenFromRequest extracts the session token from the session cookie, the
// X-Token header or an Authorization bearer, in that order.
func TokenFromRequest(r *http.Request, cookieName string) string {
	if cookieName != "" {
		if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
			return c.Value
		}
	}

	if token := r.Header.Get("X-Token"); token != "" {
		return token
	}

	auth := r.Header.Get("Authorization")
	if strings.HasPrefix(auth, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
	}
	return ""
}

// NewAuthMiddleware rejects requests without a valid session and puts the
// session's owner in the request context.
func NewAuthMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r, cfg.CookieName)
			if token == "" {
				response.Error(w, apierror.Unauthorized(""))
				return
			}

			session, err := cfg.Sessions.Validate(r.Context(), token)
			if errors.Is(err, service.ErrInvalidSession) {
				response.Error(w, apierror.Unauthorized("Invalid or expired session"))
				return
			}
			if err != nil {
				slog.Error("session lookup failed",
					"error", err,
					"request_id", GetRequestID(r.Context()),
				)
				response.Error(w, apierror.ServiceUnavailable(""))
				return
			}

			owner := model.NewOwner(session.UserID)
			if !owner.Valid() {
				response.Error(w, apierror.Unauthorized("Invalid or expired session"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithOwner(r.Context(), owner)))
		})
	}
}

// GetOwner retrieves the authenticated owner from request context.
func GetOwner(ctx context.Context) (model.Owner, bool) {
	owner, ok := ctx.Value(OwnerKey).(model.Owner)
	return owner, ok && owner.Valid()
}

// WithOwner returns a copy of ctx carrying owner.
func WithOwner(ctx context.Context, owner model.Owner) context.Context {
	return context.WithValue(ctx, OwnerKey, owner)
}
