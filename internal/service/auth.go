package service

import (
	"context"
	"crypto/subtle"
	"fmt"
	"log/slog"

	"freshguard-api/internal/identity"
	"freshguard-api/internal/model"
	"freshguard-api/internal/repository"
	"freshguard-api/pkg/apierror"
)

// AuthService runs the login flow: OAuth redirect, code exchange, user
// upsert and session creation.
type AuthService struct {
	provider identity.Provider
	users    repository.UserRepository
	sessions *SessionService
}

// NewAuthService creates a new auth service. provider may be nil when no
// identity provider is configured.
func NewAuthService(provider identity.Provider, users repository.UserRepository, sessions *SessionService) *AuthService {
	return &AuthService{
		provider: provider,
		users:    users,
		sessions: sessions,
	}
}

// Enabled reports whether an identity provider is configured.
func (s *AuthService) Enabled() bool {
	return s.provider != nil
}

// BeginLogin returns the provider URL to redirect the browser to and the
// state value the browser must present again on the callback.
func (s *AuthService) BeginLogin(ctx context.Context) (string, string, error) {
	if s.provider == nil {
		return "", "", apierror.ServiceUnavailable("Login is not configured")
	}

	state, err := s.sessions.NewState(ctx)
	if err != nil {
		return "", "", err
	}
	return s.provider.LoginURL(state), state, nil
}

// LoginCallback is what the provider redirect brings back.
type LoginCallback struct {
	// State and Code come from the callback query string.
	State string
	Code  string
	// BoundState is the state the starting browser kept, e.g. in a cookie.
	BoundState string
}

// CompleteLogin validates the callback, upserts the user and opens a
// session. It returns the session token.
func (s *AuthService) CompleteLogin(ctx context.Context, cb LoginCallback) (string, *model.User, error) {
	if s.provider == nil {
		return "", nil, apierror.ServiceUnavailable("Login is not configured")
	}

	state, code := cb.State, cb.Code
	if state == "" || subtle.ConstantTimeCompare([]byte(state), []byte(cb.BoundState)) != 1 {
		return "", nil, apierror.Unauthorized("Login was not started from this browser")
	}

	ok, err := s.sessions.ConsumeState(ctx, state)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, apierror.Unauthorized("Invalid or expired login state")
	}
	if code == "" {
		return "", nil, apierror.Unauthorized("Missing authorization code")
	}

	profile, err := s.provider.Exchange(ctx, code)
	if err != nil {
		slog.Warn("identity exchange failed", "error", err)
		return "", nil, apierror.Unauthorized("Login failed")
	}
	if profile.ID == "" {
		return "", nil, apierror.Unauthorized("Login failed")
	}

	user, err := s.users.UpsertUser(ctx, profile.User())
	if err != nil {
		return "", nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	token, _, err := s.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout revokes the session token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.Revoke(ctx, token)
}

// CurrentUser returns the signed-in user's record.
func (s *AuthService) CurrentUser(ctx context.Context, owner model.Owner) (*model.User, error) {
	user, err := s.users.GetUser(ctx, owner.UserID())
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, apierror.NotFound("User not found")
	}
	return user, nil
}
