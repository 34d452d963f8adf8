package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"freshguard-api/internal/cache"
	"freshguard-api/internal/model"
)

const (
	// SessionTokenPrefix is the prefix for all session tokens.
	SessionTokenPrefix = "fgs_"

	// DefaultSessionTTL is the session lifetime when none is configured.
	DefaultSessionTTL = 7 * 24 * time.Hour

	// StateTTL bounds how long a login may take.
	StateTTL = 10 * time.Minute

	sessionKeyPrefix = "session:"
	stateKeyPrefix   = "oauth_state:"
)

// ErrInvalidSession is returned for malformed, unknown or expired tokens.
var ErrInvalidSession = errors.New("invalid or expired session")

// SessionService issues and validates opaque session tokens and one-time
// OAuth state values.
type SessionService struct {
	cache cache.Cache
	ttl   time.Duration
	now   func() time.Time
}

// NewSessionService creates a new session service.
func NewSessionService(c cache.Cache, ttl time.Duration) *SessionService {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionService{
		cache: c,
		ttl:   ttl,
		now:   time.Now,
	}
}

// TTL returns the session lifetime.
func (s *SessionService) TTL() time.Duration {
	return s.ttl
}

func randomHex(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Create starts a session for userID and returns its token.
func (s *SessionService) Create(ctx context.Context, userID string) (string, *model.SessionData, error) {
	random, err := randomHex(32)
	if err != nil {
		return "", nil, fmt.Errorf("failed to generate token: %w", err)
	}
	token := SessionTokenPrefix + random

	now := s.now()
	data := &model.SessionData{
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}

	payload, err := json.Marshal(data)
	if err != nil {
		return "", nil, fmt.Errorf("failed to serialize session: %w", err)
	}

	if err := s.cache.Set(ctx, sessionKeyPrefix+token, payload, s.ttl); err != nil {
		return "", nil, fmt.Errorf("failed to store session: %w", err)
	}

	slog.Info("session created", "user_id", userID, "expires_at", data.ExpiresAt)
	return token, data, nil
}

// Validate returns the session behind token, or ErrInvalidSession.
func (s *SessionService) Validate(ctx context.Context, token string) (*model.SessionData, error) {
	if !strings.HasPrefix(token, SessionTokenPrefix) || len(token) == len(SessionTokenPrefix) {
		return nil, ErrInvalidSession
	}

	key := sessionKeyPrefix + token
	payload, err := s.cache.Get(ctx, key)
	if errors.Is(err, cache.ErrCacheMiss) {
		return nil, ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var data model.SessionData
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("failed to parse session: %w", err)
	}

	if !s.now().Before(data.ExpiresAt) {
		_ = s.cache.Delete(ctx, key)
		return nil, ErrInvalidSession
	}

	return &data, nil
}

// Revoke ends a session. Unknown tokens are ignored.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.cache.Delete(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("failed to revoke session: %w", err)
	}
	return nil
}

// NewState stores a fresh OAuth state value.
func (s *SessionService) NewState(ctx context.Context) (string, error) {
	state, err := randomHex(16)
	if err != nil {
		return "", fmt.Errorf("failed to generate state: %w", err)
	}
	if err := s.cache.Set(ctx, stateKeyPrefix+state, []byte{1}, StateTTL); err != nil {
		return "", fmt.Errorf("failed to store state: %w", err)
	}
	return state, nil
}

// ConsumeState reports whether state was issued and not yet used. A state
// value is valid once, even under concurrent callbacks.
func (s *SessionService) ConsumeState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	_, err := s.cache.GetDel(ctx, stateKeyPrefix+state)
	if errors.Is(err, cache.ErrCacheMiss) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to consume state: %w", err)
	}
	return true, nil
}
