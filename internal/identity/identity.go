// Package identity turns an external login into a user profile.
package identity

import (
	"context"
	"errors"

	"freshguard-api/internal/model"
)

// ErrNotConfigured is returned when no provider credentials are set.
var ErrNotConfigured = errors.New("identity provider not configured")

// Provider is an OAuth identity provider.
type Provider interface {
	// LoginURL returns the provider URL the browser is sent to.
	LoginURL(state string) string

	// Exchange trades an authorization code for the user's profile.
	Exchange(ctx context.Context, code string) (*model.Profile, error)
}
