package identity

import (
	"context"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

func TestNewGoogle_NotConfigured(t *testing.T) {
	_, err := NewGoogle(context.Background(), GoogleConfig{})
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestGoogle_LoginURL(t *testing.T) {
	g := &Google{cfg: &oauth2.Config{
		ClientID:    "client",
		RedirectURL: "http://localhost:8080/api/auth/callback",
		Scopes:      []string{"openid", "profile", "email"},
		Endpoint:    endpoints.Google,
	}}

	u, err := url.Parse(g.LoginURL("xyz"))
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "accounts.google.com", u.Host)
	assert.Equal(t, "xyz", q.Get("state"))
	assert.Equal(t, "client", q.Get("client_id"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "openid profile email", q.Get("scope"))
}
