package handler

import (
	"net/http"

	"freshguard-api/internal/middleware"
	"freshguard-api/internal/service"
	"freshguard-api/pkg/response"
)

// stateCookieName holds the OAuth state between Login and Callback.
const stateCookieName = "fg_oauth_state"

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler handles the login flow and the current-user endpoint.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *service.SessionService
	cookie   CookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(auth *service.AuthService, sessions *service.SessionService, cookie CookieConfig) *AuthHandler {
	return &AuthHandler{
		auth:     auth,
		sessions: sessions,
		cookie:   cookie,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) setStateCookie(w http.ResponseWriter, state string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Login handles GET /api/auth/google
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	url, state, err := h.auth.BeginLogin(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.setStateCookie(w, state, int(service.StateTTL.Seconds()))
	http.Redirect(w, r, url, http.StatusFound)
}

// Callback handles GET /api/auth/callback
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	var bound string
	if c, err := r.Cookie(stateCookieName); err == nil {
		bound = c.Value
	}
	h.setStateCookie(w, "", -1)

	q := r.URL.Query()
	token, _, err := h.auth.CompleteLogin(r.Context(), service.LoginCallback{
		State:      q.Get("state"),
		Code:       q.Get("code"),
		BoundState: bound,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, token, int(h.sessions.TTL().Seconds()))
	http.Redirect(w, r, "/", http.StatusFound)
}

// Logout handles GET /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token := middleware.TokenFromRequest(r, h.cookie.Name)
	if err := h.auth.Logout(r.Context(), token); err != nil {
		writeError(w, r, err)
		return
	}

	h.setSessionCookie(w, "", -1)
	http.Redirect(w, r, "/", http.StatusFound)
}

// User handles GET /api/auth/user
func (h *AuthHandler) User(w http.ResponseWriter, r *http.Request) {
	owner, ok := requireOwner(w, r)
	if !ok {
		return
	}

	user, err := h.auth.CurrentUser(r.Context(), owner)
	if err != nil {
		writeError(w, r, err)
		return
	}

	response.OK(w, user)
}
