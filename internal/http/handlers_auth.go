package httpx

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/givechain/givechain-ui-api/internal/ports"
	"github.com/givechain/givechain-ui-api/internal/service"
)

// Cookie names used by the auth flow.
const (
	SessionCookieName    = "session_token"
	oauthStateCookie     = "oauth_state"
	oauthNonceCookie     = "oauth_nonce"
	postLoginCookie      = "post_login_redirect"
	oauthCookieMaxAgeSec = 600
)

// TokenIssuer signs a session token for an authenticated identity.
// *jwtauth.Codec satisfies it.
type TokenIssuer interface {
	Issue(identity domainsession.Identity, role domainsession.Role) (string, error)
}

// AuthHandlers serves the login, callback, logout, and status endpoints. It
// drives the identity provider directly and publishes transitions to the auth
// feed; the session bridges take it from there.
type AuthHandlers struct {
	Auth      ports.AuthProvider
	Publisher ports.AuthPublisher
	Store     *service.Store
	Tokens    TokenIssuer
	Logger    *slog.Logger

	// CallbackURL is the absolute redirect URL registered with the provider.
	CallbackURL string
	// CookieSecure marks auth cookies Secure; disable only for local dev.
	CookieSecure bool
	// SessionTTL bounds the session cookie lifetime.
	SessionTTL time.Duration
}

type statusUser struct {
	ID          string `json:"id"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
	Role          string      `json:"role,omitempty"`
	Landing       string      `json:"landing,omitempty"`
}

// Login begins the provider flow and redirects the browser to the provider.
// redirect_uri selects where the callback lands the user afterwards; only
// relative paths are accepted.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	target := r.URL.Query().Get("redirect_uri")
	if target != "" && !isSafeRelativeURL(target) {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_redirect"})
		return
	}

	authURL, state, nonce, err := h.Auth.Begin(r.Context(), ports.BeginInput{RedirectURL: h.CallbackURL})
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "begin auth flow", "error", err)
		WriteError(w, ErrorParams{Err: err})
		return
	}

	h.setFlowCookie(w, r, oauthStateCookie, state)
	h.setFlowCookie(w, r, oauthNonceCookie, nonce)
	if target != "" {
		h.setFlowCookie(w, r, postLoginCookie, target)
	}
	http.Redirect(w, r, authURL, http.StatusFound)
}

// Callback completes the provider flow: it checks state against the flow
// cookie, exchanges the code, publishes the identity to the feed, and issues
// the session cookie before sending the browser to its landing route.
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "missing_code_or_state"})
		return
	}
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || stateCookie.Value != state {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "state_mismatch"})
		return
	}
	nonce := ""
	if c, err := r.Cookie(oauthNonceCookie); err == nil {
		nonce = c.Value
	}

	identity, err := h.Auth.Exchange(r.Context(), ports.ExchangeInput{Code: code, State: state, Nonce: nonce})
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "complete auth flow", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "exchange_failed", Err: err})
		return
	}

	// The auth bridge resolves the role into the store synchronously while
	// Publish runs, so the snapshot below already carries it.
	h.Publisher.Publish(&identity)

	role := h.Store.Snapshot().Role
	token, err := h.Tokens.Issue(identity, role)
	if err != nil {
		h.Logger.ErrorContext(r.Context(), "issue session token", "error", err)
		WriteError(w, ErrorParams{Err: err})
		return
	}
	h.setSessionCookie(w, r, token)
	h.clearCookie(w, r, oauthStateCookie)
	h.clearCookie(w, r, oauthNonceCookie)

	target := service.RouteFor(role)
	if c, err := r.Cookie(postLoginCookie); err == nil && isSafeRelativeURL(c.Value) {
		target = c.Value
	}
	h.clearCookie(w, r, postLoginCookie)
	http.Redirect(w, r, target, http.StatusFound)
}

// Logout publishes the signed-out transition and clears the session cookie.
// AJAX callers get JSON; browsers get a redirect to the root route.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Publisher.Publish(nil)
	h.clearCookie(w, r, SessionCookieName)

	if isAJAX(r) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "signed_out"})
		return
	}
	http.Redirect(w, r, service.RouteRoot, http.StatusFound)
}

// Status reports the current session: identity, role, and landing route.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	if !snap.SignedIn() {
		WriteJSON(w, http.StatusOK, statusResponse{Authenticated: false})
		return
	}
	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User: &statusUser{
			ID:          snap.Identity.ID,
			Email:       snap.Identity.Email,
			DisplayName: snap.Identity.DisplayName,
			AvatarURL:   snap.Identity.AvatarURL,
		},
		Role:    string(snap.Role),
		Landing: service.RouteFor(snap.Role),
	})
}

func (h *AuthHandlers) setFlowCookie(w http.ResponseWriter, r *http.Request, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   oauthCookieMaxAgeSec,
		HttpOnly: true,
		Secure:   h.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, token string) {
	maxAge := 0
	if h.SessionTTL > 0 {
		maxAge = int(h.SessionTTL.Seconds())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookieSecure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandlers) cookieSecure(r *http.Request) bool {
	if r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https") {
		return true
	}
	return h.CookieSecure
}

// isSafeRelativeURL accepts only same-site relative paths, rejecting absolute
// and scheme-relative URLs.
func isSafeRelativeURL(raw string) bool {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == ""
}

func isAJAX(r *http.Request) bool {
	return r.Header.Get("X-Requested-With") == "XMLHttpRequest" ||
		strings.Contains(r.Header.Get("Accept"), "application/json")
}
