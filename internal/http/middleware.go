package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/givechain/givechain-ui-api/internal/service"
)

type contextKey string

const (
	identityContextKey  contextKey = "identity"
	roleContextKey      contextKey = "role"
	requestIDContextKey contextKey = "request_id"
)

// RequestIDHeader carries the request correlation ID.
const RequestIDHeader = "X-Request-ID"

// RequestIDFromContext returns the request's correlation ID, or "" outside a
// request.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey).(string)
	return id
}

// RequestID assigns each request a correlation ID, honoring one supplied by
// the caller, and echoes it in the response.
func RequestID() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)
			ctx := context.WithValue(r.Context(), requestIDContextKey, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenVerifier checks a session token and returns the identity and role it
// carries. *jwtauth.Codec satisfies it.
type TokenVerifier interface {
	Verify(token string) (domainsession.Identity, domainsession.Role, error)
}

// IdentityFromContext returns the authenticated identity set by RequireToken,
// or nil for unauthenticated requests.
func IdentityFromContext(ctx context.Context) *domainsession.Identity {
	id, _ := ctx.Value(identityContextKey).(*domainsession.Identity)
	return id
}

// RoleFromContext returns the role carried by the session token, or
// RoleUnresolved when the request has no verified token.
func RoleFromContext(ctx context.Context) domainsession.Role {
	role, _ := ctx.Value(roleContextKey).(domainsession.Role)
	return role
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// Logging logs each request with method, path, status, and duration.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			logger.InfoContext(r.Context(), "http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", RequestIDFromContext(r.Context()),
			)
		})
	}
}

// Recover converts handler panics into 500 responses.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.ErrorContext(r.Context(), "handler panic",
						"panic", rec,
						"path", r.URL.Path,
						"stack", string(debug.Stack()),
					)
					WriteError(w, ErrorParams{Code: http.StatusInternalServerError})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// RequireToken verifies the session cookie and stores the identity and role in
// the request context. Requests without a valid token get 401.
func RequireToken(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(SessionCookieName)
			if err != nil || cookie.Value == "" {
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthenticated"})
				return
			}
			identity, role, err := verifier.Verify(cookie.Value)
			if err != nil {
				WriteError(w, ErrorParams{Code: http.StatusUnauthorized, ErrCode: "unauthenticated"})
				return
			}
			ctx := context.WithValue(r.Context(), identityContextKey, &identity)
			ctx = context.WithValue(ctx, roleContextKey, role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccess gates a protected surface on the route guard. A denied
// decision answers 403 with the redirect target the client should follow.
func RequireAccess(guard *service.Guard, allowed ...domainsession.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := guard.Check(allowed)
			if decision.State != service.GuardAllowed {
				WriteJSON(w, http.StatusForbidden, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies middlewares to h, outermost first.
func Chain(h http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}
