package httpx

import (
	"log/slog"
	"net/http"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/givechain/givechain-ui-api/internal/service"
)

// RouterServices groups everything the router mounts.
type RouterServices struct {
	Logger   *slog.Logger
	Auth     *AuthHandlers
	Session  *SessionHandlers
	Guard    *service.Guard
	Verifier TokenVerifier
	Metrics  http.Handler
}

// NewRouter builds the full route table. All /api routes require a verified
// session token; role assignment additionally sits behind the admin guard.
func NewRouter(svc RouterServices) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", HealthHandler)
	mux.HandleFunc("HEAD /health", HealthHandler)
	if svc.Metrics != nil {
		mux.Handle("GET /metrics", svc.Metrics)
	}

	mux.HandleFunc("GET /auth/login", svc.Auth.Login)
	mux.HandleFunc("GET /auth/callback", svc.Auth.Callback)
	mux.HandleFunc("POST /auth/logout", svc.Auth.Logout)
	mux.HandleFunc("GET /auth/status", svc.Auth.Status)

	requireToken := RequireToken(svc.Verifier)
	mux.Handle("GET /api/session", requireToken(http.HandlerFunc(svc.Session.Snapshot)))
	mux.Handle("GET /api/session/guard", requireToken(http.HandlerFunc(svc.Session.GuardCheck)))
	mux.Handle("POST /api/session/wallet/connect", requireToken(http.HandlerFunc(svc.Session.WalletConnect)))
	mux.Handle("POST /api/session/wallet/disconnect", requireToken(http.HandlerFunc(svc.Session.WalletDisconnect)))

	adminOnly := RequireAccess(svc.Guard, domainsession.RoleAdmin)
	mux.Handle("POST /api/roles", Chain(http.HandlerFunc(svc.Session.AssignRole), requireToken, adminOnly))

	return Chain(mux, Recover(svc.Logger), RequestID(), Logging(svc.Logger))
}
