package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/givechain/givechain-ui-api/config"
	"github.com/givechain/givechain-ui-api/internal/adapters/jwtauth"
	httpx "github.com/givechain/givechain-ui-api/internal/http"
	"github.com/givechain/givechain-ui-api/internal/observability/metrics"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// HTTPDeps groups everything the HTTP surface is built from.
type HTTPDeps struct {
	Config  *config.AppConfig
	Session *SessionContainer
	Auth    ports.AuthProvider
	Wallet  ports.WalletProvider
	Tokens  *jwtauth.Codec
	Logger  *slog.Logger
}

// BuildHTTPHandler assembles the full route table over the session core.
func BuildHTTPHandler(deps HTTPDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	return httpx.NewRouter(httpx.RouterServices{
		Logger: logger,
		Auth: &httpx.AuthHandlers{
			Auth:         deps.Auth,
			Publisher:    deps.Session.Hub,
			Store:        deps.Session.Store,
			Tokens:       deps.Tokens,
			Logger:       logger,
			CallbackURL:  cfg.Auth.OAuth.RedirectURL,
			CookieSecure: cfg.HTTP.CookieSecure,
			SessionTTL:   cfg.Auth.Token.TTL,
		},
		Session: &httpx.SessionHandlers{
			Store:    deps.Session.Store,
			Guard:    deps.Session.Guard,
			Resolver: deps.Session.Resolver,
			Wallet:   deps.Wallet,
			Logger:   logger,
		},
		Guard:    deps.Session.Guard,
		Verifier: deps.Tokens,
		Metrics:  metrics.Handler(deps.Session.Registry),
	})
}

// RunHTTPServer serves handler on cfg.Addr until ctx is canceled or a
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func RunHTTPServer(ctx context.Context, cfg config.HTTPConfig, handler http.Handler, logger *slog.Logger) error {
	addr := cfg.Addr
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: time.Duration(cfg.ReadHeaderTimeoutSeconds) * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}
	logger.Info("HTTP server stopped")
	return nil
}
