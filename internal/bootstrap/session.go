package bootstrap

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/givechain/givechain-ui-api/config"
	"github.com/givechain/givechain-ui-api/internal/adapters/authhub"
	"github.com/givechain/givechain-ui-api/internal/observability/metrics"
	"github.com/givechain/givechain-ui-api/internal/ports"
	"github.com/givechain/givechain-ui-api/internal/service"
)

// SessionDeps are the collaborators the session core is wired over.
type SessionDeps struct {
	KV        ports.KeyValueStore
	Documents ports.DocumentStore
	Wallet    ports.WalletProvider
	Logger    *slog.Logger
}

// SessionContainer holds the assembled session core: store, resolver, guard,
// the identity-change hub, and the running bridges.
type SessionContainer struct {
	Store    *service.Store
	Resolver *service.Resolver
	Guard    *service.Guard
	Hub      *authhub.Hub
	Metrics  *metrics.Session
	Registry *prometheus.Registry

	authBridge   *service.AuthBridge
	walletBridge *service.WalletBridge
}

// BuildSession wires the session core and starts its bridges. Stop must be
// called on teardown.
func BuildSession(ctx context.Context, cfg *config.AppConfig, deps SessionDeps) (*SessionContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	sessionMetrics := metrics.NewSession(registry)

	store := service.NewStore(ctx, service.StoreOptions{
		KV:         deps.KV,
		PersistKey: cfg.Session.PersistKey,
		Logger:     logger,
		Metrics:    sessionMetrics,
	})
	resolver := service.NewResolver(service.ResolverOptions{
		Documents: deps.Documents,
		Logger:    logger,
		Metrics:   sessionMetrics,
	})
	guard := service.NewGuard(service.GuardOptions{
		Store:   store,
		Logger:  logger,
		Metrics: sessionMetrics,
	})
	hub := authhub.New()

	authBridge := service.NewAuthBridge(service.AuthBridgeOptions{
		Store:    store,
		Resolver: resolver,
		Feed:     hub,
		Logger:   logger,
	})
	if err := authBridge.Start(ctx); err != nil {
		return nil, err
	}

	walletBridge := service.NewWalletBridge(service.WalletBridgeOptions{
		Store:          store,
		Wallet:         deps.Wallet,
		Documents:      deps.Documents,
		Logger:         logger,
		AutoConnectRef: cfg.Wallet.AutoConnectRef,
	})
	if err := walletBridge.Start(ctx); err != nil {
		authBridge.Stop()
		return nil, err
	}

	return &SessionContainer{
		Store:        store,
		Resolver:     resolver,
		Guard:        guard,
		Hub:          hub,
		Metrics:      sessionMetrics,
		Registry:     registry,
		authBridge:   authBridge,
		walletBridge: walletBridge,
	}, nil
}

// Stop tears down the bridges and releases their subscriptions.
func (c *SessionContainer) Stop() {
	if c == nil {
		return
	}
	c.walletBridge.Stop()
	c.authBridge.Stop()
}
