package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/givechain/givechain-ui-api/config"
	"github.com/givechain/givechain-ui-api/internal/adapters/devauth"
	"github.com/givechain/givechain-ui-api/internal/adapters/jwtauth"
	"github.com/givechain/givechain-ui-api/internal/adapters/neorpc"
	"github.com/givechain/givechain-ui-api/internal/adapters/oidc"
	"github.com/givechain/givechain-ui-api/internal/adapters/postgres"
	"github.com/givechain/givechain-ui-api/internal/adapters/postgrest"
	redisadapter "github.com/givechain/givechain-ui-api/internal/adapters/redis"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// BuildKVStore wraps the Redis client as the session persistence medium.
// A nil client yields nil; the store then runs purely in memory.
func BuildKVStore(client goredis.UniversalClient, cfg config.SessionConfig) ports.KeyValueStore {
	if client == nil {
		return nil
	}
	return redisadapter.NewKVStoreWithOptions(client, "session:", cfg.TTL)
}

// BuildDocumentStore selects the document collaborator for the configured
// backend. The "none" backend returns nil; role resolution then degrades to
// reported no-ops.
func BuildDocumentStore(cfg config.DocumentsConfig, db *sql.DB, logger *slog.Logger) (ports.DocumentStore, error) {
	switch cfg.Backend {
	case config.DocumentsBackendPostgres:
		if db == nil {
			return nil, fmt.Errorf("documents backend %q requires a database connection", cfg.Backend)
		}
		return postgres.NewDocumentStore(db), nil
	case config.DocumentsBackendPostgrest:
		return postgrest.NewDocumentStore(postgrest.Config{
			BaseURL: cfg.PostgrestURL,
			APIKey:  cfg.PostgrestKey,
		})
	case config.DocumentsBackendNone:
		if logger != nil {
			logger.Warn("document collaborator disabled; role resolution degrades to defaults")
		}
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown documents backend %q", cfg.Backend)
	}
}

// BuildAuthProvider selects the identity provider for the configured mode.
func BuildAuthProvider(cfg config.AuthConfig, isDev bool) (ports.AuthProvider, error) {
	switch cfg.Mode {
	case config.AuthModeMock:
		if !isDev {
			return nil, fmt.Errorf("mock auth mode is only allowed in development")
		}
		return devauth.NewProvider(devauth.Config{
			UserID:      cfg.DevAuth.UserID,
			Email:       cfg.DevAuth.Email,
			DisplayName: cfg.DevAuth.DisplayName,
		})
	case config.AuthModeOAuth:
		return oidc.NewProvider(oidc.ProviderConfig{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Scope:        cfg.OAuth.Scope,
			DiscoveryURL: cfg.OAuth.DiscoveryURL,
		})
	default:
		return nil, fmt.Errorf("unknown auth mode %q", cfg.Mode)
	}
}

// BuildWallet creates the wallet collaborator. An empty RPC URL disables it;
// the wallet bridge then stays inert and reports the absence.
func BuildWallet(cfg config.WalletConfig, logger *slog.Logger) (ports.WalletProvider, error) {
	if cfg.RPCURL == "" {
		if logger != nil {
			logger.Warn("wallet collaborator disabled; no RPC URL configured")
		}
		return nil, nil
	}
	return neorpc.NewWallet(neorpc.Config{RPCURL: cfg.RPCURL, Timeout: cfg.Timeout})
}

// BuildTokenCodec creates the session token codec.
func BuildTokenCodec(cfg config.TokenConfig) (*jwtauth.Codec, error) {
	return jwtauth.NewCodec(jwtauth.Config{
		Secret: cfg.Secret,
		Issuer: cfg.Issuer,
		TTL:    cfg.TTL,
	})
}
