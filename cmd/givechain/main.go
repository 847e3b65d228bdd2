package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/givechain/givechain-ui-api/config"
	"github.com/givechain/givechain-ui-api/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting givechain session service",
		"auth_mode", cfg.Auth.Mode,
		"documents_backend", cfg.Documents.Backend,
		"dev", cfg.IsDev)

	// Database is only needed when documents live in Postgres.
	var db *sql.DB
	if cfg.Documents.Backend == config.DocumentsBackendPostgres {
		db, err = bootstrap.ConnectDB(cfg.Postgres, logger)
		if err != nil {
			return fmt.Errorf("connect db: %w", err)
		}
		defer func() {
			if cerr := db.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close database failed", "error", cerr)
			}
		}()

		if cfg.Postgres.RunMigrationsOnStart {
			if err = bootstrap.RunMigrations(ctx, db, logger); err != nil {
				return err
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	// The persistence medium is best-effort: a missing Redis degrades the
	// session to in-memory only rather than failing startup.
	redisClient, err := bootstrap.ConnectRedis(cfg.Redis, logger)
	if err != nil {
		logger.WarnContext(ctx, "redis unavailable; session persistence disabled", "error", err)
		redisClient = nil
	} else {
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.ErrorContext(ctx, "close redis failed", "error", cerr)
			}
		}()
	}

	documents, err := bootstrap.BuildDocumentStore(cfg.Documents, db, logger)
	if err != nil {
		return fmt.Errorf("build document store: %w", err)
	}
	authProvider, err := bootstrap.BuildAuthProvider(cfg.Auth, cfg.IsDev)
	if err != nil {
		return fmt.Errorf("build auth provider: %w", err)
	}
	wallet, err := bootstrap.BuildWallet(cfg.Wallet, logger)
	if err != nil {
		return fmt.Errorf("build wallet provider: %w", err)
	}
	tokens, err := bootstrap.BuildTokenCodec(cfg.Auth.Token)
	if err != nil {
		return fmt.Errorf("build token codec: %w", err)
	}

	session, err := bootstrap.BuildSession(ctx, &cfg, bootstrap.SessionDeps{
		KV:        bootstrap.BuildKVStore(redisClient, cfg.Session),
		Documents: documents,
		Wallet:    wallet,
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("build session core: %w", err)
	}
	defer session.Stop()

	handler := bootstrap.BuildHTTPHandler(bootstrap.HTTPDeps{
		Config:  &cfg,
		Session: session,
		Auth:    authProvider,
		Wallet:  wallet,
		Tokens:  tokens,
		Logger:  logger,
	})

	return bootstrap.RunHTTPServer(ctx, cfg.HTTP, handler, logger)
}
