package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// AuthBridge subscribes to identity-provider state changes and keeps the
// store's identity and role consistent with the provider's notion of the
// current user. Handlers are idempotent: replaying the same signed-in event
// produces the same snapshot.
type AuthBridge struct {
	store    *Store
	resolver *Resolver
	feed     ports.AuthFeed
	logger   *slog.Logger

	cancel func()
	closed atomic.Bool
}

// AuthBridgeOptions groups dependencies for AuthBridge.
type AuthBridgeOptions struct {
	Store    *Store
	Resolver *Resolver
	Feed     ports.AuthFeed
	Logger   *slog.Logger
}

// NewAuthBridge constructs an AuthBridge. Start must be called before events
// are observed.
func NewAuthBridge(opts AuthBridgeOptions) *AuthBridge {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthBridge{
		store:    opts.Store,
		resolver: opts.Resolver,
		feed:     opts.Feed,
		logger:   logger,
	}
}

// Start registers the listener with the auth collaborator. When the
// collaborator is absent the bridge reports it and stays inert rather than
// failing the caller.
func (b *AuthBridge) Start(ctx context.Context) error {
	if b.feed == nil {
		err := apperrors.CollaboratorUnavailable("auth")
		b.logger.WarnContext(ctx, "auth bridge inert", "error", err)
		return nil
	}
	cancel, err := b.feed.Subscribe(func(principal *domainsession.Identity) {
		b.handle(ctx, principal)
	})
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCollaboratorUnavailable, "subscribe to auth feed")
	}
	b.cancel = cancel
	return nil
}

// Stop removes the listener. Leaving it registered after teardown is a leak,
// and the closed flag guards any in-flight resolution from touching a retired
// session.
func (b *AuthBridge) Stop() {
	b.closed.Store(true)
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
}

func (b *AuthBridge) handle(ctx context.Context, principal *domainsession.Identity) {
	if b.closed.Load() {
		return
	}

	if principal == nil {
		b.logger.InfoContext(ctx, "signed out; clearing session")
		b.store.Clear(ctx)
		return
	}

	b.store.SetIdentity(ctx, *principal)

	role, err := b.resolver.Resolve(ctx, principal.ID)
	if err != nil {
		// Reported, never thrown into the event source.
		b.logger.WarnContext(ctx, "role resolution failed; role left unresolved",
			"identity", principal.ID, "error", err)
		return
	}

	// A sign-out or teardown may have raced the resolution.
	if b.closed.Load() {
		return
	}
	if err := b.store.SetRole(ctx, role); err != nil {
		b.logger.WarnContext(ctx, "resolved role rejected", "role", role, "error", err)
	}
}
