package service

import (
	"context"
	"log/slog"
	"sync/atomic"

	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// WalletBridge subscribes to wallet connect/disconnect events, synchronizes
// the store's wallet link, and mirrors the address to the document
// collaborator for the current identity. Document-write failures never block
// the in-memory update: the UI must reflect connection state even when the
// mirror write fails.
type WalletBridge struct {
	store  *Store
	wallet ports.WalletProvider
	docs   ports.DocumentStore
	logger *slog.Logger

	// AutoConnectRef, when non-empty, names a previously-used provider the
	// bridge may try once on Start without blocking initialization.
	autoConnectRef string

	cancelConnect    func()
	cancelDisconnect func()
	closed           atomic.Bool
}

// WalletBridgeOptions groups dependencies for WalletBridge.
type WalletBridgeOptions struct {
	Store          *Store
	Wallet         ports.WalletProvider
	Documents      ports.DocumentStore
	Logger         *slog.Logger
	AutoConnectRef string
}

// NewWalletBridge constructs a WalletBridge. Start must be called before
// events are observed.
func NewWalletBridge(opts WalletBridgeOptions) *WalletBridge {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &WalletBridge{
		store:          opts.Store,
		wallet:         opts.Wallet,
		docs:           opts.Documents,
		logger:         logger,
		autoConnectRef: opts.AutoConnectRef,
	}
}

// Start registers listeners with the wallet collaborator and, when configured
// and no wallet link is present, kicks off one non-blocking auto-connect
// attempt that fails silently.
func (b *WalletBridge) Start(ctx context.Context) error {
	if b.wallet == nil {
		err := apperrors.CollaboratorUnavailable("wallet")
		b.logger.WarnContext(ctx, "wallet bridge inert", "error", err)
		return nil
	}

	b.cancelConnect = b.wallet.OnConnect(func(address string) {
		b.handleConnect(ctx, address)
	})
	b.cancelDisconnect = b.wallet.OnDisconnect(func() {
		b.handleDisconnect(ctx)
	})

	if b.autoConnectRef != "" && !b.store.Snapshot().Wallet.Connected {
		go b.autoConnect(ctx)
	}
	return nil
}

// Stop removes the listeners and retires the bridge.
func (b *WalletBridge) Stop() {
	b.closed.Store(true)
	if b.cancelConnect != nil {
		b.cancelConnect()
		b.cancelConnect = nil
	}
	if b.cancelDisconnect != nil {
		b.cancelDisconnect()
		b.cancelDisconnect = nil
	}
}

func (b *WalletBridge) handleConnect(ctx context.Context, address string) {
	if b.closed.Load() {
		return
	}

	b.store.SetWalletLink(ctx, address, true)

	snap := b.store.Snapshot()
	if !snap.SignedIn() {
		return
	}
	if b.docs == nil {
		b.logger.WarnContext(ctx, "document store unavailable; wallet address not mirrored",
			"address", address)
		return
	}
	fields := map[string]any{"address": address, "isConnected": true}
	if err := b.docs.PutUserRecord(ctx, snap.Identity.ID, fields); err != nil {
		// Retry policy, if any, belongs to the collaborator's client.
		b.logger.WarnContext(ctx, "wallet address mirror write failed",
			"identity", snap.Identity.ID, "error", err)
	}
}

func (b *WalletBridge) handleDisconnect(ctx context.Context) {
	if b.closed.Load() {
		return
	}
	// Identity and role survive a wallet disconnect.
	b.store.SetWalletLink(ctx, "", false)
}

func (b *WalletBridge) autoConnect(ctx context.Context) {
	addr, err := b.wallet.Connect(ctx, b.autoConnectRef)
	if err != nil {
		b.logger.DebugContext(ctx, "wallet auto-connect failed",
			"provider", b.autoConnectRef, "error", err)
		return
	}
	if b.closed.Load() {
		return
	}
	b.logger.InfoContext(ctx, "wallet auto-connected", "address", addr)
}
