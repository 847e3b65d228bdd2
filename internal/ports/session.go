package ports

// Package ports defines interfaces (hexagonal ports) for the session core's
// external collaborators. Implementations live in internal/adapters;
// orchestration in internal/service.

import (
	"context"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
)

// DocumentStore reads and writes role records and user profile records in the
// external document collaborator. All writes use merge semantics: fields not
// named by the write are left untouched.
type DocumentStore interface {
	// GetRoleRecord returns the role record for key, or an error satisfying
	// errors.IsNotFound when no record exists.
	GetRoleRecord(ctx context.Context, key string) (domainsession.RoleRecord, error)

	// PutRoleRecord merge-writes {role} for key. It never writes the
	// manually_created marker; that column is owned by admin tooling.
	PutRoleRecord(ctx context.Context, key string, role domainsession.Role) error

	// PutUserRecord merge-writes profile fields for key.
	PutUserRecord(ctx context.Context, key string, fields map[string]any) error
}

// KeyValueStore is the local persistence medium for session snapshots.
// Adapters must tolerate the medium being unavailable; callers treat every
// failure as best-effort.
type KeyValueStore interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// ErrItemNotFound is returned by KeyValueStore.GetItem when no value is stored
// under the key.
type itemNotFoundError struct{}

func (itemNotFoundError) Error() string { return "item not found" }

var ErrItemNotFound error = itemNotFoundError{}

// AuthFeed delivers identity-provider state changes. A nil principal means
// "signed out". Subscribe returns a cancel function that removes the handler;
// failing to call it on teardown is a resource leak.
type AuthFeed interface {
	Subscribe(handler func(principal *domainsession.Identity)) (cancel func(), err error)
}

// AuthPublisher pushes identity-provider state changes into an AuthFeed.
// The in-process hub implements both sides.
type AuthPublisher interface {
	Publish(principal *domainsession.Identity)
}

// BeginInput carries inputs for initiating an auth flow.
type BeginInput struct {
	RedirectURL string
}

// ExchangeInput groups parameters for the code/token exchange.
type ExchangeInput struct {
	Code  string
	State string
	Nonce string
}

// AuthProvider initiates and completes an authentication flow against an IdP.
type AuthProvider interface {
	// Begin starts the login flow and returns the provider auth URL, an opaque state, and a nonce.
	Begin(ctx context.Context, in BeginInput) (authURL, state, nonce string, err error)

	// Exchange completes the login flow, verifying state and nonce, and returns the authenticated identity.
	Exchange(ctx context.Context, in ExchangeInput) (domainsession.Identity, error)
}

// WalletProvider is the external wallet collaborator: connect/disconnect
// operations plus event subscriptions for provider-initiated changes.
type WalletProvider interface {
	// OnConnect registers a handler invoked with the connected address.
	OnConnect(handler func(address string)) (cancel func())

	// OnDisconnect registers a handler invoked when the wallet disconnects,
	// whether by user action or provider-initiated.
	OnDisconnect(handler func()) (cancel func())

	// Connect asks the provider to connect the wallet identified by
	// providerRef and returns its address. A successful connect also fires
	// the OnConnect handlers.
	Connect(ctx context.Context, providerRef string) (string, error)

	// Disconnect tears down the current wallet connection and fires the
	// OnDisconnect handlers.
	Disconnect(ctx context.Context) error
}
