package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/givechain/givechain-ui-api/internal/adapters/authhub"
	"github.com/givechain/givechain-ui-api/internal/adapters/jwtauth"
	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	sessionmocks "github.com/givechain/givechain-ui-api/internal/mocks/session"
	"github.com/givechain/givechain-ui-api/internal/ports"
	"github.com/givechain/givechain-ui-api/internal/service"
)

// authProviderStub is a scripted ports.AuthProvider for handler tests.
type authProviderStub struct {
	authURL  string
	state    string
	nonce    string
	identity domainsession.Identity

	beginErr    error
	exchangeErr error

	exchanged []ports.ExchangeInput
}

func (s *authProviderStub) Begin(_ context.Context, _ ports.BeginInput) (string, string, string, error) {
	if s.beginErr != nil {
		return "", "", "", s.beginErr
	}
	return s.authURL, s.state, s.nonce, nil
}

func (s *authProviderStub) Exchange(_ context.Context, in ports.ExchangeInput) (domainsession.Identity, error) {
	s.exchanged = append(s.exchanged, in)
	if s.exchangeErr != nil {
		return domainsession.Identity{}, s.exchangeErr
	}
	return s.identity, nil
}

// serverFixture wires the full session core behind a router the way bootstrap
// does, with in-memory collaborators.
type serverFixture struct {
	handler  http.Handler
	store    *service.Store
	docs     *sessionmocks.MemoryDocumentStore
	hub      *authhub.Hub
	wallet   *sessionmocks.WalletProviderStub
	provider *authProviderStub
	codec    *jwtauth.Codec
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()
	ctx := context.Background()
	logger := slog.Default()

	docs := sessionmocks.NewMemoryDocumentStore()
	store := service.NewStore(ctx, service.StoreOptions{KV: sessionmocks.NewMemoryKV(), Logger: logger})
	resolver := service.NewResolver(service.ResolverOptions{Documents: docs, Logger: logger})
	hub := authhub.New()
	wallet := sessionmocks.NewWalletProviderStub()

	authBridge := service.NewAuthBridge(service.AuthBridgeOptions{
		Store: store, Resolver: resolver, Feed: hub, Logger: logger,
	})
	require.NoError(t, authBridge.Start(ctx))
	t.Cleanup(authBridge.Stop)

	walletBridge := service.NewWalletBridge(service.WalletBridgeOptions{
		Store: store, Wallet: wallet, Documents: docs, Logger: logger,
	})
	require.NoError(t, walletBridge.Start(ctx))
	t.Cleanup(walletBridge.Stop)

	guard := service.NewGuard(service.GuardOptions{Store: store, Logger: logger})
	codec, err := jwtauth.NewCodec(jwtauth.Config{Secret: "test-secret", Issuer: "givechain"})
	require.NoError(t, err)

	provider := &authProviderStub{
		authURL:  "https://idp.example/authorize?client_id=givechain",
		state:    "state-1",
		nonce:    "nonce-1",
		identity: domainsession.Identity{ID: "user-1", Email: "donor@example.com", DisplayName: "Donor One"},
	}

	handler := NewRouter(RouterServices{
		Logger: logger,
		Auth: &AuthHandlers{
			Auth:        provider,
			Publisher:   hub,
			Store:       store,
			Tokens:      codec,
			Logger:      logger,
			CallbackURL: "http://localhost:8080/auth/callback",
			SessionTTL:  time.Hour,
		},
		Session: &SessionHandlers{
			Store:    store,
			Guard:    guard,
			Resolver: resolver,
			Wallet:   wallet,
			Logger:   logger,
		},
		Guard:    guard,
		Verifier: codec,
	})

	return &serverFixture{
		handler:  handler,
		store:    store,
		docs:     docs,
		hub:      hub,
		wallet:   wallet,
		provider: provider,
		codec:    codec,
	}
}

// sessionToken issues a token for the fixture's stub identity with role.
func (f *serverFixture) sessionToken(t *testing.T, role domainsession.Role) *http.Cookie {
	t.Helper()
	token, err := f.codec.Issue(f.provider.identity, role)
	require.NoError(t, err)
	return &http.Cookie{Name: SessionCookieName, Value: token}
}

// signIn publishes the stub identity so the store reflects a signed-in user.
func (f *serverFixture) signIn() {
	f.hub.Publish(&f.provider.identity)
}

func cookieByName(cookies []*http.Cookie, name string) *http.Cookie {
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	return nil
}
