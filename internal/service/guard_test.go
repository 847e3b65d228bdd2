package service

import (
	"context"
	"testing"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	sessionmocks "github.com/givechain/givechain-ui-api/internal/mocks/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedInSnapshot(role domainsession.Role) domainsession.Snapshot {
	return domainsession.Snapshot{
		Identity: &domainsession.Identity{ID: "u1"},
		Wallet:   domainsession.WalletLink{Address: "Naddr", Connected: true},
		Role:     role,
	}
}

func TestEvaluateColdStartDenies(t *testing.T) {
	d := Evaluate(domainsession.Snapshot{}, nil)
	assert.Equal(t, GuardDenied, d.State)
	assert.Equal(t, RouteRoot, d.RedirectTo)
}

func TestEvaluateSignedInWithoutWalletDenies(t *testing.T) {
	snap := domainsession.Snapshot{
		Identity: &domainsession.Identity{ID: "u1"},
		Role:     domainsession.RoleDonor,
	}
	d := Evaluate(snap, nil)
	assert.Equal(t, GuardDenied, d.State)
	assert.Equal(t, RouteRoot, d.RedirectTo)
}

func TestEvaluateDisconnectedAddressStillCounts(t *testing.T) {
	// A remembered address with the link down still satisfies the wallet
	// requirement; only an empty address denies.
	snap := signedInSnapshot(domainsession.RoleDonor)
	snap.Wallet.Connected = false
	d := Evaluate(snap, nil)
	assert.Equal(t, GuardAllowed, d.State)
}

func TestEvaluateEmptyAllowedSetAdmitsAnyRole(t *testing.T) {
	for _, role := range []domainsession.Role{
		domainsession.RoleDonor,
		domainsession.RoleRecipient,
		domainsession.RoleValidator,
		domainsession.RoleAdmin,
		domainsession.RoleUnresolved,
	} {
		d := Evaluate(signedInSnapshot(role), nil)
		assert.Equal(t, GuardAllowed, d.State, "role %q", role)
	}
}

func TestEvaluateRoleMembership(t *testing.T) {
	allowed := []domainsession.Role{domainsession.RoleValidator}

	d := Evaluate(signedInSnapshot(domainsession.RoleValidator), allowed)
	assert.Equal(t, GuardAllowed, d.State)

	d = Evaluate(signedInSnapshot(domainsession.RoleAdmin), allowed)
	assert.Equal(t, GuardDenied, d.State, "admin is not a superset of validator")
	assert.Equal(t, RouteAdminDashboard, d.RedirectTo)
}

func TestEvaluateMismatchRedirectsToOwnLanding(t *testing.T) {
	allowed := []domainsession.Role{domainsession.RoleAdmin}

	d := Evaluate(signedInSnapshot(domainsession.RoleRecipient), allowed)
	assert.Equal(t, GuardDenied, d.State)
	assert.Equal(t, RouteRecipientOnboard, d.RedirectTo)

	d = Evaluate(signedInSnapshot(domainsession.RoleDonor), allowed)
	assert.Equal(t, RouteDonorOnboard, d.RedirectTo)
}

func TestGuardCheckUsesCurrentSnapshot(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, StoreOptions{KV: sessionmocks.NewMemoryKV()})
	guard := NewGuard(GuardOptions{Store: store})

	assert.Equal(t, GuardDenied, guard.Check(nil).State)

	store.SetIdentity(ctx, domainsession.Identity{ID: "u1"})
	store.SetWalletLink(ctx, "Naddr", true)
	require.NoError(t, store.SetRole(ctx, domainsession.RoleDonor))

	assert.Equal(t, GuardAllowed, guard.Check(nil).State)
}

func TestMountTransitionsOutOfCheckingOnFirstEvaluation(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, StoreOptions{KV: sessionmocks.NewMemoryKV()})
	guard := NewGuard(GuardOptions{Store: store})

	var decisions []Decision
	m := guard.Mount(nil, func(d Decision) { decisions = append(decisions, d) })
	t.Cleanup(m.Close)

	require.Len(t, decisions, 1)
	assert.Equal(t, GuardDenied, decisions[0].State)
	assert.Equal(t, RouteRoot, decisions[0].RedirectTo, "an unauthenticated mount redirects, never stays checking")
	assert.Equal(t, m.Decision(), decisions[0])
}

func TestMountReEvaluatesOnSessionChange(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, StoreOptions{KV: sessionmocks.NewMemoryKV()})
	store.SetIdentity(ctx, domainsession.Identity{ID: "u1"})
	store.SetWalletLink(ctx, "Naddr", true)
	require.NoError(t, store.SetRole(ctx, domainsession.RoleValidator))
	guard := NewGuard(GuardOptions{Store: store})

	var decisions []Decision
	m := guard.Mount([]domainsession.Role{domainsession.RoleValidator},
		func(d Decision) { decisions = append(decisions, d) })
	t.Cleanup(m.Close)

	require.Len(t, decisions, 1)
	assert.Equal(t, GuardAllowed, decisions[0].State)

	// Downgrade while mounted forces a denied transition.
	store.Clear(ctx)

	require.Len(t, decisions, 2)
	assert.Equal(t, GuardDenied, decisions[1].State)
	assert.Equal(t, RouteRoot, decisions[1].RedirectTo)
}

func TestMountDedupesIdenticalDecisions(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, StoreOptions{KV: sessionmocks.NewMemoryKV()})
	guard := NewGuard(GuardOptions{Store: store})

	var notifies int
	m := guard.Mount(nil, func(Decision) { notifies++ })
	t.Cleanup(m.Close)
	require.Equal(t, 1, notifies)

	// Identity alone does not change the denied decision.
	store.SetIdentity(ctx, domainsession.Identity{ID: "u1"})
	assert.Equal(t, 1, notifies)
}

func TestMountCloseStopsNotifications(t *testing.T) {
	ctx := context.Background()
	store := NewStore(ctx, StoreOptions{KV: sessionmocks.NewMemoryKV()})
	guard := NewGuard(GuardOptions{Store: store})

	var notifies int
	m := guard.Mount(nil, func(Decision) { notifies++ })
	require.Equal(t, 1, notifies)

	m.Close()
	store.SetIdentity(ctx, domainsession.Identity{ID: "u1"})
	store.SetWalletLink(ctx, "Naddr", true)

	assert.Equal(t, 1, notifies)
	assert.Equal(t, GuardDenied, m.Decision().State, "a closed mount freezes its last decision")
}
