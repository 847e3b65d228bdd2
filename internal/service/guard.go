package service

import (
	"log/slog"
	"sync"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/givechain/givechain-ui-api/internal/observability/metrics"
)

// GuardState is the access-decision state for one protected-surface mount.
type GuardState string

const (
	// GuardChecking is the initial state; no redirect may be issued while in it.
	GuardChecking GuardState = "checking"
	// GuardAllowed grants access for this mount.
	GuardAllowed GuardState = "allowed"
	// GuardDenied refuses access and carries a redirect target.
	GuardDenied GuardState = "denied"
)

// Decision is the outcome of evaluating a snapshot against a capability set.
// RedirectTo is only populated for denied decisions.
type Decision struct {
	State      GuardState `json:"state"`
	RedirectTo string     `json:"redirect_to,omitempty"`
}

// Guard decides whether the current session may access a protected surface.
type Guard struct {
	store   *Store
	logger  *slog.Logger
	metrics *metrics.Session
}

// GuardOptions groups dependencies for Guard.
type GuardOptions struct {
	Store   *Store
	Logger  *slog.Logger
	Metrics *metrics.Session
}

// NewGuard constructs a Guard over the given store.
func NewGuard(opts GuardOptions) *Guard {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{store: opts.Store, logger: logger, metrics: opts.Metrics}
}

// Evaluate decides access for one snapshot. Access is denied when no identity
// or wallet address is present, or when allowed is non-empty and the session
// role is not a member. Role-mismatch denials redirect to the session's own
// landing route; everything else falls back to the root route.
func Evaluate(snap domainsession.Snapshot, allowed []domainsession.Role) Decision {
	if !snap.SignedIn() || !snap.HasWalletAddress() {
		return Decision{State: GuardDenied, RedirectTo: RouteRoot}
	}
	if len(allowed) > 0 && !roleAllowed(snap.Role, allowed) {
		return Decision{State: GuardDenied, RedirectTo: RouteFor(snap.Role)}
	}
	return Decision{State: GuardAllowed}
}

func roleAllowed(role domainsession.Role, allowed []domainsession.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

// Check evaluates the store's current snapshot and records the decision.
func (g *Guard) Check(allowed []domainsession.Role) Decision {
	d := Evaluate(g.store.Snapshot(), allowed)
	g.metrics.ObserveGuardDecision(string(d.State))
	return d
}

// Mount represents one protected surface watching the session for as long as
// it stays mounted. The decision starts at checking, transitions on the first
// evaluation, and is re-evaluated on every snapshot change; a session
// downgrade while mounted forces a transition back to denied.
type Mount struct {
	mu       sync.Mutex
	decision Decision
	notify   func(Decision)
	cancel   func()
	closed   bool
}

// Mount evaluates the current snapshot for the allowed set and keeps
// re-evaluating while mounted. notify is called on every decision change,
// including the initial transition out of checking. Close releases the
// store subscription.
func (g *Guard) Mount(allowed []domainsession.Role, notify func(Decision)) *Mount {
	m := &Mount{
		decision: Decision{State: GuardChecking},
		notify:   notify,
	}
	m.cancel = g.store.Watch(func(snap domainsession.Snapshot) {
		m.apply(g.observe(Evaluate(snap, allowed)))
	})
	// Initial evaluation happens after the watch is registered so no
	// mutation can slip between the two.
	m.apply(g.observe(Evaluate(g.store.Snapshot(), allowed)))
	return m
}

func (g *Guard) observe(d Decision) Decision {
	g.metrics.ObserveGuardDecision(string(d.State))
	return d
}

// Decision returns the mount's current decision.
func (m *Mount) Decision() Decision {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.decision
}

// Close unsubscribes the mount from session changes. Further snapshot changes
// are ignored: a retired mount never applies a late decision.
func (m *Mount) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *Mount) apply(d Decision) {
	m.mu.Lock()
	if m.closed || m.decision == d {
		m.mu.Unlock()
		return
	}
	m.decision = d
	notify := m.notify
	m.mu.Unlock()

	if notify != nil {
		notify(d)
	}
}
