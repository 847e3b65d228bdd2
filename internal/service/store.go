package service

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/observability/metrics"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// DefaultPersistKey is the key under which the session snapshot is stored in
// the local persistence medium.
const DefaultPersistKey = "givechain.session"

// StoreOptions groups dependencies for Store.
type StoreOptions struct {
	// KV is the local persistence medium. May be nil when the environment has
	// no durable storage; the store then runs purely in memory.
	KV         ports.KeyValueStore
	PersistKey string
	Logger     *slog.Logger
	Metrics    *metrics.Session
}

// Store is the single process-wide container for the session snapshot.
// All mutation goes through its setters; consumers only ever receive copies.
// Every mutation is written through to the persistence medium when one is
// configured; persistence failures are reported and the in-memory snapshot
// stays authoritative.
type Store struct {
	mu       sync.RWMutex
	snap     domainsession.Snapshot
	watchers map[uint64]func(domainsession.Snapshot)
	nextID   uint64

	kv         ports.KeyValueStore
	persistKey string
	logger     *slog.Logger
	metrics    *metrics.Session
}

// NewStore constructs a Store and, when a persistence medium is configured,
// reconstructs the last snapshot from it. An empty or unreadable stored value
// yields an empty snapshot; the failure is logged, never returned.
func NewStore(ctx context.Context, opts StoreOptions) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	key := opts.PersistKey
	if key == "" {
		key = DefaultPersistKey
	}

	s := &Store{
		watchers:   make(map[uint64]func(domainsession.Snapshot)),
		kv:         opts.KV,
		persistKey: key,
		logger:     logger,
		metrics:    opts.Metrics,
	}
	s.load(ctx)
	return s
}

// Snapshot returns a copy of the current session snapshot.
func (s *Store) Snapshot() domainsession.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap.Clone()
}

// SetIdentity replaces the identity fields. Role and wallet link are untouched.
func (s *Store) SetIdentity(ctx context.Context, id domainsession.Identity) {
	s.mutate(ctx, func(snap *domainsession.Snapshot) {
		cp := id
		snap.Identity = &cp
	})
}

// SetRole validates and replaces the session role. An invalid value is
// rejected with an InvalidRole error and leaves state unchanged.
func (s *Store) SetRole(ctx context.Context, role domainsession.Role) error {
	if !role.Valid() {
		return apperrors.InvalidRole(string(role))
	}
	s.mutate(ctx, func(snap *domainsession.Snapshot) {
		snap.Role = role
	})
	return nil
}

// SetWalletLink replaces the wallet link fields.
func (s *Store) SetWalletLink(ctx context.Context, address string, connected bool) {
	s.mutate(ctx, func(snap *domainsession.Snapshot) {
		snap.Wallet = domainsession.WalletLink{Address: address, Connected: connected}
	})
}

// Clear resets identity, wallet link, and role to unset and removes the
// persisted snapshot. Used on sign-out.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	s.snap = domainsession.Snapshot{}
	snap := s.snap
	fns := s.watcherList()
	s.mu.Unlock()

	if s.kv != nil {
		if err := s.kv.RemoveItem(ctx, s.persistKey); err != nil {
			s.reportPersistence(ctx, "remove", err)
		}
	}
	for _, fn := range fns {
		fn(snap.Clone())
	}
}

// Watch registers fn to be called with a snapshot copy after every mutation.
// The returned cancel function removes the watcher; callers must invoke it on
// teardown.
func (s *Store) Watch(fn func(domainsession.Snapshot)) (cancel func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.watchers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.watchers, id)
		s.mu.Unlock()
	}
}

func (s *Store) mutate(ctx context.Context, apply func(*domainsession.Snapshot)) {
	s.mu.Lock()
	apply(&s.snap)
	snap := s.snap.Clone()
	fns := s.watcherList()
	s.mu.Unlock()

	s.persist(ctx, snap)
	for _, fn := range fns {
		fn(snap.Clone())
	}
}

// watcherList snapshots the watcher set; callers must hold s.mu.
func (s *Store) watcherList() []func(domainsession.Snapshot) {
	fns := make([]func(domainsession.Snapshot), 0, len(s.watchers))
	for _, fn := range s.watchers {
		fns = append(fns, fn)
	}
	return fns
}

func (s *Store) persist(ctx context.Context, snap domainsession.Snapshot) {
	if s.kv == nil {
		return
	}
	data, err := json.Marshal(snap)
	if err != nil {
		s.reportPersistence(ctx, "encode", err)
		return
	}
	if err := s.kv.SetItem(ctx, s.persistKey, string(data)); err != nil {
		s.reportPersistence(ctx, "write", err)
	}
}

func (s *Store) load(ctx context.Context) {
	if s.kv == nil {
		return
	}
	raw, err := s.kv.GetItem(ctx, s.persistKey)
	if err != nil {
		if !errors.Is(err, ports.ErrItemNotFound) {
			s.reportPersistence(ctx, "read", err)
		}
		return
	}
	var snap domainsession.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		s.reportPersistence(ctx, "decode", err)
		return
	}
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}

func (s *Store) reportPersistence(ctx context.Context, op string, cause error) {
	s.metrics.ObservePersistenceFailure()
	perr := apperrors.Persistence(op, cause)
	s.logger.WarnContext(ctx, "session persistence failed; in-memory state remains authoritative",
		"op", op, "error", perr)
}
