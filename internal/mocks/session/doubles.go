package session

// Package session contains simple hand-written test doubles for the session
// core's ports. These are lightweight and suitable for unit tests without
// codegen.

import (
	"context"
	"sync"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.KeyValueStore  = (*MemoryKV)(nil)
	_ ports.DocumentStore  = (*MemoryDocumentStore)(nil)
	_ ports.AuthFeed       = (*AuthFeedStub)(nil)
	_ ports.AuthPublisher  = (*AuthFeedStub)(nil)
	_ ports.WalletProvider = (*WalletProviderStub)(nil)
)

// MemoryKV is an in-memory key-value medium with optional failure injection.
type MemoryKV struct {
	mu    sync.Mutex
	items map[string]string

	// FailWrites makes SetItem/RemoveItem return an error without mutating.
	FailWrites bool
	// FailReads makes GetItem return an error.
	FailReads bool

	writeFailure error
}

// NewMemoryKV creates an empty MemoryKV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{items: make(map[string]string)}
}

func (m *MemoryKV) GetItem(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReads {
		return "", apperrors.Persistence("read", nil)
	}
	v, ok := m.items[key]
	if !ok {
		return "", ports.ErrItemNotFound
	}
	return v, nil
}

func (m *MemoryKV) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		m.writeFailure = apperrors.Persistence("write", nil)
		return m.writeFailure
	}
	m.items[key] = value
	return nil
}

func (m *MemoryKV) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWrites {
		m.writeFailure = apperrors.Persistence("remove", nil)
		return m.writeFailure
	}
	delete(m.items, key)
	return nil
}

// Len returns the number of stored items.
func (m *MemoryKV) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Seed stores value under key bypassing failure injection.
func (m *MemoryKV) Seed(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
}

// MemoryDocumentStore is an in-memory document collaborator holding role
// records and user records with merge-on-write semantics.
type MemoryDocumentStore struct {
	mu    sync.Mutex
	roles map[string]domainsession.RoleRecord
	users map[string]map[string]any

	// PutErr, when set, is returned by both put operations.
	PutErr error
	// GetErr, when set, is returned by GetRoleRecord.
	GetErr error
}

// NewMemoryDocumentStore creates an empty MemoryDocumentStore.
func NewMemoryDocumentStore() *MemoryDocumentStore {
	return &MemoryDocumentStore{
		roles: make(map[string]domainsession.RoleRecord),
		users: make(map[string]map[string]any),
	}
}

// SeedRoleRecord stores a role record directly, marker included.
func (m *MemoryDocumentStore) SeedRoleRecord(rec domainsession.RoleRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.roles[rec.Key] = rec
}

func (m *MemoryDocumentStore) GetRoleRecord(_ context.Context, key string) (domainsession.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.GetErr != nil {
		return domainsession.RoleRecord{}, m.GetErr
	}
	rec, ok := m.roles[key]
	if !ok {
		return domainsession.RoleRecord{}, apperrors.NotFoundf("role record %q", key)
	}
	return rec, nil
}

func (m *MemoryDocumentStore) PutRoleRecord(_ context.Context, key string, role domainsession.Role) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	rec := m.roles[key] // zero value keeps ManuallyCreated=false for new keys
	rec.Key = key
	rec.Role = role
	m.roles[key] = rec
	return nil
}

func (m *MemoryDocumentStore) PutUserRecord(_ context.Context, key string, fields map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.PutErr != nil {
		return m.PutErr
	}
	doc, ok := m.users[key]
	if !ok {
		doc = make(map[string]any)
		m.users[key] = doc
	}
	for k, v := range fields {
		doc[k] = v
	}
	return nil
}

// UserRecord returns a copy of the stored user record for key.
func (m *MemoryDocumentStore) UserRecord(key string) map[string]any {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.users[key]
	if !ok {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = v
	}
	return out
}

// AuthFeedStub is an in-process auth feed driven by Publish.
type AuthFeedStub struct {
	mu       sync.Mutex
	handlers map[int]func(*domainsession.Identity)
	nextID   int

	// SubscribeErr, when set, is returned by Subscribe.
	SubscribeErr error
}

// NewAuthFeedStub creates an AuthFeedStub with no subscribers.
func NewAuthFeedStub() *AuthFeedStub {
	return &AuthFeedStub{handlers: make(map[int]func(*domainsession.Identity))}
}

func (f *AuthFeedStub) Subscribe(handler func(*domainsession.Identity)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.SubscribeErr != nil {
		return nil, f.SubscribeErr
	}
	id := f.nextID
	f.nextID++
	f.handlers[id] = handler
	return func() {
		f.mu.Lock()
		delete(f.handlers, id)
		f.mu.Unlock()
	}, nil
}

// Publish delivers a state change to all subscribers synchronously.
func (f *AuthFeedStub) Publish(principal *domainsession.Identity) {
	f.mu.Lock()
	handlers := make([]func(*domainsession.Identity), 0, len(f.handlers))
	for _, h := range f.handlers {
		handlers = append(handlers, h)
	}
	f.mu.Unlock()
	for _, h := range handlers {
		h(principal)
	}
}

// SubscriberCount returns the number of registered handlers.
func (f *AuthFeedStub) SubscriberCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

// WalletProviderStub is a scriptable wallet collaborator.
type WalletProviderStub struct {
	mu            sync.Mutex
	onConnect     map[int]func(string)
	onDisconnect  map[int]func()
	nextID        int
	connectCalls  []string
	disconnected  int

	// ConnectFunc, when set, overrides Connect. By default Connect returns
	// ConnectAddr and fires the connect handlers.
	ConnectFunc func(ctx context.Context, providerRef string) (string, error)
	ConnectAddr string
}

// NewWalletProviderStub creates a WalletProviderStub with no listeners.
func NewWalletProviderStub() *WalletProviderStub {
	return &WalletProviderStub{
		onConnect:    make(map[int]func(string)),
		onDisconnect: make(map[int]func()),
		ConnectAddr:  "NStubAddr1",
	}
}

func (w *WalletProviderStub) OnConnect(handler func(string)) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.onConnect[id] = handler
	return func() {
		w.mu.Lock()
		delete(w.onConnect, id)
		w.mu.Unlock()
	}
}

func (w *WalletProviderStub) OnDisconnect(handler func()) func() {
	w.mu.Lock()
	defer w.mu.Unlock()
	id := w.nextID
	w.nextID++
	w.onDisconnect[id] = handler
	return func() {
		w.mu.Lock()
		delete(w.onDisconnect, id)
		w.mu.Unlock()
	}
}

func (w *WalletProviderStub) Connect(ctx context.Context, providerRef string) (string, error) {
	w.mu.Lock()
	w.connectCalls = append(w.connectCalls, providerRef)
	fn := w.ConnectFunc
	addr := w.ConnectAddr
	w.mu.Unlock()

	if fn != nil {
		return fn(ctx, providerRef)
	}
	w.EmitConnect(addr)
	return addr, nil
}

func (w *WalletProviderStub) Disconnect(context.Context) error {
	w.mu.Lock()
	w.disconnected++
	w.mu.Unlock()
	w.EmitDisconnect()
	return nil
}

// EmitConnect fires all connect handlers with address.
func (w *WalletProviderStub) EmitConnect(address string) {
	w.mu.Lock()
	handlers := make([]func(string), 0, len(w.onConnect))
	for _, h := range w.onConnect {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()
	for _, h := range handlers {
		h(address)
	}
}

// EmitDisconnect fires all disconnect handlers.
func (w *WalletProviderStub) EmitDisconnect() {
	w.mu.Lock()
	handlers := make([]func(), 0, len(w.onDisconnect))
	for _, h := range w.onDisconnect {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

// DisconnectCalls returns how many times Disconnect was called.
func (w *WalletProviderStub) DisconnectCalls() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.disconnected
}

// ConnectCalls returns the providerRefs Connect was called with.
func (w *WalletProviderStub) ConnectCalls() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.connectCalls...)
}

// ListenerCount returns the total number of registered handlers.
func (w *WalletProviderStub) ListenerCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.onConnect) + len(w.onDisconnect)
}
