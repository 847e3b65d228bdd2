package authhub

// Package authhub is the in-process identity-change feed. HTTP handlers (and
// the dev auth provider) publish sign-in/sign-out transitions; the session
// auth bridge subscribes. A nil principal means "signed out".

import (
	"sync"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// Hub fans identity-provider state changes out to subscribers. New subscribers
// immediately receive the last published state so a bridge starting after
// login still observes the signed-in user.
type Hub struct {
	mu       sync.Mutex
	nextID   int
	handlers map[int]func(*domainsession.Identity)

	current   *domainsession.Identity
	published bool
}

// New creates an empty Hub.
func New() *Hub {
	return &Hub{handlers: make(map[int]func(*domainsession.Identity))}
}

// Subscribe registers handler and replays the last published state to it, if
// any. The returned cancel removes the handler.
func (h *Hub) Subscribe(handler func(*domainsession.Identity)) (func(), error) {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.handlers[id] = handler
	replay := h.published
	current := cloneIdentity(h.current)
	h.mu.Unlock()

	if replay {
		handler(current)
	}

	return func() {
		h.mu.Lock()
		delete(h.handlers, id)
		h.mu.Unlock()
	}, nil
}

// Publish records principal as the current state and notifies all
// subscribers. Handlers receive their own copy of the identity.
func (h *Hub) Publish(principal *domainsession.Identity) {
	h.mu.Lock()
	h.current = cloneIdentity(principal)
	h.published = true
	handlers := make([]func(*domainsession.Identity), 0, len(h.handlers))
	for _, fn := range h.handlers {
		handlers = append(handlers, fn)
	}
	h.mu.Unlock()

	for _, fn := range handlers {
		fn(cloneIdentity(principal))
	}
}

func cloneIdentity(id *domainsession.Identity) *domainsession.Identity {
	if id == nil {
		return nil
	}
	clone := *id
	return &clone
}

var (
	_ ports.AuthFeed      = (*Hub)(nil)
	_ ports.AuthPublisher = (*Hub)(nil)
)
