package neorpc

// Package neorpc implements the wallet collaborator against a Neo N3 JSON-RPC
// node. Connect validates the address with the node before reporting it
// connected; the node is the authority on what counts as a wallet address.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// Config holds wallet provider configuration.
type Config struct {
	// RPCURL is the Neo N3 node endpoint.
	RPCURL string
	// Timeout defaults to 30s.
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Wallet is a Neo-node-backed ports.WalletProvider.
type Wallet struct {
	rpcURL     string
	httpClient *http.Client

	mu           sync.Mutex
	nextID       int
	onConnect    map[int]func(string)
	onDisconnect map[int]func()
	current      string
}

// NewWallet creates a wallet provider for the given node.
func NewWallet(cfg Config) (*Wallet, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL required")
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = 30 * time.Second
		}
		client = &http.Client{Timeout: timeout}
	}
	return &Wallet{
		rpcURL:       cfg.RPCURL,
		httpClient:   client,
		onConnect:    make(map[int]func(string)),
		onDisconnect: make(map[int]func()),
	}, nil
}

func (w *Wallet) OnConnect(handler func(string)) func() {
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

func (w *Wallet) OnDisconnect(handler func()) func() {
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

// Connect validates providerRef as a Neo address against the node and, when
// valid, records it as the connected wallet and fires the connect handlers.
func (w *Wallet) Connect(ctx context.Context, providerRef string) (string, error) {
	if providerRef == "" {
		return "", apperrors.Validation("wallet address is required")
	}

	valid, err := w.validateAddress(ctx, providerRef)
	if err != nil {
		return "", err
	}
	if !valid {
		return "", apperrors.Validationf("not a valid Neo address: %q", providerRef)
	}

	w.mu.Lock()
	w.current = providerRef
	handlers := connectHandlers(w.onConnect)
	w.mu.Unlock()

	for _, h := range handlers {
		h(providerRef)
	}
	return providerRef, nil
}

// Disconnect clears the connected wallet and fires the disconnect handlers.
func (w *Wallet) Disconnect(_ context.Context) error {
	w.mu.Lock()
	w.current = ""
	handlers := make([]func(), 0, len(w.onDisconnect))
	for _, h := range w.onDisconnect {
		handlers = append(handlers, h)
	}
	w.mu.Unlock()

	for _, h := range handlers {
		h()
	}
	return nil
}

// Current returns the connected address, empty when none.
func (w *Wallet) Current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

func connectHandlers(m map[int]func(string)) []func(string) {
	handlers := make([]func(string), 0, len(m))
	for _, h := range m {
		handlers = append(handlers, h)
	}
	return handlers
}

type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	Params  []any  `json:"params"`
	ID      int    `json:"id"`
}

type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result"`
	Error   *rpcError       `json:"error,omitempty"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *rpcError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

func (w *Wallet) validateAddress(ctx context.Context, address string) (bool, error) {
	result, err := w.call(ctx, "validateaddress", []any{address})
	if err != nil {
		return false, err
	}
	var out struct {
		Address string `json:"address"`
		IsValid bool   `json:"isvalid"`
	}
	if err := json.Unmarshal(result, &out); err != nil {
		return false, fmt.Errorf("decode validateaddress result: %w", err)
	}
	return out.IsValid, nil
}

func (w *Wallet) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, w.rpcURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(httpReq)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCollaboratorUnavailable, "wallet node request")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var rpcResp rpcResponse
	if err := json.Unmarshal(respBody, &rpcResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if rpcResp.Error != nil {
		return nil, rpcResp.Error
	}
	return rpcResp.Result, nil
}

var _ ports.WalletProvider = (*Wallet)(nil)
