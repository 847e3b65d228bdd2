package httpx

import (
	"log/slog"
	"net/http"
	"strings"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
	"github.com/givechain/givechain-ui-api/internal/service"
)

// SessionHandlers serves the session snapshot, route-guard checks, wallet
// connect/disconnect, and administrative role assignment.
type SessionHandlers struct {
	Store    *service.Store
	Guard    *service.Guard
	Resolver *service.Resolver
	Wallet   ports.WalletProvider
	Logger   *slog.Logger
}

type snapshotResponse struct {
	Identity *domainsession.Identity  `json:"identity,omitempty"`
	Wallet   domainsession.WalletLink `json:"wallet"`
	Role     string                   `json:"role,omitempty"`
	Landing  string                   `json:"landing"`
}

// Snapshot returns the current session state plus the landing route for its
// role.
func (h *SessionHandlers) Snapshot(w http.ResponseWriter, r *http.Request) {
	snap := h.Store.Snapshot()
	WriteJSON(w, http.StatusOK, snapshotResponse{
		Identity: snap.Identity,
		Wallet:   snap.Wallet,
		Role:     string(snap.Role),
		Landing:  service.RouteFor(snap.Role),
	})
}

// GuardCheck evaluates the current session against the roles query parameter
// (comma-separated; empty means any role) and returns the decision.
func (h *SessionHandlers) GuardCheck(w http.ResponseWriter, r *http.Request) {
	allowed, err := parseRoles(r.URL.Query().Get("roles"))
	if err != nil {
		WriteError(w, ErrorParams{Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, h.Guard.Check(allowed))
}

type walletConnectRequest struct {
	ProviderRef string `json:"provider_ref"`
}

type walletConnectResponse struct {
	Address string `json:"address"`
}

// WalletConnect asks the wallet provider for a connection. The wallet bridge
// observes the provider event and updates the session store.
func (h *SessionHandlers) WalletConnect(w http.ResponseWriter, r *http.Request) {
	if h.Wallet == nil {
		WriteError(w, ErrorParams{Err: apperrors.CollaboratorUnavailable("wallet")})
		return
	}
	var req walletConnectRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_body", Err: err})
		return
	}
	address, err := h.Wallet.Connect(r.Context(), req.ProviderRef)
	if err != nil {
		h.Logger.WarnContext(r.Context(), "wallet connect failed", "error", err)
		WriteError(w, ErrorParams{Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, walletConnectResponse{Address: address})
}

// WalletDisconnect tears down the current wallet connection.
func (h *SessionHandlers) WalletDisconnect(w http.ResponseWriter, r *http.Request) {
	if h.Wallet == nil {
		WriteError(w, ErrorParams{Err: apperrors.CollaboratorUnavailable("wallet")})
		return
	}
	if err := h.Wallet.Disconnect(r.Context()); err != nil {
		h.Logger.WarnContext(r.Context(), "wallet disconnect failed", "error", err)
		WriteError(w, ErrorParams{Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "disconnected"})
}

type assignRoleRequest struct {
	Key  string `json:"key"`
	Role string `json:"role"`
}

// AssignRole writes a role record for another principal. Mounted behind the
// admin guard; existing admin records are never downgraded.
func (h *SessionHandlers) AssignRole(w http.ResponseWriter, r *http.Request) {
	var req assignRoleRequest
	if err := DecodeJSON(r, &req); err != nil {
		WriteError(w, ErrorParams{Code: http.StatusBadRequest, ErrCode: "invalid_body", Err: err})
		return
	}
	if err := h.Resolver.Assign(r.Context(), req.Key, domainsession.Role(req.Role)); err != nil {
		WriteError(w, ErrorParams{Err: err})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "assigned"})
}

func parseRoles(raw string) ([]domainsession.Role, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	roles := make([]domainsession.Role, 0, len(parts))
	for _, p := range parts {
		role, err := domainsession.ParseRole(strings.TrimSpace(p))
		if err != nil {
			return nil, apperrors.InvalidRole(p)
		}
		roles = append(roles, role)
	}
	return roles, nil
}
