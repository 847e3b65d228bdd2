package config

import "time"

// WalletConfig configures the wallet collaborator (Neo N3 node).
type WalletConfig struct {
	// RPCURL is the Neo node endpoint. Empty disables the collaborator; the
	// session core stays functional without wallet state.
	RPCURL string `env:"RPC_URL"`

	// Timeout for node requests.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// AutoConnectRef, when set, names a previously-used wallet the bridge may
	// try once on startup.
	AutoConnectRef string `env:"AUTO_CONNECT_REF"`
}
