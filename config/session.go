package config

import "time"

// SessionConfig configures the session store.
type SessionConfig struct {
	// PersistKey is the key the persisted snapshot lives under in the
	// key/value medium.
	PersistKey string `env:"PERSIST_KEY" envDefault:"givechain.session"`

	// TTL bounds how long a persisted snapshot survives without activity.
	// Zero means no expiry.
	TTL time.Duration `env:"TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to session configuration values.
func (s *SessionConfig) Sanitize() {
	if s.PersistKey == "" {
		s.PersistKey = "givechain.session"
	}
	if s.TTL < 0 {
		s.TTL = 0
	}
}
