package config

import (
	"testing"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	t.Setenv("AUTH_TOKEN_SECRET", "test-secret")

	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()

	assert.Equal(t, AuthModeOAuth, cfg.Auth.Mode)
	assert.Equal(t, "givechain", cfg.Postgres.User)
	assert.Equal(t, DocumentsBackendPostgres, cfg.Documents.Backend)
	assert.Equal(t, "givechain.session", cfg.Session.PersistKey)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Empty(t, cfg.Wallet.RPCURL)
}

func TestAuthModeUnmarshal(t *testing.T) {
	var mode AuthMode
	require.NoError(t, mode.UnmarshalText([]byte("MOCK")))
	assert.Equal(t, AuthModeMock, mode)

	assert.Error(t, mode.UnmarshalText([]byte("ldap")))
}

func TestDocumentsBackendUnmarshal(t *testing.T) {
	var backend DocumentsBackend
	require.NoError(t, backend.UnmarshalText([]byte("postgrest")))
	assert.Equal(t, DocumentsBackendPostgrest, backend)

	require.NoError(t, backend.UnmarshalText([]byte("none")))
	assert.Equal(t, DocumentsBackendNone, backend)

	assert.Error(t, backend.UnmarshalText([]byte("mongo")))
}

func TestDetectDevModeFromNodeEnv(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := AppConfig{}
	cfg.Sanitize()
	assert.True(t, cfg.IsDev)
}

func TestSessionSanitizeRestoresPersistKey(t *testing.T) {
	s := SessionConfig{PersistKey: "", TTL: -1}
	s.Sanitize()
	assert.Equal(t, "givechain.session", s.PersistKey)
	assert.Zero(t, s.TTL)
}

func TestHTTPSanitizeClampsTimeout(t *testing.T) {
	h := HTTPConfig{ReadHeaderTimeoutSeconds: 0}
	h.Sanitize()
	assert.Equal(t, 1, h.ReadHeaderTimeoutSeconds)
}
