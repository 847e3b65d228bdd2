package config

import (
	"fmt"
	"strings"
)

// DocumentsBackend selects the document collaborator implementation.
type DocumentsBackend string

const (
	// DocumentsBackendPostgres stores documents in the application database.
	DocumentsBackendPostgres DocumentsBackend = "postgres"
	// DocumentsBackendPostgrest talks to an external PostgREST/Supabase endpoint.
	DocumentsBackendPostgrest DocumentsBackend = "postgrest"
	// DocumentsBackendNone disables the collaborator; the session core falls
	// back to default-role behavior.
	DocumentsBackendNone DocumentsBackend = "none"
)

// UnmarshalText implements encoding.TextUnmarshaler for DocumentsBackend.
func (b *DocumentsBackend) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "postgres", "postgrest", "none":
		*b = DocumentsBackend(v)
		return nil
	default:
		return fmt.Errorf("invalid DocumentsBackend: %q (valid options: postgres, postgrest, none)", v)
	}
}

// DocumentsConfig configures the role/user document collaborator.
type DocumentsConfig struct {
	Backend DocumentsBackend `env:"BACKEND" envDefault:"postgres"`

	// PostgREST settings (used when Backend=postgrest).
	PostgrestURL string `env:"POSTGREST_URL"`
	PostgrestKey string `env:"POSTGREST_KEY"`
}
