package postgres

// Package postgres implements the document collaborator on PostgreSQL. Role
// records live in role_records; user profile records are JSONB documents in
// user_records with merge-write semantics via the || operator.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// DocumentStore is a PostgreSQL-backed ports.DocumentStore.
type DocumentStore struct {
	DB *sql.DB
}

// NewDocumentStore creates a DocumentStore over the given connection.
func NewDocumentStore(db *sql.DB) *DocumentStore {
	return &DocumentStore{DB: db}
}

func (s *DocumentStore) GetRoleRecord(ctx context.Context, key string) (domainsession.RoleRecord, error) {
	rec := domainsession.RoleRecord{Key: key}
	err := s.DB.QueryRowContext(ctx,
		`SELECT role, manually_created FROM role_records WHERE key = $1`,
		key).Scan(&rec.Role, &rec.ManuallyCreated)
	if err != nil {
		return domainsession.RoleRecord{}, fmt.Errorf("get role record: %w", apperrors.MapDBError(err))
	}
	return rec, nil
}

// PutRoleRecord upserts the role for key. The manually_created column is
// never written here; it stays with whatever admin tooling set.
func (s *DocumentStore) PutRoleRecord(ctx context.Context, key string, role domainsession.Role) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO role_records (key, role)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE
		SET role = EXCLUDED.role, updated_at = now()`,
		key, string(role))
	if err != nil {
		return fmt.Errorf("put role record: %w", apperrors.MapDBError(err))
	}
	return nil
}

// PutUserRecord merge-writes fields into the user's JSONB document. Fields not
// named by the write survive.
func (s *DocumentStore) PutUserRecord(ctx context.Context, key string, fields map[string]any) error {
	doc, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO user_records (key, fields)
		VALUES ($1, $2::jsonb)
		ON CONFLICT (key) DO UPDATE
		SET fields = user_records.fields || EXCLUDED.fields, updated_at = now()`,
		key, string(doc))
	if err != nil {
		return fmt.Errorf("put user record: %w", apperrors.MapDBError(err))
	}
	return nil
}

var _ ports.DocumentStore = (*DocumentStore)(nil)
