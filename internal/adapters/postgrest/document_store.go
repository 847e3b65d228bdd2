package postgrest

// Package postgrest implements the document collaborator over a
// PostgREST/Supabase REST endpoint. Writes use upserts with
// resolution=merge-duplicates so only the columns named by the write change.

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// Config configures the PostgREST document store.
type Config struct {
	// BaseURL is the REST root, e.g. https://project.supabase.co/rest/v1.
	BaseURL string
	// APIKey is sent as both the apikey header and a bearer token.
	APIKey string
	// RoleTable and UserTable default to role_records and user_records.
	RoleTable string
	UserTable string
	// HTTPClient defaults to a client with a 10s timeout.
	HTTPClient *http.Client
}

// DocumentStore is a PostgREST-backed ports.DocumentStore.
type DocumentStore struct {
	base      string
	apiKey    string
	roleTable string
	userTable string
	client    *http.Client
}

// NewDocumentStore creates a DocumentStore from cfg.
func NewDocumentStore(cfg Config) (*DocumentStore, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	roleTable := cfg.RoleTable
	if roleTable == "" {
		roleTable = "role_records"
	}
	userTable := cfg.UserTable
	if userTable == "" {
		userTable = "user_records"
	}
	return &DocumentStore{
		base:      strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:    cfg.APIKey,
		roleTable: roleTable,
		userTable: userTable,
		client:    client,
	}, nil
}

type roleRow struct {
	Key             string `json:"key"`
	Role            string `json:"role"`
	ManuallyCreated bool   `json:"manually_created"`
}

func (s *DocumentStore) GetRoleRecord(ctx context.Context, key string) (domainsession.RoleRecord, error) {
	query := "key=eq." + url.QueryEscape(key) + "&select=key,role,manually_created&limit=1"
	body, err := s.do(ctx, http.MethodGet, s.roleTable, query, nil, nil)
	if err != nil {
		return domainsession.RoleRecord{}, fmt.Errorf("get role record: %w", err)
	}

	var rows []roleRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return domainsession.RoleRecord{}, fmt.Errorf("decode role record: %w", err)
	}
	if len(rows) == 0 {
		return domainsession.RoleRecord{}, apperrors.NotFoundf("role record %q", key)
	}
	return domainsession.RoleRecord{
		Key:             rows[0].Key,
		Role:            domainsession.Role(rows[0].Role),
		ManuallyCreated: rows[0].ManuallyCreated,
	}, nil
}

// PutRoleRecord upserts {key, role}. The manually_created column is not named
// by the write, so merge-duplicates resolution leaves it untouched.
func (s *DocumentStore) PutRoleRecord(ctx context.Context, key string, role domainsession.Role) error {
	payload := []map[string]any{{"key": key, "role": string(role)}}
	if err := s.upsert(ctx, s.roleTable, payload); err != nil {
		return fmt.Errorf("put role record: %w", err)
	}
	return nil
}

// PutUserRecord upserts the named profile fields alongside the key. Columns
// absent from fields keep their stored values.
func (s *DocumentStore) PutUserRecord(ctx context.Context, key string, fields map[string]any) error {
	row := make(map[string]any, len(fields)+1)
	for k, v := range fields {
		row[k] = v
	}
	row["key"] = key
	if err := s.upsert(ctx, s.userTable, []map[string]any{row}); err != nil {
		return fmt.Errorf("put user record: %w", err)
	}
	return nil
}

func (s *DocumentStore) upsert(ctx context.Context, table string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=minimal",
	}
	_, err = s.do(ctx, http.MethodPost, table, "on_conflict=key", body, headers)
	return err
}

func (s *DocumentStore) do(ctx context.Context, method, table, query string, body []byte, headers map[string]string) ([]byte, error) {
	endpoint := s.base + "/" + url.PathEscape(table)
	if query != "" {
		endpoint += "?" + query
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("apikey", s.apiKey)
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCollaboratorUnavailable, "document endpoint request")
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("document endpoint returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}
	return data, nil
}

var _ ports.DocumentStore = (*DocumentStore)(nil)
