package service

import (
	"context"
	"fmt"
	"log/slog"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	apperrors "github.com/givechain/givechain-ui-api/internal/errors"
	"github.com/givechain/givechain-ui-api/internal/observability/metrics"
	"github.com/givechain/givechain-ui-api/internal/ports"
)

// Resolver looks up and assigns roles against the external document
// collaborator. Role data is shared with server-side/administrative tooling,
// so the resolver treats every lookup as a read-through and never assumes it
// owns the source of truth.
type Resolver struct {
	docs    ports.DocumentStore
	logger  *slog.Logger
	metrics *metrics.Session
}

// ResolverOptions groups dependencies for Resolver.
type ResolverOptions struct {
	// Documents may be nil when the collaborator is not configured; resolution
	// then reports unavailability and falls back to the default role.
	Documents ports.DocumentStore
	Logger    *slog.Logger
	Metrics   *metrics.Session
}

// NewResolver constructs a Resolver.
func NewResolver(opts ResolverOptions) *Resolver {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{docs: opts.Documents, logger: logger, metrics: opts.Metrics}
}

// Resolve returns the role stored for key, or the default role donor when no
// record exists. The read path never persists anything: using the default is
// reported, not written back. A stored admin role whose manually-created
// marker is not set is a policy violation; it is reported but returned as-is,
// because enforcement belongs to the write path.
func (r *Resolver) Resolve(ctx context.Context, key string) (domainsession.Role, error) {
	if key == "" {
		return domainsession.RoleUnresolved, apperrors.Validation("role key is required")
	}
	if r.docs == nil {
		r.logger.WarnContext(ctx, "document store unavailable; using default role",
			"key", key, "role", domainsession.RoleDonor)
		r.metrics.ObserveResolution(metrics.ResolutionDefault)
		return domainsession.RoleDonor, nil
	}

	rec, err := r.docs.GetRoleRecord(ctx, key)
	if err != nil {
		if apperrors.IsNotFound(err) {
			r.logger.InfoContext(ctx, "no role record; defaulting",
				"key", key, "role", domainsession.RoleDonor)
			r.metrics.ObserveResolution(metrics.ResolutionDefault)
			return domainsession.RoleDonor, nil
		}
		r.metrics.ObserveResolution(metrics.ResolutionError)
		return domainsession.RoleUnresolved, fmt.Errorf("get role record: %w", err)
	}

	if rec.Role == domainsession.RoleAdmin && !rec.ManuallyCreated {
		// Returned as-is; downgrading at read time would mask the real
		// problem in the record.
		r.logger.WarnContext(ctx, "admin role without manually-created marker",
			"key", key)
		r.metrics.ObservePolicyViolation()
	}

	if !rec.Role.Valid() {
		r.logger.WarnContext(ctx, "stored role outside enumerated set; defaulting",
			"key", key, "stored", string(rec.Role), "role", domainsession.RoleDonor)
		r.metrics.ObserveResolution(metrics.ResolutionDefault)
		return domainsession.RoleDonor, nil
	}

	r.metrics.ObserveResolution(metrics.ResolutionExisting)
	return rec.Role, nil
}

// Assign merge-writes role for key. An existing admin record is never
// overwritten by this path; the write silently becomes a no-op. Invalid role
// values fail with an InvalidRole error before any collaborator call.
func (r *Resolver) Assign(ctx context.Context, key string, role domainsession.Role) error {
	if !role.Valid() {
		return apperrors.InvalidRole(string(role))
	}
	if key == "" {
		return apperrors.Validation("role key is required")
	}
	if r.docs == nil {
		r.logger.WarnContext(ctx, "document store unavailable; role assignment skipped",
			"key", key, "role", role)
		return nil
	}

	existing, err := r.docs.GetRoleRecord(ctx, key)
	switch {
	case err == nil:
		if existing.Role == domainsession.RoleAdmin {
			r.logger.DebugContext(ctx, "existing admin record; assignment is a no-op",
				"key", key, "requested", role)
			return nil
		}
	case apperrors.IsNotFound(err):
		// First assignment for this key.
	default:
		return fmt.Errorf("check existing role record: %w", err)
	}

	if err := r.docs.PutRoleRecord(ctx, key, role); err != nil {
		return fmt.Errorf("put role record: %w", err)
	}
	return nil
}
