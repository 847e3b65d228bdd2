package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrCodeInternal, "wrapped")

	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "wrapped: boom", err.Error())
}

func TestInvalidRole(t *testing.T) {
	err := InvalidRole("superuser")

	assert.True(t, IsInvalidRole(err))
	assert.False(t, IsValidation(err))
	assert.Equal(t, "role", err.Field)
	assert.Contains(t, err.Error(), "superuser")
}

func TestInvalidRoleThroughWrapping(t *testing.T) {
	err := fmt.Errorf("set role: %w", InvalidRole("x"))
	assert.True(t, IsInvalidRole(err))
	assert.Equal(t, ErrCodeInvalidRole, GetCode(err))
}

func TestCollaboratorUnavailable(t *testing.T) {
	err := CollaboratorUnavailable("document store")
	assert.True(t, IsCollaboratorUnavailable(err))
	assert.Contains(t, err.Error(), "document store")
}

func TestPersistence(t *testing.T) {
	cause := errors.New("redis: connection refused")
	err := Persistence("write", cause)

	assert.True(t, IsPersistence(err))
	assert.ErrorIs(t, err, cause)
}

func TestGetCodeNonAppError(t *testing.T) {
	assert.Equal(t, ErrorCode(""), GetCode(errors.New("plain")))
}

func TestMapDBError(t *testing.T) {
	assert.NoError(t, MapDBError(nil))

	assert.True(t, IsNotFound(MapDBError(pgx.ErrNoRows)))

	mapped := MapDBError(&pgconn.PgError{Code: pgerrcode.UniqueViolation, ColumnName: "key"})
	require.True(t, IsConflict(mapped))
	var appErr *AppError
	require.ErrorAs(t, mapped, &appErr)
	assert.Equal(t, "key", appErr.Field)

	assert.Equal(t, ErrCodeTimeout, GetCode(MapDBError(fmt.Errorf("query: %w", context.DeadlineExceeded))))
	assert.Equal(t, ErrCodeCanceled, GetCode(MapDBError(context.Canceled)))

	plain := errors.New("unrelated")
	assert.Equal(t, plain, MapDBError(plain))
}
