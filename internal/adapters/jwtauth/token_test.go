package jwtauth

import (
	"testing"
	"time"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCodec(t *testing.T) *Codec {
	t.Helper()
	codec, err := NewCodec(Config{Secret: "test-secret", Issuer: "givechain-test"})
	require.NoError(t, err)
	return codec
}

func TestIssueAndVerifyRoundTrip(t *testing.T) {
	codec := newTestCodec(t)
	identity := domainsession.Identity{
		ID:          "u1",
		Email:       "d@example.org",
		DisplayName: "Dana",
		AvatarURL:   "https://example.com/a.png",
	}

	token, err := codec.Issue(identity, domainsession.RoleValidator)
	require.NoError(t, err)

	gotIdentity, gotRole, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, identity, gotIdentity)
	assert.Equal(t, domainsession.RoleValidator, gotRole)
}

func TestIssueRequiresIdentityID(t *testing.T) {
	codec := newTestCodec(t)

	_, err := codec.Issue(domainsession.Identity{}, domainsession.RoleDonor)
	require.Error(t, err)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	codec := newTestCodec(t)
	other, err := NewCodec(Config{Secret: "other-secret"})
	require.NoError(t, err)

	token, err := other.Issue(domainsession.Identity{ID: "u1"}, domainsession.RoleDonor)
	require.NoError(t, err)

	_, _, err = codec.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	codec := newTestCodec(t)
	codec.now = func() time.Time { return time.Now().Add(-24 * time.Hour) }

	token, err := codec.Issue(domainsession.Identity{ID: "u1"}, domainsession.RoleDonor)
	require.NoError(t, err)

	codec.now = time.Now
	_, _, err = codec.Verify(token)
	require.Error(t, err)
}

func TestVerifyRejectsIssuerMismatch(t *testing.T) {
	issuerA, err := NewCodec(Config{Secret: "s", Issuer: "a"})
	require.NoError(t, err)
	issuerB, err := NewCodec(Config{Secret: "s", Issuer: "b"})
	require.NoError(t, err)

	token, err := issuerA.Issue(domainsession.Identity{ID: "u1"}, domainsession.RoleDonor)
	require.NoError(t, err)

	_, _, err = issuerB.Verify(token)
	require.Error(t, err)
}

func TestVerifyUnknownRoleComesBackUnresolved(t *testing.T) {
	codec := newTestCodec(t)

	token, err := codec.Issue(domainsession.Identity{ID: "u1"}, domainsession.Role("owner"))
	require.NoError(t, err)

	_, role, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, domainsession.RoleUnresolved, role)
}

func TestNewCodecRequiresSecret(t *testing.T) {
	_, err := NewCodec(Config{})
	require.Error(t, err)
}
