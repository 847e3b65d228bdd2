package service

import (
	"testing"

	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
	"github.com/stretchr/testify/assert"
)

func TestRouteFor(t *testing.T) {
	cases := []struct {
		role domainsession.Role
		want string
	}{
		{domainsession.RoleAdmin, "/admin/dashboard"},
		{domainsession.RoleValidator, "/validator-dashboard"},
		{domainsession.RoleRecipient, "/connect-walletr"},
		{domainsession.RoleDonor, "/connect-wallet"},
		{domainsession.RoleUnresolved, "/"},
		{domainsession.Role("owner"), "/"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, RouteFor(tc.role), "role %q", tc.role)
	}
}
