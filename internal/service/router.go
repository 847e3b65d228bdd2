package service

import (
	domainsession "github.com/givechain/givechain-ui-api/internal/domain/session"
)

// Canonical landing routes per role.
const (
	RouteRoot               = "/"
	RouteAdminDashboard     = "/admin/dashboard"
	RouteValidatorDashboard = "/validator-dashboard"
	RouteRecipientOnboard   = "/connect-walletr"
	RouteDonorOnboard       = "/connect-wallet"
)

// RouteFor maps a resolved role to its canonical landing route. Pure function:
// no side effects, no I/O. An absent or unrecognized role maps to the root
// route.
func RouteFor(role domainsession.Role) string {
	switch role {
	case domainsession.RoleAdmin:
		return RouteAdminDashboard
	case domainsession.RoleValidator:
		return RouteValidatorDashboard
	case domainsession.RoleRecipient:
		return RouteRecipientOnboard
	case domainsession.RoleDonor:
		return RouteDonorOnboard
	default:
		return RouteRoot
	}
}
