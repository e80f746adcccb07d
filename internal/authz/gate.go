// Package authz implements the route authorization gate: the
// two-stage checkpoint evaluated before any protected console
// navigation.
package authz

import (
	"net/url"

	"github.com/warrantyhub/console-server/internal/models"
)

// LoginPath is where unauthenticated navigation is sent
const LoginPath = "/login"

// Decision is the outcome of one gate evaluation
type Decision struct {
	Allowed    bool   `json:"allowed"`
	RedirectTo string `json:"redirectTo,omitempty"`
}

// Gate evaluates navigation attempts against the static rule table.
// Every attempt is evaluated fresh; a prior allow is never cached
// because session state can change between attempts.
type Gate struct {
	rules []Rule
}

// NewGate creates a gate over the given rules
func NewGate(rules []Rule) *Gate {
	return &Gate{rules: rules}
}

// Evaluate runs the two-stage check for one navigation attempt.
// Stage one (authentication): no principal means a redirect to the
// login page carrying the original destination, plus the active tenant
// so login can restore tenant context. Stage two (role): a principal
// whose role is not in the matched rule's allow-list is sent to its
// own canonical dashboard. Denials are always redirects, never error
// pages, so restricted routes stay invisible to the unauthorized.
func (g *Gate) Evaluate(principal *models.User, tenant *models.Tenant, path string) Decision {
	if principal == nil {
		return Decision{Allowed: false, RedirectTo: loginRedirect(tenant, path)}
	}

	for _, rule := range g.rules {
		if !rule.Matches(path) {
			continue
		}
		if rule.Allows(principal.Role) {
			return Decision{Allowed: true}
		}
		return Decision{Allowed: false, RedirectTo: DashboardPath(principal.Role)}
	}

	// No rule claims the path: authenticated access is enough
	return Decision{Allowed: true}
}

// loginRedirect builds the login URL for a denied unauthenticated
// attempt: ?tenant=<subdomain>&redirect=<original path>, with the
// tenant segment omitted when none is active
func loginRedirect(tenant *models.Tenant, path string) string {
	target := LoginPath + "?"
	if tenant != nil {
		target += "tenant=" + url.QueryEscape(tenant.Subdomain) + "&"
	}
	return target + "redirect=" + url.QueryEscape(path)
}
