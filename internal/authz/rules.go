package authz

import (
	"strings"

	"github.com/warrantyhub/console-server/internal/models"
)

// Rule maps a console path prefix to the roles allowed to enter it.
// An empty AllowedRoles set means any authenticated principal.
type Rule struct {
	Prefix       string
	AllowedRoles []models.Role
}

// Allows reports whether the rule admits the given role
func (r Rule) Allows(role models.Role) bool {
	if len(r.AllowedRoles) == 0 {
		return true
	}
	for _, allowed := range r.AllowedRoles {
		if allowed == role {
			return true
		}
	}
	return false
}

// Matches reports whether the rule covers the given path
func (r Rule) Matches(path string) bool {
	return path == r.Prefix || strings.HasPrefix(path, r.Prefix+"/")
}

// DefaultRules returns the static console route rules. Rules are
// declared at configuration time and never mutated at runtime.
func DefaultRules() []Rule {
	return []Rule{
		{Prefix: "/platform", AllowedRoles: []models.Role{models.RoleSystemAdmin}},
		{Prefix: "/brandadmin", AllowedRoles: []models.Role{models.RoleBrandAdmin}},
		{Prefix: "/manufacturing", AllowedRoles: []models.Role{models.RoleManufacturingPlant}},
		{Prefix: "/warehouse", AllowedRoles: []models.Role{models.RolePlantWarehouse}},
		{Prefix: "/distributor", AllowedRoles: []models.Role{models.RoleBrandDistributor}},
		{Prefix: "/retailer", AllowedRoles: []models.Role{models.RoleBrandRetailer}},
		{Prefix: "/account"}, // any authenticated principal
	}
}

// dashboards is the fixed role to canonical dashboard mapping shared
// by the post-login redirect and the gate's denial redirect
var dashboards = map[models.Role]string{
	models.RoleSystemAdmin:        "/platform/dashboard",
	models.RoleBrandAdmin:         "/brandadmin/dashboard",
	models.RoleManufacturingPlant: "/manufacturing/dashboard",
	models.RolePlantWarehouse:     "/warehouse/dashboard",
	models.RoleBrandDistributor:   "/distributor/dashboard",
	models.RoleBrandRetailer:      "/retailer/dashboard",
	models.RoleCustomer:           "/",
}

// DashboardPath returns the canonical dashboard for a role. Unknown
// roles land on the application root.
func DashboardPath(role models.Role) string {
	if path, ok := dashboards[role]; ok {
		return path
	}
	return "/"
}
