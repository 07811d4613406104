package identity

import (
	"sort"
	"strings"
)

// Permission is a resource:action code, e.g. "menu:create"
type Permission string

// Resources guarded by the permission matrix
const (
	ResourceSPPG         = "sppg"
	ResourceUser         = "user"
	ResourceMenu         = "menu"
	ResourceMenuPlan     = "menu_plan"
	ResourceNutrition    = "nutrition"
	ResourceInventory    = "inventory"
	ResourceSupplier     = "supplier"
	ResourceProcurement  = "procurement"
	ResourceProduction   = "production"
	ResourceSchool       = "school"
	ResourceDistribution = "distribution"
	ResourceEmployee     = "employee"
	ResourceAttendance   = "attendance"
	ResourceFeedback     = "feedback"
	ResourceDashboard    = "dashboard"
	ResourceReport       = "report"
)

// Actions
const (
	ActionRead    = "read"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
	ActionAll     = "*"
)

// PermissionAll grants everything
const PermissionAll Permission = "*"

// NewPermission builds a permission code from resource and action
func NewPermission(resource, action string) Permission {
	return Permission(strings.ToLower(resource) + ":" + strings.ToLower(action))
}

// Resource returns the resource part of the code
func (p Permission) Resource() string {
	resource, _, _ := strings.Cut(string(p), ":")
	return resource
}

// Action returns the action part of the code
func (p Permission) Action() string {
	_, action, _ := strings.Cut(string(p), ":")
	return action
}

// sppgResources are the resources owned by a single SPPG
var sppgResources = []string{
	ResourceUser, ResourceMenu, ResourceMenuPlan, ResourceNutrition, ResourceInventory,
	ResourceSupplier, ResourceProcurement, ResourceProduction, ResourceSchool,
	ResourceDistribution, ResourceEmployee, ResourceAttendance, ResourceFeedback,
	ResourceDashboard, ResourceReport,
}

func all(resources ...string) []Permission {
	perms := make([]Permission, 0, len(resources))
	for _, r := range resources {
		perms = append(perms, NewPermission(r, ActionAll))
	}
	return perms
}

func read(resources ...string) []Permission {
	perms := make([]Permission, 0, len(resources))
	for _, r := range resources {
		perms = append(perms, NewPermission(r, ActionRead))
	}
	return perms
}

func perms(groups ...[]Permission) []Permission {
	var out []Permission
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func readOnlyViewer() []Permission {
	resources := make([]string, 0, len(sppgResources))
	for _, r := range sppgResources {
		if r != ResourceUser {
			resources = append(resources, r)
		}
	}
	return read(resources...)
}

// permissionMatrix maps each role to the permissions it holds.
// "resource:*" grants every action on the resource, "*" grants everything.
var permissionMatrix = map[UserRole][]Permission{
	RolePlatformSuperadmin: {PermissionAll},
	RolePlatformSupport: perms(
		read(ResourceSPPG, ResourceUser, ResourceDashboard, ResourceFeedback),
		[]Permission{"sppg:update", "user:update"},
	),
	RolePlatformAnalyst: read(ResourceSPPG, ResourceDashboard, ResourceReport),

	RoleSPPGKepala: all(sppgResources...),
	RoleSPPGAdmin: perms(
		all(ResourceUser, ResourceInventory, ResourceSupplier, ResourceSchool, ResourceFeedback),
		read(ResourceMenu, ResourceMenuPlan, ResourceEmployee, ResourceDistribution, ResourceProduction, ResourceDashboard),
		[]Permission{"procurement:read", "procurement:create", "procurement:update"},
	),
	RoleSPPGAkuntan: perms(
		read(ResourceProcurement, ResourceSupplier, ResourceInventory, ResourceEmployee, ResourceReport, ResourceDashboard),
		[]Permission{"procurement:approve"},
	),
	RoleSPPGProduksiManager: perms(
		all(ResourceProduction),
		read(ResourceMenu, ResourceMenuPlan, ResourceNutrition, ResourceInventory, ResourceDashboard),
		[]Permission{"inventory:update"},
	),
	RoleSPPGDistribusiManager: perms(
		all(ResourceDistribution, ResourceSchool),
		read(ResourceProduction, ResourceDashboard, ResourceFeedback),
	),
	RoleSPPGHRDManager: perms(
		all(ResourceEmployee, ResourceAttendance),
		read(ResourceDashboard),
	),
	RoleSPPGStaffDapur: perms(
		read(ResourceProduction, ResourceMenu, ResourceInventory),
		[]Permission{"production:update"},
	),
	RoleSPPGStaffDistribusi: perms(
		read(ResourceDistribution, ResourceSchool),
		[]Permission{"distribution:update"},
	),
	RoleSPPGStaffAdmin: perms(
		read(ResourceInventory, ResourceProcurement, ResourceSupplier, ResourceFeedback),
		[]Permission{"inventory:create", "inventory:update", "procurement:create", "feedback:create"},
	),
	RoleSPPGStaffQC: perms(
		read(ResourceProduction, ResourceMenu, ResourceFeedback),
		[]Permission{"production:update"},
	),
	RoleSPPGAhliGizi: perms(
		all(ResourceMenu, ResourceMenuPlan, ResourceNutrition),
		read(ResourceInventory, ResourceProduction, ResourceFeedback, ResourceDashboard),
	),
	RoleSPPGViewer: readOnlyViewer(),
	RoleDemoUser:   readOnlyViewer(),
}

// HasPermission reports whether the role grants the permission, directly or by wildcard
func HasPermission(role UserRole, perm Permission) bool {
	granted, ok := permissionMatrix[role]
	if !ok {
		return false
	}
	wildcard := NewPermission(perm.Resource(), ActionAll)
	for _, g := range granted {
		if g == PermissionAll || g == perm || g == wildcard {
			return true
		}
	}
	return false
}

// CanAccess reports whether the role may perform action on resource
func CanAccess(role UserRole, resource, action string) bool {
	return HasPermission(role, NewPermission(resource, action))
}

// PermissionsFor returns the sorted permission codes granted to the role, as
// carried in access token claims
func PermissionsFor(role UserRole) []string {
	granted := permissionMatrix[role]
	out := make([]string, 0, len(granted))
	for _, p := range granted {
		out = append(out, string(p))
	}
	sort.Strings(out)
	return out
}

// MatchPermission checks a required permission against a list of granted codes,
// honoring the same wildcards as the matrix
func MatchPermission(granted []string, required string) bool {
	p := Permission(required)
	wildcard := string(NewPermission(p.Resource(), ActionAll))
	for _, g := range granted {
		if g == string(PermissionAll) || g == required || g == wildcard {
			return true
		}
	}
	return false
}
