package identity

import (
	"sort"
	"strings"
)

// UserRole is the single role a user holds. Platform roles operate across
// SPPGs, SPPG roles are confined to their own SPPG.
type UserRole string

const (
	RolePlatformSuperadmin UserRole = "PLATFORM_SUPERADMIN"
	RolePlatformSupport    UserRole = "PLATFORM_SUPPORT"
	RolePlatformAnalyst    UserRole = "PLATFORM_ANALYST"

	RoleSPPGKepala            UserRole = "SPPG_KEPALA"
	RoleSPPGAdmin             UserRole = "SPPG_ADMIN"
	RoleSPPGAkuntan           UserRole = "SPPG_AKUNTAN"
	RoleSPPGProduksiManager   UserRole = "SPPG_PRODUKSI_MANAGER"
	RoleSPPGDistribusiManager UserRole = "SPPG_DISTRIBUSI_MANAGER"
	RoleSPPGHRDManager        UserRole = "SPPG_HRD_MANAGER"
	RoleSPPGStaffDapur        UserRole = "SPPG_STAFF_DAPUR"
	RoleSPPGStaffDistribusi   UserRole = "SPPG_STAFF_DISTRIBUSI"
	RoleSPPGStaffAdmin        UserRole = "SPPG_STAFF_ADMIN"
	RoleSPPGStaffQC           UserRole = "SPPG_STAFF_QC"
	RoleSPPGAhliGizi          UserRole = "SPPG_AHLI_GIZI"
	RoleSPPGViewer            UserRole = "SPPG_VIEWER"
	RoleDemoUser              UserRole = "DEMO_USER"
)

var roleLabels = map[UserRole]string{
	RolePlatformSuperadmin:    "Super Admin Platform",
	RolePlatformSupport:       "Support Platform",
	RolePlatformAnalyst:       "Analis Platform",
	RoleSPPGKepala:            "Kepala SPPG",
	RoleSPPGAdmin:             "Admin SPPG",
	RoleSPPGAkuntan:           "Akuntan",
	RoleSPPGProduksiManager:   "Manajer Produksi",
	RoleSPPGDistribusiManager: "Manajer Distribusi",
	RoleSPPGHRDManager:        "Manajer HRD",
	RoleSPPGStaffDapur:        "Staf Dapur",
	RoleSPPGStaffDistribusi:   "Staf Distribusi",
	RoleSPPGStaffAdmin:        "Staf Administrasi",
	RoleSPPGStaffQC:           "Staf Quality Control",
	RoleSPPGAhliGizi:          "Ahli Gizi",
	RoleSPPGViewer:            "Viewer",
	RoleDemoUser:              "Demo User",
}

// RoleLabel returns the display label for a role. Unknown roles are returned as-is.
func RoleLabel(role UserRole) string {
	if label, ok := roleLabels[role]; ok {
		return label
	}
	return string(role)
}

// Label returns the display label for the role
func (r UserRole) Label() string {
	return RoleLabel(r)
}

// IsValid reports whether r is a known role
func (r UserRole) IsValid() bool {
	_, ok := roleLabels[r]
	return ok
}

// IsPlatformRole reports whether the role belongs to platform staff
func (r UserRole) IsPlatformRole() bool {
	return strings.HasPrefix(string(r), "PLATFORM_") && r.IsValid()
}

// IsSPPGRole reports whether the role belongs to SPPG staff
func (r UserRole) IsSPPGRole() bool {
	return strings.HasPrefix(string(r), "SPPG_") && r.IsValid()
}

// ParseUserRole normalizes and validates a role string
func ParseUserRole(s string) (UserRole, bool) {
	r := UserRole(strings.ToUpper(strings.TrimSpace(s)))
	return r, r.IsValid()
}

// RoleOption is a role paired with its label, for selection lists
type RoleOption struct {
	Value UserRole `json:"value"`
	Label string   `json:"label"`
}

// AssignableRoles returns the roles an SPPG user may be given, sorted by value
func AssignableRoles() []RoleOption {
	options := make([]RoleOption, 0, len(roleLabels))
	for role, label := range roleLabels {
		if role.IsSPPGRole() {
			options = append(options, RoleOption{Value: role, Label: label})
		}
	}
	sort.Slice(options, func(i, j int) bool { return options[i].Value < options[j].Value })
	return options
}
