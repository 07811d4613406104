package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleLabel(t *testing.T) {
	tests := []struct {
		role UserRole
		want string
	}{
		{RolePlatformSuperadmin, "Super Admin Platform"},
		{RolePlatformSupport, "Support Platform"},
		{RolePlatformAnalyst, "Analis Platform"},
		{RoleSPPGKepala, "Kepala SPPG"},
		{RoleSPPGAdmin, "Admin SPPG"},
		{RoleSPPGAkuntan, "Akuntan"},
		{RoleSPPGProduksiManager, "Manajer Produksi"},
		{RoleSPPGDistribusiManager, "Manajer Distribusi"},
		{RoleSPPGHRDManager, "Manajer HRD"},
		{RoleSPPGStaffDapur, "Staf Dapur"},
		{RoleSPPGStaffDistribusi, "Staf Distribusi"},
		{RoleSPPGStaffAdmin, "Staf Administrasi"},
		{RoleSPPGStaffQC, "Staf Quality Control"},
		{RoleSPPGAhliGizi, "Ahli Gizi"},
		{RoleSPPGViewer, "Viewer"},
		{RoleDemoUser, "Demo User"},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, RoleLabel(tt.role))
			assert.Equal(t, tt.want, tt.role.Label())
		})
	}
}

func TestRoleLabel_UnknownRoleFallsBackToValue(t *testing.T) {
	assert.Equal(t, "SPPG_JANITOR", RoleLabel("SPPG_JANITOR"))
	assert.Equal(t, "", RoleLabel(""))
}

func TestRoleClassification(t *testing.T) {
	assert.True(t, RolePlatformSupport.IsPlatformRole())
	assert.False(t, RolePlatformSupport.IsSPPGRole())

	assert.True(t, RoleSPPGAhliGizi.IsSPPGRole())
	assert.False(t, RoleSPPGAhliGizi.IsPlatformRole())

	assert.False(t, RoleDemoUser.IsPlatformRole())
	assert.False(t, RoleDemoUser.IsSPPGRole())
	assert.True(t, RoleDemoUser.IsValid())

	assert.False(t, UserRole("PLATFORM_GHOST").IsPlatformRole())
}

func TestParseUserRole(t *testing.T) {
	role, ok := ParseUserRole(" sppg_kepala ")
	assert.True(t, ok)
	assert.Equal(t, RoleSPPGKepala, role)

	_, ok = ParseUserRole("chef")
	assert.False(t, ok)
}

func TestAssignableRoles(t *testing.T) {
	options := AssignableRoles()

	assert.Len(t, options, 12)
	for i, opt := range options {
		assert.True(t, opt.Value.IsSPPGRole())
		assert.Equal(t, RoleLabel(opt.Value), opt.Label)
		if i > 0 {
			assert.Less(t, string(options[i-1].Value), string(opt.Value))
		}
	}
}
