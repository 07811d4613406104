package persistence

import (
	"testing"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"ASC uppercase returns ASC", "ASC", "ASC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"desc lowercase returns DESC", "desc", "DESC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE users;--", "DESC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		defaultField string
		expected     string
	}{
		{"empty string returns default", "", "created_at", "created_at"},
		{"valid field returns field", "plan_date", "created_at", "plan_date"},
		{"invalid field returns default", "invalid_field", "created_at", "created_at"},
		{"sql injection attempt returns default", "id; DROP TABLE users;--", "created_at", "created_at"},
		{"case sensitive", "PLAN_DATE", "created_at", "created_at"},
		{"whitespace around valid field returns field", "  status  ", "created_at", "status"},
		{"empty default with invalid field", "invalid", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortField(tt.input, MenuPlanSortFields, tt.defaultField))
		})
	}
}

func TestSortFieldsWhitelists(t *testing.T) {
	whitelists := map[string]map[string]bool{
		"SPPGSortFields":          SPPGSortFields,
		"UserSortFields":          UserSortFields,
		"MenuSortFields":          MenuSortFields,
		"MenuPlanSortFields":      MenuPlanSortFields,
		"InventorySortFields":     InventorySortFields,
		"StockMovementSortFields": StockMovementSortFields,
		"SupplierSortFields":      SupplierSortFields,
		"ProcurementSortFields":   ProcurementSortFields,
		"ProductionSortFields":    ProductionSortFields,
		"SchoolSortFields":        SchoolSortFields,
		"DistributionSortFields":  DistributionSortFields,
		"EmployeeSortFields":      EmployeeSortFields,
		"FeedbackSortFields":      FeedbackSortFields,
	}

	for name, fields := range whitelists {
		t.Run(name, func(t *testing.T) {
			assert.True(t, fields["id"])
			assert.True(t, fields["created_at"])
			assert.True(t, fields["updated_at"])
			assert.False(t, fields["password_hash"])
		})
	}
}

type stringer string

func (s stringer) String() string { return string(s) }

func TestFilterString(t *testing.T) {
	f := shared.Filter{Filters: map[string]interface{}{
		"status":   "active",
		"category": stringer("dairy"),
		"empty":    "",
		"number":   3,
	}}

	v, ok := filterString(f, "status")
	assert.True(t, ok)
	assert.Equal(t, "active", v)

	v, ok = filterString(f, "category")
	assert.True(t, ok)
	assert.Equal(t, "dairy", v)

	_, ok = filterString(f, "empty")
	assert.False(t, ok)
	_, ok = filterString(f, "number")
	assert.False(t, ok)
	_, ok = filterString(f, "missing")
	assert.False(t, ok)
}
