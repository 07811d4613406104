package persistence

import (
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func withBase(fields ...string) map[string]bool {
	m := map[string]bool{
		"id":         true,
		"created_at": true,
		"updated_at": true,
	}
	for _, f := range fields {
		m[f] = true
	}
	return m
}

// Allowed sort fields per table
var (
	SPPGSortFields          = withBase("code", "name", "province", "regency", "status", "plan", "target_portions")
	UserSortFields          = withBase("username", "email", "display_name", "role", "status", "last_login_at")
	MenuSortFields          = withBase("code", "name", "meal_type", "serving_size_grams", "cost_per_serving")
	MenuPlanSortFields      = withBase("plan_date", "planned_portions", "status")
	InventorySortFields     = withBase("code", "name", "category", "current_stock", "min_stock", "cost_per_unit")
	StockMovementSortFields = withBase("type", "quantity", "reference_type")
	SupplierSortFields      = withBase("code", "name", "contact_name")
	ProcurementSortFields   = withBase("order_number", "order_date", "expected_date", "status", "total_amount")
	ProductionSortFields    = withBase("batch_number", "production_date", "planned_portions", "actual_portions", "status")
	SchoolSortFields        = withBase("npsn", "name", "level", "student_count")
	DistributionSortFields  = withBase("distribution_number", "scheduled_date", "portions", "status", "delivered_at")
	EmployeeSortFields      = withBase("employee_code", "full_name", "department", "employment_type", "join_date", "status")
	FeedbackSortFields      = withBase("rating", "category", "source", "status")
)

// listOptions describes how a repository pages and orders a listing
type listOptions struct {
	sortFields   map[string]bool
	defaultOrder string
	searchCols   []string
}

// applySearch adds a case-insensitive match across the listed columns
func applySearch(query *gorm.DB, search string, cols []string) *gorm.DB {
	search = strings.TrimSpace(search)
	if search == "" || len(cols) == 0 {
		return query
	}
	pattern := "%" + strings.ToLower(search) + "%"
	conds := make([]string, len(cols))
	args := make([]interface{}, len(cols))
	for i, c := range cols {
		conds[i] = "LOWER(" + c + ") LIKE ?"
		args[i] = pattern
	}
	return query.Where("("+strings.Join(conds, " OR ")+")", args...)
}

// applyPage applies ordering and pagination from the filter
func applyPage(query *gorm.DB, filter shared.Filter, opts listOptions) *gorm.DB {
	if field := ValidateSortField(filter.OrderBy, opts.sortFields, ""); field != "" {
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else if opts.defaultOrder != "" {
		query = query.Order(opts.defaultOrder)
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.PageSize)
	}
	return query
}

// filterString returns a string filter value, accepting typed string enums
func filterString(filter shared.Filter, key string) (string, bool) {
	v, ok := filter.Filters[key]
	if !ok || v == nil {
		return "", false
	}
	switch s := v.(type) {
	case string:
		return s, s != ""
	case interface{ String() string }:
		return s.String(), s.String() != ""
	}
	return "", false
}
