// Package tenant keeps SPPG data isolated inside the shared database.
//
// Scope narrows a query to one SPPG. RegisterGuard installs GORM callbacks
// that reject queries and deletes against tenant-owned tables when
// the statement carries no tenant_id condition. Cross-tenant lookups that are
// legitimate (login by username, platform counts) opt out with SkipGuard.
package tenant

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the tenant discriminator column on every tenant-owned table
const Column = "tenant_id"

const skipGuardKey = "tenant:skip_guard"

// ErrMissingTenantScope is returned when a tenant-owned table is queried without a tenant condition
var ErrMissingTenantScope = errors.New("tenant scope required for tenant-owned table")

// Scope restricts a query to a single tenant. The nil tenant matches nothing;
// the condition still names the column so the guard accepts it.
func Scope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			return db.Where(Column + " <> " + Column)
		}
		return db.Where(Column+" = ?", tenantID)
	}
}

// SkipGuard marks a statement as an intentional cross-tenant access
func SkipGuard(db *gorm.DB) *gorm.DB {
	return db.Set(skipGuardKey, true)
}

// RegisterGuard installs the tenant guard on query and delete.
// Updates go through Save on aggregates loaded by a tenant-scoped find.
func RegisterGuard(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenant:guard_query", guard); err != nil {
		return err
	}
	return db.Callback().Delete().Before("gorm:delete").Register("tenant:guard_delete", guard)
}

func guard(db *gorm.DB) {
	if db.Error != nil || db.Statement.Schema == nil {
		return
	}
	if v, ok := db.Get(skipGuardKey); ok {
		if skip, _ := v.(bool); skip {
			return
		}
	}
	if db.Statement.Schema.LookUpField(Column) == nil {
		return
	}
	if !HasTenantCondition(db.Statement) {
		_ = db.AddError(ErrMissingTenantScope)
	}
}

// HasTenantCondition reports whether the statement's WHERE clause constrains tenant_id
func HasTenantCondition(stmt *gorm.Statement) bool {
	c, ok := stmt.Clauses["WHERE"]
	if !ok {
		return false
	}
	where, ok := c.Expression.(clause.Where)
	if !ok {
		return false
	}
	for _, expr := range where.Exprs {
		if mentionsTenant(expr) {
			return true
		}
	}
	return false
}

func mentionsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Expr:
		return strings.Contains(e.SQL, Column)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, Column)
	case clause.Eq:
		return columnName(e.Column) == Column
	case clause.IN:
		return columnName(e.Column) == Column
	case clause.AndConditions:
		for _, inner := range e.Exprs {
			if mentionsTenant(inner) {
				return true
			}
		}
	}
	return false
}

func columnName(col interface{}) string {
	switch c := col.(type) {
	case string:
		if i := strings.LastIndex(c, "."); i >= 0 {
			c = c[i+1:]
		}
		return strings.Trim(c, `"`)
	case clause.Column:
		return c.Name
	}
	return ""
}
