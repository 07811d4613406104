package router

import (
	"context"

	"github.com/bergizi/backend/internal/infrastructure/cache"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
)

// TenantLookup is the read side of the tenant cache
type TenantLookup interface {
	ByID(ctx context.Context, id uuid.UUID) (*cache.TenantEntry, error)
	ByCode(ctx context.Context, code string) (*cache.TenantEntry, error)
}

// TenantResolver serves the tenant middleware from the tenant cache
type TenantResolver struct {
	lookup TenantLookup
}

// NewTenantResolver wraps a tenant lookup
func NewTenantResolver(lookup TenantLookup) *TenantResolver {
	return &TenantResolver{lookup: lookup}
}

// ResolveByID implements middleware.TenantResolver
func (r *TenantResolver) ResolveByID(ctx context.Context, id uuid.UUID) (*middleware.TenantInfo, error) {
	return toTenantInfo(r.lookup.ByID(ctx, id))
}

// ResolveByCode implements middleware.TenantResolver
func (r *TenantResolver) ResolveByCode(ctx context.Context, code string) (*middleware.TenantInfo, error) {
	return toTenantInfo(r.lookup.ByCode(ctx, code))
}

func toTenantInfo(entry *cache.TenantEntry, err error) (*middleware.TenantInfo, error) {
	if err != nil {
		return nil, err
	}
	return &middleware.TenantInfo{ID: entry.ID, Code: entry.Code, Active: entry.Active}, nil
}
