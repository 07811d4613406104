package router

import (
	"context"
	"errors"
	"testing"

	"github.com/bergizi/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLookup struct {
	entry *cache.TenantEntry
	err   error
}

func (s stubLookup) ByID(context.Context, uuid.UUID) (*cache.TenantEntry, error) {
	return s.entry, s.err
}

func (s stubLookup) ByCode(context.Context, string) (*cache.TenantEntry, error) {
	return s.entry, s.err
}

func TestTenantResolver(t *testing.T) {
	id := uuid.New()
	r := NewTenantResolver(stubLookup{entry: &cache.TenantEntry{ID: id, Code: "SPPG-BDG01", Active: true}})

	info, err := r.ResolveByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)
	assert.Equal(t, "SPPG-BDG01", info.Code)
	assert.True(t, info.Active)

	info, err = r.ResolveByCode(context.Background(), "SPPG-BDG01")
	require.NoError(t, err)
	assert.Equal(t, id, info.ID)

	notFound := errors.New("sppg not found")
	_, err = NewTenantResolver(stubLookup{err: notFound}).ResolveByID(context.Background(), id)
	assert.ErrorIs(t, err, notFound)
}
