package cache

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// TenantEntry is the cached view of an SPPG that request routing needs
type TenantEntry struct {
	ID     uuid.UUID `json:"id"`
	Code   string    `json:"code"`
	Active bool      `json:"active"`
}

// TenantLoader reads SPPGs from the database on a cache miss
type TenantLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*sppg.SPPG, error)
	FindByCode(ctx context.Context, code string) (*sppg.SPPG, error)
}

// TenantCacheConfig tunes the two tiers
type TenantCacheConfig struct {
	// L1TTL bounds how stale another instance's local copy may be
	L1TTL time.Duration
	// L2TTL is the Redis expiry
	L2TTL     time.Duration
	KeyPrefix string
}

// DefaultTenantCacheConfig returns the default tiers
func DefaultTenantCacheConfig() TenantCacheConfig {
	return TenantCacheConfig{
		L1TTL:     30 * time.Second,
		L2TTL:     10 * time.Minute,
		KeyPrefix: "bergizi:tenant:",
	}
}

type tenantItem struct {
	entry     TenantEntry
	expiresAt time.Time
}

// TenantCache is a read-through cache of SPPG lookups. L1 is a local map,
// L2 is Redis and is skipped when no client is given. Status changes
// evict both tiers on the instance that made them.
type TenantCache struct {
	loader TenantLoader
	client redis.Cmdable
	cfg    TenantCacheConfig
	clock  clockwork.Clock
	logger *zap.Logger

	l1 sync.Map // key -> tenantItem

	l1Hits atomic.Int64
	l2Hits atomic.Int64
	misses atomic.Int64
}

// NewTenantCache creates a tenant cache. client may be nil.
func NewTenantCache(loader TenantLoader, client redis.Cmdable, cfg TenantCacheConfig, clock clockwork.Clock, logger *zap.Logger) *TenantCache {
	def := DefaultTenantCacheConfig()
	if cfg.L1TTL <= 0 {
		cfg.L1TTL = def.L1TTL
	}
	if cfg.L2TTL <= 0 {
		cfg.L2TTL = def.L2TTL
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TenantCache{loader: loader, client: client, cfg: cfg, clock: clock, logger: logger}
}

// ByID resolves an SPPG by ID
func (c *TenantCache) ByID(ctx context.Context, id uuid.UUID) (*TenantEntry, error) {
	return c.get(ctx, idKey(id), func() (*sppg.SPPG, error) {
		return c.loader.FindByID(ctx, id)
	})
}

// ByCode resolves an SPPG by its code
func (c *TenantCache) ByCode(ctx context.Context, code string) (*TenantEntry, error) {
	return c.get(ctx, codeKey(code), func() (*sppg.SPPG, error) {
		return c.loader.FindByCode(ctx, code)
	})
}

// Invalidate evicts an SPPG from both tiers
func (c *TenantCache) Invalidate(ctx context.Context, id uuid.UUID, code string) {
	keys := []string{idKey(id)}
	if code != "" {
		keys = append(keys, codeKey(code))
	}
	for _, k := range keys {
		c.l1.Delete(k)
	}
	if c.client == nil {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.cfg.KeyPrefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		c.logger.Warn("Failed to evict tenant from Redis", zap.String("sppg_id", id.String()), zap.Error(err))
	}
}

// Handle evicts an SPPG whose status changed
func (c *TenantCache) Handle(ctx context.Context, event shared.DomainEvent) error {
	changed, ok := event.(*sppg.SPPGStatusChangedEvent)
	if !ok {
		return nil
	}
	c.Invalidate(ctx, changed.AggregateID(), changed.Code)
	return nil
}

// EventTypes returns the events that evict entries
func (c *TenantCache) EventTypes() []string {
	return []string{sppg.EventTypeSPPGStatusChanged}
}

// Stats returns the hit and miss counters
func (c *TenantCache) Stats() (l1Hits, l2Hits, misses int64) {
	return c.l1Hits.Load(), c.l2Hits.Load(), c.misses.Load()
}

func (c *TenantCache) get(ctx context.Context, key string, load func() (*sppg.SPPG, error)) (*TenantEntry, error) {
	now := c.clock.Now()
	if v, ok := c.l1.Load(key); ok {
		item := v.(tenantItem)
		if now.Before(item.expiresAt) {
			c.l1Hits.Add(1)
			entry := item.entry
			return &entry, nil
		}
		c.l1.Delete(key)
	}

	if entry, ok := c.fromRedis(ctx, key); ok {
		c.l2Hits.Add(1)
		c.storeLocal(entry, now)
		return entry, nil
	}

	c.misses.Add(1)
	s, err := load()
	if err != nil {
		return nil, err
	}
	entry := &TenantEntry{ID: s.ID, Code: s.Code, Active: s.IsActive()}
	c.storeLocal(entry, now)
	c.storeRedis(ctx, entry)
	return entry, nil
}

func (c *TenantCache) fromRedis(ctx context.Context, key string) (*TenantEntry, bool) {
	if c.client == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.cfg.KeyPrefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("Tenant cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var entry TenantEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return nil, false
	}
	return &entry, true
}

func (c *TenantCache) storeLocal(entry *TenantEntry, now time.Time) {
	item := tenantItem{entry: *entry, expiresAt: now.Add(c.cfg.L1TTL)}
	c.l1.Store(idKey(entry.ID), item)
	c.l1.Store(codeKey(entry.Code), item)
}

func (c *TenantCache) storeRedis(ctx context.Context, entry *TenantEntry) {
	if c.client == nil {
		return
	}
	raw, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, err = c.client.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, c.cfg.KeyPrefix+idKey(entry.ID), raw, c.cfg.L2TTL)
		p.Set(ctx, c.cfg.KeyPrefix+codeKey(entry.Code), raw, c.cfg.L2TTL)
		return nil
	})
	if err != nil {
		c.logger.Warn("Tenant cache write failed", zap.String("sppg_id", entry.ID.String()), zap.Error(err))
	}
}

func idKey(id uuid.UUID) string { return "id:" + id.String() }

func codeKey(code string) string { return "code:" + code }
