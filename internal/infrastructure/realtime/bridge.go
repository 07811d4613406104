package realtime

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Dispatcher receives every message taken off the subscription
type Dispatcher interface {
	Broadcast(channel string, payload []byte) (delivered, dropped int)
}

// BridgeConfig tunes the subscription loop
type BridgeConfig struct {
	Patterns       []string
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// Bridge pattern-subscribes to Redis and forwards each message verbatim to
// the dispatcher. It reconnects with a doubling, capped backoff.
type Bridge struct {
	client  *redis.Client
	target  Dispatcher
	cfg     BridgeConfig
	clock   clockwork.Clock
	metrics *Metrics
	logger  *zap.Logger
	running atomic.Bool
}

// NewBridge creates a bridge. metrics may be nil.
func NewBridge(client *redis.Client, target Dispatcher, cfg BridgeConfig, clock clockwork.Clock, metrics *Metrics, logger *zap.Logger) *Bridge {
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = time.Second
	}
	if cfg.MaxBackoff < cfg.InitialBackoff {
		cfg.MaxBackoff = 30 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bridge{
		client:  client,
		target:  target,
		cfg:     cfg,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Running reports whether the subscription is currently active
func (b *Bridge) Running() bool {
	return b.running.Load()
}

// Run subscribes and forwards messages until ctx is cancelled
func (b *Bridge) Run(ctx context.Context) {
	bo := newBackoff(b.cfg.InitialBackoff, b.cfg.MaxBackoff)

	for {
		subscribed, err := b.subscribe(ctx)
		b.setRunning(false)
		if ctx.Err() != nil {
			return
		}
		if subscribed {
			bo.reset()
		}

		wait := bo.next()
		b.logger.Warn("Realtime subscription lost, reconnecting",
			zap.Error(err),
			zap.Duration("backoff", wait),
		)
		select {
		case <-ctx.Done():
			return
		case <-b.clock.After(wait):
		}
		if b.metrics != nil {
			b.metrics.BridgeReconnects.Inc()
		}
	}
}

// subscribe runs one subscription session. It reports whether the
// subscription was confirmed before it ended.
func (b *Bridge) subscribe(ctx context.Context) (bool, error) {
	ps := b.client.PSubscribe(ctx, b.cfg.Patterns...)
	defer ps.Close()

	if _, err := ps.Receive(ctx); err != nil {
		return false, fmt.Errorf("psubscribe %v: %w", b.cfg.Patterns, err)
	}
	b.setRunning(true)
	b.logger.Info("Realtime bridge subscribed", zap.Strings("patterns", b.cfg.Patterns))

	for {
		msg, err := ps.ReceiveMessage(ctx)
		if err != nil {
			return true, fmt.Errorf("receive: %w", err)
		}
		if isHistoryKey(msg.Channel) {
			continue
		}
		b.target.Broadcast(msg.Channel, []byte(msg.Payload))
	}
}

func (b *Bridge) setRunning(up bool) {
	b.running.Store(up)
	if b.metrics == nil {
		return
	}
	if up {
		b.metrics.BridgeUp.Set(1)
	} else {
		b.metrics.BridgeUp.Set(0)
	}
}

// backoff doubles from initial up to max
type backoff struct {
	initial, max, current time.Duration
}

func newBackoff(initial, max time.Duration) *backoff {
	return &backoff{initial: initial, max: max}
}

func (b *backoff) next() time.Duration {
	if b.current == 0 {
		b.current = b.initial
	} else {
		b.current *= 2
	}
	if b.current > b.max {
		b.current = b.max
	}
	return b.current
}

func (b *backoff) reset() {
	b.current = 0
}
