package realtime

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// ErrTooManyClients is returned by Register when the hub is full
var ErrTooManyClients = errors.New("realtime: too many connected clients")

// HubConfig tunes the hub
type HubConfig struct {
	MaxClients        int
	HeartbeatInterval time.Duration
}

// Hub is the in-process registry of connected clients
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client

	cfg     HubConfig
	clock   clockwork.Clock
	metrics *Metrics
	logger  *zap.Logger
}

// NewHub creates a hub. metrics may be nil.
func NewHub(cfg HubConfig, clock clockwork.Clock, metrics *Metrics, logger *zap.Logger) *Hub {
	if cfg.HeartbeatInterval <= 0 {
		cfg.HeartbeatInterval = 30 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients: make(map[string]*Client),
		cfg:     cfg,
		clock:   clock,
		metrics: metrics,
		logger:  logger,
	}
}

// Register adds c to the hub
func (h *Hub) Register(c *Client) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cfg.MaxClients > 0 && len(h.clients) >= h.cfg.MaxClients {
		return ErrTooManyClients
	}
	h.clients[c.ID] = c
	if h.metrics != nil {
		h.metrics.ActiveClients.WithLabelValues(string(c.Transport)).Inc()
	}
	h.logger.Debug("Realtime client connected",
		zap.String("client_id", c.ID),
		zap.String("transport", string(c.Transport)),
		zap.String("tenant_id", c.TenantID.String()),
	)
	return nil
}

// Unregister removes c and closes it. Calling it twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	_, ok := h.clients[c.ID]
	delete(h.clients, c.ID)
	h.mu.Unlock()

	c.Close()
	if !ok {
		return
	}
	if h.metrics != nil {
		h.metrics.ActiveClients.WithLabelValues(string(c.Transport)).Dec()
	}
	h.logger.Debug("Realtime client disconnected",
		zap.String("client_id", c.ID),
		zap.Int64("dropped", c.Dropped()),
	)
}

// ClientCount returns the number of registered clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast queues payload for every client subscribed to channel and
// returns how many clients received and missed it.
func (h *Hub) Broadcast(channel string, payload []byte) (delivered, dropped int) {
	msg := Message{Kind: KindEvent, Channel: channel, Payload: payload}

	h.mu.RLock()
	for _, c := range h.clients {
		if !c.Subscribed(channel) {
			continue
		}
		if c.Offer(msg) {
			delivered++
		} else {
			dropped++
		}
	}
	h.mu.RUnlock()

	if h.metrics != nil {
		h.metrics.MessagesDelivered.Add(float64(delivered))
		h.metrics.MessagesDropped.Add(float64(dropped))
	}
	return delivered, dropped
}

// Run sends a heartbeat to every client on each tick until ctx is done
func (h *Hub) Run(ctx context.Context) {
	ticker := h.clock.NewTicker(h.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-ticker.Chan():
			h.heartbeat()
		}
	}
}

func (h *Hub) heartbeat() {
	h.mu.RLock()
	for _, c := range h.clients {
		c.Offer(Message{Kind: KindHeartbeat})
	}
	h.mu.RUnlock()
	if h.metrics != nil {
		h.metrics.Heartbeats.Inc()
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[string]*Client)
	h.mu.Unlock()

	for _, c := range clients {
		c.Close()
		if h.metrics != nil {
			h.metrics.ActiveClients.WithLabelValues(string(c.Transport)).Dec()
		}
	}
}
