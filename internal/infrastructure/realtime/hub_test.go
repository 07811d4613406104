package realtime

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub(t *testing.T, cfg HubConfig) (*Hub, *clockwork.FakeClock, *Metrics) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	metrics := NewMetrics(prometheus.NewRegistry())
	return NewHub(cfg, clock, metrics, nil), clock, metrics
}

func TestHub_BroadcastRoutesByChannel(t *testing.T) {
	hub, _, metrics := newTestHub(t, HubConfig{})
	channels := Channels{Prefix: "bergizi"}
	tenantA, tenantB := uuid.New(), uuid.New()

	a := NewClient(TransportSSE, tenantA, uuid.New(), []string{channels.Dashboard(tenantA)}, 4)
	b := NewClient(TransportWebSocket, tenantB, uuid.New(), []string{channels.Dashboard(tenantB)}, 4)
	require.NoError(t, hub.Register(a))
	require.NoError(t, hub.Register(b))
	assert.Equal(t, 2, hub.ClientCount())
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.ActiveClients.WithLabelValues("sse")))

	delivered, dropped := hub.Broadcast(channels.Dashboard(tenantA), []byte(`{"type":"production.status_changed"}`))
	assert.Equal(t, 1, delivered)
	assert.Equal(t, 0, dropped)

	select {
	case m := <-a.Messages():
		assert.Equal(t, KindEvent, m.Kind)
		assert.JSONEq(t, `{"type":"production.status_changed"}`, string(m.Payload))
	default:
		t.Fatal("tenant A client got nothing")
	}
	assert.Len(t, b.Messages(), 0)
}

func TestHub_DropsWhenBufferFull(t *testing.T) {
	hub, _, metrics := newTestHub(t, HubConfig{})
	c := NewClient(TransportSSE, uuid.New(), uuid.New(), []string{"bergizi:platform"}, 2)
	require.NoError(t, hub.Register(c))

	for i := 0; i < 5; i++ {
		hub.Broadcast("bergizi:platform", []byte(`{}`))
	}

	assert.Len(t, c.Messages(), 2)
	assert.Equal(t, int64(3), c.Dropped())
	assert.Equal(t, 2.0, testutil.ToFloat64(metrics.MessagesDelivered))
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.MessagesDropped))
}

func TestHub_MaxClients(t *testing.T) {
	hub, _, _ := newTestHub(t, HubConfig{MaxClients: 1})
	first := NewClient(TransportSSE, uuid.New(), uuid.New(), nil, 1)
	require.NoError(t, hub.Register(first))

	err := hub.Register(NewClient(TransportSSE, uuid.New(), uuid.New(), nil, 1))
	assert.ErrorIs(t, err, ErrTooManyClients)

	hub.Unregister(first)
	hub.Unregister(first)
	assert.Equal(t, 0, hub.ClientCount())
	assert.NoError(t, hub.Register(NewClient(TransportSSE, uuid.New(), uuid.New(), nil, 1)))
}

func TestHub_UnregisteredClientRejectsOffers(t *testing.T) {
	hub, _, _ := newTestHub(t, HubConfig{})
	c := NewClient(TransportWebSocket, uuid.New(), uuid.New(), []string{"x"}, 1)
	require.NoError(t, hub.Register(c))
	hub.Unregister(c)

	select {
	case <-c.Done():
	default:
		t.Fatal("client should be closed")
	}
	assert.False(t, c.Offer(Message{Kind: KindEvent}))
	d, _ := hub.Broadcast("x", []byte("{}"))
	assert.Zero(t, d)
}

func TestHub_HeartbeatOnTick(t *testing.T) {
	hub, clock, metrics := newTestHub(t, HubConfig{HeartbeatInterval: 30 * time.Second})
	c := NewClient(TransportSSE, uuid.New(), uuid.New(), nil, 4)
	require.NoError(t, hub.Register(c))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		hub.Run(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(30 * time.Second)

	select {
	case m := <-c.Messages():
		assert.Equal(t, KindHeartbeat, m.Kind)
	case <-time.After(time.Second):
		t.Fatal("no heartbeat delivered")
	}
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.Heartbeats))

	cancel()
	<-done
	assert.Equal(t, 0, hub.ClientCount())
	select {
	case <-c.Done():
	default:
		t.Fatal("shutdown should close clients")
	}
}
