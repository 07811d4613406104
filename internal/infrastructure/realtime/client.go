package realtime

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// Transport identifies how a client is connected
type Transport string

const (
	TransportSSE       Transport = "sse"
	TransportWebSocket Transport = "ws"
)

// MessageKind distinguishes payloads from keep-alives
type MessageKind int

const (
	KindEvent MessageKind = iota
	KindHeartbeat
)

// Message is one item in a client's outgoing buffer
type Message struct {
	Kind    MessageKind
	Channel string
	Payload []byte
}

// Client is a connected browser subscribed to a fixed set of channels.
// The transport writer drains Messages until Done is closed.
type Client struct {
	ID        string
	TenantID  uuid.UUID
	UserID    uuid.UUID
	Transport Transport

	channels  map[string]struct{}
	send      chan Message
	done      chan struct{}
	closeOnce sync.Once
	dropped   atomic.Int64
}

// NewClient creates a client with an outgoing buffer of the given size
func NewClient(transport Transport, tenantID, userID uuid.UUID, channels []string, buffer int) *Client {
	if buffer < 1 {
		buffer = 1
	}
	set := make(map[string]struct{}, len(channels))
	for _, ch := range channels {
		set[ch] = struct{}{}
	}
	return &Client{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		UserID:    userID,
		Transport: transport,
		channels:  set,
		send:      make(chan Message, buffer),
		done:      make(chan struct{}),
	}
}

// Messages returns the outgoing buffer
func (c *Client) Messages() <-chan Message {
	return c.send
}

// Done is closed once the client is unregistered
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Channels returns the subscribed channel names
func (c *Client) Channels() []string {
	out := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

// Subscribed reports whether the client listens on channel
func (c *Client) Subscribed(channel string) bool {
	_, ok := c.channels[channel]
	return ok
}

// Dropped returns how many messages this client missed
func (c *Client) Dropped() int64 {
	return c.dropped.Load()
}

// Offer queues m without blocking and reports whether it fit
func (c *Client) Offer(m Message) bool {
	select {
	case <-c.done:
		return false
	default:
	}
	select {
	case c.send <- m:
		return true
	default:
		c.dropped.Add(1)
		return false
	}
}

// Close marks the client as finished. The send channel is never closed so
// a concurrent Offer cannot panic.
func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}
