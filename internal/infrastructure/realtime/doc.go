// Package realtime fans dashboard events out to browsers.
//
// Application code publishes an Event on a Redis channel through Publisher,
// which also keeps a short history list per channel. Every server process
// runs a Bridge that pattern-subscribes to those channels and hands each
// payload, unchanged, to the local Hub. The Hub delivers to the SSE and
// WebSocket clients subscribed to that channel. Delivery is best effort: a
// client whose buffer is full misses the message.
package realtime
