package realtime

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jonboulle/clockwork"
)

const wsWriteDeadline = 5 * time.Second

// WebSocketWriter pumps a client's buffer onto a WebSocket connection.
// Heartbeats become ping control frames and the peer must answer with a
// pong within pongWait.
type WebSocketWriter struct {
	conn     *websocket.Conn
	client   *Client
	clock    clockwork.Clock
	pongWait time.Duration
}

// NewWebSocketWriter wraps conn. pongWait is normally twice the heartbeat
// interval.
func NewWebSocketWriter(conn *websocket.Conn, client *Client, clock clockwork.Clock, pongWait time.Duration) *WebSocketWriter {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if pongWait <= 0 {
		pongWait = 60 * time.Second
	}
	return &WebSocketWriter{conn: conn, client: client, clock: clock, pongWait: pongWait}
}

// Serve blocks until the peer goes away, the client is closed or ctx is
// done. It always closes the connection before returning.
func (w *WebSocketWriter) Serve(ctx context.Context) error {
	readerDone := make(chan struct{})
	go w.readPump(readerDone)
	defer w.conn.Close()

	for {
		select {
		case <-ctx.Done():
			w.closeFrame("server shutting down")
			return nil
		case <-w.client.Done():
			w.closeFrame("")
			return nil
		case <-readerDone:
			return nil
		case m := <-w.client.Messages():
			w.setWriteDeadline()
			var err error
			if m.Kind == KindHeartbeat {
				err = w.conn.WriteMessage(websocket.PingMessage, nil)
			} else {
				err = w.conn.WriteMessage(websocket.TextMessage, m.Payload)
			}
			if err != nil {
				return err
			}
		}
	}
}

// readPump discards inbound frames. It keeps the read deadline alive on
// every pong and exits when the peer disconnects.
func (w *WebSocketWriter) readPump(done chan<- struct{}) {
	defer close(done)
	w.conn.SetReadLimit(512)
	_ = w.conn.SetReadDeadline(w.clock.Now().Add(w.pongWait))
	w.conn.SetPongHandler(func(string) error {
		return w.conn.SetReadDeadline(w.clock.Now().Add(w.pongWait))
	})
	for {
		if _, _, err := w.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (w *WebSocketWriter) setWriteDeadline() {
	_ = w.conn.SetWriteDeadline(w.clock.Now().Add(wsWriteDeadline))
}

func (w *WebSocketWriter) closeFrame(reason string) {
	w.setWriteDeadline()
	_ = w.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, reason))
}
