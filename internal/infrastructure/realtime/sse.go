package realtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

// WriteSSE writes one message as a text/event-stream frame. Events are sent
// as "message" events, keep-alives as "heartbeat" events.
func WriteSSE(w io.Writer, m Message) error {
	if m.Kind == KindHeartbeat {
		_, err := io.WriteString(w, "event: heartbeat\ndata: {}\n\n")
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("event: message\n")
	for _, line := range bytes.Split(m.Payload, []byte("\n")) {
		buf.WriteString("data: ")
		buf.Write(line)
		buf.WriteByte('\n')
	}
	buf.WriteByte('\n')
	_, err := w.Write(buf.Bytes())
	return err
}

// ServeSSE drains the client's buffer into w until the client is closed,
// ctx is done or a write fails. flush is called after every frame.
func ServeSSE(ctx context.Context, w io.Writer, flush func(), c *Client) error {
	if _, err := io.WriteString(w, ": connected\n\n"); err != nil {
		return err
	}
	flush()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-c.Done():
			return nil
		case m := <-c.Messages():
			if err := WriteSSE(w, m); err != nil {
				return fmt.Errorf("write sse frame: %w", err)
			}
			flush()
		}
	}
}
