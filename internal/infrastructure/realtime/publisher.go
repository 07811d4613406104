package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Publisher stores events in a per-channel history list and publishes them
type Publisher struct {
	client      redis.Cmdable
	historySize int
	historyTTL  time.Duration
}

// NewPublisher creates a publisher keeping historySize events for historyTTL
func NewPublisher(client redis.Cmdable, historySize int, historyTTL time.Duration) *Publisher {
	if historySize <= 0 {
		historySize = 100
	}
	if historyTTL <= 0 {
		historyTTL = 24 * time.Hour
	}
	return &Publisher{client: client, historySize: historySize, historyTTL: historyTTL}
}

// Publish appends the event to the channel history and publishes it, in a
// single pipeline
func (p *Publisher) Publish(ctx context.Context, channel string, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal realtime event: %w", err)
	}

	key := HistoryKey(channel)
	_, err = p.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, key, payload)
		pipe.LTrim(ctx, key, 0, int64(p.historySize-1))
		pipe.Expire(ctx, key, p.historyTTL)
		pipe.Publish(ctx, channel, payload)
		return nil
	})
	if err != nil {
		return fmt.Errorf("publish realtime event on %s: %w", channel, err)
	}
	return nil
}

// Recent returns up to limit stored events of channel, newest first.
// Entries that no longer decode are skipped.
func (p *Publisher) Recent(ctx context.Context, channel string, limit int) ([]Event, error) {
	if limit <= 0 {
		return []Event{}, nil
	}
	raw, err := p.client.LRange(ctx, HistoryKey(channel), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read realtime history of %s: %w", channel, err)
	}

	events := make([]Event, 0, len(raw))
	for _, r := range raw {
		var e Event
		if err := json.Unmarshal([]byte(r), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// RecentRaw returns up to limit stored payloads of channel, newest first,
// exactly as they were published
func (p *Publisher) RecentRaw(ctx context.Context, channel string, limit int) ([][]byte, error) {
	if limit <= 0 {
		return nil, nil
	}
	raw, err := p.client.LRange(ctx, HistoryKey(channel), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("read realtime history of %s: %w", channel, err)
	}
	out := make([][]byte, len(raw))
	for i, r := range raw {
		out[i] = []byte(r)
	}
	return out, nil
}
