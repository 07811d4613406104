package realtime

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is the JSON envelope published to dashboard channels
type Event struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	TenantID  string          `json:"tenant_id,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data,omitempty"`
}

// NewEvent builds an envelope around data. A nil tenant ID marks a
// platform-wide event.
func NewEvent(eventType string, tenantID uuid.UUID, at time.Time, data any) (Event, error) {
	e := Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Timestamp: at.UTC(),
	}
	if tenantID != uuid.Nil {
		e.TenantID = tenantID.String()
	}
	if data != nil {
		raw, err := json.Marshal(data)
		if err != nil {
			return Event{}, err
		}
		e.Data = raw
	}
	return e, nil
}

const historySuffix = ":history"

// Channels names the pub/sub channels under a common prefix
type Channels struct {
	Prefix string
}

// Dashboard returns the channel of one tenant's dashboard
func (c Channels) Dashboard(tenantID uuid.UUID) string {
	return c.Prefix + ":dashboard:" + tenantID.String()
}

// Platform returns the channel of platform-wide events
func (c Channels) Platform() string {
	return c.Prefix + ":platform"
}

// HistoryKey returns the list key holding a channel's recent events
func HistoryKey(channel string) string {
	return channel + historySuffix
}

func isHistoryKey(name string) bool {
	return strings.HasSuffix(name, historySuffix)
}
