package dashboard

import (
	"context"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/domain/sppg"
	"github.com/bergizi/backend/internal/infrastructure/realtime"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EventPublisher publishes realtime events to a channel
type EventPublisher interface {
	Publish(ctx context.Context, channel string, event realtime.Event) error
}

// realtimeTypes maps domain event types to the names dashboards receive
var realtimeTypes = map[string]string{
	production.EventTypeProductionStatusChanged:     "production.status_changed",
	distribution.EventTypeDistributionStatusChanged: "distribution.status_changed",
	inventory.EventTypeStockMovementRecorded:        "inventory.stock_movement",
	inventory.EventTypeLowStockDetected:             "inventory.low_stock",
	feedback.EventTypeFeedbackSubmitted:             "feedback.submitted",
	procurement.EventTypeProcurementApproved:        "procurement.approved",
	procurement.EventTypeProcurementReceived:        "procurement.received",
	sppg.EventTypeSPPGCreated:                       "sppg.created",
	sppg.EventTypeSPPGStatusChanged:                 "sppg.status_changed",
}

// platformTypes are published on the platform channel instead of a tenant one
var platformTypes = map[string]bool{
	sppg.EventTypeSPPGCreated:       true,
	sppg.EventTypeSPPGStatusChanged: true,
}

// RealtimeHandler forwards domain events to dashboard channels
type RealtimeHandler struct {
	publisher EventPublisher
	channels  realtime.Channels
	logger    *zap.Logger
}

// NewRealtimeHandler creates a handler publishing through publisher
func NewRealtimeHandler(publisher EventPublisher, channels realtime.Channels, logger *zap.Logger) *RealtimeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RealtimeHandler{publisher: publisher, channels: channels, logger: logger}
}

// EventTypes implements shared.EventHandler
func (h *RealtimeHandler) EventTypes() []string {
	types := make([]string, 0, len(realtimeTypes))
	for t := range realtimeTypes {
		types = append(types, t)
	}
	return types
}

// Handle implements shared.EventHandler. Publish failures are logged and
// swallowed so a Redis outage never fails the business operation.
func (h *RealtimeHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	name, ok := realtimeTypes[event.EventType()]
	if !ok {
		return nil
	}

	channel := h.channels.Dashboard(event.TenantID())
	tenantID := event.TenantID()
	if platformTypes[event.EventType()] {
		channel = h.channels.Platform()
		tenantID = uuid.Nil
	}

	msg, err := realtime.NewEvent(name, tenantID, event.OccurredAt(), event)
	if err != nil {
		h.logger.Warn("Failed to encode realtime event",
			zap.String("event_type", event.EventType()),
			zap.Error(err))
		return nil
	}
	if err := h.publisher.Publish(ctx, channel, msg); err != nil {
		h.logger.Warn("Failed to publish realtime event",
			zap.String("channel", channel),
			zap.String("event_type", name),
			zap.Error(err))
	}
	return nil
}

var _ shared.EventHandler = (*RealtimeHandler)(nil)
