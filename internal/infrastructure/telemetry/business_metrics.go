package telemetry

import (
	"context"
	"errors"

	"github.com/bergizi/backend/internal/domain/distribution"
	"github.com/bergizi/backend/internal/domain/feedback"
	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/production"
	"github.com/bergizi/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// ErrMeterNil is returned when business metrics are built without a meter
var ErrMeterNil = errors.New("NewBusinessMetrics: meter cannot be nil")

// BusinessMetrics turns kitchen domain events into OTel measurements:
// produced and delivered portions, stock movements, low-stock alerts and
// feedback ratings, all labelled by tenant.
type BusinessMetrics struct {
	logger *zap.Logger

	productionTransitions *Counter
	portionsProduced      *Counter
	portionsDelivered     *Counter
	stockMovements        *Counter
	lowStockAlerts        *Counter
	feedbackRating        *Histogram
}

// BusinessMetricsConfig holds configuration for business metrics
type BusinessMetricsConfig struct {
	Meter  metric.Meter
	Logger *zap.Logger
}

// NewBusinessMetrics creates the instruments on cfg.Meter
func NewBusinessMetrics(cfg BusinessMetricsConfig) (*BusinessMetrics, error) {
	if cfg.Meter == nil {
		return nil, ErrMeterNil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	bm := &BusinessMetrics{logger: logger}

	counters := []struct {
		dst              **Counter
		name, desc, unit string
	}{
		{&bm.productionTransitions, "bergizi_production_transitions_total", "Production batch stage changes", "{transitions}"},
		{&bm.portionsProduced, "bergizi_portions_produced_total", "Portions from completed production batches", "{portions}"},
		{&bm.portionsDelivered, "bergizi_portions_delivered_total", "Portions delivered to schools", "{portions}"},
		{&bm.stockMovements, "bergizi_stock_movements_total", "Inventory stock movements", "{movements}"},
		{&bm.lowStockAlerts, "bergizi_low_stock_alerts_total", "Items falling below minimum stock", "{alerts}"},
	}
	for _, c := range counters {
		counter, err := NewCounter(cfg.Meter, c.name, c.desc, c.unit)
		if err != nil {
			return nil, err
		}
		*c.dst = counter
	}

	rating, err := NewHistogram(cfg.Meter, HistogramOpts{
		Name:        "bergizi_feedback_rating",
		Description: "Feedback ratings from schools, parents and students",
		Unit:        "{stars}",
		Boundaries:  []float64{1, 2, 3, 4, 5},
	})
	if err != nil {
		return nil, err
	}
	bm.feedbackRating = rating

	return bm, nil
}

// EventTypes implements shared.EventHandler
func (bm *BusinessMetrics) EventTypes() []string {
	return []string{
		production.EventTypeProductionStatusChanged,
		distribution.EventTypeDistributionStatusChanged,
		inventory.EventTypeStockMovementRecorded,
		inventory.EventTypeLowStockDetected,
		feedback.EventTypeFeedbackSubmitted,
	}
}

// Handle implements shared.EventHandler. Recording never fails.
func (bm *BusinessMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	tenant := AttrTenantID.String(event.TenantID().String())

	switch e := event.(type) {
	case *production.ProductionStatusChangedEvent:
		bm.productionTransitions.Inc(ctx, tenant, AttrStatus.String(string(e.Status)))
		if e.Status == production.StatusCompleted {
			bm.portionsProduced.Add(ctx, int64(e.ActualPortions), tenant)
		}
	case *distribution.DistributionStatusChangedEvent:
		if e.Status == distribution.StatusDelivered {
			bm.portionsDelivered.Add(ctx, int64(e.Portions), tenant)
		}
	case *inventory.StockMovementRecordedEvent:
		bm.stockMovements.Inc(ctx, tenant, AttrMovementType.String(string(e.MovementType)))
	case *inventory.LowStockDetectedEvent:
		bm.lowStockAlerts.Inc(ctx, tenant, attribute.String("item_code", e.ItemCode))
	case *feedback.FeedbackSubmittedEvent:
		bm.feedbackRating.Record(ctx, float64(e.Rating), tenant, AttrSource.String(string(e.Source)))
	default:
		bm.logger.Debug("Business metrics ignored event", zap.String("event_type", event.EventType()))
	}
	return nil
}

var _ shared.EventHandler = (*BusinessMetrics)(nil)
