package distribution

import (
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeDistribution is the aggregate type for distributions
const AggregateTypeDistribution = "Distribution"

// EventTypeDistributionStatusChanged is raised on every stage change
const EventTypeDistributionStatusChanged = "DistributionStatusChanged"

// DistributionStatusChangedEvent carries the delivery's new stage
type DistributionStatusChangedEvent struct {
	shared.BaseDomainEvent
	DistributionNumber string     `json:"distribution_number"`
	SchoolID           uuid.UUID  `json:"school_id"`
	FromStatus         Status     `json:"from_status"`
	Status             Status     `json:"status"`
	Portions           int        `json:"portions"`
	DriverName         string     `json:"driver_name,omitempty"`
	RecipientName      string     `json:"recipient_name,omitempty"`
	DeliveredAt        *time.Time `json:"delivered_at,omitempty"`
}

// NewDistributionStatusChangedEvent creates a new DistributionStatusChangedEvent
func NewDistributionStatusChangedEvent(d *Distribution, from Status) *DistributionStatusChangedEvent {
	return &DistributionStatusChangedEvent{
		BaseDomainEvent:    shared.NewBaseDomainEvent(EventTypeDistributionStatusChanged, AggregateTypeDistribution, d.ID, d.TenantID),
		DistributionNumber: d.DistributionNumber,
		SchoolID:           d.SchoolID,
		FromStatus:         from,
		Status:             d.Status,
		Portions:           d.Portions,
		DriverName:         d.DriverName,
		RecipientName:      d.RecipientName,
		DeliveredAt:        d.DeliveredAt,
	}
}
