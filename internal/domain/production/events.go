package production

import (
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// AggregateTypeProduction is the aggregate type for production batches
const AggregateTypeProduction = "Production"

// EventTypeProductionStatusChanged is raised on every stage change
const EventTypeProductionStatusChanged = "ProductionStatusChanged"

// ProductionStatusChangedEvent carries the batch's new stage and portions
type ProductionStatusChangedEvent struct {
	shared.BaseDomainEvent
	BatchNumber     string    `json:"batch_number"`
	MenuID          uuid.UUID `json:"menu_id"`
	FromStatus      Status    `json:"from_status"`
	Status          Status    `json:"status"`
	PlannedPortions int       `json:"planned_portions"`
	ActualPortions  int       `json:"actual_portions"`
	QCPassed        *bool     `json:"qc_passed,omitempty"`
}

// NewProductionStatusChangedEvent creates a new ProductionStatusChangedEvent
func NewProductionStatusChangedEvent(p *Production, from Status) *ProductionStatusChangedEvent {
	return &ProductionStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionStatusChanged, AggregateTypeProduction, p.ID, p.TenantID),
		BatchNumber:     p.BatchNumber,
		MenuID:          p.MenuID,
		FromStatus:      from,
		Status:          p.Status,
		PlannedPortions: p.PlannedPortions,
		ActualPortions:  p.ActualPortions,
		QCPassed:        p.QCPassed,
	}
}
