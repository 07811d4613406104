package procurement

import (
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeProcurementOrder is the aggregate type for procurement orders
const AggregateTypeProcurementOrder = "ProcurementOrder"

// Event type constants
const (
	EventTypeProcurementApproved = "ProcurementApproved"
	EventTypeProcurementReceived = "ProcurementReceived"
)

// ProcurementApprovedEvent is raised when an order is approved
type ProcurementApprovedEvent struct {
	shared.BaseDomainEvent
	OrderNumber string          `json:"order_number"`
	SupplierID  uuid.UUID       `json:"supplier_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ApprovedBy  *uuid.UUID      `json:"approved_by,omitempty"`
}

// NewProcurementApprovedEvent creates a new ProcurementApprovedEvent
func NewProcurementApprovedEvent(o *ProcurementOrder) *ProcurementApprovedEvent {
	return &ProcurementApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcurementApproved, AggregateTypeProcurementOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		SupplierID:      o.SupplierID,
		TotalAmount:     o.TotalAmount,
		ApprovedBy:      o.ApprovedBy,
	}
}

// ProcurementReceivedEvent is raised when goods arrive
type ProcurementReceivedEvent struct {
	shared.BaseDomainEvent
	OrderNumber   string          `json:"order_number"`
	SupplierID    uuid.UUID       `json:"supplier_id"`
	ItemCount     int             `json:"item_count"`
	ReceivedTotal decimal.Decimal `json:"received_total"`
}

// NewProcurementReceivedEvent creates a new ProcurementReceivedEvent
func NewProcurementReceivedEvent(o *ProcurementOrder) *ProcurementReceivedEvent {
	return &ProcurementReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProcurementReceived, AggregateTypeProcurementOrder, o.ID, o.TenantID),
		OrderNumber:     o.OrderNumber,
		SupplierID:      o.SupplierID,
		ItemCount:       len(o.Items),
		ReceivedTotal:   o.ReceivedTotal(),
	}
}
