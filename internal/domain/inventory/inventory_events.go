package inventory

import (
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AggregateTypeInventoryItem is the aggregate type for inventory items
const AggregateTypeInventoryItem = "InventoryItem"

// Event type constants
const (
	EventTypeStockMovementRecorded = "StockMovementRecorded"
	EventTypeLowStockDetected      = "LowStockDetected"
)

// StockMovementRecordedEvent is raised for every stock movement
type StockMovementRecordedEvent struct {
	shared.BaseDomainEvent
	ItemID        uuid.UUID       `json:"item_id"`
	ItemCode      string          `json:"item_code"`
	ItemName      string          `json:"item_name"`
	MovementID    uuid.UUID       `json:"movement_id"`
	MovementType  MovementType    `json:"movement_type"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	Unit          string          `json:"unit"`
	ReferenceType string          `json:"reference_type"`
}

// NewStockMovementRecordedEvent creates a new StockMovementRecordedEvent
func NewStockMovementRecordedEvent(item *InventoryItem, m *StockMovement) *StockMovementRecordedEvent {
	return &StockMovementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeStockMovementRecorded, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		ItemCode:        item.Code,
		ItemName:        item.Name,
		MovementID:      m.ID,
		MovementType:    m.Type,
		Quantity:        m.Quantity,
		StockAfter:      m.StockAfter,
		Unit:            item.Unit.String(),
		ReferenceType:   m.ReferenceType,
	}
}

// LowStockDetectedEvent is raised when stock drops below the minimum
type LowStockDetectedEvent struct {
	shared.BaseDomainEvent
	ItemID       uuid.UUID       `json:"item_id"`
	ItemCode     string          `json:"item_code"`
	ItemName     string          `json:"item_name"`
	CurrentStock decimal.Decimal `json:"current_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
	Unit         string          `json:"unit"`
}

// NewLowStockDetectedEvent creates a new LowStockDetectedEvent
func NewLowStockDetectedEvent(item *InventoryItem) *LowStockDetectedEvent {
	return &LowStockDetectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLowStockDetected, AggregateTypeInventoryItem, item.ID, item.TenantID),
		ItemID:          item.ID,
		ItemCode:        item.Code,
		ItemName:        item.Name,
		CurrentStock:    item.CurrentStock,
		MinStock:        item.MinStock,
		Unit:            item.Unit.String(),
	}
}
