package inventory

import (
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementIn         MovementType = "in"
	MovementOut        MovementType = "out"
	MovementAdjustment MovementType = "adjustment"
)

// Reference types recorded on movements
const (
	ReferenceManual      = "manual"
	ReferenceProcurement = "procurement"
	ReferenceProduction  = "production"
	ReferenceStockCount  = "stock_count"
)

// MovementReference identifies what caused a movement and who did it
type MovementReference struct {
	Type    string
	ID      *uuid.UUID
	Notes   string
	ActorID *uuid.UUID
}

// StockMovement is an immutable ledger row for one change of stock
type StockMovement struct {
	shared.BaseEntity
	TenantID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ItemID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	Type          MovementType    `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockBefore   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	StockAfter    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReferenceType string          `gorm:"type:varchar(30);not null;default:'manual'"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Notes         string          `gorm:"type:text"`
	ActorID       *uuid.UUID      `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

func newStockMovement(item *InventoryItem, typ MovementType, quantity, before, after decimal.Decimal, ref MovementReference) *StockMovement {
	refType := strings.TrimSpace(ref.Type)
	if refType == "" {
		refType = ReferenceManual
	}
	return &StockMovement{
		BaseEntity:    shared.NewBaseEntity(),
		TenantID:      item.TenantID,
		ItemID:        item.ID,
		Type:          typ,
		Quantity:      quantity,
		StockBefore:   before,
		StockAfter:    after,
		ReferenceType: refType,
		ReferenceID:   ref.ID,
		Notes:         ref.Notes,
		ActorID:       ref.ActorID,
	}
}

// Delta returns the signed change in stock
func (m *StockMovement) Delta() decimal.Decimal {
	return m.StockAfter.Sub(m.StockBefore)
}

// MovementFilter narrows a movement listing
type MovementFilter struct {
	ItemID *uuid.UUID
	Type   MovementType
	From   *time.Time
	To     *time.Time
}
