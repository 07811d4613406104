package procurement

import (
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the lifecycle state of a procurement order
type OrderStatus string

const (
	OrderStatusDraft     OrderStatus = "draft"
	OrderStatusSubmitted OrderStatus = "submitted"
	OrderStatusApproved  OrderStatus = "approved"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is a known status
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved, OrderStatusReceived, OrderStatusCancelled:
		return true
	}
	return false
}

// ProcurementOrder is a purchase of ingredients from one supplier.
// Lifecycle: draft -> submitted -> approved -> received, with cancel
// allowed until received.
type ProcurementOrder struct {
	shared.TenantAggregateRoot
	OrderNumber  string          `gorm:"type:varchar(50);not null;index"`
	SupplierID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	OrderDate    time.Time       `gorm:"type:date;not null"`
	ExpectedDate *time.Time      `gorm:"type:date"`
	Status       OrderStatus     `gorm:"type:varchar(20);not null;default:'draft';index"`
	TotalAmount  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Notes        string          `gorm:"type:text"`
	Items        []OrderItem     `gorm:"foreignKey:OrderID;references:ID"`
	SubmittedAt  *time.Time
	ApprovedBy   *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ProcurementOrder) TableName() string {
	return "procurement_orders"
}

// OrderItem is a line of a procurement order
type OrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	InventoryItemID  uuid.UUID       `gorm:"type:uuid;not null"`
	ItemName         string          `gorm:"type:varchar(200);not null"`
	Unit             string          `gorm:"type:varchar(10);not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Amount           decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	ReceivedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (OrderItem) TableName() string {
	return "procurement_order_items"
}

// OrderItemInput describes a line to put on an order
type OrderItemInput struct {
	InventoryItemID uuid.UUID
	ItemName        string
	Unit            string
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
}

// ReceiveLine is the counted quantity for an inventory item at delivery
type ReceiveLine struct {
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
}

// ReceivedStock is the stock to book in for one line after receiving
type ReceivedStock struct {
	InventoryItemID uuid.UUID
	Quantity        decimal.Decimal
	UnitPrice       decimal.Decimal
}

// NewProcurementOrder creates an empty draft order
func NewProcurementOrder(tenantID uuid.UUID, orderNumber string, supplierID uuid.UUID, orderDate time.Time) (*ProcurementOrder, error) {
	orderNumber = strings.TrimSpace(orderNumber)
	if orderNumber == "" {
		return nil, shared.NewDomainError("INVALID_ORDER_NUMBER", "Order number cannot be empty")
	}
	o := &ProcurementOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		OrderNumber:         orderNumber,
		Status:              OrderStatusDraft,
		TotalAmount:         decimal.Zero,
		Items:               make([]OrderItem, 0),
	}
	if err := o.setHeader(supplierID, orderDate, nil); err != nil {
		return nil, err
	}
	return o, nil
}

// UpdateHeader changes supplier, dates and notes of a draft order
func (o *ProcurementOrder) UpdateHeader(supplierID uuid.UUID, orderDate time.Time, expectedDate *time.Time, notes string) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be changed")
	}
	if err := o.setHeader(supplierID, orderDate, expectedDate); err != nil {
		return err
	}
	o.Notes = strings.TrimSpace(notes)
	o.Touch()
	o.IncrementVersion()
	return nil
}

// SetItems replaces the order lines of a draft order and recomputes the total
func (o *ProcurementOrder) SetItems(inputs []OrderItemInput) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be changed")
	}
	seen := make(map[uuid.UUID]bool, len(inputs))
	items := make([]OrderItem, 0, len(inputs))
	total := decimal.Zero
	for _, in := range inputs {
		if in.InventoryItemID == uuid.Nil {
			return shared.NewDomainError("INVALID_ITEM", "Order line must reference an inventory item")
		}
		if seen[in.InventoryItemID] {
			return shared.NewDomainError("DUPLICATE_ITEM", "Inventory item appears more than once")
		}
		seen[in.InventoryItemID] = true
		if !in.Quantity.IsPositive() {
			return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
		}
		if in.UnitPrice.IsNegative() {
			return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		amount := in.Quantity.Mul(in.UnitPrice).Round(2)
		total = total.Add(amount)
		items = append(items, OrderItem{
			ID:               uuid.New(),
			OrderID:          o.ID,
			InventoryItemID:  in.InventoryItemID,
			ItemName:         strings.TrimSpace(in.ItemName),
			Unit:             in.Unit,
			Quantity:         in.Quantity,
			UnitPrice:        in.UnitPrice,
			Amount:           amount,
			ReceivedQuantity: decimal.Zero,
		})
	}
	o.Items = items
	o.TotalAmount = total
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Submit sends a draft order for approval
func (o *ProcurementOrder) Submit(at time.Time) error {
	if o.Status != OrderStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be submitted")
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("EMPTY_ORDER", "Order must have at least one item")
	}
	o.Status = OrderStatusSubmitted
	o.SubmittedAt = &at
	o.Touch()
	o.IncrementVersion()
	return nil
}

// Approve authorizes a submitted order
func (o *ProcurementOrder) Approve(by uuid.UUID, at time.Time) error {
	if o.Status != OrderStatusSubmitted {
		return shared.NewDomainError("INVALID_STATE", "Only submitted orders can be approved")
	}
	o.Status = OrderStatusApproved
	o.ApprovedBy = &by
	o.ApprovedAt = &at
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewProcurementApprovedEvent(o))
	return nil
}

// Receive records the delivery of an approved order. Lines not listed are
// received in full; received quantities are capped at the ordered quantity.
// It returns the stock to book into inventory.
func (o *ProcurementOrder) Receive(lines []ReceiveLine, at time.Time) ([]ReceivedStock, error) {
	if o.Status != OrderStatusApproved {
		return nil, shared.NewDomainError("INVALID_STATE", "Only approved orders can be received")
	}
	counted := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		if l.Quantity.IsNegative() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be negative")
		}
		if o.findItem(l.InventoryItemID) == nil {
			return nil, shared.NewDomainError("ITEM_NOT_IN_ORDER", "Received item is not on the order")
		}
		counted[l.InventoryItemID] = l.Quantity
	}

	stock := make([]ReceivedStock, 0, len(o.Items))
	for i := range o.Items {
		item := &o.Items[i]
		qty, ok := counted[item.InventoryItemID]
		if !ok {
			qty = item.Quantity
		}
		if qty.GreaterThan(item.Quantity) {
			qty = item.Quantity
		}
		item.ReceivedQuantity = qty
		if qty.IsPositive() {
			stock = append(stock, ReceivedStock{InventoryItemID: item.InventoryItemID, Quantity: qty, UnitPrice: item.UnitPrice})
		}
	}

	o.Status = OrderStatusReceived
	o.ReceivedAt = &at
	o.Touch()
	o.IncrementVersion()
	o.AddDomainEvent(NewProcurementReceivedEvent(o))
	return stock, nil
}

// Cancel abandons an order that has not been received
func (o *ProcurementOrder) Cancel(reason string, at time.Time) error {
	switch o.Status {
	case OrderStatusDraft, OrderStatusSubmitted, OrderStatusApproved:
	default:
		return shared.NewDomainError("INVALID_STATE", "Order can no longer be cancelled")
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	o.Status = OrderStatusCancelled
	o.CancelReason = reason
	o.CancelledAt = &at
	o.Touch()
	o.IncrementVersion()
	return nil
}

// ReceivedTotal returns the value of the received quantities
func (o *ProcurementOrder) ReceivedTotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.ReceivedQuantity.Mul(item.UnitPrice))
	}
	return total.Round(2)
}

func (o *ProcurementOrder) findItem(inventoryItemID uuid.UUID) *OrderItem {
	for i := range o.Items {
		if o.Items[i].InventoryItemID == inventoryItemID {
			return &o.Items[i]
		}
	}
	return nil
}

func (o *ProcurementOrder) setHeader(supplierID uuid.UUID, orderDate time.Time, expectedDate *time.Time) error {
	if supplierID == uuid.Nil {
		return shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if orderDate.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Order date is required")
	}
	if expectedDate != nil && expectedDate.Before(orderDate) {
		return shared.NewDomainError("INVALID_DATE", "Expected date cannot be before order date")
	}
	o.SupplierID = supplierID
	o.OrderDate = orderDate
	o.ExpectedDate = expectedDate
	return nil
}
