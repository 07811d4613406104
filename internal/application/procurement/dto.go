package procurement

import (
	"time"

	"github.com/bergizi/backend/internal/domain/procurement"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	ContactName string    `json:"contact_name,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	Email       string    `json:"email,omitempty"`
	Address     string    `json:"address,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
}

// UpdateSupplierRequest represents a request to update a supplier
type UpdateSupplierRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	ContactName string `json:"contact_name" binding:"max=200"`
	Phone       string `json:"phone" binding:"max=50"`
	Email       string `json:"email" binding:"omitempty,email"`
	Address     string `json:"address"`
	IsActive    *bool  `json:"is_active"`
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	IsActive *bool  `form:"is_active"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// OrderResponse represents a procurement order in API responses
type OrderResponse struct {
	ID           uuid.UUID           `json:"id"`
	OrderNumber  string              `json:"order_number"`
	SupplierID   uuid.UUID           `json:"supplier_id"`
	OrderDate    string              `json:"order_date"`
	ExpectedDate *string             `json:"expected_date,omitempty"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Notes        string              `json:"notes,omitempty"`
	Items        []OrderItemResponse `json:"items"`
	SubmittedAt  *time.Time          `json:"submitted_at,omitempty"`
	ApprovedBy   *uuid.UUID          `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time          `json:"approved_at,omitempty"`
	ReceivedAt   *time.Time          `json:"received_at,omitempty"`
	CancelledAt  *time.Time          `json:"cancelled_at,omitempty"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	Version      int                 `json:"version"`
}

// OrderItemResponse is one line of an order
type OrderItemResponse struct {
	InventoryItemID  uuid.UUID       `json:"inventory_item_id"`
	ItemName         string          `json:"item_name"`
	Unit             string          `json:"unit"`
	Quantity         decimal.Decimal `json:"quantity"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Amount           decimal.Decimal `json:"amount"`
	ReceivedQuantity decimal.Decimal `json:"received_quantity"`
}

// OrderRequest creates or updates a draft order
type OrderRequest struct {
	SupplierID   uuid.UUID          `json:"supplier_id" binding:"required"`
	OrderDate    string             `json:"order_date" binding:"required,datetime=2006-01-02"`
	ExpectedDate string             `json:"expected_date" binding:"omitempty,datetime=2006-01-02"`
	Notes        string             `json:"notes" binding:"max=1000"`
	Items        []OrderItemRequest `json:"items" binding:"dive"`
}

// OrderItemRequest is one order line. Name and unit default to the
// inventory item's.
type OrderItemRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
}

// ReceiveRequest records the delivered quantities. Lines left out are
// received in full.
type ReceiveRequest struct {
	Lines []ReceiveLineRequest `json:"lines" binding:"dive"`
	Notes string               `json:"notes" binding:"max=500"`
}

// ReceiveLineRequest is the counted quantity of one item
type ReceiveLineRequest struct {
	InventoryItemID uuid.UUID       `json:"inventory_item_id" binding:"required"`
	Quantity        decimal.Decimal `json:"quantity"`
}

// CancelRequest carries the reason for cancelling an order
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Search     string     `form:"search"`
	Status     string     `form:"status" binding:"omitempty,oneof=draft submitted approved received cancelled"`
	SupplierID *uuid.UUID `form:"supplier_id"`
	From       *time.Time `form:"from" time_format:"2006-01-02"`
	To         *time.Time `form:"to" time_format:"2006-01-02"`
	Page       int        `form:"page" binding:"omitempty,min=1"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string     `form:"order_by"`
	OrderDir   string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToSupplierResponse converts a domain supplier to a response
func ToSupplierResponse(s *procurement.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:          s.ID,
		Code:        s.Code,
		Name:        s.Name,
		ContactName: s.ContactName,
		Phone:       s.Phone,
		Email:       s.Email,
		Address:     s.Address,
		IsActive:    s.IsActive,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// ToOrderResponse converts a domain order to a response
func ToOrderResponse(o *procurement.ProcurementOrder) OrderResponse {
	resp := OrderResponse{
		ID:           o.ID,
		OrderNumber:  o.OrderNumber,
		SupplierID:   o.SupplierID,
		OrderDate:    o.OrderDate.Format(time.DateOnly),
		Status:       string(o.Status),
		TotalAmount:  o.TotalAmount,
		Notes:        o.Notes,
		Items:        make([]OrderItemResponse, len(o.Items)),
		SubmittedAt:  o.SubmittedAt,
		ApprovedBy:   o.ApprovedBy,
		ApprovedAt:   o.ApprovedAt,
		ReceivedAt:   o.ReceivedAt,
		CancelledAt:  o.CancelledAt,
		CancelReason: o.CancelReason,
		CreatedAt:    o.CreatedAt,
		Version:      o.Version,
	}
	if o.ExpectedDate != nil {
		d := o.ExpectedDate.Format(time.DateOnly)
		resp.ExpectedDate = &d
	}
	for i, item := range o.Items {
		resp.Items[i] = OrderItemResponse{
			InventoryItemID:  item.InventoryItemID,
			ItemName:         item.ItemName,
			Unit:             item.Unit,
			Quantity:         item.Quantity,
			UnitPrice:        item.UnitPrice,
			Amount:           item.Amount,
			ReceivedQuantity: item.ReceivedQuantity,
		}
	}
	return resp
}
