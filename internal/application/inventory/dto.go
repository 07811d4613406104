package inventory

import (
	"time"

	"github.com/bergizi/backend/internal/domain/inventory"
	"github.com/bergizi/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemResponse represents an inventory item in API responses
type ItemResponse struct {
	ID           uuid.UUID             `json:"id"`
	TenantID     uuid.UUID             `json:"tenant_id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	Category     string                `json:"category"`
	Unit         string                `json:"unit"`
	CurrentStock decimal.Decimal       `json:"current_stock"`
	MinStock     decimal.Decimal       `json:"min_stock"`
	CostPerUnit  decimal.Decimal       `json:"cost_per_unit"`
	StockValue   decimal.Decimal       `json:"stock_value"`
	Nutrition    valueobject.Nutrients `json:"nutrition_per_100g"`
	Density      decimal.Decimal       `json:"density"`
	UnitWeight   decimal.Decimal       `json:"unit_weight"`
	IsActive     bool                  `json:"is_active"`
	IsLowStock   bool                  `json:"is_low_stock"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
	Version      int                   `json:"version"`
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	ItemID        uuid.UUID       `json:"item_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	StockBefore   decimal.Decimal `json:"stock_before"`
	StockAfter    decimal.Decimal `json:"stock_after"`
	ReferenceType string          `json:"reference_type"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	ActorID       *uuid.UUID      `json:"actor_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// CreateItemRequest represents a request to create an inventory item
type CreateItemRequest struct {
	Code        string                 `json:"code" binding:"required,max=50"`
	Name        string                 `json:"name" binding:"required,max=200"`
	Category    string                 `json:"category" binding:"required,oneof=protein carbohydrate vegetable fruit dairy spice oil other"`
	Unit        string                 `json:"unit" binding:"required,oneof=g kg mg ml l pcs"`
	MinStock    decimal.Decimal        `json:"min_stock"`
	CostPerUnit decimal.Decimal        `json:"cost_per_unit"`
	Nutrition   *valueobject.Nutrients `json:"nutrition_per_100g"`
	Density     decimal.Decimal        `json:"density"`
	UnitWeight  decimal.Decimal        `json:"unit_weight"`
}

// UpdateItemRequest represents a request to update an inventory item
type UpdateItemRequest struct {
	Name        string                 `json:"name" binding:"required,max=200"`
	Category    string                 `json:"category" binding:"required,oneof=protein carbohydrate vegetable fruit dairy spice oil other"`
	Unit        string                 `json:"unit" binding:"required,oneof=g kg mg ml l pcs"`
	MinStock    decimal.Decimal        `json:"min_stock"`
	CostPerUnit decimal.Decimal        `json:"cost_per_unit"`
	Nutrition   *valueobject.Nutrients `json:"nutrition_per_100g"`
	Density     decimal.Decimal        `json:"density"`
	UnitWeight  decimal.Decimal        `json:"unit_weight"`
	IsActive    *bool                  `json:"is_active"`
}

// StockRequest represents a stock in or stock out
type StockRequest struct {
	Quantity      decimal.Decimal `json:"quantity" binding:"required"`
	ReferenceType string          `json:"reference_type" binding:"omitempty,max=30"`
	ReferenceID   *uuid.UUID      `json:"reference_id"`
	Notes         string          `json:"notes" binding:"max=500"`
}

// AdjustRequest sets the stock to a counted value
type AdjustRequest struct {
	CountedStock decimal.Decimal `json:"counted_stock"`
	Notes        string          `json:"notes" binding:"required,max=500"`
}

// ItemListFilter represents filter options for the item list
type ItemListFilter struct {
	Search   string `form:"search"`
	Category string `form:"category"`
	IsActive *bool  `form:"is_active"`
	LowStock bool   `form:"low_stock"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// MovementListFilter represents filter options for the movement ledger
type MovementListFilter struct {
	ItemID   *uuid.UUID `form:"item_id"`
	Type     string     `form:"type" binding:"omitempty,oneof=in out adjustment"`
	From     *time.Time `form:"from" time_format:"2006-01-02"`
	To       *time.Time `form:"to" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ToItemResponse converts a domain item to a response
func ToItemResponse(item *inventory.InventoryItem) ItemResponse {
	return ItemResponse{
		ID:           item.ID,
		TenantID:     item.TenantID,
		Code:         item.Code,
		Name:         item.Name,
		Category:     string(item.Category),
		Unit:         item.Unit.String(),
		CurrentStock: item.CurrentStock,
		MinStock:     item.MinStock,
		CostPerUnit:  item.CostPerUnit,
		StockValue:   item.CurrentStock.Mul(item.CostPerUnit).Round(2),
		Nutrition:    item.Nutrition,
		Density:      item.Density,
		UnitWeight:   item.UnitWeight,
		IsActive:     item.IsActive,
		IsLowStock:   item.IsLowStock(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
		Version:      item.Version,
	}
}

// ToItemResponses converts a slice of items
func ToItemResponses(items []inventory.InventoryItem) []ItemResponse {
	out := make([]ItemResponse, len(items))
	for i := range items {
		out[i] = ToItemResponse(&items[i])
	}
	return out
}

// ToMovementResponse converts a domain movement to a response
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		ItemID:        m.ItemID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		StockBefore:   m.StockBefore,
		StockAfter:    m.StockAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Notes:         m.Notes,
		ActorID:       m.ActorID,
		CreatedAt:     m.CreatedAt,
	}
}
