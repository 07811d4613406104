package production

import (
	"time"

	"github.com/bergizi/backend/internal/domain/production"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductionResponse represents a production batch in API responses
type ProductionResponse struct {
	ID               uuid.UUID        `json:"id"`
	BatchNumber      string           `json:"batch_number"`
	ProductionDate   string           `json:"production_date"`
	MenuID           uuid.UUID        `json:"menu_id"`
	MenuPlanID       *uuid.UUID       `json:"menu_plan_id,omitempty"`
	PlannedPortions  int              `json:"planned_portions"`
	ActualPortions   int              `json:"actual_portions"`
	Yield            decimal.Decimal  `json:"yield_percent"`
	Status           string           `json:"status"`
	HeadCook         string           `json:"head_cook,omitempty"`
	QCPassed         *bool            `json:"qc_passed,omitempty"`
	QCTemperature    *decimal.Decimal `json:"qc_temperature,omitempty"`
	QCNotes          string           `json:"qc_notes,omitempty"`
	QCCheckedBy      *uuid.UUID       `json:"qc_checked_by,omitempty"`
	Notes            string           `json:"notes,omitempty"`
	CancelReason     string           `json:"cancel_reason,omitempty"`
	StartedAt        *time.Time       `json:"started_at,omitempty"`
	CookingStartedAt *time.Time       `json:"cooking_started_at,omitempty"`
	QCCheckedAt      *time.Time       `json:"qc_checked_at,omitempty"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	CancelledAt      *time.Time       `json:"cancelled_at,omitempty"`
	CreatedAt        time.Time        `json:"created_at"`
	Version          int              `json:"version"`
}

// CreateProductionRequest plans a batch. With a menu plan, the menu and
// portions default to the plan's.
type CreateProductionRequest struct {
	ProductionDate  string     `json:"production_date" binding:"required,datetime=2006-01-02"`
	MenuID          uuid.UUID  `json:"menu_id"`
	MenuPlanID      *uuid.UUID `json:"menu_plan_id"`
	PlannedPortions int        `json:"planned_portions" binding:"omitempty,min=1"`
	Notes           string     `json:"notes" binding:"max=1000"`
}

// StartRequest starts preparation
type StartRequest struct {
	HeadCook string `json:"head_cook" binding:"required,max=200"`
}

// QualityCheckRequest records a QC result
type QualityCheckRequest struct {
	Passed      *bool            `json:"passed" binding:"required"`
	Temperature *decimal.Decimal `json:"temperature"`
	Notes       string           `json:"notes" binding:"max=1000"`
}

// CompleteRequest finishes a batch
type CompleteRequest struct {
	ActualPortions int `json:"actual_portions" binding:"min=0"`
}

// CancelRequest carries the reason for cancelling a batch
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// ProductionListFilter represents filter options for the production list
type ProductionListFilter struct {
	Search   string     `form:"search"`
	Status   string     `form:"status" binding:"omitempty,oneof=planned preparing cooking quality_check completed cancelled"`
	MenuID   *uuid.UUID `form:"menu_id"`
	Date     *time.Time `form:"date" time_format:"2006-01-02"`
	Page     int        `form:"page" binding:"omitempty,min=1"`
	PageSize int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string     `form:"order_by"`
	OrderDir string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// ToProductionResponse converts a domain batch to a response
func ToProductionResponse(p *production.Production) ProductionResponse {
	resp := ProductionResponse{
		ID:               p.ID,
		BatchNumber:      p.BatchNumber,
		ProductionDate:   p.ProductionDate.Format(time.DateOnly),
		MenuID:           p.MenuID,
		MenuPlanID:       p.MenuPlanID,
		PlannedPortions:  p.PlannedPortions,
		ActualPortions:   p.ActualPortions,
		Yield:            p.Yield(),
		Status:           string(p.Status),
		HeadCook:         p.HeadCook,
		QCPassed:         p.QCPassed,
		QCNotes:          p.QCNotes,
		QCCheckedBy:      p.QCCheckedBy,
		Notes:            p.Notes,
		CancelReason:     p.CancelReason,
		StartedAt:        p.StartedAt,
		CookingStartedAt: p.CookingStartedAt,
		QCCheckedAt:      p.QCCheckedAt,
		CompletedAt:      p.CompletedAt,
		CancelledAt:      p.CancelledAt,
		CreatedAt:        p.CreatedAt,
		Version:          p.Version,
	}
	if p.QCTemperature.Valid {
		t := p.QCTemperature.Decimal
		resp.QCTemperature = &t
	}
	return resp
}
