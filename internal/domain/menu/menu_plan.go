package menu

import (
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// PlanStatus is the approval state of a menu plan
type PlanStatus string

const (
	PlanStatusDraft    PlanStatus = "draft"
	PlanStatusApproved PlanStatus = "approved"
)

// MenuPlan schedules a menu on a date, optionally for one school
type MenuPlan struct {
	shared.TenantAggregateRoot
	PlanDate        time.Time  `gorm:"type:date;not null;index"`
	MenuID          uuid.UUID  `gorm:"type:uuid;not null;index"`
	SchoolID        *uuid.UUID `gorm:"type:uuid"`
	PlannedPortions int        `gorm:"not null"`
	Status          PlanStatus `gorm:"type:varchar(20);not null;default:'draft'"`
	Notes           string     `gorm:"type:text"`
	ApprovedBy      *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt      *time.Time
}

// TableName returns the table name for GORM
func (MenuPlan) TableName() string {
	return "menu_plans"
}

// NewMenuPlan creates a draft plan
func NewMenuPlan(tenantID uuid.UUID, date time.Time, menuID uuid.UUID, schoolID *uuid.UUID, portions int) (*MenuPlan, error) {
	p := &MenuPlan{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Status:              PlanStatusDraft,
	}
	if err := p.apply(date, menuID, schoolID, portions); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes a draft plan
func (p *MenuPlan) Update(date time.Time, menuID uuid.UUID, schoolID *uuid.UUID, portions int, notes string) error {
	if p.Status != PlanStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft plans can be changed")
	}
	if err := p.apply(date, menuID, schoolID, portions); err != nil {
		return err
	}
	p.Notes = notes
	p.Touch()
	p.IncrementVersion()
	return nil
}

// Approve locks the plan for production
func (p *MenuPlan) Approve(by uuid.UUID, at time.Time) error {
	if p.Status != PlanStatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Plan is already approved")
	}
	p.Status = PlanStatusApproved
	p.ApprovedBy = &by
	p.ApprovedAt = &at
	p.Touch()
	p.IncrementVersion()
	return nil
}

// IsApproved reports whether the plan has been approved
func (p *MenuPlan) IsApproved() bool {
	return p.Status == PlanStatusApproved
}

func (p *MenuPlan) apply(date time.Time, menuID uuid.UUID, schoolID *uuid.UUID, portions int) error {
	if date.IsZero() {
		return shared.NewDomainError("INVALID_DATE", "Plan date is required")
	}
	if menuID == uuid.Nil {
		return shared.NewDomainError("INVALID_MENU", "Menu is required")
	}
	if portions <= 0 {
		return shared.NewDomainError("INVALID_PORTIONS", "Planned portions must be positive")
	}
	y, m, d := date.Date()
	p.PlanDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	p.MenuID = menuID
	p.SchoolID = schoolID
	p.PlannedPortions = portions
	return nil
}
