package production

import (
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status is the kitchen stage of a production batch
type Status string

const (
	StatusPlanned      Status = "planned"
	StatusPreparing    Status = "preparing"
	StatusCooking      Status = "cooking"
	StatusQualityCheck Status = "quality_check"
	StatusCompleted    Status = "completed"
	StatusCancelled    Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPlanned, StatusPreparing, StatusCooking, StatusQualityCheck, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Production is one cooking batch of a menu for a day
type Production struct {
	shared.TenantAggregateRoot
	BatchNumber      string              `gorm:"type:varchar(50);not null;index"`
	ProductionDate   time.Time           `gorm:"type:date;not null;index"`
	MenuID           uuid.UUID           `gorm:"type:uuid;not null"`
	MenuPlanID       *uuid.UUID          `gorm:"type:uuid"`
	PlannedPortions  int                 `gorm:"not null"`
	ActualPortions   int                 `gorm:"not null;default:0"`
	Status           Status              `gorm:"type:varchar(20);not null;default:'planned';index"`
	HeadCook         string              `gorm:"type:varchar(200)"`
	QCPassed         *bool               `gorm:"column:qc_passed"`
	QCTemperature    decimal.NullDecimal `gorm:"column:qc_temperature;type:decimal(5,2)"`
	QCNotes          string              `gorm:"column:qc_notes;type:text"`
	QCCheckedBy      *uuid.UUID          `gorm:"column:qc_checked_by;type:uuid"`
	Notes            string              `gorm:"type:text"`
	CancelReason     string              `gorm:"type:varchar(500)"`
	StartedAt        *time.Time
	CookingStartedAt *time.Time
	QCCheckedAt      *time.Time `gorm:"column:qc_checked_at"`
	CompletedAt      *time.Time
	CancelledAt      *time.Time
}

// TableName returns the table name for GORM
func (Production) TableName() string {
	return "productions"
}

// NewProduction creates a planned batch
func NewProduction(tenantID uuid.UUID, batchNumber string, date time.Time, menuID uuid.UUID, plannedPortions int) (*Production, error) {
	batchNumber = strings.TrimSpace(batchNumber)
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Production date is required")
	}
	if menuID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_MENU", "Menu is required")
	}
	if plannedPortions <= 0 {
		return nil, shared.NewDomainError("INVALID_PORTIONS", "Planned portions must be positive")
	}
	y, m, d := date.Date()
	return &Production{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BatchNumber:         batchNumber,
		ProductionDate:      time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		MenuID:              menuID,
		PlannedPortions:     plannedPortions,
		Status:              StatusPlanned,
	}, nil
}

// StartPreparation moves a planned batch into preparation. Ingredients are
// consumed from inventory at this point.
func (p *Production) StartPreparation(headCook string, at time.Time) error {
	if p.Status != StatusPlanned {
		return p.invalidTransition(StatusPreparing)
	}
	p.HeadCook = strings.TrimSpace(headCook)
	p.StartedAt = &at
	p.transition(StatusPreparing)
	return nil
}

// StartCooking moves a preparing batch onto the stove
func (p *Production) StartCooking(at time.Time) error {
	if p.Status != StatusPreparing {
		return p.invalidTransition(StatusCooking)
	}
	p.CookingStartedAt = &at
	p.transition(StatusCooking)
	return nil
}

// SubmitQualityCheck records a QC result for a cooked batch. A passed check
// moves the batch to quality_check; a failed one keeps it cooking.
func (p *Production) SubmitQualityCheck(passed bool, temperature *decimal.Decimal, notes string, by uuid.UUID, at time.Time) error {
	if p.Status != StatusCooking {
		return p.invalidTransition(StatusQualityCheck)
	}
	p.QCPassed = &passed
	p.QCTemperature = decimal.NullDecimal{}
	if temperature != nil {
		p.QCTemperature = decimal.NewNullDecimal(*temperature)
	}
	p.QCNotes = strings.TrimSpace(notes)
	p.QCCheckedBy = &by
	p.QCCheckedAt = &at

	if passed {
		p.transition(StatusQualityCheck)
		return nil
	}
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductionStatusChangedEvent(p, StatusCooking))
	return nil
}

// Complete finishes a batch that passed QC
func (p *Production) Complete(actualPortions int, at time.Time) error {
	if p.Status != StatusQualityCheck {
		return p.invalidTransition(StatusCompleted)
	}
	if p.QCPassed == nil || !*p.QCPassed {
		return shared.NewDomainError("QC_NOT_PASSED", "Quality check must pass before completion")
	}
	if actualPortions < 0 {
		return shared.NewDomainError("INVALID_PORTIONS", "Actual portions cannot be negative")
	}
	p.ActualPortions = actualPortions
	p.CompletedAt = &at
	p.transition(StatusCompleted)
	return nil
}

// Cancel stops a batch that has not completed
func (p *Production) Cancel(reason string, at time.Time) error {
	if p.Status.IsTerminal() {
		return p.invalidTransition(StatusCancelled)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	p.CancelReason = reason
	p.CancelledAt = &at
	p.transition(StatusCancelled)
	return nil
}

// Yield returns actual over planned portions as a percentage
func (p *Production) Yield() decimal.Decimal {
	if p.PlannedPortions == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(p.ActualPortions)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(p.PlannedPortions))).
		Round(2)
}

func (p *Production) transition(to Status) {
	from := p.Status
	p.Status = to
	p.Touch()
	p.IncrementVersion()
	p.AddDomainEvent(NewProductionStatusChangedEvent(p, from))
}

func (p *Production) invalidTransition(to Status) error {
	return shared.NewDomainError("INVALID_STATE",
		"Cannot move production "+p.BatchNumber+" from "+string(p.Status)+" to "+string(to))
}
