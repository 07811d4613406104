package distribution

import (
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the delivery stage of a distribution
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusPreparing Status = "preparing"
	StatusInTransit Status = "in_transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusScheduled, StatusPreparing, StatusInTransit, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// IsActive reports whether the delivery is still under way
func (s Status) IsActive() bool {
	return s == StatusScheduled || s == StatusPreparing || s == StatusInTransit
}

// Distribution delivers portions of a production batch to a school
type Distribution struct {
	shared.TenantAggregateRoot
	DistributionNumber string     `gorm:"type:varchar(50);not null;index"`
	ProductionID       *uuid.UUID `gorm:"type:uuid;index"`
	SchoolID           uuid.UUID  `gorm:"type:uuid;not null;index"`
	ScheduledDate      time.Time  `gorm:"type:date;not null;index"`
	Portions           int        `gorm:"not null"`
	Status             Status     `gorm:"type:varchar(20);not null;default:'scheduled';index"`
	DriverName         string     `gorm:"type:varchar(200)"`
	VehiclePlate       string     `gorm:"type:varchar(20)"`
	RecipientName      string     `gorm:"type:varchar(200)"`
	ProofPhotoKey      string     `gorm:"type:varchar(500)"`
	Notes              string     `gorm:"type:text"`
	CancelReason       string     `gorm:"type:varchar(500)"`
	DepartedAt         *time.Time
	DeliveredAt        *time.Time
	CancelledAt        *time.Time
}

// TableName returns the table name for GORM
func (Distribution) TableName() string {
	return "distributions"
}

// NewDistribution schedules a delivery
func NewDistribution(tenantID uuid.UUID, number string, schoolID uuid.UUID, productionID *uuid.UUID, date time.Time, portions int) (*Distribution, error) {
	number = strings.TrimSpace(number)
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Distribution number cannot be empty")
	}
	if schoolID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SCHOOL", "School is required")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Scheduled date is required")
	}
	if portions <= 0 {
		return nil, shared.NewDomainError("INVALID_PORTIONS", "Portions must be positive")
	}
	y, m, d := date.Date()
	return &Distribution{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		DistributionNumber:  number,
		ProductionID:        productionID,
		SchoolID:            schoolID,
		ScheduledDate:       time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Portions:            portions,
		Status:              StatusScheduled,
	}, nil
}

// Prepare starts packing the delivery
func (d *Distribution) Prepare() error {
	if d.Status != StatusScheduled {
		return d.invalidTransition(StatusPreparing)
	}
	d.transition(StatusPreparing)
	return nil
}

// Depart records the vehicle leaving the kitchen
func (d *Distribution) Depart(driverName, vehiclePlate string, at time.Time) error {
	if d.Status != StatusPreparing {
		return d.invalidTransition(StatusInTransit)
	}
	driverName = strings.TrimSpace(driverName)
	if driverName == "" {
		return shared.NewDomainError("INVALID_DRIVER", "Driver name is required")
	}
	d.DriverName = driverName
	d.VehiclePlate = strings.ToUpper(strings.TrimSpace(vehiclePlate))
	d.DepartedAt = &at
	d.transition(StatusInTransit)
	return nil
}

// Deliver records the hand-over at the school
func (d *Distribution) Deliver(recipientName, notes string, at time.Time) error {
	if d.Status != StatusInTransit {
		return d.invalidTransition(StatusDelivered)
	}
	recipientName = strings.TrimSpace(recipientName)
	if recipientName == "" {
		return shared.NewDomainError("INVALID_RECIPIENT", "Recipient name is required")
	}
	d.RecipientName = recipientName
	if notes = strings.TrimSpace(notes); notes != "" {
		d.Notes = notes
	}
	d.DeliveredAt = &at
	d.transition(StatusDelivered)
	return nil
}

// Cancel calls off a delivery that has not been delivered
func (d *Distribution) Cancel(reason string, at time.Time) error {
	if !d.Status.IsActive() {
		return d.invalidTransition(StatusCancelled)
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	d.CancelReason = reason
	d.CancelledAt = &at
	d.transition(StatusCancelled)
	return nil
}

// AttachProof stores the object key of the delivery photo
func (d *Distribution) AttachProof(objectKey string) error {
	if d.Status == StatusCancelled {
		return shared.NewDomainError("INVALID_STATE", "Cannot attach proof to a cancelled distribution")
	}
	if strings.TrimSpace(objectKey) == "" {
		return shared.NewDomainError("INVALID_PROOF", "Proof object key is required")
	}
	d.ProofPhotoKey = objectKey
	d.Touch()
	d.IncrementVersion()
	return nil
}

func (d *Distribution) transition(to Status) {
	from := d.Status
	d.Status = to
	d.Touch()
	d.IncrementVersion()
	d.AddDomainEvent(NewDistributionStatusChangedEvent(d, from))
}

func (d *Distribution) invalidTransition(to Status) error {
	return shared.NewDomainError("INVALID_STATE",
		"Cannot move distribution "+d.DistributionNumber+" from "+string(d.Status)+" to "+string(to))
}
