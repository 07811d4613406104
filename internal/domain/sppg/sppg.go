package sppg

import (
	"regexp"
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status is the lifecycle state of an SPPG
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

// IsValid reports whether s is a known status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusActive, StatusSuspended:
		return true
	}
	return false
}

// Plan is the subscription tier of an SPPG
type Plan string

const (
	PlanDemo  Plan = "demo"
	PlanBasic Plan = "basic"
	PlanPro   Plan = "pro"
)

// IsValid reports whether p is a known plan
func (p Plan) IsValid() bool {
	switch p {
	case PlanDemo, PlanBasic, PlanPro:
		return true
	}
	return false
}

var codePattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9_\-]*$`)

// SPPG is a nutrition-service unit and the tenant boundary for all
// operational data. Its own ID is the tenant ID carried by every other
// aggregate.
type SPPG struct {
	shared.BaseAggregateRoot
	Code           string `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name           string `gorm:"type:varchar(200);not null"`
	Address        string `gorm:"type:text"`
	Province       string `gorm:"type:varchar(100)"`
	Regency        string `gorm:"type:varchar(100)"`
	Phone          string `gorm:"type:varchar(50)"`
	Email          string `gorm:"type:varchar(200)"`
	Status         Status `gorm:"type:varchar(20);not null;default:'pending'"`
	Plan           Plan   `gorm:"type:varchar(20);not null;default:'basic'"`
	TargetPortions int    `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SPPG) TableName() string {
	return "sppgs"
}

// NewSPPG creates a pending SPPG
func NewSPPG(code, name string, plan Plan) (*SPPG, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if err := validateCode(code); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "SPPG name cannot be empty")
	}
	if len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "SPPG name cannot exceed 200 characters")
	}
	if plan == "" {
		plan = PlanBasic
	}
	if !plan.IsValid() {
		return nil, shared.NewDomainError("INVALID_PLAN", "Unknown plan")
	}

	s := &SPPG{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              name,
		Status:            StatusPending,
		Plan:              plan,
	}
	s.AddDomainEvent(NewSPPGCreatedEvent(s))
	return s, nil
}

// TenantID returns the ID that scopes this SPPG's data
func (s *SPPG) TenantID() uuid.UUID {
	return s.ID
}

// Update replaces the descriptive fields
func (s *SPPG) Update(name, address, province, regency, phone, email string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "SPPG name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "SPPG name cannot exceed 200 characters")
	}
	s.Name = name
	s.Address = strings.TrimSpace(address)
	s.Province = strings.TrimSpace(province)
	s.Regency = strings.TrimSpace(regency)
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.ToLower(strings.TrimSpace(email))
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetTargetPortions sets the daily portion capacity
func (s *SPPG) SetTargetPortions(portions int) error {
	if portions < 0 {
		return shared.NewDomainError("INVALID_TARGET_PORTIONS", "Target portions cannot be negative")
	}
	s.TargetPortions = portions
	s.Touch()
	s.IncrementVersion()
	return nil
}

// ChangePlan switches the subscription tier
func (s *SPPG) ChangePlan(plan Plan) error {
	if !plan.IsValid() {
		return shared.NewDomainError("INVALID_PLAN", "Unknown plan")
	}
	s.Plan = plan
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Activate moves a pending or suspended SPPG to active
func (s *SPPG) Activate() error {
	if s.Status == StatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "SPPG is already active")
	}
	s.setStatus(StatusActive)
	return nil
}

// Suspend blocks an active SPPG
func (s *SPPG) Suspend() error {
	if s.Status != StatusActive {
		return shared.NewDomainError("INVALID_STATE", "Only active SPPGs can be suspended")
	}
	s.setStatus(StatusSuspended)
	return nil
}

// IsActive reports whether the SPPG may be used
func (s *SPPG) IsActive() bool {
	return s.Status == StatusActive
}

func (s *SPPG) setStatus(to Status) {
	from := s.Status
	s.Status = to
	s.Touch()
	s.IncrementVersion()
	s.AddDomainEvent(NewSPPGStatusChangedEvent(s, from, to))
}

func validateCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "SPPG code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "SPPG code cannot exceed 50 characters")
	}
	if !codePattern.MatchString(code) {
		return shared.NewDomainError("INVALID_CODE", "SPPG code can only contain letters, numbers, underscores, and hyphens")
	}
	return nil
}
