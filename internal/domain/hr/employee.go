package hr

import (
	"regexp"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Department groups employees by the kitchen function they serve
type Department string

const (
	DepartmentKitchen        Department = "kitchen"
	DepartmentDistribution   Department = "distribution"
	DepartmentAdministration Department = "administration"
	DepartmentQuality        Department = "quality"
	DepartmentNutrition      Department = "nutrition"
)

// IsValid reports whether d is a known department
func (d Department) IsValid() bool {
	switch d {
	case DepartmentKitchen, DepartmentDistribution, DepartmentAdministration, DepartmentQuality, DepartmentNutrition:
		return true
	}
	return false
}

// EmploymentType is the contract form of an employee
type EmploymentType string

const (
	EmploymentPermanent EmploymentType = "permanent"
	EmploymentContract  EmploymentType = "contract"
	EmploymentDaily     EmploymentType = "daily"
)

// IsValid reports whether t is a known employment type
func (t EmploymentType) IsValid() bool {
	switch t {
	case EmploymentPermanent, EmploymentContract, EmploymentDaily:
		return true
	}
	return false
}

// EmployeeStatus is the employment status
type EmployeeStatus string

const (
	EmployeeActive   EmployeeStatus = "active"
	EmployeeInactive EmployeeStatus = "inactive"
)

var nikPattern = regexp.MustCompile(`^\d{16}$`)

// Employee is a member of the SPPG workforce
type Employee struct {
	shared.TenantAggregateRoot
	EmployeeCode   string          `gorm:"type:varchar(50);not null;index"`
	NIK            string          `gorm:"column:nik;type:varchar(16);not null"`
	FullName       string          `gorm:"type:varchar(200);not null"`
	Position       string          `gorm:"type:varchar(100)"`
	Department     Department      `gorm:"type:varchar(30);not null;index"`
	EmploymentType EmploymentType  `gorm:"type:varchar(20);not null"`
	JoinDate       time.Time       `gorm:"type:date;not null"`
	Salary         decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Phone          string          `gorm:"type:varchar(50)"`
	Status         EmployeeStatus  `gorm:"type:varchar(20);not null;default:'active';index"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// EmployeeInput holds the mutable employee fields
type EmployeeInput struct {
	NIK            string
	FullName       string
	Position       string
	Department     Department
	EmploymentType EmploymentType
	JoinDate       time.Time
	Salary         decimal.Decimal
	Phone          string
}

// NewEmployee creates an active employee
func NewEmployee(tenantID uuid.UUID, code string, in EmployeeInput) (*Employee, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Employee code cannot be empty")
	}
	e := &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeCode:        code,
		Status:              EmployeeActive,
	}
	if err := e.apply(in); err != nil {
		return nil, err
	}
	return e, nil
}

// Update replaces the employee's details
func (e *Employee) Update(in EmployeeInput) error {
	if err := e.apply(in); err != nil {
		return err
	}
	e.Touch()
	e.IncrementVersion()
	return nil
}

func (e *Employee) apply(in EmployeeInput) error {
	nik := strings.TrimSpace(in.NIK)
	if !nikPattern.MatchString(nik) {
		return shared.NewDomainError("INVALID_NIK", "NIK must be 16 digits")
	}
	name := strings.TrimSpace(in.FullName)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if !in.Department.IsValid() {
		return shared.NewDomainError("INVALID_DEPARTMENT", "Unknown department: "+string(in.Department))
	}
	if !in.EmploymentType.IsValid() {
		return shared.NewDomainError("INVALID_EMPLOYMENT_TYPE", "Unknown employment type: "+string(in.EmploymentType))
	}
	if in.JoinDate.IsZero() {
		return shared.NewDomainError("INVALID_JOIN_DATE", "Join date is required")
	}
	if in.Salary.IsNegative() {
		return shared.NewDomainError("INVALID_SALARY", "Salary cannot be negative")
	}
	y, m, d := in.JoinDate.Date()
	e.NIK = nik
	e.FullName = name
	e.Position = strings.TrimSpace(in.Position)
	e.Department = in.Department
	e.EmploymentType = in.EmploymentType
	e.JoinDate = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	e.Salary = in.Salary
	e.Phone = strings.TrimSpace(in.Phone)
	return nil
}

// IsActive reports whether the employee is active
func (e *Employee) IsActive() bool {
	return e.Status == EmployeeActive
}

// Deactivate ends the employment
func (e *Employee) Deactivate() error {
	if !e.IsActive() {
		return shared.NewDomainError("ALREADY_INACTIVE", "Employee is already inactive")
	}
	e.Status = EmployeeInactive
	e.Touch()
	e.IncrementVersion()
	return nil
}

// Activate reinstates the employee
func (e *Employee) Activate() error {
	if e.IsActive() {
		return shared.NewDomainError("ALREADY_ACTIVE", "Employee is already active")
	}
	e.Status = EmployeeActive
	e.Touch()
	e.IncrementVersion()
	return nil
}
