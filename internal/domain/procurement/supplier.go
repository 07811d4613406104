package procurement

import (
	"regexp"
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Supplier is a vendor the SPPG buys ingredients from
type Supplier struct {
	shared.TenantAggregateRoot
	Code        string `gorm:"type:varchar(50);not null;index"`
	Name        string `gorm:"type:varchar(200);not null"`
	ContactName string `gorm:"type:varchar(200)"`
	Phone       string `gorm:"type:varchar(50)"`
	Email       string `gorm:"type:varchar(200)"`
	Address     string `gorm:"type:text"`
	IsActive    bool   `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates an active supplier
func NewSupplier(tenantID uuid.UUID, code, name string) (*Supplier, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot be empty")
	}
	if len(code) > 50 {
		return nil, shared.NewDomainError("INVALID_CODE", "Supplier code cannot exceed 50 characters")
	}
	s := &Supplier{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		IsActive:            true,
	}
	if err := s.Update(name, "", "", "", ""); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the supplier's contact details
func (s *Supplier) Update(name, contactName, phone, email, address string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Supplier name cannot exceed 200 characters")
	}
	email = strings.TrimSpace(email)
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	s.Name = name
	s.ContactName = strings.TrimSpace(contactName)
	s.Phone = strings.TrimSpace(phone)
	s.Email = strings.ToLower(email)
	s.Address = strings.TrimSpace(address)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Activate re-enables ordering from the supplier
func (s *Supplier) Activate() {
	s.IsActive = true
	s.Touch()
	s.IncrementVersion()
}

// Deactivate stops new orders to the supplier
func (s *Supplier) Deactivate() {
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
}
