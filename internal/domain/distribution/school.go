package distribution

import (
	"regexp"
	"strings"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SchoolLevel is the education level of a beneficiary school
type SchoolLevel string

const (
	LevelPAUD SchoolLevel = "PAUD"
	LevelSD   SchoolLevel = "SD"
	LevelSMP  SchoolLevel = "SMP"
	LevelSMA  SchoolLevel = "SMA"
)

// IsValid reports whether l is a known level
func (l SchoolLevel) IsValid() bool {
	switch l {
	case LevelPAUD, LevelSD, LevelSMP, LevelSMA:
		return true
	}
	return false
}

var npsnPattern = regexp.MustCompile(`^[0-9]{8}$`)

// School is a beneficiary that receives meal deliveries
type School struct {
	shared.TenantAggregateRoot
	NPSN         string              `gorm:"column:npsn;type:varchar(8);not null;index"`
	Name         string              `gorm:"type:varchar(200);not null"`
	Level        SchoolLevel         `gorm:"type:varchar(10);not null"`
	Address      string              `gorm:"type:text"`
	StudentCount int                 `gorm:"not null;default:0"`
	ContactName  string              `gorm:"type:varchar(200)"`
	ContactPhone string              `gorm:"type:varchar(50)"`
	Latitude     decimal.NullDecimal `gorm:"type:decimal(10,7)"`
	Longitude    decimal.NullDecimal `gorm:"type:decimal(10,7)"`
	IsActive     bool                `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (School) TableName() string {
	return "schools"
}

// NewSchool creates an active school
func NewSchool(tenantID uuid.UUID, npsn, name string, level SchoolLevel, studentCount int) (*School, error) {
	npsn = strings.TrimSpace(npsn)
	if !npsnPattern.MatchString(npsn) {
		return nil, shared.NewDomainError("INVALID_NPSN", "NPSN must be exactly 8 digits")
	}
	s := &School{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		NPSN:                npsn,
		IsActive:            true,
	}
	if err := s.Update(name, level, "", studentCount); err != nil {
		return nil, err
	}
	return s, nil
}

// Update replaces the school's profile
func (s *School) Update(name string, level SchoolLevel, address string, studentCount int) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "School name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "School name cannot exceed 200 characters")
	}
	if !level.IsValid() {
		return shared.NewDomainError("INVALID_LEVEL", "Level must be PAUD, SD, SMP or SMA")
	}
	if studentCount < 0 {
		return shared.NewDomainError("INVALID_STUDENT_COUNT", "Student count cannot be negative")
	}
	s.Name = name
	s.Level = level
	s.Address = strings.TrimSpace(address)
	s.StudentCount = studentCount
	s.Touch()
	s.IncrementVersion()
	return nil
}

// SetContact sets the school's contact person
func (s *School) SetContact(name, phone string) {
	s.ContactName = strings.TrimSpace(name)
	s.ContactPhone = strings.TrimSpace(phone)
	s.Touch()
	s.IncrementVersion()
}

// SetLocation sets the school's coordinates
func (s *School) SetLocation(lat, lng decimal.Decimal) error {
	if lat.LessThan(decimal.NewFromInt(-90)) || lat.GreaterThan(decimal.NewFromInt(90)) {
		return shared.NewDomainError("INVALID_LOCATION", "Latitude must be between -90 and 90")
	}
	if lng.LessThan(decimal.NewFromInt(-180)) || lng.GreaterThan(decimal.NewFromInt(180)) {
		return shared.NewDomainError("INVALID_LOCATION", "Longitude must be between -180 and 180")
	}
	s.Latitude = decimal.NewNullDecimal(lat)
	s.Longitude = decimal.NewNullDecimal(lng)
	s.Touch()
	s.IncrementVersion()
	return nil
}

// Deactivate stops deliveries to the school
func (s *School) Deactivate() {
	s.IsActive = false
	s.Touch()
	s.IncrementVersion()
}

// Activate resumes deliveries to the school
func (s *School) Activate() {
	s.IsActive = true
	s.Touch()
	s.IncrementVersion()
}
