package hr

import (
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AttendanceStatus is the outcome of a working day
type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLeave   AttendanceStatus = "leave"
	AttendanceSick    AttendanceStatus = "sick"
)

// IsAbsence reports whether s records a day without check-in
func (s AttendanceStatus) IsAbsence() bool {
	return s == AttendanceAbsent || s == AttendanceLeave || s == AttendanceSick
}

// Shift is the expected start of the working day
type Shift struct {
	Start    time.Duration // offset from local midnight
	Grace    time.Duration
	Location *time.Location
}

// DefaultShift starts at 07:00 with 15 minutes of grace
func DefaultShift(loc *time.Location) Shift {
	if loc == nil {
		loc = time.Local
	}
	return Shift{Start: 7 * time.Hour, Grace: 15 * time.Minute, Location: loc}
}

// LateAfter returns the latest on-time check-in for the given day
func (s Shift) LateAfter(day time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	local := day.In(loc)
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
	return midnight.Add(s.Start + s.Grace)
}

// Attendance is one employee's record for one day
type Attendance struct {
	shared.TenantAggregateRoot
	EmployeeID     uuid.UUID `gorm:"type:uuid;not null;index"`
	AttendanceDate time.Time `gorm:"type:date;not null;index"`
	CheckInAt      *time.Time
	CheckOutAt     *time.Time
	Status         AttendanceStatus `gorm:"type:varchar(20);not null;index"`
	WorkHours      decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	Notes          string           `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (Attendance) TableName() string {
	return "attendances"
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	if loc != nil {
		t = t.In(loc)
	}
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// CheckIn opens the attendance record for the day of at
func CheckIn(tenantID uuid.UUID, emp *Employee, at time.Time, shift Shift) (*Attendance, error) {
	if emp == nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee is required")
	}
	if !emp.IsActive() {
		return nil, shared.NewDomainError("EMPLOYEE_INACTIVE", "Inactive employees cannot check in")
	}
	status := AttendancePresent
	if at.After(shift.LateAfter(at)) {
		status = AttendanceLate
	}
	a := &Attendance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          emp.ID,
		AttendanceDate:      dateOf(at, shift.Location),
		CheckInAt:           &at,
		Status:              status,
		WorkHours:           decimal.Zero,
	}
	return a, nil
}

// RecordAbsence records a day the employee did not work
func RecordAbsence(tenantID uuid.UUID, emp *Employee, date time.Time, status AttendanceStatus, notes string) (*Attendance, error) {
	if emp == nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee is required")
	}
	if !status.IsAbsence() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Absence status must be absent, leave or sick")
	}
	if date.IsZero() {
		return nil, shared.NewDomainError("INVALID_DATE", "Date is required")
	}
	return &Attendance{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		EmployeeID:          emp.ID,
		AttendanceDate:      dateOf(date, nil),
		Status:              status,
		WorkHours:           decimal.Zero,
		Notes:               strings.TrimSpace(notes),
	}, nil
}

// CheckOut closes the record and derives the hours worked
func (a *Attendance) CheckOut(at time.Time, notes string) error {
	if a.CheckInAt == nil {
		return shared.NewDomainError("NOT_CHECKED_IN", "Cannot check out without a check-in")
	}
	if a.CheckOutAt != nil {
		return shared.NewDomainError("ALREADY_CHECKED_OUT", "Already checked out")
	}
	if !at.After(*a.CheckInAt) {
		return shared.NewDomainError("INVALID_CHECKOUT", "Check-out must be after check-in")
	}
	a.CheckOutAt = &at
	hours := decimal.NewFromFloat(at.Sub(*a.CheckInAt).Hours())
	a.WorkHours = hours.Round(2)
	if notes = strings.TrimSpace(notes); notes != "" {
		a.Notes = notes
	}
	a.Touch()
	a.IncrementVersion()
	return nil
}

// IsOpen reports whether the employee checked in but has not checked out
func (a *Attendance) IsOpen() bool {
	return a.CheckInAt != nil && a.CheckOutAt == nil
}

// Summary aggregates attendance over a date range
type Summary struct {
	From       time.Time                  `json:"from"`
	To         time.Time                  `json:"to"`
	Records    int                        `json:"records"`
	ByStatus   map[AttendanceStatus]int64 `json:"by_status"`
	TotalHours decimal.Decimal            `json:"total_hours"`
}

// Summarize counts records by status and totals the hours worked
func Summarize(from, to time.Time, records []Attendance) Summary {
	s := Summary{
		From:       from,
		To:         to,
		Records:    len(records),
		ByStatus:   make(map[AttendanceStatus]int64),
		TotalHours: decimal.Zero,
	}
	for _, r := range records {
		s.ByStatus[r.Status]++
		s.TotalHours = s.TotalHours.Add(r.WorkHours)
	}
	return s
}
