package hr

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/config"
	"github.com/google/uuid"
)

// maxAttendanceRange bounds ListAttendance and Summary queries
const maxAttendanceRange = 92 * 24 * time.Hour

// ShiftFromConfig builds the check-in rule from configuration
func ShiftFromConfig(cfg config.AttendanceConfig, loc *time.Location) (hr.Shift, error) {
	shift := hr.DefaultShift(loc)
	if cfg.ShiftStart != "" {
		start, err := time.Parse("15:04", cfg.ShiftStart)
		if err != nil {
			return hr.Shift{}, fmt.Errorf("invalid shift start %q: %w", cfg.ShiftStart, err)
		}
		shift.Start = time.Duration(start.Hour())*time.Hour + time.Duration(start.Minute())*time.Minute
	}
	if cfg.GracePeriod > 0 {
		shift.Grace = cfg.GracePeriod
	}
	return shift, nil
}

// AttendanceService records daily attendance
type AttendanceService struct {
	employeeRepo   hr.EmployeeRepository
	attendanceRepo hr.AttendanceRepository
	shift          hr.Shift
	now            func() time.Time
}

// NewAttendanceService creates a new AttendanceService
func NewAttendanceService(employeeRepo hr.EmployeeRepository, attendanceRepo hr.AttendanceRepository, shift hr.Shift) *AttendanceService {
	if shift.Location == nil {
		shift.Location = time.Local
	}
	return &AttendanceService{
		employeeRepo:   employeeRepo,
		attendanceRepo: attendanceRepo,
		shift:          shift,
		now:            time.Now,
	}
}

// CheckIn opens today's record. Arrivals after shift start plus grace are
// marked late.
func (s *AttendanceService) CheckIn(ctx context.Context, tenantID uuid.UUID, req CheckInRequest) (*AttendanceResponse, error) {
	emp, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	at := s.now()
	existing, err := s.attendanceRepo.FindByEmployeeAndDate(ctx, tenantID, emp.ID, s.today(at))
	switch {
	case err == nil:
		return nil, shared.NewDomainError("ALREADY_RECORDED",
			fmt.Sprintf("Attendance for %s is already recorded as %s", emp.FullName, existing.Status))
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	a, err := hr.CheckIn(tenantID, emp, at, s.shift)
	if err != nil {
		return nil, err
	}
	a.Notes = req.Notes
	if err := s.attendanceRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttendanceResponse(a)
	return &resp, nil
}

// CheckOut closes today's record
func (s *AttendanceService) CheckOut(ctx context.Context, tenantID uuid.UUID, req CheckOutRequest) (*AttendanceResponse, error) {
	at := s.now()
	a, err := s.attendanceRepo.FindByEmployeeAndDate(ctx, tenantID, req.EmployeeID, s.today(at))
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("NOT_CHECKED_IN", "Employee has not checked in today")
		}
		return nil, err
	}
	if err := a.CheckOut(at, req.Notes); err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttendanceResponse(a)
	return &resp, nil
}

// RecordAbsence records absent, leave or sick for a day
func (s *AttendanceService) RecordAbsence(ctx context.Context, tenantID uuid.UUID, req AbsenceRequest) (*AttendanceResponse, error) {
	date, err := time.Parse(time.DateOnly, req.Date)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_DATE", "Date must be YYYY-MM-DD")
	}
	emp, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, req.EmployeeID)
	if err != nil {
		return nil, err
	}
	_, err = s.attendanceRepo.FindByEmployeeAndDate(ctx, tenantID, emp.ID, date)
	switch {
	case err == nil:
		return nil, shared.NewDomainError("ALREADY_RECORDED", "Attendance for "+req.Date+" is already recorded")
	case !errors.Is(err, shared.ErrNotFound):
		return nil, err
	}

	a, err := hr.RecordAbsence(tenantID, emp, date, hr.AttendanceStatus(req.Status), req.Notes)
	if err != nil {
		return nil, err
	}
	if err := s.attendanceRepo.Save(ctx, a); err != nil {
		return nil, err
	}
	resp := ToAttendanceResponse(a)
	return &resp, nil
}

// ListAttendance returns records between two dates, inclusive
func (s *AttendanceService) ListAttendance(ctx context.Context, tenantID uuid.UUID, filter AttendanceRangeFilter) ([]AttendanceResponse, error) {
	records, _, _, err := s.load(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	out := make([]AttendanceResponse, len(records))
	for i := range records {
		out[i] = ToAttendanceResponse(&records[i])
	}
	return out, nil
}

// Summary counts records by status and totals the hours worked
func (s *AttendanceService) Summary(ctx context.Context, tenantID uuid.UUID, filter AttendanceRangeFilter) (*SummaryResponse, error) {
	records, from, to, err := s.load(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	resp := ToSummaryResponse(hr.Summarize(from, to, records))
	return &resp, nil
}

// PresentToday counts employees who checked in today
func (s *AttendanceService) PresentToday(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	return s.attendanceRepo.CountPresentOnDate(ctx, tenantID, s.today(s.now()))
}

func (s *AttendanceService) load(ctx context.Context, tenantID uuid.UUID, filter AttendanceRangeFilter) ([]hr.Attendance, time.Time, time.Time, error) {
	from, errFrom := time.Parse(time.DateOnly, filter.From)
	to, errTo := time.Parse(time.DateOnly, filter.To)
	if errFrom != nil || errTo != nil || to.Before(from) {
		return nil, from, to, shared.NewDomainError("INVALID_DATE_RANGE", "from and to must be YYYY-MM-DD with from <= to")
	}
	if to.Sub(from) > maxAttendanceRange {
		return nil, from, to, shared.NewDomainError("INVALID_DATE_RANGE", "Date range cannot exceed 92 days")
	}
	records, err := s.attendanceRepo.FindByDateRange(ctx, tenantID, from, to, hr.AttendanceFilter{
		EmployeeID: filter.EmployeeID,
		Status:     hr.AttendanceStatus(filter.Status),
	})
	if err != nil {
		return nil, from, to, err
	}
	return records, from, to, nil
}

// today is the local calendar day of t as a UTC date
func (s *AttendanceService) today(t time.Time) time.Time {
	local := t.In(s.shift.Location)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
}
