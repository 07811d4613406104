package hr

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/bergizi/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEmployeeRepository is a mock implementation of hr.EmployeeRepository
type MockEmployeeRepository struct {
	hr.EmployeeRepository
	mock.Mock
}

func (m *MockEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Employee), args.Error(1)
}

func (m *MockEmployeeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockEmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	return m.Called(ctx, e).Error(0)
}

// MockAttendanceRepository is a mock implementation of hr.AttendanceRepository
type MockAttendanceRepository struct {
	hr.AttendanceRepository
	mock.Mock
}

func (m *MockAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, tenantID, employeeID uuid.UUID, date time.Time) (*hr.Attendance, error) {
	args := m.Called(ctx, tenantID, employeeID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*hr.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter hr.AttendanceFilter) ([]hr.Attendance, error) {
	args := m.Called(ctx, tenantID, from, to, filter)
	return args.Get(0).([]hr.Attendance), args.Error(1)
}

func (m *MockAttendanceRepository) Save(ctx context.Context, a *hr.Attendance) error {
	return m.Called(ctx, a).Error(0)
}

func domainCode(t *testing.T, err error) string {
	t.Helper()
	var domainErr *shared.DomainError
	require.True(t, errors.As(err, &domainErr), "expected a domain error, got %v", err)
	return domainErr.Code
}

type fixture struct {
	tenantID    uuid.UUID
	jakarta     *time.Location
	employees   *MockEmployeeRepository
	attendances *MockAttendanceRepository
	service     *AttendanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	shift, err := ShiftFromConfig(config.AttendanceConfig{ShiftStart: "07:00", GracePeriod: 15 * time.Minute}, jakarta)
	require.NoError(t, err)

	f := &fixture{
		tenantID:    uuid.New(),
		jakarta:     jakarta,
		employees:   new(MockEmployeeRepository),
		attendances: new(MockAttendanceRepository),
	}
	f.service = NewAttendanceService(f.employees, f.attendances, shift)
	return f
}

func (f *fixture) employee(t *testing.T) *hr.Employee {
	t.Helper()
	emp, err := hr.NewEmployee(f.tenantID, "EMP-001", hr.EmployeeInput{
		NIK:            "3277011505900001",
		FullName:       "Siti Aminah",
		Department:     hr.Department("kitchen"),
		EmploymentType: hr.EmploymentType("contract"),
		JoinDate:       time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
		Salary:         decimal.NewFromInt(3500000),
	})
	require.NoError(t, err)
	return emp
}

func (f *fixture) at(hour, minute int) func() time.Time {
	return func() time.Time { return time.Date(2026, 10, 16, hour, minute, 0, 0, f.jakarta) }
}

var today = time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

func TestShiftFromConfig(t *testing.T) {
	shift, err := ShiftFromConfig(config.AttendanceConfig{ShiftStart: "06:30", GracePeriod: 10 * time.Minute}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 6*time.Hour+30*time.Minute, shift.Start)
	assert.Equal(t, 10*time.Minute, shift.Grace)

	shift, err = ShiftFromConfig(config.AttendanceConfig{}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, 7*time.Hour, shift.Start)
	assert.Equal(t, 15*time.Minute, shift.Grace)

	_, err = ShiftFromConfig(config.AttendanceConfig{ShiftStart: "7am"}, time.UTC)
	assert.Error(t, err)
}

func TestAttendanceService_CheckIn_LateRule(t *testing.T) {
	tests := []struct {
		name         string
		hour, minute int
		want         string
	}{
		{"early", 6, 50, "present"},
		{"within grace", 7, 15, "present"},
		{"after grace", 7, 16, "late"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			emp := f.employee(t)
			f.service.now = f.at(tt.hour, tt.minute)

			f.employees.On("FindByIDForTenant", ctx, f.tenantID, emp.ID).Return(emp, nil)
			f.attendances.On("FindByEmployeeAndDate", ctx, f.tenantID, emp.ID, today).Return(nil, shared.ErrNotFound)
			f.attendances.On("Save", ctx, mock.AnythingOfType("*hr.Attendance")).Return(nil)

			resp, err := f.service.CheckIn(ctx, f.tenantID, CheckInRequest{EmployeeID: emp.ID})
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.Status)
			assert.Equal(t, "2026-10-16", resp.AttendanceDate)
		})
	}
}

func TestAttendanceService_CheckIn_Twice(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t)
	f.service.now = f.at(7, 0)
	existing, err := hr.CheckIn(f.tenantID, emp, f.at(6, 55)(), f.service.shift)
	require.NoError(t, err)

	f.employees.On("FindByIDForTenant", ctx, f.tenantID, emp.ID).Return(emp, nil)
	f.attendances.On("FindByEmployeeAndDate", ctx, f.tenantID, emp.ID, today).Return(existing, nil)

	_, err = f.service.CheckIn(ctx, f.tenantID, CheckInRequest{EmployeeID: emp.ID})
	assert.Equal(t, "ALREADY_RECORDED", domainCode(t, err))
	f.attendances.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestAttendanceService_CheckOut(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t)
	record, err := hr.CheckIn(f.tenantID, emp, f.at(7, 0)(), f.service.shift)
	require.NoError(t, err)
	f.service.now = f.at(15, 30)

	f.attendances.On("FindByEmployeeAndDate", ctx, f.tenantID, emp.ID, today).Return(record, nil)
	f.attendances.On("Save", ctx, record).Return(nil)

	resp, err := f.service.CheckOut(ctx, f.tenantID, CheckOutRequest{EmployeeID: emp.ID, Notes: "shift pagi"})
	require.NoError(t, err)
	assert.Equal(t, "8.5", resp.WorkHours.String())
	assert.Equal(t, "shift pagi", resp.Notes)

	_, err = f.service.CheckOut(ctx, f.tenantID, CheckOutRequest{EmployeeID: emp.ID})
	assert.Equal(t, "ALREADY_CHECKED_OUT", domainCode(t, err))

	other := uuid.New()
	f.attendances.On("FindByEmployeeAndDate", ctx, f.tenantID, other, today).Return(nil, shared.ErrNotFound)
	_, err = f.service.CheckOut(ctx, f.tenantID, CheckOutRequest{EmployeeID: other})
	assert.Equal(t, "NOT_CHECKED_IN", domainCode(t, err))
}

func TestAttendanceService_RecordAbsence(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t)
	date := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

	f.employees.On("FindByIDForTenant", ctx, f.tenantID, emp.ID).Return(emp, nil)
	f.attendances.On("FindByEmployeeAndDate", ctx, f.tenantID, emp.ID, date).Return(nil, shared.ErrNotFound)
	f.attendances.On("Save", ctx, mock.AnythingOfType("*hr.Attendance")).Return(nil)

	resp, err := f.service.RecordAbsence(ctx, f.tenantID, AbsenceRequest{EmployeeID: emp.ID, Date: "2026-10-15", Status: "sick", Notes: "demam"})
	require.NoError(t, err)
	assert.Equal(t, "sick", resp.Status)
	assert.Nil(t, resp.CheckInAt)

	_, err = f.service.RecordAbsence(ctx, f.tenantID, AbsenceRequest{EmployeeID: emp.ID, Date: "2026-10-15", Status: "present"})
	assert.Equal(t, "INVALID_STATUS", domainCode(t, err))
}

func TestAttendanceService_Summary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	emp := f.employee(t)
	from := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)

	onTime, err := hr.CheckIn(f.tenantID, emp, time.Date(2026, 10, 14, 7, 0, 0, 0, f.jakarta), f.service.shift)
	require.NoError(t, err)
	require.NoError(t, onTime.CheckOut(time.Date(2026, 10, 14, 15, 0, 0, 0, f.jakarta), ""))
	late, err := hr.CheckIn(f.tenantID, emp, time.Date(2026, 10, 15, 8, 0, 0, 0, f.jakarta), f.service.shift)
	require.NoError(t, err)
	require.NoError(t, late.CheckOut(time.Date(2026, 10, 15, 14, 30, 0, 0, f.jakarta), ""))
	sick, err := hr.RecordAbsence(f.tenantID, emp, to, hr.AttendanceSick, "")
	require.NoError(t, err)

	f.attendances.On("FindByDateRange", ctx, f.tenantID, from, to, hr.AttendanceFilter{EmployeeID: &emp.ID}).
		Return([]hr.Attendance{*onTime, *late, *sick}, nil)

	summary, err := f.service.Summary(ctx, f.tenantID, AttendanceRangeFilter{From: "2026-10-01", To: "2026-10-16", EmployeeID: &emp.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Records)
	assert.Equal(t, map[string]int64{"present": 1, "late": 1, "sick": 1}, summary.ByStatus)
	assert.Equal(t, "14.5", summary.TotalHours.String())

	_, err = f.service.ListAttendance(ctx, f.tenantID, AttendanceRangeFilter{From: "2026-10-16", To: "2026-10-01"})
	assert.Equal(t, "INVALID_DATE_RANGE", domainCode(t, err))
	_, err = f.service.ListAttendance(ctx, f.tenantID, AttendanceRangeFilter{From: "2026-01-01", To: "2026-10-01"})
	assert.Equal(t, "INVALID_DATE_RANGE", domainCode(t, err))
}

func TestEmployeeService_CreateAndDeactivate(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	repo := new(MockEmployeeRepository)
	service := NewEmployeeService(repo)

	req := EmployeeRequest{
		EmployeeCode:   "emp-002",
		NIK:            "3277011505900002",
		FullName:       "Dedi Kurnia",
		Department:     "distribution",
		EmploymentType: "daily",
		JoinDate:       "2026-02-01",
		Salary:         decimal.NewFromInt(120000),
	}
	repo.On("ExistsByCode", ctx, tenantID, "emp-002").Return(false, nil)
	repo.On("Save", ctx, mock.AnythingOfType("*hr.Employee")).Return(nil)

	resp, err := service.Create(ctx, tenantID, nil, req)
	require.NoError(t, err)
	assert.Equal(t, "EMP-002", resp.EmployeeCode)
	assert.Equal(t, "active", resp.Status)

	bad := req
	bad.JoinDate = "01-02-2026"
	_, err = service.Create(ctx, tenantID, nil, bad)
	assert.Equal(t, "INVALID_JOIN_DATE", domainCode(t, err))

	emp, err := hr.NewEmployee(tenantID, "EMP-003", hr.EmployeeInput{
		NIK: "3277011505900003", FullName: "Rina", Department: "quality", EmploymentType: "permanent",
		JoinDate: time.Now(),
	})
	require.NoError(t, err)
	repo.On("FindByIDForTenant", ctx, tenantID, emp.ID).Return(emp, nil)

	resp, err = service.Deactivate(ctx, tenantID, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "inactive", resp.Status)
	_, err = service.Deactivate(ctx, tenantID, emp.ID)
	assert.Equal(t, "ALREADY_INACTIVE", domainCode(t, err))
}
