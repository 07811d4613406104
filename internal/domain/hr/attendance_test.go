package hr

import (
	"errors"
	"testing"
	"time"

	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func errorCode(err error) string {
	var de *shared.DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

func newEmployee(t *testing.T) *Employee {
	t.Helper()
	e, err := NewEmployee(uuid.New(), "EMP-001", validEmployeeInput())
	require.NoError(t, err)
	return e
}

func TestCheckIn_LateRule(t *testing.T) {
	wib := time.FixedZone("WIB", 7*3600)
	shift := DefaultShift(wib)
	emp := newEmployee(t)

	tests := []struct {
		name string
		at   time.Time
		want AttendanceStatus
	}{
		{"early", time.Date(2026, 2, 11, 6, 45, 0, 0, wib), AttendancePresent},
		{"within grace", time.Date(2026, 2, 11, 7, 15, 0, 0, wib), AttendancePresent},
		{"after grace", time.Date(2026, 2, 11, 7, 16, 0, 0, wib), AttendanceLate},
		{"utc instant after grace", time.Date(2026, 2, 11, 0, 30, 0, 0, time.UTC), AttendanceLate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := CheckIn(emp.TenantID, emp, tt.at, shift)
			require.NoError(t, err)
			assert.Equal(t, tt.want, a.Status)
			assert.Equal(t, time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC), a.AttendanceDate)
			assert.True(t, a.IsOpen())
		})
	}
}

func TestCheckIn_InactiveEmployee(t *testing.T) {
	emp := newEmployee(t)
	require.NoError(t, emp.Deactivate())

	_, err := CheckIn(emp.TenantID, emp, time.Now(), DefaultShift(time.UTC))
	assert.Equal(t, "EMPLOYEE_INACTIVE", errorCode(err))
}

func TestAttendance_CheckOut(t *testing.T) {
	emp := newEmployee(t)
	in := time.Date(2026, 2, 11, 7, 0, 0, 0, time.UTC)
	a, err := CheckIn(emp.TenantID, emp, in, DefaultShift(time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "INVALID_CHECKOUT", errorCode(a.CheckOut(in.Add(-time.Minute), "")))
	require.NoError(t, a.CheckOut(in.Add(8*time.Hour+30*time.Minute), "pulang"))
	assert.True(t, a.WorkHours.Equal(decimal.RequireFromString("8.5")))
	assert.Equal(t, "pulang", a.Notes)
	assert.False(t, a.IsOpen())
	assert.Equal(t, "ALREADY_CHECKED_OUT", errorCode(a.CheckOut(in.Add(9*time.Hour), "")))
}

func TestRecordAbsence(t *testing.T) {
	emp := newEmployee(t)
	day := time.Date(2026, 2, 11, 0, 0, 0, 0, time.UTC)

	a, err := RecordAbsence(emp.TenantID, emp, day, AttendanceSick, "demam")
	require.NoError(t, err)
	assert.Equal(t, AttendanceSick, a.Status)
	assert.Equal(t, "NOT_CHECKED_IN", errorCode(a.CheckOut(day.Add(17*time.Hour), "")))

	_, err = RecordAbsence(emp.TenantID, emp, day, AttendancePresent, "")
	assert.Equal(t, "INVALID_STATUS", errorCode(err))
}

func TestSummarize(t *testing.T) {
	from := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC)
	records := []Attendance{
		{Status: AttendancePresent, WorkHours: decimal.RequireFromString("8")},
		{Status: AttendanceLate, WorkHours: decimal.RequireFromString("7.5")},
		{Status: AttendancePresent, WorkHours: decimal.RequireFromString("8.25")},
		{Status: AttendanceSick, WorkHours: decimal.Zero},
	}

	s := Summarize(from, to, records)
	assert.Equal(t, 4, s.Records)
	assert.Equal(t, int64(2), s.ByStatus[AttendancePresent])
	assert.Equal(t, int64(1), s.ByStatus[AttendanceLate])
	assert.Equal(t, int64(1), s.ByStatus[AttendanceSick])
	assert.True(t, s.TotalHours.Equal(decimal.RequireFromString("23.75")))
}
