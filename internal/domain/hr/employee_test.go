package hr

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEmployeeInput() EmployeeInput {
	return EmployeeInput{
		NIK:            "3273012304900001",
		FullName:       " Siti Aminah ",
		Position:       "Juru Masak",
		Department:     DepartmentKitchen,
		EmploymentType: EmploymentContract,
		JoinDate:       time.Date(2025, 7, 1, 9, 30, 0, 0, time.UTC),
		Salary:         decimal.NewFromInt(3500000),
		Phone:          "081234567890",
	}
}

func TestNewEmployee(t *testing.T) {
	e, err := NewEmployee(uuid.New(), " emp-001 ", validEmployeeInput())
	require.NoError(t, err)

	assert.Equal(t, "EMP-001", e.EmployeeCode)
	assert.Equal(t, "Siti Aminah", e.FullName)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), e.JoinDate)
	assert.True(t, e.IsActive())
}

func TestNewEmployee_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *EmployeeInput)
		code   string
	}{
		{"short nik", func(in *EmployeeInput) { in.NIK = "327301230490" }, "INVALID_NIK"},
		{"non numeric nik", func(in *EmployeeInput) { in.NIK = "32730123049000AB" }, "INVALID_NIK"},
		{"empty name", func(in *EmployeeInput) { in.FullName = "  " }, "INVALID_NAME"},
		{"unknown department", func(in *EmployeeInput) { in.Department = "security" }, "INVALID_DEPARTMENT"},
		{"unknown employment", func(in *EmployeeInput) { in.EmploymentType = "intern" }, "INVALID_EMPLOYMENT_TYPE"},
		{"missing join date", func(in *EmployeeInput) { in.JoinDate = time.Time{} }, "INVALID_JOIN_DATE"},
		{"negative salary", func(in *EmployeeInput) { in.Salary = decimal.NewFromInt(-1) }, "INVALID_SALARY"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validEmployeeInput()
			tt.mutate(&in)
			_, err := NewEmployee(uuid.New(), "EMP-001", in)
			require.Error(t, err)
			assert.Equal(t, tt.code, errorCode(err))
		})
	}
}

func TestEmployee_Deactivate(t *testing.T) {
	e, err := NewEmployee(uuid.New(), "EMP-001", validEmployeeInput())
	require.NoError(t, err)

	require.NoError(t, e.Deactivate())
	assert.False(t, e.IsActive())
	assert.Error(t, e.Deactivate())
	require.NoError(t, e.Activate())
	assert.Error(t, e.Activate())
}
