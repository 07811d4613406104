package hr

import (
	"time"

	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EmployeeResponse represents an employee in API responses
type EmployeeResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmployeeCode   string          `json:"employee_code"`
	NIK            string          `json:"nik"`
	FullName       string          `json:"full_name"`
	Position       string          `json:"position,omitempty"`
	Department     string          `json:"department"`
	EmploymentType string          `json:"employment_type"`
	JoinDate       string          `json:"join_date"`
	Salary         decimal.Decimal `json:"salary"`
	Phone          string          `json:"phone,omitempty"`
	Status         string          `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// EmployeeRequest represents a request to create or update an employee.
// EmployeeCode is ignored on update.
type EmployeeRequest struct {
	EmployeeCode   string          `json:"employee_code" binding:"omitempty,max=50"`
	NIK            string          `json:"nik" binding:"required,len=16,numeric"`
	FullName       string          `json:"full_name" binding:"required,max=200"`
	Position       string          `json:"position" binding:"max=100"`
	Department     string          `json:"department" binding:"required,oneof=kitchen distribution administration quality nutrition"`
	EmploymentType string          `json:"employment_type" binding:"required,oneof=permanent contract daily"`
	JoinDate       string          `json:"join_date" binding:"required"`
	Salary         decimal.Decimal `json:"salary"`
	Phone          string          `json:"phone" binding:"max=50"`
}

// EmployeeListFilter represents filter options for the employee list
type EmployeeListFilter struct {
	Search         string `form:"search"`
	Department     string `form:"department"`
	EmploymentType string `form:"employment_type"`
	Status         string `form:"status" binding:"omitempty,oneof=active inactive"`
	Page           int    `form:"page" binding:"omitempty,min=1"`
	PageSize       int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy        string `form:"order_by"`
	OrderDir       string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

// AttendanceResponse represents an attendance record in API responses
type AttendanceResponse struct {
	ID             uuid.UUID       `json:"id"`
	EmployeeID     uuid.UUID       `json:"employee_id"`
	AttendanceDate string          `json:"attendance_date"`
	CheckInAt      *time.Time      `json:"check_in_at,omitempty"`
	CheckOutAt     *time.Time      `json:"check_out_at,omitempty"`
	Status         string          `json:"status"`
	WorkHours      decimal.Decimal `json:"work_hours"`
	Notes          string          `json:"notes,omitempty"`
}

// CheckInRequest records an employee arriving
type CheckInRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Notes      string    `json:"notes" binding:"max=500"`
}

// CheckOutRequest records an employee leaving
type CheckOutRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Notes      string    `json:"notes" binding:"max=500"`
}

// AbsenceRequest records a day without check-in
type AbsenceRequest struct {
	EmployeeID uuid.UUID `json:"employee_id" binding:"required"`
	Date       string    `json:"date" binding:"required"`
	Status     string    `json:"status" binding:"required,oneof=absent leave sick"`
	Notes      string    `json:"notes" binding:"max=500"`
}

// AttendanceRangeFilter selects attendance between two dates, inclusive
type AttendanceRangeFilter struct {
	From       string     `form:"from" binding:"required"`
	To         string     `form:"to" binding:"required"`
	EmployeeID *uuid.UUID `form:"employee_id"`
	Status     string     `form:"status" binding:"omitempty,oneof=present late absent leave sick"`
}

// SummaryResponse aggregates attendance over a range
type SummaryResponse struct {
	From       string           `json:"from"`
	To         string           `json:"to"`
	Records    int              `json:"records"`
	ByStatus   map[string]int64 `json:"by_status"`
	TotalHours decimal.Decimal  `json:"total_hours"`
}

// ToEmployeeResponse converts a domain employee to a response
func ToEmployeeResponse(e *hr.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:             e.ID,
		EmployeeCode:   e.EmployeeCode,
		NIK:            e.NIK,
		FullName:       e.FullName,
		Position:       e.Position,
		Department:     string(e.Department),
		EmploymentType: string(e.EmploymentType),
		JoinDate:       e.JoinDate.Format(time.DateOnly),
		Salary:         e.Salary,
		Phone:          e.Phone,
		Status:         string(e.Status),
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

// ToAttendanceResponse converts a domain attendance record to a response
func ToAttendanceResponse(a *hr.Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		EmployeeID:     a.EmployeeID,
		AttendanceDate: a.AttendanceDate.Format(time.DateOnly),
		CheckInAt:      a.CheckInAt,
		CheckOutAt:     a.CheckOutAt,
		Status:         string(a.Status),
		WorkHours:      a.WorkHours,
		Notes:          a.Notes,
	}
}

// ToSummaryResponse converts a domain summary to a response
func ToSummaryResponse(s hr.Summary) SummaryResponse {
	byStatus := make(map[string]int64, len(s.ByStatus))
	for status, n := range s.ByStatus {
		byStatus[string(status)] = n
	}
	return SummaryResponse{
		From:       s.From.Format(time.DateOnly),
		To:         s.To.Format(time.DateOnly),
		Records:    s.Records,
		ByStatus:   byStatus,
		TotalHours: s.TotalHours,
	}
}
