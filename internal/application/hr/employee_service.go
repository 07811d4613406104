package hr

import (
	"context"
	"time"

	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeService handles the SPPG workforce
type EmployeeService struct {
	employeeRepo hr.EmployeeRepository
}

// NewEmployeeService creates a new EmployeeService
func NewEmployeeService(employeeRepo hr.EmployeeRepository) *EmployeeService {
	return &EmployeeService{employeeRepo: employeeRepo}
}

// Create hires an employee. Codes are unique within the SPPG.
func (s *EmployeeService) Create(ctx context.Context, tenantID uuid.UUID, actorID *uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	if req.EmployeeCode == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Employee code is required")
	}
	in, err := toInput(req)
	if err != nil {
		return nil, err
	}
	exists, err := s.employeeRepo.ExistsByCode(ctx, tenantID, req.EmployeeCode)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Employee code already exists")
	}

	emp, err := hr.NewEmployee(tenantID, req.EmployeeCode, in)
	if err != nil {
		return nil, err
	}
	if actorID != nil {
		emp.SetCreatedBy(*actorID)
	}
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// GetByID retrieves an employee
func (s *EmployeeService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// List retrieves employees with filtering and pagination
func (s *EmployeeService) List(ctx context.Context, tenantID uuid.UUID, filter EmployeeListFilter) ([]EmployeeResponse, int64, error) {
	f := shared.NewFilter(filter.Page, filter.PageSize, filter.OrderBy, filter.OrderDir, filter.Search)
	if filter.Department != "" {
		f.Filters["department"] = filter.Department
	}
	if filter.EmploymentType != "" {
		f.Filters["employment_type"] = filter.EmploymentType
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	employees, err := s.employeeRepo.FindAllForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.employeeRepo.CountForTenant(ctx, tenantID, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]EmployeeResponse, len(employees))
	for i := range employees {
		out[i] = ToEmployeeResponse(&employees[i])
	}
	return out, total, nil
}

// Update replaces an employee's details
func (s *EmployeeService) Update(ctx context.Context, tenantID, id uuid.UUID, req EmployeeRequest) (*EmployeeResponse, error) {
	in, err := toInput(req)
	if err != nil {
		return nil, err
	}
	emp, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := emp.Update(in); err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

// Deactivate ends an employment. Attendance history is kept.
func (s *EmployeeService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	return s.setActive(ctx, tenantID, id, false)
}

// Activate reinstates an employee
func (s *EmployeeService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*EmployeeResponse, error) {
	return s.setActive(ctx, tenantID, id, true)
}

func (s *EmployeeService) setActive(ctx context.Context, tenantID, id uuid.UUID, active bool) (*EmployeeResponse, error) {
	emp, err := s.employeeRepo.FindByIDForTenant(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if active {
		err = emp.Activate()
	} else {
		err = emp.Deactivate()
	}
	if err != nil {
		return nil, err
	}
	if err := s.employeeRepo.Save(ctx, emp); err != nil {
		return nil, err
	}
	resp := ToEmployeeResponse(emp)
	return &resp, nil
}

func toInput(req EmployeeRequest) (hr.EmployeeInput, error) {
	joinDate, err := time.Parse(time.DateOnly, req.JoinDate)
	if err != nil {
		return hr.EmployeeInput{}, shared.NewDomainError("INVALID_JOIN_DATE", "Join date must be YYYY-MM-DD")
	}
	return hr.EmployeeInput{
		NIK:            req.NIK,
		FullName:       req.FullName,
		Position:       req.Position,
		Department:     hr.Department(req.Department),
		EmploymentType: hr.EmploymentType(req.EmploymentType),
		JoinDate:       joinDate,
		Salary:         req.Salary,
		Phone:          req.Phone,
	}, nil
}
