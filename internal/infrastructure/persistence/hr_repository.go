package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bergizi/backend/internal/domain/hr"
	"github.com/bergizi/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements hr.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

var employeeList = listOptions{
	sortFields:   EmployeeSortFields,
	defaultOrder: "full_name ASC",
	searchCols:   []string{"employee_code", "full_name", "position"},
}

// FindByIDForTenant finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Employee, error) {
	var e hr.Employee
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindAllForTenant lists employees
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]hr.Employee, error) {
	var list []hr.Employee
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&hr.Employee{}).Where("tenant_id = ?", tenantID), filter)
	if err := applyPage(query, filter, employeeList).Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountForTenant counts employees
func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&hr.Employee{}).Where("tenant_id = ?", tenantID), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks if an employee code is taken in the tenant
func (r *GormEmployeeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&hr.Employee{}).
		Where("tenant_id = ? AND employee_code = ?", tenantID, strings.ToUpper(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *GormEmployeeRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = applySearch(query, filter.Search, employeeList.searchCols)
	if v, ok := filterString(filter, "department"); ok {
		query = query.Where("department = ?", v)
	}
	if v, ok := filterString(filter, "employment_type"); ok {
		query = query.Where("employment_type = ?", v)
	}
	if v, ok := filterString(filter, "status"); ok {
		query = query.Where("status = ?", v)
	}
	return query
}

// GormAttendanceRepository implements hr.AttendanceRepository using GORM
type GormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository creates a new GormAttendanceRepository
func NewGormAttendanceRepository(db *gorm.DB) *GormAttendanceRepository {
	return &GormAttendanceRepository{db: db}
}

// FindByIDForTenant finds an attendance record by ID within a tenant
func (r *GormAttendanceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*hr.Attendance, error) {
	var a hr.Attendance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByEmployeeAndDate finds the employee's record for a day
func (r *GormAttendanceRepository) FindByEmployeeAndDate(ctx context.Context, tenantID, employeeID uuid.UUID, date time.Time) (*hr.Attendance, error) {
	var a hr.Attendance
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND employee_id = ? AND attendance_date = ?", tenantID, employeeID, dayOf(date)).
		First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// FindByDateRange lists records whose date falls in [from, to]
func (r *GormAttendanceRepository) FindByDateRange(ctx context.Context, tenantID uuid.UUID, from, to time.Time, filter hr.AttendanceFilter) ([]hr.Attendance, error) {
	var list []hr.Attendance
	query := r.db.WithContext(ctx).
		Where("tenant_id = ? AND attendance_date >= ? AND attendance_date <= ?", tenantID, dayOf(from), dayOf(to))
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if err := query.Order("attendance_date ASC, check_in_at ASC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// CountPresentOnDate counts employees who checked in on the day, late or not
func (r *GormAttendanceRepository) CountPresentOnDate(ctx context.Context, tenantID uuid.UUID, date time.Time) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&hr.Attendance{}).
		Where("tenant_id = ? AND attendance_date = ? AND status IN ?", tenantID, dayOf(date),
			[]hr.AttendanceStatus{hr.AttendancePresent, hr.AttendanceLate}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an attendance record
func (r *GormAttendanceRepository) Save(ctx context.Context, a *hr.Attendance) error {
	return r.db.WithContext(ctx).Save(a).Error
}

var (
	_ hr.EmployeeRepository   = (*GormEmployeeRepository)(nil)
	_ hr.AttendanceRepository = (*GormAttendanceRepository)(nil)
)
