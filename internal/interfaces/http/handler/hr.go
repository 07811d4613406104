package handler

import (
	"github.com/bergizi/backend/internal/application/hr"
	"github.com/gin-gonic/gin"
)

// HRHandler serves employees and their attendance
type HRHandler struct {
	BaseHandler
	employeeService   *hr.EmployeeService
	attendanceService *hr.AttendanceService
}

// NewHRHandler creates a new HR handler
func NewHRHandler(employeeService *hr.EmployeeService, attendanceService *hr.AttendanceService) *HRHandler {
	return &HRHandler{
		employeeService:   employeeService,
		attendanceService: attendanceService,
	}
}

// CreateEmployee godoc
// @Summary      Create employee
// @Description  The employee code is generated when omitted
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        request body hr.EmployeeRequest true "Employee"
// @Success      201 {object} dto.Response{data=hr.EmployeeResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees [post]
func (h *HRHandler) CreateEmployee(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req hr.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.employeeService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetEmployee godoc
// @Summary      Get employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=hr.EmployeeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [get]
func (h *HRHandler) GetEmployee(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.employeeService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Param        search query string false "Search code, NIK or name"
// @Param        department query string false "Department"
// @Param        employment_type query string false "Employment type"
// @Param        status query string false "Status" Enums(active, inactive)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]hr.EmployeeResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /employees [get]
func (h *HRHandler) ListEmployees(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter hr.EmployeeListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.employeeService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdateEmployee godoc
// @Summary      Update employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Param        request body hr.EmployeeRequest true "Employee"
// @Success      200 {object} dto.Response{data=hr.EmployeeResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /employees/{id} [put]
func (h *HRHandler) UpdateEmployee(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req hr.EmployeeRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.employeeService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeactivateEmployee godoc
// @Summary      Deactivate employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=hr.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees/{id}/deactivate [post]
func (h *HRHandler) DeactivateEmployee(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.employeeService.Deactivate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ActivateEmployee godoc
// @Summary      Activate employee
// @Tags         employees
// @Produce      json
// @Param        id path string true "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=hr.EmployeeResponse}
// @Security     BearerAuth
// @Router       /employees/{id}/activate [post]
func (h *HRHandler) ActivateEmployee(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.employeeService.Activate(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CheckIn godoc
// @Summary      Check in
// @Description  Marked late after shift start plus the grace period
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body hr.CheckInRequest true "Employee"
// @Success      201 {object} dto.Response{data=hr.AttendanceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/check-in [post]
func (h *HRHandler) CheckIn(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req hr.CheckInRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.attendanceService.CheckIn(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CheckOut godoc
// @Summary      Check out
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body hr.CheckOutRequest true "Employee"
// @Success      200 {object} dto.Response{data=hr.AttendanceResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/check-out [post]
func (h *HRHandler) CheckOut(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req hr.CheckOutRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.attendanceService.CheckOut(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RecordAbsence godoc
// @Summary      Record absence
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        request body hr.AbsenceRequest true "Absence"
// @Success      201 {object} dto.Response{data=hr.AttendanceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /attendance/absence [post]
func (h *HRHandler) RecordAbsence(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req hr.AbsenceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.attendanceService.RecordAbsence(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// ListAttendance godoc
// @Summary      List attendance
// @Tags         attendance
// @Produce      json
// @Param        from query string true "From date" format(date)
// @Param        to query string true "To date" format(date)
// @Param        employee_id query string false "Employee ID" format(uuid)
// @Param        status query string false "Status" Enums(present, late, absent, leave, sick)
// @Success      200 {object} dto.Response{data=[]hr.AttendanceResponse}
// @Security     BearerAuth
// @Router       /attendance [get]
func (h *HRHandler) ListAttendance(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter hr.AttendanceRangeFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, err := h.attendanceService.ListAttendance(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// AttendanceSummary godoc
// @Summary      Attendance summary
// @Description  Counts by status and total work hours in the range
// @Tags         attendance
// @Produce      json
// @Param        from query string true "From date" format(date)
// @Param        to query string true "To date" format(date)
// @Param        employee_id query string false "Employee ID" format(uuid)
// @Success      200 {object} dto.Response{data=hr.SummaryResponse}
// @Security     BearerAuth
// @Router       /attendance/summary [get]
func (h *HRHandler) AttendanceSummary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter hr.AttendanceRangeFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	resp, err := h.attendanceService.Summary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
