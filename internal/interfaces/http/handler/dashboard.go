package handler

import (
	"github.com/bergizi/backend/internal/application/dashboard"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DashboardHandler serves the SPPG dashboard and the platform console summary
type DashboardHandler struct {
	BaseHandler
	dashboardService *dashboard.Service
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *dashboard.Service) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary godoc
// @Summary      Daily operations summary
// @Description  Planned, produced and delivered portions, active deliveries, low stock, attendance and recent rating for one day
// @Tags         dashboard
// @Produce      json
// @Param        date query string false "Day, defaults to today" format(date)
// @Success      200 {object} dto.Response{data=dashboard.SummaryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /dashboard/summary [get]
func (h *DashboardHandler) Summary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter dashboard.SummaryFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	resp, err := h.dashboardService.Summary(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Events godoc
// @Summary      Recent dashboard events
// @Description  Stored realtime events of the SPPG's dashboard channel, newest first
// @Tags         dashboard
// @Produce      json
// @Param        limit query int false "Max events" default(20)
// @Success      200 {object} dto.Response{data=dashboard.EventsResponse}
// @Security     BearerAuth
// @Router       /dashboard/events [get]
func (h *DashboardHandler) Events(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter dashboard.EventsFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Platform = false
	resp, err := h.dashboardService.RecentEvents(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PlatformSummary godoc
// @Summary      Platform summary
// @Description  SPPG counts by status, total users and connected realtime clients
// @Tags         platform
// @Produce      json
// @Success      200 {object} dto.Response{data=dashboard.PlatformSummaryResponse}
// @Security     BearerAuth
// @Router       /platform/summary [get]
func (h *DashboardHandler) PlatformSummary(c *gin.Context) {
	resp, err := h.dashboardService.PlatformSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// PlatformEvents godoc
// @Summary      Recent platform events
// @Tags         platform
// @Produce      json
// @Param        limit query int false "Max events" default(20)
// @Success      200 {object} dto.Response{data=dashboard.EventsResponse}
// @Security     BearerAuth
// @Router       /platform/events [get]
func (h *DashboardHandler) PlatformEvents(c *gin.Context) {
	var filter dashboard.EventsFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	filter.Platform = true
	resp, err := h.dashboardService.RecentEvents(c.Request.Context(), uuid.Nil, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
