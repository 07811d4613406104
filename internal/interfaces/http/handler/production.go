package handler

import (
	"github.com/bergizi/backend/internal/application/production"
	"github.com/gin-gonic/gin"
)

// ProductionHandler drives production batches through the kitchen
type ProductionHandler struct {
	BaseHandler
	productionService *production.ProductionService
}

// NewProductionHandler creates a new production handler
func NewProductionHandler(productionService *production.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// Create godoc
// @Summary      Plan production batch
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        request body production.CreateProductionRequest true "Batch"
// @Success      201 {object} dto.Response{data=production.ProductionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions [post]
func (h *ProductionHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req production.CreateProductionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productionService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get production batch
// @Tags         production
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} dto.Response{data=production.ProductionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions/{id} [get]
func (h *ProductionHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.productionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List production batches
// @Tags         production
// @Produce      json
// @Param        search query string false "Search batch number"
// @Param        status query string false "Status" Enums(planned, preparing, cooking, quality_check, completed, cancelled)
// @Param        menu_id query string false "Menu ID" format(uuid)
// @Param        date query string false "Production date" format(date)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]production.ProductionResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /productions [get]
func (h *ProductionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter production.ProductionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.productionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Start godoc
// @Summary      Start preparation
// @Description  Consumes the menu ingredients for the planned portions from inventory
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body production.StartRequest true "Head cook"
// @Success      200 {object} dto.Response{data=production.ProductionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions/{id}/start [post]
func (h *ProductionHandler) Start(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req production.StartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productionService.Start(c.Request.Context(), tenantID, id, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cook godoc
// @Summary      Move batch to cooking
// @Tags         production
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Success      200 {object} dto.Response{data=production.ProductionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions/{id}/cook [post]
func (h *ProductionHandler) Cook(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.productionService.AdvanceToCooking(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// QualityCheck godoc
// @Summary      Record quality check
// @Description  A failed check returns the batch to cooking
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body production.QualityCheckRequest true "QC result"
// @Success      200 {object} dto.Response{data=production.ProductionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions/{id}/quality-check [post]
func (h *ProductionHandler) QualityCheck(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	checkerID, ok := h.user(c)
	if !ok {
		return
	}
	var req production.QualityCheckRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productionService.SubmitQualityCheck(c.Request.Context(), tenantID, id, checkerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Complete godoc
// @Summary      Complete batch
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body production.CompleteRequest true "Actual portions"
// @Success      200 {object} dto.Response{data=production.ProductionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions/{id}/complete [post]
func (h *ProductionHandler) Complete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req production.CompleteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productionService.Complete(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel batch
// @Tags         production
// @Accept       json
// @Produce      json
// @Param        id path string true "Batch ID" format(uuid)
// @Param        request body production.CancelRequest true "Reason"
// @Success      200 {object} dto.Response{data=production.ProductionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /productions/{id}/cancel [post]
func (h *ProductionHandler) Cancel(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req production.CancelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.productionService.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
