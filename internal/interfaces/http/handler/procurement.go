package handler

import (
	"github.com/bergizi/backend/internal/application/procurement"
	"github.com/gin-gonic/gin"
)

// ProcurementHandler serves suppliers and procurement orders
type ProcurementHandler struct {
	BaseHandler
	supplierService *procurement.SupplierService
	orderService    *procurement.OrderService
}

// NewProcurementHandler creates a new procurement handler
func NewProcurementHandler(supplierService *procurement.SupplierService, orderService *procurement.OrderService) *ProcurementHandler {
	return &ProcurementHandler{
		supplierService: supplierService,
		orderService:    orderService,
	}
}

// CreateSupplier godoc
// @Summary      Create supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        request body procurement.CreateSupplierRequest true "Supplier"
// @Success      201 {object} dto.Response{data=procurement.SupplierResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers [post]
func (h *ProcurementHandler) CreateSupplier(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req procurement.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.supplierService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSupplier godoc
// @Summary      Get supplier
// @Tags         suppliers
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurement.SupplierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [get]
func (h *ProcurementHandler) GetSupplier(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.supplierService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSuppliers godoc
// @Summary      List suppliers
// @Tags         suppliers
// @Produce      json
// @Param        search query string false "Search code or name"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]procurement.SupplierResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /suppliers [get]
func (h *ProcurementHandler) ListSuppliers(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter procurement.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.supplierService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdateSupplier godoc
// @Summary      Update supplier
// @Tags         suppliers
// @Accept       json
// @Produce      json
// @Param        id path string true "Supplier ID" format(uuid)
// @Param        request body procurement.UpdateSupplierRequest true "Changes"
// @Success      200 {object} dto.Response{data=procurement.SupplierResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [put]
func (h *ProcurementHandler) UpdateSupplier(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req procurement.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.supplierService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSupplier godoc
// @Summary      Delete supplier
// @Description  Suppliers referenced by orders cannot be deleted
// @Tags         suppliers
// @Param        id path string true "Supplier ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /suppliers/{id} [delete]
func (h *ProcurementHandler) DeleteSupplier(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateOrder godoc
// @Summary      Create procurement order
// @Description  Orders start as draft
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        request body procurement.OrderRequest true "Order"
// @Success      201 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders [post]
func (h *ProcurementHandler) CreateOrder(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req procurement.OrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetOrder godoc
// @Summary      Get procurement order
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders/{id} [get]
func (h *ProcurementHandler) GetOrder(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.orderService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListOrders godoc
// @Summary      List procurement orders
// @Tags         procurement
// @Produce      json
// @Param        search query string false "Search order number"
// @Param        status query string false "Status" Enums(draft, submitted, approved, received, cancelled)
// @Param        supplier_id query string false "Supplier ID" format(uuid)
// @Param        from query string false "From order date" format(date)
// @Param        to query string false "To order date" format(date)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]procurement.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /procurement/orders [get]
func (h *ProcurementHandler) ListOrders(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter procurement.OrderListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.orderService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdateOrder godoc
// @Summary      Update procurement order
// @Description  Only draft orders can change
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body procurement.OrderRequest true "Order"
// @Success      200 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders/{id} [put]
func (h *ProcurementHandler) UpdateOrder(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req procurement.OrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// SubmitOrder godoc
// @Summary      Submit procurement order
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders/{id}/submit [post]
func (h *ProcurementHandler) SubmitOrder(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.orderService.Submit(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApproveOrder godoc
// @Summary      Approve procurement order
// @Tags         procurement
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders/{id}/approve [post]
func (h *ProcurementHandler) ApproveOrder(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	approverID, ok := h.user(c)
	if !ok {
		return
	}
	resp, err := h.orderService.Approve(c.Request.Context(), tenantID, id, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ReceiveOrder godoc
// @Summary      Receive procurement order
// @Description  Books a stock-in per line in one transaction. Received quantities are capped at the ordered quantity.
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body procurement.ReceiveRequest true "Received lines"
// @Success      200 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders/{id}/receive [post]
func (h *ProcurementHandler) ReceiveOrder(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req procurement.ReceiveRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Receive(c.Request.Context(), tenantID, id, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CancelOrder godoc
// @Summary      Cancel procurement order
// @Tags         procurement
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body procurement.CancelRequest true "Reason"
// @Success      200 {object} dto.Response{data=procurement.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /procurement/orders/{id}/cancel [post]
func (h *ProcurementHandler) CancelOrder(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req procurement.CancelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.orderService.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
