package handler

import (
	"github.com/bergizi/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// InventoryHandler serves inventory items and stock movements
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventory.InventoryService
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(inventoryService *inventory.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// Create godoc
// @Summary      Create inventory item
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventory.CreateItemRequest true "Item"
// @Success      201 {object} dto.Response{data=inventory.ItemResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/items [post]
func (h *InventoryHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req inventory.CreateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get inventory item
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventory.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/items/{id} [get]
func (h *InventoryHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.inventoryService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List inventory items
// @Tags         inventory
// @Produce      json
// @Param        search query string false "Search code or name"
// @Param        category query string false "Category"
// @Param        is_active query bool false "Active flag"
// @Param        low_stock query bool false "Only items below min stock"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventory.ItemResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /inventory/items [get]
func (h *InventoryHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventory.ItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.inventoryService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// LowStock godoc
// @Summary      Items below min stock
// @Tags         inventory
// @Produce      json
// @Success      200 {object} dto.Response{data=[]inventory.ItemResponse}
// @Security     BearerAuth
// @Router       /inventory/low-stock [get]
func (h *InventoryHandler) LowStock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	list, err := h.inventoryService.ListLowStock(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, list)
}

// Update godoc
// @Summary      Update inventory item
// @Description  Stock levels change only through movements
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventory.UpdateItemRequest true "Changes"
// @Success      200 {object} dto.Response{data=inventory.ItemResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/items/{id} [put]
func (h *InventoryHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req inventory.UpdateItemRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete inventory item
// @Tags         inventory
// @Param        id path string true "Item ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/items/{id} [delete]
func (h *InventoryHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.inventoryService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// StockIn godoc
// @Summary      Receive stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventory.StockRequest true "Quantity"
// @Success      201 {object} dto.Response{data=inventory.MovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/items/{id}/stock-in [post]
func (h *InventoryHandler) StockIn(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req inventory.StockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.StockIn(c.Request.Context(), tenantID, id, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// StockOut godoc
// @Summary      Issue stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventory.StockRequest true "Quantity"
// @Success      201 {object} dto.Response{data=inventory.MovementResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo} "INSUFFICIENT_STOCK"
// @Security     BearerAuth
// @Router       /inventory/items/{id}/stock-out [post]
func (h *InventoryHandler) StockOut(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req inventory.StockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.StockOut(c.Request.Context(), tenantID, id, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Adjust godoc
// @Summary      Set stock level
// @Description  Sets the absolute stock, for example after a stock count
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Item ID" format(uuid)
// @Param        request body inventory.AdjustRequest true "New stock level"
// @Success      201 {object} dto.Response{data=inventory.MovementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/items/{id}/adjust [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req inventory.AdjustRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.inventoryService.Adjust(c.Request.Context(), tenantID, id, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Movements godoc
// @Summary      List stock movements
// @Tags         inventory
// @Produce      json
// @Param        item_id query string false "Item ID" format(uuid)
// @Param        type query string false "Movement type" Enums(in, out, adjustment)
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventory.MovementResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /inventory/movements [get]
func (h *InventoryHandler) Movements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter inventory.MovementListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.inventoryService.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}
