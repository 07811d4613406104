package handler

import (
	"github.com/bergizi/backend/internal/application/menu"
	"github.com/gin-gonic/gin"
)

// MenuHandler serves menus, their nutrition and menu plans
type MenuHandler struct {
	BaseHandler
	menuService *menu.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *menu.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// Create godoc
// @Summary      Create menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        request body menu.CreateMenuRequest true "Menu"
// @Success      201 {object} dto.Response{data=menu.MenuResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus [post]
func (h *MenuHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req menu.CreateMenuRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.menuService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get menu
// @Tags         menus
// @Produce      json
// @Param        id path string true "Menu ID" format(uuid)
// @Success      200 {object} dto.Response{data=menu.MenuResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus/{id} [get]
func (h *MenuHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.menuService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List menus
// @Tags         menus
// @Produce      json
// @Param        search query string false "Search code or name"
// @Param        meal_type query string false "Meal type" Enums(breakfast, lunch, snack)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]menu.MenuResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /menus [get]
func (h *MenuHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter menu.MenuListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.menuService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update menu
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        id path string true "Menu ID" format(uuid)
// @Param        request body menu.UpdateMenuRequest true "Changes"
// @Success      200 {object} dto.Response{data=menu.MenuResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus/{id} [put]
func (h *MenuHandler) Update(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req menu.UpdateMenuRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.menuService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete menu
// @Tags         menus
// @Param        id path string true "Menu ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus/{id} [delete]
func (h *MenuHandler) Delete(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.menuService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SetIngredients godoc
// @Summary      Replace menu ingredients
// @Description  Ingredient quantities describe one portion
// @Tags         menus
// @Accept       json
// @Produce      json
// @Param        id path string true "Menu ID" format(uuid)
// @Param        request body menu.SetIngredientsRequest true "Ingredients"
// @Success      200 {object} dto.Response{data=menu.MenuResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus/{id}/ingredients [put]
func (h *MenuHandler) SetIngredients(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req menu.SetIngredientsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.menuService.SetIngredients(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Nutrition godoc
// @Summary      Calculate menu nutrition
// @Description  Totals for the given number of portions, per-portion values and, with a level, AKG compliance
// @Tags         menus
// @Produce      json
// @Param        id path string true "Menu ID" format(uuid)
// @Param        portions query int false "Portions" default(1)
// @Param        level query string false "School level" Enums(PAUD, SD, SMP, SMA)
// @Success      200 {object} dto.Response{data=object}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus/{id}/nutrition [get]
func (h *MenuHandler) Nutrition(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req menu.NutritionRequest
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.menuService.CalculateNutrition(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// PrintCard godoc
// @Summary      Print menu card
// @Description  One-portion menu card as PDF, compared with the AKG of the given level
// @Tags         menus
// @Produce      application/pdf
// @Param        id path string true "Menu ID" format(uuid)
// @Param        level query string false "School level" Enums(PAUD, SD, SMP, SMA)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menus/{id}/card.pdf [get]
func (h *MenuHandler) PrintCard(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req menu.NutritionRequest
	if !h.bindQuery(c, &req) {
		return
	}
	doc, err := h.menuService.PrintMenuCard(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.PDF(c, doc.FileName, doc.PDF)
}

// CreatePlan godoc
// @Summary      Create menu plan
// @Tags         menu-plans
// @Accept       json
// @Produce      json
// @Param        request body menu.PlanRequest true "Plan"
// @Success      201 {object} dto.Response{data=menu.PlanResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menu-plans [post]
func (h *MenuHandler) CreatePlan(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req menu.PlanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.menuService.CreatePlan(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetPlan godoc
// @Summary      Get menu plan
// @Tags         menu-plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=menu.PlanResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menu-plans/{id} [get]
func (h *MenuHandler) GetPlan(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.menuService.GetPlan(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListPlans godoc
// @Summary      List menu plans
// @Tags         menu-plans
// @Produce      json
// @Param        from query string true "From date" format(date)
// @Param        to query string true "To date" format(date)
// @Param        status query string false "Status" Enums(draft, approved)
// @Param        menu_id query string false "Menu ID" format(uuid)
// @Param        school_id query string false "School ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]menu.PlanResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /menu-plans [get]
func (h *MenuHandler) ListPlans(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter menu.PlanListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.menuService.ListPlans(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdatePlan godoc
// @Summary      Update menu plan
// @Description  Only draft plans can change
// @Tags         menu-plans
// @Accept       json
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Param        request body menu.PlanRequest true "Plan"
// @Success      200 {object} dto.Response{data=menu.PlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menu-plans/{id} [put]
func (h *MenuHandler) UpdatePlan(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req menu.PlanRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.menuService.UpdatePlan(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ApprovePlan godoc
// @Summary      Approve menu plan
// @Tags         menu-plans
// @Produce      json
// @Param        id path string true "Plan ID" format(uuid)
// @Success      200 {object} dto.Response{data=menu.PlanResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menu-plans/{id}/approve [post]
func (h *MenuHandler) ApprovePlan(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	approverID, ok := h.user(c)
	if !ok {
		return
	}
	resp, err := h.menuService.ApprovePlan(c.Request.Context(), tenantID, id, approverID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeletePlan godoc
// @Summary      Delete menu plan
// @Tags         menu-plans
// @Param        id path string true "Plan ID" format(uuid)
// @Success      204
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /menu-plans/{id} [delete]
func (h *MenuHandler) DeletePlan(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.menuService.DeletePlan(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
