package handler

import (
	"github.com/bergizi/backend/internal/application/sppg"
	"github.com/gin-gonic/gin"
)

// SPPGHandler is the platform console's SPPG registry
type SPPGHandler struct {
	BaseHandler
	sppgService *sppg.SPPGService
}

// NewSPPGHandler creates a new SPPG handler
func NewSPPGHandler(sppgService *sppg.SPPGService) *SPPGHandler {
	return &SPPGHandler{sppgService: sppgService}
}

// Create godoc
// @Summary      Register SPPG
// @Description  Register a new SPPG in pending status, optionally with its Kepala SPPG account
// @Tags         sppg
// @Accept       json
// @Produce      json
// @Param        request body sppg.CreateSPPGRequest true "SPPG"
// @Success      201 {object} dto.Response{data=sppg.SPPGResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /platform/sppg [post]
func (h *SPPGHandler) Create(c *gin.Context) {
	var req sppg.CreateSPPGRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.sppgService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get SPPG
// @Tags         sppg
// @Produce      json
// @Param        id path string true "SPPG ID" format(uuid)
// @Success      200 {object} dto.Response{data=sppg.SPPGResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /platform/sppg/{id} [get]
func (h *SPPGHandler) Get(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.sppgService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode godoc
// @Summary      Get SPPG by code
// @Tags         sppg
// @Produce      json
// @Param        code path string true "SPPG code"
// @Success      200 {object} dto.Response{data=sppg.SPPGResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /platform/sppg/code/{code} [get]
func (h *SPPGHandler) GetByCode(c *gin.Context) {
	resp, err := h.sppgService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List SPPG
// @Tags         sppg
// @Produce      json
// @Param        search query string false "Search code or name"
// @Param        status query string false "Status" Enums(pending, active, suspended)
// @Param        plan query string false "Plan" Enums(demo, basic, pro)
// @Param        province query string false "Province"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]sppg.SPPGResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /platform/sppg [get]
func (h *SPPGHandler) List(c *gin.Context) {
	var filter sppg.SPPGListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.sppgService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update SPPG
// @Tags         sppg
// @Accept       json
// @Produce      json
// @Param        id path string true "SPPG ID" format(uuid)
// @Param        request body sppg.UpdateSPPGRequest true "Changes"
// @Success      200 {object} dto.Response{data=sppg.SPPGResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /platform/sppg/{id} [put]
func (h *SPPGHandler) Update(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req sppg.UpdateSPPGRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.sppgService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate godoc
// @Summary      Activate SPPG
// @Tags         sppg
// @Produce      json
// @Param        id path string true "SPPG ID" format(uuid)
// @Success      200 {object} dto.Response{data=sppg.SPPGResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /platform/sppg/{id}/activate [post]
func (h *SPPGHandler) Activate(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.sppgService.Activate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Suspend godoc
// @Summary      Suspend SPPG
// @Description  Suspended SPPGs cannot log in or be selected as tenant
// @Tags         sppg
// @Produce      json
// @Param        id path string true "SPPG ID" format(uuid)
// @Success      200 {object} dto.Response{data=sppg.SPPGResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /platform/sppg/{id}/suspend [post]
func (h *SPPGHandler) Suspend(c *gin.Context) {
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.sppgService.Suspend(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
