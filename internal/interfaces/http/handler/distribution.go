package handler

import (
	"github.com/bergizi/backend/internal/application/distribution"
	"github.com/gin-gonic/gin"
)

// DistributionHandler serves schools and meal deliveries
type DistributionHandler struct {
	BaseHandler
	schoolService       *distribution.SchoolService
	distributionService *distribution.DistributionService
	maxUploadSize       int64
}

// NewDistributionHandler creates a new distribution handler. maxUploadSize
// limits proof photos, zero means the default of 5 MB.
func NewDistributionHandler(schoolService *distribution.SchoolService, distributionService *distribution.DistributionService, maxUploadSize int64) *DistributionHandler {
	return &DistributionHandler{
		schoolService:       schoolService,
		distributionService: distributionService,
		maxUploadSize:       maxUploadSize,
	}
}

// CreateSchool godoc
// @Summary      Register school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        request body distribution.SchoolRequest true "School"
// @Success      201 {object} dto.Response{data=distribution.SchoolResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /schools [post]
func (h *DistributionHandler) CreateSchool(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req distribution.SchoolRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.schoolService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// GetSchool godoc
// @Summary      Get school
// @Tags         schools
// @Produce      json
// @Param        id path string true "School ID" format(uuid)
// @Success      200 {object} dto.Response{data=distribution.SchoolResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /schools/{id} [get]
func (h *DistributionHandler) GetSchool(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.schoolService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ListSchools godoc
// @Summary      List schools
// @Tags         schools
// @Produce      json
// @Param        search query string false "Search name or NPSN"
// @Param        level query string false "Level" Enums(PAUD, SD, SMP, SMA)
// @Param        is_active query bool false "Active flag"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]distribution.SchoolResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /schools [get]
func (h *DistributionHandler) ListSchools(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter distribution.SchoolListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.schoolService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// UpdateSchool godoc
// @Summary      Update school
// @Tags         schools
// @Accept       json
// @Produce      json
// @Param        id path string true "School ID" format(uuid)
// @Param        request body distribution.SchoolRequest true "School"
// @Success      200 {object} dto.Response{data=distribution.SchoolResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /schools/{id} [put]
func (h *DistributionHandler) UpdateSchool(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req distribution.SchoolRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.schoolService.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteSchool godoc
// @Summary      Delete school
// @Description  Schools with deliveries cannot be deleted
// @Tags         schools
// @Param        id path string true "School ID" format(uuid)
// @Success      204
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /schools/{id} [delete]
func (h *DistributionHandler) DeleteSchool(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	if err := h.schoolService.Delete(c.Request.Context(), tenantID, id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Create godoc
// @Summary      Schedule delivery
// @Description  Portions default to the school's student count
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        request body distribution.CreateDistributionRequest true "Delivery"
// @Success      201 {object} dto.Response{data=distribution.DistributionResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions [post]
func (h *DistributionHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req distribution.CreateDistributionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.distributionService.Create(c.Request.Context(), tenantID, actor(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get delivery
// @Tags         distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} dto.Response{data=distribution.DistributionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id} [get]
func (h *DistributionHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.distributionService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List deliveries
// @Tags         distributions
// @Produce      json
// @Param        search query string false "Search delivery number"
// @Param        status query string false "Status" Enums(scheduled, preparing, in_transit, delivered, cancelled)
// @Param        school_id query string false "School ID" format(uuid)
// @Param        production_id query string false "Production ID" format(uuid)
// @Param        date query string false "Scheduled date" format(date)
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]distribution.DistributionResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /distributions [get]
func (h *DistributionHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter distribution.DistributionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.distributionService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Prepare godoc
// @Summary      Start loading delivery
// @Tags         distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} dto.Response{data=distribution.DistributionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/prepare [post]
func (h *DistributionHandler) Prepare(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.distributionService.Prepare(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Depart godoc
// @Summary      Vehicle departs
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body distribution.DepartRequest true "Driver and vehicle"
// @Success      200 {object} dto.Response{data=distribution.DistributionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/depart [post]
func (h *DistributionHandler) Depart(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req distribution.DepartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.distributionService.Depart(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deliver godoc
// @Summary      Confirm hand-over
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body distribution.DeliverRequest true "Recipient"
// @Success      200 {object} dto.Response{data=distribution.DistributionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/deliver [post]
func (h *DistributionHandler) Deliver(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req distribution.DeliverRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.distributionService.Deliver(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel delivery
// @Tags         distributions
// @Accept       json
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        request body distribution.CancelRequest true "Reason"
// @Success      200 {object} dto.Response{data=distribution.DistributionResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/cancel [post]
func (h *DistributionHandler) Cancel(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	var req distribution.CancelRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.distributionService.Cancel(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadProof godoc
// @Summary      Upload proof of delivery
// @Description  Stores the photo in object storage and returns a presigned link. A new upload replaces the old photo.
// @Tags         distributions
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Param        photo formData file true "JPEG, PNG or WebP photo"
// @Success      200 {object} dto.Response{data=distribution.ProofResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/proof [post]
func (h *DistributionHandler) UploadProof(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	photo, ok := h.formFile(c, "photo", h.maxUploadSize, true)
	if !ok {
		return
	}
	defer photo.Close()

	resp, err := h.distributionService.UploadProof(c.Request.Context(), tenantID, id, photo.body, photo.contentType)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetProof godoc
// @Summary      Get proof of delivery
// @Description  A fresh presigned link to the stored photo
// @Tags         distributions
// @Produce      json
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {object} dto.Response{data=distribution.ProofResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/proof [get]
func (h *DistributionHandler) GetProof(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.distributionService.GetProof(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeliveryNote godoc
// @Summary      Print delivery note
// @Description  Surat jalan as PDF
// @Tags         distributions
// @Produce      application/pdf
// @Param        id path string true "Distribution ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      503 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /distributions/{id}/delivery-note.pdf [get]
func (h *DistributionHandler) DeliveryNote(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	doc, err := h.distributionService.PrintDeliveryNote(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.PDF(c, doc.FileName, doc.PDF)
}
