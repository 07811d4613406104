package handler

import (
	"strings"

	"github.com/bergizi/backend/internal/application/feedback"
	"github.com/bergizi/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// FeedbackHandler serves feedback from schools, parents and students
type FeedbackHandler struct {
	BaseHandler
	feedbackService *feedback.FeedbackService
	maxUploadSize   int64
}

// NewFeedbackHandler creates a new feedback handler. maxUploadSize limits
// attachments, zero means the default of 5 MB.
func NewFeedbackHandler(feedbackService *feedback.FeedbackService, maxUploadSize int64) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		maxUploadSize:   maxUploadSize,
	}
}

// Submit godoc
// @Summary      Submit feedback
// @Description  Accepts JSON, or multipart form fields with an optional photo attachment
// @Tags         feedback
// @Accept       json
// @Accept       multipart/form-data
// @Produce      json
// @Param        request body feedback.SubmitRequest true "Feedback"
// @Param        attachment formData file false "Photo"
// @Success      201 {object} dto.Response{data=feedback.FeedbackResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /feedback [post]
func (h *FeedbackHandler) Submit(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}

	var req feedback.SubmitRequest
	if err := c.ShouldBind(&req); err != nil {
		middleware.HandleValidationError(c, err)
		return
	}

	var attachment *feedback.Attachment
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		file, ok := h.formFile(c, "attachment", h.maxUploadSize, false)
		if !ok {
			return
		}
		if file != nil {
			defer file.Close()
			attachment = &feedback.Attachment{Body: file.body, ContentType: file.contentType}
		}
	}

	resp, err := h.feedbackService.Submit(c.Request.Context(), tenantID, req, attachment)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Get godoc
// @Summary      Get feedback
// @Tags         feedback
// @Produce      json
// @Param        id path string true "Feedback ID" format(uuid)
// @Success      200 {object} dto.Response{data=feedback.FeedbackResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /feedback/{id} [get]
func (h *FeedbackHandler) Get(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.feedbackService.GetByID(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Attachment godoc
// @Summary      Get feedback attachment
// @Description  A presigned link to the attached photo
// @Tags         feedback
// @Produce      json
// @Param        id path string true "Feedback ID" format(uuid)
// @Success      200 {object} dto.Response{data=feedback.AttachmentResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /feedback/{id}/attachment [get]
func (h *FeedbackHandler) Attachment(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.feedbackService.GetAttachment(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List godoc
// @Summary      List feedback
// @Tags         feedback
// @Produce      json
// @Param        search query string false "Search comment"
// @Param        status query string false "Status" Enums(new, in_review, resolved)
// @Param        category query string false "Category" Enums(taste, portion, hygiene, delivery, other)
// @Param        source query string false "Source" Enums(student, parent, teacher, school)
// @Param        school_id query string false "School ID" format(uuid)
// @Param        rating query int false "Rating"
// @Param        page query int false "Page" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]feedback.FeedbackResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /feedback [get]
func (h *FeedbackHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter feedback.FeedbackListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	list, total, err := h.feedbackService.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, list, total, filter.Page, filter.PageSize)
}

// Review godoc
// @Summary      Take feedback into review
// @Tags         feedback
// @Produce      json
// @Param        id path string true "Feedback ID" format(uuid)
// @Success      200 {object} dto.Response{data=feedback.FeedbackResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /feedback/{id}/review [post]
func (h *FeedbackHandler) Review(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	resp, err := h.feedbackService.Review(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Respond godoc
// @Summary      Respond to feedback
// @Description  Stores the response and resolves the feedback
// @Tags         feedback
// @Accept       json
// @Produce      json
// @Param        id path string true "Feedback ID" format(uuid)
// @Param        request body feedback.RespondRequest true "Response"
// @Success      200 {object} dto.Response{data=feedback.FeedbackResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /feedback/{id}/respond [post]
func (h *FeedbackHandler) Respond(c *gin.Context) {
	tenantID, id, ok := h.tenantAndID(c)
	if !ok {
		return
	}
	responderID, ok := h.user(c)
	if !ok {
		return
	}
	var req feedback.RespondRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.feedbackService.Respond(c.Request.Context(), tenantID, id, responderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Stats godoc
// @Summary      Feedback statistics
// @Description  Average rating and counts per category and status
// @Tags         feedback
// @Produce      json
// @Param        from query string false "From date" format(date)
// @Param        to query string false "To date" format(date)
// @Success      200 {object} dto.Response{data=feedback.StatsResponse}
// @Security     BearerAuth
// @Router       /feedback/stats [get]
func (h *FeedbackHandler) Stats(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var filter feedback.StatsFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	resp, err := h.feedbackService.Stats(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
