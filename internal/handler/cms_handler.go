package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kalasetu/workshop-api/internal/service"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
	"github.com/kalasetu/workshop-api/pkg/response"
)

// CMSHandler exposes the thin admin CMS: quotes, email templates, mentors,
// the sent-email log and roster exports.
type CMSHandler struct {
	cms *service.CMSService
}

// NewCMSHandler constructs CMSHandler.
func NewCMSHandler(cms *service.CMSService) *CMSHandler {
	return &CMSHandler{cms: cms}
}

// ListQuotes godoc
// @Summary List quotes
// @Tags Admin
// @Produce json
// @Param active query bool false "Only active quotes"
// @Success 200 {object} response.Envelope
// @Router /admin/quotes [get]
func (h *CMSHandler) ListQuotes(c *gin.Context) {
	quotes, err := h.cms.ListQuotes(c.Request.Context(), c.Query("active") == "true")
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quotes, nil)
}

// CreateQuote godoc
// @Summary Create a quote
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/quotes [post]
func (h *CMSHandler) CreateQuote(c *gin.Context) {
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	quote, err := h.cms.CreateQuote(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, quote)
}

// UpdateQuote godoc
// @Summary Update a quote
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Quote ID"
// @Success 200 {object} response.Envelope
// @Router /admin/quotes/{id} [put]
func (h *CMSHandler) UpdateQuote(c *gin.Context) {
	var req service.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	quote, err := h.cms.UpdateQuote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, quote, nil)
}

// DeleteQuote godoc
// @Summary Delete a quote
// @Tags Admin
// @Param id path string true "Quote ID"
// @Success 204
// @Router /admin/quotes/{id} [delete]
func (h *CMSHandler) DeleteQuote(c *gin.Context) {
	if err := h.cms.DeleteQuote(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListTemplates godoc
// @Summary List email templates
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/email-templates [get]
func (h *CMSHandler) ListTemplates(c *gin.Context) {
	templates, err := h.cms.ListTemplates(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, templates, nil)
}

// SaveTemplate godoc
// @Summary Create or replace an email template by name
// @Tags Admin
// @Accept json
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/email-templates [put]
func (h *CMSHandler) SaveTemplate(c *gin.Context) {
	var req service.TemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	template, err := h.cms.SaveTemplate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, template, nil)
}

// DeleteTemplate godoc
// @Summary Delete an email template
// @Tags Admin
// @Param id path string true "Template ID"
// @Success 204
// @Router /admin/email-templates/{id} [delete]
func (h *CMSHandler) DeleteTemplate(c *gin.Context) {
	if err := h.cms.DeleteTemplate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListEmails godoc
// @Summary List recently sent emails
// @Tags Admin
// @Produce json
// @Param limit query int false "Max entries"
// @Success 200 {object} response.Envelope
// @Router /admin/emails [get]
func (h *CMSHandler) ListEmails(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		limit = 50
	}
	emails, err := h.cms.ListEmails(c.Request.Context(), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, emails, nil)
}

// ListMentors godoc
// @Summary List mentors
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/mentors [get]
func (h *CMSHandler) ListMentors(c *gin.Context) {
	mentors, err := h.cms.ListMentors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentors, nil)
}

// CreateMentor godoc
// @Summary Create a mentor
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/mentors [post]
func (h *CMSHandler) CreateMentor(c *gin.Context) {
	var req service.MentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	mentor, err := h.cms.CreateMentor(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mentor)
}

// UpdateMentor godoc
// @Summary Update a mentor
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Mentor ID"
// @Success 200 {object} response.Envelope
// @Router /admin/mentors/{id} [put]
func (h *CMSHandler) UpdateMentor(c *gin.Context) {
	var req service.MentorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	mentor, err := h.cms.UpdateMentor(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mentor, nil)
}

// DeleteMentor godoc
// @Summary Delete a mentor
// @Tags Admin
// @Param id path string true "Mentor ID"
// @Success 204
// @Router /admin/mentors/{id} [delete]
func (h *CMSHandler) DeleteMentor(c *gin.Context) {
	if err := h.cms.DeleteMentor(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ExportRoster godoc
// @Summary Export a batch roster as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param id path string true "Batch ID"
// @Param format query string true "csv or pdf"
// @Success 200
// @Router /admin/batches/{id}/roster/export [get]
func (h *CMSHandler) ExportRoster(c *gin.Context) {
	export, err := h.cms.ExportRoster(c.Request.Context(), c.Param("id"), c.DefaultQuery("format", "csv"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+export.Filename)
	c.Data(http.StatusOK, export.ContentType, export.Content)
}
