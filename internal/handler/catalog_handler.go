package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kalasetu/workshop-api/internal/service"
	appErrors "github.com/kalasetu/workshop-api/pkg/errors"
	"github.com/kalasetu/workshop-api/pkg/response"
)

// CatalogHandler exposes the public catalog and the admin workshop/batch
// management endpoints.
type CatalogHandler struct {
	catalog *service.CatalogService
}

// NewCatalogHandler constructs CatalogHandler.
func NewCatalogHandler(catalog *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// ListWorkshops godoc
// @Summary List active workshops
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /workshops [get]
func (h *CatalogHandler) ListWorkshops(c *gin.Context) {
	workshops, err := h.catalog.ListWorkshops(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshops, nil)
}

// GetWorkshop godoc
// @Summary Get workshop detail
// @Tags Catalog
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id} [get]
func (h *CatalogHandler) GetWorkshop(c *gin.Context) {
	workshop, err := h.catalog.GetWorkshop(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshop, nil)
}

// AvailableBatches godoc
// @Summary List available batches grouped by date
// @Tags Catalog
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /workshops/{id}/batches [get]
func (h *CatalogHandler) AvailableBatches(c *gin.Context) {
	days, err := h.catalog.AvailableBatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// ListAllWorkshops godoc
// @Summary List all workshops including inactive
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /admin/workshops [get]
func (h *CatalogHandler) ListAllWorkshops(c *gin.Context) {
	workshops, err := h.catalog.ListAllWorkshops(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshops, nil)
}

// CreateWorkshop godoc
// @Summary Create a workshop
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/workshops [post]
func (h *CatalogHandler) CreateWorkshop(c *gin.Context) {
	var req service.WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	workshop, err := h.catalog.CreateWorkshop(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, workshop)
}

// UpdateWorkshop godoc
// @Summary Update a workshop
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /admin/workshops/{id} [put]
func (h *CatalogHandler) UpdateWorkshop(c *gin.Context) {
	var req service.WorkshopRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	workshop, err := h.catalog.UpdateWorkshop(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workshop, nil)
}

// DeleteWorkshop godoc
// @Summary Delete a workshop
// @Tags Admin
// @Param id path string true "Workshop ID"
// @Success 204
// @Router /admin/workshops/{id} [delete]
func (h *CatalogHandler) DeleteWorkshop(c *gin.Context) {
	if err := h.catalog.DeleteWorkshop(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBatches godoc
// @Summary List all batches for a workshop
// @Tags Admin
// @Produce json
// @Param id path string true "Workshop ID"
// @Success 200 {object} response.Envelope
// @Router /admin/workshops/{id}/batches [get]
func (h *CatalogHandler) ListBatches(c *gin.Context) {
	batches, err := h.catalog.ListBatches(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batches, nil)
}

// CreateBatch godoc
// @Summary Schedule a batch
// @Tags Admin
// @Accept json
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /admin/batches [post]
func (h *CatalogHandler) CreateBatch(c *gin.Context) {
	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	batch, err := h.catalog.CreateBatch(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, batch)
}

// UpdateBatch godoc
// @Summary Update a batch
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "Batch ID"
// @Success 200 {object} response.Envelope
// @Router /admin/batches/{id} [put]
func (h *CatalogHandler) UpdateBatch(c *gin.Context) {
	var req service.BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid request body"))
		return
	}
	batch, err := h.catalog.UpdateBatch(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, batch, nil)
}

// DeleteBatch godoc
// @Summary Delete a batch
// @Tags Admin
// @Param id path string true "Batch ID"
// @Success 204
// @Router /admin/batches/{id} [delete]
func (h *CatalogHandler) DeleteBatch(c *gin.Context) {
	if err := h.catalog.DeleteBatch(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
