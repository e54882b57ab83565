package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bundleapp "github.com/storefront/backend/internal/application/bundle"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/interfaces/http/dto"
)

// BundleAdminHandler handles the merchant-facing bundle configuration
// endpoints. All routes in this group require an authenticated admin.
type BundleAdminHandler struct {
	BaseHandler
	bundleService *bundleapp.Service
}

// NewBundleAdminHandler creates a new BundleAdminHandler
func NewBundleAdminHandler(bundleService *bundleapp.Service) *BundleAdminHandler {
	return &BundleAdminHandler{
		bundleService: bundleService,
	}
}

// Create godoc
// @Summary      Create a bundle configuration
// @Tags         admin-bundles
// @Accept       json
// @Produce      json
// @Param        request body bundleapp.CreateBundleRequest true "Bundle configuration"
// @Success      201 {object} APIResponse[bundle.BundleConfiguration]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bundles [post]
func (h *BundleAdminHandler) Create(c *gin.Context) {
	var req bundleapp.CreateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.bundleService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, cfg)
}

// List godoc
// @Summary      List bundle configurations
// @Tags         admin-bundles
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name"
// @Success      200 {object} APIResponse[[]bundle.BundleConfiguration]
// @Security     BearerAuth
// @Router       /admin/bundles [get]
func (h *BundleAdminHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := shared.Filter{
		Page:     req.Page,
		PageSize: req.PageSize,
		OrderBy:  req.OrderBy,
		OrderDir: req.OrderDir,
		Search:   req.Search,
	}

	page, err := h.bundleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @Summary      Get a bundle configuration
// @Tags         admin-bundles
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Success      200 {object} APIResponse[bundle.BundleConfiguration]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bundles/{id} [get]
func (h *BundleAdminHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	cfg, err := h.bundleService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cfg)
}

// Update godoc
// @Summary      Replace a bundle configuration
// @Description  Replaces the whole configuration record. The last write wins; there is no field-level merge.
// @Tags         admin-bundles
// @Accept       json
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Param        request body bundleapp.UpdateBundleRequest true "Replacement configuration"
// @Success      200 {object} APIResponse[bundle.BundleConfiguration]
// @Failure      404 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bundles/{id} [put]
func (h *BundleAdminHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	var req bundleapp.UpdateBundleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cfg, err := h.bundleService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cfg)
}

// Delete godoc
// @Summary      Delete a bundle configuration
// @Tags         admin-bundles
// @Param        id path string true "Bundle ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bundles/{id} [delete]
func (h *BundleAdminHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	if err := h.bundleService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Enable godoc
// @Summary      Enable a bundle configuration
// @Tags         admin-bundles
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Success      200 {object} APIResponse[bundle.BundleConfiguration]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bundles/{id}/enable [post]
func (h *BundleAdminHandler) Enable(c *gin.Context) {
	h.setEnabled(c, true)
}

// Disable godoc
// @Summary      Disable a bundle configuration
// @Description  Disabled bundles disappear from the storefront immediately. Existing cart lines keep their frozen breakdowns.
// @Tags         admin-bundles
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Success      200 {object} APIResponse[bundle.BundleConfiguration]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /admin/bundles/{id}/disable [post]
func (h *BundleAdminHandler) Disable(c *gin.Context) {
	h.setEnabled(c, false)
}

func (h *BundleAdminHandler) setEnabled(c *gin.Context, enabled bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	cfg, err := h.bundleService.SetEnabled(c.Request.Context(), id, enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, cfg)
}
