package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	bundleapp "github.com/storefront/backend/internal/application/bundle"
)

// BundleHandler handles the public storefront bundle endpoints. Every
// read resolves slot rules against a fresh catalog snapshot, so the
// eligible lists reflect the catalog at request time.
type BundleHandler struct {
	BaseHandler
	bundleService *bundleapp.Service
}

// NewBundleHandler creates a new BundleHandler
func NewBundleHandler(bundleService *bundleapp.Service) *BundleHandler {
	return &BundleHandler{
		bundleService: bundleService,
	}
}

// GetByProduct godoc
// @Summary      Get the bundle for a product
// @Description  Returns the enabled bundle configuration attached to a storefront product, with slots resolved against the live catalog
// @Tags         bundles
// @Produce      json
// @Param        product_id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[bundleapp.BundleView]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /bundles/product/{product_id} [get]
func (h *BundleHandler) GetByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("product_id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	view, err := h.bundleService.GetByProduct(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, view)
}

// ResolveSlots godoc
// @Summary      Resolve bundle slots
// @Description  Returns the bundle with each slot's eligible items resolved against the live catalog
// @Tags         bundles
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Success      200 {object} APIResponse[bundleapp.BundleView]
// @Failure      404 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /bundles/{id}/slots [get]
func (h *BundleHandler) ResolveSlots(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	view, err := h.bundleService.ResolveSlots(c.Request.Context(), bundleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, view)
}

// Price godoc
// @Summary      Price a selection
// @Description  Validates the shopper's selection and returns the full price breakdown, or the slot violations when the selection is rejected
// @Tags         bundles
// @Accept       json
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Param        request body bundleapp.SelectionRequest true "Slot selection"
// @Success      200 {object} APIResponse[bundle.PriceBreakdown]
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /bundles/{id}/price [post]
func (h *BundleHandler) Price(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	var req bundleapp.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	breakdown, err := h.bundleService.Price(c.Request.Context(), bundleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, breakdown)
}

// AddToCart godoc
// @Summary      Add a bundle selection to the cart
// @Description  Re-validates eligibility against the current catalog, prices the selection and freezes the breakdown into a cart line
// @Tags         bundles
// @Accept       json
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Param        X-Session-ID header string false "Shopper session (overrides body session_id)"
// @Param        request body bundleapp.AddToCartRequest true "Selection and session"
// @Success      201 {object} APIResponse[bundleapp.CartLineResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      503 {object} ErrorResponse
// @Router       /bundles/{id}/cart [post]
func (h *BundleHandler) AddToCart(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	var req bundleapp.AddToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// The session header wins over the body so clients that manage the
	// session out of band don't have to repeat it per request.
	if sessionID := getSessionID(c); sessionID != "" {
		req.SessionID = sessionID
	}
	if req.SessionID == "" {
		h.BadRequest(c, "Missing session ID")
		return
	}

	line, err := h.bundleService.AddToCart(c.Request.Context(), bundleID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, line)
}

// ShippingPolicy godoc
// @Summary      Get the bundle's shipping policy
// @Tags         bundles
// @Produce      json
// @Param        id path string true "Bundle ID" format(uuid)
// @Success      200 {object} APIResponse[bundleapp.ShippingPolicyResponse]
// @Failure      404 {object} ErrorResponse
// @Router       /bundles/{id}/shipping-policy [get]
func (h *BundleHandler) ShippingPolicy(c *gin.Context) {
	bundleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid bundle ID format")
		return
	}

	policy, err := h.bundleService.ShippingPolicy(c.Request.Context(), bundleID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, policy)
}

// GetCart godoc
// @Summary      List the session's cart lines
// @Tags         cart
// @Produce      json
// @Param        X-Session-ID header string true "Shopper session"
// @Success      200 {object} APIResponse[[]bundleapp.CartLineResponse]
// @Router       /cart [get]
func (h *BundleHandler) GetCart(c *gin.Context) {
	sessionID := getSessionID(c)
	if sessionID == "" {
		h.BadRequest(c, "Missing session ID")
		return
	}

	lines, err := h.bundleService.GetCart(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lines)
}

// RemoveCartLine godoc
// @Summary      Remove a cart line
// @Tags         cart
// @Param        id path string true "Cart line ID" format(uuid)
// @Success      204 "No Content"
// @Failure      404 {object} ErrorResponse
// @Router       /cart/lines/{id} [delete]
func (h *BundleHandler) RemoveCartLine(c *gin.Context) {
	lineID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid cart line ID format")
		return
	}

	if err := h.bundleService.RemoveCartLine(c.Request.Context(), lineID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
