package handler

import (
	"net/http"

	"travelkang/internal/domain"
	"travelkang/internal/middleware"
	"travelkang/internal/service"
	"travelkang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	svc *service.CheckoutService
}

func NewCheckoutHandler(svc *service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{svc: svc}
}

type CheckoutRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// Products lists the purchasable catalog.
func (h *CheckoutHandler) Products(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"products": domain.CatalogList()})
}

// Create opens a provider checkout session for the caller and returns the
// redirect URL alongside the pending order number.
func (h *CheckoutHandler) Create(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userUUID := middleware.GetUserUUID(c)
	email := middleware.GetEmail(c)
	order, url, err := h.svc.CreateCheckout(c.Request.Context(), userUUID, email, domain.ProductID(req.ProductID))
	if err != nil {
		if err == service.ErrUnknownProduct {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown product"})
			return
		}
		logger.Errorf("checkout: create session for %s product %s: %v", userUUID, req.ProductID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create checkout session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"order_no": order.OrderNo, "checkout_url": url})
}
