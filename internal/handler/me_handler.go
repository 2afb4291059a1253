package handler

import (
	"net/http"

	"travelkang/internal/middleware"
	"travelkang/internal/repository"
	"travelkang/internal/service"
	"travelkang/pkg/logger"

	"github.com/gin-gonic/gin"
)

type MeHandler struct {
	users        *repository.UserRepository
	orders       *repository.OrderRepository
	credits      *service.CreditService
	entitlements *service.EntitlementResolver
}

func NewMeHandler(
	users *repository.UserRepository,
	orders *repository.OrderRepository,
	credits *service.CreditService,
	entitlements *service.EntitlementResolver,
) *MeHandler {
	return &MeHandler{users: users, orders: orders, credits: credits, entitlements: entitlements}
}

// Profile returns the authenticated user with their current credit balance.
func (h *MeHandler) Profile(c *gin.Context) {
	userUUID := middleware.GetUserUUID(c)
	u, err := h.users.GetByUUID(userUUID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	balance, err := h.credits.Balance(userUUID)
	if err != nil {
		logger.Errorf("me: credit balance for %s: %v", userUUID, err)
		balance = 0
	}
	c.JSON(http.StatusOK, gin.H{"user": u, "credits": balance})
}

// Orders lists the caller's orders, newest first.
func (h *MeHandler) Orders(c *gin.Context) {
	userUUID := middleware.GetUserUUID(c)
	orders, err := h.orders.ListByUserUUID(userUUID)
	if err != nil {
		logger.Errorf("me: list orders for %s: %v", userUUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load orders"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

// Entitlements recomputes the caller's entitlements from their paid orders.
func (h *MeHandler) Entitlements(c *gin.Context) {
	userUUID := middleware.GetUserUUID(c)
	snap, err := h.entitlements.Resolve(userUUID)
	if err != nil {
		logger.Errorf("me: resolve entitlements for %s: %v", userUUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve entitlements"})
		return
	}
	c.JSON(http.StatusOK, snap)
}
