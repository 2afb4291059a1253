package handler

import (
	"net/http"

	"travelkang/internal/domain"
	"travelkang/internal/middleware"
	"travelkang/internal/service"
	"travelkang/pkg/assistant"
	"travelkang/pkg/logger"

	"github.com/gin-gonic/gin"
)

// maxChatHistory bounds how much conversation a single request may replay.
const maxChatHistory = 40

type ChatHandler struct {
	entitlements *service.EntitlementResolver
	ai           *assistant.Client
}

func NewChatHandler(entitlements *service.EntitlementResolver, ai *assistant.Client) *ChatHandler {
	return &ChatHandler{entitlements: entitlements, ai: ai}
}

// chatAccess resolves the caller's chat gate to a reason code.
func (h *ChatHandler) chatAccess(userUUID string) (string, error) {
	if userUUID == "" {
		return domain.AccessNotLoggedIn, nil
	}
	snap, err := h.entitlements.Resolve(userUUID)
	if err != nil {
		return "", err
	}
	if snap.Has(domain.EntitlementChatAccess) {
		return domain.AccessGranted, nil
	}
	if snap.AnyPaid() {
		return domain.AccessUpgradeRequired, nil
	}
	return domain.AccessPurchaseRequired, nil
}

// Access reports whether the caller may use the assistant. Anonymous callers
// get a not_logged_in reason instead of a 401 so the frontend can route them
// to signin rather than an error page.
func (h *ChatHandler) Access(c *gin.Context) {
	userUUID := middleware.GetUserUUID(c)
	reason, err := h.chatAccess(userUUID)
	if err != nil {
		logger.Errorf("chat: resolve access for %s: %v", userUUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check access"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"has_access": reason == domain.AccessGranted,
		"reason":     reason,
	})
}

type ChatRequest struct {
	Messages []assistant.Message `json:"messages" binding:"required,min=1"`
}

// Chat runs one assistant completion over the supplied conversation. The gate
// is re-resolved on every call so revoked access takes effect immediately.
func (h *ChatHandler) Chat(c *gin.Context) {
	userUUID := middleware.GetUserUUID(c)
	reason, err := h.chatAccess(userUUID)
	if err != nil {
		logger.Errorf("chat: resolve access for %s: %v", userUUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check access"})
		return
	}
	if reason != domain.AccessGranted {
		c.JSON(http.StatusForbidden, gin.H{"error": "chat access required", "reason": reason})
		return
	}
	if !h.ai.Configured() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "assistant not configured"})
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Messages) > maxChatHistory {
		req.Messages = req.Messages[len(req.Messages)-maxChatHistory:]
	}
	messages := append([]assistant.Message{{Role: "system", Content: assistant.SystemPrompt}}, req.Messages...)

	reply, err := h.ai.Complete(c.Request.Context(), messages)
	if err != nil {
		logger.Errorf("chat: completion for %s: %v", userUUID, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "assistant unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
