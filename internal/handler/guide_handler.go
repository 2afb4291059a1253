package handler

import (
	"net/http"
	"strings"

	"travelkang/internal/domain"
	"travelkang/internal/middleware"
	"travelkang/internal/models"
	"travelkang/internal/repository"
	"travelkang/internal/service"
	"travelkang/pkg/cloudinary"
	"travelkang/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type GuideHandler struct {
	guides       *repository.GuideRepository
	entitlements *service.EntitlementResolver
	cloud        cloudinary.Client
}

func NewGuideHandler(guides *repository.GuideRepository, entitlements *service.EntitlementResolver, cloud cloudinary.Client) *GuideHandler {
	return &GuideHandler{guides: guides, entitlements: entitlements, cloud: cloud}
}

// List returns the active guides. Public: titles and descriptions are the
// storefront; only download is gated.
func (h *GuideHandler) List(c *gin.Context) {
	guides, err := h.guides.ListActive()
	if err != nil {
		logger.Errorf("guides: list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load guides"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"guides": guides})
}

type DownloadRequest struct {
	UUID string `json:"uuid" binding:"required"`
}

// Download resolves the PDF gate and returns the stored file URL. Denials
// carry a reason code so the frontend can route to signin, products, or an
// upgrade prompt.
func (h *GuideHandler) Download(c *gin.Context) {
	var req DownloadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userUUID := middleware.GetUserUUID(c)
	if userUUID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required", "reason": domain.AccessNotLoggedIn})
		return
	}
	snap, err := h.entitlements.Resolve(userUUID)
	if err != nil {
		logger.Errorf("guides: resolve entitlements for %s: %v", userUUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check access"})
		return
	}
	if !snap.Has(domain.EntitlementPDFBundle) {
		reason := domain.AccessPurchaseRequired
		if snap.AnyPaid() {
			reason = domain.AccessUpgradeRequired
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "pdf bundle required", "reason": reason})
		return
	}
	guide, err := h.guides.GetByUUID(req.UUID)
	if err != nil {
		logger.Errorf("guides: get %s: %v", req.UUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load guide"})
		return
	}
	if guide == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guide not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"uuid":      guide.UUID,
		"title":     guide.Title,
		"file_name": guide.FileName,
		"url":       guide.FileURL,
	})
}

// Upload stores a new guide PDF. Admin only.
func (h *GuideHandler) Upload(c *gin.Context) {
	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	if !strings.HasSuffix(strings.ToLower(file.Filename), ".pdf") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "only pdf files accepted"})
		return
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read file"})
		return
	}
	defer f.Close()

	guideUUID := uuid.NewString()
	publicID := "guide_" + strings.ReplaceAll(guideUUID, "-", "")[:16]
	url, err := h.cloud.UploadDocument(c.Request.Context(), f, "travelkang/guides", publicID)
	if err != nil {
		logger.Errorf("guides: upload %s: %v", file.Filename, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	guide := &models.PDFGuide{
		UUID:        guideUUID,
		Title:       title,
		Description: c.PostForm("description"),
		FileName:    file.Filename,
		FileURL:     url,
		Status:      domain.GuideStatusActive,
	}
	if err := h.guides.Create(guide); err != nil {
		logger.Errorf("guides: create record for %s: %v", guideUUID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save guide"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"guide": guide})
}
