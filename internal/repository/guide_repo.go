package repository

import (
	"errors"

	"gorm.io/gorm"

	"travelkang/internal/domain"
	"travelkang/internal/models"
)

type GuideRepository struct {
	db *gorm.DB
}

func NewGuideRepository(db *gorm.DB) *GuideRepository {
	return &GuideRepository{db: db}
}

func (r *GuideRepository) ListActive() ([]models.PDFGuide, error) {
	var guides []models.PDFGuide
	err := r.db.Where("status = ?", domain.GuideStatusActive).
		Order("sort_order ASC, created_at DESC").
		Find(&guides).Error
	return guides, err
}

func (r *GuideRepository) GetByUUID(uuid string) (*models.PDFGuide, error) {
	var g models.PDFGuide
	err := r.db.Where("uuid = ? AND status = ?", uuid, domain.GuideStatusActive).First(&g).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GuideRepository) Create(g *models.PDFGuide) error {
	return r.db.Create(g).Error
}
