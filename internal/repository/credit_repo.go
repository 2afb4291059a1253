package repository

import (
	"time"

	"gorm.io/gorm"

	"travelkang/internal/models"
)

type CreditRepository struct {
	db *gorm.DB
}

func NewCreditRepository(db *gorm.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// Create appends one grant. There is no update or delete path.
func (r *CreditRepository) Create(g *models.CreditGrant) error {
	return r.db.Create(g).Error
}

// Balance sums the user's unexpired grants as of now.
func (r *CreditRepository) Balance(userUUID string, now time.Time) (int, error) {
	var total *int
	err := r.db.Model(&models.CreditGrant{}).
		Select("SUM(credits)").
		Where("user_uuid = ? AND expired_at > ?", userUUID, now).
		Scan(&total).Error
	if err != nil {
		return 0, err
	}
	if total == nil {
		return 0, nil
	}
	return *total, nil
}

func (r *CreditRepository) ListByUser(userUUID string) ([]models.CreditGrant, error) {
	var grants []models.CreditGrant
	err := r.db.Where("user_uuid = ?", userUUID).Order("created_at DESC").Find(&grants).Error
	return grants, err
}
