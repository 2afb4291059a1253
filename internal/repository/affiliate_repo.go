package repository

import (
	"errors"

	"gorm.io/gorm"

	"travelkang/internal/models"
)

type AffiliateRepository struct {
	db *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{db: db}
}

func (r *AffiliateRepository) CreateInvite(inv *models.Invite) error {
	return r.db.Create(inv).Error
}

// GetInviteByUser returns (nil, nil) when the user was not referred.
func (r *AffiliateRepository) GetInviteByUser(userUUID string) (*models.Invite, error) {
	var inv models.Invite
	err := r.db.Where("user_uuid = ?", userUUID).First(&inv).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByPaidOrderNo returns (nil, nil) when the order has not been attributed.
func (r *AffiliateRepository) GetByPaidOrderNo(orderNo string) (*models.Affiliate, error) {
	var a models.Affiliate
	err := r.db.Where("paid_order_no = ?", orderNo).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AffiliateRepository) Create(a *models.Affiliate) error {
	return r.db.Create(a).Error
}
