package models

import (
	"time"

	"gorm.io/gorm"
)

// CreditGrant is one append-only ledger row. Grants are never updated or
// deleted; the usable balance is the sum of unexpired grants.
type CreditGrant struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserUUID  string         `gorm:"index;size:36;not null" json:"user_uuid"`
	TransType string         `gorm:"size:30;not null;index" json:"trans_type"` // new_user, order_pay, sub_renewal
	Credits   int            `gorm:"not null" json:"credits"`
	OrderNo   string         `gorm:"size:36;index" json:"order_no"` // empty for signup grants
	ExpiredAt time.Time      `gorm:"index" json:"expired_at"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CreditGrant) TableName() string {
	return "credit_grants"
}
