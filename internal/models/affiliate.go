package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate records a referral attribution. One completed row per paid order;
// the unique index on PaidOrderNo is the once-only guard.
type Affiliate struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserUUID          string         `gorm:"index;size:36;not null" json:"user_uuid"` // the referred buyer
	InvitedBy         string         `gorm:"index;size:36;not null" json:"invited_by"`
	Status            string         `gorm:"size:20;not null" json:"status"` // pending, completed
	PaidOrderNo       string         `gorm:"uniqueIndex;size:36" json:"paid_order_no"`
	PaidAmountCents   int64          `json:"paid_amount_cents"`
	RewardAmountCents int64          `json:"reward_amount_cents"`
	CreatedAt         time.Time      `json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Affiliate) TableName() string {
	return "affiliates"
}

// Invite links a referred user to their inviter at signup time.
type Invite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserUUID  string    `gorm:"uniqueIndex;size:36;not null" json:"user_uuid"`
	InvitedBy string    `gorm:"index;size:36;not null" json:"invited_by"`
	CreatedAt time.Time `json:"created_at"`
}

func (Invite) TableName() string {
	return "invites"
}
