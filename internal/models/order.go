package models

import (
	"time"

	"gorm.io/gorm"

	"travelkang/internal/domain"
)

// Order records one purchase transaction (one-time or subscription). OrderNo
// is the opaque public identity embedded in provider checkout metadata; it
// never changes once the row exists. Status is mutated only by the
// reconciliation engine.
type Order struct {
	ID          uint             `gorm:"primaryKey" json:"id"`
	OrderNo     string           `gorm:"uniqueIndex;size:36;not null" json:"order_no"`
	UserUUID    string           `gorm:"index;size:36;not null" json:"user_uuid"`
	UserEmail   string           `gorm:"size:255" json:"user_email"`
	ProductID   domain.ProductID `gorm:"size:50;not null;index" json:"product_id"`
	ProductName string           `gorm:"size:128" json:"product_name"`
	AmountCents int64            `gorm:"not null" json:"amount_cents"`
	Currency    string           `gorm:"size:3;default:'USD'" json:"currency"`
	Interval    string           `gorm:"size:16" json:"interval"` // one-time | month
	Credits     int              `gorm:"not null;default:0" json:"credits"`
	Status      string           `gorm:"size:20;not null;index" json:"status"` // created | paid | cancelled | payment_failed

	// Subscription bookkeeping; SubID is set when the checkout session carried
	// a subscription and is the secondary lookup key for renewal events.
	SubID            *string `gorm:"index;size:64" json:"sub_id"`
	SubIntervalCount int     `json:"sub_interval_count"`
	SubCycleAnchor   int64   `json:"sub_cycle_anchor"`
	SubPeriodStart   int64   `json:"sub_period_start"`
	SubPeriodEnd     int64   `json:"sub_period_end"`
	SubTimes         int     `json:"sub_times"`

	PaidAt     *time.Time `json:"paid_at"`
	PaidEmail  string     `gorm:"size:255" json:"paid_email"`
	PaidDetail string     `gorm:"type:text" json:"-"` // raw provider payload snapshot, latest event wins

	// LastEventAt is the watermark for subscription-driven transitions: events
	// older than it are stale redeliveries and must not apply.
	LastEventAt *time.Time `json:"-"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Order) TableName() string {
	return "orders"
}

func (o *Order) IsPaid() bool { return o.Status == domain.OrderStatusPaid }
