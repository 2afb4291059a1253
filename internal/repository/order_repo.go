package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"travelkang/internal/models"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// SubscriptionPatch carries the provider subscription bookkeeping refreshed by
// a subscription.updated event.
type SubscriptionPatch struct {
	SubID         string
	IntervalCount int
	CycleAnchor   int64
	PeriodStart   int64
	PeriodEnd     int64
	SubTimes      int
	Status        string
	PaidAt        time.Time
	PaidEmail     string
	PaidDetail    string
}

func (r *OrderRepository) Create(o *models.Order) error {
	return r.db.Create(o).Error
}

// GetByOrderNo returns (nil, nil) when no order exists; webhook handlers treat
// a missing order as a benign no-op, not a failure.
func (r *OrderRepository) GetByOrderNo(orderNo string) (*models.Order, error) {
	var o models.Order
	err := r.db.Where("order_no = ?", orderNo).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) ListBySubID(subID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("sub_id = ?", subID).Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) ListByUserUUID(userUUID string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("user_uuid = ?", userUUID).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) SetSubscriptionID(orderNo, subID string) error {
	return r.db.Model(&models.Order{}).
		Where("order_no = ?", orderNo).
		Update("sub_id", subID).Error
}

// MarkPaidFromCreated performs the initial paid transition. The status
// precondition in the WHERE clause is the idempotency guard: a redelivered
// checkout event matches zero rows and reports applied=false.
func (r *OrderRepository) MarkPaidFromCreated(orderNo string, paidAt time.Time, paidEmail, paidDetail string) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_no = ? AND status = ?", orderNo, "created").
		Updates(map[string]interface{}{
			"status":        "paid",
			"paid_at":       paidAt,
			"paid_email":    paidEmail,
			"paid_detail":   paidDetail,
			"last_event_at": paidAt,
		})
	return res.RowsAffected > 0, res.Error
}

// ApplyStatus sets an absolute status for a subscription-driven event. The
// watermark condition drops stale redeliveries: an event older than the last
// applied one matches zero rows.
func (r *OrderRepository) ApplyStatus(orderNo, status string, paidAt time.Time, paidEmail, paidDetail string, eventAt time.Time) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_no = ? AND (last_event_at IS NULL OR last_event_at <= ?)", orderNo, eventAt).
		Updates(map[string]interface{}{
			"status":        status,
			"paid_at":       paidAt,
			"paid_email":    paidEmail,
			"paid_detail":   paidDetail,
			"last_event_at": eventAt,
		})
	return res.RowsAffected > 0, res.Error
}

// ApplySubscription refreshes status plus period bookkeeping, under the same
// watermark guard as ApplyStatus.
func (r *OrderRepository) ApplySubscription(orderNo string, patch SubscriptionPatch, eventAt time.Time) (bool, error) {
	res := r.db.Model(&models.Order{}).
		Where("order_no = ? AND (last_event_at IS NULL OR last_event_at <= ?)", orderNo, eventAt).
		Updates(map[string]interface{}{
			"sub_id":             patch.SubID,
			"sub_interval_count": patch.IntervalCount,
			"sub_cycle_anchor":   patch.CycleAnchor,
			"sub_period_start":   patch.PeriodStart,
			"sub_period_end":     patch.PeriodEnd,
			"sub_times":          patch.SubTimes,
			"status":             patch.Status,
			"paid_at":            patch.PaidAt,
			"paid_email":         patch.PaidEmail,
			"paid_detail":        patch.PaidDetail,
			"last_event_at":      eventAt,
		})
	return res.RowsAffected > 0, res.Error
}
