package service

import (
	"errors"
	"fmt"
	"time"

	"travelkang/internal/domain"
	"travelkang/internal/models"
	"travelkang/internal/repository"
	"travelkang/pkg/logger"
	"travelkang/pkg/payment"
)

// ErrInvalidEvent marks a malformed or incomplete provider event. The webhook
// handler rejects these with a 4xx and nothing is mutated.
var ErrInvalidEvent = errors.New("invalid provider event")

// ReconcileOrderStore is the conditional-update surface the engine relies on
// for idempotency. Concurrent redeliveries for the same order are resolved by
// the store's WHERE-clause preconditions, not by in-process locking.
type ReconcileOrderStore interface {
	GetByOrderNo(orderNo string) (*models.Order, error)
	ListBySubID(subID string) ([]models.Order, error)
	SetSubscriptionID(orderNo, subID string) error
	MarkPaidFromCreated(orderNo string, paidAt time.Time, paidEmail, paidDetail string) (bool, error)
	ApplyStatus(orderNo, status string, paidAt time.Time, paidEmail, paidDetail string, eventAt time.Time) (bool, error)
	ApplySubscription(orderNo string, patch repository.SubscriptionPatch, eventAt time.Time) (bool, error)
}

// CreditLedger grants usage credits for a paid or renewed order.
type CreditLedger interface {
	GrantForOrder(order *models.Order, transType string) error
}

// AffiliateUpdater attributes referral credit for a paid order, at most once
// per order.
type AffiliateUpdater interface {
	AttributePaidOrder(order *models.Order) error
}

// ReconcileEngine applies provider payment lifecycle events to local order
// state. Every handler tolerates at-least-once delivery and out-of-order
// arrival; see the per-event preconditions.
type ReconcileEngine struct {
	orders     ReconcileOrderStore
	credits    CreditLedger
	affiliates AffiliateUpdater
}

func NewReconcileEngine(orders ReconcileOrderStore, credits CreditLedger, affiliates AffiliateUpdater) *ReconcileEngine {
	return &ReconcileEngine{orders: orders, credits: credits, affiliates: affiliates}
}

// HandleEvent dispatches one normalized provider event. A nil return means
// the event was fully applied or was a benign no-op (already applied, order
// unknown, stale); an error return tells the provider to redeliver.
func (e *ReconcileEngine) HandleEvent(ev *payment.Event) error {
	switch ev.Type {
	case payment.EventCheckoutCompleted:
		return e.handleCheckoutCompleted(ev)
	case payment.EventSubscriptionDeleted:
		return e.handleSubscriptionDeleted(ev)
	case payment.EventSubscriptionUpdated:
		return e.handleSubscriptionUpdated(ev)
	case payment.EventInvoicePaid:
		return e.handleInvoicePaid(ev)
	case payment.EventInvoiceFailed:
		return e.handleInvoiceFailed(ev)
	default:
		logger.Infof("reconcile: ignoring event type %s (%s)", ev.Type, ev.ID)
		return nil
	}
}

// handleCheckoutCompleted performs the initial created->paid transition. The
// status precondition is the idempotency guard: a redelivered or out-of-order
// checkout event no-ops. Credit grant and affiliate attribution run after the
// status write and are not rolled back on failure; the transition is
// authoritative and side-effect failures are logged for manual reconciliation.
func (e *ReconcileEngine) handleCheckoutCompleted(ev *payment.Event) error {
	if ev.OrderNo == "" || ev.PaymentStatus != "paid" {
		return fmt.Errorf("%w: checkout session missing order_no or not paid", ErrInvalidEvent)
	}
	order, err := e.orders.GetByOrderNo(ev.OrderNo)
	if err != nil {
		return err
	}
	if order == nil {
		logger.Warnf("reconcile: checkout completed for unknown order %s, ignoring", ev.OrderNo)
		return nil
	}
	if order.Status != domain.OrderStatusCreated {
		logger.Infof("reconcile: order %s already %s, duplicate checkout event ignored", order.OrderNo, order.Status)
		return nil
	}

	if ev.SubID != "" {
		if err := e.orders.SetSubscriptionID(order.OrderNo, ev.SubID); err != nil {
			return err
		}
	}

	paidAt := time.Now().UTC()
	applied, err := e.orders.MarkPaidFromCreated(order.OrderNo, paidAt, ev.PayerEmail, string(ev.Raw))
	if err != nil {
		return err
	}
	if !applied {
		// A concurrent delivery won the conditional update; its side effects
		// already ran.
		logger.Infof("reconcile: order %s paid by concurrent delivery, skipping", order.OrderNo)
		return nil
	}
	logger.Infof("reconcile: order %s paid (product=%s email=%s)", order.OrderNo, order.ProductID, ev.PayerEmail)

	if order.UserUUID != "" {
		if order.Credits > 0 {
			if err := e.credits.GrantForOrder(order, domain.CreditsTransOrderPay); err != nil {
				logger.Errorf("reconcile: credit grant failed for order %s: %v", order.OrderNo, err)
			}
		}
		if err := e.affiliates.AttributePaidOrder(order); err != nil {
			logger.Errorf("reconcile: affiliate update failed for order %s: %v", order.OrderNo, err)
		}
	}
	return nil
}

// handleSubscriptionDeleted cancels every order tied to the subscription.
// No matching orders is a no-op, not an error.
func (e *ReconcileEngine) handleSubscriptionDeleted(ev *payment.Event) error {
	if ev.SubID == "" {
		return fmt.Errorf("%w: subscription deleted without id", ErrInvalidEvent)
	}
	orders, err := e.orders.ListBySubID(ev.SubID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range orders {
		o := &orders[i]
		applied, err := e.orders.ApplyStatus(o.OrderNo, domain.OrderStatusCancelled, now, o.UserEmail, string(ev.Raw), ev.CreatedAt)
		if err != nil {
			return err
		}
		if !applied {
			logger.Infof("reconcile: stale subscription.deleted for order %s, skipped", o.OrderNo)
		}
	}
	if len(orders) > 0 {
		logger.Infof("reconcile: cancelled %d orders for subscription %s", len(orders), ev.SubID)
	}
	return nil
}

// handleSubscriptionUpdated recomputes status from the provider subscription
// state and refreshes the period bookkeeping. sub_times resets to 1: the
// provider restates the whole subscription, it does not increment.
func (e *ReconcileEngine) handleSubscriptionUpdated(ev *payment.Event) error {
	if ev.SubID == "" {
		return fmt.Errorf("%w: subscription updated without id", ErrInvalidEvent)
	}
	orders, err := e.orders.ListBySubID(ev.SubID)
	if err != nil {
		return err
	}
	status := domain.OrderStatusCancelled
	if ev.SubStatus == "active" {
		status = domain.OrderStatusPaid
	}
	now := time.Now().UTC()
	for i := range orders {
		o := &orders[i]
		patch := repository.SubscriptionPatch{
			SubID:         ev.SubID,
			IntervalCount: ev.IntervalCount,
			CycleAnchor:   ev.CycleAnchor,
			PeriodStart:   ev.PeriodStart,
			PeriodEnd:     ev.PeriodEnd,
			SubTimes:      1,
			Status:        status,
			PaidAt:        now,
			PaidEmail:     o.UserEmail,
			PaidDetail:    string(ev.Raw),
		}
		applied, err := e.orders.ApplySubscription(o.OrderNo, patch, ev.CreatedAt)
		if err != nil {
			return err
		}
		if !applied {
			logger.Infof("reconcile: stale subscription.updated for order %s, skipped", o.OrderNo)
		}
	}
	return nil
}

// handleInvoicePaid is the renewal path: it re-enters paid from any prior
// status and re-grants credits per billing period. The repeat grant is
// intentional; each distinct renewal event tops the user up again.
func (e *ReconcileEngine) handleInvoicePaid(ev *payment.Event) error {
	if ev.SubID == "" {
		// One-off invoices carry no subscription; nothing to reconcile.
		return nil
	}
	orders, err := e.orders.ListBySubID(ev.SubID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range orders {
		o := &orders[i]
		applied, err := e.orders.ApplyStatus(o.OrderNo, domain.OrderStatusPaid, now, o.UserEmail, string(ev.Raw), ev.CreatedAt)
		if err != nil {
			return err
		}
		if !applied {
			logger.Infof("reconcile: stale invoice.payment_succeeded for order %s, skipped", o.OrderNo)
			continue
		}
		if o.UserUUID != "" && o.Credits > 0 {
			if err := e.credits.GrantForOrder(o, domain.CreditsTransSubRenewal); err != nil {
				logger.Errorf("reconcile: renewal credit grant failed for order %s: %v", o.OrderNo, err)
			}
		}
	}
	if len(orders) > 0 {
		logger.Infof("reconcile: processed renewal for %d orders on subscription %s", len(orders), ev.SubID)
	}
	return nil
}

// handleInvoiceFailed marks the orders payment_failed. Credits already
// granted for earlier periods are not clawed back.
func (e *ReconcileEngine) handleInvoiceFailed(ev *payment.Event) error {
	if ev.SubID == "" {
		return nil
	}
	orders, err := e.orders.ListBySubID(ev.SubID)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for i := range orders {
		o := &orders[i]
		applied, err := e.orders.ApplyStatus(o.OrderNo, domain.OrderStatusPaymentFailed, now, o.UserEmail, string(ev.Raw), ev.CreatedAt)
		if err != nil {
			return err
		}
		if !applied {
			logger.Infof("reconcile: stale invoice.payment_failed for order %s, skipped", o.OrderNo)
		}
	}
	if len(orders) > 0 {
		logger.Warnf("reconcile: marked %d orders payment_failed on subscription %s", len(orders), ev.SubID)
	}
	return nil
}
