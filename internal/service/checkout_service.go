package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"travelkang/config"
	"travelkang/internal/domain"
	"travelkang/internal/models"
	"travelkang/internal/repository"
	"travelkang/pkg/logger"
	"travelkang/pkg/payment"
)

var ErrUnknownProduct = errors.New("unknown product")

// CheckoutService creates the local `created` order and the provider checkout
// session. The order_no travels in session metadata; everything after the
// redirect is driven by webhooks.
type CheckoutService struct {
	orders *repository.OrderRepository
	pay    *payment.Client
	cfg    config.PaymentConfig
}

func NewCheckoutService(orders *repository.OrderRepository, pay *payment.Client, cfg config.PaymentConfig) *CheckoutService {
	return &CheckoutService{orders: orders, pay: pay, cfg: cfg}
}

// CreateCheckout returns the new order and the provider redirect URL.
func (s *CheckoutService) CreateCheckout(ctx context.Context, userUUID, userEmail string, productID domain.ProductID) (*models.Order, string, error) {
	product, ok := domain.FindProduct(productID)
	if !ok {
		return nil, "", ErrUnknownProduct
	}

	order := &models.Order{
		OrderNo:     uuid.NewString(),
		UserUUID:    userUUID,
		UserEmail:   userEmail,
		ProductID:   product.ID,
		ProductName: product.Name,
		AmountCents: product.AmountCents,
		Currency:    product.Currency,
		Interval:    product.Interval,
		Credits:     product.Credits,
		Status:      domain.OrderStatusCreated,
	}
	if err := s.orders.Create(order); err != nil {
		return nil, "", err
	}

	session, err := s.pay.CreateSession(ctx, payment.SessionRequest{
		OrderNo:       order.OrderNo,
		ProductName:   product.Name,
		AmountCents:   product.AmountCents,
		Currency:      product.Currency,
		Interval:      product.Interval,
		CustomerEmail: userEmail,
		SuccessURL:    s.cfg.SuccessURL,
		CancelURL:     s.cfg.CancelURL,
	})
	if err != nil {
		// The created order stays behind; it can only ever be paid through a
		// session carrying its order_no, so an orphan is inert.
		logger.Errorf("checkout: session creation failed for order %s: %v", order.OrderNo, err)
		return nil, "", err
	}
	logger.Infof("checkout: order %s created for %s (%s)", order.OrderNo, userUUID, productID)
	return order, session.URL, nil
}
