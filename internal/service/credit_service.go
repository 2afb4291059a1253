package service

import (
	"errors"
	"time"

	"travelkang/config"
	"travelkang/internal/domain"
	"travelkang/internal/models"
	"travelkang/internal/repository"
)

var ErrNoCredits = errors.New("grant must carry a positive credit amount")

// CreditService is the append-only credit ledger. Grants expire; the balance
// is the sum of unexpired grants. Consumption lives elsewhere.
type CreditService struct {
	repo *repository.CreditRepository
	cfg  config.CreditsConfig
}

func NewCreditService(repo *repository.CreditRepository, cfg config.CreditsConfig) *CreditService {
	return &CreditService{repo: repo, cfg: cfg}
}

// GrantForOrder appends one grant for a paid or renewed order. The caller
// guards against double-granting the initial purchase; renewal grants are
// intentionally repeatable.
func (s *CreditService) GrantForOrder(order *models.Order, transType string) error {
	if order.Credits <= 0 {
		return ErrNoCredits
	}
	return s.repo.Create(&models.CreditGrant{
		UserUUID:  order.UserUUID,
		TransType: transType,
		Credits:   order.Credits,
		OrderNo:   order.OrderNo,
		ExpiredAt: time.Now().UTC().Add(s.cfg.GrantValidity),
	})
}

// GrantNewUser issues the signup bonus. A zero configured amount disables it.
func (s *CreditService) GrantNewUser(userUUID string) error {
	if s.cfg.NewUserGrant <= 0 {
		return nil
	}
	return s.repo.Create(&models.CreditGrant{
		UserUUID:  userUUID,
		TransType: domain.CreditsTransNewUser,
		Credits:   s.cfg.NewUserGrant,
		ExpiredAt: time.Now().UTC().Add(s.cfg.GrantValidity),
	})
}

// Balance returns the user's unexpired credit total.
func (s *CreditService) Balance(userUUID string) (int, error) {
	return s.repo.Balance(userUUID, time.Now().UTC())
}
