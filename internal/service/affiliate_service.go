package service

import (
	"errors"

	"travelkang/internal/domain"
	"travelkang/internal/models"
	"travelkang/internal/repository"
	"travelkang/pkg/logger"
)

// RewardPercent of the paid amount credited to the inviter.
const RewardPercent = 20

var (
	ErrSelfInvite      = errors.New("cannot use your own invite code")
	ErrInviterNotFound = errors.New("invite code does not match any user")
)

// AffiliateService records referral attributions. The contract with the
// reconciliation engine: given a paid order, attribute referral credit once.
type AffiliateService struct {
	repo  *repository.AffiliateRepository
	users *repository.UserRepository
}

func NewAffiliateService(repo *repository.AffiliateRepository, users *repository.UserRepository) *AffiliateService {
	return &AffiliateService{repo: repo, users: users}
}

// BindInvite links a new user to their inviter at signup. The invite code is
// the inviter's uuid.
func (s *AffiliateService) BindInvite(userUUID, inviteCode string) error {
	if inviteCode == "" {
		return nil
	}
	if inviteCode == userUUID {
		return ErrSelfInvite
	}
	if _, err := s.users.GetByUUID(inviteCode); err != nil {
		return ErrInviterNotFound
	}
	return s.repo.CreateInvite(&models.Invite{UserUUID: userUUID, InvitedBy: inviteCode})
}

// AttributePaidOrder records the referral reward for a paid order, at most
// once per order_no. Users without an inviter, self-referrals and repeat
// deliveries all no-op.
func (s *AffiliateService) AttributePaidOrder(order *models.Order) error {
	invite, err := s.repo.GetInviteByUser(order.UserUUID)
	if err != nil {
		return err
	}
	if invite == nil || invite.InvitedBy == order.UserUUID {
		return nil
	}
	existing, err := s.repo.GetByPaidOrderNo(order.OrderNo)
	if err != nil {
		return err
	}
	if existing != nil {
		logger.Infof("affiliate: order %s already attributed, skipping", order.OrderNo)
		return nil
	}
	return s.repo.Create(&models.Affiliate{
		UserUUID:          order.UserUUID,
		InvitedBy:         invite.InvitedBy,
		Status:            domain.AffiliateStatusCompleted,
		PaidOrderNo:       order.OrderNo,
		PaidAmountCents:   order.AmountCents,
		RewardAmountCents: order.AmountCents * RewardPercent / 100,
	})
}
