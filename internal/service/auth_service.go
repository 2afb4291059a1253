package service

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"travelkang/config"
	"travelkang/internal/auth"
	"travelkang/internal/models"
	"travelkang/internal/repository"
	"travelkang/pkg/logger"
)

var (
	ErrEmailExists     = errors.New("email already registered")
	ErrInvalidCreds    = errors.New("invalid email or password")
	ErrPasswordTooWeak = errors.New("password must be at least 6 characters")
)

type AuthService struct {
	cfg        *config.Config
	users      *repository.UserRepository
	credits    *CreditService
	affiliates *AffiliateService
}

func NewAuthService(cfg *config.Config, users *repository.UserRepository, credits *CreditService, affiliates *AffiliateService) *AuthService {
	return &AuthService{cfg: cfg, users: users, credits: credits, affiliates: affiliates}
}

func (s *AuthService) tokens(u *models.User) (string, string, error) {
	access, err := auth.GenerateAccessToken(&s.cfg.JWT, u.UUID, u.Email)
	if err != nil {
		return "", "", err
	}
	refresh, err := auth.GenerateRefreshToken(&s.cfg.JWT, u.UUID)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

// Register creates a credentials user, binds the invite code when present and
// issues the new-user credit grant. Grant or invite failures are logged, not
// fatal; the account itself is authoritative.
func (s *AuthService) Register(email, password, nickname, inviteCode, signinIP string) (*models.User, string, string, error) {
	if len(password) < 6 {
		return nil, "", "", ErrPasswordTooWeak
	}
	_, err := s.users.GetByEmail(email)
	if err == nil {
		return nil, "", "", ErrEmailExists
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", "", err
	}
	u := &models.User{
		UUID:           uuid.NewString(),
		Email:          email,
		PasswordHash:   string(hash),
		Nickname:       nickname,
		SigninProvider: "email",
		SigninIP:       signinIP,
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", "", err
	}
	if err := s.credits.GrantNewUser(u.UUID); err != nil {
		logger.Errorf("auth: new user credit grant failed for %s: %v", u.UUID, err)
	}
	if err := s.affiliates.BindInvite(u.UUID, inviteCode); err != nil {
		logger.Warnf("auth: invite binding failed for %s: %v", u.UUID, err)
	}
	access, refresh, err := s.tokens(u)
	return u, access, refresh, err
}

func (s *AuthService) Login(email, password string) (*models.User, string, string, error) {
	u, err := s.users.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", "", ErrInvalidCreds
		}
		return nil, "", "", err
	}
	if u.PasswordHash == "" {
		return nil, "", "", ErrInvalidCreds
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, "", "", ErrInvalidCreds
	}
	access, refresh, err := s.tokens(u)
	return u, access, refresh, err
}

// LoginWithGoogle finds or creates a user for the Google identity and returns
// user + tokens + isNew. An existing account with the same email gets linked
// rather than duplicated.
func (s *AuthService) LoginWithGoogle(googleID, email, name, avatarURL, signinIP string) (*models.User, string, string, bool, error) {
	u, err := s.users.GetByGoogleID(googleID)
	if err == nil {
		access, refresh, err := s.tokens(u)
		return u, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}

	existing, err := s.users.GetByEmail(email)
	if err == nil {
		gid := googleID
		existing.GoogleID = &gid
		if avatarURL != "" {
			existing.AvatarURL = avatarURL
		}
		if err := s.users.Update(existing); err != nil {
			return nil, "", "", false, err
		}
		access, refresh, err := s.tokens(existing)
		return existing, access, refresh, false, err
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", "", false, err
	}

	gid := googleID
	nickname := name
	if nickname == "" {
		nickname = strings.Split(email, "@")[0]
	}
	now := time.Now()
	u = &models.User{
		UUID:            uuid.NewString(),
		Email:           email,
		Nickname:        nickname,
		AvatarURL:       avatarURL,
		SigninProvider:  "google",
		GoogleID:        &gid,
		SigninIP:        signinIP,
		EmailVerifiedAt: &now,
	}
	if err := s.users.Create(u); err != nil {
		return nil, "", "", false, err
	}
	if err := s.credits.GrantNewUser(u.UUID); err != nil {
		logger.Errorf("auth: new user credit grant failed for %s: %v", u.UUID, err)
	}
	access, refresh, err := s.tokens(u)
	return u, access, refresh, true, err
}

func (s *AuthService) RefreshToken(refreshToken string) (string, string, error) {
	userUUID, err := auth.ParseRefreshToken(&s.cfg.JWT, refreshToken)
	if err != nil {
		return "", "", err
	}
	u, err := s.users.GetByUUID(userUUID)
	if err != nil {
		return "", "", auth.ErrInvalidToken
	}
	return s.tokens(u)
}
