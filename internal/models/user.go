package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	Email           string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash    string         `gorm:"size:255" json:"-"`
	Nickname        string         `gorm:"size:64" json:"nickname"`
	AvatarURL       string         `gorm:"size:512" json:"avatar_url"`
	SigninProvider  string         `gorm:"size:20;default:'email'" json:"signin_provider"` // email | google
	GoogleID        *string        `gorm:"uniqueIndex;size:255" json:"-"`                  // nil for email signups (avoids duplicate '' on unique index)
	SigninIP        string         `gorm:"size:64" json:"-"`
	EmailVerifiedAt *time.Time     `json:"email_verified_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}
