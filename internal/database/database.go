package database

import (
	"travelkang/config"
	"travelkang/internal/domain"
	"travelkang/internal/models"

	"github.com/google/uuid"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error), // only log errors, not every SQL query
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	return db, nil
}

// AutoMigrate runs Gorm auto-migration for all models.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Order{},
		&models.CreditGrant{},
		&models.Affiliate{},
		&models.Invite{},
		&models.PDFGuide{},
		&models.AuditLog{},
	)
}

// SeedGuides inserts the two default guides when the table is empty, so a
// fresh install has something to list.
func SeedGuides(db *gorm.DB) {
	var count int64
	db.Model(&models.PDFGuide{}).Count(&count)
	if count > 0 {
		return
	}
	guides := []models.PDFGuide{
		{
			UUID:        uuid.NewString(),
			Title:       "China Payment Guide",
			Description: "Set up Alipay and WeChat Pay before you land.",
			FileName:    "payment-guide.pdf",
			Status:      domain.GuideStatusActive,
			SortOrder:   1,
		},
		{
			UUID:        uuid.NewString(),
			Title:       "City Guide",
			Description: "Itineraries for Beijing, Shanghai, Chengdu and Xi'an.",
			FileName:    "city-guide.pdf",
			Status:      domain.GuideStatusActive,
			SortOrder:   2,
		},
	}
	db.Create(&guides)
}
