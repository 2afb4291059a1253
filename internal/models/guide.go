package models

import (
	"time"

	"gorm.io/gorm"
)

// PDFGuide is a downloadable guide asset. Listing is public; download is
// gated on the PDF bundle entitlement.
type PDFGuide struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	UUID        string         `gorm:"uniqueIndex;size:36;not null" json:"uuid"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description string         `gorm:"size:1024" json:"description"`
	FileName    string         `gorm:"size:255" json:"file_name"`
	FileURL     string         `gorm:"size:512" json:"-"`
	Status      string         `gorm:"size:20;not null;default:'active';index" json:"status"`
	SortOrder   int            `gorm:"default:0" json:"sort_order"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (PDFGuide) TableName() string {
	return "pdf_guides"
}
