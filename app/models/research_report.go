package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// ResearchReport describes a downloadable research document. The binary
// lives in the report vault (S3); only metadata is stored locally.
type ResearchReport struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null" json:"title" validate:"required,min=1,max=255"`
	Slug        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"slug" validate:"required,min=1,max=255"`
	Symbol      string         `gorm:"type:varchar(32);index" json:"symbol"`
	ObjectKey   string         `gorm:"type:varchar(512)" json:"-"`
	PublishedAt *time.Time     `gorm:"type:timestamp;default:null" json:"published_at,omitempty"`
	IsPremium   bool           `gorm:"default:true" json:"is_premium"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

func (r *ResearchReport) Validate() error {
	v := validator.New()
	return v.Struct(r)
}

func FindReportBySlug(db *gorm.DB, slug string) (*ResearchReport, error) {
	var report ResearchReport
	err := db.Where("slug = ?", slug).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func GetPublishedReports(db *gorm.DB, limit int) ([]ResearchReport, error) {
	var reports []ResearchReport
	err := db.Where("published_at IS NOT NULL").Order("published_at DESC").Limit(limit).Find(&reports).Error
	return reports, err
}
