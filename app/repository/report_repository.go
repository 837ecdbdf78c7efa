package repository

import (
	"strings"

	"github.com/finsightlabs/finsight/app/models"
	"gorm.io/gorm"
)

// reportRepository implements the ReportRepository interface
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository creates a new research report repository instance
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Create creates a new report in the database
func (r *reportRepository) Create(report *models.ResearchReport) error {
	return r.db.Create(report).Error
}

// GetByID retrieves a report by its ID
func (r *reportRepository) GetByID(id uint) (*models.ResearchReport, error) {
	var report models.ResearchReport
	err := r.db.First(&report, id).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetBySlug retrieves a report by its slug
func (r *reportRepository) GetBySlug(slug string) (*models.ResearchReport, error) {
	var report models.ResearchReport
	err := r.db.Where("slug = ?", slug).First(&report).Error
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// GetPublished retrieves published reports, newest first
func (r *reportRepository) GetPublished(offset, limit int) ([]models.ResearchReport, error) {
	var reports []models.ResearchReport
	err := r.db.Where("published_at IS NOT NULL").
		Order("published_at DESC").
		Offset(offset).Limit(limit).
		Find(&reports).Error
	return reports, err
}

// GetAll retrieves all reports including unpublished drafts
func (r *reportRepository) GetAll(offset, limit int) ([]models.ResearchReport, error) {
	var reports []models.ResearchReport
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&reports).Error
	return reports, err
}

// GetBySymbol retrieves published reports covering a stock symbol
func (r *reportRepository) GetBySymbol(symbol string) ([]models.ResearchReport, error) {
	var reports []models.ResearchReport
	err := r.db.Where("symbol = ? AND published_at IS NOT NULL", strings.ToUpper(strings.TrimSpace(symbol))).
		Order("published_at DESC").
		Find(&reports).Error
	return reports, err
}

// Update updates an existing report in the database
func (r *reportRepository) Update(report *models.ResearchReport) error {
	return r.db.Save(report).Error
}

// Delete soft deletes a report by its ID
func (r *reportRepository) Delete(id uint) error {
	return r.db.Delete(&models.ResearchReport{}, id).Error
}

// Count returns the total number of reports
func (r *reportRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.ResearchReport{}).Count(&count).Error
	return count, err
}

// SlugExists checks whether a slug is already taken
func (r *reportRepository) SlugExists(slug string) (bool, error) {
	var count int64
	err := r.db.Model(&models.ResearchReport{}).Where("slug = ?", slug).Count(&count).Error
	return count > 0, err
}

// SlugExistsExceptID checks slug uniqueness while editing an existing report
func (r *reportRepository) SlugExistsExceptID(slug string, id uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.ResearchReport{}).Where("slug = ? AND id <> ?", slug, id).Count(&count).Error
	return count > 0, err
}
