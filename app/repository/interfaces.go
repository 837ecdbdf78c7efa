package repository

import (
	"time"

	"github.com/finsightlabs/finsight/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByCustomerID(customerID string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
	Search(query string) ([]models.User, error)
	GetWithBilling(offset, limit int) ([]UserWithBilling, error)
}

// ReportRepository defines the interface for research report operations
type ReportRepository interface {
	Create(report *models.ResearchReport) error
	GetByID(id uint) (*models.ResearchReport, error)
	GetBySlug(slug string) (*models.ResearchReport, error)
	GetPublished(offset, limit int) ([]models.ResearchReport, error)
	GetAll(offset, limit int) ([]models.ResearchReport, error)
	GetBySymbol(symbol string) ([]models.ResearchReport, error)
	Update(report *models.ResearchReport) error
	Delete(id uint) error
	Count() (int64, error)
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// PageRepository defines the interface for page-related operations
type PageRepository interface {
	Create(page *models.Page) error
	GetByID(id uint) (*models.Page, error)
	GetBySlug(slug string) (*models.Page, error)
	GetAll() ([]models.Page, error)
	GetActive() ([]models.Page, error)
	Update(page *models.Page) error
	Delete(id uint) error
	SlugExists(slug string) (bool, error)
	SlugExistsExceptID(slug string, id uint) (bool, error)
}

// CacheKeyRepository defines the interface for inspecting and purging redis
// cache entries (billing projections, reservations) from the admin surface
type CacheKeyRepository interface {
	GetValue(key string) (string, error)
	GetTTL(key string) (time.Duration, error)
	FindKeysByPatterns(patterns []string) ([]string, error)
	DeleteKeys(keys []string) (int64, error)
}

// UserWithBilling represents a user with their current subscription snapshot
type UserWithBilling struct {
	User               models.User
	SubscriptionStatus string
	PlanID             string
	Interval           string
	PaymentCount       int64
}

// Repositories struct holds all repository instances
type Repositories struct {
	User     UserRepository
	Report   ReportRepository
	Page     PageRepository
	CacheKey CacheKeyRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:     NewUserRepository(db),
		Report:   NewReportRepository(db),
		Page:     NewPageRepository(db),
		CacheKey: NewCacheKeyRepository(),
	}
}
