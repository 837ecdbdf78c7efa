package repository

import (
	"strings"

	"github.com/finsightlabs/finsight/app/models"
	"gorm.io/gorm"
)

// userRepository implements the UserRepository interface
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository instance
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create creates a new user in the database
func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// GetByID retrieves a user by their ID
func (r *userRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email address
func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByCustomerID retrieves a user by their gateway-facing customer id
func (r *userRepository) GetByCustomerID(customerID string) (*models.User, error) {
	trimmed := strings.TrimSpace(customerID)
	if trimmed == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var user models.User
	err := r.db.Where("customer_id = ?", trimmed).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Update updates an existing user in the database
func (r *userRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// Delete soft deletes a user by their ID
func (r *userRepository) Delete(id uint) error {
	return r.db.Delete(&models.User{}, id).Error
}

// List retrieves a paginated list of users
func (r *userRepository) List(offset, limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Offset(offset).Limit(limit).Find(&users).Error
	return users, err
}

// Count returns the total number of users
func (r *userRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.User{}).Count(&count).Error
	return count, err
}

// Search searches for users by name or email
func (r *userRepository) Search(query string) ([]models.User, error) {
	var users []models.User
	searchPattern := "%" + strings.TrimSpace(query) + "%"
	err := r.db.Where("name LIKE ? OR email LIKE ?", searchPattern, searchPattern).Find(&users).Error
	return users, err
}

// GetWithBilling retrieves users joined with their newest subscription mirror
// and their recorded payment count, for the admin user listing.
func (r *userRepository) GetWithBilling(offset, limit int) ([]UserWithBilling, error) {
	users, err := r.List(offset, limit)
	if err != nil {
		return nil, err
	}

	result := make([]UserWithBilling, 0, len(users))
	for _, user := range users {
		entry := UserWithBilling{User: user}

		var mirror models.SubscriptionMirror
		err := r.db.Where("customer_id = ?", user.CustomerID).
			Order("created_at DESC").
			First(&mirror).Error
		if err == nil {
			entry.SubscriptionStatus = mirror.Status
			entry.PlanID = mirror.PlanID
			entry.Interval = mirror.BillingInterval
		} else if err != gorm.ErrRecordNotFound {
			return nil, err
		}

		subIDs := r.db.Model(&models.SubscriptionMirror{}).
			Select("provider_subscription_id").
			Where("customer_id = ?", user.CustomerID)
		if err := r.db.Model(&models.PaymentEvent{}).
			Where("provider_subscription_id IN (?)", subIDs).
			Count(&entry.PaymentCount).Error; err != nil {
			return nil, err
		}

		result = append(result, entry)
	}

	return result, nil
}
