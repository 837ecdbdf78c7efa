package billing

import (
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/finsightlabs/finsight/app/models"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	UpsertSubscriptionMirror(sub *models.SubscriptionMirror) error
	GetMirrorByProviderSubscriptionID(subscriptionID string) (*models.SubscriptionMirror, error)
	GetActiveMirrorByCustomer(customerID string) (*models.SubscriptionMirror, error)
	ListMirrorsByCustomer(customerID string) ([]models.SubscriptionMirror, error)
	CreatePaymentEventIfNotExists(event *models.PaymentEvent) (bool, *models.PaymentEvent, error)
	MarkPaymentEventProcessed(id uint, processingError string) error
	MarkPaymentEventVerified(id uint) error
	ListPaymentEventsByCustomer(customerID string) ([]models.PaymentEvent, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) UpsertSubscriptionMirror(sub *models.SubscriptionMirror) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider_subscription_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"customer_id",
			"plan_id",
			"billing_interval",
			"status",
			"current_period_start",
			"current_period_end",
			"attempt_count",
			"raw_payload_json",
			"updated_at",
		}),
	}).Create(sub).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("provider_subscription_id = ?", sub.ProviderSubscriptionID).
		First(sub).Error
}

func (r *gormRepository) GetMirrorByProviderSubscriptionID(subscriptionID string) (*models.SubscriptionMirror, error) {
	var sub models.SubscriptionMirror
	err := r.db.Where("provider_subscription_id = ?", subscriptionID).First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) GetActiveMirrorByCustomer(customerID string) (*models.SubscriptionMirror, error) {
	var sub models.SubscriptionMirror
	err := r.db.
		Where("customer_id = ? AND status IN ?", customerID,
			[]string{models.SubscriptionStatusActive, models.SubscriptionStatusAuthenticated}).
		Order("updated_at DESC").
		First(&sub).Error
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *gormRepository) ListMirrorsByCustomer(customerID string) ([]models.SubscriptionMirror, error) {
	var subs []models.SubscriptionMirror
	err := r.db.Where("customer_id = ?", customerID).Find(&subs).Error
	return subs, err
}

func (r *gormRepository) CreatePaymentEventIfNotExists(event *models.PaymentEvent) (bool, *models.PaymentEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider_payment_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.PaymentEvent
	if err := r.db.Where("provider_payment_id = ?", event.ProviderPaymentID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) ListPaymentEventsByCustomer(customerID string) ([]models.PaymentEvent, error) {
	subIDs := r.db.Model(&models.SubscriptionMirror{}).
		Select("provider_subscription_id").
		Where("customer_id = ?", customerID)

	var events []models.PaymentEvent
	err := r.db.Where("provider_subscription_id IN (?)", subIDs).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

// MarkPaymentEventVerified upgrades an event whose first delivery failed
// verification: the genuine callback arrived with a valid signature.
func (r *gormRepository) MarkPaymentEventVerified(id uint) error {
	return r.db.Model(&models.PaymentEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"signature_valid":  true,
		"processing_error": "",
	}).Error
}

func (r *gormRepository) MarkPaymentEventProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.PaymentEvent{}).Where("id = ?", id).Updates(updates).Error
}
