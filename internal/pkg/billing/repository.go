package billing

import (
	"time"

	"github.com/JonasWeidner/StayAtlas/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BillingUpdate is the full set of billing-owned property columns written in
// one atomic UPDATE, so a concurrent reader never observes status and
// visibility mid-divergence.
type BillingUpdate struct {
	Status            string
	IsActive          bool
	TrialEndsAt       *time.Time
	CancelScheduled   bool
	CancelEffectiveAt *time.Time

	// Set only when the event carries them (checkout completion).
	SubscriptionID string
	CustomerID     string
}

// Repository provides the DB operations the state machine needs.
type Repository interface {
	GetPropertyByID(id uint) (*models.Property, error)
	GetPropertyBySubscriptionID(subscriptionID string) (*models.Property, error)
	ListBillingLinkedByHost(hostID uint) ([]models.Property, error)
	ListUnlinkedPendingByHost(hostID uint) ([]models.Property, error)
	UpdatePropertyBilling(propertyID uint, up BillingUpdate) error
	GetHostByID(id uint) (*models.Host, error)
	SetHostCustomerID(hostID uint, customerID string) error
	CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) GetPropertyByID(id uint) (*models.Property, error) {
	var p models.Property
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) GetPropertyBySubscriptionID(subscriptionID string) (*models.Property, error) {
	var p models.Property
	err := r.db.Where("stripe_subscription_id = ?", subscriptionID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *gormRepository) ListBillingLinkedByHost(hostID uint) ([]models.Property, error) {
	var props []models.Property
	err := r.db.Where("host_id = ? AND stripe_subscription_id <> ''", hostID).Find(&props).Error
	return props, err
}

// ListUnlinkedPendingByHost returns the host's listings still waiting for
// their checkout webhook: pending_payment with no subscription linked yet.
func (r *gormRepository) ListUnlinkedPendingByHost(hostID uint) ([]models.Property, error) {
	var props []models.Property
	err := r.db.
		Where("host_id = ? AND stripe_subscription_id = '' AND subscription_status = ?",
			hostID, models.SubscriptionStatusPendingPayment).
		Find(&props).Error
	return props, err
}

func (r *gormRepository) UpdatePropertyBilling(propertyID uint, up BillingUpdate) error {
	updates := map[string]interface{}{
		"subscription_status": up.Status,
		"is_active":           up.IsActive,
		"trial_ends_at":       up.TrialEndsAt,
		"cancel_scheduled":    up.CancelScheduled,
		"cancel_effective_at": up.CancelEffectiveAt,
	}
	if up.SubscriptionID != "" {
		updates["stripe_subscription_id"] = up.SubscriptionID
	}
	if up.CustomerID != "" {
		updates["stripe_customer_id"] = up.CustomerID
	}
	return r.db.Model(&models.Property{}).Where("id = ?", propertyID).Updates(updates).Error
}

func (r *gormRepository) GetHostByID(id uint) (*models.Host, error) {
	var h models.Host
	if err := r.db.First(&h, id).Error; err != nil {
		return nil, err
	}
	return &h, nil
}

func (r *gormRepository) SetHostCustomerID(hostID uint, customerID string) error {
	return r.db.Model(&models.Host{}).
		Where("id = ? AND stripe_customer_id = ''", hostID).
		Update("stripe_customer_id", customerID).Error
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.BillingWebhookEvent) (bool, *models.BillingWebhookEvent, error) {
	tx := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "provider_event_id"},
		},
		DoNothing: true,
	}).Create(event)
	if tx.Error != nil {
		return false, nil, tx.Error
	}

	created := tx.RowsAffected > 0
	var stored models.BillingWebhookEvent
	if err := r.db.Where("provider = ? AND provider_event_id = ?", event.Provider, event.ProviderEventID).
		First(&stored).Error; err != nil {
		return false, nil, err
	}
	return created, &stored, nil
}

func (r *gormRepository) MarkWebhookProcessed(id uint, processingError string) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": processingError,
	}
	return r.db.Model(&models.BillingWebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}
