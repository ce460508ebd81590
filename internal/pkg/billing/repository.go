package billing

import (
	"time"

	"github.com/ManuelReschke/FoxPay/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides DB operations used by the billing service.
type Repository interface {
	CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error)
	MarkWebhookProcessed(id uint, processingError string) error
	UpsertCustomerAccess(access *models.CustomerAccess) error
	GetCustomerAccess(provider, customerID string) (*models.CustomerAccess, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewRepository creates a billing repository backed by GORM.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateWebhookEventIfNotExists(event *models.WebhookEvent) (bool, *models.WebhookEvent, error) {
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
	var stored models.WebhookEvent
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
	return r.db.Model(&models.WebhookEvent{}).Where("id = ?", id).Updates(updates).Error
}

func (r *gormRepository) UpsertCustomerAccess(access *models.CustomerAccess) error {
	if err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "provider"},
			{Name: "customer_id"},
		},
		DoUpdates: clause.AssignmentColumns([]string{
			"status",
			"expires_at",
			"last_event_type",
			"last_payment_id",
			"updated_at",
		}),
	}).Create(access).Error; err != nil {
		return err
	}

	// Ensure ID is populated after upsert.
	return r.db.Where("provider = ? AND customer_id = ?", access.Provider, access.CustomerID).
		First(access).Error
}

func (r *gormRepository) GetCustomerAccess(provider, customerID string) (*models.CustomerAccess, error) {
	var access models.CustomerAccess
	err := r.db.Where("provider = ? AND customer_id = ?", provider, customerID).First(&access).Error
	if err != nil {
		return nil, err
	}
	return &access, nil
}
