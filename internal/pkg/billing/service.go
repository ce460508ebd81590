package billing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"github.com/ManuelReschke/FoxPay/app/models"
	"gorm.io/gorm"
)

// Service wraps webhook persistence and access-state updates.
type Service struct {
	repo Repository
}

// NewService creates a billing service from an injected repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// NewServiceFromDB creates a billing service from a GORM DB handle.
func NewServiceFromDB(db *gorm.DB) *Service {
	return NewService(NewRepository(db))
}

// RecordWebhookEvent persists webhook payloads idempotently. The bool
// result is false for a replayed key. Events without any derivable id are
// keyed by a payload hash so byte-identical redeliveries still dedup.
func (s *Service) RecordWebhookEvent(ctx context.Context, in WebhookEventInput) (bool, *models.WebhookEvent, error) {
	_ = ctx
	provider := strings.ToLower(strings.TrimSpace(in.Provider))
	if provider == "" {
		return false, nil, errors.New("provider is required")
	}
	eventID := strings.TrimSpace(in.ProviderEventID)
	if eventID == "" {
		sum := sha256.Sum256([]byte(in.PayloadJSON))
		eventID = "hash:" + hex.EncodeToString(sum[:])
	}

	event := &models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       strings.TrimSpace(in.EventType),
		PayloadJSON:     in.PayloadJSON,
		TokenValid:      in.TokenValid,
	}
	return s.repo.CreateWebhookEventIfNotExists(event)
}

// MarkWebhookProcessed marks an event as processed and stores an optional error.
func (s *Service) MarkWebhookProcessed(ctx context.Context, webhookEventID uint, processingErr error) error {
	_ = ctx
	if webhookEventID == 0 {
		return errors.New("webhook_event_id is required")
	}
	errMsg := ""
	if processingErr != nil {
		errMsg = processingErr.Error()
	}
	return s.repo.MarkWebhookProcessed(webhookEventID, errMsg)
}

// ApplyDecision writes an access decision into the customer access table.
func (s *Service) ApplyDecision(ctx context.Context, decision *AccessDecision) (*models.CustomerAccess, error) {
	_ = ctx
	if decision == nil {
		return nil, errors.New("decision is required")
	}
	customerID := strings.TrimSpace(decision.CustomerID)
	if customerID == "" {
		return nil, ErrNoCustomer
	}

	access := &models.CustomerAccess{
		Provider:      models.ProviderAsaas,
		CustomerID:    customerID,
		Status:        decision.Status,
		ExpiresAt:     decision.ExpiresAt,
		LastEventType: decision.EventType,
		LastPaymentID: decision.PaymentID,
	}
	if err := s.repo.UpsertCustomerAccess(access); err != nil {
		return nil, err
	}
	return access, nil
}

// GetCustomerAccess resolves the current access state for a customer.
func (s *Service) GetCustomerAccess(ctx context.Context, customerID string) (*models.CustomerAccess, error) {
	_ = ctx
	id := strings.TrimSpace(customerID)
	if id == "" {
		return nil, errors.New("customer id is required")
	}
	return s.repo.GetCustomerAccess(models.ProviderAsaas, id)
}
