package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ManuelReschke/FoxPay/app/models"
)

const (
	EventPaymentReceived       = "PAYMENT_RECEIVED"
	EventPaymentOverdue        = "PAYMENT_OVERDUE"
	EventPaymentDeleted        = "PAYMENT_DELETED"
	EventPaymentRefundReceived = "PAYMENT_REFUND_RECEIVED"
)

const (
	recurringAccessDays = 30
	dueDateLayout       = "2006-01-02"
)

var (
	ErrNoPayment  = errors.New("webhook event carries no payment")
	ErrNoCustomer = errors.New("webhook payment carries no customer reference")
)

// Event is an inbound provider notification. The provider does not always
// assign a stable id, see IdempotencyKey.
type Event struct {
	ID      string   `json:"id"`
	Type    string   `json:"event"`
	Payment *Payment `json:"payment"`
}

// Payment is the charge embedded in a webhook event. Subscription is set
// only for recurring charges; DueDate is a calendar date (YYYY-MM-DD).
type Payment struct {
	ID           string `json:"id"`
	Customer     string `json:"customer"`
	Subscription string `json:"subscription"`
	DueDate      string `json:"dueDate"`
}

// AccessDecision is the outcome of classifying a payment event: grant the
// customer access until ExpiresAt, or flag the account as delinquent.
type AccessDecision struct {
	CustomerID string
	Status     string
	ExpiresAt  *time.Time
	EventType  string
	PaymentID  string
}

// ParseWebhookEvent decodes a raw webhook body into an Event.
func ParseWebhookEvent(payload []byte) (*Event, error) {
	var ev Event
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}
	ev.ID = strings.TrimSpace(ev.ID)
	ev.Type = strings.TrimSpace(ev.Type)
	return &ev, nil
}

// IdempotencyKey derives the dedup key for an event. The provider id wins
// when present; otherwise type plus payment id ("none" when the payment has
// no id). The fallback can collide if the provider fires the same
// (type, paymentId) pair for two logically distinct events; the provider
// gives us nothing better to key on, so that stays a known limitation.
func (e *Event) IdempotencyKey() string {
	if e.ID != "" {
		return e.ID
	}
	paymentID := "none"
	if e.Payment != nil {
		if id := strings.TrimSpace(e.Payment.ID); id != "" {
			paymentID = id
		}
	}
	return e.Type + ":" + paymentID
}

// DecideAccess classifies an event and computes the access decision.
// A nil decision with nil error means the event type is not one we act on.
// ErrNoPayment / ErrNoCustomer signal malformed payloads the caller should
// acknowledge without acting.
func DecideAccess(e *Event) (*AccessDecision, error) {
	switch e.Type {
	case EventPaymentReceived, EventPaymentOverdue, EventPaymentDeleted, EventPaymentRefundReceived:
	default:
		return nil, nil
	}

	if e.Payment == nil {
		return nil, ErrNoPayment
	}
	customer := strings.TrimSpace(e.Payment.Customer)
	if customer == "" {
		return nil, ErrNoCustomer
	}

	decision := &AccessDecision{
		CustomerID: customer,
		EventType:  e.Type,
		PaymentID:  strings.TrimSpace(e.Payment.ID),
	}

	if e.Type != EventPaymentReceived {
		decision.Status = models.AccessStatusDelinquent
		return decision, nil
	}

	dueDate, err := ParseDueDate(e.Payment.DueDate)
	if err != nil {
		return nil, err
	}
	expiresAt := AccessExpiry(dueDate, strings.TrimSpace(e.Payment.Subscription) != "")
	decision.Status = models.AccessStatusActive
	decision.ExpiresAt = &expiresAt
	return decision, nil
}

// ParseDueDate parses a provider calendar date in UTC.
func ParseDueDate(s string) (time.Time, error) {
	d, err := time.ParseInLocation(dueDateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid dueDate %q: %w", s, err)
	}
	return d, nil
}

// AccessExpiry computes how long a received payment keeps the customer
// active: 30 days past the due date for recurring charges, one calendar
// year for one-off annual charges. Whole calendar dates in UTC, no
// time-of-day involved.
func AccessExpiry(dueDate time.Time, recurring bool) time.Time {
	if recurring {
		return dueDate.AddDate(0, 0, recurringAccessDays)
	}
	return dueDate.AddDate(1, 0, 0)
}
