package controllers

import (
	"encoding/json"

	"github.com/gofiber/fiber/v2"
)

type createSubscriptionRequest struct {
	Customer    string  `json:"customer" validate:"required"`
	Value       float64 `json:"value" validate:"required"`
	BillingType string  `json:"billingType" validate:"required"`
	Cycle       string  `json:"cycle" validate:"required"`
	NextDueDate string  `json:"nextDueDate" validate:"required"`
}

type createCardSubscriptionRequest struct {
	Customer             string          `json:"customer" validate:"required"`
	Value                float64         `json:"value" validate:"required"`
	NextDueDate          string          `json:"nextDueDate" validate:"required"`
	CreditCard           json.RawMessage `json:"creditCard" validate:"required"`
	CreditCardHolderInfo json.RawMessage `json:"creditCardHolderInfo" validate:"required"`
}

// HandleCreateSubscription forwards a PIX/BOLETO/card subscription request.
func (g *Gateway) HandleCreateSubscription(c *fiber.Ctx) error {
	body := c.BodyRaw()

	var req createSubscriptionRequest
	if err := decodeAndValidate(body, &req); err != nil {
		return missingRequiredFields(c)
	}

	ctx, cancel := providerCallContext()
	defer cancel()

	resp, err := g.client.CreateSubscription(ctx, body)
	if err != nil {
		return providerFault(c, "subscription_create_failed", err)
	}
	return relayProviderResponse(c, resp)
}

// HandleCreateCardSubscription forwards a credit-card subscription request.
// The billing type is forced server-side so callers cannot smuggle a
// different charge mode through this route.
func (g *Gateway) HandleCreateCardSubscription(c *fiber.Ctx) error {
	body := c.BodyRaw()

	var req createCardSubscriptionRequest
	if err := decodeAndValidate(body, &req); err != nil {
		return missingRequiredFields(c)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return missingRequiredFields(c)
	}
	payload["billingType"] = "CREDIT_CARD"
	forward, err := json.Marshal(payload)
	if err != nil {
		return providerFault(c, "card_subscription_create_failed", err)
	}

	ctx, cancel := providerCallContext()
	defer cancel()

	resp, err := g.client.CreateSubscription(ctx, forward)
	if err != nil {
		return providerFault(c, "card_subscription_create_failed", err)
	}
	return relayProviderResponse(c, resp)
}

// HandleListSubscriptionPayments relays the charge list for a subscription.
func (g *Gateway) HandleListSubscriptionPayments(c *fiber.Ctx) error {
	ctx, cancel := providerCallContext()
	defer cancel()

	resp, err := g.client.ListSubscriptionPayments(ctx, c.Params("id"))
	if err != nil {
		return providerFault(c, "subscription_payments_fetch_failed", err)
	}
	return relayProviderResponse(c, resp)
}
