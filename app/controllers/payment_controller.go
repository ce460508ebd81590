package controllers

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/ManuelReschke/FoxPay/internal/pkg/cache"
)

const paymentCacheTTL = 30 * time.Second

type createPixPaymentRequest struct {
	Customer string  `json:"customer" validate:"required"`
	Value    float64 `json:"value" validate:"required"`
	DueDate  string  `json:"dueDate" validate:"required"`
}

// HandleCreatePixPayment forwards a one-off PIX charge. The billing type is
// forced and an externalReference is generated when the caller omits one,
// so charges stay traceable back to this gateway.
func (g *Gateway) HandleCreatePixPayment(c *fiber.Ctx) error {
	body := c.BodyRaw()

	var req createPixPaymentRequest
	if err := decodeAndValidate(body, &req); err != nil {
		return missingRequiredFields(c)
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return missingRequiredFields(c)
	}
	payload["billingType"] = "PIX"
	if _, ok := payload["externalReference"]; !ok {
		payload["externalReference"] = uuid.NewString()
	}
	forward, err := json.Marshal(payload)
	if err != nil {
		return providerFault(c, "pix_payment_create_failed", err)
	}

	ctx, cancel := providerCallContext()
	defer cancel()

	resp, err := g.client.CreatePayment(ctx, forward)
	if err != nil {
		return providerFault(c, "pix_payment_create_failed", err)
	}
	return relayProviderResponse(c, resp)
}

// HandleGetPayment relays a single charge, with a short read-through cache
// in front of the provider. Webhook processing invalidates the entry, so a
// status flip is visible immediately after the provider reports it.
func (g *Gateway) HandleGetPayment(c *fiber.Ctx) error {
	id := strings.TrimSpace(c.Params("id"))
	key := paymentCacheKey(id)

	if cached, err := cache.Get(key); err == nil && cached != "" {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Status(fiber.StatusOK).SendString(cached)
	}

	ctx, cancel := providerCallContext()
	defer cancel()

	resp, err := g.client.GetPayment(ctx, id)
	if err != nil {
		return providerFault(c, "payment_fetch_failed", err)
	}
	if resp.StatusCode == fiber.StatusOK {
		// Best effort; a cold cache only costs an extra provider call.
		_ = cache.Set(key, string(resp.Body), paymentCacheTTL)
	}
	return relayProviderResponse(c, resp)
}

func paymentCacheKey(paymentID string) string {
	return "payment:" + paymentID
}
