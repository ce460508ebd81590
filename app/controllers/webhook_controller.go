package controllers

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/FoxPay/app/models"
	"github.com/ManuelReschke/FoxPay/internal/pkg/billing"
	"github.com/ManuelReschke/FoxPay/internal/pkg/cache"
)

const webhookTokenHeader = "asaas-access-token"

// HandleProviderWebhook ingests provider payment notifications:
// authenticate, dedup, classify, apply the access decision. Once the token
// check passes the provider always gets a 200 back; its retry loop must
// never be fed by business-logic outcomes it considers delivered.
func (g *Gateway) HandleProviderWebhook(c *fiber.Ctx) error {
	rawBody := append([]byte(nil), c.BodyRaw()...)
	token := strings.TrimSpace(c.Get(webhookTokenHeader))

	if !billing.AuthorizeWebhook(token, g.cfg.WebhookToken) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid_token"})
	}

	ctx, cancel := providerCallContext()
	defer cancel()

	event, parseErr := billing.ParseWebhookEvent(rawBody)
	eventID := ""
	eventType := ""
	if parseErr == nil {
		eventID = event.IdempotencyKey()
		eventType = event.Type
	}

	created, stored, err := g.svc.RecordWebhookEvent(ctx, billing.WebhookEventInput{
		Provider:        models.ProviderAsaas,
		ProviderEventID: eventID,
		EventType:       eventType,
		PayloadJSON:     string(rawBody),
		TokenValid:      g.cfg.WebhookToken != "",
	})
	if err != nil {
		log.Printf("webhook: persisting event failed: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "webhook_persist_failed"})
	}
	if !created {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "duplicate": true})
	}

	if parseErr != nil {
		log.Printf("webhook: unreadable payload acknowledged: %v", parseErr)
		_ = g.svc.MarkWebhookProcessed(ctx, stored.ID, parseErr)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}

	decision, err := billing.DecideAccess(event)
	if err != nil {
		// Malformed payloads are acknowledged, not retried into a storm.
		log.Printf("webhook: event %s not actionable: %v", stored.ProviderEventID, err)
		_ = g.svc.MarkWebhookProcessed(ctx, stored.ID, err)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	}
	if decision == nil {
		_ = g.svc.MarkWebhookProcessed(ctx, stored.ID, nil)
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true, "ignored": true})
	}

	_, applyErr := g.svc.ApplyDecision(ctx, decision)
	if applyErr != nil {
		// Still acknowledged: the failure is surfaced via processing_error
		// and logs instead of an endless provider redelivery loop.
		log.Printf("webhook: applying decision for customer %s failed: %v", decision.CustomerID, applyErr)
	} else if decision.PaymentID != "" {
		_ = cache.Delete(paymentCacheKey(decision.PaymentID))
	}
	_ = g.svc.MarkWebhookProcessed(ctx, stored.ID, applyErr)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}
