package controllers

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/FoxPay/internal/pkg/billing"
)

const providerCallTimeout = 20 * time.Second

var validate = validator.New()

// relayProviderResponse hands the upstream status and body back to the
// caller unchanged (pass-through fidelity).
func relayProviderResponse(c *fiber.Ctx, resp *billing.ProviderResponse) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Status(resp.StatusCode).Send(resp.Body)
}

// providerFault logs the failed upstream call and answers with the
// endpoint's fixed error tag. Nothing is retried here; the caller owns
// retries.
func providerFault(c *fiber.Ctx, endpointTag string, err error) error {
	log.Printf("%s: provider call failed: %v", endpointTag, err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": endpointTag})
}

// missingRequiredFields is the fixed local-validation answer; no upstream
// call happens when it fires.
func missingRequiredFields(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "missing_required_fields"})
}

// decodeAndValidate binds the raw body to a typed request and runs the
// validator tags. The raw body stays the forwarding source of truth so
// provider-defined fields beyond the typed ones survive.
func decodeAndValidate(body []byte, dst interface{}) error {
	if err := json.Unmarshal(body, dst); err != nil {
		return err
	}
	return validate.Struct(dst)
}

func providerCallContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), providerCallTimeout)
}
