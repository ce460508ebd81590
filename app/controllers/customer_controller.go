package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HandleCreateCustomer forwards the provider-defined customer body as-is.
func (g *Gateway) HandleCreateCustomer(c *fiber.Ctx) error {
	ctx, cancel := providerCallContext()
	defer cancel()

	resp, err := g.client.CreateCustomer(ctx, c.BodyRaw())
	if err != nil {
		return providerFault(c, "customer_create_failed", err)
	}
	return relayProviderResponse(c, resp)
}

// HandleGetCustomerAccess reports the access state derived from payment
// webhooks for one customer.
func (g *Gateway) HandleGetCustomerAccess(c *fiber.Ctx) error {
	ctx, cancel := providerCallContext()
	defer cancel()

	access, err := g.svc.GetCustomerAccess(ctx, c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not_found"})
		}
		return providerFault(c, "customer_access_fetch_failed", err)
	}
	return c.Status(fiber.StatusOK).JSON(access)
}
