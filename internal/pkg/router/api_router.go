package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/ManuelReschke/FoxPay/app/controllers"
	"github.com/ManuelReschke/FoxPay/internal/pkg/middleware"
)

type ApiRouter struct {
	gw *controllers.Gateway
}

func NewApiRouter(gw *controllers.Gateway) *ApiRouter {
	return &ApiRouter{gw: gw}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})

	// The webhook route sits outside the limiter and API-key gate: the
	// provider authenticates with its own token and its redeliveries must
	// not be throttled into retry loops.
	app.Post("/webhooks/asaas", h.gw.HandleProviderWebhook)

	api := app.Group("/", limiter.New(limiter.Config{Max: 120}), middleware.APIKeyAuth())
	api.Post("/customers", h.gw.HandleCreateCustomer)
	api.Get("/customers/:id/access", h.gw.HandleGetCustomerAccess)
	api.Post("/subscriptions", h.gw.HandleCreateSubscription)
	api.Post("/subscriptions/card", h.gw.HandleCreateCardSubscription)
	api.Get("/subscriptions/:id/payments", h.gw.HandleListSubscriptionPayments)
	api.Post("/payments/pix", h.gw.HandleCreatePixPayment)
	api.Get("/payments/:id", h.gw.HandleGetPayment)
}
