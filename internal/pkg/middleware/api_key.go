package middleware

import (
	"crypto/hmac"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/ManuelReschke/FoxPay/internal/pkg/env"
)

// APIKeyAuth guards the forwarding endpoints with a static gateway key.
// When GATEWAY_API_KEY is unset the gate is open, the same sandbox
// posture as the webhook token, and just as unsuitable for production.
func APIKeyAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		secret := strings.TrimSpace(env.GetEnv("GATEWAY_API_KEY", ""))
		if secret == "" {
			return c.Next()
		}

		apiKey := extractAPIKeyFromHeader(c)
		if apiKey == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Missing API key"})
		}
		if !hmac.Equal([]byte(apiKey), []byte(secret)) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "unauthorized", "message": "Invalid API key"})
		}
		return c.Next()
	}
}

func extractAPIKeyFromHeader(c *fiber.Ctx) string {
	apiKey := strings.TrimSpace(c.Get("X-API-Key"))
	if apiKey != "" {
		return apiKey
	}
	auth := strings.TrimSpace(c.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(auth), "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}
