package billing

import (
	"strings"

	"github.com/ManuelReschke/FoxPay/internal/pkg/env"
)

const defaultAsaasAPIBaseURL = "https://sandbox.asaas.com/api/v3"

// Config carries the provider credentials and endpoints as one explicit
// value instead of process-wide variables. Built once at startup and
// injected into the handlers.
type Config struct {
	// APIBaseURL is the provider REST base, e.g. the Asaas sandbox.
	APIBaseURL string
	// APIKey is the static credential attached to every outbound call.
	APIKey string
	// WebhookToken is the shared secret expected in the webhook header.
	// Empty means open mode: webhook authentication is skipped. That is
	// a sandbox convenience, not a production setting.
	WebhookToken string
}

// NewConfigFromEnv reads the provider settings from the environment.
func NewConfigFromEnv() Config {
	return Config{
		APIBaseURL:   strings.TrimRight(env.GetEnv("ASAAS_API_BASE_URL", defaultAsaasAPIBaseURL), "/"),
		APIKey:       strings.TrimSpace(env.GetEnv("ASAAS_API_KEY", "")),
		WebhookToken: strings.TrimSpace(env.GetEnv("ASAAS_WEBHOOK_TOKEN", "")),
	}
}
