package billing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxProviderResponseBytes = 1 << 20

// ProviderResponse is the verbatim upstream answer: the facade relays
// status and body without reinterpreting them.
type ProviderResponse struct {
	StatusCode int
	Body       []byte
}

// IsSuccess reports whether the upstream answered with a 2xx status.
func (r *ProviderResponse) IsSuccess() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

type AsaasClient struct {
	BaseURL string
	APIKey  string

	HTTPClient *http.Client
}

// NewAsaasClient builds a provider client from the injected config.
func NewAsaasClient(cfg Config) *AsaasClient {
	return &AsaasClient{
		BaseURL: strings.TrimRight(cfg.APIBaseURL, "/"),
		APIKey:  cfg.APIKey,
		HTTPClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

func (c *AsaasClient) CreateCustomer(ctx context.Context, body []byte) (*ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/customers", body)
}

func (c *AsaasClient) CreateSubscription(ctx context.Context, body []byte) (*ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/subscriptions", body)
}

func (c *AsaasClient) CreatePayment(ctx context.Context, body []byte) (*ProviderResponse, error) {
	return c.do(ctx, http.MethodPost, "/payments", body)
}

func (c *AsaasClient) GetPayment(ctx context.Context, paymentID string) (*ProviderResponse, error) {
	id := strings.TrimSpace(paymentID)
	if id == "" {
		return nil, errors.New("payment id is required")
	}
	return c.do(ctx, http.MethodGet, "/payments/"+url.PathEscape(id), nil)
}

func (c *AsaasClient) ListSubscriptionPayments(ctx context.Context, subscriptionID string) (*ProviderResponse, error) {
	id := strings.TrimSpace(subscriptionID)
	if id == "" {
		return nil, errors.New("subscription id is required")
	}
	return c.do(ctx, http.MethodGet, "/subscriptions/"+url.PathEscape(id)+"/payments", nil)
}

func (c *AsaasClient) do(ctx context.Context, method, path string, body []byte) (*ProviderResponse, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, errors.New("ASAAS_API_KEY is not configured")
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("asaas-access-token", c.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("asaas request %s %s failed: %w", method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxProviderResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("asaas response read failed: %w", err)
	}

	return &ProviderResponse{StatusCode: resp.StatusCode, Body: respBody}, nil
}
