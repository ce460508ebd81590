package controllers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/FoxPay/internal/pkg/billing"
)

type upstreamStub struct {
	server       *httptest.Server
	hits         atomic.Int64
	lastBody     atomic.Value
	status       int
	responseBody string
}

func newUpstreamStub(status int, body string) *upstreamStub {
	stub := &upstreamStub{status: status, responseBody: body}
	stub.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stub.hits.Add(1)
		b, _ := io.ReadAll(r.Body)
		stub.lastBody.Store(string(b))
		w.WriteHeader(stub.status)
		_, _ = w.Write([]byte(stub.responseBody))
	}))
	return stub
}

func (s *upstreamStub) LastBody() string {
	if v := s.lastBody.Load(); v != nil {
		return v.(string)
	}
	return ""
}

func newForwardingApp(upstreamURL string) *fiber.App {
	gw := NewGateway(billing.Config{
		APIBaseURL: upstreamURL,
		APIKey:     "test-key",
	}, billing.NewService(newFakeRepository()))

	app := fiber.New()
	app.Post("/customers", gw.HandleCreateCustomer)
	app.Post("/subscriptions", gw.HandleCreateSubscription)
	app.Post("/subscriptions/card", gw.HandleCreateCardSubscription)
	app.Get("/subscriptions/:id/payments", gw.HandleListSubscriptionPayments)
	app.Post("/payments/pix", gw.HandleCreatePixPayment)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
	})
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCreateCustomerPassThrough(t *testing.T) {
	stub := newUpstreamStub(http.StatusCreated, `{"id":"cus_1","object":"customer"}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/customers", `{"name":"Jo","cpfCnpj":"12345678909"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"id":"cus_1","object":"customer"}`, string(body))
	assert.Equal(t, int64(1), stub.hits.Load())
	assert.Equal(t, `{"name":"Jo","cpfCnpj":"12345678909"}`, stub.LastBody())
}

func TestCreateCustomerRelaysUpstreamError(t *testing.T) {
	stub := newUpstreamStub(http.StatusBadRequest, `{"errors":[{"code":"invalid_cpfCnpj"}]}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/customers", `{}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "invalid_cpfCnpj")
}

func TestCreateSubscriptionValidation(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	// cycle missing
	resp, err := app.Test(jsonRequest(http.MethodPost, "/subscriptions",
		`{"customer":"cus_1","value":49.9,"billingType":"PIX","nextDueDate":"2024-02-01"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"missing_required_fields"}`, string(body))
	assert.Equal(t, int64(0), stub.hits.Load(), "validation failure must not reach the provider")
}

func TestCreateSubscriptionForwardsValidBody(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{"id":"sub_1"}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	payload := `{"customer":"cus_1","value":49.9,"billingType":"BOLETO","cycle":"MONTHLY","nextDueDate":"2024-02-01","description":"pro plan"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/subscriptions", payload), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	// Extra provider-defined fields must survive forwarding untouched.
	assert.Equal(t, payload, stub.LastBody())
}

func TestCreateCardSubscriptionForcesBillingType(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{"id":"sub_2"}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	payload := `{"customer":"cus_1","value":99.9,"nextDueDate":"2024-02-01",` +
		`"creditCard":{"number":"4111111111111111"},"creditCardHolderInfo":{"name":"Jo"},"billingType":"PIX"}`
	resp, err := app.Test(jsonRequest(http.MethodPost, "/subscriptions/card", payload), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var forwarded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stub.LastBody()), &forwarded))
	assert.Equal(t, "CREDIT_CARD", forwarded["billingType"])
}

func TestCreateCardSubscriptionValidation(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	for _, payload := range []string{
		`{"value":99.9,"nextDueDate":"2024-02-01","creditCard":{},"creditCardHolderInfo":{}}`,
		`{"customer":"cus_1","value":99.9,"nextDueDate":"2024-02-01","creditCard":{"number":"4111"}}`,
		`not json`,
	} {
		resp, err := app.Test(jsonRequest(http.MethodPost, "/subscriptions/card", payload), -1)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	}
	assert.Equal(t, int64(0), stub.hits.Load())
}

func TestCreatePixPaymentInjectsDefaults(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{"id":"pay_1"}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/payments/pix",
		`{"customer":"cus_1","value":10.5,"dueDate":"2024-03-01"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var forwarded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stub.LastBody()), &forwarded))
	assert.Equal(t, "PIX", forwarded["billingType"])
	assert.NotEmpty(t, forwarded["externalReference"])
}

func TestCreatePixPaymentKeepsCallerReference(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{"id":"pay_1"}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/payments/pix",
		`{"customer":"cus_1","value":10.5,"dueDate":"2024-03-01","externalReference":"order-77"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var forwarded map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stub.LastBody()), &forwarded))
	assert.Equal(t, "order-77", forwarded["externalReference"])
}

func TestCreatePixPaymentValidation(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/payments/pix",
		`{"customer":"cus_1","value":10.5}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, int64(0), stub.hits.Load())
}

func TestListSubscriptionPaymentsPassThrough(t *testing.T) {
	stub := newUpstreamStub(http.StatusOK, `{"data":[{"id":"pay_1"}],"totalCount":1}`)
	defer stub.server.Close()
	app := newForwardingApp(stub.server.URL)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/subscriptions/sub_1/payments", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"data":[{"id":"pay_1"}],"totalCount":1}`, string(body))
}

func TestProviderUnreachableYieldsEndpointTag(t *testing.T) {
	app := newForwardingApp("http://127.0.0.1:1")

	resp, err := app.Test(jsonRequest(http.MethodPost, "/customers", `{"name":"Jo"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"error":"customer_create_failed"}`, string(body))
}

func TestHealth(t *testing.T) {
	app := newForwardingApp("http://127.0.0.1:1")

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"ok":true}`, string(body))
}
