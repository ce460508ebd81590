package controllers

import (
	"github.com/ManuelReschke/FoxPay/internal/pkg/billing"
)

// Gateway bundles the provider client, the billing service, and the
// configuration the handlers need. One instance is built at startup and
// registered on the router; nothing here is per-request state.
type Gateway struct {
	cfg    billing.Config
	client *billing.AsaasClient
	svc    *billing.Service
}

// NewGateway creates the handler set from an explicit config and service.
func NewGateway(cfg billing.Config, svc *billing.Service) *Gateway {
	return &Gateway{
		cfg:    cfg,
		client: billing.NewAsaasClient(cfg),
		svc:    svc,
	}
}
