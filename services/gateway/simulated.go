package gateway

import (
	"context"
	"fmt"
	"strings"

	"ticket-engine/utils"
)

// SimulatedClient stands in for a real gateway in development and
// tests. Intents it creates settle only when an outcome is recorded
// through the reconciler, same as a real gateway.
type SimulatedClient struct{}

func NewSimulatedClient() *SimulatedClient {
	return &SimulatedClient{}
}

func (c *SimulatedClient) GetProvider() Provider {
	return ProviderSimulated
}

func (c *SimulatedClient) CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error) {
	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("gateway: invalid amount %s", req.Amount)
	}
	if req.Currency == "" {
		return nil, fmt.Errorf("gateway: missing currency")
	}

	suffix, err := utils.GenerateCode(12)
	if err != nil {
		return nil, fmt.Errorf("gateway: intent id: %w", err)
	}

	return &Intent{
		ID:     "pi_" + strings.ToLower(suffix),
		Status: "pending",
	}, nil
}

func (c *SimulatedClient) Close(ctx context.Context) error {
	return nil
}
