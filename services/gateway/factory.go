package gateway

import (
	"context"
	"fmt"
)

// New creates a gateway client for the given provider.
func New(ctx context.Context, provider Provider) (Client, error) {
	switch provider {
	case ProviderSimulated:
		return NewSimulatedClient(), nil

	case ProviderStripe:
		// TODO: wire the Stripe adapter once gateway credentials handling lands.
		return nil, fmt.Errorf("gateway: stripe provider not implemented yet")

	default:
		return nil, fmt.Errorf("gateway: unknown provider %q", provider)
	}
}
