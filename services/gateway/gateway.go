package gateway

import (
	"context"

	"github.com/shopspring/decimal"
)

// Provider represents different payment gateway backends.
type Provider string

const (
	ProviderSimulated Provider = "simulated"
	ProviderStripe    Provider = "stripe"
)

// IntentRequest is a generic payment-intent creation request.
type IntentRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Method      string          `json:"payment_method"`
	Description string          `json:"description,omitempty"`
	HolderEmail string          `json:"holder_email,omitempty"`
}

// Intent is the gateway's view of a created payment intent. The
// initial status is informational only; the engine finalizes payments
// exclusively through reconciliation.
type Intent struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// Client defines the common interface for payment gateway providers.
type Client interface {
	// GetProvider returns the gateway provider type.
	GetProvider() Provider

	// CreateIntent registers a payment intent with the gateway.
	CreateIntent(ctx context.Context, req *IntentRequest) (*Intent, error)

	// Close gracefully closes any connections.
	Close(ctx context.Context) error
}
