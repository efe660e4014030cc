package services

import (
	"context"
	"fmt"
	"strconv"

	"ticket-engine/models"
	"ticket-engine/monitoring"
	"ticket-engine/store"
	"ticket-engine/utils"
)

// Ticket identifiers are 6-7 digit numeric strings.
const (
	ticketIDMin = 100000
	ticketIDMax = 9999999
)

// TicketIDGenerator draws random candidates from the identifier range
// and claims them against the registry. A candidate that is already
// claimed triggers a retry; after maxRetries failed claims the attempt
// fails with ErrSpaceExhausted.
type TicketIDGenerator struct {
	registry   store.TicketIDRegistry
	maxRetries int
}

func NewTicketIDGenerator(registry store.TicketIDRegistry, maxRetries int) *TicketIDGenerator {
	if maxRetries <= 0 {
		maxRetries = 10
	}
	return &TicketIDGenerator{
		registry:   registry,
		maxRetries: maxRetries,
	}
}

func (g *TicketIDGenerator) Generate(ctx context.Context) (string, error) {
	for attempt := 1; attempt <= g.maxRetries; attempt++ {
		n, err := utils.RandomInRange(ticketIDMin, ticketIDMax)
		if err != nil {
			return "", fmt.Errorf("ticket id: %w", err)
		}

		candidate := strconv.FormatInt(n, 10)
		claimed, err := g.registry.ClaimTicketID(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("ticket id claim: %w", err)
		}
		if claimed {
			monitoring.ObserveTicketIDRetries(attempt)
			return candidate, nil
		}
	}

	monitoring.ObserveTicketIDRetries(g.maxRetries)
	return "", models.ErrSpaceExhausted
}

// Discard returns a claimed identifier to the registry. Used when a
// booking fails after claiming but before the ticket is persisted;
// identifiers on issued tickets are never discarded.
func (g *TicketIDGenerator) Discard(ctx context.Context, id string) error {
	return g.registry.ReleaseTicketID(ctx, id)
}
