package store

import (
	"context"
	"fmt"

	"ticket-engine/config"
	"ticket-engine/models"
)

// EventStore owns event records. UpdateEvent applies fn to the current
// record as a single atomic read-modify-write; if fn returns an error
// the record is left untouched and the error is surfaced.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, id string) (models.Event, error)
	UpdateEvent(ctx context.Context, id string, fn func(*models.Event) error) (models.Event, error)
}

type TicketStore interface {
	CreateTicket(ctx context.Context, ticket *models.Ticket) error
	GetTicket(ctx context.Context, ticketID string) (models.Ticket, error)
	FindTicketByIntent(ctx context.Context, intentID string) (models.Ticket, error)
	UpdateTicket(ctx context.Context, ticketID string, fn func(*models.Ticket) error) (models.Ticket, error)
	ListEventTickets(ctx context.Context, eventID string) ([]models.Ticket, error)
}

type PromoStore interface {
	CreatePromo(ctx context.Context, promo *models.PromoCode) error
	GetPromo(ctx context.Context, code string) (models.PromoCode, error)
	UpdatePromo(ctx context.Context, code string, fn func(*models.PromoCode) error) (models.PromoCode, error)
}

type PaymentStore interface {
	CreatePayment(ctx context.Context, payment *models.Payment) error
	GetPayment(ctx context.Context, intentID string) (models.Payment, error)
	UpdatePayment(ctx context.Context, intentID string, fn func(*models.Payment) error) (models.Payment, error)
}

// TicketIDRegistry is the persisted set of every ticket identifier ever
// issued. Claim must be atomic: of two concurrent claims for the same
// identifier exactly one observes true.
type TicketIDRegistry interface {
	ClaimTicketID(ctx context.Context, id string) (bool, error)
	ReleaseTicketID(ctx context.Context, id string) error
}

// Store is the full persistence surface the engine depends on.
type Store interface {
	EventStore
	TicketStore
	PromoStore
	PaymentStore
	TicketIDRegistry
}

// Backend identifies a storage backend implementation.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
)

// New creates a store instance based on the configured backend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch Backend(cfg.StorageBackend) {
	case BackendMemory:
		return NewMemoryStore(), nil

	case BackendSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath)

	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.StorageBackend)
	}
}
