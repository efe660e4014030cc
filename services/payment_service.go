package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"ticket-engine/models"
	"ticket-engine/monitoring"
	"ticket-engine/store"
)

// PaymentService tracks external-gateway payment intents and enforces
// the Pending -> Succeeded | Failed state machine. Terminal statuses
// are absorbing: duplicate settlement notifications from the gateway
// report ErrAlreadyFinalized and leave the payment unchanged.
type PaymentService struct {
	payments store.PaymentStore
	tickets  store.TicketStore
}

func NewPaymentService(payments store.PaymentStore, tickets store.TicketStore) *PaymentService {
	return &PaymentService{
		payments: payments,
		tickets:  tickets,
	}
}

// TrackIntent registers a freshly created gateway intent. The initial
// status reported by the gateway is not trusted for finalization; only
// RecordOutcome moves a payment to a terminal status.
func (s *PaymentService) TrackIntent(ctx context.Context, payment *models.Payment) error {
	if payment.IntentID == "" {
		return fmt.Errorf("payment: empty intent id")
	}

	payment.Status = models.PaymentPending
	if payment.CreatedAt.IsZero() {
		payment.CreatedAt = time.Now()
	}
	return s.payments.CreatePayment(ctx, payment)
}

// RecordOutcome applies a terminal outcome reported by the gateway.
// Amount and currency must match what was recorded at intent creation.
func (s *PaymentService) RecordOutcome(ctx context.Context, intentID string, newStatus models.PaymentStatus, amount decimal.Decimal, currency string) (models.Payment, error) {
	if !newStatus.Terminal() {
		return models.Payment{}, fmt.Errorf("payment: %q is not a terminal status", newStatus)
	}

	current, err := s.payments.GetPayment(ctx, intentID)
	if err != nil {
		return models.Payment{}, err
	}

	if !current.Amount.Equal(amount) || current.Currency != currency {
		slog.Warn("payment outcome rejected",
			"intent_id", intentID,
			"recorded_amount", current.Amount,
			"reported_amount", amount,
			"recorded_currency", current.Currency,
			"reported_currency", currency,
		)
		return models.Payment{}, models.ErrAmountMismatch
	}

	payment, err := s.payments.UpdatePayment(ctx, intentID, func(p *models.Payment) error {
		if p.Status.Terminal() {
			return models.ErrAlreadyFinalized
		}
		now := time.Now()
		p.Status = newStatus
		p.CompletedAt = &now
		return nil
	})
	if errors.Is(err, models.ErrAlreadyFinalized) {
		// Duplicate notification: report it, hand back the unchanged record.
		return current, models.ErrAlreadyFinalized
	}
	if err != nil {
		return models.Payment{}, err
	}

	monitoring.TrackPaymentOutcome(string(newStatus))
	slog.Info("payment finalized", "intent_id", intentID, "status", newStatus)
	return payment, nil
}

// ConfirmTicketIfSettled reports whether the ticket's associated
// payment has settled. This is the single gate for confirming tickets
// that required payment.
func (s *PaymentService) ConfirmTicketIfSettled(ctx context.Context, ticketID string) (bool, error) {
	ticket, err := s.tickets.GetTicket(ctx, ticketID)
	if err != nil {
		return false, err
	}
	if ticket.PaymentIntentID == "" {
		return false, nil
	}

	payment, err := s.payments.GetPayment(ctx, ticket.PaymentIntentID)
	if err != nil {
		return false, err
	}
	return payment.Status == models.PaymentSucceeded, nil
}
