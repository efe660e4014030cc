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
	"ticket-engine/notification"
	"ticket-engine/services/gateway"
	"ticket-engine/store"
)

// BookingService composes the inventory ledger, promo validator,
// identifier generator and payment reconciler into the atomic booking
// operation. Any step failing unwinds everything the same call did
// before returning.
type BookingService struct {
	store     store.Store
	inventory *InventoryService
	promos    *PromoService
	payments  *PaymentService
	ids       *TicketIDGenerator
	gateway   gateway.Client
	notifier  notification.Notifier

	now func() time.Time
}

func NewBookingService(
	st store.Store,
	inventory *InventoryService,
	promos *PromoService,
	payments *PaymentService,
	ids *TicketIDGenerator,
	gw gateway.Client,
	notifier notification.Notifier,
) *BookingService {
	return &BookingService{
		store:     st,
		inventory: inventory,
		promos:    promos,
		payments:  payments,
		ids:       ids,
		gateway:   gw,
		notifier:  notifier,
		now:       time.Now,
	}
}

type BookRequest struct {
	EventID     string          `json:"event_id"`
	HolderID    string          `json:"holder_id"`
	HolderName  string          `json:"holder_name"`
	HolderEmail string          `json:"holder_email,omitempty"`
	SeatCount   int             `json:"seat_count"`
	PromoCode   string          `json:"promo_code,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty"`
	Method      string          `json:"payment_method,omitempty"`
}

// CreateEvent registers a new event with a fixed seat capacity. The
// available count starts at the total and is mutated only through the
// inventory ledger afterwards.
func (s *BookingService) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.TotalSeats <= 0 {
		return fmt.Errorf("booking: total seats must be positive")
	}

	event.AvailableSeats = event.TotalSeats
	if err := s.store.CreateEvent(ctx, event); err != nil {
		return err
	}

	monitoring.SetAvailableSeats(event.ID, event.AvailableSeats)
	return nil
}

// Book reserves seats, consumes the optional promo, issues the ticket
// and, for paid bookings, defers confirmation to payment settlement.
//
// Seats are reserved before the promo is consumed so a sold-out event
// never burns promo budget.
func (s *BookingService) Book(ctx context.Context, req BookRequest) (models.Ticket, error) {
	if req.EventID == "" || req.HolderID == "" {
		return models.Ticket{}, fmt.Errorf("booking: missing event or holder")
	}
	if req.SeatCount <= 0 {
		return models.Ticket{}, fmt.Errorf("booking: invalid seat count %d", req.SeatCount)
	}

	event, err := s.store.GetEvent(ctx, req.EventID)
	if err != nil {
		return models.Ticket{}, err
	}

	reservation, err := s.inventory.Reserve(ctx, req.EventID, req.SeatCount)
	if err != nil {
		monitoring.TrackBooking(req.EventID, "rejected")
		return models.Ticket{}, err
	}

	ticket, err := s.issueTicket(ctx, req, event)
	if err != nil {
		if releaseErr := reservation.Release(ctx); releaseErr != nil {
			slog.Error("reservation rollback failed",
				"event_id", req.EventID,
				"seat_count", req.SeatCount,
				"error", releaseErr,
			)
		}
		monitoring.TrackBooking(req.EventID, "failed")
		return models.Ticket{}, err
	}

	reservation.Commit()
	monitoring.TrackBooking(req.EventID, "issued")

	if ticket.Status == models.TicketConfirmed {
		s.dispatchConfirmation(ticket, event)
	}

	slog.Info("ticket issued",
		"ticket_id", ticket.TicketID,
		"event_id", ticket.EventID,
		"holder_id", ticket.HolderID,
		"seat_count", ticket.SeatCount,
		"status", ticket.Status,
	)
	return ticket, nil
}

// issueTicket runs every booking step after the seat reservation. The
// caller rolls the reservation back if it returns an error.
func (s *BookingService) issueTicket(ctx context.Context, req BookRequest, event models.Event) (models.Ticket, error) {
	amount := req.Amount
	if req.PromoCode != "" {
		promo, err := s.promos.ValidateAndConsume(ctx, req.PromoCode, s.now())
		if err != nil {
			return models.Ticket{}, err
		}
		amount = promo.Apply(amount)
	}

	ticketID, err := s.ids.Generate(ctx)
	if err != nil {
		return models.Ticket{}, err
	}

	payload := EncodeTicketPayload(TicketDescriptor{
		TicketID:   ticketID,
		EventName:  event.Name,
		HolderName: req.HolderName,
		SeatCount:  req.SeatCount,
	})

	ticket := models.Ticket{
		TicketID:    ticketID,
		EventID:     req.EventID,
		HolderID:    req.HolderID,
		HolderName:  req.HolderName,
		HolderEmail: req.HolderEmail,
		SeatCount:   req.SeatCount,
		QRPayload:   payload,
		Status:      models.TicketConfirmed,
		IssuedAt:    s.now(),
	}

	if amount.IsPositive() {
		intent, err := s.gateway.CreateIntent(ctx, &gateway.IntentRequest{
			Amount:      amount,
			Currency:    req.Currency,
			Method:      req.Method,
			Description: fmt.Sprintf("Ticket %s for %s", ticketID, event.Name),
			HolderEmail: req.HolderEmail,
		})
		if err != nil {
			s.discardTicketID(ctx, ticketID)
			return models.Ticket{}, fmt.Errorf("booking: create payment intent: %w", err)
		}

		if err := s.payments.TrackIntent(ctx, &models.Payment{
			IntentID:  intent.ID,
			HolderID:  req.HolderID,
			Amount:    amount,
			Currency:  req.Currency,
			Method:    req.Method,
			CreatedAt: s.now(),
		}); err != nil {
			s.discardTicketID(ctx, ticketID)
			return models.Ticket{}, err
		}

		ticket.PaymentIntentID = intent.ID
		ticket.Status = models.TicketPendingPayment
	}

	// Commit point: once the ticket record exists the reservation is
	// permanent and the identifier stays claimed forever.
	if err := s.store.CreateTicket(ctx, &ticket); err != nil {
		s.discardTicketID(ctx, ticketID)
		return models.Ticket{}, err
	}

	return ticket, nil
}

func (s *BookingService) discardTicketID(ctx context.Context, ticketID string) {
	if err := s.ids.Discard(ctx, ticketID); err != nil {
		slog.Error("ticket id rollback failed", "ticket_id", ticketID, "error", err)
	}
}

// Cancel releases a ticket's seats back to its event. Cancelling an
// already-cancelled or unknown ticket fails with ErrCancelNotAllowed.
func (s *BookingService) Cancel(ctx context.Context, ticketID string) error {
	ticket, err := s.store.UpdateTicket(ctx, ticketID, func(t *models.Ticket) error {
		if t.Status == models.TicketCancelled {
			return models.ErrCancelNotAllowed
		}
		now := s.now()
		t.Status = models.TicketCancelled
		t.CancelledAt = &now
		return nil
	})
	if errors.Is(err, models.ErrTicketNotFound) {
		return models.ErrCancelNotAllowed
	}
	if err != nil {
		return err
	}

	if err := s.inventory.Release(ctx, ticket.EventID, ticket.SeatCount); err != nil {
		return err
	}

	monitoring.TrackCancellation(ticket.EventID)
	slog.Info("ticket cancelled", "ticket_id", ticketID, "event_id", ticket.EventID)
	return nil
}

// RecordPaymentOutcome applies a gateway settlement notification. A
// Succeeded outcome confirms the pending ticket; a Failed outcome
// cancels it and releases its seats. Duplicate notifications surface
// ErrAlreadyFinalized with no further side effects.
func (s *BookingService) RecordPaymentOutcome(ctx context.Context, intentID string, status models.PaymentStatus, amount decimal.Decimal, currency string) error {
	_, err := s.payments.RecordOutcome(ctx, intentID, status, amount, currency)
	if err != nil {
		return err
	}

	ticket, err := s.store.FindTicketByIntent(ctx, intentID)
	if errors.Is(err, models.ErrTicketNotFound) {
		// Payment tracked without a persisted ticket; nothing to reconcile.
		return nil
	}
	if err != nil {
		return err
	}

	switch status {
	case models.PaymentSucceeded:
		return s.confirmTicket(ctx, ticket)

	case models.PaymentFailed:
		if err := s.Cancel(ctx, ticket.TicketID); err != nil && !errors.Is(err, models.ErrCancelNotAllowed) {
			return err
		}
		return nil
	}

	return nil
}

var errNotPending = errors.New("booking: ticket is not awaiting payment")

func (s *BookingService) confirmTicket(ctx context.Context, ticket models.Ticket) error {
	settled, err := s.payments.ConfirmTicketIfSettled(ctx, ticket.TicketID)
	if err != nil {
		return err
	}
	if !settled {
		return nil
	}

	confirmed, err := s.store.UpdateTicket(ctx, ticket.TicketID, func(t *models.Ticket) error {
		if t.Status != models.TicketPendingPayment {
			return errNotPending
		}
		t.Status = models.TicketConfirmed
		return nil
	})
	if errors.Is(err, errNotPending) {
		// Ticket already confirmed or cancelled in the meantime.
		return nil
	}
	if err != nil {
		return err
	}

	event, err := s.store.GetEvent(ctx, confirmed.EventID)
	if err != nil {
		return err
	}

	s.dispatchConfirmation(confirmed, event)
	slog.Info("ticket confirmed", "ticket_id", confirmed.TicketID, "intent_id", confirmed.PaymentIntentID)
	return nil
}

// dispatchConfirmation hands the ticket to the notifier without
// blocking the booking flow. Failures are logged, never propagated.
func (s *BookingService) dispatchConfirmation(ticket models.Ticket, event models.Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.notifier.SendConfirmation(ctx, notification.Confirmation{
			Ticket: ticket,
			Event:  event,
		}); err != nil {
			slog.Error("confirmation dispatch failed", "ticket_id", ticket.TicketID, "error", err)
		}
	}()
}

// Availability reports the event's seat counters.
func (s *BookingService) Availability(ctx context.Context, eventID string) (models.Availability, error) {
	return s.inventory.Availability(ctx, eventID)
}
