package services

import (
	"context"
	"fmt"
	"sync"

	"ticket-engine/models"
	"ticket-engine/monitoring"
	"ticket-engine/store"
)

// InventoryService owns every event's seat counters. Reserve and
// Release go through the store's atomic read-modify-write, so two
// concurrent reservations can never both succeed when their combined
// demand exceeds the available count.
type InventoryService struct {
	events store.EventStore
}

func NewInventoryService(events store.EventStore) *InventoryService {
	return &InventoryService{events: events}
}

// Reservation holds seats that are not yet backed by a persisted
// ticket. The caller must either Commit or Release it before the
// surrounding operation returns. Release is idempotent.
type Reservation struct {
	svc     *InventoryService
	EventID string
	Count   int

	mu   sync.Mutex
	done bool
}

func (s *InventoryService) Reserve(ctx context.Context, eventID string, seatCount int) (*Reservation, error) {
	if seatCount <= 0 {
		return nil, fmt.Errorf("inventory: invalid seat count %d", seatCount)
	}

	event, err := s.events.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		if e.AvailableSeats < seatCount {
			return models.ErrInsufficientSeats
		}
		e.AvailableSeats -= seatCount
		return nil
	})
	if err != nil {
		return nil, err
	}

	monitoring.SetAvailableSeats(eventID, event.AvailableSeats)
	return &Reservation{svc: s, EventID: eventID, Count: seatCount}, nil
}

// Commit finalizes the reservation. After Commit, Release is a no-op.
func (r *Reservation) Commit() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.done = true
}

// Release rolls the reservation back. Safe to call more than once and
// safe to call after Commit; seats are only restored the first time.
func (r *Reservation) Release(ctx context.Context) error {
	r.mu.Lock()
	if r.done {
		r.mu.Unlock()
		return nil
	}
	r.done = true
	r.mu.Unlock()

	return r.svc.Release(ctx, r.EventID, r.Count)
}

// Release restores seatCount seats to the event, capped at the event's
// total. Used by reservation rollback and ticket cancellation.
func (s *InventoryService) Release(ctx context.Context, eventID string, seatCount int) error {
	if seatCount <= 0 {
		return fmt.Errorf("inventory: invalid seat count %d", seatCount)
	}

	event, err := s.events.UpdateEvent(ctx, eventID, func(e *models.Event) error {
		e.AvailableSeats += seatCount
		if e.AvailableSeats > e.TotalSeats {
			e.AvailableSeats = e.TotalSeats
		}
		return nil
	})
	if err != nil {
		return err
	}

	monitoring.SetAvailableSeats(eventID, event.AvailableSeats)
	return nil
}

func (s *InventoryService) Availability(ctx context.Context, eventID string) (models.Availability, error) {
	event, err := s.events.GetEvent(ctx, eventID)
	if err != nil {
		return models.Availability{}, err
	}

	return models.Availability{
		EventID:   eventID,
		Total:     event.TotalSeats,
		Available: event.AvailableSeats,
	}, nil
}
