package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-engine/models"
)

func TestMemoryStore_EventLifecycle(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	event := &models.Event{
		ID:             "event-1",
		Name:           "Test Concert",
		Venue:          "Test Arena",
		TotalSeats:     100,
		AvailableSeats: 100,
		Status:         "published",
	}
	require.NoError(t, s.CreateEvent(ctx, event))

	assert.ErrorIs(t, s.CreateEvent(ctx, event), models.ErrEventExists)

	got, err := s.GetEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, "Test Concert", got.Name)
	assert.Equal(t, 100, got.AvailableSeats)

	_, err = s.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, models.ErrEventNotFound)
}

func TestMemoryStore_UpdateEvent_AbortLeavesRecordUntouched(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateEvent(ctx, &models.Event{
		ID:             "event-1",
		TotalSeats:     10,
		AvailableSeats: 10,
	}))

	_, err := s.UpdateEvent(ctx, "event-1", func(e *models.Event) error {
		e.AvailableSeats = 0
		return models.ErrInsufficientSeats
	})
	assert.ErrorIs(t, err, models.ErrInsufficientSeats)

	got, err := s.GetEvent(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 10, got.AvailableSeats)
}

func TestMemoryStore_TicketByIntent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreateTicket(ctx, &models.Ticket{
		TicketID:        "123456",
		EventID:         "event-1",
		HolderID:        "holder-1",
		SeatCount:       2,
		Status:          models.TicketPendingPayment,
		PaymentIntentID: "pi_abc",
		IssuedAt:        time.Now(),
	}))

	ticket, err := s.FindTicketByIntent(ctx, "pi_abc")
	require.NoError(t, err)
	assert.Equal(t, "123456", ticket.TicketID)

	_, err = s.FindTicketByIntent(ctx, "pi_unknown")
	assert.ErrorIs(t, err, models.ErrTicketNotFound)
}

func TestMemoryStore_UpdatePayment(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, s.CreatePayment(ctx, &models.Payment{
		IntentID:  "pi_abc",
		HolderID:  "holder-1",
		Amount:    decimal.NewFromInt(50),
		Currency:  "usd",
		Status:    models.PaymentPending,
		CreatedAt: time.Now(),
	}))

	updated, err := s.UpdatePayment(ctx, "pi_abc", func(p *models.Payment) error {
		p.Status = models.PaymentSucceeded
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSucceeded, updated.Status)

	_, err = s.UpdatePayment(ctx, "pi_unknown", func(p *models.Payment) error { return nil })
	assert.ErrorIs(t, err, models.ErrUnknownIntent)
}

func TestMemoryStore_ClaimTicketID_Concurrent(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	const callers = 50
	var wg sync.WaitGroup
	results := make(chan bool, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claimed, err := s.ClaimTicketID(ctx, "424242")
			assert.NoError(t, err)
			results <- claimed
		}()
	}
	wg.Wait()
	close(results)

	claims := 0
	for claimed := range results {
		if claimed {
			claims++
		}
	}
	assert.Equal(t, 1, claims, "exactly one concurrent claim must win")

	require.NoError(t, s.ReleaseTicketID(ctx, "424242"))
	claimed, err := s.ClaimTicketID(ctx, "424242")
	require.NoError(t, err)
	assert.True(t, claimed)
}
