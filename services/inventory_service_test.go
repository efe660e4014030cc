package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-engine/models"
	"ticket-engine/store"
)

func newTestInventory(t *testing.T, total, available int) (*InventoryService, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	require.NoError(t, st.CreateEvent(context.Background(), &models.Event{
		ID:             "event-1",
		Name:           "Test Concert",
		TotalSeats:     total,
		AvailableSeats: available,
	}))
	return NewInventoryService(st), st
}

func TestInventoryService_ReserveAndCommit(t *testing.T) {
	svc, _ := newTestInventory(t, 100, 100)
	ctx := context.Background()

	reservation, err := svc.Reserve(ctx, "event-1", 3)
	require.NoError(t, err)
	reservation.Commit()

	availability, err := svc.Availability(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 97, availability.Available)
	assert.Equal(t, 100, availability.Total)

	// Release after commit is a no-op.
	require.NoError(t, reservation.Release(ctx))
	availability, err = svc.Availability(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 97, availability.Available)
}

func TestInventoryService_ReleaseIdempotent(t *testing.T) {
	svc, _ := newTestInventory(t, 10, 10)
	ctx := context.Background()

	reservation, err := svc.Reserve(ctx, "event-1", 4)
	require.NoError(t, err)

	require.NoError(t, reservation.Release(ctx))
	require.NoError(t, reservation.Release(ctx))

	availability, err := svc.Availability(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 10, availability.Available, "double release must not double count")
}

func TestInventoryService_ReleaseCappedAtTotal(t *testing.T) {
	svc, _ := newTestInventory(t, 10, 10)
	ctx := context.Background()

	require.NoError(t, svc.Release(ctx, "event-1", 5))

	availability, err := svc.Availability(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 10, availability.Available, "available seats never exceed total")
}

func TestInventoryService_InsufficientSeats(t *testing.T) {
	svc, _ := newTestInventory(t, 10, 2)
	ctx := context.Background()

	_, err := svc.Reserve(ctx, "event-1", 3)
	assert.ErrorIs(t, err, models.ErrInsufficientSeats)

	availability, err := svc.Availability(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 2, availability.Available)
}

func TestInventoryService_NeverOversellsUnderConcurrency(t *testing.T) {
	const available = 5
	const callers = 20

	svc, _ := newTestInventory(t, 100, available)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			reservation, err := svc.Reserve(ctx, "event-1", 1)
			if err == nil {
				reservation.Commit()
			}
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, insufficient := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, models.ErrInsufficientSeats):
			insufficient++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, available, successes)
	assert.Equal(t, callers-available, insufficient)

	availability, err := svc.Availability(ctx, "event-1")
	require.NoError(t, err)
	assert.Equal(t, 0, availability.Available)
}
