package services

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-engine/models"
	"ticket-engine/store"
)

var ticketIDPattern = regexp.MustCompile(`^[1-9]\d{5,6}$`)

func TestTicketIDGenerator_Format(t *testing.T) {
	gen := NewTicketIDGenerator(store.NewMemoryStore(), 10)

	for i := 0; i < 100; i++ {
		id, err := gen.Generate(context.Background())
		require.NoError(t, err)
		assert.Regexp(t, ticketIDPattern, id, "ticket ids are 6-7 digit numeric strings")
	}
}

func TestTicketIDGenerator_UniqueUnderConcurrency(t *testing.T) {
	gen := NewTicketIDGenerator(store.NewMemoryStore(), 10)

	const n = 200
	var wg sync.WaitGroup
	ids := make(chan string, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, err := gen.Generate(context.Background())
			assert.NoError(t, err)
			ids <- id
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[string]struct{}, n)
	for id := range ids {
		_, dup := seen[id]
		assert.False(t, dup, "duplicate ticket id %s", id)
		seen[id] = struct{}{}
	}
	assert.Len(t, seen, n)
}

// exhaustedRegistry rejects every claim, simulating a fully taken
// identifier space.
type exhaustedRegistry struct{}

func (exhaustedRegistry) ClaimTicketID(ctx context.Context, id string) (bool, error) {
	return false, nil
}

func (exhaustedRegistry) ReleaseTicketID(ctx context.Context, id string) error {
	return nil
}

func TestTicketIDGenerator_SpaceExhausted(t *testing.T) {
	gen := NewTicketIDGenerator(exhaustedRegistry{}, 5)

	_, err := gen.Generate(context.Background())
	assert.ErrorIs(t, err, models.ErrSpaceExhausted)
}

func TestTicketIDGenerator_DiscardFreesID(t *testing.T) {
	st := store.NewMemoryStore()
	gen := NewTicketIDGenerator(st, 10)
	ctx := context.Background()

	id, err := gen.Generate(ctx)
	require.NoError(t, err)

	claimed, err := st.ClaimTicketID(ctx, id)
	require.NoError(t, err)
	assert.False(t, claimed, "generated id must be claimed")

	require.NoError(t, gen.Discard(ctx, id))

	claimed, err = st.ClaimTicketID(ctx, id)
	require.NoError(t, err)
	assert.True(t, claimed, "discarded id returns to the pool")
}
