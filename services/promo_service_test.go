package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-engine/models"
	"ticket-engine/store"
)

func newTestPromoService(t *testing.T, promo models.PromoCode) (*PromoService, *store.MemoryStore) {
	t.Helper()

	st := store.NewMemoryStore()
	svc := NewPromoService(st)
	require.NoError(t, svc.CreatePromo(context.Background(), &promo))
	return svc, st
}

func TestPromoService_ValidateAndConsume(t *testing.T) {
	svc, st := newTestPromoService(t, models.PromoCode{
		Code:       "SAVE10",
		Discount:   decimal.NewFromInt(10),
		UsageCount: 0,
		UsageLimit: 5,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	})
	ctx := context.Background()

	promo, err := svc.ValidateAndConsume(ctx, "SAVE10", time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, promo.UsageCount)
	assert.True(t, promo.Discount.Equal(decimal.NewFromInt(10)))

	stored, err := st.GetPromo(ctx, "SAVE10")
	require.NoError(t, err)
	assert.Equal(t, 1, stored.UsageCount)
}

func TestPromoService_Expired(t *testing.T) {
	svc, st := newTestPromoService(t, models.PromoCode{
		Code:       "OLD",
		Discount:   decimal.NewFromInt(20),
		UsageLimit: 10,
		ExpiresAt:  time.Now().Add(-time.Hour),
	})
	ctx := context.Background()

	_, err := svc.ValidateAndConsume(ctx, "OLD", time.Now())
	assert.ErrorIs(t, err, models.ErrPromoExpired)

	stored, err := st.GetPromo(ctx, "OLD")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsageCount, "failed redemption must not consume budget")
}

func TestPromoService_NotFound(t *testing.T) {
	svc := NewPromoService(store.NewMemoryStore())

	_, err := svc.ValidateAndConsume(context.Background(), "MISSING", time.Now())
	assert.ErrorIs(t, err, models.ErrPromoNotFound)
}

func TestPromoService_LimitEnforcedUnderConcurrency(t *testing.T) {
	svc, st := newTestPromoService(t, models.PromoCode{
		Code:       "LIMIT3",
		Discount:   decimal.NewFromInt(15),
		UsageCount: 0,
		UsageLimit: 3,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	})
	ctx := context.Background()

	const callers = 5
	var wg sync.WaitGroup
	errs := make(chan error, callers)

	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ValidateAndConsume(ctx, "LIMIT3", time.Now())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	successes, limited := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, models.ErrPromoLimitReached):
			limited++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 3, successes)
	assert.Equal(t, 2, limited)

	stored, err := st.GetPromo(ctx, "LIMIT3")
	require.NoError(t, err)
	assert.Equal(t, 3, stored.UsageCount, "usage never exceeds the limit")
}

func TestPromoService_ResetUsage(t *testing.T) {
	svc, st := newTestPromoService(t, models.PromoCode{
		Code:       "RESET",
		Discount:   decimal.NewFromInt(5),
		UsageCount: 7,
		UsageLimit: 7,
		ExpiresAt:  time.Now().Add(24 * time.Hour),
	})
	ctx := context.Background()

	_, err := svc.ValidateAndConsume(ctx, "RESET", time.Now())
	assert.ErrorIs(t, err, models.ErrPromoLimitReached)

	require.NoError(t, svc.ResetUsage(ctx, "RESET"))

	stored, err := st.GetPromo(ctx, "RESET")
	require.NoError(t, err)
	assert.Equal(t, 0, stored.UsageCount)

	_, err = svc.ValidateAndConsume(ctx, "RESET", time.Now())
	assert.NoError(t, err)
}
