package services

import (
	"context"
	"fmt"
	"time"

	"ticket-engine/models"
	"ticket-engine/monitoring"
	"ticket-engine/store"
)

// PromoService validates and consumes promo-code budget. The
// check-then-increment runs inside the store's atomic update, so a
// code with usage_limit N accepts exactly N concurrent redemptions.
type PromoService struct {
	promos store.PromoStore
}

func NewPromoService(promos store.PromoStore) *PromoService {
	return &PromoService{promos: promos}
}

func (s *PromoService) CreatePromo(ctx context.Context, promo *models.PromoCode) error {
	if promo.Code == "" {
		return fmt.Errorf("promo: empty code")
	}
	if promo.UsageLimit <= 0 {
		return fmt.Errorf("promo: usage limit must be positive")
	}
	return s.promos.CreatePromo(ctx, promo)
}

// ValidateAndConsume checks the code against now, increments its usage
// count and returns the promo whose discount should be applied.
func (s *PromoService) ValidateAndConsume(ctx context.Context, code string, now time.Time) (models.PromoCode, error) {
	promo, err := s.promos.UpdatePromo(ctx, code, func(p *models.PromoCode) error {
		if !now.Before(p.ExpiresAt) {
			return models.ErrPromoExpired
		}
		if p.UsageCount >= p.UsageLimit {
			return models.ErrPromoLimitReached
		}
		p.UsageCount++
		return nil
	})
	if err != nil {
		monitoring.TrackPromoRedemption(code, "rejected")
		return models.PromoCode{}, err
	}

	monitoring.TrackPromoRedemption(code, "consumed")
	return promo, nil
}

// ResetUsage zeroes a code's usage count. Administrative action; the
// only path that ever decrements usage.
func (s *PromoService) ResetUsage(ctx context.Context, code string) error {
	_, err := s.promos.UpdatePromo(ctx, code, func(p *models.PromoCode) error {
		p.UsageCount = 0
		return nil
	})
	return err
}
