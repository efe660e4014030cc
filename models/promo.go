package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromoCode struct {
	Code       string          `json:"code"`
	Discount   decimal.Decimal `json:"discount"` // percentage, 0-100
	UsageCount int             `json:"usage_count"`
	UsageLimit int             `json:"usage_limit"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

// Apply returns amount reduced by the promo's discount percentage,
// rounded to two decimal places. Amounts never go below zero.
func (p PromoCode) Apply(amount decimal.Decimal) decimal.Decimal {
	discounted := amount.Sub(amount.Mul(p.Discount).Div(decimal.NewFromInt(100))).Round(2)
	if discounted.IsNegative() {
		return decimal.Zero
	}
	return discounted
}
