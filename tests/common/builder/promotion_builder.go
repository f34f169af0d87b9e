//go:build unit || e2e

package builder

import (
	"time"

	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
)

type PromotionBuilder struct {
	p promotion.Promotion
}

func NewPromotionBuilder() *PromotionBuilder {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC)
	total := 100
	active := true
	return &PromotionBuilder{
		p: promotion.Promotion{
			Code:        "SUMMER10",
			Type:        promotion.TypePercentage,
			Value:       10,
			Description: "Giảm 10% tour hè",
			Rules: promotion.Rules{
				ValidFrom: &from,
				ValidTo:   &to,
			},
			TotalQuantity: &total,
			UsedQuantity:  3,
			IsActive:      &active,
		},
	}
}

func (b *PromotionBuilder) With(f func(*PromotionBuilder)) *PromotionBuilder {
	if f != nil {
		f(b)
	}
	return b
}

func (b *PromotionBuilder) WithCode(code string) *PromotionBuilder {
	b.p.Code = promotion.Code(code)
	return b
}

func (b *PromotionBuilder) Percentage(value float64) *PromotionBuilder {
	b.p.Type = promotion.TypePercentage
	b.p.Value = value
	return b
}

func (b *PromotionBuilder) FixedAmount(value float64) *PromotionBuilder {
	b.p.Type = promotion.TypeFixedAmount
	b.p.Value = value
	return b
}

func (b *PromotionBuilder) WithMinSpend(m pricing.Money) *PromotionBuilder {
	b.p.Rules.MinSpend = &m
	return b
}

func (b *PromotionBuilder) WithMaxDiscount(m pricing.Money) *PromotionBuilder {
	b.p.Rules.MaxDiscount = &m
	return b
}

func (b *PromotionBuilder) WithWindow(from, to *time.Time) *PromotionBuilder {
	b.p.Rules.ValidFrom = from
	b.p.Rules.ValidTo = to
	return b
}

func (b *PromotionBuilder) WithQuantity(total, used int) *PromotionBuilder {
	b.p.TotalQuantity = &total
	b.p.UsedQuantity = used
	return b
}

func (b *PromotionBuilder) Unlimited() *PromotionBuilder {
	b.p.TotalQuantity = nil
	return b
}

func (b *PromotionBuilder) ForProductType(t string) *PromotionBuilder {
	b.p.Rules.AppliesToProductType = t
	return b
}

func (b *PromotionBuilder) Inactive() *PromotionBuilder {
	inactive := false
	b.p.IsActive = &inactive
	return b
}

// WithoutActiveFlag mimics a promotion record that never carried is_active.
func (b *PromotionBuilder) WithoutActiveFlag() *PromotionBuilder {
	b.p.IsActive = nil
	return b
}

func (b *PromotionBuilder) Build() promotion.Promotion {
	return b.p
}
