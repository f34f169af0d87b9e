package promotion

import (
	"time"

	"gotrip-checkout/internal/domain/pricing"
)

// Applied is the promotion snapshot a checkout holds after a successful apply.
type Applied struct {
	Promotion Promotion     `json:"promotion"`
	Discount  pricing.Money `json:"discount"`
	AppliedAt time.Time     `json:"appliedAt"`
}

// Evaluate runs the full applicability check for an already fetched promotion.
func Evaluate(p Promotion, subtotal pricing.Money, now time.Time, productType string) (Applied, error) {
	if err := p.CheckEligibility(now, productType); err != nil {
		return Applied{}, err
	}
	d, err := p.Discount(subtotal)
	if err != nil {
		return Applied{}, err
	}
	return Applied{Promotion: p, Discount: d, AppliedAt: now}, nil
}

// Recompute re-derives the discount against a new subtotal. A promotion that no longer
// meets its minimum spend contributes nothing and eligible is false.
func (a Applied) Recompute(subtotal pricing.Money) (discount pricing.Money, eligible bool) {
	d, err := a.Promotion.Discount(subtotal)
	if err != nil {
		return 0, false
	}
	return d, true
}

// Offer is an entry of the public promotion list, tagged with whether it fits the current subtotal.
type Offer struct {
	Promotion Promotion `json:"promotion"`
	CanUse    bool      `json:"canUse"`
}

// AvailableOffers filters a public listing down to eligible promotions.
func AvailableOffers(list []Promotion, subtotal pricing.Money, now time.Time, productType string) []Offer {
	offers := make([]Offer, 0, len(list))
	for _, p := range list {
		if p.CheckEligibility(now, productType) != nil {
			continue
		}
		offers = append(offers, Offer{Promotion: p, CanUse: p.MeetsMinSpend(subtotal)})
	}
	return offers
}
