package response

import (
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/passenger"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/usecase/queries"

	"github.com/jinzhu/copier"
)

type CheckoutResponse struct {
	ID             string                 `json:"id"`
	Status         string                 `json:"status"`
	BookingID      string                 `json:"bookingId,omitempty"`
	Selection      checkout.Selection     `json:"selection"`
	Counts         pricing.PassengerCount `json:"counts"`
	Passengers     []PassengerResponse    `json:"passengers"`
	AddOns         pricing.AddOns         `json:"addOns"`
	Contact        checkout.ContactInfo   `json:"contact"`
	Breakdown      pricing.PriceBreakdown `json:"breakdown"`
	Promotion      *queries.PromotionView `json:"promotion,omitempty"`
	PromotionError string                 `json:"promotionError,omitempty"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

// PassengerResponse adds the roster position the edit endpoint addresses slots by.
type PassengerResponse struct {
	Position    int    `json:"position"`
	Type        string `json:"type"`
	Index       int    `json:"index"`
	FullName    string `json:"fullName"`
	Gender      string `json:"gender"`
	DateOfBirth string `json:"dateOfBirth"`
}

func FromCheckoutView(v *queries.CheckoutView) *CheckoutResponse {
	res := &CheckoutResponse{}
	_ = copier.Copy(res, v)
	res.Status = string(v.Status)
	res.Passengers = fromRoster(v.Passengers)
	return res
}

func fromRoster(roster []passenger.Record) []PassengerResponse {
	out := make([]PassengerResponse, 0, len(roster))
	for i, p := range roster {
		out = append(out, PassengerResponse{
			Position:    i,
			Type:        string(p.Type),
			Index:       p.Index,
			FullName:    p.FullName,
			Gender:      string(p.Gender),
			DateOfBirth: p.DateOfBirth,
		})
	}
	return out
}

type OfferResponse struct {
	Code        string         `json:"code"`
	Type        string         `json:"type"`
	Value       float64        `json:"value"`
	Description string         `json:"description,omitempty"`
	MinSpend    *pricing.Money `json:"minSpend,omitempty"`
	CanUse      bool           `json:"canUse"`
}

func FromOffers(offers []promotion.Offer) []OfferResponse {
	out := make([]OfferResponse, 0, len(offers))
	for _, o := range offers {
		out = append(out, OfferResponse{
			Code:        o.Promotion.Code.String(),
			Type:        string(o.Promotion.Type),
			Value:       o.Promotion.Value,
			Description: o.Promotion.Description,
			MinSpend:    o.Promotion.Rules.MinSpend,
			CanUse:      o.CanUse,
		})
	}
	return out
}

type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors map[string]string `json:"errors"`
}

type SubmitResponse struct {
	BookingID string `json:"bookingId"`
	NextStep  string `json:"nextStep"`
	Replayed  bool   `json:"replayed,omitempty"`
}
