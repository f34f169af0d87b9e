package queries

import (
	"context"
	"log/slog"
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/passenger"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/pkg/clock"
	"gotrip-checkout/internal/pkg/errs"

	"golang.org/x/sync/singleflight"
)

var (
	ErrCheckoutNotFound      = errs.New("checkout session not found")
	ErrPromotionsUnavailable = errs.New("promotion listing unavailable")
)

// Read models (DTO for read side)
type CheckoutView struct {
	ID             string                 `json:"id"`
	Status         checkout.Status        `json:"status"`
	BookingID      string                 `json:"bookingId,omitempty"`
	Selection      checkout.Selection     `json:"selection"`
	Counts         pricing.PassengerCount `json:"counts"`
	Passengers     []passenger.Record     `json:"passengers"`
	AddOns         pricing.AddOns         `json:"addOns"`
	Contact        checkout.ContactInfo   `json:"contact"`
	Breakdown      pricing.PriceBreakdown `json:"breakdown"`
	Promotion      *PromotionView         `json:"promotion,omitempty"`
	PromotionError string                 `json:"promotionError,omitempty"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

type PromotionView struct {
	Code        string         `json:"code"`
	Type        string         `json:"type"`
	Value       float64        `json:"value"`
	Description string         `json:"description,omitempty"`
	Discount    pricing.Money  `json:"discount"`
	MinSpend    *pricing.Money `json:"minSpend,omitempty"`
	Eligible    bool           `json:"eligible"`
}

// NewCheckoutView derives the view from the stored snapshot; totals are always recomputed.
func NewCheckoutView(s *checkout.Session, calc pricing.Calculator) *CheckoutView {
	b, eligible := s.Totals(calc)

	v := &CheckoutView{
		ID:             s.ID,
		Status:         s.Status,
		BookingID:      s.BookingID,
		Selection:      s.Selection,
		Counts:         s.Counts,
		Passengers:     s.Passengers,
		AddOns:         s.AddOns,
		Contact:        s.Contact,
		Breakdown:      b,
		PromotionError: s.PromotionError,
		UpdatedAt:      s.UpdatedAt,
	}
	if s.Promotion != nil {
		p := s.Promotion.Promotion
		v.Promotion = &PromotionView{
			Code:        p.Code.String(),
			Type:        string(p.Type),
			Value:       p.Value,
			Description: p.Description,
			Discount:    b.PromotionDiscount,
			MinSpend:    p.Rules.MinSpend,
			Eligible:    eligible,
		}
	}
	return v
}

type CheckoutReader interface {
	Get(ctx context.Context, id string) (*checkout.Session, error)
}

type PromotionLister interface {
	ListActive(ctx context.Context) ([]promotion.Promotion, error)
}

//go:generate mockgen -destination=../../../tests/mock/queries/checkout_mock.go -package=queriesmock gotrip-checkout/internal/usecase/queries CheckoutQueries

type CheckoutQueries interface {
	Get(ctx context.Context, sessionID string) (*CheckoutView, error)
	AvailablePromotions(ctx context.Context, sessionID string) ([]promotion.Offer, error)
}

type checkoutQueriesImpl struct {
	reader     CheckoutReader
	promotions PromotionLister
	calc       pricing.Calculator
	clock      clock.Clock
	logger     *slog.Logger
	group      singleflight.Group
}

func NewCheckoutQueries(
	reader CheckoutReader,
	promotions PromotionLister,
	calc pricing.Calculator,
	clock clock.Clock,
	logger *slog.Logger,
) CheckoutQueries {
	return &checkoutQueriesImpl{
		reader:     reader,
		promotions: promotions,
		calc:       calc,
		clock:      clock,
		logger:     logger,
	}
}

func (q *checkoutQueriesImpl) Get(ctx context.Context, sessionID string) (*CheckoutView, error) {
	s, err := q.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return NewCheckoutView(s, q.calc), nil
}

func (q *checkoutQueriesImpl) AvailablePromotions(ctx context.Context, sessionID string) ([]promotion.Offer, error) {
	s, err := q.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// concurrent page loads share one listing call
	res, err, _ := q.group.Do("active", func() (any, error) {
		return q.promotions.ListActive(ctx)
	})
	if err != nil {
		q.logger.Warn("failed to list active promotions", "error", err)
		return nil, errs.Mark(err, ErrPromotionsUnavailable)
	}

	b, _ := s.Totals(q.calc)
	return promotion.AvailableOffers(res.([]promotion.Promotion), b.Subtotal, q.clock.Now(), s.Selection.ProductType), nil
}

func (q *checkoutQueriesImpl) load(ctx context.Context, sessionID string) (*checkout.Session, error) {
	s, err := q.reader.Get(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrCheckoutNotFound)
		}
		return nil, err
	}
	return s, nil
}
