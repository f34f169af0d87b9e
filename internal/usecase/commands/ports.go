package commands

import (
	"context"
	"net/url"
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/payment"
	"gotrip-checkout/internal/domain/promotion"
)

//go:generate mockgen -source=ports.go -destination=../../../tests/mock/commands/ports_mock.go -package=commandsmock

type PromotionClient interface {
	FindByCode(ctx context.Context, code promotion.Code) (promotion.Promotion, error)
}

type BookingClient interface {
	Create(ctx context.Context, token string, req checkout.BookingRequest) (string, error)
	Get(ctx context.Context, token, bookingID string) (*payment.BookingSnapshot, error)
}

type PaymentURLRequest struct {
	Amount    int64  `json:"amount"`
	BookingID string `json:"bookingId"`
	BankCode  string `json:"bankCode,omitempty"`
	Language  string `json:"language,omitempty"`
}

type PaymentGateway interface {
	Verify(ctx context.Context, token string, params url.Values) (payment.Verification, error)
	CreatePaymentURL(ctx context.Context, token string, req PaymentURLRequest) (string, error)
	MockSuccess(ctx context.Context, token, bookingID string) (map[string]any, error)
}

// SessionStore holds the customer's bearer token per checkout session. Use cases only read it;
// it is written when a checkout starts or a request arrives with a fresher token.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, token string, ttl time.Duration) error
	Clear(ctx context.Context, key string) error
}

type CheckoutRepository interface {
	Get(ctx context.Context, id string) (*checkout.Session, error)
	Save(ctx context.Context, s *checkout.Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// Locker serializes read-modify-write cycles on one checkout session.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// ReconciliationRepository stores outcomes already decided for a gateway redirect.
type ReconciliationRepository interface {
	Find(ctx context.Context, key string) (*payment.Outcome, error)
	Save(ctx context.Context, rec ReconciliationRecord) error
}

type ReconciliationRecord struct {
	Key          string
	TxnRef       string
	ResponseCode string
	Outcome      payment.Outcome
	DecidedAt    time.Time
}
