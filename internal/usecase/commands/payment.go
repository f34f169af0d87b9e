package commands

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"gotrip-checkout/internal/domain/payment"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/pkg/clock"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"
	"gotrip-checkout/internal/pkg/metrics"
	"gotrip-checkout/internal/usecase/queries"

	"golang.org/x/sync/singleflight"
)

var (
	ErrNothingToReconcile = errs.New("payment result carries nothing to reconcile")
	ErrMissingBooking     = errs.New("no booking to pay for")
	ErrInvalidAmount      = errs.New("booking has no payable amount")
	ErrPaymentUnavailable = errs.New("payment service unavailable")
)

type ReconcileParams struct {
	SessionID string
	Params    url.Values
	Handoff   map[string]any
}

type CreatePaymentURLParams struct {
	SessionID string
	BookingID string
	BankCode  string
	Language  string
}

type PaymentURLResult struct {
	URL       string
	BookingID string
	Amount    int64
}

type MockPaymentParams struct {
	SessionID string
	BookingID string
}

type PaymentCommands interface {
	Reconcile(ctx context.Context, params ReconcileParams) (*payment.Outcome, error)
	CreatePaymentURL(ctx context.Context, params CreatePaymentURLParams) (*PaymentURLResult, error)
	MockPayment(ctx context.Context, params MockPaymentParams) (*payment.Outcome, error)
}

type paymentCommandsImpl struct {
	gateway  PaymentGateway
	bookings BookingClient
	ledger   ReconciliationRepository
	sessions SessionStore
	checkout CheckoutRepository
	clock    clock.Clock
	metrics  *metrics.Metrics
	logger   *slog.Logger
	group    singleflight.Group

	// verifyTimeout bounds a shared verification call, which no single caller may cancel.
	verifyTimeout time.Duration
}

func NewPaymentCommands(
	gateway PaymentGateway,
	bookings BookingClient,
	ledger ReconciliationRepository,
	sessions SessionStore,
	checkoutRepo CheckoutRepository,
	clock clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.Config,
) PaymentCommands {
	return &paymentCommandsImpl{
		gateway:       gateway,
		bookings:      bookings,
		ledger:        ledger,
		sessions:      sessions,
		checkout:      checkoutRepo,
		clock:         clock,
		metrics:       m,
		logger:        logger,
		verifyTimeout: verifyBudget(cfg),
	}
}

// verifyBudget covers every attempt the gateway client may make plus the waits between them.
func verifyBudget(cfg config.Config) time.Duration {
	attempts := max(cfg.Verification.MaxAttempts, 1)
	return time.Duration(attempts)*cfg.Services.HTTPTimeout + time.Duration(attempts-1)*cfg.Verification.MaxBackoff
}

// Reconcile decides the terminal state of one result-page entry. Outcomes the payment service
// actually decided are recorded per gateway transaction, so a refresh replays them instead of
// verifying again.
func (p *paymentCommandsImpl) Reconcile(ctx context.Context, params ReconcileParams) (*payment.Outcome, error) {
	key := ledgerKey(params.Params)
	if key != "" {
		if o, ok := p.replay(ctx, key); ok {
			return o, nil
		}
	}

	v := &gatewayVerifier{p: p, token: p.token(ctx, params.SessionID), key: key}
	o, err := payment.NewReconciler(v).Reconcile(ctx, payment.Entry{Params: params.Params, Handoff: params.Handoff})
	if err != nil {
		if errors.Is(err, payment.ErrNothingToReconcile) {
			return nil, errs.Mark(err, ErrNothingToReconcile)
		}
		return nil, err
	}
	p.metrics.ObserveReconciliation(string(o.State), string(o.Path))

	if key != "" && !v.unanswered.Load() {
		p.record(ctx, key, params.Params, o)
	}

	p.logger.Info("payment reconciled",
		"session_id", params.SessionID,
		"txn_ref", params.Params.Get(payment.TxnRefParam),
		"state", o.State,
		"path", o.Path)

	return &o, nil
}

func (p *paymentCommandsImpl) replay(ctx context.Context, key string) (*payment.Outcome, bool) {
	o, err := p.ledger.Find(ctx, key)
	if err != nil {
		if !infra.IsKind(err, infra.KindNotFound) {
			p.logger.Warn("reconciliation ledger lookup failed", "key", key, "error", err)
		}
		return nil, false
	}
	replayed := *o
	replayed.Path = payment.PathLedger
	p.metrics.ObserveReconciliation(string(replayed.State), string(replayed.Path))
	return &replayed, true
}

func (p *paymentCommandsImpl) record(ctx context.Context, key string, params url.Values, o payment.Outcome) {
	rec := ReconciliationRecord{
		Key:          key,
		TxnRef:       params.Get(payment.TxnRefParam),
		ResponseCode: o.ResponseCode,
		Outcome:      o,
		DecidedAt:    p.clock.Now(),
	}
	if err := p.ledger.Save(context.WithoutCancel(ctx), rec); err != nil {
		p.logger.Error("failed to record reconciliation", "key", key, "error", err)
	}
}

// CreatePaymentURL asks the payment service for a gateway URL. The amount always comes from the
// booking service, never from the client.
func (p *paymentCommandsImpl) CreatePaymentURL(ctx context.Context, params CreatePaymentURLParams) (*PaymentURLResult, error) {
	bookingID, err := p.bookingID(ctx, params.SessionID, params.BookingID)
	if err != nil {
		return nil, err
	}
	token := p.token(ctx, params.SessionID)

	snap, err := p.bookings.Get(ctx, token, bookingID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, ErrMissingBooking)
		}
		return nil, errs.Mark(err, ErrPaymentUnavailable)
	}
	if snap == nil || snap.Pricing.FinalPrice <= 0 {
		return nil, errs.Mark(errs.Newf("booking %s final price not payable", bookingID), ErrInvalidAmount)
	}

	u, err := p.gateway.CreatePaymentURL(ctx, token, PaymentURLRequest{
		Amount:    snap.Pricing.FinalPrice,
		BookingID: bookingID,
		BankCode:  params.BankCode,
		Language:  params.Language,
	})
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentUnavailable)
	}

	return &PaymentURLResult{URL: u, BookingID: bookingID, Amount: snap.Pricing.FinalPrice}, nil
}

// MockPayment settles a booking through the payment service's test endpoint and reconciles the
// returned snapshot like a handoff.
func (p *paymentCommandsImpl) MockPayment(ctx context.Context, params MockPaymentParams) (*payment.Outcome, error) {
	bookingID, err := p.bookingID(ctx, params.SessionID, params.BookingID)
	if err != nil {
		return nil, err
	}

	snapshot, err := p.gateway.MockSuccess(ctx, p.token(ctx, params.SessionID), bookingID)
	if err != nil {
		return nil, errs.Mark(err, ErrPaymentUnavailable)
	}
	if snapshot == nil {
		snapshot = map[string]any{"bookingId": bookingID}
	}

	return p.Reconcile(ctx, ReconcileParams{SessionID: params.SessionID, Handoff: snapshot})
}

func (p *paymentCommandsImpl) bookingID(ctx context.Context, sessionID, explicit string) (string, error) {
	if id := strings.TrimSpace(explicit); id != "" {
		return id, nil
	}
	if sessionID == "" {
		return "", ErrMissingBooking
	}

	s, err := p.checkout.Get(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return "", errs.Mark(err, queries.ErrCheckoutNotFound)
		}
		return "", errs.Mark(err, ErrStoreFailure)
	}
	if s.BookingID == "" {
		return "", ErrMissingBooking
	}
	return s.BookingID, nil
}

func (p *paymentCommandsImpl) token(ctx context.Context, sessionID string) string {
	if sessionID == "" {
		return ""
	}
	token, err := p.sessions.Get(ctx, sessionID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		p.logger.Warn("session token unavailable", "session_id", sessionID, "error", err)
	}
	return token
}

// ledgerKey identifies one gateway transaction; redirects without a TxnRef are never recorded.
func ledgerKey(params url.Values) string {
	if params == nil {
		return ""
	}
	ref := strings.TrimSpace(params.Get(payment.TxnRefParam))
	if ref == "" {
		return ""
	}
	return ref + ":" + strings.TrimSpace(params.Get(payment.TransactionNo))
}

// gatewayVerifier adapts PaymentGateway to payment.Verifier for one request.
type gatewayVerifier struct {
	p     *paymentCommandsImpl
	token string
	key   string
	// unanswered is set when the payment service never produced a verdict.
	unanswered atomic.Bool
}

type verifyResult struct {
	v   payment.Verification
	err error
}

func (g *gatewayVerifier) Verify(ctx context.Context, params url.Values) (payment.Verification, error) {
	started := time.Now()
	defer g.p.metrics.ObserveVerification(started)

	var res any
	if g.key == "" {
		v, err := g.p.gateway.Verify(ctx, g.token, params)
		res = verifyResult{v: v, err: err}
	} else {
		// two tabs landing on the same redirect share one verification call; it runs detached from
		// the first caller so that caller leaving does not fail the others
		res, _, _ = g.p.group.Do(g.key, func() (any, error) {
			sharedCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), g.p.verifyTimeout)
			defer cancel()
			v, err := g.p.gateway.Verify(sharedCtx, g.token, params)
			return verifyResult{v: v, err: err}, nil
		})
	}

	r := res.(verifyResult)
	if r.err != nil {
		g.unanswered.Store(true)
		g.p.logger.Warn("payment verification failed", "key", g.key, "error", r.err)
	}
	return r.v, r.err
}
