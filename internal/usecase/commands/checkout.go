package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/passenger"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
	"gotrip-checkout/internal/infra"
	"gotrip-checkout/internal/pkg/clock"
	"gotrip-checkout/internal/pkg/config"
	"gotrip-checkout/internal/pkg/errs"
	"gotrip-checkout/internal/pkg/metrics"
	"gotrip-checkout/internal/pkg/money"
	"gotrip-checkout/internal/usecase/queries"

	"github.com/google/uuid"
)

var (
	ErrInvalidSelection     = errs.New("invalid checkout selection")
	ErrInvalidCounts        = errs.New("invalid passenger counts")
	ErrPassengerNotFound    = errs.New("passenger slot not found")
	ErrInvalidPassenger     = errs.New("invalid passenger data")
	ErrCheckoutClosed       = errs.New("checkout already submitted")
	ErrSubmissionInProgress = errs.New("booking submission in progress")
	ErrValidationFailed     = errs.New("checkout validation failed")
	ErrSubmissionFailed     = errs.New("booking submission failed")
	ErrEmptyPromotionCode   = errs.New("promotion code is empty")
	ErrPromotionRejected    = errs.New("promotion rejected")
	ErrStoreFailure         = errs.New("checkout store failure")
)

const (
	msgPromotionInvalid = "Mã giảm giá không hợp lệ hoặc hết hạn."
	msgSubmissionFailed = "Không thể tạo đơn đặt tour. Vui lòng thử lại."
	msgNoBookingID      = "Không nhận được Booking ID."
)

// ValidationError carries the per-field messages of a checkout that is not submittable.
type ValidationError struct {
	Fields checkout.FieldErrors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("checkout validation failed: %d field(s)", len(e.Fields))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidationFailed }

// PromotionError is a rejected apply. Message is ready to show; MinSpend is set for below-minimum rejections.
type PromotionError struct {
	Message  string
	MinSpend *pricing.Money
	cause    error
}

func (e *PromotionError) Error() string {
	if e.cause == nil {
		return "promotion rejected: " + e.Message
	}
	return "promotion rejected: " + e.cause.Error()
}

func (e *PromotionError) Unwrap() error { return e.cause }

func (e *PromotionError) Is(target error) bool { return target == ErrPromotionRejected }

// SubmissionError collapses every booking-creation failure into one displayable message.
type SubmissionError struct {
	Message string
	cause   error
}

func (e *SubmissionError) Error() string {
	if e.cause == nil {
		return "booking submission failed: " + e.Message
	}
	return "booking submission failed: " + e.cause.Error()
}

func (e *SubmissionError) Unwrap() error { return e.cause }

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionFailed }

// publicMessager is implemented by upstream errors that carry a message meant for the customer.
type publicMessager interface {
	PublicMessage() string
}

type StartCheckoutParams struct {
	Selection checkout.Selection
	Adults    int
	Children  int
	UserID    string
	Token     string
}

type EditPassengerParams struct {
	Position    int
	FullName    *string
	Gender      *string
	DateOfBirth *string
}

type SubmitResult struct {
	BookingID string
	Replayed  bool
	View      *queries.CheckoutView
}

//go:generate mockgen -destination=../../../tests/mock/commands/usecase_mock.go -package=commandsmock gotrip-checkout/internal/usecase/commands CheckoutCommands,PaymentCommands

type CheckoutCommands interface {
	Start(ctx context.Context, params StartCheckoutParams) (*queries.CheckoutView, error)
	BindToken(ctx context.Context, sessionID, token string) error
	UpdateCounts(ctx context.Context, sessionID string, counts pricing.PassengerCount) (*queries.CheckoutView, error)
	EditPassenger(ctx context.Context, sessionID string, params EditPassengerParams) (*queries.CheckoutView, error)
	SetContact(ctx context.Context, sessionID string, contact checkout.ContactInfo) (*queries.CheckoutView, error)
	SetAddOns(ctx context.Context, sessionID string, addOns pricing.AddOns) (*queries.CheckoutView, error)
	ApplyPromotion(ctx context.Context, sessionID, code string) (*queries.CheckoutView, error)
	ClearPromotion(ctx context.Context, sessionID string) (*queries.CheckoutView, error)
	Validate(ctx context.Context, sessionID string) (checkout.FieldErrors, error)
	Submit(ctx context.Context, sessionID string) (*SubmitResult, error)
}

type checkoutCommandsImpl struct {
	repo       CheckoutRepository
	locker     Locker
	sessions   SessionStore
	promotions PromotionClient
	bookings   BookingClient
	calc       pricing.Calculator
	clock      clock.Clock
	metrics    *metrics.Metrics
	logger     *slog.Logger
	cfg        config.CheckoutConfig
}

func NewCheckoutCommands(
	repo CheckoutRepository,
	locker Locker,
	sessions SessionStore,
	promotions PromotionClient,
	bookings BookingClient,
	calc pricing.Calculator,
	clock clock.Clock,
	m *metrics.Metrics,
	logger *slog.Logger,
	cfg config.Config,
) CheckoutCommands {
	return &checkoutCommandsImpl{
		repo:       repo,
		locker:     locker,
		sessions:   sessions,
		promotions: promotions,
		bookings:   bookings,
		calc:       calc,
		clock:      clock,
		metrics:    m,
		logger:     logger,
		cfg:        cfg.Checkout,
	}
}

func (c *checkoutCommandsImpl) Start(ctx context.Context, params StartCheckoutParams) (*queries.CheckoutView, error) {
	sel := params.Selection
	if sel.ProductType == "" {
		sel.ProductType = c.cfg.ProductType
	}

	s, err := checkout.NewSession(
		uuid.NewString(),
		sel,
		pricing.InitialCount(params.Adults, params.Children),
		passenger.Gender(c.cfg.DefaultGender),
		c.clock.Now(),
	)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidSelection)
	}
	s.UserID = params.UserID

	if err := c.repo.Save(ctx, s, c.cfg.SessionTTL); err != nil {
		return nil, errs.Mark(err, ErrStoreFailure)
	}
	if params.Token != "" {
		if err := c.sessions.Set(ctx, s.ID, params.Token, c.cfg.SessionTTL); err != nil {
			return nil, errs.Mark(err, ErrStoreFailure)
		}
	}

	c.logger.Info("checkout started",
		"session_id", s.ID,
		"product_id", sel.ProductID,
		"adults", s.Counts.Adult,
		"children", s.Counts.Child)

	return queries.NewCheckoutView(s, c.calc), nil
}

func (c *checkoutCommandsImpl) BindToken(ctx context.Context, sessionID, token string) error {
	if token == "" {
		return nil
	}
	if _, err := c.load(ctx, sessionID); err != nil {
		return err
	}
	if err := c.sessions.Set(ctx, sessionID, token, c.cfg.SessionTTL); err != nil {
		return errs.Mark(err, ErrStoreFailure)
	}
	return nil
}

func (c *checkoutCommandsImpl) UpdateCounts(ctx context.Context, sessionID string, counts pricing.PassengerCount) (*queries.CheckoutView, error) {
	return c.mutate(ctx, sessionID, func(s *checkout.Session, now time.Time) error {
		return s.SetCounts(counts, now)
	})
}

func (c *checkoutCommandsImpl) EditPassenger(ctx context.Context, sessionID string, params EditPassengerParams) (*queries.CheckoutView, error) {
	edit := passenger.Edit{
		FullName:    params.FullName,
		DateOfBirth: params.DateOfBirth,
	}
	if params.Gender != nil {
		g, err := passenger.ParseGender(*params.Gender)
		if err != nil {
			return nil, errs.Mark(err, ErrInvalidPassenger)
		}
		edit.Gender = &g
	}

	return c.mutate(ctx, sessionID, func(s *checkout.Session, now time.Time) error {
		return s.EditPassenger(params.Position, edit, now)
	})
}

func (c *checkoutCommandsImpl) SetContact(ctx context.Context, sessionID string, contact checkout.ContactInfo) (*queries.CheckoutView, error) {
	return c.mutate(ctx, sessionID, func(s *checkout.Session, now time.Time) error {
		return s.SetContact(contact, now)
	})
}

func (c *checkoutCommandsImpl) SetAddOns(ctx context.Context, sessionID string, addOns pricing.AddOns) (*queries.CheckoutView, error) {
	return c.mutate(ctx, sessionID, func(s *checkout.Session, now time.Time) error {
		return s.SetAddOns(addOns, now)
	})
}

// ApplyPromotion validates code against the current subtotal. A rejection is persisted on the
// session (previous promotion cleared, message recorded) and also returned as *PromotionError.
func (c *checkoutCommandsImpl) ApplyPromotion(ctx context.Context, sessionID, raw string) (*queries.CheckoutView, error) {
	code, err := promotion.NewCode(raw)
	if err != nil {
		return nil, errs.Mark(err, ErrEmptyPromotionCode)
	}

	var rejection *PromotionError
	view, err := c.mutate(ctx, sessionID, func(s *checkout.Session, now time.Time) error {
		b, _ := s.Totals(c.calc)

		p, err := c.promotions.FindByCode(ctx, code)
		if err != nil {
			c.logger.Warn("promotion lookup failed", "session_id", s.ID, "code", code.String(), "error", err)
			rejection = &PromotionError{Message: msgPromotionInvalid, cause: errs.Mark(err, promotion.ErrInvalidOrExpiredCode)}
			return s.RejectPromotion(rejection.Message, now)
		}

		applied, err := promotion.Evaluate(p, b.Subtotal, now, s.Selection.ProductType)
		if err != nil {
			rejection = c.promotionRejection(err)
			return s.RejectPromotion(rejection.Message, now)
		}
		return s.ApplyPromotion(applied, now)
	})
	if err != nil {
		return nil, err
	}

	if rejection != nil {
		c.metrics.ObservePromotion(rejectionOutcome(rejection))
		return view, rejection
	}
	c.metrics.ObservePromotion("applied")
	return view, nil
}

func (c *checkoutCommandsImpl) promotionRejection(err error) *PromotionError {
	var below promotion.BelowMinSpendError
	if errors.As(err, &below) {
		m := below.MinSpend
		return &PromotionError{
			Message:  fmt.Sprintf("Đơn hàng từ %s mới được dùng.", money.FormatVND(int64(m))),
			MinSpend: &m,
			cause:    err,
		}
	}
	return &PromotionError{Message: msgPromotionInvalid, cause: errs.Mark(err, promotion.ErrInvalidOrExpiredCode)}
}

func rejectionOutcome(e *PromotionError) string {
	if e.MinSpend != nil {
		return "below_min_spend"
	}
	return "invalid"
}

func (c *checkoutCommandsImpl) ClearPromotion(ctx context.Context, sessionID string) (*queries.CheckoutView, error) {
	return c.mutate(ctx, sessionID, func(s *checkout.Session, now time.Time) error {
		return s.ClearPromotion(now)
	})
}

func (c *checkoutCommandsImpl) Validate(ctx context.Context, sessionID string) (checkout.FieldErrors, error) {
	s, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.Validate(), nil
}

// Submit validates and creates exactly one booking. A session that already has a booking replays it.
func (c *checkoutCommandsImpl) Submit(ctx context.Context, sessionID string) (*SubmitResult, error) {
	release, err := c.locker.Lock(ctx, lockKey(sessionID), c.lockTTL())
	if err != nil {
		return nil, c.lockErr(err)
	}
	defer release()

	s, err := c.loadLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if s.Status == checkout.StatusSubmitted && s.BookingID != "" {
		return &SubmitResult{BookingID: s.BookingID, Replayed: true, View: queries.NewCheckoutView(s, c.calc)}, nil
	}

	if fields := s.Validate(); !fields.Empty() {
		return nil, &ValidationError{Fields: fields}
	}

	// the submitting state lives only in memory; the session lock is what keeps other writers out
	if err := s.BeginSubmit(c.clock.Now()); err != nil {
		return nil, mapSessionErr(err)
	}

	// the booking may exist upstream even if the caller goes away, so bookkeeping ignores cancellation
	persistCtx := context.WithoutCancel(ctx)

	bookingID, err := c.createBooking(ctx, s)
	if err != nil {
		s.AbortSubmit(c.clock.Now())
		c.metrics.ObserveSubmission("failed")
		return nil, err
	}

	s.CompleteSubmit(bookingID, c.clock.Now())
	if err := c.repo.Save(persistCtx, s, c.cfg.SessionTTL); err != nil {
		c.logger.Error("failed to record booking on checkout", "session_id", s.ID, "booking_id", bookingID, "error", err)
	}
	c.metrics.ObserveSubmission("created")
	c.logger.Info("booking created", "session_id", s.ID, "booking_id", bookingID)

	return &SubmitResult{BookingID: bookingID, View: queries.NewCheckoutView(s, c.calc)}, nil
}

func (c *checkoutCommandsImpl) createBooking(ctx context.Context, s *checkout.Session) (string, error) {
	token, err := c.sessions.Get(ctx, s.ID)
	if err != nil && !infra.IsKind(err, infra.KindNotFound) {
		c.logger.Warn("session token unavailable", "session_id", s.ID, "error", err)
	}

	bookingID, err := c.bookings.Create(ctx, token, s.BookingRequest())
	if err != nil {
		msg := msgSubmissionFailed
		var pm publicMessager
		if errors.As(err, &pm) && strings.TrimSpace(pm.PublicMessage()) != "" {
			msg = pm.PublicMessage()
		}
		c.logger.Warn("booking creation failed", "session_id", s.ID, "error", err)
		return "", &SubmissionError{Message: msg, cause: err}
	}
	if strings.TrimSpace(bookingID) == "" {
		return "", &SubmissionError{Message: msgNoBookingID, cause: errs.New("booking service returned no booking id")}
	}
	return bookingID, nil
}

func (c *checkoutCommandsImpl) mutate(
	ctx context.Context,
	sessionID string,
	fn func(s *checkout.Session, now time.Time) error,
) (*queries.CheckoutView, error) {
	release, err := c.locker.Lock(ctx, lockKey(sessionID), c.lockTTL())
	if err != nil {
		return nil, c.lockErr(err)
	}
	defer release()

	s, err := c.loadLocked(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := fn(s, c.clock.Now()); err != nil {
		return nil, mapSessionErr(err)
	}

	if err := c.repo.Save(ctx, s, c.cfg.SessionTTL); err != nil {
		return nil, errs.Mark(err, ErrStoreFailure)
	}
	return queries.NewCheckoutView(s, c.calc), nil
}

func (c *checkoutCommandsImpl) load(ctx context.Context, sessionID string) (*checkout.Session, error) {
	s, err := c.repo.Get(ctx, sessionID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.Mark(err, queries.ErrCheckoutNotFound)
		}
		return nil, errs.Mark(err, ErrStoreFailure)
	}
	return s, nil
}

// loadLocked loads a session while its lock is held. A session still marked as submitting was left
// behind by a holder that died mid-call, so it is reopened.
func (c *checkoutCommandsImpl) loadLocked(ctx context.Context, sessionID string) (*checkout.Session, error) {
	s, err := c.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s.Status == checkout.StatusSubmitting {
		c.logger.Warn("reopening checkout left in submitting state", "session_id", s.ID)
		s.AbortSubmit(c.clock.Now())
	}
	return s, nil
}

func (c *checkoutCommandsImpl) lockErr(err error) error {
	if infra.IsKind(err, infra.KindLocked) {
		return errs.Mark(err, ErrSubmissionInProgress)
	}
	return errs.Mark(err, ErrStoreFailure)
}

// lockTTL bounds how long a crashed holder can block a session; it must outlive the upstream timeout.
func (c *checkoutCommandsImpl) lockTTL() time.Duration {
	return 30 * time.Second
}

func lockKey(sessionID string) string {
	return "checkout:lock:" + sessionID
}

func mapSessionErr(err error) error {
	switch {
	case errors.Is(err, checkout.ErrSubmissionInProgress):
		return errs.Mark(err, ErrSubmissionInProgress)
	case errors.Is(err, checkout.ErrAlreadySubmitted):
		return errs.Mark(err, ErrCheckoutClosed)
	case errors.Is(err, checkout.ErrMissingInventory), errors.Is(err, checkout.ErrMissingProduct):
		return errs.Mark(err, ErrInvalidSelection)
	case errors.Is(err, pricing.ErrNoAdult), errors.Is(err, pricing.ErrNegativeCount), errors.Is(err, pricing.ErrTooManyPeople):
		return errs.Mark(err, ErrInvalidCounts)
	case errors.Is(err, passenger.ErrSlotNotFound):
		return errs.Mark(err, ErrPassengerNotFound)
	case errors.Is(err, passenger.ErrInvalidGender):
		return errs.Mark(err, ErrInvalidPassenger)
	default:
		return err
	}
}
