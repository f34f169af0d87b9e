package checkout

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gotrip-checkout/internal/domain/passenger"
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/domain/promotion"
)

var (
	ErrMissingProduct       = errors.New("checkout has no product selection")
	ErrMissingInventory     = errors.New("checkout has no inventory selection")
	ErrSubmissionInProgress = errors.New("booking submission in progress")
	ErrAlreadySubmitted     = errors.New("checkout already submitted")
)

type Status string

const (
	StatusOpen       Status = "open"
	StatusSubmitting Status = "submitting"
	StatusSubmitted  Status = "submitted"
)

// Selection is what the product page handed over: the tour, its departure and the base fare.
type Selection struct {
	ProductID   string        `json:"productId"`
	InventoryID string        `json:"inventoryId"`
	ProductType string        `json:"productType"`
	Code        string        `json:"code,omitempty"`
	Title       string        `json:"title"`
	Image       string        `json:"image,omitempty"`
	BasePrice   pricing.Money `json:"basePrice"`
	DepartDate  string        `json:"departDate,omitempty"`
}

// Session is the server-held state of one checkout. Totals are never stored; see Totals.
type Session struct {
	ID             string                 `json:"id"`
	UserID         string                 `json:"userId,omitempty"`
	Selection      Selection              `json:"selection"`
	Counts         pricing.PassengerCount `json:"counts"`
	Passengers     []passenger.Record     `json:"passengers"`
	AddOns         pricing.AddOns         `json:"addOns"`
	Contact        ContactInfo            `json:"contact"`
	Promotion      *promotion.Applied     `json:"promotion,omitempty"`
	PromotionError string                 `json:"promotionError,omitempty"`
	Status         Status                 `json:"status"`
	BookingID      string                 `json:"bookingId,omitempty"`
	DefaultGender  passenger.Gender       `json:"defaultGender"`
	CreatedAt      time.Time              `json:"createdAt"`
	UpdatedAt      time.Time              `json:"updatedAt"`
}

func NewSession(id string, sel Selection, counts pricing.PassengerCount, defaultGender passenger.Gender, now time.Time) (*Session, error) {
	if strings.TrimSpace(sel.ProductID) == "" {
		return nil, ErrMissingProduct
	}
	if sel.BasePrice < 0 {
		return nil, pricing.ErrNegativeAmount
	}
	if sel.BasePrice > pricing.MaxUnitPrice {
		return nil, pricing.ErrAmountTooLarge
	}
	if err := counts.Validate(); err != nil {
		return nil, err
	}
	if defaultGender == "" {
		defaultGender = passenger.DefaultGender
	}

	return &Session{
		ID:            id,
		Selection:     sel,
		Counts:        counts,
		Passengers:    passenger.Reconcile(counts, nil, defaultGender),
		Status:        StatusOpen,
		DefaultGender: defaultGender,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (s *Session) ensureEditable() error {
	switch s.Status {
	case StatusSubmitting:
		return ErrSubmissionInProgress
	case StatusSubmitted:
		return ErrAlreadySubmitted
	}
	return nil
}

func (s *Session) SetCounts(counts pricing.PassengerCount, now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if err := counts.Validate(); err != nil {
		return err
	}
	s.Counts = counts
	s.Passengers = passenger.Reconcile(counts, s.Passengers, s.DefaultGender)
	s.UpdatedAt = now
	return nil
}

// EditPassenger edits the slot at roster position pos (the same index used in pass_name_{pos}).
func (s *Session) EditPassenger(pos int, e passenger.Edit, now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	roster, err := passenger.Apply(s.Passengers, pos, e)
	if err != nil {
		return err
	}
	s.Passengers = roster
	s.UpdatedAt = now
	return nil
}

func (s *Session) SetContact(c ContactInfo, now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	s.Contact = c.Normalized()
	s.UpdatedAt = now
	return nil
}

func (s *Session) SetAddOns(a pricing.AddOns, now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	s.AddOns = a
	s.UpdatedAt = now
	return nil
}

// ApplyPromotion replaces any previous promotion and clears the last promotion error.
func (s *Session) ApplyPromotion(a promotion.Applied, now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	s.Promotion = &a
	s.PromotionError = ""
	s.UpdatedAt = now
	return nil
}

// RejectPromotion drops the applied promotion and records why the last attempt failed.
func (s *Session) RejectPromotion(message string, now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	s.Promotion = nil
	s.PromotionError = message
	s.UpdatedAt = now
	return nil
}

func (s *Session) ClearPromotion(now time.Time) error {
	return s.RejectPromotion("", now)
}

// Totals derives the breakdown from the current snapshot. promotionEligible is false when an
// applied promotion no longer meets its minimum spend; its discount is then zero.
func (s *Session) Totals(calc pricing.Calculator) (b pricing.PriceBreakdown, promotionEligible bool) {
	b = calc.Compute(s.Counts, s.Selection.BasePrice, s.AddOns)
	if s.Promotion == nil {
		return b, true
	}
	d, ok := s.Promotion.Recompute(b.Subtotal)
	return b.WithDiscount(d), ok
}

func (s *Session) Validate() FieldErrors {
	return Validate(s.Contact, s.Passengers)
}

// BeginSubmit marks the session as submitting. Only one submission may be in flight.
func (s *Session) BeginSubmit(now time.Time) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}
	if strings.TrimSpace(s.Selection.InventoryID) == "" {
		return ErrMissingInventory
	}
	s.Status = StatusSubmitting
	s.UpdatedAt = now
	return nil
}

func (s *Session) CompleteSubmit(bookingID string, now time.Time) {
	s.Status = StatusSubmitted
	s.BookingID = bookingID
	s.UpdatedAt = now
}

// AbortSubmit reopens the session with every entered field intact.
func (s *Session) AbortSubmit(now time.Time) {
	if s.Status == StatusSubmitting {
		s.Status = StatusOpen
	}
	s.UpdatedAt = now
}

// BookingRequest assembles the create-booking payload from the session snapshot.
func (s *Session) BookingRequest() BookingRequest {
	departDate := s.Selection.DepartDate
	if departDate == "" {
		departDate = "Chưa xác định"
	}

	var code *string
	if s.Promotion != nil {
		c := s.Promotion.Promotion.Code.String()
		code = &c
	}

	passengers := make([]BookingPassenger, 0, len(s.Passengers))
	for _, p := range s.Passengers {
		passengers = append(passengers, BookingPassenger{
			Type:        string(p.Type),
			FullName:    strings.TrimSpace(p.FullName),
			Gender:      string(p.Gender),
			DateOfBirth: p.DateOfBirth,
		})
	}

	return BookingRequest{
		Items: []BookingItem{{
			ProductID:    s.Selection.ProductID,
			InventoryID:  s.Selection.InventoryID,
			ProductType:  s.Selection.ProductType,
			Quantity:     s.Counts.Total(),
			UnitPrice:    s.Selection.BasePrice,
			ProductTitle: s.Selection.Title,
			Image:        s.Selection.Image,
			DetailsText:  fmt.Sprintf("Ngày đi: %s", departDate),
		}},
		PromotionCode: code,
		Passengers:    passengers,
		ContactInfo:   s.Contact,
	}
}
