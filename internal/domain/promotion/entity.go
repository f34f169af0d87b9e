package promotion

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gotrip-checkout/internal/domain/pricing"
)

var (
	ErrEmptyCode            = errors.New("promotion code is empty")
	ErrInvalidOrExpiredCode = errors.New("promotion code is invalid or expired")
	ErrBelowMinSpend        = errors.New("subtotal below promotion minimum spend")
	ErrUnknownType          = errors.New("unknown promotion type")
)

// BelowMinSpendError carries the threshold so callers can tell the customer how much to spend.
type BelowMinSpendError struct {
	MinSpend pricing.Money
}

func (e BelowMinSpendError) Error() string {
	return fmt.Sprintf("subtotal below promotion minimum spend of %d", e.MinSpend)
}

func (e BelowMinSpendError) Is(target error) bool {
	return target == ErrBelowMinSpend
}

type Type string

const (
	TypePercentage  Type = "percentage"
	TypeFixedAmount Type = "fixed_amount"
)

func ParseType(s string) (Type, error) {
	switch Type(s) {
	case TypePercentage, TypeFixedAmount:
		return Type(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
}

type Code string

// NewCode normalizes user input the way the inventory service stores codes.
func NewCode(raw string) (Code, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if code == "" {
		return "", ErrEmptyCode
	}
	return Code(code), nil
}

func (c Code) String() string { return string(c) }

type Rules struct {
	MinSpend             *pricing.Money `json:"min_spend,omitempty"`
	MaxDiscount          *pricing.Money `json:"max_discount,omitempty"`
	ValidFrom            *time.Time     `json:"valid_from,omitempty"`
	ValidTo              *time.Time     `json:"valid_to,omitempty"`
	AppliesToProductType string         `json:"applies_to_product_type,omitempty"`
}

// Promotion is a read-only snapshot of what the inventory service returned.
type Promotion struct {
	Code          Code    `json:"code"`
	Type          Type    `json:"type"`
	Value         float64 `json:"value"`
	Description   string  `json:"description,omitempty"`
	Rules         Rules   `json:"rules"`
	TotalQuantity *int    `json:"total_quantity,omitempty"`
	UsedQuantity  int     `json:"used_quantity"`
	// IsActive is nil when the inventory service omits the flag; that counts as active.
	IsActive      *bool   `json:"is_active,omitempty"`
}

func (p Promotion) Active() bool {
	return p.IsActive == nil || *p.IsActive
}

// CheckEligibility rejects inactive, out-of-window, exhausted or wrong-product promotions.
// Every rejection is reported as ErrInvalidOrExpiredCode.
func (p Promotion) CheckEligibility(now time.Time, productType string) error {
	switch {
	case !p.Active():
		return fmt.Errorf("%w: inactive", ErrInvalidOrExpiredCode)
	case p.Rules.ValidFrom != nil && now.Before(*p.Rules.ValidFrom):
		return fmt.Errorf("%w: not yet valid", ErrInvalidOrExpiredCode)
	case p.Rules.ValidTo != nil && now.After(*p.Rules.ValidTo):
		return fmt.Errorf("%w: expired", ErrInvalidOrExpiredCode)
	case p.TotalQuantity != nil && *p.TotalQuantity-p.UsedQuantity <= 0:
		return fmt.Errorf("%w: exhausted", ErrInvalidOrExpiredCode)
	case p.Rules.AppliesToProductType != "" && productType != "" &&
		!strings.EqualFold(p.Rules.AppliesToProductType, productType):
		return fmt.Errorf("%w: not applicable to %s", ErrInvalidOrExpiredCode, productType)
	}
	return nil
}

func (p Promotion) MeetsMinSpend(subtotal pricing.Money) bool {
	return p.Rules.MinSpend == nil || subtotal >= *p.Rules.MinSpend
}

// Discount returns the amount taken off subtotal, never more than subtotal.
func (p Promotion) Discount(subtotal pricing.Money) (pricing.Money, error) {
	if !p.MeetsMinSpend(subtotal) {
		return 0, BelowMinSpendError{MinSpend: *p.Rules.MinSpend}
	}
	if subtotal <= 0 || p.Value <= 0 {
		return 0, nil
	}

	var d pricing.Money
	switch p.Type {
	case TypePercentage:
		d = percentOf(subtotal, p.Value)
		if p.Rules.MaxDiscount != nil && d > *p.Rules.MaxDiscount {
			d = *p.Rules.MaxDiscount
		}
	case TypeFixedAmount:
		d = pricing.Money(math.Floor(p.Value))
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownType, p.Type)
	}

	if d > subtotal {
		d = subtotal
	}
	if d < 0 {
		d = 0
	}
	return d, nil
}

// floor(subtotal*value/100); whole percentages stay in integer arithmetic.
func percentOf(subtotal pricing.Money, value float64) pricing.Money {
	if value == math.Trunc(value) {
		return pricing.Money(int64(subtotal) * int64(value) / 100)
	}
	return pricing.Money(math.Floor(float64(subtotal) * value / 100))
}
