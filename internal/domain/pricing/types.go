package pricing

import (
	"errors"
	"fmt"
)

var (
	ErrNegativeCount  = errors.New("passenger count cannot be negative")
	ErrNoAdult        = errors.New("at least one adult is required")
	ErrNegativeAmount = errors.New("amount cannot be negative")
	ErrTooManyPeople  = errors.New("too many passengers for one booking")
	ErrAmountTooLarge = errors.New("amount exceeds the supported range")
)

const (
	// MaxPassengers caps one checkout; larger groups book through sales.
	MaxPassengers = 50
	// MaxUnitPrice keeps unit price × multiplier × MaxPassengers well inside int64.
	MaxUnitPrice Money = 10_000_000_000_000
)

// Money is an amount in Vietnamese dong. The currency has no fractional unit.
type Money int64

func (m Money) Int64() int64 { return int64(m) }

type PassengerType string

const (
	Adult   PassengerType = "adult"
	Child   PassengerType = "child"
	Toddler PassengerType = "toddler"
	Infant  PassengerType = "infant"
)

// PassengerTypes is the fixed iteration order used for fares and roster slots.
var PassengerTypes = []PassengerType{Adult, Child, Toddler, Infant}

func ParsePassengerType(s string) (PassengerType, error) {
	for _, t := range PassengerTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown passenger type %q", s)
}

// multiplier in tenths so fares stay in integer arithmetic.
func (t PassengerType) multiplier() int64 {
	switch t {
	case Adult:
		return 10
	case Child:
		return 8
	case Toddler:
		return 5
	case Infant:
		return 1
	default:
		return 0
	}
}

type PassengerCount struct {
	Adult   int `json:"adult"`
	Child   int `json:"child"`
	Toddler int `json:"toddler"`
	Infant  int `json:"infant"`
}

func NewPassengerCount(adult, child, toddler, infant int) (PassengerCount, error) {
	c := PassengerCount{Adult: adult, Child: child, Toddler: toddler, Infant: infant}
	if err := c.Validate(); err != nil {
		return PassengerCount{}, err
	}
	return c, nil
}

// InitialCount seeds a checkout from the product page selection: adults default to 1, children to 0.
func InitialCount(adults, children int) PassengerCount {
	c := PassengerCount{Adult: adults, Child: children}
	if c.Adult < 1 {
		c.Adult = 1
	}
	if c.Child < 0 {
		c.Child = 0
	}
	return c
}

func (c PassengerCount) Validate() error {
	if c.Adult < 0 || c.Child < 0 || c.Toddler < 0 || c.Infant < 0 {
		return ErrNegativeCount
	}
	if c.Adult < 1 {
		return ErrNoAdult
	}
	// per-type check first so the sum cannot overflow
	if c.Adult > MaxPassengers || c.Child > MaxPassengers || c.Toddler > MaxPassengers || c.Infant > MaxPassengers ||
		c.Total() > MaxPassengers {
		return ErrTooManyPeople
	}
	return nil
}

func (c PassengerCount) Of(t PassengerType) int {
	switch t {
	case Adult:
		return c.Adult
	case Child:
		return c.Child
	case Toddler:
		return c.Toddler
	case Infant:
		return c.Infant
	default:
		return 0
	}
}

func (c PassengerCount) Total() int {
	return c.Adult + c.Child + c.Toddler + c.Infant
}

type AddOns struct {
	SingleRoom bool `json:"singleRoom"`
}

type FareLine struct {
	Type      PassengerType `json:"type"`
	Count     int           `json:"count"`
	UnitFare  Money         `json:"unitFare"`
	LineTotal Money         `json:"lineTotal"`
}

type PriceBreakdown struct {
	Subtotal          Money      `json:"subtotal"`
	PromotionDiscount Money      `json:"promotionDiscount"`
	FinalTotal        Money      `json:"finalTotal"`
	SingleRoom        Money      `json:"singleRoom"`
	Lines             []FareLine `json:"lines"`
}

// WithDiscount returns a copy with the discount clamped to [0, subtotal] and the total derived from it.
func (b PriceBreakdown) WithDiscount(discount Money) PriceBreakdown {
	if discount < 0 {
		discount = 0
	}
	if discount > b.Subtotal {
		discount = b.Subtotal
	}
	b.PromotionDiscount = discount
	b.FinalTotal = b.Subtotal - discount
	return b
}
