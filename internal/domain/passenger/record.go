package passenger

import (
	"errors"
	"fmt"
	"strings"

	"gotrip-checkout/internal/domain/pricing"
)

var (
	ErrSlotNotFound  = errors.New("passenger slot not found")
	ErrInvalidGender = errors.New("invalid gender")
)

type Gender string

const (
	GenderMale   Gender = "Nam"
	GenderFemale Gender = "Nữ"
	GenderOther  Gender = "Khác"
)

const DefaultGender = GenderMale

func ParseGender(s string) (Gender, error) {
	switch g := Gender(strings.TrimSpace(s)); g {
	case GenderMale, GenderFemale, GenderOther:
		return g, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, s)
	}
}

// Record is one traveller slot. Identity is (Type, Index); Index is the position within its type.
type Record struct {
	Type        pricing.PassengerType `json:"type"`
	Index       int                   `json:"index"`
	FullName    string                `json:"fullName"`
	Gender      Gender                `json:"gender"`
	DateOfBirth string                `json:"dateOfBirth"`
}

type key struct {
	t pricing.PassengerType
	i int
}

func (r Record) key() key { return key{r.Type, r.Index} }

// Edit carries the editable fields of a slot; nil fields are left untouched.
type Edit struct {
	FullName    *string
	Gender      *Gender
	DateOfBirth *string
}
