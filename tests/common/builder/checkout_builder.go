//go:build unit || e2e

package builder

import (
	"time"

	"gotrip-checkout/internal/domain/checkout"
	"gotrip-checkout/internal/domain/passenger"
	"gotrip-checkout/internal/domain/pricing"
)

var FixedNow = time.Date(2026, 6, 15, 9, 0, 0, 0, time.UTC)

type CheckoutBuilder struct {
	id        string
	selection checkout.Selection
	counts    pricing.PassengerCount
	contact   checkout.ContactInfo
	names     bool
	addOns    pricing.AddOns
}

func NewCheckoutBuilder() *CheckoutBuilder {
	return &CheckoutBuilder{
		id: "7f0c1a52-3f7e-4c4a-9a55-1d6f0a9b2c11",
		selection: checkout.Selection{
			ProductID:   "665f1c2e9b1d8a0012a3b4c5",
			InventoryID: "665f1c2e9b1d8a0012a3b4d9",
			ProductType: "tour",
			Code:        "HN-SP-04",
			Title:       "Hà Nội - Sapa 4N3Đ",
			Image:       "https://cdn.gotripviet.vn/tours/sapa.jpg",
			BasePrice:   5000000,
			DepartDate:  "2026-07-01",
		},
		counts: pricing.PassengerCount{Adult: 2, Child: 1},
		contact: checkout.ContactInfo{
			FullName: "Nguyễn Văn An",
			Phone:    "0901234567",
			Email:    "an.nguyen@example.com",
			Address:  "12 Lý Thường Kiệt, Hà Nội",
		},
		names: true,
	}
}

func (b *CheckoutBuilder) With(f func(*CheckoutBuilder)) *CheckoutBuilder {
	if f != nil {
		f(b)
	}
	return b
}

func (b *CheckoutBuilder) WithID(id string) *CheckoutBuilder {
	b.id = id
	return b
}

func (b *CheckoutBuilder) WithCounts(c pricing.PassengerCount) *CheckoutBuilder {
	b.counts = c
	return b
}

func (b *CheckoutBuilder) WithBasePrice(p pricing.Money) *CheckoutBuilder {
	b.selection.BasePrice = p
	return b
}

func (b *CheckoutBuilder) WithProductID(id string) *CheckoutBuilder {
	b.selection.ProductID = id
	return b
}

func (b *CheckoutBuilder) WithInventoryID(id string) *CheckoutBuilder {
	b.selection.InventoryID = id
	return b
}

func (b *CheckoutBuilder) WithContact(c checkout.ContactInfo) *CheckoutBuilder {
	b.contact = c
	return b
}

func (b *CheckoutBuilder) WithSingleRoom() *CheckoutBuilder {
	b.addOns.SingleRoom = true
	return b
}

// WithoutPassengerDetails leaves the roster as freshly created slots.
func (b *CheckoutBuilder) WithoutPassengerDetails() *CheckoutBuilder {
	b.names = false
	return b
}

func (b *CheckoutBuilder) Selection() checkout.Selection {
	return b.selection
}

func (b *CheckoutBuilder) BuildDomain() (*checkout.Session, error) {
	s, err := checkout.NewSession(b.id, b.selection, b.counts, passenger.GenderMale, FixedNow)
	if err != nil {
		return nil, err
	}
	s.Contact = b.contact
	s.AddOns = b.addOns
	if b.names {
		for i := range s.Passengers {
			s.Passengers[i].FullName = "Hành khách " + string(rune('A'+i))
			s.Passengers[i].DateOfBirth = "1990-01-01"
		}
	}
	return s, nil
}

// MustBuild panics on invalid builder state; only for fixtures that are known to be valid.
func (b *CheckoutBuilder) MustBuild() *checkout.Session {
	s, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return s
}
