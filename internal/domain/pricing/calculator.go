package pricing

const DefaultSingleRoomSupplement Money = 1400000

type Calculator interface {
	Compute(counts PassengerCount, unitPrice Money, addOns AddOns) PriceBreakdown
}

type DefaultCalculator struct {
	SingleRoomSupplement Money
}

func NewDefaultCalculator(singleRoomSupplement Money) *DefaultCalculator {
	if singleRoomSupplement < 0 {
		singleRoomSupplement = DefaultSingleRoomSupplement
	}
	return &DefaultCalculator{SingleRoomSupplement: singleRoomSupplement}
}

// Compute is pure. Fares are summed in tenths of a dong and the subtotal is rounded half-up once,
// so fare lines of a price that is not a multiple of 10 may not add up to the subtotal exactly.
// The discount is left at zero; promotion application happens on top via WithDiscount.
func (pc *DefaultCalculator) Compute(counts PassengerCount, unitPrice Money, addOns AddOns) PriceBreakdown {
	if unitPrice < 0 {
		unitPrice = 0
	}

	var (
		b      PriceBreakdown
		tenths int64
	)
	b.Lines = make([]FareLine, 0, len(PassengerTypes))
	for _, t := range PassengerTypes {
		n := counts.Of(t)
		if n < 0 {
			n = 0
		}
		lineTenths := int64(unitPrice) * t.multiplier() * int64(n)
		tenths += lineTenths
		b.Lines = append(b.Lines, FareLine{
			Type:      t,
			Count:     n,
			UnitFare:  roundTenths(int64(unitPrice) * t.multiplier()),
			LineTotal: roundTenths(lineTenths),
		})
	}
	b.Subtotal = roundTenths(tenths)

	if addOns.SingleRoom {
		b.SingleRoom = pc.SingleRoomSupplement
		b.Subtotal += pc.SingleRoomSupplement
	}

	b.FinalTotal = b.Subtotal
	return b
}

func roundTenths(v int64) Money {
	return Money((v + 5) / 10)
}
