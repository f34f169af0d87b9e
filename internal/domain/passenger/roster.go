package passenger

import (
	"gotrip-checkout/internal/domain/pricing"
	"gotrip-checkout/internal/pkg/patch"
)

// Reconcile builds the roster for counts, carrying over fields entered in previous by (type, index).
// Slots are ordered adult, child, toddler, infant and by index within a type. Slots beyond a
// reduced count are dropped from the tail of that type; new slots get defaultGender and empty fields.
func Reconcile(counts pricing.PassengerCount, previous []Record, defaultGender Gender) []Record {
	if defaultGender == "" {
		defaultGender = DefaultGender
	}

	existing := make(map[key]Record, len(previous))
	for _, r := range previous {
		existing[r.key()] = r
	}

	roster := make([]Record, 0, max(counts.Total(), 0))
	for _, t := range pricing.PassengerTypes {
		for i := 0; i < counts.Of(t); i++ {
			if r, ok := existing[key{t, i}]; ok {
				roster = append(roster, r)
				continue
			}
			roster = append(roster, Record{Type: t, Index: i, Gender: defaultGender})
		}
	}
	return roster
}

// Position returns the roster offset of the slot (t, index), or -1.
func Position(roster []Record, t pricing.PassengerType, index int) int {
	for i, r := range roster {
		if r.Type == t && r.Index == index {
			return i
		}
	}
	return -1
}

// Apply edits the slot at roster offset pos and returns a new roster.
func Apply(roster []Record, pos int, e Edit) ([]Record, error) {
	if pos < 0 || pos >= len(roster) {
		return nil, ErrSlotNotFound
	}
	out := make([]Record, len(roster))
	copy(out, roster)

	r := out[pos]
	r.FullName = patch.Coalesce(e.FullName, r.FullName)
	r.DateOfBirth = patch.Coalesce(e.DateOfBirth, r.DateOfBirth)
	if e.Gender != nil {
		g, err := ParseGender(string(*e.Gender))
		if err != nil {
			return nil, err
		}
		r.Gender = g
	}
	out[pos] = r
	return out, nil
}
