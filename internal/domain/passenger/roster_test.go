//go:build unit

package passenger_test

import (
	"testing"

	"gotrip-checkout/internal/domain/passenger"
	"gotrip-checkout/internal/domain/pricing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func named(t pricing.PassengerType, i int, name string) passenger.Record {
	return passenger.Record{Type: t, Index: i, FullName: name, Gender: passenger.GenderFemale, DateOfBirth: "1990-01-01"}
}

func TestReconcile(t *testing.T) {
	t.Run("fresh roster follows type order with defaults", func(t *testing.T) {
		got := passenger.Reconcile(pricing.PassengerCount{Adult: 2, Child: 1, Infant: 1}, nil, passenger.GenderMale)

		want := []passenger.Record{
			{Type: pricing.Adult, Index: 0, Gender: passenger.GenderMale},
			{Type: pricing.Adult, Index: 1, Gender: passenger.GenderMale},
			{Type: pricing.Child, Index: 0, Gender: passenger.GenderMale},
			{Type: pricing.Infant, Index: 0, Gender: passenger.GenderMale},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("growth keeps entered fields", func(t *testing.T) {
		prev := []passenger.Record{named(pricing.Adult, 0, "Nguyễn Văn A")}

		got := passenger.Reconcile(pricing.PassengerCount{Adult: 2}, prev, passenger.GenderMale)

		require.Len(t, got, 2)
		assert.Equal(t, prev[0], got[0])
		assert.Equal(t, "", got[1].FullName)
		assert.Equal(t, passenger.GenderMale, got[1].Gender)
	})

	t.Run("shrink truncates the tail of the type only", func(t *testing.T) {
		prev := []passenger.Record{
			named(pricing.Adult, 0, "A0"),
			named(pricing.Adult, 1, "A1"),
			named(pricing.Child, 0, "C0"),
			named(pricing.Child, 1, "C1"),
		}

		got := passenger.Reconcile(pricing.PassengerCount{Adult: 2, Child: 1}, prev, passenger.GenderMale)

		want := []passenger.Record{prev[0], prev[1], prev[2]}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("roster mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		counts := pricing.PassengerCount{Adult: 2, Child: 1, Toddler: 1}
		once := passenger.Reconcile(counts, []passenger.Record{named(pricing.Child, 0, "C0")}, passenger.GenderMale)
		twice := passenger.Reconcile(counts, once, passenger.GenderMale)

		if diff := cmp.Diff(once, twice); diff != "" {
			t.Errorf("reconcile is not idempotent (-once +twice):\n%s", diff)
		}
	})

	t.Run("add then remove restores roster without cross-type bleed", func(t *testing.T) {
		base := pricing.PassengerCount{Adult: 1, Child: 1}
		start := []passenger.Record{named(pricing.Adult, 0, "A0"), named(pricing.Child, 0, "C0")}

		for _, typ := range pricing.PassengerTypes {
			t.Run(string(typ), func(t *testing.T) {
				grown := base
				switch typ {
				case pricing.Adult:
					grown.Adult += 3
				case pricing.Child:
					grown.Child += 3
				case pricing.Toddler:
					grown.Toddler += 3
				case pricing.Infant:
					grown.Infant += 3
				}

				afterGrow := passenger.Reconcile(grown, start, passenger.GenderMale)
				for _, r := range afterGrow {
					if r.Type != typ {
						assert.Contains(t, []string{"A0", "C0"}, r.FullName)
					}
				}

				restored := passenger.Reconcile(base, afterGrow, passenger.GenderMale)
				if diff := cmp.Diff(start, restored); diff != "" {
					t.Errorf("roster not restored (-want +got):\n%s", diff)
				}
			})
		}
	})

	t.Run("empty default gender falls back", func(t *testing.T) {
		got := passenger.Reconcile(pricing.PassengerCount{Adult: 1}, nil, "")
		assert.Equal(t, passenger.DefaultGender, got[0].Gender)
	})
}

func TestApply(t *testing.T) {
	roster := passenger.Reconcile(pricing.PassengerCount{Adult: 1, Child: 1}, nil, passenger.GenderMale)
	name := "Trần Thị B"
	dob := "2015-04-30"
	female := passenger.GenderFemale

	pos := passenger.Position(roster, pricing.Child, 0)
	require.Equal(t, 1, pos)

	got, err := passenger.Apply(roster, pos, passenger.Edit{FullName: &name, Gender: &female, DateOfBirth: &dob})
	require.NoError(t, err)
	assert.Equal(t, "Trần Thị B", got[1].FullName)
	assert.Equal(t, passenger.GenderFemale, got[1].Gender)
	assert.Equal(t, "2015-04-30", got[1].DateOfBirth)
	assert.Equal(t, "", roster[1].FullName, "input roster must not be mutated")

	_, err = passenger.Apply(roster, 5, passenger.Edit{FullName: &name})
	require.ErrorIs(t, err, passenger.ErrSlotNotFound)

	bad := passenger.Gender("X")
	_, err = passenger.Apply(roster, 0, passenger.Edit{Gender: &bad})
	require.ErrorIs(t, err, passenger.ErrInvalidGender)

	assert.Equal(t, -1, passenger.Position(roster, pricing.Infant, 0))
}
