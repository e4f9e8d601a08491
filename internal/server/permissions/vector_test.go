package permissions

import (
	"encoding/json"
	"testing"

	"github.com/dmitrijs2005/issuetracker/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The storage format depends on this order; changing it silently would
// re-interpret every stored BIT(4) value.
func TestActionBitOrderIsStable(t *testing.T) {
	assert.Equal(t, Action(0), Create)
	assert.Equal(t, Action(1), Edit)
	assert.Equal(t, Action(2), View)
	assert.Equal(t, Action(3), Delete)
	assert.Equal(t, "1000", Vector(0).With(Create, true).String())
	assert.Equal(t, "0100", Vector(0).With(Edit, true).String())
	assert.Equal(t, "0010", Vector(0).With(View, true).String())
	assert.Equal(t, "0001", Vector(0).With(Delete, true).String())
}

func TestDefaultVector(t *testing.T) {
	assert.Equal(t, "1010", Default.String())
	assert.True(t, Default.Has(Create))
	assert.False(t, Default.Has(Edit))
	assert.True(t, Default.Has(View))
	assert.False(t, Default.Has(Delete))
	assert.Equal(t, [Size]bool{true, false, true, false}, Default.Bools())
	assert.Equal(t, [Size]int{1, 0, 1, 0}, Default.Ints())
}

func TestWith_FlipsOnlyOneBit(t *testing.T) {
	for _, start := range []Vector{0, Default, 0b1111} {
		for _, flipped := range Actions() {
			next := start.With(flipped, !start.Has(flipped))
			for _, a := range Actions() {
				if a == flipped {
					assert.NotEqual(t, start.Has(a), next.Has(a), "bit %s should flip", a)
				} else {
					assert.Equal(t, start.Has(a), next.Has(a), "bit %s should be untouched", a)
				}
			}
		}
	}
}

func TestHas_UnknownActionDenied(t *testing.T) {
	assert.False(t, Vector(0b1111).Has(Action(4)))
	assert.Equal(t, Vector(0b1111), Vector(0b1111).With(Action(7), false))
}

func TestParseVector(t *testing.T) {
	for _, s := range []string{"0000", "1010", "0101", "1111"} {
		v, err := ParseVector(s)
		require.NoError(t, err)
		assert.Equal(t, s, v.String())
	}

	for _, bad := range []string{"", "101", "10101", "10a0", "1 10"} {
		_, err := ParseVector(bad)
		require.ErrorIs(t, err, common.ErrInvalidInput, "input %q", bad)
	}
}

func TestParseAction(t *testing.T) {
	for _, a := range Actions() {
		got, err := ParseAction(a.String())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseAction("admin")
	require.ErrorIs(t, err, common.ErrInvalidInput)
	assert.Equal(t, "action(9)", Action(9).String())
}

type holder Vector

func (h holder) PermissionVector() Vector { return Vector(h) }

func TestCan(t *testing.T) {
	h := holder(Default)
	assert.True(t, Can(h, Create))
	assert.False(t, Can(h, Edit))
	assert.True(t, Can(h, View))
	assert.False(t, Can(h, Delete))
	assert.False(t, Can(nil, View))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      []any
		want    string
		wantErr bool
	}{
		{"json numbers", []any{float64(1), float64(0), float64(1), float64(1)}, "1011", false},
		{"ints", []any{0, 1, 0, 1}, "0101", false},
		{"bools", []any{true, true, false, false}, "1100", false},
		{"strings", []any{"1", "0", "true", "false"}, "1010", false},
		{"json.Number", []any{json.Number("1"), json.Number("1"), json.Number("1"), json.Number("0")}, "1110", false},
		{"integral json.Number floats", []any{json.Number("1.0"), json.Number("0"), json.Number("1e0"), json.Number("0.0")}, "1010", false},
		{"uints", []any{uint(1), uint64(0), uint8(1), uint64(1)}, "1011", false},
		{"json.Number fraction", []any{json.Number("0.5"), 0, 0, 0}, "", true},
		{"json.Number out of range", []any{json.Number("2.0"), 0, 0, 0}, "", true},
		{"huge uint64", []any{uint64(1 << 63), 0, 0, 0}, "", true},
		{"length 3", []any{1, 0, 1}, "", true},
		{"length 5", []any{1, 0, 1, 0, 1}, "", true},
		{"empty", nil, "", true},
		{"out of range", []any{1, 0, 2, 0}, "", true},
		{"negative", []any{-1, 0, 0, 0}, "", true},
		{"fraction", []any{0.5, 0, 0, 0}, "", true},
		{"word", []any{"yes", 0, 0, 0}, "", true},
		{"null", []any{nil, 0, 0, 0}, "", true},
		{"nested", []any{[]any{1}, 0, 0, 0}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, common.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}
