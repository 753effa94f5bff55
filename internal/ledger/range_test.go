package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRangeFallbacks(t *testing.T) {
	require.Equal(t, 10.0, Range{Min: 5, Max: 10}.PreferMax())
	require.Equal(t, 5.0, Range{Min: 5}.PreferMax())
	require.Equal(t, 5.0, Range{Min: 5, Max: 10}.PreferMin())
	require.Equal(t, 10.0, Range{Max: 10}.PreferMin())
	require.Equal(t, 0.0, Range{}.PreferMax())
}

func TestNewRangeSwapsInvertedBounds(t *testing.T) {
	r := NewRange(10, 5)
	require.Equal(t, 5.0, r.Min)
	require.Equal(t, 10.0, r.Max)

	// A zero max means missing, not inverted.
	r = NewRange(10, 0)
	require.Equal(t, 10.0, r.Min)
	require.Equal(t, 0.0, r.Max)
}

func TestRangeAdd(t *testing.T) {
	total := Range{}.Add(Range{Min: 100, Max: 150}).Add(Range{Min: 200}).Add(Range{Max: 50})
	require.Equal(t, 350.0, total.Min)
	require.Equal(t, 400.0, total.Max)
}

func TestRangeSubInvertsBounds(t *testing.T) {
	profit := Range{Min: 1000, Max: 1000}.Sub(Range{Min: 300, Max: 400})
	require.Equal(t, 600.0, profit.Min)
	require.Equal(t, 700.0, profit.Max)
}
