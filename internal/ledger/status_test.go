package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeriveStatus(t *testing.T) {
	price := Range{Min: 800, Max: 1000}

	require.Equal(t, StatusInStore, DeriveStatus(price, 0))
	require.Equal(t, StatusReserved, DeriveStatus(price, 500))
	require.Equal(t, StatusReserved, DeriveStatus(price, 999.99))
	require.Equal(t, StatusSold, DeriveStatus(price, 1000))
	require.Equal(t, StatusSold, DeriveStatus(price, 1500))
}

func TestDeriveStatusPrefersMaxPrice(t *testing.T) {
	// 900 covers the min bound but not the max one.
	require.Equal(t, StatusReserved, DeriveStatus(Range{Min: 800, Max: 1000}, 900))
	// Without a max bound the min bound is the reference price.
	require.Equal(t, StatusSold, DeriveStatus(Range{Min: 800}, 800))
}

func TestDeriveStatusZeroPrice(t *testing.T) {
	// An unpriced item is sold by any positive payment.
	require.Equal(t, StatusSold, DeriveStatus(Range{}, 0.01))
	require.Equal(t, StatusInStore, DeriveStatus(Range{}, 0))
}

func TestDeriveStatusIdempotent(t *testing.T) {
	for _, paid := range []float64{0, 250, 1000, 1300} {
		first := DeriveStatus(Range{Max: 1000}, paid)
		second := DeriveStatus(Range{Max: 1000}, paid)
		require.Equal(t, first, second)
	}
}
