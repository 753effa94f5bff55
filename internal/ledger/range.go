package ledger

// Range is a two-sided monetary bound used for item costs, sales prices and
// payout estimates. A zero bound is treated as missing and falls back to
// the opposite bound, so single-valued ranges behave like plain numbers.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// NewRange builds a range, swapping bounds that arrive inverted.
func NewRange(min, max float64) Range {
	if min > max && max != 0 {
		min, max = max, min
	}
	return Range{Min: min, Max: max}
}

// PreferMax returns the upper bound, falling back to the lower one.
func (r Range) PreferMax() float64 {
	if r.Max != 0 {
		return r.Max
	}
	return r.Min
}

// PreferMin returns the lower bound, falling back to the upper one.
func (r Range) PreferMin() float64 {
	if r.Min != 0 {
		return r.Min
	}
	return r.Max
}

// IsZero reports whether both bounds are missing.
func (r Range) IsZero() bool {
	return r.Min == 0 && r.Max == 0
}

// Add accumulates another range bound by bound, applying the fallback on
// each side so a one-sided range contributes its known bound to both.
func (r Range) Add(other Range) Range {
	return Range{
		Min: r.Min + other.PreferMin(),
		Max: r.Max + other.PreferMax(),
	}
}

// Sub subtracts another range, inverting the bounds: the smallest result
// pairs our lower bound with the other's upper bound.
func (r Range) Sub(other Range) Range {
	return Range{
		Min: r.Min - other.PreferMax(),
		Max: r.Max - other.PreferMin(),
	}
}
