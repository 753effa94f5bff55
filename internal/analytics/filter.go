package analytics

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

var (
	// ErrInvalidRange rejects malformed or inverted date ranges.
	ErrInvalidRange = errors.New("analytics: invalid date range")
	// ErrInvalidFilter rejects malformed dimension filters.
	ErrInvalidFilter = errors.New("analytics: invalid filter")
)

// Filter scopes every report: an inclusive calendar date range plus
// dimension allow-lists. An empty list places no restriction on its
// dimension. The same filter feeds the snapshot read and the per-report
// predicates so all six report shapes share one filtering scheme.
type Filter struct {
	From time.Time
	To   time.Time

	VendorIDs   []int64
	ClientIDs   []int64
	BrandIDs    []int64
	CategoryIDs []int64
	Statuses    []ledger.Status
}

// ParseDay parses an ISO calendar date (YYYY-MM-DD) in UTC.
func ParseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a calendar date", ErrInvalidRange, value)
	}
	return day, nil
}

// ParseIDList parses a comma-separated list of entity identifiers.
func ParseIDList(value string) ([]int64, error) {
	if strings.TrimSpace(value) == "" {
		return nil, nil
	}
	parts := strings.Split(value, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%w: %q is not an identifier", ErrInvalidFilter, part)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Validate fails fast before any computation begins.
func (f Filter) Validate() error {
	if !f.From.IsZero() && !f.To.IsZero() && f.To.Before(f.From) {
		return fmt.Errorf("%w: end date precedes start date", ErrInvalidRange)
	}
	for _, ids := range [][]int64{f.VendorIDs, f.ClientIDs, f.BrandIDs, f.CategoryIDs} {
		for _, id := range ids {
			if id <= 0 {
				return fmt.Errorf("%w: identifier %d", ErrInvalidFilter, id)
			}
		}
	}
	for _, status := range f.Statuses {
		if !status.Valid() {
			return fmt.Errorf("%w: unknown status %q", ErrInvalidFilter, status)
		}
	}
	return nil
}

// InRange reports whether a timestamp falls inside the inclusive calendar
// range. A zero bound leaves that side open.
func (f Filter) InRange(t time.Time) bool {
	if !f.From.IsZero() && t.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !t.Before(f.To.AddDate(0, 0, 1)) {
		return false
	}
	return true
}

// MatchItem applies the item-level dimension allow-lists.
func (f Filter) MatchItem(item ledger.Item) bool {
	if !containsID(f.VendorIDs, item.VendorID) {
		return false
	}
	if !containsID(f.BrandIDs, item.BrandID) {
		return false
	}
	if !containsID(f.CategoryIDs, item.CategoryID) {
		return false
	}
	if len(f.Statuses) > 0 {
		found := false
		for _, status := range f.Statuses {
			if status == item.Status {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// MatchPayment applies the client allow-list and the date range.
func (f Filter) MatchPayment(payment ledger.Payment) bool {
	return containsID(f.ClientIDs, payment.ClientID) && f.InRange(payment.PaidAt)
}

// CacheKey renders the filter as a deterministic cache key fragment.
func (f Filter) CacheKey() string {
	parts := []string{
		dayToken(f.From),
		dayToken(f.To),
		idsToken(f.VendorIDs),
		idsToken(f.ClientIDs),
		idsToken(f.BrandIDs),
		idsToken(f.CategoryIDs),
	}
	statuses := make([]string, 0, len(f.Statuses))
	for _, status := range f.Statuses {
		statuses = append(statuses, string(status))
	}
	sort.Strings(statuses)
	parts = append(parts, strings.Join(statuses, ","))
	return strings.Join(parts, ":")
}

func containsID(allow []int64, id int64) bool {
	if len(allow) == 0 {
		return true
	}
	for _, candidate := range allow {
		if candidate == id {
			return true
		}
	}
	return false
}

func dayToken(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02")
}

func idsToken(ids []int64) string {
	if len(ids) == 0 {
		return "-"
	}
	sorted := make([]int64, len(ids))
	copy(sorted, ids)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	tokens := make([]string, 0, len(sorted))
	for _, id := range sorted {
		tokens = append(tokens, strconv.FormatInt(id, 10))
	}
	return strings.Join(tokens, ",")
}

// round2 rounds at the output boundary only; accumulation stays exact.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
