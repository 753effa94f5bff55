package ledger

import (
	"errors"
	"time"
)

// Status enumerates the lifecycle states of a consigned item.
type Status string

const (
	// StatusInStore marks an item with no recorded payments.
	StatusInStore Status = "IN_STORE"
	// StatusReserved marks an item partially paid for by a client.
	StatusReserved Status = "RESERVED"
	// StatusSold marks an item whose payments cover its sales price.
	StatusSold Status = "SOLD"
	// StatusReturned marks an item handed back to its vendor.
	StatusReturned Status = "RETURNED"
)

// Valid reports whether the status is one of the known lifecycle states.
func (s Status) Valid() bool {
	switch s {
	case StatusInStore, StatusReserved, StatusSold, StatusReturned:
		return true
	}
	return false
}

// InstallmentStatus enumerates installment plan states.
type InstallmentStatus string

const (
	// InstallmentPending marks a plan that still awaits payment.
	InstallmentPending InstallmentStatus = "PENDING"
	// InstallmentPaid marks a settled plan.
	InstallmentPaid InstallmentStatus = "PAID"
)

// Item is a consigned good placed by a vendor. Status is derived from the
// item's payment total and persisted alongside the ledger write that
// changed it.
type Item struct {
	ID              int64
	VendorID        int64
	BrandID         int64
	CategoryID      int64
	Cost            Range
	Price           Range
	Status          Status
	AcquisitionDate time.Time
	CreatedAt       time.Time
}

// Payment records money collected from a client against an item.
type Payment struct {
	ID       int64
	ItemID   int64
	ClientID int64
	Amount   float64
	Method   string
	PaidAt   time.Time
}

// Payout records money handed to a vendor for a sold item. At most one
// payout exists per item.
type Payout struct {
	ID        int64
	ItemID    int64
	VendorID  int64
	Amount    float64
	Reference string
	Notes     string
	PaidAt    time.Time
}

// Expense records a cost incurred either on a specific item or on the
// business in general (ItemID 0).
type Expense struct {
	ID         int64
	ItemID     int64
	Type       string
	Amount     float64
	IncurredAt time.Time
}

// InstallmentPlan schedules a deferred client payment. Overdue is never
// stored; it is computed against the due date at query time.
type InstallmentPlan struct {
	ID         int64
	ItemID     int64
	ClientID   int64
	Amount     float64
	DueDate    time.Time
	PaidAmount float64
	Status     InstallmentStatus
}

// Overdue reports whether the plan is pending past its due date.
func (p InstallmentPlan) Overdue(today time.Time) bool {
	return p.Status == InstallmentPending && p.DueDate.Before(today)
}

var (
	// ErrItemNotFound indicates the referenced item does not exist.
	ErrItemNotFound = errors.New("ledger: item not found")
	// ErrPaymentNotFound indicates the referenced payment does not exist.
	ErrPaymentNotFound = errors.New("ledger: payment not found")
	// ErrInvalidAmount rejects non-positive payment amounts.
	ErrInvalidAmount = errors.New("ledger: amount must be positive")
	// ErrItemNotSold guards payout creation on items that are not sold.
	ErrItemNotSold = errors.New("ledger: item is not sold")
	// ErrPayoutExists guards the one-payout-per-item invariant.
	ErrPayoutExists = errors.New("ledger: payout already recorded for item")
)
