package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// RepositoryPort abstracts repository usage for the service. GetItem and
// SumPaymentsForItem are plain reads; writes go through WithTx.
type RepositoryPort interface {
	WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error
	GetItem(ctx context.Context, itemID int64) (Item, error)
	SumPaymentsForItem(ctx context.Context, itemID int64) (float64, error)
	ListOverdueInstallments(ctx context.Context, asOf time.Time) ([]InstallmentPlan, error)
}

// CacheBumper invalidates derived report caches after a ledger write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service owns the correctness-sensitive ledger write path: every payment
// mutation recomputes the owning item's paid total and persists the derived
// status in the same transaction.
type Service struct {
	repo   RepositoryPort
	cache  CacheBumper
	logger *slog.Logger
	now    func() time.Time
}

// NewService builds Service. cache may be nil.
func NewService(repo RepositoryPort, cache CacheBumper, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:   repo,
		cache:  cache,
		logger: logger,
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// PaymentInput describes a payment to record.
type PaymentInput struct {
	ItemID   int64
	ClientID int64
	Amount   float64
	Method   string
	PaidAt   time.Time
}

// PayoutInput describes a payout request for a sold item.
type PayoutInput struct {
	ItemID int64
	Notes  string
}

// RecordPayment writes a payment and re-derives the item status atomically.
// Negative and zero amounts are rejected; refunds are modelled as explicit
// payment deletions, not negative rows.
func (s *Service) RecordPayment(ctx context.Context, input PaymentInput) (Payment, Status, error) {
	if input.Amount <= 0 {
		return Payment{}, "", ErrInvalidAmount
	}
	paidAt := input.PaidAt
	if paidAt.IsZero() {
		paidAt = s.now()
	}

	payment := Payment{
		ItemID:   input.ItemID,
		ClientID: input.ClientID,
		Amount:   input.Amount,
		Method:   input.Method,
		PaidAt:   paidAt,
	}
	var status Status
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := tx.GetItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		id, err := tx.InsertPayment(ctx, payment)
		if err != nil {
			return err
		}
		payment.ID = id
		status, err = s.syncStatus(ctx, tx, item)
		return err
	})
	if err != nil {
		return Payment{}, "", err
	}
	s.bump(ctx)
	s.logger.Info("payment recorded",
		slog.Int64("item_id", payment.ItemID),
		slog.Float64("amount", payment.Amount),
		slog.String("status", string(status)))
	return payment, status, nil
}

// UpdatePayment corrects a payment amount and re-derives the item status.
func (s *Service) UpdatePayment(ctx context.Context, paymentID int64, amount float64) (Status, error) {
	if amount <= 0 {
		return "", ErrInvalidAmount
	}
	var status Status
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		payment, err := tx.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		item, err := tx.GetItemForUpdate(ctx, payment.ItemID)
		if err != nil {
			return err
		}
		if err := tx.UpdatePaymentAmount(ctx, paymentID, amount); err != nil {
			return err
		}
		status, err = s.syncStatus(ctx, tx, item)
		return err
	})
	if err != nil {
		return "", err
	}
	s.bump(ctx)
	return status, nil
}

// DeletePayment removes a payment and re-derives the item status.
func (s *Service) DeletePayment(ctx context.Context, paymentID int64) (Status, error) {
	var status Status
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		payment, err := tx.GetPayment(ctx, paymentID)
		if err != nil {
			return err
		}
		item, err := tx.GetItemForUpdate(ctx, payment.ItemID)
		if err != nil {
			return err
		}
		if err := tx.DeletePayment(ctx, paymentID); err != nil {
			return err
		}
		status, err = s.syncStatus(ctx, tx, item)
		return err
	})
	if err != nil {
		return "", err
	}
	s.bump(ctx)
	return status, nil
}

// CreatePayout settles a sold item with its vendor using the canonical
// price-adjusted formula. The item must be sold, and the unique index on
// payouts(item_id) rejects a second payout.
func (s *Service) CreatePayout(ctx context.Context, input PayoutInput) (Payout, error) {
	var payout Payout
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		item, err := tx.GetItemForUpdate(ctx, input.ItemID)
		if err != nil {
			return err
		}
		if item.Status != StatusSold {
			return ErrItemNotSold
		}
		collected, err := tx.SumPaymentsForItem(ctx, item.ID)
		if err != nil {
			return err
		}
		payout = Payout{
			ItemID:    item.ID,
			VendorID:  item.VendorID,
			Amount:    PayoutAmount(item.Cost, item.Price, collected),
			Reference: uuid.NewString(),
			Notes:     input.Notes,
			PaidAt:    s.now(),
		}
		id, err := tx.InsertPayout(ctx, payout)
		if err != nil {
			return err
		}
		payout.ID = id
		return nil
	})
	if err != nil {
		return Payout{}, err
	}
	s.bump(ctx)
	s.logger.Info("payout created",
		slog.Int64("item_id", payout.ItemID),
		slog.Int64("vendor_id", payout.VendorID),
		slog.Float64("amount", payout.Amount))
	return payout, nil
}

// Quote previews the payout a sold item would settle at without writing it.
type Quote struct {
	ItemID    int64
	Status    Status
	Collected float64
	Amount    float64
}

// PayoutQuote computes the current payout amount for an item. The item does
// not have to be sold yet; the quote reports the status so callers can tell.
// Quotes read without a transaction or row lock since they write nothing.
func (s *Service) PayoutQuote(ctx context.Context, itemID int64) (Quote, error) {
	item, err := s.repo.GetItem(ctx, itemID)
	if err != nil {
		return Quote{}, err
	}
	collected, err := s.repo.SumPaymentsForItem(ctx, item.ID)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ItemID:    item.ID,
		Status:    item.Status,
		Collected: collected,
		Amount:    PayoutAmount(item.Cost, item.Price, collected),
	}, nil
}

// OverdueInstallments lists pending plans past due as of today.
func (s *Service) OverdueInstallments(ctx context.Context) ([]InstallmentPlan, error) {
	return s.repo.ListOverdueInstallments(ctx, s.now().Truncate(24*time.Hour))
}

func (s *Service) syncStatus(ctx context.Context, tx TxRepository, item Item) (Status, error) {
	total, err := tx.SumPaymentsForItem(ctx, item.ID)
	if err != nil {
		return "", err
	}
	status := DeriveStatus(item.Price, total)
	if status == item.Status {
		return status, nil
	}
	if err := tx.UpdateItemStatus(ctx, item.ID, status); err != nil {
		return "", err
	}
	return status, nil
}

func (s *Service) bump(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("report cache bump failed", slog.Any("error", err))
	}
}
