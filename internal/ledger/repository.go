package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maison-erp/maison-erp/internal/platform/db"
)

// Repository persists ledger records in PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// TxRepository exposes the transactional operations used by the service.
// Every payment write and its derived status update run through one
// transaction so readers never observe them apart.
type TxRepository interface {
	GetItemForUpdate(ctx context.Context, itemID int64) (Item, error)
	InsertPayment(ctx context.Context, payment Payment) (int64, error)
	UpdatePaymentAmount(ctx context.Context, paymentID int64, amount float64) error
	DeletePayment(ctx context.Context, paymentID int64) error
	GetPayment(ctx context.Context, paymentID int64) (Payment, error)
	SumPaymentsForItem(ctx context.Context, itemID int64) (float64, error)
	UpdateItemStatus(ctx context.Context, itemID int64, status Status) error
	InsertPayout(ctx context.Context, payout Payout) (int64, error)
}

type txRepo struct {
	tx pgx.Tx
}

// WithTx executes the callback inside a repeatable-read transaction.
func (r *Repository) WithTx(ctx context.Context, fn func(context.Context, TxRepository) error) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(ctx, &txRepo{tx: tx})
	})
}

// ListOverdueInstallments returns pending plans whose due date passed.
func (r *Repository) ListOverdueInstallments(ctx context.Context, asOf time.Time) ([]InstallmentPlan, error) {
	const query = `
		SELECT id, item_id, client_id, amount, due_date, paid_amount, status
		FROM installment_plans
		WHERE status = $1 AND due_date < $2
		ORDER BY due_date`
	rows, err := r.pool.Query(ctx, query, string(InstallmentPending), asOf)
	if err != nil {
		return nil, fmt.Errorf("ledger: list overdue installments: %w", err)
	}
	defer rows.Close()

	var plans []InstallmentPlan
	for rows.Next() {
		var plan InstallmentPlan
		var status string
		if err := rows.Scan(&plan.ID, &plan.ItemID, &plan.ClientID, &plan.Amount, &plan.DueDate, &plan.PaidAmount, &status); err != nil {
			return nil, fmt.Errorf("ledger: scan installment: %w", err)
		}
		plan.Status = InstallmentStatus(status)
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

const selectItem = `
	SELECT id, vendor_id, COALESCE(brand_id, 0), COALESCE(category_id, 0),
	       COALESCE(min_cost, 0), COALESCE(max_cost, 0),
	       COALESCE(min_sales_price, 0), COALESCE(max_sales_price, 0),
	       status, acquisition_date, created_at
	FROM items
	WHERE id = $1`

func scanItem(row pgx.Row) (Item, error) {
	var item Item
	var status string
	var acquired pgtype.Date
	err := row.Scan(
		&item.ID, &item.VendorID, &item.BrandID, &item.CategoryID,
		&item.Cost.Min, &item.Cost.Max,
		&item.Price.Min, &item.Price.Max,
		&status, &acquired, &item.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Item{}, ErrItemNotFound
	}
	if err != nil {
		return Item{}, fmt.Errorf("ledger: get item: %w", err)
	}
	item.Status = Status(status)
	if acquired.Valid {
		item.AcquisitionDate = acquired.Time
	}
	return item, nil
}

// GetItem reads an item without locking it. Quotes and other read-only
// callers use this; the write path takes GetItemForUpdate instead.
func (r *Repository) GetItem(ctx context.Context, itemID int64) (Item, error) {
	return scanItem(r.pool.QueryRow(ctx, selectItem, itemID))
}

// SumPaymentsForItem totals an item's payments outside a transaction.
func (r *Repository) SumPaymentsForItem(ctx context.Context, itemID int64) (float64, error) {
	var total float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE item_id = $1`, itemID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ledger: sum payments: %w", err)
	}
	return total, nil
}

func (r *txRepo) GetItemForUpdate(ctx context.Context, itemID int64) (Item, error) {
	return scanItem(r.tx.QueryRow(ctx, selectItem+`
	FOR UPDATE`, itemID))
}

func (r *txRepo) InsertPayment(ctx context.Context, payment Payment) (int64, error) {
	const query = `
		INSERT INTO payments (item_id, client_id, amount, method, paid_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	var id int64
	err := r.tx.QueryRow(ctx, query, payment.ItemID, payment.ClientID, payment.Amount, payment.Method, payment.PaidAt).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("ledger: insert payment: %w", err)
	}
	return id, nil
}

func (r *txRepo) UpdatePaymentAmount(ctx context.Context, paymentID int64, amount float64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE payments SET amount = $2 WHERE id = $1`, paymentID, amount)
	if err != nil {
		return fmt.Errorf("ledger: update payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *txRepo) DeletePayment(ctx context.Context, paymentID int64) error {
	tag, err := r.tx.Exec(ctx, `DELETE FROM payments WHERE id = $1`, paymentID)
	if err != nil {
		return fmt.Errorf("ledger: delete payment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

func (r *txRepo) GetPayment(ctx context.Context, paymentID int64) (Payment, error) {
	const query = `
		SELECT id, item_id, client_id, amount, COALESCE(method, ''), paid_at
		FROM payments
		WHERE id = $1`
	var payment Payment
	err := r.tx.QueryRow(ctx, query, paymentID).Scan(
		&payment.ID, &payment.ItemID, &payment.ClientID, &payment.Amount, &payment.Method, &payment.PaidAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Payment{}, ErrPaymentNotFound
	}
	if err != nil {
		return Payment{}, fmt.Errorf("ledger: get payment: %w", err)
	}
	return payment, nil
}

func (r *txRepo) SumPaymentsForItem(ctx context.Context, itemID int64) (float64, error) {
	var total float64
	err := r.tx.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE item_id = $1`, itemID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("ledger: sum payments: %w", err)
	}
	return total, nil
}

func (r *txRepo) UpdateItemStatus(ctx context.Context, itemID int64, status Status) error {
	tag, err := r.tx.Exec(ctx, `UPDATE items SET status = $2 WHERE id = $1`, itemID, string(status))
	if err != nil {
		return fmt.Errorf("ledger: update item status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrItemNotFound
	}
	return nil
}

// InsertPayout relies on the unique index on payouts(item_id) to enforce
// the single-payout-per-item invariant structurally instead of by a racy
// existence check.
func (r *txRepo) InsertPayout(ctx context.Context, payout Payout) (int64, error) {
	const query = `
		INSERT INTO payouts (item_id, vendor_id, amount, reference, notes, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	var id int64
	err := r.tx.QueryRow(ctx, query, payout.ItemID, payout.VendorID, payout.Amount, payout.Reference, payout.Notes, payout.PaidAt).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return 0, ErrPayoutExists
		}
		return 0, fmt.Errorf("ledger: insert payout: %w", err)
	}
	return id, nil
}
