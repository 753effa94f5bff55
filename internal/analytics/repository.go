package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maison-erp/maison-erp/internal/ledger"
)

// Repository reads ledger snapshots from PostgreSQL. The ledger is a
// bounded single-tenant dataset, so a snapshot load per report keeps every
// transform pure without a materialised view.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Snapshot loads the items matching the filter's item-level dimensions
// together with their full payment, payout, expense and installment
// history plus the dimension name lookups.
func (r *Repository) Snapshot(ctx context.Context, f Filter) (Snapshot, error) {
	snap := Snapshot{}

	items, err := r.loadItems(ctx, f)
	if err != nil {
		return Snapshot{}, err
	}
	snap.Items = items

	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}

	if len(ids) > 0 {
		if snap.Payments, err = r.loadPayments(ctx, ids); err != nil {
			return Snapshot{}, err
		}
		if snap.Payouts, err = r.loadPayouts(ctx, ids); err != nil {
			return Snapshot{}, err
		}
		if snap.Installments, err = r.loadInstallments(ctx, ids); err != nil {
			return Snapshot{}, err
		}
	}
	if snap.Expenses, err = r.loadExpenses(ctx, ids); err != nil {
		return Snapshot{}, err
	}

	for name, dest := range map[string]*map[int64]string{
		"vendors":    &snap.Vendors,
		"clients":    &snap.Clients,
		"brands":     &snap.Brands,
		"categories": &snap.Categories,
	} {
		lookup, err := r.loadNames(ctx, name)
		if err != nil {
			return Snapshot{}, err
		}
		*dest = lookup
	}
	return snap, nil
}

func (r *Repository) loadItems(ctx context.Context, f Filter) ([]ledger.Item, error) {
	const query = `
		SELECT id, vendor_id, COALESCE(brand_id, 0), COALESCE(category_id, 0),
		       COALESCE(min_cost, 0), COALESCE(max_cost, 0),
		       COALESCE(min_sales_price, 0), COALESCE(max_sales_price, 0),
		       status, acquisition_date, created_at
		FROM items
		WHERE (cardinality($1::bigint[]) = 0 OR vendor_id = ANY($1))
		  AND (cardinality($2::bigint[]) = 0 OR brand_id = ANY($2))
		  AND (cardinality($3::bigint[]) = 0 OR category_id = ANY($3))
		  AND (cardinality($4::text[]) = 0 OR status = ANY($4))
		ORDER BY id`
	statuses := make([]string, 0, len(f.Statuses))
	for _, status := range f.Statuses {
		statuses = append(statuses, string(status))
	}
	rows, err := r.pool.Query(ctx, query, int64Array(f.VendorIDs), int64Array(f.BrandIDs), int64Array(f.CategoryIDs), statuses)
	if err != nil {
		return nil, fmt.Errorf("analytics: load items: %w", err)
	}
	defer rows.Close()

	var items []ledger.Item
	for rows.Next() {
		var item ledger.Item
		var status string
		var acquired pgtype.Date
		if err := rows.Scan(
			&item.ID, &item.VendorID, &item.BrandID, &item.CategoryID,
			&item.Cost.Min, &item.Cost.Max,
			&item.Price.Min, &item.Price.Max,
			&status, &acquired, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("analytics: scan item: %w", err)
		}
		item.Status = ledger.Status(status)
		if acquired.Valid {
			item.AcquisitionDate = acquired.Time
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *Repository) loadPayments(ctx context.Context, itemIDs []int64) ([]ledger.Payment, error) {
	const query = `
		SELECT id, item_id, client_id, amount, COALESCE(method, ''), paid_at
		FROM payments
		WHERE item_id = ANY($1)
		ORDER BY paid_at, id`
	rows, err := r.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: load payments: %w", err)
	}
	defer rows.Close()

	var payments []ledger.Payment
	for rows.Next() {
		var payment ledger.Payment
		if err := rows.Scan(&payment.ID, &payment.ItemID, &payment.ClientID, &payment.Amount, &payment.Method, &payment.PaidAt); err != nil {
			return nil, fmt.Errorf("analytics: scan payment: %w", err)
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}

func (r *Repository) loadPayouts(ctx context.Context, itemIDs []int64) ([]ledger.Payout, error) {
	const query = `
		SELECT id, item_id, vendor_id, amount, COALESCE(reference, ''), COALESCE(notes, ''), paid_at
		FROM payouts
		WHERE item_id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: load payouts: %w", err)
	}
	defer rows.Close()

	var payouts []ledger.Payout
	for rows.Next() {
		var payout ledger.Payout
		if err := rows.Scan(&payout.ID, &payout.ItemID, &payout.VendorID, &payout.Amount, &payout.Reference, &payout.Notes, &payout.PaidAt); err != nil {
			return nil, fmt.Errorf("analytics: scan payout: %w", err)
		}
		payouts = append(payouts, payout)
	}
	return payouts, rows.Err()
}

func (r *Repository) loadExpenses(ctx context.Context, itemIDs []int64) ([]ledger.Expense, error) {
	// General business expenses carry a NULL item reference and are
	// returned alongside the matched items' expenses.
	const query = `
		SELECT id, COALESCE(item_id, 0), COALESCE(type, ''), amount, incurred_at
		FROM expenses
		WHERE item_id IS NULL OR item_id = ANY($1)
		ORDER BY incurred_at, id`
	rows, err := r.pool.Query(ctx, query, int64Array(itemIDs))
	if err != nil {
		return nil, fmt.Errorf("analytics: load expenses: %w", err)
	}
	defer rows.Close()

	var expenses []ledger.Expense
	for rows.Next() {
		var expense ledger.Expense
		if err := rows.Scan(&expense.ID, &expense.ItemID, &expense.Type, &expense.Amount, &expense.IncurredAt); err != nil {
			return nil, fmt.Errorf("analytics: scan expense: %w", err)
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

func (r *Repository) loadInstallments(ctx context.Context, itemIDs []int64) ([]ledger.InstallmentPlan, error) {
	const query = `
		SELECT id, item_id, client_id, amount, due_date, paid_amount, status
		FROM installment_plans
		WHERE item_id = ANY($1)
		ORDER BY due_date, id`
	rows, err := r.pool.Query(ctx, query, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("analytics: load installments: %w", err)
	}
	defer rows.Close()

	var plans []ledger.InstallmentPlan
	for rows.Next() {
		var plan ledger.InstallmentPlan
		var status string
		if err := rows.Scan(&plan.ID, &plan.ItemID, &plan.ClientID, &plan.Amount, &plan.DueDate, &plan.PaidAmount, &status); err != nil {
			return nil, fmt.Errorf("analytics: scan installment: %w", err)
		}
		plan.Status = ledger.InstallmentStatus(status)
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

func (r *Repository) loadNames(ctx context.Context, table string) (map[int64]string, error) {
	rows, err := r.pool.Query(ctx, fmt.Sprintf(`SELECT id, name FROM %s`, table))
	if err != nil {
		if err == pgx.ErrNoRows {
			return map[int64]string{}, nil
		}
		return nil, fmt.Errorf("analytics: load %s: %w", table, err)
	}
	defer rows.Close()

	names := make(map[int64]string)
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("analytics: scan %s: %w", table, err)
		}
		names[id] = name
	}
	return names, rows.Err()
}

func int64Array(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}
