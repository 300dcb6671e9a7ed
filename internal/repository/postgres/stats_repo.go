package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

type statsRepo struct {
	db *sqlx.DB
}

// NewStatsRepo creates a new PostgreSQL-backed StatsRepository.
func NewStatsRepo(db *sqlx.DB) port.StatsRepository {
	return &statsRepo{db: db}
}

const billTotalsQuery = `SELECT
	COUNT(*) AS total_bills,
	COALESCE(SUM(total_billed_amount), 0) AS total_amount,
	COALESCE(SUM(total_billed_amount) FILTER (WHERE payment_status = 'paid'), 0) AS paid_amount,
	COALESCE(SUM(total_billed_amount) FILTER (WHERE payment_status = 'unpaid'), 0) AS unpaid_amount,
	(SELECT COUNT(*) FROM suppliers) AS supplier_count,
	(SELECT COUNT(*) FROM parties) AS party_count
FROM bills`

const monthlyTotalsQuery = `SELECT
	to_char(date_trunc('month', bill_date), 'YYYY-MM') AS month,
	COALESCE(SUM(total_billed_amount) FILTER (WHERE payment_status = 'paid'), 0) AS paid,
	COALESCE(SUM(total_billed_amount) FILTER (WHERE payment_status = 'unpaid'), 0) AS unpaid
FROM bills
WHERE bill_date >= $1
GROUP BY 1
ORDER BY 1`

type totalsRow struct {
	TotalBills    int             `db:"total_bills"`
	TotalAmount   decimal.Decimal `db:"total_amount"`
	PaidAmount    decimal.Decimal `db:"paid_amount"`
	UnpaidAmount  decimal.Decimal `db:"unpaid_amount"`
	SupplierCount int             `db:"supplier_count"`
	PartyCount    int             `db:"party_count"`
}

func (r *statsRepo) Totals(ctx context.Context) (*domain.DashboardStats, error) {
	var row totalsRow
	if err := r.db.GetContext(ctx, &row, billTotalsQuery); err != nil {
		return nil, fmt.Errorf("statsRepo.Totals: %w", err)
	}
	return &domain.DashboardStats{
		TotalBills:    row.TotalBills,
		TotalAmount:   row.TotalAmount,
		PaidAmount:    row.PaidAmount,
		UnpaidAmount:  row.UnpaidAmount,
		SupplierCount: row.SupplierCount,
		PartyCount:    row.PartyCount,
	}, nil
}

func (r *statsRepo) Monthly(ctx context.Context, since time.Time) ([]domain.MonthlyTotal, error) {
	var rows []domain.MonthlyTotal
	if err := r.db.SelectContext(ctx, &rows, monthlyTotalsQuery, since.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("statsRepo.Monthly: %w", err)
	}
	return rows, nil
}

func (r *statsRepo) TopContacts(ctx context.Context, kind domain.ContactKind, limit int) ([]domain.ContactTotal, error) {
	q := psql.Select(
		"c.id", "c.name",
		"COUNT(b.id) AS bills",
		"COALESCE(SUM(b.total_billed_amount), 0) AS amount",
	).From(kind.Table()+" c").
		Join(fmt.Sprintf("bills b ON b.%s = c.id", kind.BillColumn())).
		GroupBy("c.id", "c.name").
		OrderBy("amount DESC", "c.name ASC").
		Limit(uint64(limit))

	var rows []domain.ContactTotal
	if err := selectBuilt(ctx, r.db, &rows, q); err != nil {
		return nil, fmt.Errorf("statsRepo.TopContacts: %w", err)
	}
	return rows, nil
}
