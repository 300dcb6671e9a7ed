package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

const billColumns = "b.id, b.bill_number, b.bill_date, b.location, b.total_billed_amount, " +
	"b.payment_status, b.supplier_id, b.party_id, b.created_at, b.updated_at"

const itemColumns = "id, bill_id, position, name, hsn, quantity, rate, amount"

type billRepo struct {
	db sqlx.ExtContext
}

// NewBillRepo creates a PostgreSQL-backed BillRepository on a pool or transaction.
func NewBillRepo(db sqlx.ExtContext) port.BillRepository {
	return &billRepo{db: db}
}

func (r *billRepo) Create(ctx context.Context, bill *domain.Bill) error {
	bill.ID = uuid.New()
	now := time.Now().UTC()
	bill.CreatedAt = now
	bill.UpdatedAt = now

	_, err := execBuilt(ctx, r.db, psql.Insert("bills").
		Columns("id", "bill_number", "bill_date", "location", "total_billed_amount",
			"payment_status", "supplier_id", "party_id", "created_at", "updated_at").
		Values(bill.ID, bill.BillNumber, bill.BillDate, bill.Location, bill.TotalBilledAmount,
			bill.PaymentStatus, bill.SupplierID, bill.PartyID, bill.CreatedAt, bill.UpdatedAt))
	if err != nil {
		return wrapError("billRepo.Create", err)
	}

	if err := r.insertItems(ctx, bill.ID, bill.Items); err != nil {
		return wrapError("billRepo.Create items", err)
	}
	return nil
}

func (r *billRepo) insertItems(ctx context.Context, billID uuid.UUID, items []domain.BillItem) error {
	if len(items) == 0 {
		return nil
	}
	ins := psql.Insert("bill_items").
		Columns("id", "bill_id", "position", "name", "hsn", "quantity", "rate", "amount")
	for i := range items {
		items[i].ID = uuid.New()
		items[i].BillID = billID
		items[i].Position = i
		ins = ins.Values(items[i].ID, billID, i, items[i].Name, items[i].HSN,
			items[i].Quantity, items[i].Rate, items[i].Amount)
	}
	_, err := execBuilt(ctx, r.db, ins)
	return err
}

func (r *billRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	var bill domain.Bill
	err := getBuilt(ctx, r.db, &bill,
		psql.Select(billColumns).From("bills b").Where(squirrel.Eq{"b.id": id}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapError("billRepo.GetByID", err)
	}
	bills := []domain.Bill{bill}
	if err := attachBillDetails(ctx, r.db, bills); err != nil {
		return nil, wrapError("billRepo.GetByID details", err)
	}
	return &bills[0], nil
}

func (r *billRepo) FindByNumberAndDate(ctx context.Context, number string, date time.Time) (*domain.Bill, error) {
	var bill domain.Bill
	err := getBuilt(ctx, r.db, &bill, psql.Select(billColumns).From("bills b").
		Where(squirrel.Eq{"b.bill_number": number, "b.bill_date": date.Format("2006-01-02")}))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapError("billRepo.FindByNumberAndDate", err)
	}
	return &bill, nil
}

func billFilterWhere(f domain.BillFilter) squirrel.And {
	where := squirrel.And{}
	if f.Query != "" {
		pattern := "%" + escapeLike(f.Query) + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"b.bill_number": pattern},
			squirrel.ILike{"s.name": pattern},
			squirrel.ILike{"p.name": pattern},
		})
	}
	if f.PaymentStatus != "" {
		where = append(where, squirrel.Eq{"b.payment_status": f.PaymentStatus})
	}
	if f.SupplierID != nil {
		where = append(where, squirrel.Eq{"b.supplier_id": *f.SupplierID})
	}
	if f.PartyID != nil {
		where = append(where, squirrel.Eq{"b.party_id": *f.PartyID})
	}
	if f.From != nil {
		where = append(where, squirrel.GtOrEq{"b.bill_date": f.From.Format("2006-01-02")})
	}
	if f.To != nil {
		where = append(where, squirrel.LtOrEq{"b.bill_date": f.To.Format("2006-01-02")})
	}
	return where
}

func (r *billRepo) List(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error) {
	base := psql.Select().From("bills b").
		Join("suppliers s ON s.id = b.supplier_id").
		Join("parties p ON p.id = b.party_id").
		Where(billFilterWhere(filter))

	var total int
	if err := getBuilt(ctx, r.db, &total, base.Columns("COUNT(*)")); err != nil {
		return nil, 0, wrapError("billRepo.List count", err)
	}

	q := base.Columns(billColumns).OrderBy("b.bill_date DESC", "b.created_at DESC")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset))
	}

	var bills []domain.Bill
	if err := selectBuilt(ctx, r.db, &bills, q); err != nil {
		return nil, 0, wrapError("billRepo.List", err)
	}
	if err := attachBillDetails(ctx, r.db, bills); err != nil {
		return nil, 0, wrapError("billRepo.List details", err)
	}
	if bills == nil {
		bills = []domain.Bill{}
	}
	return bills, total, nil
}

func (r *billRepo) Update(ctx context.Context, bill *domain.Bill) error {
	bill.UpdatedAt = time.Now().UTC()
	rows, err := execBuilt(ctx, r.db, psql.Update("bills").
		Set("bill_number", bill.BillNumber).
		Set("bill_date", bill.BillDate).
		Set("location", bill.Location).
		Set("total_billed_amount", bill.TotalBilledAmount).
		Set("payment_status", bill.PaymentStatus).
		Set("supplier_id", bill.SupplierID).
		Set("party_id", bill.PartyID).
		Set("updated_at", bill.UpdatedAt).
		Where(squirrel.Eq{"id": bill.ID}))
	if err != nil {
		return wrapError("billRepo.Update", err)
	}
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *billRepo) ReplaceItems(ctx context.Context, billID uuid.UUID, items []domain.BillItem) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM bill_items WHERE bill_id = $1", billID); err != nil {
		return wrapError("billRepo.ReplaceItems delete", err)
	}
	if err := r.insertItems(ctx, billID, items); err != nil {
		return wrapError("billRepo.ReplaceItems insert", err)
	}
	return nil
}

func (r *billRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM bills WHERE id = $1", id)
	if err != nil {
		return wrapError("billRepo.Delete", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// attachBillDetails loads items, supplier and party for every bill in place.
func attachBillDetails(ctx context.Context, q sqlx.QueryerContext, bills []domain.Bill) error {
	if len(bills) == 0 {
		return nil
	}
	billIDs := make([]uuid.UUID, len(bills))
	supplierIDs := make([]uuid.UUID, len(bills))
	partyIDs := make([]uuid.UUID, len(bills))
	for i := range bills {
		billIDs[i] = bills[i].ID
		supplierIDs[i] = bills[i].SupplierID
		partyIDs[i] = bills[i].PartyID
	}

	var items []domain.BillItem
	err := selectBuilt(ctx, q, &items, psql.Select(itemColumns).From("bill_items").
		Where(squirrel.Eq{"bill_id": billIDs}).OrderBy("bill_id", "position"))
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	byBill := make(map[uuid.UUID][]domain.BillItem, len(bills))
	for _, it := range items {
		byBill[it.BillID] = append(byBill[it.BillID], it)
	}

	suppliers, err := contactsByID(ctx, q, domain.KindSupplier, supplierIDs)
	if err != nil {
		return fmt.Errorf("loading suppliers: %w", err)
	}
	parties, err := contactsByID(ctx, q, domain.KindParty, partyIDs)
	if err != nil {
		return fmt.Errorf("loading parties: %w", err)
	}

	for i := range bills {
		bills[i].Items = byBill[bills[i].ID]
		if bills[i].Items == nil {
			bills[i].Items = []domain.BillItem{}
		}
		bills[i].Supplier = suppliers[bills[i].SupplierID]
		bills[i].Party = parties[bills[i].PartyID]
	}
	return nil
}
