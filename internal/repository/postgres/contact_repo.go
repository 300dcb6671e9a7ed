package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

const contactColumns = "id, name, gstin, address_id, phone_id, created_at, updated_at"

type contactRepo struct {
	db sqlx.ExtContext
}

// NewContactRepo creates a PostgreSQL-backed ContactRepository serving both
// the suppliers and parties tables.
func NewContactRepo(db sqlx.ExtContext) port.ContactRepository {
	return &contactRepo{db: db}
}

func (r *contactRepo) Create(ctx context.Context, c *domain.Contact) error {
	c.ID = uuid.New()
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := execBuilt(ctx, r.db, psql.Insert(c.Kind.Table()).
		Columns("id", "name", "gstin", "address_id", "phone_id", "created_at", "updated_at").
		Values(c.ID, c.Name, c.GSTIN, c.AddressID, c.PhoneID, c.CreatedAt, c.UpdatedAt))
	if err != nil {
		return wrapError("contactRepo.Create", err)
	}
	return nil
}

func (r *contactRepo) GetByID(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (*domain.Contact, error) {
	return r.getOne(ctx, kind, squirrel.Eq{"id": id}, "contactRepo.GetByID")
}

func (r *contactRepo) GetByGSTIN(ctx context.Context, kind domain.ContactKind, gstin string) (*domain.Contact, error) {
	return r.getOne(ctx, kind, squirrel.Eq{"gstin": gstin}, "contactRepo.GetByGSTIN")
}

func (r *contactRepo) getOne(ctx context.Context, kind domain.ContactKind, where squirrel.Sqlizer, op string) (*domain.Contact, error) {
	var c domain.Contact
	err := getBuilt(ctx, r.db, &c, psql.Select(contactColumns).From(kind.Table()).Where(where))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ContactNotFound(kind)
		}
		return nil, wrapError(op, err)
	}
	c.Kind = kind
	contacts := []domain.Contact{c}
	if err := attachContactDetails(ctx, r.db, contacts); err != nil {
		return nil, wrapError(op, err)
	}
	return &contacts[0], nil
}

type contactWithCount struct {
	domain.Contact
	Bills int `db:"bill_count"`
}

func (r *contactRepo) List(ctx context.Context, kind domain.ContactKind, offset, limit int) ([]domain.Contact, int, error) {
	var total int
	if err := getBuilt(ctx, r.db, &total, psql.Select("COUNT(*)").From(kind.Table())); err != nil {
		return nil, 0, wrapError("contactRepo.List count", err)
	}

	q := psql.Select(
		"c.id, c.name, c.gstin, c.address_id, c.phone_id, c.created_at, c.updated_at",
		fmt.Sprintf("(SELECT COUNT(*) FROM bills b WHERE b.%s = c.id) AS bill_count", kind.BillColumn()),
	).From(kind.Table() + " c").OrderBy("c.name ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit)).Offset(uint64(offset))
	}

	var rows []contactWithCount
	if err := selectBuilt(ctx, r.db, &rows, q); err != nil {
		return nil, 0, wrapError("contactRepo.List", err)
	}

	contacts := make([]domain.Contact, len(rows))
	for i := range rows {
		contacts[i] = rows[i].Contact
		contacts[i].Kind = kind
		count := rows[i].Bills
		contacts[i].BillCount = &count
	}
	if err := attachContactDetails(ctx, r.db, contacts); err != nil {
		return nil, 0, wrapError("contactRepo.List details", err)
	}
	return contacts, total, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (r *contactRepo) Search(ctx context.Context, kind domain.ContactKind, name, gstin string, limit int) ([]domain.Contact, error) {
	cond := squirrel.Or{}
	if name != "" {
		cond = append(cond, squirrel.ILike{"name": "%" + escapeLike(name) + "%"})
	}
	if gstin != "" {
		cond = append(cond, squirrel.Eq{"gstin": gstin})
	}
	if len(cond) == 0 {
		return []domain.Contact{}, nil
	}

	q := psql.Select(contactColumns).From(kind.Table()).Where(cond).OrderBy("name ASC")
	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	var contacts []domain.Contact
	if err := selectBuilt(ctx, r.db, &contacts, q); err != nil {
		return nil, wrapError("contactRepo.Search", err)
	}
	for i := range contacts {
		contacts[i].Kind = kind
	}
	if err := attachContactDetails(ctx, r.db, contacts); err != nil {
		return nil, wrapError("contactRepo.Search details", err)
	}
	if contacts == nil {
		contacts = []domain.Contact{}
	}
	return contacts, nil
}

func (r *contactRepo) Update(ctx context.Context, c *domain.Contact) error {
	c.UpdatedAt = time.Now().UTC()
	rows, err := execBuilt(ctx, r.db, psql.Update(c.Kind.Table()).
		Set("name", c.Name).
		Set("gstin", c.GSTIN).
		Set("updated_at", c.UpdatedAt).
		Where(squirrel.Eq{"id": c.ID}))
	if err != nil {
		return wrapError("contactRepo.Update", err)
	}
	if rows == 0 {
		return domain.ContactNotFound(c.Kind)
	}
	return nil
}

func (r *contactRepo) Delete(ctx context.Context, kind domain.ContactKind, id uuid.UUID) error {
	rows, err := execBuilt(ctx, r.db, psql.Delete(kind.Table()).Where(squirrel.Eq{"id": id}))
	if err != nil {
		return wrapError("contactRepo.Delete", err)
	}
	if rows == 0 {
		return domain.ContactNotFound(kind)
	}
	return nil
}

func (r *contactRepo) CountBills(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (int, error) {
	var n int
	err := getBuilt(ctx, r.db, &n,
		psql.Select("COUNT(*)").From("bills").Where(squirrel.Eq{kind.BillColumn(): id}))
	if err != nil {
		return 0, wrapError("contactRepo.CountBills", err)
	}
	return n, nil
}

// attachContactDetails fills Address and Phone on every contact in place.
func attachContactDetails(ctx context.Context, q sqlx.QueryerContext, contacts []domain.Contact) error {
	if len(contacts) == 0 {
		return nil
	}
	addrIDs := make([]uuid.UUID, 0, len(contacts))
	phoneIDs := make([]uuid.UUID, 0, len(contacts))
	for i := range contacts {
		addrIDs = append(addrIDs, contacts[i].AddressID)
		phoneIDs = append(phoneIDs, contacts[i].PhoneID)
	}

	addrs, err := addressesByID(ctx, q, addrIDs)
	if err != nil {
		return err
	}
	phones, err := phonesByID(ctx, q, phoneIDs)
	if err != nil {
		return err
	}
	for i := range contacts {
		contacts[i].Address = addrs[contacts[i].AddressID]
		contacts[i].Phone = phones[contacts[i].PhoneID]
	}
	return nil
}

// contactsByID loads contacts of one kind with details, keyed by id.
func contactsByID(ctx context.Context, q sqlx.QueryerContext, kind domain.ContactKind, ids []uuid.UUID) (map[uuid.UUID]*domain.Contact, error) {
	out := make(map[uuid.UUID]*domain.Contact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var contacts []domain.Contact
	err := selectBuilt(ctx, q, &contacts,
		psql.Select(contactColumns).From(kind.Table()).Where(squirrel.Eq{"id": uniqueIDs(ids)}))
	if err != nil {
		return nil, fmt.Errorf("contactsByID: %w", err)
	}
	for i := range contacts {
		contacts[i].Kind = kind
	}
	if err := attachContactDetails(ctx, q, contacts); err != nil {
		return nil, err
	}
	for i := range contacts {
		out[contacts[i].ID] = &contacts[i]
	}
	return out, nil
}

func uniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
