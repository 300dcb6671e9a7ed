package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

type phoneRepo struct {
	db sqlx.ExtContext
}

// NewPhoneRepo creates a PostgreSQL-backed PhoneRepository on a pool or transaction.
func NewPhoneRepo(db sqlx.ExtContext) port.PhoneRepository {
	return &phoneRepo{db: db}
}

func nonNilArray(a pq.StringArray) pq.StringArray {
	if a == nil {
		return pq.StringArray{}
	}
	return a
}

func (r *phoneRepo) Create(ctx context.Context, phone *domain.Phone) error {
	phone.ID = uuid.New()
	phone.Office = nonNilArray(phone.Office)
	phone.Mobile = nonNilArray(phone.Mobile)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO phones (id, office, mobile) VALUES ($1, $2, $3)",
		phone.ID, phone.Office, phone.Mobile)
	if err != nil {
		return wrapError("phoneRepo.Create", err)
	}
	return nil
}

func (r *phoneRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Phone, error) {
	var phone domain.Phone
	err := sqlx.GetContext(ctx, r.db, &phone, "SELECT id, office, mobile FROM phones WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapError("phoneRepo.GetByID", err)
	}
	return &phone, nil
}

func (r *phoneRepo) Update(ctx context.Context, phone *domain.Phone) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE phones SET office = $1, mobile = $2 WHERE id = $3",
		nonNilArray(phone.Office), nonNilArray(phone.Mobile), phone.ID)
	if err != nil {
		return wrapError("phoneRepo.Update", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *phoneRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM phones WHERE id = $1", id)
	if err != nil {
		return wrapError("phoneRepo.Delete", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func phonesByID(ctx context.Context, q sqlx.QueryerContext, ids []uuid.UUID) (map[uuid.UUID]*domain.Phone, error) {
	out := make(map[uuid.UUID]*domain.Phone, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Phone
	err := selectBuilt(ctx, q, &rows,
		psql.Select("id, office, mobile").From("phones").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, fmt.Errorf("phonesByID: %w", err)
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
