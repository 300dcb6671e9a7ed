package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

const addressColumns = "id, street, city, post, district, state, pincode, st_code"

type addressRepo struct {
	db sqlx.ExtContext
}

// NewAddressRepo creates a PostgreSQL-backed AddressRepository on a pool or transaction.
func NewAddressRepo(db sqlx.ExtContext) port.AddressRepository {
	return &addressRepo{db: db}
}

func (r *addressRepo) Create(ctx context.Context, addr *domain.Address) error {
	addr.ID = uuid.New()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO addresses (id, street, city, post, district, state, pincode, st_code)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		addr.ID, addr.Street, addr.City, addr.Post, addr.District, addr.State, addr.Pincode, addr.StCode)
	if err != nil {
		return wrapError("addressRepo.Create", err)
	}
	return nil
}

func (r *addressRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error) {
	var addr domain.Address
	err := sqlx.GetContext(ctx, r.db, &addr,
		"SELECT "+addressColumns+" FROM addresses WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, wrapError("addressRepo.GetByID", err)
	}
	return &addr, nil
}

func (r *addressRepo) Update(ctx context.Context, addr *domain.Address) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE addresses SET street = $1, city = $2, post = $3, district = $4, state = $5,
		 pincode = $6, st_code = $7 WHERE id = $8`,
		addr.Street, addr.City, addr.Post, addr.District, addr.State, addr.Pincode, addr.StCode, addr.ID)
	if err != nil {
		return wrapError("addressRepo.Update", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *addressRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM addresses WHERE id = $1", id)
	if err != nil {
		return wrapError("addressRepo.Delete", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// addressesByID loads the given addresses keyed by id.
func addressesByID(ctx context.Context, q sqlx.QueryerContext, ids []uuid.UUID) (map[uuid.UUID]*domain.Address, error) {
	out := make(map[uuid.UUID]*domain.Address, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Address
	err := selectBuilt(ctx, q, &rows,
		psql.Select(addressColumns).From("addresses").Where(squirrel.Eq{"id": ids}))
	if err != nil {
		return nil, fmt.Errorf("addressesByID: %w", err)
	}
	for i := range rows {
		out[rows[i].ID] = &rows[i]
	}
	return out, nil
}
