package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"billdesk/internal/domain"
)

// SQLSTATE codes the repositories translate.
const (
	pgUniqueViolation      = "23505"
	pgForeignKeyViolation  = "23503"
	pgCheckViolation       = "23514"
	pgNumericOutOfRange    = "22003"
	pgSerializationFailure = "40001"
	pgDeadlockDetected     = "40P01"
	pgLockNotAvailable     = "55P03"
	pgQueryCanceled        = "57014"
)

var uniqueConstraintErrors = map[string]error{
	"bills_number_date_key": domain.ErrDuplicateBill,
	"suppliers_gstin_key":   domain.ErrDuplicateGSTIN,
	"parties_gstin_key":     domain.ErrDuplicateGSTIN,
	"users_email_key":       domain.ErrDuplicateEmail,
}

var foreignKeyErrors = map[string]error{
	"bills_supplier_id_fkey": domain.ErrSupplierNotFound,
	"bills_party_id_fkey":    domain.ErrPartyNotFound,
}

// translateError maps driver errors onto domain errors. It returns nil when
// err carries no known classification.
func translateError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return domain.ErrTimeout
	}

	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if mapped, ok := uniqueConstraintErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
		return domain.ErrConflict
	case pgForeignKeyViolation:
		// Deleting a referenced row reports the same code as inserting a
		// dangling reference; only the message tells them apart.
		if strings.HasPrefix(pgErr.Message, "update or delete") {
			return domain.ErrContactInUse
		}
		if mapped, ok := foreignKeyErrors[pgErr.ConstraintName]; ok {
			return mapped
		}
		return domain.ErrNotFound
	case pgCheckViolation, pgNumericOutOfRange:
		return domain.ErrInvalidInput
	case pgSerializationFailure, pgDeadlockDetected:
		return domain.ErrConflict
	case pgLockNotAvailable, pgQueryCanceled:
		return domain.ErrTimeout
	}
	return nil
}

// wrapError translates err or wraps it with the operation name.
func wrapError(op string, err error) error {
	if mapped := translateError(err); mapped != nil {
		return mapped
	}
	return fmt.Errorf("%s: %w", op, err)
}
