package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/port"
)

type txManager struct {
	db       *sqlx.DB
	lockWait time.Duration
	timeout  time.Duration
}

// NewTxManager creates a TxManager running serializable transactions bounded
// by the configured lock wait and overall timeout.
func NewTxManager(db *sqlx.DB, cfg config.TxConfig) port.TxManager {
	return &txManager{db: db, lockWait: cfg.LockWait, timeout: cfg.Timeout}
}

// txRepositoryFactory hands out repositories bound to one *sqlx.Tx.
type txRepositoryFactory struct {
	tx *sqlx.Tx
}

func (f *txRepositoryFactory) Addresses() port.AddressRepository { return NewAddressRepo(f.tx) }
func (f *txRepositoryFactory) Phones() port.PhoneRepository { return NewPhoneRepo(f.tx) }
func (f *txRepositoryFactory) Contacts() port.ContactRepository { return NewContactRepo(f.tx) }
func (f *txRepositoryFactory) Bills() port.BillRepository { return NewBillRepo(f.tx) }

func (m *txManager) WithinTx(ctx context.Context, fn func(repos port.RepositoryFactory) error) error {
	if m.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.timeout)
		defer cancel()
	}

	tx, err := m.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return wrapError("txManager.begin", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = tx.Rollback()
			panic(r)
		}
	}()

	if m.lockWait > 0 {
		stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", m.lockWait.Milliseconds())
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			_ = tx.Rollback()
			return wrapError("txManager.lockTimeout", err)
		}
	}

	if err := fn(&txRepositoryFactory{tx: tx}); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return fmt.Errorf("transaction rollback failed: %v (original error: %w)", rbErr, err)
		}
		if errors.Is(ctx.Err(), context.DeadlineExceeded) && !isDomainError(err) {
			return domain.ErrTimeout
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return domain.ErrTimeout
		}
		return wrapError("txManager.commit", err)
	}
	return nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		domain.ErrNotFound, domain.ErrSupplierNotFound, domain.ErrPartyNotFound,
		domain.ErrDuplicateBill, domain.ErrDuplicateGSTIN, domain.ErrDuplicateEmail,
		domain.ErrConflict, domain.ErrContactInUse, domain.ErrInvalidPaymentStatus,
		domain.ErrMissingContact, domain.ErrInvalidInput, domain.ErrTimeout,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
