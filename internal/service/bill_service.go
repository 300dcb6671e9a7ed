package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"billdesk/internal/domain"
	"billdesk/internal/export"
	"billdesk/internal/port"
)

// exportLimit caps the number of bills written to one export file.
const exportLimit = 10000

// ExportFormat selects the file type produced by BillService.Export.
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
)

// BillService defines the bill management contract.
type BillService interface {
	Save(ctx context.Context, sub *domain.BillSubmission) (*domain.Bill, error)
	List(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	Update(ctx context.Context, id uuid.UUID, upd *domain.BillUpdate) (*domain.Bill, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListByContact(ctx context.Context, kind domain.ContactKind, id uuid.UUID, offset, limit int) ([]domain.Bill, int, error)
	Export(ctx context.Context, filter domain.BillFilter, format ExportFormat, w io.Writer) error
}

type billService struct {
	txm      port.TxManager
	bills    port.BillRepository
	contacts port.ContactRepository
	log      *zap.Logger
}

// NewBillService creates a new BillService implementation.
func NewBillService(txm port.TxManager, bills port.BillRepository, contacts port.ContactRepository, log *zap.Logger) BillService {
	return &billService{txm: txm, bills: bills, contacts: contacts, log: log}
}

// Save persists a validated bill in one serializable transaction:
// duplicate check, supplier, party, payment status, bill with items, reload.
// Any failure leaves the store untouched.
func (s *billService) Save(ctx context.Context, sub *domain.BillSubmission) (*domain.Bill, error) {
	var saved *domain.Bill
	err := s.txm.WithinTx(ctx, func(repos port.RepositoryFactory) error {
		if err := ensureBillUnique(ctx, repos.Bills(), sub.BillNumber, sub.BillDate, uuid.Nil); err != nil {
			return err
		}

		supplierID, err := resolveContact(ctx, repos, domain.KindSupplier, sub)
		if err != nil {
			return err
		}
		partyID, err := resolveContact(ctx, repos, domain.KindParty, sub)
		if err != nil {
			return err
		}

		status, ok := domain.ParsePaymentStatus(string(sub.PaymentStatus))
		if !ok {
			return domain.ErrInvalidPaymentStatus
		}

		bill := &domain.Bill{
			BillNumber:        sub.BillNumber,
			BillDate:          sub.BillDate,
			Location:          sub.Location,
			TotalBilledAmount: sub.TotalBilledAmount,
			PaymentStatus:     status,
			SupplierID:        supplierID,
			PartyID:           partyID,
			Items:             billItems(sub.Items),
		}
		if err := repos.Bills().Create(ctx, bill); err != nil {
			return err
		}

		saved, err = repos.Bills().GetByID(ctx, bill.ID)
		return err
	})
	if err != nil {
		s.log.Warn("bill save failed",
			zap.String("bill_number", sub.BillNumber),
			zap.Time("bill_date", sub.BillDate),
			zap.Error(err),
		)
		return nil, err
	}

	s.log.Info("bill saved",
		zap.String("id", saved.ID.String()),
		zap.String("bill_number", saved.BillNumber),
		zap.Int("items", len(saved.Items)),
	)
	return saved, nil
}

// resolveContact returns the id of the existing contact the submission
// references, or creates the new one it describes.
func resolveContact(ctx context.Context, repos port.RepositoryFactory, kind domain.ContactKind, sub *domain.BillSubmission) (uuid.UUID, error) {
	id, input := sub.ContactRef(kind)
	switch {
	case id != nil:
		c, err := repos.Contacts().GetByID(ctx, kind, *id)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	case input != nil:
		if err := ensureGSTINFree(ctx, repos.Contacts(), kind, input.GSTIN, uuid.Nil); err != nil {
			return uuid.Nil, err
		}
		c, err := createContact(ctx, repos, kind, input)
		if err != nil {
			return uuid.Nil, err
		}
		return c.ID, nil
	default:
		return uuid.Nil, fmt.Errorf("%s: %w", strings.ToLower(kind.Label()), domain.ErrMissingContact)
	}
}

// ensureBillUnique fails with domain.ErrDuplicateBill when a bill other than
// self already has the same number and date.
func ensureBillUnique(ctx context.Context, repo port.BillRepository, number string, date time.Time, self uuid.UUID) error {
	existing, err := repo.FindByNumberAndDate(ctx, number, date)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	}
	if existing.ID == self {
		return nil
	}
	return fmt.Errorf("%s on %s: %w", number, date.Format("2006-01-02"), domain.ErrDuplicateBill)
}

func billItems(in []domain.ItemInput) []domain.BillItem {
	items := make([]domain.BillItem, len(in))
	for i, it := range in {
		items[i] = domain.BillItem{
			Name:     it.Name,
			HSN:      it.HSN,
			Quantity: it.Quantity,
			Rate:     it.Rate,
			Amount:   it.Amount,
		}
	}
	return items
}

func (s *billService) List(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error) {
	filter.Offset, filter.Limit = clampPage(filter.Offset, filter.Limit)
	return s.bills.List(ctx, filter)
}

func (s *billService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *billService) Update(ctx context.Context, id uuid.UUID, upd *domain.BillUpdate) (*domain.Bill, error) {
	var updated *domain.Bill
	err := s.txm.WithinTx(ctx, func(repos port.RepositoryFactory) error {
		bill, err := repos.Bills().GetByID(ctx, id)
		if err != nil {
			return err
		}

		keyChanged := false
		if upd.BillNumber != nil && *upd.BillNumber != bill.BillNumber {
			bill.BillNumber = *upd.BillNumber
			keyChanged = true
		}
		if upd.BillDate != nil && !upd.BillDate.Equal(bill.BillDate) {
			bill.BillDate = *upd.BillDate
			keyChanged = true
		}
		if keyChanged {
			if err := ensureBillUnique(ctx, repos.Bills(), bill.BillNumber, bill.BillDate, bill.ID); err != nil {
				return err
			}
		}
		if upd.Location != nil {
			bill.Location = *upd.Location
		}
		if upd.TotalBilledAmount != nil {
			bill.TotalBilledAmount = *upd.TotalBilledAmount
		}
		if upd.PaymentStatus != nil {
			status, ok := domain.ParsePaymentStatus(string(*upd.PaymentStatus))
			if !ok {
				return domain.ErrInvalidPaymentStatus
			}
			bill.PaymentStatus = status
		}
		if upd.SupplierID != nil {
			if _, err := repos.Contacts().GetByID(ctx, domain.KindSupplier, *upd.SupplierID); err != nil {
				return err
			}
			bill.SupplierID = *upd.SupplierID
		}
		if upd.PartyID != nil {
			if _, err := repos.Contacts().GetByID(ctx, domain.KindParty, *upd.PartyID); err != nil {
				return err
			}
			bill.PartyID = *upd.PartyID
		}

		if err := repos.Bills().Update(ctx, bill); err != nil {
			return err
		}
		if upd.Items != nil {
			if err := repos.Bills().ReplaceItems(ctx, bill.ID, billItems(upd.Items)); err != nil {
				return err
			}
		}

		updated, err = repos.Bills().GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("bill updated", zap.String("id", id.String()))
	return updated, nil
}

func (s *billService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.bills.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("bill deleted", zap.String("id", id.String()))
	return nil
}

func (s *billService) ListByContact(ctx context.Context, kind domain.ContactKind, id uuid.UUID, offset, limit int) ([]domain.Bill, int, error) {
	if _, err := s.contacts.GetByID(ctx, kind, id); err != nil {
		return nil, 0, err
	}
	filter := domain.BillFilter{}
	if kind == domain.KindParty {
		filter.PartyID = &id
	} else {
		filter.SupplierID = &id
	}
	filter.Offset, filter.Limit = clampPage(offset, limit)
	return s.bills.List(ctx, filter)
}

// Export writes every bill matching filter (up to exportLimit) in format.
func (s *billService) Export(ctx context.Context, filter domain.BillFilter, format ExportFormat, w io.Writer) error {
	filter.Offset = 0
	filter.Limit = exportLimit
	bills, total, err := s.bills.List(ctx, filter)
	if err != nil {
		return err
	}
	if total > exportLimit {
		s.log.Warn("bill export truncated", zap.Int("total", total), zap.Int("limit", exportLimit))
	}

	switch format {
	case ExportCSV:
		if _, err := w.Write(export.BOM); err != nil {
			return fmt.Errorf("billService.Export: %w", err)
		}
		cw := export.NewCSVWriter(w)
		if err := cw.WriteHeader(); err != nil {
			return fmt.Errorf("billService.Export: %w", err)
		}
		if err := cw.WriteBills(bills); err != nil {
			return fmt.Errorf("billService.Export: %w", err)
		}
		cw.Flush()
		return cw.Error()
	case ExportXLSX:
		if err := export.WriteXLSX(w, bills); err != nil {
			return fmt.Errorf("billService.Export: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("export format %q: %w", format, domain.ErrInvalidInput)
	}
}
