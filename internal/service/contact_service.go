package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

// matchLimit caps the number of candidates returned by the matcher.
const matchLimit = 20

// ContactService manages suppliers and parties. Every method takes the
// contact kind, so one implementation serves both.
type ContactService interface {
	Create(ctx context.Context, kind domain.ContactKind, input *domain.NewContact) (*domain.Contact, error)
	List(ctx context.Context, kind domain.ContactKind, offset, limit int) ([]domain.Contact, int, error)
	GetByID(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (*domain.Contact, error)
	Update(ctx context.Context, kind domain.ContactKind, id uuid.UUID, input *domain.ContactUpdate) (*domain.Contact, error)
	Delete(ctx context.Context, kind domain.ContactKind, id uuid.UUID) error
	Match(ctx context.Context, kind domain.ContactKind, name, gstin string) ([]domain.Contact, error)
	MatchBill(ctx context.Context, data *domain.BillData) (*domain.MatchCandidates, error)
}

type contactService struct {
	txm      port.TxManager
	contacts port.ContactRepository
	log      *zap.Logger
}

// NewContactService creates a new ContactService implementation.
func NewContactService(txm port.TxManager, contacts port.ContactRepository, log *zap.Logger) ContactService {
	return &contactService{txm: txm, contacts: contacts, log: log}
}

func (s *contactService) Create(ctx context.Context, kind domain.ContactKind, input *domain.NewContact) (*domain.Contact, error) {
	var created *domain.Contact
	err := s.txm.WithinTx(ctx, func(repos port.RepositoryFactory) error {
		if err := ensureGSTINFree(ctx, repos.Contacts(), kind, input.GSTIN, uuid.Nil); err != nil {
			return err
		}
		c, err := createContact(ctx, repos, kind, input)
		if err != nil {
			return err
		}
		created, err = repos.Contacts().GetByID(ctx, kind, c.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("contact created",
		zap.String("kind", string(kind)),
		zap.String("id", created.ID.String()),
		zap.String("gstin", created.GSTIN),
	)
	return created, nil
}

func (s *contactService) List(ctx context.Context, kind domain.ContactKind, offset, limit int) ([]domain.Contact, int, error) {
	offset, limit = clampPage(offset, limit)
	return s.contacts.List(ctx, kind, offset, limit)
}

func (s *contactService) GetByID(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (*domain.Contact, error) {
	return s.contacts.GetByID(ctx, kind, id)
}

func (s *contactService) Update(ctx context.Context, kind domain.ContactKind, id uuid.UUID, input *domain.ContactUpdate) (*domain.Contact, error) {
	var updated *domain.Contact
	err := s.txm.WithinTx(ctx, func(repos port.RepositoryFactory) error {
		c, err := repos.Contacts().GetByID(ctx, kind, id)
		if err != nil {
			return err
		}

		if input.Name != nil {
			c.Name = *input.Name
		}
		if input.GSTIN != nil && *input.GSTIN != c.GSTIN {
			if err := ensureGSTINFree(ctx, repos.Contacts(), kind, *input.GSTIN, c.ID); err != nil {
				return err
			}
			c.GSTIN = *input.GSTIN
		}
		if input.Address != nil {
			addr := addressFromInput(input.Address)
			addr.ID = c.AddressID
			if err := repos.Addresses().Update(ctx, addr); err != nil {
				return err
			}
		}
		if input.Phone != nil {
			phone := phoneFromInput(input.Phone)
			phone.ID = c.PhoneID
			if err := repos.Phones().Update(ctx, phone); err != nil {
				return err
			}
		}
		if err := repos.Contacts().Update(ctx, c); err != nil {
			return err
		}

		updated, err = repos.Contacts().GetByID(ctx, kind, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a contact together with its address and phone. Contacts
// still referenced by bills are refused with domain.ErrContactInUse.
func (s *contactService) Delete(ctx context.Context, kind domain.ContactKind, id uuid.UUID) error {
	err := s.txm.WithinTx(ctx, func(repos port.RepositoryFactory) error {
		c, err := repos.Contacts().GetByID(ctx, kind, id)
		if err != nil {
			return err
		}
		n, err := repos.Contacts().CountBills(ctx, kind, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return fmt.Errorf("%s has %d bill(s): %w", strings.ToLower(kind.Label()), n, domain.ErrContactInUse)
		}
		if err := repos.Contacts().Delete(ctx, kind, id); err != nil {
			return err
		}
		if err := repos.Addresses().Delete(ctx, c.AddressID); err != nil {
			return err
		}
		return repos.Phones().Delete(ctx, c.PhoneID)
	})
	if err != nil {
		return err
	}
	s.log.Info("contact deleted", zap.String("kind", string(kind)), zap.String("id", id.String()))
	return nil
}

// Match finds contacts whose name contains name (case-insensitive) or whose
// GSTIN equals gstin. With both empty it returns no candidates.
func (s *contactService) Match(ctx context.Context, kind domain.ContactKind, name, gstin string) ([]domain.Contact, error) {
	name = strings.TrimSpace(name)
	gstin = strings.ToUpper(strings.TrimSpace(gstin))
	if name == "" && gstin == "" {
		return []domain.Contact{}, nil
	}
	return s.contacts.Search(ctx, kind, name, gstin, matchLimit)
}

func (s *contactService) MatchBill(ctx context.Context, data *domain.BillData) (*domain.MatchCandidates, error) {
	out := &domain.MatchCandidates{Suppliers: []domain.Contact{}, Parties: []domain.Contact{}}
	if data.Supplier != nil {
		found, err := s.Match(ctx, domain.KindSupplier, data.Supplier.Name, data.Supplier.GSTIN)
		if err != nil {
			return nil, err
		}
		out.Suppliers = found
	}
	if data.Party != nil {
		found, err := s.Match(ctx, domain.KindParty, data.Party.Name, data.Party.GSTIN)
		if err != nil {
			return nil, err
		}
		out.Parties = found
	}
	return out, nil
}

// ensureGSTINFree fails with domain.ErrDuplicateGSTIN when another contact of
// the same kind already carries gstin. self is ignored.
func ensureGSTINFree(ctx context.Context, repo port.ContactRepository, kind domain.ContactKind, gstin string, self uuid.UUID) error {
	existing, err := repo.GetByGSTIN(ctx, kind, gstin)
	if err != nil {
		if errors.Is(err, domain.ContactNotFound(kind)) {
			return nil
		}
		return err
	}
	if existing.ID == self {
		return nil
	}
	return fmt.Errorf("%s %s: %w", strings.ToLower(kind.Label()), gstin, domain.ErrDuplicateGSTIN)
}

// createContact inserts the address, then the phone, then the contact row.
func createContact(ctx context.Context, repos port.RepositoryFactory, kind domain.ContactKind, input *domain.NewContact) (*domain.Contact, error) {
	if strings.TrimSpace(input.Address.State) == "" || strings.TrimSpace(input.Address.Pincode) == "" {
		return nil, fmt.Errorf("%s address needs state and pincode: %w", strings.ToLower(kind.Label()), domain.ErrInvalidInput)
	}
	if len(input.Phone.Mobile) == 0 {
		return nil, fmt.Errorf("%s needs at least one mobile number: %w", strings.ToLower(kind.Label()), domain.ErrInvalidInput)
	}

	addr := addressFromInput(&input.Address)
	if err := repos.Addresses().Create(ctx, addr); err != nil {
		return nil, err
	}
	phone := phoneFromInput(&input.Phone)
	if err := repos.Phones().Create(ctx, phone); err != nil {
		return nil, err
	}

	c := &domain.Contact{
		Kind:      kind,
		Name:      input.Name,
		GSTIN:     input.GSTIN,
		AddressID: addr.ID,
		PhoneID:   phone.ID,
	}
	if err := repos.Contacts().Create(ctx, c); err != nil {
		return nil, err
	}
	c.Address = addr
	c.Phone = phone
	return c, nil
}

func addressFromInput(in *domain.AddressInput) *domain.Address {
	return &domain.Address{
		Street:   in.Street,
		City:     in.City,
		Post:     in.Post,
		District: in.District,
		State:    in.State,
		Pincode:  in.Pincode,
		StCode:   in.StCode,
	}
}

func phoneFromInput(in *domain.PhoneInput) *domain.Phone {
	office := in.Office
	if office == nil {
		office = []string{}
	}
	return &domain.Phone{Office: office, Mobile: in.Mobile}
}

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func clampPage(offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return offset, limit
}
