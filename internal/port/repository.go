package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"billdesk/internal/domain"
)

// AddressRepository defines the contract for address persistence.
type AddressRepository interface {
	Create(ctx context.Context, addr *domain.Address) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Address, error)
	Update(ctx context.Context, addr *domain.Address) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// PhoneRepository defines the contract for phone persistence.
type PhoneRepository interface {
	Create(ctx context.Context, phone *domain.Phone) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Phone, error)
	Update(ctx context.Context, phone *domain.Phone) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ContactRepository persists suppliers and parties. Every method takes the
// contact kind, which selects the backing table. Read methods populate
// Address and Phone.
type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	GetByID(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (*domain.Contact, error)
	GetByGSTIN(ctx context.Context, kind domain.ContactKind, gstin string) (*domain.Contact, error)
	List(ctx context.Context, kind domain.ContactKind, offset, limit int) ([]domain.Contact, int, error)
	Search(ctx context.Context, kind domain.ContactKind, name, gstin string, limit int) ([]domain.Contact, error)
	Update(ctx context.Context, c *domain.Contact) error
	Delete(ctx context.Context, kind domain.ContactKind, id uuid.UUID) error
	CountBills(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (int, error)
}

// BillRepository persists bills and their items. Read methods return the bill
// with items in position order and its supplier and party populated.
type BillRepository interface {
	Create(ctx context.Context, bill *domain.Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	FindByNumberAndDate(ctx context.Context, number string, date time.Time) (*domain.Bill, error)
	List(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error)
	Update(ctx context.Context, bill *domain.Bill) error
	ReplaceItems(ctx context.Context, billID uuid.UUID, items []domain.BillItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines the contract for user persistence.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, offset, limit int) ([]domain.User, int, error)
	Update(ctx context.Context, user *domain.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SessionRepository defines the contract for login session persistence.
type SessionRepository interface {
	Create(ctx context.Context, session *domain.Session) error
	GetBySessionID(ctx context.Context, sessionID string) (*domain.Session, error)
	DeleteBySessionID(ctx context.Context, sessionID string) error
	DeleteByUser(ctx context.Context, userID uuid.UUID) error
}

// StatsRepository provides the read-only aggregates behind the dashboard.
type StatsRepository interface {
	Totals(ctx context.Context) (*domain.DashboardStats, error)
	Monthly(ctx context.Context, since time.Time) ([]domain.MonthlyTotal, error)
	TopContacts(ctx context.Context, kind domain.ContactKind, limit int) ([]domain.ContactTotal, error)
}
