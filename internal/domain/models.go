package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Address is the postal address owned by exactly one supplier or party.
type Address struct {
	ID       uuid.UUID `db:"id" json:"id"`
	Street   *string   `db:"street" json:"street"`
	City     *string   `db:"city" json:"city"`
	Post     *string   `db:"post" json:"post"`
	District *string   `db:"district" json:"district"`
	State    string    `db:"state" json:"state"`
	Pincode  string    `db:"pincode" json:"pincode"`
	StCode   *string   `db:"st_code" json:"st_code"`
}

// Phone holds the office and mobile numbers owned by one supplier or party.
type Phone struct {
	ID     uuid.UUID      `db:"id" json:"id"`
	Office pq.StringArray `db:"office" json:"office"`
	Mobile pq.StringArray `db:"mobile" json:"mobile"`
}

// Contact is a supplier or a party. Both share the same shape and lifecycle;
// Kind decides which table the row lives in.
type Contact struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	Kind      ContactKind `db:"-" json:"-"`
	Name      string      `db:"name" json:"name"`
	GSTIN     string      `db:"gstin" json:"gstin"`
	AddressID uuid.UUID   `db:"address_id" json:"addressId"`
	PhoneID   uuid.UUID   `db:"phone_id" json:"phoneId"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt time.Time   `db:"updated_at" json:"updated_at"`

	Address   *Address `db:"-" json:"address,omitempty"`
	Phone     *Phone   `db:"-" json:"phone,omitempty"`
	BillCount *int     `db:"-" json:"bill_count,omitempty"`
}

// Bill is an invoice linking one supplier, one party and its line items.
type Bill struct {
	ID                uuid.UUID       `db:"id" json:"id"`
	BillNumber        string          `db:"bill_number" json:"bill_number"`
	BillDate          time.Time       `db:"bill_date" json:"bill_date"`
	Location          string          `db:"location" json:"location"`
	TotalBilledAmount decimal.Decimal `db:"total_billed_amount" json:"total_billed_amount"`
	PaymentStatus     PaymentStatus   `db:"payment_status" json:"payment_status"`
	SupplierID        uuid.UUID       `db:"supplier_id" json:"supplierId"`
	PartyID           uuid.UUID       `db:"party_id" json:"partyId"`
	CreatedAt         time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at" json:"updated_at"`

	Items    []BillItem `db:"-" json:"items"`
	Supplier *Contact   `db:"-" json:"supplier,omitempty"`
	Party    *Contact   `db:"-" json:"party,omitempty"`
}

// BillItem is one line of a bill. Position preserves the submitted order.
type BillItem struct {
	ID       uuid.UUID       `db:"id" json:"id"`
	BillID   uuid.UUID       `db:"bill_id" json:"billId"`
	Position int             `db:"position" json:"-"`
	Name     string          `db:"name" json:"name"`
	HSN      string          `db:"hsn" json:"hsn"`
	Quantity decimal.Decimal `db:"quantity" json:"quantity"`
	Rate     decimal.Decimal `db:"rate" json:"rate"`
	Amount   decimal.Decimal `db:"amount" json:"amount"`
}

// User is a staff member who can sign in.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Session binds an opaque cookie token to a user until Expires.
type Session struct {
	ID        uuid.UUID `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"-"`
	UserID    uuid.UUID `db:"user_id" json:"userId"`
	Expires   time.Time `db:"expires" json:"expires"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Expired reports whether the session is no longer valid at t.
func (s *Session) Expired(t time.Time) bool {
	return !t.Before(s.Expires)
}
