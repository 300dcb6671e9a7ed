package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BillData is the structured record an extraction provider returns for one
// bill image. Fields the model could not read are left empty.
type BillData struct {
	BillNumber        string           `json:"bill_number"`
	BillDate          string           `json:"bill_date"`
	Location          string           `json:"location"`
	TotalBilledAmount *decimal.Decimal `json:"total_billed_amount"`
	Supplier          *ExtractedParty  `json:"supplier"`
	Party             *ExtractedParty  `json:"party"`
	Items             []ExtractedItem  `json:"items"`
}

// ExtractedParty is a supplier or party as read off a bill image.
type ExtractedParty struct {
	Name    string           `json:"name"`
	GSTIN   string           `json:"gstin"`
	Address ExtractedAddress `json:"address"`
	Phone   ExtractedPhone   `json:"phone"`
}

type ExtractedAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type ExtractedPhone struct {
	Office []string `json:"office"`
	Mobile []string `json:"mobile"`
}

type ExtractedItem struct {
	Name     string           `json:"name"`
	HSN      string           `json:"hsn"`
	Quantity *decimal.Decimal `json:"quantity"`
	Rate     *decimal.Decimal `json:"rate"`
	Amount   *decimal.Decimal `json:"amount"`
}

// BillSubmission is a validated bill ready for the save pipeline.
type BillSubmission struct {
	BillNumber        string
	BillDate          time.Time
	Location          string
	TotalBilledAmount decimal.Decimal
	PaymentStatus     PaymentStatus
	SupplierID        *uuid.UUID
	NewSupplier       *NewContact
	PartyID           *uuid.UUID
	NewParty          *NewContact
	Items             []ItemInput
}

// ContactRef returns the existing id or new-contact details for kind.
func (s *BillSubmission) ContactRef(kind ContactKind) (*uuid.UUID, *NewContact) {
	if kind == KindParty {
		return s.PartyID, s.NewParty
	}
	return s.SupplierID, s.NewSupplier
}

// NewContact carries everything needed to create a supplier or party.
type NewContact struct {
	Name    string
	GSTIN   string
	Address AddressInput
	Phone   PhoneInput
}

type AddressInput struct {
	Street   *string
	City     *string
	Post     *string
	District *string
	State    string
	Pincode  string
	StCode   *string
}

type PhoneInput struct {
	Office []string
	Mobile []string
}

type ItemInput struct {
	Name     string
	HSN      string
	Quantity decimal.Decimal
	Rate     decimal.Decimal
	Amount   decimal.Decimal
}

// BillUpdate is a validated partial update of a bill. Nil fields are left
// unchanged; a non-nil Items replaces every line item.
type BillUpdate struct {
	BillNumber        *string
	BillDate          *time.Time
	Location          *string
	TotalBilledAmount *decimal.Decimal
	PaymentStatus     *PaymentStatus
	SupplierID        *uuid.UUID
	PartyID           *uuid.UUID
	Items             []ItemInput
}

// ContactUpdate is a validated partial update of a supplier or party.
type ContactUpdate struct {
	Name    *string
	GSTIN   *string
	Address *AddressInput
	Phone   *PhoneInput
}

// BillFilter narrows bill listings.
type BillFilter struct {
	Query         string
	PaymentStatus PaymentStatus
	SupplierID    *uuid.UUID
	PartyID       *uuid.UUID
	From          *time.Time
	To            *time.Time
	Offset        int
	Limit         int
}

// MatchCandidates groups matcher results for one extracted bill.
type MatchCandidates struct {
	Suppliers []Contact `json:"suppliers"`
	Parties   []Contact `json:"parties"`
}

// DashboardStats is the aggregate view rendered by the dashboard.
type DashboardStats struct {
	TotalBills    int             `json:"total_bills" db:"total_bills"`
	TotalAmount   decimal.Decimal `json:"total_amount" db:"total_amount"`
	PaidAmount    decimal.Decimal `json:"paid_amount" db:"paid_amount"`
	UnpaidAmount  decimal.Decimal `json:"unpaid_amount" db:"unpaid_amount"`
	SupplierCount int             `json:"supplier_count" db:"supplier_count"`
	PartyCount    int             `json:"party_count" db:"party_count"`
	Monthly       []MonthlyTotal  `json:"monthly"`
	TopSuppliers  []ContactTotal  `json:"top_suppliers"`
	TopParties    []ContactTotal  `json:"top_parties"`
}

type MonthlyTotal struct {
	Month  string          `json:"month" db:"month"`
	Paid   decimal.Decimal `json:"paid" db:"paid"`
	Unpaid decimal.Decimal `json:"unpaid" db:"unpaid"`
}

type ContactTotal struct {
	ID     uuid.UUID       `json:"id" db:"id"`
	Name   string          `json:"name" db:"name"`
	Bills  int             `json:"bills" db:"bills"`
	Amount decimal.Decimal `json:"amount" db:"amount"`
}
