package domain

import "strings"

// PaymentStatus is the settlement state of a bill.
type PaymentStatus string

const (
	PaymentPaid   PaymentStatus = "paid"
	PaymentUnpaid PaymentStatus = "unpaid"
)

// ParsePaymentStatus normalises s and reports whether it is one of the allowed values.
func ParsePaymentStatus(s string) (PaymentStatus, bool) {
	switch PaymentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case PaymentPaid:
		return PaymentPaid, true
	case PaymentUnpaid:
		return PaymentUnpaid, true
	default:
		return "", false
	}
}

// UserRole defines what a signed-in user may do.
type UserRole string

const (
	RoleAdmin UserRole = "ADMIN"
	RoleStaff UserRole = "STAFF"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleStaff
}

// ContactKind distinguishes the two contact tables.
type ContactKind string

const (
	KindSupplier ContactKind = "supplier"
	KindParty    ContactKind = "party"
)

// Table returns the table that stores contacts of this kind.
func (k ContactKind) Table() string {
	if k == KindParty {
		return "parties"
	}
	return "suppliers"
}

// BillColumn returns the bills column referencing contacts of this kind.
func (k ContactKind) BillColumn() string {
	if k == KindParty {
		return "party_id"
	}
	return "supplier_id"
}

// Label is the capitalised name used in user-facing messages.
func (k ContactKind) Label() string {
	if k == KindParty {
		return "Party"
	}
	return "Supplier"
}

// ImageType is an accepted bill image format.
type ImageType string

const (
	ImageJPEG ImageType = "jpg"
	ImagePNG  ImageType = "png"
	ImageWEBP ImageType = "webp"
)

// AllowedImageTypes maps detected MIME types to ImageType.
var AllowedImageTypes = map[string]ImageType{
	"image/jpeg": ImageJPEG,
	"image/png":  ImagePNG,
	"image/webp": ImageWEBP,
}
