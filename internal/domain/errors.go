package domain

import "errors"

var (
	ErrNotFound             = errors.New("resource not found")
	ErrSupplierNotFound     = errors.New("supplier with the provided ID does not exist")
	ErrPartyNotFound        = errors.New("party with the provided ID does not exist")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidPaymentStatus = errors.New(`payment status must be either "paid" or "unpaid"`)
	ErrMissingContact       = errors.New("either an existing id or new details must be provided")
	ErrDuplicateBill        = errors.New("bill with the same bill number and date already exists")
	ErrDuplicateGSTIN       = errors.New("a record with the same GSTIN already exists")
	ErrDuplicateEmail       = errors.New("email already registered")
	ErrConflict             = errors.New("a unique constraint was violated")
	ErrContactInUse         = errors.New("cannot delete a record with associated bills")
	ErrUnsupportedImage     = errors.New("unsupported image type")
	ErrImageTooLarge        = errors.New("image exceeds maximum allowed size")
	ErrExtractionFailed     = errors.New("failed to process bill image")
	ErrParseFailed          = errors.New("failed to extract structured data from bill image")
	ErrTimeout              = errors.New("the store did not respond in time")
)

// ContactNotFound returns the not-found error for the given contact kind.
func ContactNotFound(kind ContactKind) error {
	if kind == KindParty {
		return ErrPartyNotFound
	}
	return ErrSupplierNotFound
}
