package port

import "context"

// TxManager runs a unit of work in a single database transaction.
// If fn returns an error or panics the transaction is rolled back.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos RepositoryFactory) error) error
}

// RepositoryFactory hands out repositories bound to one transaction so every
// statement inside WithinTx shares the same connection and snapshot.
type RepositoryFactory interface {
	Addresses() AddressRepository
	Phones() PhoneRepository
	Contacts() ContactRepository
	Bills() BillRepository
}
