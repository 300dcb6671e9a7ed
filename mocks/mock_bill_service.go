package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billdesk/internal/domain"
	"billdesk/internal/service"
)

// MockBillService is a mock implementation of service.BillService.
type MockBillService struct {
	mock.Mock
}

func (m *MockBillService) Save(ctx context.Context, sub *domain.BillSubmission) (*domain.Bill, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillService) List(ctx context.Context, filter domain.BillFilter) ([]domain.Bill, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Bill), args.Int(1), args.Error(2)
}

func (m *MockBillService) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillService) Update(ctx context.Context, id uuid.UUID, upd *domain.BillUpdate) (*domain.Bill, error) {
	args := m.Called(ctx, id, upd)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Bill), args.Error(1)
}

func (m *MockBillService) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBillService) ListByContact(ctx context.Context, kind domain.ContactKind, id uuid.UUID, offset, limit int) ([]domain.Bill, int, error) {
	args := m.Called(ctx, kind, id, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Bill), args.Int(1), args.Error(2)
}

// Export writes the first return value, when it is a []byte, to w.
func (m *MockBillService) Export(ctx context.Context, filter domain.BillFilter, format service.ExportFormat, w io.Writer) error {
	args := m.Called(ctx, filter, format, w)
	if body, ok := args.Get(0).([]byte); ok {
		if _, err := w.Write(body); err != nil {
			return err
		}
	}
	return args.Error(1)
}
