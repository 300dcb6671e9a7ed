package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"billdesk/internal/domain"
)

// MockContactService is a mock implementation of service.ContactService.
type MockContactService struct {
	mock.Mock
}

func (m *MockContactService) Create(ctx context.Context, kind domain.ContactKind, input *domain.NewContact) (*domain.Contact, error) {
	args := m.Called(ctx, kind, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactService) List(ctx context.Context, kind domain.ContactKind, offset, limit int) ([]domain.Contact, int, error) {
	args := m.Called(ctx, kind, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Contact), args.Int(1), args.Error(2)
}

func (m *MockContactService) GetByID(ctx context.Context, kind domain.ContactKind, id uuid.UUID) (*domain.Contact, error) {
	args := m.Called(ctx, kind, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactService) Update(ctx context.Context, kind domain.ContactKind, id uuid.UUID, input *domain.ContactUpdate) (*domain.Contact, error) {
	args := m.Called(ctx, kind, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *MockContactService) Delete(ctx context.Context, kind domain.ContactKind, id uuid.UUID) error {
	args := m.Called(ctx, kind, id)
	return args.Error(0)
}

func (m *MockContactService) Match(ctx context.Context, kind domain.ContactKind, name, gstin string) ([]domain.Contact, error) {
	args := m.Called(ctx, kind, name, gstin)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *MockContactService) MatchBill(ctx context.Context, data *domain.BillData) (*domain.MatchCandidates, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MatchCandidates), args.Error(1)
}
