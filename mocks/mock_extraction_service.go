package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"billdesk/internal/domain"
	"billdesk/internal/service"
)

// MockExtractionService is a mock implementation of service.ExtractionService.
type MockExtractionService struct {
	mock.Mock
}

func (m *MockExtractionService) Extract(ctx context.Context, imagePath string) (*domain.BillData, error) {
	args := m.Called(ctx, imagePath)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BillData), args.Error(1)
}

func (m *MockExtractionService) ExtractUpload(ctx context.Context, data []byte) (*service.ExtractResult, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.ExtractResult), args.Error(1)
}
