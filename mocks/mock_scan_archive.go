package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"billdesk/internal/port"
)

// MockScanArchive is a mock implementation of port.ScanArchive.
type MockScanArchive struct {
	mock.Mock
}

func (m *MockScanArchive) Put(ctx context.Context, obj port.ScanObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *MockScanArchive) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, key, expiry)
	return args.String(0), args.Error(1)
}
