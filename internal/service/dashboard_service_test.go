package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billdesk/internal/domain"
	"billdesk/internal/service"
	"billdesk/mocks"
)

func TestDashboardService_Stats(t *testing.T) {
	stats := new(mocks.MockStatsRepo)
	svc := service.NewDashboardService(stats)

	current := time.Now().UTC().Format("2006-01")
	stats.On("Totals", mock.Anything).Return(&domain.DashboardStats{
		TotalBills:  3,
		TotalAmount: decimal.NewFromInt(3000),
		PaidAmount:  decimal.NewFromInt(1000),
	}, nil)
	stats.On("Monthly", mock.Anything, mock.MatchedBy(func(since time.Time) bool {
		return since.Day() == 1 && since.Before(time.Now())
	})).Return([]domain.MonthlyTotal{
		{Month: current, Paid: decimal.NewFromInt(1000), Unpaid: decimal.NewFromInt(2000)},
	}, nil)
	stats.On("TopContacts", mock.Anything, domain.KindSupplier, 5).
		Return([]domain.ContactTotal{{Name: "Acme", Bills: 3, Amount: decimal.NewFromInt(3000)}}, nil)
	stats.On("TopContacts", mock.Anything, domain.KindParty, 5).Return(nil, nil)

	out, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, out.TotalBills)
	require.Len(t, out.Monthly, 6)
	assert.Equal(t, current, out.Monthly[5].Month)
	assert.True(t, out.Monthly[5].Unpaid.Equal(decimal.NewFromInt(2000)))
	assert.True(t, out.Monthly[0].Paid.IsZero())
	assert.Len(t, out.TopSuppliers, 1)
	assert.NotNil(t, out.TopParties)
	assert.Empty(t, out.TopParties)
	stats.AssertExpectations(t)
}

func TestDashboardService_Stats_TotalsError(t *testing.T) {
	stats := new(mocks.MockStatsRepo)
	stats.On("Totals", mock.Anything).Return(nil, domain.ErrTimeout)

	_, err := service.NewDashboardService(stats).Stats(context.Background())
	assert.ErrorIs(t, err, domain.ErrTimeout)
}
