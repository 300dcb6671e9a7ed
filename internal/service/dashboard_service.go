package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"billdesk/internal/domain"
	"billdesk/internal/port"
)

const (
	dashboardMonths = 6
	dashboardTopN   = 5
)

// DashboardService provides the aggregate numbers behind the dashboard.
type DashboardService interface {
	Stats(ctx context.Context) (*domain.DashboardStats, error)
}

type dashboardService struct {
	stats port.StatsRepository
	now   func() time.Time
}

// NewDashboardService creates a new DashboardService implementation.
func NewDashboardService(stats port.StatsRepository) DashboardService {
	return &dashboardService{stats: stats, now: time.Now}
}

func (s *dashboardService) Stats(ctx context.Context) (*domain.DashboardStats, error) {
	out, err := s.stats.Totals(ctx)
	if err != nil {
		return nil, err
	}

	months := lastMonths(s.now().UTC(), dashboardMonths)
	since, _ := time.Parse("2006-01", months[0])
	monthly, err := s.stats.Monthly(ctx, since)
	if err != nil {
		return nil, err
	}
	out.Monthly = fillMonths(months, monthly)

	if out.TopSuppliers, err = s.stats.TopContacts(ctx, domain.KindSupplier, dashboardTopN); err != nil {
		return nil, err
	}
	if out.TopParties, err = s.stats.TopContacts(ctx, domain.KindParty, dashboardTopN); err != nil {
		return nil, err
	}
	if out.TopSuppliers == nil {
		out.TopSuppliers = []domain.ContactTotal{}
	}
	if out.TopParties == nil {
		out.TopParties = []domain.ContactTotal{}
	}
	return out, nil
}

// lastMonths returns n "YYYY-MM" labels ending with the month of now, oldest first.
func lastMonths(now time.Time, n int) []string {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	labels := make([]string, n)
	for i := 0; i < n; i++ {
		labels[i] = first.AddDate(0, i-n+1, 0).Format("2006-01")
	}
	return labels
}

// fillMonths returns one entry per label, with zero sums for months without bills.
func fillMonths(labels []string, rows []domain.MonthlyTotal) []domain.MonthlyTotal {
	byMonth := make(map[string]domain.MonthlyTotal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r
	}
	out := make([]domain.MonthlyTotal, len(labels))
	for i, m := range labels {
		if r, ok := byMonth[m]; ok {
			out[i] = r
			continue
		}
		out[i] = domain.MonthlyTotal{Month: m, Paid: decimal.Zero, Unpaid: decimal.Zero}
	}
	return out
}
