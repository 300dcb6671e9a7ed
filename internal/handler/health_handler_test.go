package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"billdesk/internal/domain"
	"billdesk/internal/handler"
	"billdesk/mocks"
)

type fakePinger struct{ err error }

func (p fakePinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name   string
		ping   error
		status int
		body   string
	}{
		{"ready", nil, http.StatusOK, "ok"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := handler.NewHealthHandler(fakePinger{err: tt.ping})

			c, w := newContext(http.MethodGet, "/readyz", nil)
			h.Readiness(c)

			assert.Equal(t, tt.status, w.Code)
			var body map[string]string
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.body, body["status"])
		})
	}

	t.Run("liveness ignores the database", func(t *testing.T) {
		h := handler.NewHealthHandler(fakePinger{err: errors.New("down")})
		c, w := newContext(http.MethodGet, "/healthz", nil)
		h.Liveness(c)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestDashboardHandler_Stats(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	svc.On("Stats", mock.Anything).Return(&domain.DashboardStats{
		TotalBills:  3,
		TotalAmount: decimal.NewFromInt(4500),
		Monthly:     []domain.MonthlyTotal{},
	}, nil)
	h := handler.NewDashboardHandler(svc)

	c, w := newContext(http.MethodGet, "/api/v1/dashboard/stats", nil)
	h.Stats(c)

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "Dashboard statistics", resp.Message)
	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 3, data["total_bills"])
}

func TestDashboardHandler_Stats_Error(t *testing.T) {
	svc := new(mocks.MockDashboardService)
	svc.On("Stats", mock.Anything).Return(nil, domain.ErrTimeout)
	h := handler.NewDashboardHandler(svc)

	c, w := newContext(http.MethodGet, "/api/v1/dashboard/stats", nil)
	h.Stats(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
