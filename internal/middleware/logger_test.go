package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"billdesk/internal/middleware"
)

func loggedRouter(log *zap.Logger, status int) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(log))
	r.GET("/test", func(c *gin.Context) {
		middleware.Log(c).Info("inside handler")
		c.Status(status)
	})
	return r
}

func TestRequestID(t *testing.T) {
	r := loggedRouter(zap.NewNop(), http.StatusOK)

	t.Run("generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Len(t, w.Header().Get("X-Request-ID"), 36)
	})

	t.Run("propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set("X-Request-ID", "req-123")
		r.ServeHTTP(w, req)
		assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
	})
}

func TestLogger_LevelByStatus(t *testing.T) {
	tests := []struct {
		status int
		level  zapcore.Level
	}{
		{http.StatusOK, zapcore.InfoLevel},
		{http.StatusNotFound, zapcore.WarnLevel},
		{http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			core, logs := observer.New(zapcore.DebugLevel)
			r := loggedRouter(zap.New(core), tt.status)

			req := httptest.NewRequest(http.MethodGet, "/test", nil)
			req.Header.Set("X-Request-ID", "req-42")
			r.ServeHTTP(httptest.NewRecorder(), req)

			entries := logs.FilterMessage("request").All()
			require.Len(t, entries, 1)
			assert.Equal(t, tt.level, entries[0].Level)
			fields := entries[0].ContextMap()
			assert.Equal(t, "req-42", fields["request_id"])
			assert.EqualValues(t, tt.status, fields["status"])

			inner := logs.FilterMessage("inside handler").All()
			require.Len(t, inner, 1)
			assert.Equal(t, "req-42", inner[0].ContextMap()["request_id"])
		})
	}
}

func TestLog_FallsBackToGlobal(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Same(t, zap.L(), middleware.Log(c))
}
