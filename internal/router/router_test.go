package router_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	_ "billdesk/docs"
	"billdesk/internal/config"
	"billdesk/internal/domain"
	"billdesk/internal/handler"
	"billdesk/internal/router"
	"billdesk/mocks"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type okPinger struct{}

func (okPinger) PingContext(context.Context) error { return nil }

type fixture struct {
	engine   *gin.Engine
	auth     *mocks.MockAuthService
	bills    *mocks.MockBillService
	contacts *mocks.MockContactService
	users    *mocks.MockUserService
}

func newFixture(env string) *fixture {
	cfg := &config.Config{
		Server:  config.ServerConfig{Environment: env},
		Session: config.SessionConfig{TTL: time.Hour, CookieName: "billdesk_session"},
	}
	f := &fixture{
		auth:     new(mocks.MockAuthService),
		bills:    new(mocks.MockBillService),
		contacts: new(mocks.MockContactService),
		users:    new(mocks.MockUserService),
	}
	extraction := new(mocks.MockExtractionService)
	h := router.Handlers{
		Auth:      handler.NewAuthHandler(f.auth, f.users, cfg.Session),
		User:      handler.NewUserHandler(f.users),
		Bill:      handler.NewBillHandler(f.bills, f.contacts, extraction, 1<<20),
		Supplier:  handler.NewContactHandler(domain.KindSupplier, f.contacts, f.bills),
		Party:     handler.NewContactHandler(domain.KindParty, f.contacts, f.bills),
		Dashboard: handler.NewDashboardHandler(new(mocks.MockDashboardService)),
		Health:    handler.NewHealthHandler(okPinger{}),
	}
	f.engine = router.Setup(cfg, zap.NewNop(), f.auth, h)
	return f
}

func (f *fixture) signIn(role domain.UserRole) {
	f.auth.On("ResolveSession", mock.Anything, "token").Return(&domain.User{ID: uuid.New(), Role: role}, nil)
}

func (f *fixture) do(method, path string, signedIn bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if signedIn {
		req.AddCookie(&http.Cookie{Name: "billdesk_session", Value: "token"})
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

func TestSetup_PublicRoutes(t *testing.T) {
	f := newFixture("development")

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/healthz", false).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/readyz", false).Code)
	assert.NotEmpty(t, f.do(http.MethodGet, "/healthz", false).Header().Get("X-Request-ID"))
}

func TestSetup_ProtectedRoutesNeedSession(t *testing.T) {
	f := newFixture("development")

	for _, path := range []string{"/api/v1/bill", "/api/v1/supplier", "/api/v1/party", "/api/v1/dashboard/stats", "/api/v1/auth/me"} {
		w := f.do(http.MethodGet, path, false)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestSetup_ContactRoutesByKind(t *testing.T) {
	f := newFixture("development")
	f.signIn(domain.RoleStaff)
	f.contacts.On("List", mock.Anything, domain.KindSupplier, 0, 20).Return([]domain.Contact{}, 0, nil)
	f.contacts.On("List", mock.Anything, domain.KindParty, 0, 20).Return([]domain.Contact{}, 0, nil)

	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/supplier", true).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/v1/party", true).Code)
	f.contacts.AssertExpectations(t)
}

func TestSetup_AdminOnlyRoutes(t *testing.T) {
	id := uuid.New().String()
	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/user"},
		{http.MethodDelete, "/api/v1/supplier/" + id},
		{http.MethodDelete, "/api/v1/party/" + id},
		{http.MethodPost, "/api/v1/auth/register"},
	}

	f := newFixture("development")
	f.signIn(domain.RoleStaff)
	for _, p := range paths {
		w := f.do(p.method, p.path, true)
		assert.Equal(t, http.StatusForbidden, w.Code, p.path)
	}
}

func TestSetup_StaffCanDeleteBills(t *testing.T) {
	f := newFixture("development")
	f.signIn(domain.RoleStaff)
	id := uuid.New()
	f.bills.On("Delete", mock.Anything, id).Return(nil)

	w := f.do(http.MethodDelete, "/api/v1/bill/"+id.String(), true)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSetup_SwaggerOnlyOutsideProduction(t *testing.T) {
	dev := newFixture("development").do(http.MethodGet, "/swagger/index.html", false)
	assert.Equal(t, http.StatusOK, dev.Code)
	assert.True(t, strings.Contains(dev.Body.String(), "swagger"))

	prod := newFixture("production").do(http.MethodGet, "/swagger/index.html", false)
	assert.Equal(t, http.StatusNotFound, prod.Code)
}

func TestSetup_SwaggerDocumentsEveryAPIRoute(t *testing.T) {
	f := newFixture("development")
	w := f.do(http.MethodGet, "/swagger/doc.json", false)
	require.Equal(t, http.StatusOK, w.Code)

	var doc struct {
		BasePath    string                                `json:"basePath"`
		Paths       map[string]map[string]json.RawMessage `json:"paths"`
		Definitions map[string]json.RawMessage            `json:"definitions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
	assert.Equal(t, "/api/v1", doc.BasePath)

	documented := map[string]bool{}
	for path, ops := range doc.Paths {
		for method := range ops {
			documented[strings.ToUpper(method)+" "+path] = true
		}
	}

	for _, rt := range f.engine.Routes() {
		if !strings.HasPrefix(rt.Path, "/api/v1/") {
			continue
		}
		path := strings.TrimPrefix(rt.Path, "/api/v1")
		path = strings.ReplaceAll(path, ":id", "{id}")
		assert.True(t, documented[rt.Method+" "+path], "undocumented route %s %s", rt.Method, rt.Path)
	}

	for _, name := range []string{"domain.Bill", "domain.Contact", "domain.User", "handler.SaveBillRequest", "handler.ErrorResponseBody"} {
		assert.Contains(t, doc.Definitions, name)
	}
}
