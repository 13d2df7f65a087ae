package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/clientdesk/portal/internal/core/domain"
	"github.com/clientdesk/portal/internal/core/service"
	"github.com/clientdesk/portal/internal/infrastructure/db/postgres"
	"github.com/clientdesk/portal/internal/infrastructure/kv"
	"github.com/clientdesk/portal/internal/infrastructure/queue"
)

const testSecret = "router-secret"

type testServer struct {
	e     *echo.Echo
	admin string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	sub := kv.NewMemory()
	keys := kv.NewKeys("")
	if _, err := kv.NewSeeder(sub, keys, kv.BootstrapAdmin{Name: "Admin", Email: "admin@example.com"}, zerolog.Nop()).EnsureSeeded(ctx); err != nil {
		t.Fatalf("seed: %v", err)
	}
	store := service.NewStore(service.Collections{
		Users:         kv.NewCollection[domain.User](sub, keys.Users),
		Clients:       kv.NewCollection[domain.Client](sub, keys.Clients),
		Projects:      kv.NewCollection[domain.Project](sub, keys.Projects),
		Resources:     kv.NewCollection[domain.Resource](sub, keys.Resources),
		Activities:    kv.NewCollection[domain.Activity](sub, keys.Activities),
		Notifications: kv.NewCollection[domain.Notification](sub, keys.Notifications),
	}, zerolog.Nop())
	admin, err := store.Users.GetByEmail(ctx, "admin@example.com")
	if err != nil {
		t.Fatalf("load admin: %v", err)
	}

	gw := postgres.Open(ctx, postgres.Config{}, zerolog.Nop())
	reg := prometheus.NewRegistry()

	data := postgres.NewDataService(gw)
	audit := queue.NewDispatcher(1, data, zerolog.Nop())
	audit.Start(context.Background())
	t.Cleanup(audit.Close)

	e := NewRouter(Deps{
		Store:      store,
		Portal:     data,
		Audit:      audit,
		Substrate:  sub,
		Database:   gw,
		JWTSecret:  testSecret,
		Log:        zerolog.Nop(),
		Registerer: reg,
		Gatherer:   reg,
	})
	return &testServer{e: e, admin: admin.ID}
}

func token(t *testing.T, sub, role, clientID string) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":       sub,
		"role":      role,
		"client_id": clientID,
		"exp":       time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return signed
}

func (s *testServer) do(method, path, bearer, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if bearer != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PublicEndpoints(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodGet, "/health", "", ""); rec.Code != http.StatusOK {
		t.Fatalf("health: expected 200, got %d", rec.Code)
	}

	rec := s.do(http.MethodGet, "/health/ready", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"degraded"`) {
		t.Fatalf("ready: expected 200 degraded without a database, got %d %s", rec.Code, rec.Body.String())
	}

	if rec := s.do(http.MethodGet, "/swagger/doc.json", "", ""); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Client Desk API") {
		t.Fatalf("swagger: expected the API description, got %d", rec.Code)
	}

	s.do(http.MethodGet, "/health", "", "")
	rec = s.do(http.MethodGet, "/metrics", "", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "requests_total") {
		t.Fatalf("metrics: expected request counters, got %d", rec.Code)
	}
}

func TestRouter_AuthAndRoles(t *testing.T) {
	s := newTestServer(t)

	if rec := s.do(http.MethodGet, "/v1/users", "", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without a token, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/users", token(t, "u-1", "client", "c-1"), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for a client on the back office, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/portal/client", token(t, s.admin, "admin", ""), ""); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for staff on the portal, got %d", rec.Code)
	}
	if rec := s.do(http.MethodGet, "/v1/users", token(t, s.admin, "manager", ""), ""); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for a manager, got %d", rec.Code)
	}
}

func TestRouter_BackOfficeFlow(t *testing.T) {
	s := newTestServer(t)
	admin := token(t, s.admin, "admin", "")

	rec := s.do(http.MethodPost, "/v1/clients", admin, `{"name":"Ana","company_name":"Acme","email":"ana@acme.test"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client: expected 201, got %d %s", rec.Code, rec.Body.String())
	}

	rec = s.do(http.MethodPost, "/v1/clients", admin, `{"name":"Ana","company_name":"Acme","email":"ANA@acme.test"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate client: expected 409, got %d", rec.Code)
	}

	rec = s.do(http.MethodPost, "/v1/projects", admin, `{"name":"Site","client_id":"ghost"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("dangling reference: expected 422, got %d", rec.Code)
	}

	rec = s.do(http.MethodGet, "/v1/stats/clients", admin, "")
	var st domain.ClientStats
	if err := json.Unmarshal(rec.Body.Bytes(), &st); err != nil {
		t.Fatalf("stats json: %v", err)
	}
	if st != (domain.ClientStats{Total: 1, Onboarding: 1}) {
		t.Fatalf("expected {1,0,0,1}, got %+v", st)
	}

	rec = s.do(http.MethodGet, "/v1/activities", admin, "")
	var trail []domain.Activity
	_ = json.Unmarshal(rec.Body.Bytes(), &trail)
	if len(trail) != 1 || trail[0].Action != "create_client" {
		t.Fatalf("expected exactly one create_client entry, got %+v", trail)
	}
}

func TestRouter_PortalUnavailableWithoutDatabase(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodGet, "/v1/portal/projects", token(t, "u-ana", "client", "c-acme"), "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), domain.ErrUnavailable.Error()) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}

	rec = s.do(http.MethodGet, "/v1/remote/clients", token(t, s.admin, "admin", ""), "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 on the back-office mirror, got %d", rec.Code)
	}
}
