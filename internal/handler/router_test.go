package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/handler"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/cache"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/nav"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/notify"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/vault"
)

// stubBackend fakes the MJ backend API surface the services consume.
type stubBackend struct {
	token      string
	profile    *domain.Profile
	tenantCfg  *domain.TenantConfig
	page       *domain.UserPage
	growth     []domain.GrowthPoint
	stats      *domain.UserStatistics
	balance    *domain.PowerPointBalance
	loginErr   error
	profileErr error
	tenantErr  error
}

func (s *stubBackend) Login(context.Context, *domain.LoginRequest) (*domain.LoginResult, error) {
	if s.loginErr != nil {
		return nil, s.loginErr
	}
	return &domain.LoginResult{Token: s.token}, nil
}

func (s *stubBackend) Profile(context.Context) (*domain.Profile, error) {
	return s.profile, s.profileErr
}

func (s *stubBackend) Logout(context.Context) error { return nil }

func (s *stubBackend) AdminPowerPoint(context.Context) (*domain.PowerPointBalance, error) {
	return s.balance, nil
}

func (s *stubBackend) TenantConfig(context.Context, string) (*domain.TenantConfig, error) {
	return s.tenantCfg, s.tenantErr
}

func (s *stubBackend) ListUsers(context.Context, *domain.UserQuery) (*domain.UserPage, error) {
	return s.page, nil
}

func (s *stubBackend) GetUser(context.Context, int64) (*domain.User, error) {
	return &domain.User{ID: 1, Username: "u"}, nil
}

func (s *stubBackend) CreateUser(context.Context, *domain.CreateUserRequest) (*domain.User, error) {
	return &domain.User{ID: 2, Username: "new"}, nil
}

func (s *stubBackend) UpdateUser(_ context.Context, req *domain.UpdateUserRequest) (*domain.User, error) {
	return &domain.User{ID: req.ID}, nil
}

func (s *stubBackend) DeleteUser(context.Context, int64) error { return nil }

func (s *stubBackend) UpdateUserStatus(context.Context, int64, int) error { return nil }

func (s *stubBackend) ResetUserPassword(context.Context, int64) (string, error) {
	return "fresh-pass", nil
}

func (s *stubBackend) AssignPowerPoint(context.Context, int64, int64) error { return nil }

func (s *stubBackend) UserGrowth(context.Context, *domain.GrowthQuery) ([]domain.GrowthPoint, error) {
	return s.growth, nil
}

func (s *stubBackend) UserStatistics(context.Context) (*domain.UserStatistics, error) {
	return s.stats, nil
}

func newTestRouter(t *testing.T, backend *stubBackend) http.Handler {
	t.Helper()
	logger := zap.NewNop()
	metrics := observability.NewMetrics()

	store, err := statestore.Open(":memory:")
	if err != nil {
		t.Fatalf("open state store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	feed := notify.NewFeed(logger)
	location := nav.New("/login")
	theme := service.NewThemeSheet()
	sess := service.NewSession(backend, store, feed, metrics, logger)
	tenant := service.NewTenantResolver(backend, store, location, feed, theme, metrics, logger)
	guard := service.NewGuard(sess, tenant, metrics, logger)
	users := service.NewUsers(backend, logger)
	dash := service.NewDashboard(
		backend, backend,
		cache.New[*domain.UserStatistics](time.Minute),
		cache.New[[]domain.GrowthPoint](time.Minute),
		metrics, logger,
	)

	return handler.NewRouter(handler.Deps{
		Session:   sess,
		Guard:     guard,
		Tenant:    tenant,
		Theme:     theme,
		Users:     users,
		Dashboard: dash,
		Vault:     vault.New(store, logger),
		Feed:      feed,
		Nav:       location,
		Metrics:   metrics,
		Logger:    logger,
	})
}

func doRequest(router http.Handler, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Code    int             `json:"code"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid envelope: %v\n%s", err, rec.Body.String())
	}
	return env
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	if rec := doRequest(router, http.MethodGet, "/healthz", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestReadyz(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	if rec := doRequest(router, http.MethodGet, "/readyz", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})
	if rec := doRequest(router, http.MethodGet, "/metrics", ""); rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestLoginRemembersCredentials(t *testing.T) {
	router := newTestRouter(t, &stubBackend{token: "tok"})

	rec := doRequest(router, http.MethodPost, "/api/auth/login",
		`{"username":"admin","password":"pw","remember":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d: %s", rec.Code, rec.Body.String())
	}
	env := decodeEnvelope(t, rec)
	if env.Code != 200 {
		t.Fatalf("envelope code = %d", env.Code)
	}

	rec = doRequest(router, http.MethodGet, "/api/credentials/remembered", "")
	env = decodeEnvelope(t, rec)
	var data struct {
		Remembered  bool               `json:"remembered"`
		Credentials domain.Credentials `json:"credentials"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if !data.Remembered || data.Credentials.Username != "admin" || data.Credentials.Password != "pw" {
		t.Fatalf("remembered credentials = %+v", data)
	}
}

func TestLoginValidation(t *testing.T) {
	router := newTestRouter(t, &stubBackend{token: "tok"})
	rec := doRequest(router, http.MethodPost, "/api/auth/login", `{"username":"admin"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestNavigateWithoutToken(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := doRequest(router, http.MethodPost, "/api/navigate", `{"path":"/user/list"}`)
	env := decodeEnvelope(t, rec)
	var d domain.Decision
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatal(err)
	}
	if d.Outcome != domain.OutcomeRedirectLogin || d.Location != "/login?redirect=/user/list" {
		t.Fatalf("decision = %+v", d)
	}
}

func TestNavigateFullFlow(t *testing.T) {
	backend := &stubBackend{
		token:     "tok",
		profile:   &domain.Profile{Username: "admin"},
		tenantCfg: &domain.TenantConfig{Modules: []string{"user", "dashboard"}},
	}
	router := newTestRouter(t, backend)

	// Tenant id rides in on the login navigation.
	doRequest(router, http.MethodPost, "/api/navigate", `{"path":"/login/MJ-10001"}`)
	doRequest(router, http.MethodPost, "/api/auth/login", `{"username":"admin","password":"pw"}`)

	rec := doRequest(router, http.MethodPost, "/api/navigate", `{"path":"/dashboard"}`)
	env := decodeEnvelope(t, rec)
	var d domain.Decision
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatal(err)
	}
	if !d.Proceeds() {
		t.Fatalf("decision = %+v, want proceed", d)
	}

	// System module is not enabled for this tenant.
	rec = doRequest(router, http.MethodPost, "/api/navigate", `{"path":"/system/settings"}`)
	env = decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &d); err != nil {
		t.Fatal(err)
	}
	if d.Outcome != domain.OutcomeRedirectNotFound {
		t.Fatalf("decision = %+v, want redirect_not_found", d)
	}
}

func TestListUsers(t *testing.T) {
	backend := &stubBackend{page: &domain.UserPage{
		Total: 1,
		List:  []domain.User{{ID: 1, Username: "u"}},
	}}
	router := newTestRouter(t, backend)

	rec := doRequest(router, http.MethodGet, "/api/users?keyword=u&page=2&pageSize=5", "")
	env := decodeEnvelope(t, rec)
	var page domain.UserPage
	if err := json.Unmarshal(env.Data, &page); err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || len(page.List) != 1 {
		t.Fatalf("page = %+v", page)
	}
}

func TestUpdateUserStatusValidation(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := doRequest(router, http.MethodPost, "/api/users/7/status", `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing status: code = %d, want 400", rec.Code)
	}
	rec = doRequest(router, http.MethodPost, "/api/users/abc/status", `{"userStatus":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad id: code = %d, want 400", rec.Code)
	}
	rec = doRequest(router, http.MethodPost, "/api/users/7/status", `{"userStatus":0}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("valid: code = %d, want 200", rec.Code)
	}
}

func TestResetUserPassword(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := doRequest(router, http.MethodPost, "/api/users/7/password/reset", "")
	env := decodeEnvelope(t, rec)
	var data map[string]string
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data["password"] != "fresh-pass" {
		t.Fatalf("password = %q", data["password"])
	}
}

func TestThemeCSS(t *testing.T) {
	router := newTestRouter(t, &stubBackend{})

	rec := doRequest(router, http.MethodGet, "/api/tenant/theme.css", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/css") {
		t.Fatalf("content type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "--el-color-primary") {
		t.Fatalf("css body missing variables: %s", rec.Body.String())
	}
}

func TestNotificationsDrain(t *testing.T) {
	backend := &stubBackend{tenantErr: context.DeadlineExceeded}
	router := newTestRouter(t, backend)

	// A failed resolve pushes a notification into the feed.
	doRequest(router, http.MethodPost, "/api/tenant/resolve", `{"tenantId":"MJ-10001"}`)

	rec := doRequest(router, http.MethodGet, "/api/notifications", "")
	env := decodeEnvelope(t, rec)
	var notes []notify.Notification
	if err := json.Unmarshal(env.Data, &notes); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 1 {
		t.Fatalf("notifications = %d, want 1", len(notes))
	}

	// Drained: a second poll is empty.
	rec = doRequest(router, http.MethodGet, "/api/notifications", "")
	env = decodeEnvelope(t, rec)
	if err := json.Unmarshal(env.Data, &notes); err != nil {
		t.Fatal(err)
	}
	if len(notes) != 0 {
		t.Fatalf("second drain = %d, want 0", len(notes))
	}
}

func TestDashboardOverviewEndpoint(t *testing.T) {
	backend := &stubBackend{
		stats:  &domain.UserStatistics{UserCount: 10},
		growth: []domain.GrowthPoint{{StatDateDesc: "08-27"}},
	}
	router := newTestRouter(t, backend)

	rec := doRequest(router, http.MethodGet, "/api/dashboard/overview?statDimension=daily", "")
	env := decodeEnvelope(t, rec)
	var overview domain.DashboardOverview
	if err := json.Unmarshal(env.Data, &overview); err != nil {
		t.Fatal(err)
	}
	if overview.Statistics == nil || overview.Statistics.UserCount != 10 {
		t.Fatalf("overview = %+v", overview)
	}
}
