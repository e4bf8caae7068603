package service_test

import (
	"context"
	"errors"
	"sync"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// fakeStore is an in-memory StateStore.
type fakeStore struct {
	mu   sync.Mutex
	data map[string]string
	err  error
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string]string{}}
}

func (s *fakeStore) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return "", false, s.err
	}
	v, ok := s.data[key]
	return v, ok, nil
}

func (s *fakeStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.data[key] = value
	return nil
}

func (s *fakeStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	delete(s.data, key)
	return nil
}

func (s *fakeStore) get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	return v, ok
}

func (s *fakeStore) set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
}

// fakeAuthAPI scripts the auth endpoints per test.
type fakeAuthAPI struct {
	loginResult  *domain.LoginResult
	loginErr     error
	profile      *domain.Profile
	profileErr   error
	logoutErr    error
	balance      *domain.PowerPointBalance
	balanceErr   error
	profileCalls int
	logoutCalls  int

	// onProfile, when set, runs before the scripted profile is returned. It
	// lets tests reset the session while the fetch is "in flight".
	onProfile func()
}

func (a *fakeAuthAPI) Login(context.Context, *domain.LoginRequest) (*domain.LoginResult, error) {
	return a.loginResult, a.loginErr
}

func (a *fakeAuthAPI) Profile(context.Context) (*domain.Profile, error) {
	a.profileCalls++
	if a.onProfile != nil {
		a.onProfile()
	}
	return a.profile, a.profileErr
}

func (a *fakeAuthAPI) Logout(context.Context) error {
	a.logoutCalls++
	return a.logoutErr
}

func (a *fakeAuthAPI) AdminPowerPoint(context.Context) (*domain.PowerPointBalance, error) {
	return a.balance, a.balanceErr
}

// fakeTenantAPI counts fetches and can gate them for concurrency tests.
type fakeTenantAPI struct {
	mu     sync.Mutex
	config *domain.TenantConfig
	err    error
	calls  int

	// block, when non-nil, is closed by the test to release an in-flight
	// fetch; entered signals that a fetch has started.
	block   chan struct{}
	entered chan struct{}
}

func (a *fakeTenantAPI) TenantConfig(_ context.Context, _ string) (*domain.TenantConfig, error) {
	a.mu.Lock()
	a.calls++
	block := a.block
	a.mu.Unlock()
	if a.entered != nil {
		select {
		case a.entered <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}
	return a.config, a.err
}

func (a *fakeTenantAPI) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

// fakeNav is a scriptable Navigator.
type fakeNav struct {
	mu       sync.Mutex
	current  string
	replaced []string
}

func (n *fakeNav) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *fakeNav) Visit(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.current = path
}

func (n *fakeNav) Replace(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.replaced = append(n.replaced, path)
	n.current = path
}

func (n *fakeNav) PendingRedirect() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.replaced) == 0 {
		return "", false
	}
	return n.replaced[len(n.replaced)-1], true
}

// fakeDashboardAPI scripts the statistics endpoints.
type fakeDashboardAPI struct {
	mu          sync.Mutex
	growth      []domain.GrowthPoint
	growthErr   error
	stats       *domain.UserStatistics
	statsErr    error
	growthCalls int
	statsCalls  int
}

func (a *fakeDashboardAPI) UserGrowth(_ context.Context, _ *domain.GrowthQuery) ([]domain.GrowthPoint, error) {
	a.mu.Lock()
	a.growthCalls++
	a.mu.Unlock()
	return a.growth, a.growthErr
}

func (a *fakeDashboardAPI) UserStatistics(context.Context) (*domain.UserStatistics, error) {
	a.mu.Lock()
	a.statsCalls++
	a.mu.Unlock()
	return a.stats, a.statsErr
}

// fakeUserAPI records the last call per endpoint.
type fakeUserAPI struct {
	page        *domain.UserPage
	listErr     error
	lastQuery   *domain.UserQuery
	user        *domain.User
	newPassword string
	err         error

	lastStatusID int64
	lastStatus   int
	lastAssignID int64
	lastAssigned int64
	deletedID    int64
}

func (a *fakeUserAPI) ListUsers(_ context.Context, q *domain.UserQuery) (*domain.UserPage, error) {
	a.lastQuery = q
	return a.page, a.listErr
}

func (a *fakeUserAPI) GetUser(_ context.Context, _ int64) (*domain.User, error) {
	return a.user, a.err
}

func (a *fakeUserAPI) CreateUser(_ context.Context, _ *domain.CreateUserRequest) (*domain.User, error) {
	return a.user, a.err
}

func (a *fakeUserAPI) UpdateUser(_ context.Context, _ *domain.UpdateUserRequest) (*domain.User, error) {
	return a.user, a.err
}

func (a *fakeUserAPI) DeleteUser(_ context.Context, id int64) error {
	a.deletedID = id
	return a.err
}

func (a *fakeUserAPI) UpdateUserStatus(_ context.Context, id int64, status int) error {
	a.lastStatusID = id
	a.lastStatus = status
	return a.err
}

func (a *fakeUserAPI) ResetUserPassword(_ context.Context, _ int64) (string, error) {
	return a.newPassword, a.err
}

func (a *fakeUserAPI) AssignPowerPoint(_ context.Context, id, powerPoint int64) error {
	a.lastAssignID = id
	a.lastAssigned = powerPoint
	return a.err
}

var errBoom = errors.New("boom")
