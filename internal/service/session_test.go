package service_test

import (
	"context"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/notify"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
)

func newSession(api *fakeAuthAPI, store *fakeStore, rec *notify.Recorder) *service.Session {
	return service.NewSession(api, store, rec, observability.NewMetrics(), zap.NewNop())
}

func TestSessionLoginPersistsToken(t *testing.T) {
	api := &fakeAuthAPI{loginResult: &domain.LoginResult{Token: "tok-123"}}
	store := newFakeStore()
	rec := &notify.Recorder{}
	sess := newSession(api, store, rec)

	ok := sess.Login(context.Background(), &domain.LoginRequest{Username: "admin", Password: "pw"})
	if !ok {
		t.Fatal("expected login to succeed")
	}
	if got := sess.Token(); got != "tok-123" {
		t.Fatalf("token = %q, want tok-123", got)
	}
	stored, found := store.get(statestore.KeyToken)
	if !found || stored != "tok-123" {
		t.Fatalf("durable token = %q (found=%v), want tok-123", stored, found)
	}
	if rec.Count() != 0 {
		t.Fatalf("unexpected notifications: %v", rec.Messages)
	}
}

func TestSessionLoginFailure(t *testing.T) {
	api := &fakeAuthAPI{loginErr: errBoom}
	store := newFakeStore()
	rec := &notify.Recorder{}
	sess := newSession(api, store, rec)

	if sess.Login(context.Background(), &domain.LoginRequest{Username: "admin"}) {
		t.Fatal("expected login to fail")
	}
	if sess.Token() != "" {
		t.Fatal("token should stay empty after failed login")
	}
	// The gateway notifies for transport/backend failures; the session must
	// not add a second message for the same error.
	if rec.Count() != 0 {
		t.Fatalf("unexpected notifications: %v", rec.Messages)
	}
}

func TestSessionLoginEmptyToken(t *testing.T) {
	api := &fakeAuthAPI{loginResult: &domain.LoginResult{}}
	rec := &notify.Recorder{}
	sess := newSession(api, newFakeStore(), rec)

	if sess.Login(context.Background(), &domain.LoginRequest{Username: "admin"}) {
		t.Fatal("expected login to fail on empty token")
	}
	if rec.Count() != 1 {
		t.Fatalf("notifications = %d, want 1", rec.Count())
	}
}

func TestSessionFetchProfileWithoutToken(t *testing.T) {
	api := &fakeAuthAPI{profile: &domain.Profile{Username: "admin"}}
	sess := newSession(api, newFakeStore(), &notify.Recorder{})

	if sess.FetchProfile(context.Background()) {
		t.Fatal("fetch without token must return false")
	}
	if api.profileCalls != 0 {
		t.Fatalf("profile endpoint called %d times, want 0", api.profileCalls)
	}
}

func TestSessionFetchProfile(t *testing.T) {
	api := &fakeAuthAPI{
		loginResult: &domain.LoginResult{Token: "tok"},
		profile: &domain.Profile{
			Username: "admin",
			Roles:    []string{"super"},
		},
	}
	sess := newSession(api, newFakeStore(), &notify.Recorder{})
	sess.Login(context.Background(), &domain.LoginRequest{Username: "admin"})

	if !sess.FetchProfile(context.Background()) {
		t.Fatal("expected fetch to succeed")
	}
	if !sess.HasProfile() {
		t.Fatal("profile should be set")
	}
	info := sess.Info()
	if info.Username != "admin" || len(info.Roles) != 1 || info.Roles[0] != "super" {
		t.Fatalf("unexpected session info: %+v", info)
	}
}

func TestSessionStaleProfileDropped(t *testing.T) {
	api := &fakeAuthAPI{
		loginResult: &domain.LoginResult{Token: "tok"},
		profile:     &domain.Profile{Username: "admin"},
	}
	store := newFakeStore()
	sess := newSession(api, store, &notify.Recorder{})
	sess.Login(context.Background(), &domain.LoginRequest{Username: "admin"})

	// Reset lands while the profile response is still in flight.
	api.onProfile = sess.Reset

	if sess.FetchProfile(context.Background()) {
		t.Fatal("stale response must not be applied")
	}
	if sess.HasProfile() {
		t.Fatal("reset session must stay empty")
	}
	if sess.Token() != "" {
		t.Fatal("token must stay cleared")
	}
}

func TestSessionHydrate(t *testing.T) {
	store := newFakeStore()
	store.set(statestore.KeyToken, "persisted-tok")
	sess := newSession(&fakeAuthAPI{}, store, &notify.Recorder{})

	sess.Hydrate(context.Background())
	if got := sess.Token(); got != "persisted-tok" {
		t.Fatalf("token = %q, want persisted-tok", got)
	}
	if sess.HasProfile() {
		t.Fatal("hydrate must not invent a profile")
	}
}

func TestSessionLogoutBestEffort(t *testing.T) {
	api := &fakeAuthAPI{
		loginResult: &domain.LoginResult{Token: "tok"},
		logoutErr:   errBoom,
	}
	store := newFakeStore()
	sess := newSession(api, store, &notify.Recorder{})
	sess.Login(context.Background(), &domain.LoginRequest{Username: "admin"})

	if !sess.Logout(context.Background()) {
		t.Fatal("logout must succeed even when the backend call fails")
	}
	if api.logoutCalls != 1 {
		t.Fatalf("backend logout called %d times, want 1", api.logoutCalls)
	}
	if sess.Token() != "" {
		t.Fatal("token must be cleared")
	}
	if _, found := store.get(statestore.KeyToken); found {
		t.Fatal("durable token must be deleted")
	}
}

func TestSessionExpireUnauthorizedExactlyOnce(t *testing.T) {
	api := &fakeAuthAPI{loginResult: &domain.LoginResult{Token: "tok"}}
	sess := newSession(api, newFakeStore(), &notify.Recorder{})
	sess.Login(context.Background(), &domain.LoginRequest{Username: "admin"})

	const callers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	expired := 0
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if sess.ExpireUnauthorized() {
				mu.Lock()
				expired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if expired != 1 {
		t.Fatalf("ExpireUnauthorized returned true %d times, want exactly 1", expired)
	}
	if sess.Token() != "" {
		t.Fatal("token must be cleared")
	}
}

func TestSessionExpireUnauthorizedWithoutToken(t *testing.T) {
	sess := newSession(&fakeAuthAPI{}, newFakeStore(), &notify.Recorder{})
	if sess.ExpireUnauthorized() {
		t.Fatal("expiring an empty session must report false")
	}
}
