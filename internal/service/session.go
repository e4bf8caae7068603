// Package service implements the console's core flows: the session store,
// the tenant resolver, the route guard, and the thin user/dashboard wrappers
// over the backend gateway.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

var sessionTracer = otel.Tracer("service/session")

// Session is the singleton auth state of the running console: the backend
// token plus the profile, roles and permissions fetched with it. It is
// mirrored into durable storage under the token key and rehydrated at start.
//
// The profile is only ever as fresh as the last fetch; it is not proactively
// invalidated when the token changes, so callers fetch again after any token
// change (the route guard does exactly that).
type Session struct {
	api      port.AuthAPI
	store    port.StateStore
	notifier port.Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu          sync.Mutex
	gen         uint64 // bumped on every reset; stale responses are dropped
	token       string
	expiresAt   time.Time
	profile     *domain.Profile
	roles       []string
	permissions []string
}

// NewSession creates an empty session store.
func NewSession(api port.AuthAPI, store port.StateStore, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *Session {
	return &Session{
		api:      api,
		store:    store,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}
}

// Hydrate loads any persisted token from durable storage. Called once at
// startup; a corrupt or missing entry just leaves the session empty.
func (s *Session) Hydrate(ctx context.Context) {
	token, ok, err := s.store.Get(ctx, statestore.KeyToken)
	if err != nil {
		s.logger.Warn("session: hydrate failed", zap.Error(err))
		return
	}
	if !ok || token == "" {
		return
	}

	s.mu.Lock()
	s.token = token
	s.expiresAt = tokenExpiry(token)
	s.mu.Unlock()
	s.logger.Info("session: token restored from storage")
}

// Token returns the current token ("" when unauthenticated).
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// HasProfile reports whether a profile has been fetched for this session.
func (s *Session) HasProfile() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile != nil
}

// Info returns a read-only snapshot for the UI.
func (s *Session) Info() domain.SessionInfo {
	s.mu.Lock()
	defer s.mu.Unlock()

	info := domain.SessionInfo{
		Authenticated: s.token != "",
		Roles:         append([]string(nil), s.roles...),
		Permissions:   append([]string(nil), s.permissions...),
		ExpiresAt:     s.expiresAt,
	}
	if s.profile != nil {
		info.Username = s.profile.Username
		info.Nickname = s.profile.Nickname
	}
	return info
}

// Login exchanges credentials for a token and persists it. Returns true on
// success. It never returns an error: any failure surfaces as a user
// notification (the gateway already notified for backend/transport failures).
func (s *Session) Login(ctx context.Context, creds *domain.LoginRequest) bool {
	ctx, span := sessionTracer.Start(ctx, "Session.Login")
	defer span.End()

	result, err := s.api.Login(ctx, creds)
	if err != nil {
		// Gateway notified already; nothing more to announce.
		return false
	}
	if result == nil || result.Token == "" {
		s.notifier.Error("登录失败")
		return false
	}

	s.mu.Lock()
	s.token = result.Token
	s.expiresAt = tokenExpiry(result.Token)
	s.mu.Unlock()

	if err := s.store.Set(ctx, statestore.KeyToken, result.Token); err != nil {
		s.logger.Warn("session: persist token failed", zap.Error(err))
	}

	s.logger.Info("session: logged in", zap.String("username", creds.Username))
	return true
}

// FetchProfile populates profile, roles and permissions from the backend.
// A no-op returning false when no token is held. Failure is silent here:
// whether it matters is a routing decision, handled by the guard.
func (s *Session) FetchProfile(ctx context.Context) bool {
	ctx, span := sessionTracer.Start(ctx, "Session.FetchProfile")
	defer span.End()

	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return false
	}
	gen := s.gen
	s.mu.Unlock()

	profile, err := s.api.Profile(ctx)
	if err != nil || profile == nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		// Session was reset while the fetch was in flight; drop the
		// response instead of resurrecting cleared state.
		s.logger.Debug("session: dropping stale profile response")
		return false
	}
	s.profile = profile
	s.roles = profile.Roles
	if s.roles == nil {
		s.roles = []string{}
	}
	s.permissions = profile.Permissions
	if s.permissions == nil {
		s.permissions = []string{}
	}
	return true
}

// Logout best-effort notifies the backend, then unconditionally clears local
// state. Returns false only when clearing durable state itself fails.
func (s *Session) Logout(ctx context.Context) bool {
	ctx, span := sessionTracer.Start(ctx, "Session.Logout")
	defer span.End()

	if s.Token() != "" {
		if err := s.api.Logout(ctx); err != nil {
			// Server-side invalidation is advisory; the local reset is what
			// logs the user out.
			s.logger.Warn("session: backend logout failed", zap.Error(err))
		}
	}

	if err := s.reset(ctx); err != nil {
		s.notifier.Error("登出失败")
		return false
	}
	s.logger.Info("session: logged out")
	return true
}

// Reset synchronously clears token, profile, roles, permissions and the
// durable token entry. Safe to call at any time, including while requests
// are in flight; their responses are dropped via the generation counter.
func (s *Session) Reset() {
	_ = s.reset(context.Background())
}

func (s *Session) reset(ctx context.Context) error {
	s.mu.Lock()
	s.gen++
	s.token = ""
	s.expiresAt = time.Time{}
	s.profile = nil
	s.roles = nil
	s.permissions = nil
	s.mu.Unlock()

	s.metrics.IncrSessionReset()

	if err := s.store.Delete(ctx, statestore.KeyToken); err != nil {
		s.logger.Warn("session: clear durable token failed", zap.Error(err))
		return err
	}
	return nil
}

// ExpireUnauthorized is the central 401 reaction. It resets the session and
// reports whether it actually cleared a live one, so that any number of
// concurrent 401s produce exactly one reset and one redirect.
func (s *Session) ExpireUnauthorized() bool {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return false
	}
	s.gen++
	s.token = ""
	s.expiresAt = time.Time{}
	s.profile = nil
	s.roles = nil
	s.permissions = nil
	s.mu.Unlock()

	s.metrics.IncrSessionReset()
	if err := s.store.Delete(context.Background(), statestore.KeyToken); err != nil {
		s.logger.Warn("session: clear durable token failed", zap.Error(err))
	}
	s.logger.Info("session: expired by 401")
	return true
}

// tokenExpiry peeks at the token's exp claim when the backend happens to
// issue JWTs. The token stays opaque otherwise; a zero time means unknown.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
