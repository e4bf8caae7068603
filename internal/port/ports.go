// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the session, tenant
// and guard logic from the concrete backend client, storage and UI plumbing.
package port

import (
	"context"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// AuthAPI covers the backend authentication endpoints.
type AuthAPI interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error)
	Profile(ctx context.Context) (*domain.Profile, error)
	Logout(ctx context.Context) error
	AdminPowerPoint(ctx context.Context) (*domain.PowerPointBalance, error)
}

// TenantAPI fetches per-tenant configuration.
type TenantAPI interface {
	TenantConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error)
}

// UserAPI covers the user CRUD endpoints.
type UserAPI interface {
	ListUsers(ctx context.Context, q *domain.UserQuery) (*domain.UserPage, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
	CreateUser(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, req *domain.UpdateUserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id int64) error
	UpdateUserStatus(ctx context.Context, id int64, status int) error
	ResetUserPassword(ctx context.Context, id int64) (newPassword string, err error)
	AssignPowerPoint(ctx context.Context, id int64, powerPoint int64) error
}

// DashboardAPI covers the aggregate statistics endpoints.
type DashboardAPI interface {
	UserGrowth(ctx context.Context, q *domain.GrowthQuery) ([]domain.GrowthPoint, error)
	UserStatistics(ctx context.Context) (*domain.UserStatistics, error)
}

// StateStore is the durable key-value storage the session, tenant and vault
// state is mirrored into. Values are strings or JSON-serialized blobs under
// fixed keys; last writer wins.
type StateStore interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Notifier is the transient user-notification side channel. Data-layer code
// decides that a call failed with message X; the presentation boundary decides
// how to show it.
type Notifier interface {
	Error(message string)
}

// Navigator tracks the UI's current location. Visit is a normal navigation;
// Replace is a forced redirect (replace semantics, no history entry).
// PendingRedirect hands a forced redirect to the UI exactly once.
type Navigator interface {
	Current() string
	Visit(path string)
	Replace(path string)
	PendingRedirect() (path string, pending bool)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// ModuleChecker answers whether a feature area is enabled for the active
// tenant. Implemented by the tenant resolver; consumed by the route guard.
type ModuleChecker interface {
	IsModuleAvailable(module string) bool
}
