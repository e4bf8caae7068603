package service

import (
	"context"
	"encoding/json"
	"regexp"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

var tenantTracer = otel.Tracer("service/tenant")

// Tenant ids look like MJ-10001. The login path carries them as a segment.
var (
	loginTenantPattern = regexp.MustCompile(`(?i)/login/(MJ-\d+)`)
	pathTenantPattern  = regexp.MustCompile(`(?i)/(MJ-\d+)`)
)

// TenantResolver owns the active tenant configuration: which tenant the
// console is branded for, which modules are enabled, and the theme colors.
// Resolution happens at most once per process; the result is persisted and
// rehydrated across restarts.
type TenantResolver struct {
	api      port.TenantAPI
	store    port.StateStore
	nav      port.Navigator
	notifier port.Notifier
	theme    *ThemeSheet
	metrics  *observability.Metrics
	logger   *zap.Logger

	mu      sync.Mutex
	loading bool
	loaded  bool
	config  domain.TenantConfig
}

// NewTenantResolver creates a resolver seeded with the default configuration.
func NewTenantResolver(
	api port.TenantAPI,
	store port.StateStore,
	nav port.Navigator,
	notifier port.Notifier,
	theme *ThemeSheet,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *TenantResolver {
	r := &TenantResolver{
		api:      api,
		store:    store,
		nav:      nav,
		notifier: notifier,
		theme:    theme,
		metrics:  metrics,
		logger:   logger,
		config:   domain.DefaultTenantConfig(),
	}
	r.theme.Apply(r.config.Theme)
	return r
}

// Hydrate loads a previously persisted configuration, if any, and applies
// its theme. It does not mark the resolver loaded: the next Resolve still
// refreshes from the backend, matching the per-pageload semantics.
func (r *TenantResolver) Hydrate(ctx context.Context) {
	stored, ok, err := r.store.Get(ctx, statestore.KeyTenantConfig)
	if err != nil || !ok {
		if err != nil {
			r.logger.Warn("tenant: hydrate failed", zap.Error(err))
		}
		return
	}

	var cfg domain.TenantConfig
	if err := json.Unmarshal([]byte(stored), &cfg); err != nil {
		// Corrupt persisted config degrades silently to the defaults.
		r.logger.Warn("tenant: persisted config is malformed, using defaults", zap.Error(err))
		return
	}

	r.mu.Lock()
	r.config = mergeConfig(domain.DefaultTenantConfig(), &cfg, cfg.TenantID)
	r.mu.Unlock()
	r.theme.Apply(r.Config().Theme)
	r.logger.Info("tenant: configuration restored from storage",
		zap.String("tenant_id", cfg.TenantID),
	)
}

// Config returns a copy of the active configuration.
func (r *TenantResolver) Config() domain.TenantConfig {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg := r.config
	cfg.Modules = append([]string(nil), r.config.Modules...)
	return cfg
}

// Loaded reports whether a remote configuration has been applied.
func (r *TenantResolver) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loaded
}

// IsModuleAvailable reports whether the tenant enables the feature area.
func (r *TenantResolver) IsModuleAvailable(module string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.config.HasModule(module)
}

// Resolve determines the active tenant and loads its configuration.
//
// Returns true when a configuration is loaded (now or previously). While a
// fetch is in flight, concurrent calls get an immediate false and are
// expected to be re-invoked by the guard on the next navigation; the loading
// flag is the sole guard against duplicate fetches, not a queue.
func (r *TenantResolver) Resolve(ctx context.Context, explicitTenantID string) bool {
	ctx, span := tenantTracer.Start(ctx, "TenantResolver.Resolve")
	defer span.End()

	r.mu.Lock()
	if r.loaded {
		r.mu.Unlock()
		return true
	}
	if r.loading {
		r.mu.Unlock()
		return false
	}

	tenantID := r.determineTenantID(ctx, explicitTenantID)
	if tenantID == "" {
		r.mu.Unlock()
		return false
	}
	r.loading = true
	r.mu.Unlock()

	defer func() {
		r.mu.Lock()
		r.loading = false
		r.mu.Unlock()
	}()

	span.SetAttributes(attribute.String("tenant.id", tenantID))

	remote, err := r.api.TenantConfig(ctx, tenantID)
	if err != nil || remote == nil {
		// The gateway already notified for backend/transport failures;
		// announce the consequence for the console.
		r.notifier.Error("获取公司配置失败，将使用默认配置")
		r.metrics.IncrTenantResolve("error")
		r.logger.Warn("tenant: config fetch failed",
			zap.String("tenant_id", tenantID),
			zap.Error(err),
		)
		return false
	}

	merged := mergeConfig(domain.DefaultTenantConfig(), remote, tenantID)

	r.mu.Lock()
	r.config = merged
	r.loaded = true
	r.mu.Unlock()

	r.persist(ctx, merged, tenantID)
	r.theme.Apply(merged.Theme)
	r.metrics.IncrTenantResolve("success")
	r.logger.Info("tenant: configuration loaded",
		zap.String("tenant_id", tenantID),
		zap.Strings("modules", merged.Modules),
	)
	return true
}

// determineTenantID picks the tenant id: explicit argument, else the
// persisted id, else the current navigation path. Caller holds r.mu.
func (r *TenantResolver) determineTenantID(ctx context.Context, explicit string) string {
	if explicit != "" {
		return strings.ToUpper(explicit)
	}
	if stored, ok, _ := r.store.Get(ctx, statestore.KeyTenantID); ok && stored != "" {
		return strings.ToUpper(stored)
	}
	return TenantIDFromPath(r.nav.Current())
}

// TenantIDFromPath extracts an uppercased tenant id from a navigation path,
// preferring the login form "/login/MJ-10001" and falling back to any
// "/MJ-10001" segment. Empty when the path carries none.
func TenantIDFromPath(path string) string {
	if m := loginTenantPattern.FindStringSubmatch(path); m != nil {
		return strings.ToUpper(m[1])
	}
	if m := pathTenantPattern.FindStringSubmatch(path); m != nil {
		return strings.ToUpper(m[1])
	}
	return ""
}

// ApplyTheme re-projects the active theme into the presentation state.
// Idempotent; safe to call with the defaults.
func (r *TenantResolver) ApplyTheme() {
	r.theme.Apply(r.Config().Theme)
}

// Reset restores the default configuration, clears the loaded/loading state
// and wipes both durable tenant keys.
func (r *TenantResolver) Reset(ctx context.Context) {
	r.mu.Lock()
	r.config = domain.DefaultTenantConfig()
	r.loaded = false
	r.loading = false
	r.mu.Unlock()

	if err := r.store.Delete(ctx, statestore.KeyTenantConfig); err != nil {
		r.logger.Warn("tenant: clear persisted config failed", zap.Error(err))
	}
	if err := r.store.Delete(ctx, statestore.KeyTenantID); err != nil {
		r.logger.Warn("tenant: clear persisted id failed", zap.Error(err))
	}
	r.theme.Apply(domain.DefaultTenantConfig().Theme)
}

func (r *TenantResolver) persist(ctx context.Context, cfg domain.TenantConfig, tenantID string) {
	blob, err := json.Marshal(cfg)
	if err == nil {
		if err := r.store.Set(ctx, statestore.KeyTenantConfig, string(blob)); err != nil {
			r.logger.Warn("tenant: persist config failed", zap.Error(err))
		}
	}
	if err := r.store.Set(ctx, statestore.KeyTenantID, tenantID); err != nil {
		r.logger.Warn("tenant: persist id failed", zap.Error(err))
	}
}

// mergeConfig layers a remote configuration over the defaults.
//
// Merge policy: top-level fields override the defaults when set; Modules is
// replaced wholesale when the response carries one; Theme merges field-wise
// so a partial remote theme keeps default colors for the fields it omits.
func mergeConfig(base domain.TenantConfig, remote *domain.TenantConfig, tenantID string) domain.TenantConfig {
	out := base
	out.TenantID = tenantID

	if remote.Logo != "" {
		out.Logo = remote.Logo
	}
	if remote.Title != "" {
		out.Title = remote.Title
	}
	if remote.LoginBg != "" {
		out.LoginBg = remote.LoginBg
	}
	if remote.Modules != nil {
		out.Modules = append([]string(nil), remote.Modules...)
	}
	if remote.Theme.PrimaryColor != "" {
		out.Theme.PrimaryColor = remote.Theme.PrimaryColor
	}
	if remote.Theme.MenuBgColor != "" {
		out.Theme.MenuBgColor = remote.Theme.MenuBgColor
	}
	if remote.Theme.MenuTextColor != "" {
		out.Theme.MenuTextColor = remote.Theme.MenuTextColor
	}
	if remote.Theme.MenuActiveTextColor != "" {
		out.Theme.MenuActiveTextColor = remote.Theme.MenuActiveTextColor
	}
	return out
}
