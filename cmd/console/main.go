package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/config"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/handler"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/backend"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/cache"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/resilience"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/statestore"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/nav"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/notify"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/vault"

	"go.uber.org/zap"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	logger.Info("configuration loaded",
		zap.Int("port", cfg.Port),
		zap.String("log_level", cfg.LogLevel),
		zap.String("backend_base_url", cfg.BackendBaseURL),
		zap.String("state_path", cfg.StatePath),
		zap.Duration("http_timeout", cfg.HTTPTimeout),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Duration("initial_backoff", cfg.InitialBackoff),
		zap.Duration("stats_cache_ttl", cfg.StatsCacheTTL),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "mj-console-gateway")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Durable state ---
	store, err := statestore.Open(cfg.StatePath)
	if err != nil {
		logger.Fatal("failed to open state store", zap.Error(err))
	}
	defer store.Close()

	// --- Notifications & navigation ---
	feed := notify.NewFeed(logger)
	feed.OnEmit(metrics.IncrNotification)
	location := nav.New("/login")

	// --- Resilience ---
	resilienceCfg := resilience.Config{
		MaxRetries:     cfg.MaxRetries,
		InitialBackoff: cfg.InitialBackoff,
		MaxConcurrency: cfg.MaxConcurrency,
	}
	cb := resilience.NewCircuitBreaker("mj-backend")

	// --- Backend gateway ---
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}
	client := backend.NewClient(httpClient, cfg.BackendBaseURL, store, feed, cb, resilienceCfg, metrics, logger)

	// --- Services ---
	theme := service.NewThemeSheet()
	sess := service.NewSession(client, store, feed, metrics, logger)
	tenant := service.NewTenantResolver(client, store, location, feed, theme, metrics, logger)
	guard := service.NewGuard(sess, tenant, metrics, logger)
	users := service.NewUsers(client, logger)
	dash := service.NewDashboard(
		client, client,
		cache.New[*domain.UserStatistics](cfg.StatsCacheTTL),
		cache.New[[]domain.GrowthPoint](cfg.StatsCacheTTL),
		metrics, logger,
	)
	credentialVault := vault.New(store, logger)

	// A 401 from any call expires the session once and forces the UI back to
	// the login page.
	client.SetUnauthorizedHandler(func() {
		if sess.ExpireUnauthorized() {
			location.Replace("/login")
		}
	})

	// --- Warm start from durable state ---
	startCtx, cancelStart := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	sess.Hydrate(startCtx)
	tenant.Hydrate(startCtx)
	if cfg.TenantID != "" {
		// Best effort; the guard retries on the first navigation.
		tenant.Resolve(startCtx, cfg.TenantID)
	}
	cancelStart()

	// --- Router ---
	router := handler.NewRouter(handler.Deps{
		Session:   sess,
		Guard:     guard,
		Tenant:    tenant,
		Theme:     theme,
		Users:     users,
		Dashboard: dash,
		Vault:     credentialVault,
		Feed:      feed,
		Nav:       location,
		Metrics:   metrics,
		Logger:    logger,
	})

	// --- Server ---
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// --- Graceful shutdown ---
	go func() {
		logger.Info("server starting", zap.Int("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("server shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced shutdown", zap.Error(err))
	}

	logger.Info("server stopped")
}
