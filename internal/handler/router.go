package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/notify"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/vault"
)

var tracer = otel.Tracer("handler")

// Deps collects everything the router serves.
type Deps struct {
	Session   *service.Session
	Guard     *service.Guard
	Tenant    *service.TenantResolver
	Theme     *service.ThemeSheet
	Users     *service.Users
	Dashboard *service.Dashboard
	Vault     *vault.Vault
	Feed      *notify.Feed
	Nav       port.Navigator
	Metrics   *observability.Metrics
	Logger    *zap.Logger
}

// NewRouter creates the HTTP router with all routes and middleware. The API
// mirrors the envelope contract the admin UI speaks.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(d.Logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler())
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {

		// --- Auth & session ---
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", loginHandler(d.Session, d.Vault, d.Logger))
			r.Get("/info", profileHandler(d.Session, d.Logger))
			r.Post("/logout", logoutHandler(d.Session, d.Logger))
			r.Get("/session", sessionHandler(d.Session, d.Nav))
			r.Get("/power-point", powerPointHandler(d.Dashboard, d.Logger))
		})

		// --- Navigation guard ---
		r.Post("/navigate", navigateHandler(d.Guard, d.Tenant, d.Nav, d.Logger))

		// --- Tenant configuration ---
		r.Route("/tenant", func(r chi.Router) {
			r.Get("/config", tenantConfigHandler(d.Tenant))
			r.Post("/resolve", tenantResolveHandler(d.Tenant, d.Logger))
			r.Post("/reset", tenantResetHandler(d.Tenant))
			r.Get("/theme.css", themeCSSHandler(d.Theme))
		})

		// --- User management ---
		r.Route("/users", func(r chi.Router) {
			r.Get("/", listUsersHandler(d.Users, d.Logger))
			r.Post("/", createUserHandler(d.Users, d.Logger))
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", getUserHandler(d.Users, d.Logger))
				r.Put("/", updateUserHandler(d.Users, d.Logger))
				r.Delete("/", deleteUserHandler(d.Users, d.Logger))
				r.Post("/status", updateUserStatusHandler(d.Users, d.Logger))
				r.Post("/password/reset", resetUserPasswordHandler(d.Users, d.Logger))
				r.Post("/power-point", assignPowerPointHandler(d.Users, d.Logger))
			})
		})

		// --- Dashboard ---
		r.Route("/dashboard", func(r chi.Router) {
			r.Get("/growth", userGrowthHandler(d.Dashboard, d.Logger))
			r.Get("/statistics", userStatisticsHandler(d.Dashboard, d.Logger))
			r.Get("/overview", overviewHandler(d.Dashboard, d.Logger))
		})

		// --- Remembered credentials ---
		r.Route("/credentials/remembered", func(r chi.Router) {
			r.Get("/", loadCredentialsHandler(d.Vault))
			r.Put("/", saveCredentialsHandler(d.Vault, d.Logger))
			r.Delete("/", clearCredentialsHandler(d.Vault, d.Logger))
		})

		// --- Notifications & system ---
		r.Get("/notifications", notificationsHandler(d.Feed))
		r.Get("/system/metrics", systemMetricsHandler(d.Metrics))
	})

	return r
}

func healthzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
