package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// Metrics holds all Prometheus metrics for the console gateway.
type Metrics struct {
	// Registry is the Prometheus registry that owns these metrics.
	// Exposed so the /metrics endpoint can use it.
	Registry *prometheus.Registry

	requestDuration *prometheus.HistogramVec
	backendErrors   *prometheus.CounterVec
	guardDecisions  *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	cacheMisses     *prometheus.CounterVec
	sessionResets   prometheus.Counter
	tenantResolves  *prometheus.CounterVec
	notifications   prometheus.Counter
}

// NewMetrics creates a dedicated Prometheus registry and registers all
// application metrics in it. Using a private registry avoids "duplicate
// collector" panics when NewMetrics is called more than once (e.g. in tests).
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		requestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "console_request_duration_seconds",
				Help:    "Duration of backend requests by operation.",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
		backendErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_backend_errors_total",
				Help: "Total failed backend calls by failure kind.",
			},
			[]string{"kind"},
		),
		guardDecisions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_guard_decisions_total",
				Help: "Route guard outcomes per navigation.",
			},
			[]string{"outcome"},
		),
		cacheHits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_cache_hits_total",
				Help: "Total cache hits.",
			},
			[]string{"cache"},
		),
		cacheMisses: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_cache_misses_total",
				Help: "Total cache misses.",
			},
			[]string{"cache"},
		),
		sessionResets: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_session_resets_total",
				Help: "Total session resets (logout, 401, profile-fetch failure).",
			},
		),
		tenantResolves: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "console_tenant_resolves_total",
				Help: "Tenant configuration resolutions by result.",
			},
			[]string{"result"},
		),
		notifications: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "console_notifications_total",
				Help: "Total user-visible error notifications emitted.",
			},
		),
	}
}

// RecordRequestDuration records the duration of a backend operation.
func (m *Metrics) RecordRequestDuration(operation string, d time.Duration) {
	m.requestDuration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncrBackendError increments the backend error counter.
// Kind is one of "backend", "transport", "unauthorized".
func (m *Metrics) IncrBackendError(kind string) {
	m.backendErrors.WithLabelValues(kind).Inc()
}

// IncrGuardDecision increments the guard outcome counter.
func (m *Metrics) IncrGuardDecision(outcome string) {
	m.guardDecisions.WithLabelValues(outcome).Inc()
}

// IncrCacheHit increments the cache hit counter.
func (m *Metrics) IncrCacheHit(cache string) {
	m.cacheHits.WithLabelValues(cache).Inc()
}

// IncrCacheMiss increments the cache miss counter.
func (m *Metrics) IncrCacheMiss(cache string) {
	m.cacheMisses.WithLabelValues(cache).Inc()
}

// IncrSessionReset increments the session reset counter.
func (m *Metrics) IncrSessionReset() {
	m.sessionResets.Inc()
}

// IncrTenantResolve increments the tenant resolution counter.
// Result is "success" or "error".
func (m *Metrics) IncrTenantResolve(result string) {
	m.tenantResolves.WithLabelValues(result).Inc()
}

// IncrNotification increments the notification counter.
func (m *Metrics) IncrNotification() {
	m.notifications.Inc()
}

// GetSnapshot returns a JSON-friendly summary of the gateway's counters,
// served on GET /api/system/metrics.
func (m *Metrics) GetSnapshot() *domain.MetricsSnapshot {
	proceed := getCounterValue(m.guardDecisions, string(domain.OutcomeProceed))
	redirects := getCounterValue(m.guardDecisions, string(domain.OutcomeRedirectLogin)) +
		getCounterValue(m.guardDecisions, string(domain.OutcomeRedirectNotFound)) +
		getCounterValue(m.guardDecisions, string(domain.OutcomeRedirectHome))

	backendErrs := getCounterValue(m.backendErrors, "backend") +
		getCounterValue(m.backendErrors, "transport") +
		getCounterValue(m.backendErrors, "unauthorized")

	hits := getCounterValue(m.cacheHits, "stats")
	misses := getCounterValue(m.cacheMisses, "stats")
	hitRate := float64(0)
	if hits+misses > 0 {
		hitRate = hits / (hits + misses)
	}

	return &domain.MetricsSnapshot{
		GuardProceed:     int64(proceed),
		GuardRedirects:   int64(redirects),
		BackendErrors:    int64(backendErrs),
		Notifications:    int64(counterValue(m.notifications)),
		CacheHitRate:     hitRate,
		SessionResets:    int64(counterValue(m.sessionResets)),
		TenantResolves:   int64(getCounterValue(m.tenantResolves, "success")),
		TenantResolveErr: int64(getCounterValue(m.tenantResolves, "error")),
	}
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	return counterValue(cv.WithLabelValues(label))
}

func counterValue(c prometheus.Counter) float64 {
	m := &dto.Metric{}
	if err := c.Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}
