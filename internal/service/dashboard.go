package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// Dashboard serves the aggregate statistics views. Responses are cached for a
// short TTL because the dashboard polls on an interval and the backend
// recomputes these on every hit.
type Dashboard struct {
	api         port.DashboardAPI
	auth        port.AuthAPI
	statsCache  port.Cache[*domain.UserStatistics]
	growthCache port.Cache[[]domain.GrowthPoint]
	metrics     *observability.Metrics
	logger      *zap.Logger
}

func NewDashboard(
	api port.DashboardAPI,
	auth port.AuthAPI,
	statsCache port.Cache[*domain.UserStatistics],
	growthCache port.Cache[[]domain.GrowthPoint],
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Dashboard {
	return &Dashboard{
		api:         api,
		auth:        auth,
		statsCache:  statsCache,
		growthCache: growthCache,
		metrics:     metrics,
		logger:      logger,
	}
}

// UserGrowth returns the bucketed growth series for the query window.
func (s *Dashboard) UserGrowth(ctx context.Context, q *domain.GrowthQuery) ([]domain.GrowthPoint, error) {
	ctx, span := dashboardTracer.Start(ctx, "Dashboard.UserGrowth")
	defer span.End()

	if q.StatDimension == "" {
		q.StatDimension = domain.StatDaily
	}
	span.SetAttributes(attribute.String("stat.dimension", q.StatDimension))

	key := fmt.Sprintf("growth:%s:%s:%s", q.StartTime, q.EndTime, q.StatDimension)
	if points, ok := s.growthCache.Get(key); ok {
		s.metrics.IncrCacheHit("stats")
		return points, nil
	}
	s.metrics.IncrCacheMiss("stats")

	points, err := s.api.UserGrowth(ctx, q)
	if err != nil {
		return nil, err
	}
	if points == nil {
		points = []domain.GrowthPoint{}
	}
	s.growthCache.Set(key, points)
	return points, nil
}

// UserStatistics returns the today/week aggregate counters.
func (s *Dashboard) UserStatistics(ctx context.Context) (*domain.UserStatistics, error) {
	ctx, span := dashboardTracer.Start(ctx, "Dashboard.UserStatistics")
	defer span.End()

	if stats, ok := s.statsCache.Get("statistics"); ok {
		s.metrics.IncrCacheHit("stats")
		return stats, nil
	}
	s.metrics.IncrCacheMiss("stats")

	stats, err := s.api.UserStatistics(ctx)
	if err != nil {
		return nil, err
	}
	s.statsCache.Set("statistics", stats)
	return stats, nil
}

// Overview fetches the statistics and the growth series concurrently, the way
// the dashboard view loads them on first paint. A failure of either fetch
// fails the overview.
func (s *Dashboard) Overview(ctx context.Context, q *domain.GrowthQuery) (*domain.DashboardOverview, error) {
	ctx, span := dashboardTracer.Start(ctx, "Dashboard.Overview")
	defer span.End()

	overview := &domain.DashboardOverview{}
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.UserStatistics(gctx)
		if err != nil {
			return err
		}
		overview.Statistics = stats
		return nil
	})
	g.Go(func() error {
		points, err := s.UserGrowth(gctx, q)
		if err != nil {
			return err
		}
		overview.Growth = points
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Warn("dashboard: overview fetch failed", zap.Error(err))
		return nil, err
	}
	return overview, nil
}

// AdminPowerPoint returns the admin's remaining compute-credit balance.
func (s *Dashboard) AdminPowerPoint(ctx context.Context) (*domain.PowerPointBalance, error) {
	ctx, span := dashboardTracer.Start(ctx, "Dashboard.AdminPowerPoint")
	defer span.End()
	return s.auth.AdminPowerPoint(ctx)
}
