package handler

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
)

func growthQuery(r *http.Request) *domain.GrowthQuery {
	q := r.URL.Query()
	return &domain.GrowthQuery{
		StartTime:     q.Get("startTime"),
		EndTime:       q.Get("endTime"),
		StatDimension: q.Get("statDimension"),
	}
}

func userGrowthHandler(dash *service.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/dashboard/growth")
		defer span.End()

		points, err := dash.UserGrowth(ctx, growthQuery(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, points)
	}
}

func userStatisticsHandler(dash *service.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/dashboard/statistics")
		defer span.End()

		stats, err := dash.UserStatistics(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, stats)
	}
}

func overviewHandler(dash *service.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/dashboard/overview")
		defer span.End()

		overview, err := dash.Overview(ctx, growthQuery(r))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, overview)
	}
}
