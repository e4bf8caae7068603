package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// UserGrowth fetches the time-bucketed growth/activity series via
// GET /user/userGrowth.
func (c *Client) UserGrowth(ctx context.Context, q *domain.GrowthQuery) ([]domain.GrowthPoint, error) {
	query := url.Values{}
	if q != nil {
		query.Set("startTime", q.StartTime)
		query.Set("endTime", q.EndTime)
		query.Set("statDimension", q.StatDimension)
	}

	var points []domain.GrowthPoint
	if err := c.do(ctx, "UserGrowth", http.MethodGet, "/user/userGrowth", query, nil, &points); err != nil {
		return nil, err
	}
	return points, nil
}

// UserStatistics fetches today/week aggregate counts via
// GET /user/userStatistics.
func (c *Client) UserStatistics(ctx context.Context) (*domain.UserStatistics, error) {
	var stats domain.UserStatistics
	if err := c.do(ctx, "UserStatistics", http.MethodGet, "/user/userStatistics", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
