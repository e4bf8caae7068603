package backend

import (
	"context"
	"net/http"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// TenantConfig fetches one tenant's configuration via
// GET /config/company/{tenantId}.
func (c *Client) TenantConfig(ctx context.Context, tenantID string) (*domain.TenantConfig, error) {
	var cfg domain.TenantConfig
	if err := c.do(ctx, "TenantConfig", http.MethodGet, "/config/company/"+tenantID, nil, nil, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
