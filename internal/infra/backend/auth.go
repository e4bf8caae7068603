package backend

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// Login exchanges credentials for a token via POST /auth/login.
func (c *Client) Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error) {
	var result domain.LoginResult
	if err := c.do(ctx, "Login", http.MethodPost, "/auth/login", nil, req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Profile fetches the authenticated user's profile via GET /auth/info.
// Attributes keeps any extra fields the backend sends beyond the typed ones.
func (c *Client) Profile(ctx context.Context) (*domain.Profile, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "Profile", http.MethodGet, "/auth/info", nil, nil, &raw); err != nil {
		return nil, err
	}

	var profile domain.Profile
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &profile); err != nil {
			return nil, &domain.ErrExternalService{Service: "auth/info", Err: err}
		}
		var attrs map[string]any
		if err := json.Unmarshal(raw, &attrs); err == nil {
			profile.Attributes = attrs
		}
	}
	return &profile, nil
}

// Logout invalidates the token server-side via POST /auth/logout.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "Logout", http.MethodPost, "/auth/logout", nil, nil, nil)
}

// AdminPowerPoint fetches the admin compute-credit balance.
func (c *Client) AdminPowerPoint(ctx context.Context) (*domain.PowerPointBalance, error) {
	var balance domain.PowerPointBalance
	if err := c.do(ctx, "AdminPowerPoint", http.MethodGet, "/auth/adminPowerPoint", nil, nil, &balance); err != nil {
		return nil, err
	}
	return &balance, nil
}
