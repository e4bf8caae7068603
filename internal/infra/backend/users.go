package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// ListUsers fetches a filtered user page via GET /user/list.
func (c *Client) ListUsers(ctx context.Context, q *domain.UserQuery) (*domain.UserPage, error) {
	query := url.Values{}
	if q != nil {
		if q.Keyword != "" {
			query.Set("keyword", q.Keyword)
		}
		if q.Status != nil {
			query.Set("status", strconv.Itoa(*q.Status))
		}
		if q.Page > 0 {
			query.Set("page", strconv.Itoa(q.Page))
		}
		if q.PageSize > 0 {
			query.Set("pageSize", strconv.Itoa(q.PageSize))
		}
	}

	var page domain.UserPage
	if err := c.do(ctx, "ListUsers", http.MethodGet, "/user/list", query, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetUser fetches one user via GET /user/{id}.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "GetUser", http.MethodGet, "/user/"+strconv.FormatInt(id, 10), nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateUser creates a user via POST /user/create.
func (c *Client) CreateUser(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "CreateUser", http.MethodPost, "/user/create", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser updates a user via PUT /user/update.
func (c *Client) UpdateUser(ctx context.Context, req *domain.UpdateUserRequest) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, "UpdateUser", http.MethodPut, "/user/update", nil, req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// DeleteUser removes a user via DELETE /user/delete/{id}.
func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, "DeleteUser", http.MethodDelete, "/user/delete/"+strconv.FormatInt(id, 10), nil, nil, nil)
}

// UpdateUserStatus changes a user's status via POST /user/updateStatus.
func (c *Client) UpdateUserStatus(ctx context.Context, id int64, status int) error {
	body := map[string]any{"id": id, "userStatus": status}
	return c.do(ctx, "UpdateUserStatus", http.MethodPost, "/user/updateStatus", nil, body, nil)
}

// ResetUserPassword resets a user's password via PUT /user/resetPassword/{id}
// and returns the generated password. The backend has sent both a bare
// string and a {password} object here; accept either.
func (c *Client) ResetUserPassword(ctx context.Context, id int64) (string, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "ResetUserPassword", http.MethodPut, "/user/resetPassword/"+strconv.FormatInt(id, 10), nil, nil, &raw); err != nil {
		return "", err
	}

	var pw string
	if json.Unmarshal(raw, &pw) == nil && pw != "" {
		return pw, nil
	}
	var obj struct {
		Password string `json:"password"`
	}
	if json.Unmarshal(raw, &obj) == nil {
		return obj.Password, nil
	}
	return "", nil
}

// AssignPowerPoint assigns compute credits to a user via
// POST /user/assignPowerPoint.
func (c *Client) AssignPowerPoint(ctx context.Context, id int64, powerPoint int64) error {
	body := map[string]any{"id": id, "powerPoint": powerPoint}
	return c.do(ctx, "AssignPowerPoint", http.MethodPost, "/user/assignPowerPoint", nil, body, nil)
}
