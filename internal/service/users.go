package service

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
)

var usersTracer = otel.Tracer("service/users")

// Users wraps the backend user endpoints for the console. The gateway already
// handles notification and 401 semantics; this layer adds tracing and the
// couple of defaults the UI relies on.
type Users struct {
	api    port.UserAPI
	logger *zap.Logger
}

func NewUsers(api port.UserAPI, logger *zap.Logger) *Users {
	return &Users{api: api, logger: logger}
}

func (s *Users) List(ctx context.Context, q *domain.UserQuery) (*domain.UserPage, error) {
	ctx, span := usersTracer.Start(ctx, "Users.List")
	defer span.End()

	if q.Page <= 0 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = 10
	}
	page, err := s.api.ListUsers(ctx, q)
	if err != nil {
		return nil, err
	}
	if page.List == nil {
		page.List = []domain.User{}
	}
	return page, nil
}

func (s *Users) Get(ctx context.Context, id int64) (*domain.User, error) {
	ctx, span := usersTracer.Start(ctx, "Users.Get")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", id))
	return s.api.GetUser(ctx, id)
}

func (s *Users) Create(ctx context.Context, req *domain.CreateUserRequest) (*domain.User, error) {
	ctx, span := usersTracer.Start(ctx, "Users.Create")
	defer span.End()

	user, err := s.api.CreateUser(ctx, req)
	if err != nil {
		return nil, err
	}
	s.logger.Info("users: created", zap.Int64("id", user.ID), zap.String("username", user.Username))
	return user, nil
}

func (s *Users) Update(ctx context.Context, req *domain.UpdateUserRequest) (*domain.User, error) {
	ctx, span := usersTracer.Start(ctx, "Users.Update")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", req.ID))
	return s.api.UpdateUser(ctx, req)
}

func (s *Users) Delete(ctx context.Context, id int64) error {
	ctx, span := usersTracer.Start(ctx, "Users.Delete")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", id))

	if err := s.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("users: deleted", zap.Int64("id", id))
	return nil
}

func (s *Users) UpdateStatus(ctx context.Context, id int64, status int) error {
	ctx, span := usersTracer.Start(ctx, "Users.UpdateStatus")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", id), attribute.Int("user.status", status))
	return s.api.UpdateUserStatus(ctx, id, status)
}

// ResetPassword asks the backend to issue a fresh password for the user and
// returns it for one-time display.
func (s *Users) ResetPassword(ctx context.Context, id int64) (string, error) {
	ctx, span := usersTracer.Start(ctx, "Users.ResetPassword")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", id))

	password, err := s.api.ResetUserPassword(ctx, id)
	if err != nil {
		return "", err
	}
	s.logger.Info("users: password reset", zap.Int64("id", id))
	return password, nil
}

func (s *Users) AssignPowerPoint(ctx context.Context, id int64, powerPoint int64) error {
	ctx, span := usersTracer.Start(ctx, "Users.AssignPowerPoint")
	defer span.End()
	span.SetAttributes(attribute.Int64("user.id", id), attribute.Int64("power_point", powerPoint))

	if err := s.api.AssignPowerPoint(ctx, id, powerPoint); err != nil {
		return err
	}
	s.logger.Info("users: power point assigned", zap.Int64("id", id), zap.Int64("amount", powerPoint))
	return nil
}
