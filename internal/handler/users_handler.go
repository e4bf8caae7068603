package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
)

func listUsersHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/users")
		defer span.End()

		q := &domain.UserQuery{Keyword: r.URL.Query().Get("keyword")}
		if v := r.URL.Query().Get("status"); v != "" {
			if status, err := strconv.Atoi(v); err == nil {
				q.Status = &status
			}
		}
		if v := r.URL.Query().Get("page"); v != "" {
			q.Page, _ = strconv.Atoi(v)
		}
		if v := r.URL.Query().Get("pageSize"); v != "" {
			q.PageSize, _ = strconv.Atoi(v)
		}

		page, err := users.List(ctx, q)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, page)
	}
}

func getUserHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/users/{id}")
		defer span.End()

		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		user, err := users.Get(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, user)
	}
}

func createUserHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/users")
		defer span.End()

		var req domain.CreateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}
		user, err := users.Create(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, user)
	}
}

func updateUserHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /api/users/{id}")
		defer span.End()

		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var req domain.UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		req.ID = id
		user, err := users.Update(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, user)
	}
}

func deleteUserHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/users/{id}")
		defer span.End()

		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		if err := users.Delete(ctx, id); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, map[string]bool{"success": true})
	}
}

func updateUserStatusHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/users/{id}/status")
		defer span.End()

		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var req struct {
			UserStatus *int `json:"userStatus"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserStatus == nil {
			writeError(w, http.StatusBadRequest, "userStatus is required")
			return
		}
		if err := users.UpdateStatus(ctx, id, *req.UserStatus); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, map[string]bool{"success": true})
	}
}

func resetUserPasswordHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/users/{id}/password/reset")
		defer span.End()

		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		password, err := users.ResetPassword(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, map[string]string{"password": password})
	}
}

func assignPowerPointHandler(users *service.Users, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/users/{id}/power-point")
		defer span.End()

		id, err := idParam(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid user id")
			return
		}
		var req struct {
			PowerPoint *int64 `json:"powerPoint"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PowerPoint == nil {
			writeError(w, http.StatusBadRequest, "powerPoint is required")
			return
		}
		if *req.PowerPoint < 0 {
			writeError(w, http.StatusBadRequest, "powerPoint must not be negative")
			return
		}
		if err := users.AssignPowerPoint(ctx, id, *req.PowerPoint); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, map[string]bool{"success": true})
	}
}
