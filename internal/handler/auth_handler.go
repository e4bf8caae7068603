package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/vault"
)

// loginHandler exchanges credentials for a session. With remember set the
// credentials are kept in the vault for prefilling the login form; without it
// any remembered pair is cleared.
func loginHandler(sess *service.Session, v *vault.Vault, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/auth/login")
		defer span.End()

		var req struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Remember bool   `json:"remember"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Username == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, "username and password are required")
			return
		}

		ok := sess.Login(ctx, &domain.LoginRequest{Username: req.Username, Password: req.Password})
		if ok {
			if req.Remember {
				if err := v.Save(ctx, domain.Credentials{Username: req.Username, Password: req.Password}); err != nil {
					logger.Warn("remember credentials failed", zap.Error(err))
				}
			} else if err := v.Clear(ctx); err != nil {
				logger.Warn("clear remembered credentials failed", zap.Error(err))
			}
		}

		writeData(w, map[string]any{"success": ok, "session": sess.Info()})
	}
}

func profileHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/auth/info")
		defer span.End()

		if sess.Token() == "" {
			writeError(w, http.StatusUnauthorized, domain.MsgUnauthorized)
			return
		}
		if !sess.HasProfile() && !sess.FetchProfile(ctx) {
			writeError(w, http.StatusUnauthorized, domain.MsgUnauthorized)
			return
		}
		writeData(w, sess.Info())
	}
}

func logoutHandler(sess *service.Session, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/auth/logout")
		defer span.End()

		ok := sess.Logout(ctx)
		writeData(w, map[string]bool{"success": ok})
	}
}

// sessionHandler is the UI's polling endpoint. A pending forced redirect
// (the 401 reaction) is delivered here exactly once.
func sessionHandler(sess *service.Session, nav port.Navigator) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{"session": sess.Info()}
		if path, pending := nav.PendingRedirect(); pending {
			data["redirect"] = path
		}
		writeData(w, data)
	}
}

func powerPointHandler(dash *service.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/auth/power-point")
		defer span.End()

		balance, err := dash.AdminPowerPoint(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeData(w, balance)
	}
}
