package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/port"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/service"
)

func tenantConfigHandler(tenant *service.TenantResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, map[string]any{
			"loaded": tenant.Loaded(),
			"config": tenant.Config(),
		})
	}
}

// tenantResolveHandler triggers a resolve. An explicit tenantId in the body
// wins; otherwise the resolver falls back to the stored id and the current
// navigation path.
func tenantResolveHandler(tenant *service.TenantResolver, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/tenant/resolve")
		defer span.End()

		var req struct {
			TenantID string `json:"tenantId"`
		}
		if r.Body != nil {
			// Body is optional; decode errors just mean no explicit id.
			_ = json.NewDecoder(r.Body).Decode(&req)
		}

		loaded := tenant.Resolve(ctx, req.TenantID)
		writeData(w, map[string]any{
			"loaded": loaded,
			"config": tenant.Config(),
		})
	}
}

func tenantResetHandler(tenant *service.TenantResolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/tenant/reset")
		defer span.End()

		tenant.Reset(ctx)
		writeData(w, map[string]bool{"success": true})
	}
}

func themeCSSHandler(theme *service.ThemeSheet) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/css; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(theme.CSS()))
	}
}

// navigateHandler runs the route guard for one navigation attempt. A
// navigation to a login path also gives the resolver a chance to pick the
// tenant id out of the path, the way the login page always did.
func navigateHandler(guard *service.Guard, tenant *service.TenantResolver, nav port.Navigator, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /api/navigate")
		defer span.End()

		var req struct {
			Path string `json:"path"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
			writeError(w, http.StatusBadRequest, "path is required")
			return
		}

		if id := service.TenantIDFromPath(req.Path); id != "" && !tenant.Loaded() {
			tenant.Resolve(ctx, id)
		}

		decision := guard.Evaluate(ctx, req.Path)
		if decision.Proceeds() {
			nav.Visit(req.Path)
		} else {
			nav.Replace(decision.Location)
		}
		writeData(w, decision)
	}
}
