package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/infra/observability"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/notify"
	"github.com/sksk7108/gzgoodidea-mj-management/internal/vault"
)

// loadCredentialsHandler returns the remembered login pair for prefilling
// the form. Absence (including a corrupt blob) is a normal empty answer.
func loadCredentialsHandler(v *vault.Vault) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /api/credentials/remembered")
		defer span.End()

		creds, ok := v.Load(ctx)
		if !ok {
			writeData(w, map[string]bool{"remembered": false})
			return
		}
		writeData(w, map[string]any{
			"remembered":  true,
			"credentials": creds,
		})
	}
}

func saveCredentialsHandler(v *vault.Vault, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /api/credentials/remembered")
		defer span.End()

		var creds domain.Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if creds.Username == "" {
			writeError(w, http.StatusBadRequest, "username is required")
			return
		}
		if err := v.Save(ctx, creds); err != nil {
			logger.Error("save credentials failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, domain.MsgServerError)
			return
		}
		writeData(w, map[string]bool{"success": true})
	}
}

func clearCredentialsHandler(v *vault.Vault, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /api/credentials/remembered")
		defer span.End()

		if err := v.Clear(ctx); err != nil {
			logger.Error("clear credentials failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, domain.MsgServerError)
			return
		}
		writeData(w, map[string]bool{"success": true})
	}
}

// notificationsHandler drains and returns the pending transient messages.
func notificationsHandler(feed *notify.Feed) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, feed.Drain())
	}
}

func systemMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeData(w, metrics.GetSnapshot())
	}
}
