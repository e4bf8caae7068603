package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sksk7108/gzgoodidea-mj-management/internal/domain"
)

// response is the envelope the console API answers with, mirroring the shape
// the UI already expects from the MJ backend.
type response struct {
	Code    int    `json:"code"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeData(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, response{Code: 200, Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Code: status, Message: msg})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func idParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// handleServiceError maps the domain error taxonomy to HTTP. The backend
// message passes through untouched: the UI shows it as-is.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var (
		unauthorized *domain.ErrUnauthorized
		backend      *domain.ErrBackend
		transport    *domain.ErrTransport
		notFound     *domain.ErrNotFound
		external     *domain.ErrExternalService
	)

	switch {
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, unauthorized.Error())
	case errors.As(err, &backend):
		logger.Debug("backend rejected request",
			zap.Int("code", backend.Code),
			zap.String("message", backend.Message),
		)
		writeJSON(w, http.StatusOK, response{Code: backend.Code, Message: backend.Error()})
	case errors.As(err, &transport):
		logger.Warn("backend unreachable",
			zap.Int("status", transport.Status),
			zap.String("message", transport.Message),
		)
		writeError(w, http.StatusBadGateway, transport.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &external):
		logger.Error("external service failure", zap.Error(err))
		writeError(w, http.StatusBadGateway, domain.MsgUnreachable)
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.MsgServerError)
	}
}
