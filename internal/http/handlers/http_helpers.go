package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rogerio-castellano/market-pulse/internal/apperr"
	"github.com/sirupsen/logrus"
)

// writeJSON takes a response status code and arbitrary data and writes a json response to the client
func writeJSON(w http.ResponseWriter, status int, data any, headers ...http.Header) error {
	out, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	if len(headers) > 0 {
		for key, value := range headers[0] {
			w.Header()[key] = value
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(out)
	if err != nil {
		return fmt.Errorf("failed to write to response: %w", err)
	}

	return nil
}

// WriteError logs err and answers with the uniform error body. The cause is
// never sent to the client.
func WriteError(w http.ResponseWriter, r *http.Request, logger *logrus.Logger, err error) {
	appErr := apperr.From(err)

	entry := logger.WithFields(logrus.Fields{
		"code":       appErr.Code,
		"status":     appErr.Status,
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": middleware.GetReqID(r.Context()),
	})
	if appErr.Status >= http.StatusInternalServerError {
		entry.WithError(appErr.Err).Error(appErr.Message)
	} else {
		entry.Warn(appErr.Message)
	}

	resp := ErrorResponse{Error: ErrorBody{Code: appErr.Code, Message: appErr.Message}}
	if err := writeJSON(w, appErr.Status, resp); err != nil {
		logger.WithError(err).Error("failed to write error response")
	}
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	if err := h.views.Render(w, http.StatusOK, name, data); err != nil {
		WriteError(w, r, h.logger, apperr.Internal(err))
	}
}
