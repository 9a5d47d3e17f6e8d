package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/custodia-labs/skillroute/internal/core/domain"
	"github.com/custodia-labs/skillroute/internal/logger"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg, code string) {
	writeJSON(w, status, ErrorResponse{
		Error:     msg,
		Code:      code,
		RequestID: RequestID(r.Context()),
	})
}

// writeServiceError maps core errors onto HTTP statuses.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrIndexNotReady):
		w.Header().Set("Retry-After", "1")
		writeError(w, r, http.StatusServiceUnavailable, err.Error(), codeIndexNotReady)
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, err.Error(), codeInvalidInput)
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, r, http.StatusNotFound, err.Error(), codeNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "request timed out", codeTimeout)
	case errors.Is(err, context.Canceled):
		// Client went away; nothing useful to send.
		logger.Debug("request %s cancelled", RequestID(r.Context()))
	default:
		logger.Error("request %s failed: %v", RequestID(r.Context()), err)
		writeError(w, r, http.StatusInternalServerError, "internal error", codeInternal)
	}
}
