package server

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/SriGanesh737/employee-api/internal/errs"
	"github.com/SriGanesh737/employee-api/internal/lib/logger/sl"
)

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Error("Failed to write response", sl.Err(err))
	}
}

// writeError renders err as the JSON error envelope. Server side failures are logged
// with the underlying error, which never reaches the client.
func writeError(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	httpErr := errs.FromError(err)
	requestID := slog.String("request_id", RequestIDFromContext(r.Context()))

	if httpErr.Status >= http.StatusInternalServerError {
		log.ErrorContext(r.Context(), "Request failed", sl.Err(err), requestID)
	} else {
		log.WarnContext(r.Context(), "Request rejected", sl.Err(err), requestID)
	}

	writeJSON(w, log, httpErr.Status, httpErr)
}
