package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"employee-auth/internal/domain"
	"employee-auth/internal/dto"
	obsmw "employee-auth/internal/observability/middleware"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, dto.MessageResponse{Message: msg})
}

// writeError maps domain errors onto status codes. Anything unrecognized is
// logged and reported as a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, domain.ErrInvalidCredentials.Error())
	case errors.Is(err, domain.ErrInvalidOrExpiredOtp):
		writeMessage(w, http.StatusUnauthorized, domain.ErrInvalidOrExpiredOtp.Error())
	case errors.Is(err, domain.ErrForbidden):
		writeMessage(w, http.StatusForbidden, domain.ErrForbidden.Error())
	case errors.Is(err, domain.ErrEmployeeNotFound):
		writeMessage(w, http.StatusNotFound, domain.ErrEmployeeNotFound.Error())
	case domain.IsValidation(err):
		writeMessage(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("request failed", "error", err, "method", r.Method, "path", r.URL.Path,
			"request_id", obsmw.RequestIDFromContext(r.Context()), "trace_id", obsmw.TraceIDFromContext(r.Context()))
		writeMessage(w, http.StatusInternalServerError, "internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed JSON body", domain.ErrInvalidRequest)
	}
	return nil
}
