package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/issuetracker/internal/common"
)

// statusFor maps an error class to its HTTP status. Unclassified errors
// are 500.
func statusFor(err error) int {
	switch {
	case errors.Is(err, common.ErrInvalidInput),
		errors.Is(err, common.ErrInvalidCredentials),
		errors.Is(err, common.ErrMalformedIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrForbidden),
		errors.Is(err, common.ErrConflict):
		return http.StatusForbidden
	case errors.Is(err, common.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and sends it with the given status. Server errors
// never leak their cause.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	message := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "path", r.URL.Path, "error", err)
		message = common.ErrInternal.Error()
	}
	s.sendError(w, r, status, message)
}

// sendError sends a JSON error response.
func (s *Server) sendError(w http.ResponseWriter, _ *http.Request, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error":   http.StatusText(status),
		"message": message,
		"code":    status,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
