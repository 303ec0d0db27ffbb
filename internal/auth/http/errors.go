// Package http is the transport layer: request decoding, cookie handling,
// and the routing of the auth, user, session, and system endpoints.
package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/service"
	"github.com/Dobariya-Nishant/auth-service/pkg/httpx"
	"github.com/Dobariya-Nishant/auth-service/pkg/slogx"
)

// writeServiceError maps the service error taxonomy onto HTTP status
// codes. Anything outside the taxonomy is a 500 and its detail stays in
// the logs, not the response.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		httpx.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		httpx.WriteError(w, http.StatusNotFound, service.ErrSessionNotFound.Error())
	case errors.Is(err, service.ErrNotFound):
		httpx.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, "unauthorized")
	default:
		slogx.FromContext(r.Context()).Error("request failed", slog.Any("error", err))
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
	}
}
