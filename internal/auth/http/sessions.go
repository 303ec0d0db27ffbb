package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/service"
	"github.com/Dobariya-Nishant/auth-service/pkg/httpx"
)

// SessionHandler lists the authenticated user's live sessions for
// session-management UIs.
type SessionHandler struct {
	Sessions *service.SessionService
}

// HandleList supports ?limit= and ?before= (RFC 3339) for keyset
// pagination, newest first.
func (h *SessionHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	var limit int
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			httpx.WriteError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}

	var before time.Time
	if raw := r.URL.Query().Get("before"); raw != "" {
		t, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "before must be an RFC 3339 timestamp")
			return
		}
		before = t
	}

	sessions, err := h.Sessions.List(r.Context(), httpx.UserIDFromContext(r.Context()), limit, before)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteMessage(w, http.StatusOK, "sessions", sessions)
}
