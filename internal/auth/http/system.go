package http

import (
	"net/http"
	"time"

	"github.com/Dobariya-Nishant/auth-service/internal/auth/store"
	"github.com/Dobariya-Nishant/auth-service/pkg/httpx"
)

type healthData struct {
	Status   string `json:"status"`
	Uptime   string `json:"uptime"`
	Version  string `json:"version"`
	Database string `json:"database,omitempty"`
}

// LivezHandler always answers 200 while the process is up.
func LivezHandler(startTime time.Time, version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httpx.WriteMessage(w, http.StatusOK, "alive", healthData{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
		})
	}
}

// ReadyzHandler answers 200 only when the database is reachable.
func ReadyzHandler(startTime time.Time, version string, st store.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data := healthData{
			Status:   "ok",
			Uptime:   time.Since(startTime).String(),
			Version:  version,
			Database: "ok",
		}
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			data.Status = "degraded"
			data.Database = "error: " + err.Error()
			code = http.StatusServiceUnavailable
		}

		httpx.WriteMessage(w, code, "readiness", data)
	}
}
