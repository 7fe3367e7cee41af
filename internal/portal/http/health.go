package http

import (
	"net/http"
	"time"

	"github.com/aussiebroadwan/tutorship/internal/storage"
	"github.com/aussiebroadwan/tutorship/pkg/httpx"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Uptime  string            `json:"uptime"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks"`
}

// HealthzHandler reports liveness plus the state of local storage.
func HealthzHandler(startTime time.Time, version string, st storage.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := healthResponse{
			Status:  "ok",
			Uptime:  time.Since(startTime).String(),
			Version: version,
			Checks:  map[string]string{"storage": "ok"},
		}
		code := http.StatusOK

		if err := st.Ping(r.Context()); err != nil {
			resp.Checks["storage"] = "error: " + err.Error()
			resp.Status = "degraded"
			code = http.StatusServiceUnavailable
		}

		httpx.WriteJSON(w, code, resp)
	}
}
