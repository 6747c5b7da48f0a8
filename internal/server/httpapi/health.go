package httpapi

import (
	"context"
	"net/http"
	"time"
)

type healthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Env       map[string]string `json:"env,omitempty"`
}

func (a *API) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Timestamp: a.now().UTC(), Database: "ok"}
	code := http.StatusOK

	if err := a.db.PingContext(ctx); err != nil {
		a.logger.Warn(r.Context(), "health check: database unreachable", "error", err)
		resp.Status = "degraded"
		resp.Database = "unreachable"
		code = http.StatusServiceUnavailable
	}

	if len(a.opts.EnvChecks) > 0 {
		resp.Env = make(map[string]string, len(a.opts.EnvChecks))
		for name, set := range a.opts.EnvChecks {
			if set {
				resp.Env[name] = "set"
			} else {
				resp.Env[name] = "missing"
			}
		}
	}

	writeJSON(w, code, resp)
}
