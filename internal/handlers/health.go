package handlers

import (
	"net/http"

	"github.com/pysugar/push-to-notion/internal/version"
)

// HealthHandler reports liveness and the build version.
// GET /healthz
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": version.Version,
			"commit":  version.Commit,
		})
	}
}
