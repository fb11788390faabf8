package handler

import (
	"fmt"
	"net/http"

	"github.com/taskhive/taskhive/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "taskhive_users_registered_total %d\n", snap.UsersRegistered)
	writeMetric(w, "taskhive_logins_total{status=\"success\"} %d\n", snap.LoginSuccesses)
	writeMetric(w, "taskhive_logins_total{status=\"failure\"} %d\n", snap.LoginFailures)

	writeMetric(w, "taskhive_tokens_revoked_total %d\n", snap.TokensRevoked)
	writeMetric(w, "taskhive_token_verifications_total{outcome=\"ok\"} %d\n", snap.VerificationsOK)
	writeMetric(w, "taskhive_token_verifications_total{outcome=\"denied\"} %d\n", snap.VerificationsDenied)

	writeMetric(w, "taskhive_tasks_created_total %d\n", snap.TasksCreated)
	writeMetric(w, "taskhive_tasks_updated_total %d\n", snap.TasksUpdated)
	writeMetric(w, "taskhive_tasks_deleted_total %d\n", snap.TasksDeleted)
	writeMetric(w, "taskhive_ownership_denials_total %d\n", snap.OwnershipDenials)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
