package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/devghori1264/aerophoenix/robot-service/internal/metrics"
)

// RegisterMetrics registers the Prometheus handler on the router.
func RegisterMetrics(r *mux.Router, m *metrics.Metrics) {
	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
}

// RegisterProbes registers the liveness and readiness probes.
func RegisterProbes(r *mux.Router) {
	ok := func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
	r.HandleFunc("/healthz", ok).Methods(http.MethodGet)
	r.HandleFunc("/readyz", ok).Methods(http.MethodGet)
}
