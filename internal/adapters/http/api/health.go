package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/birdhunt/pkg/metrics"
)

// HandleHealth serves GET /healthz as the Prometheus exposition of the
// service registry. A 200 means the process is up.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
