package metrics

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "storefront_api_requests_total",
			Help: "Total number of requests issued to the shop API.",
		},
		[]string{"code", "method", "endpoint"},
	)
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "storefront_api_request_duration_seconds",
			Help:    "Duration of shop API requests in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	apiRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "storefront_api_requests_in_flight",
			Help: "Current number of shop API requests in flight.",
		},
	)
)

func init() {
	if err := prometheus.Register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{})); err != nil {
		slog.Debug("ProcessCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}

	if err := prometheus.Register(collectors.NewGoCollector()); err != nil {
		slog.Debug("GoCollector registration skipped (likely already registered)",
			slog.String("error", err.Error()))
	}
}

type roundTripper struct {
	next http.RoundTripper
}

// RoundTripper instruments outbound API requests. Numeric path segments
// collapse to {id} so every product detail page shares one label.
func RoundTripper(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &roundTripper{next: next}
}

func (rt *roundTripper) RoundTrip(req *http.Request) (*http.Response, error) {

	start := time.Now()
	apiRequestsInFlight.Inc()

	endpoint := endpointLabel(req.URL.Path)

	resp, err := rt.next.RoundTrip(req)

	duration := time.Since(start)
	apiRequestsInFlight.Dec()

	code := "error"
	if err == nil {
		code = strconv.Itoa(resp.StatusCode)
	}

	apiRequestsTotal.WithLabelValues(code, req.Method, endpoint).Inc()
	apiRequestDuration.WithLabelValues(req.Method, endpoint).Observe(duration.Seconds())

	return resp, err
}

func endpointLabel(path string) string {
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if seg == "" {
			continue
		}

		if _, err := strconv.Atoi(seg); err == nil {
			segments[i] = "{id}"
		}
	}

	return strings.Join(segments, "/")
}

// http.Handler for the Prometheus /metrics endpoint
func Handler() http.Handler {

	return promhttp.Handler()
}
