package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// logTransport gives every outbound request a correlation ID and a pair
// of structured log lines, the request-scoped-logger pattern applied to
// the client side of the wire.
type logTransport struct {
	next http.RoundTripper
}

func newLogTransport(next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}

	return &logTransport{next: next}
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {

	start := time.Now()

	correlationID := req.Header.Get("X-Request-ID")
	if correlationID == "" {
		correlationID = uuid.NewString()
		req.Header.Set("X-Request-ID", correlationID)
	}

	requestLogger := slog.Default().With(
		slog.String("correlation_id", correlationID),
		slog.String("http_method", req.Method),
		slog.String("http_path", req.URL.Path),
	)

	requestLogger.Debug("Outgoing request")

	resp, err := t.next.RoundTrip(req)
	if err != nil {
		requestLogger.Warn("Request failed", slog.String("error", err.Error()), slog.Duration("duration", time.Since(start)))

		return nil, err
	}

	requestLogger.Debug("Request completed", slog.Int("http_status", resp.StatusCode), slog.Duration("duration", time.Since(start)))

	return resp, nil
}
