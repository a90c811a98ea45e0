package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"infinite-experiment/flightdeck/internal/auth"
	"infinite-experiment/flightdeck/internal/logging"
	"infinite-experiment/flightdeck/internal/metrics"
)

// MetricsMiddleware counts and times every request by chi route pattern and
// writes one access log line. Mount after RequestIDMiddleware.
func MetricsMiddleware(metricsReg *metrics.MetricsRegistry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			// chi fills the pattern in while routing, so read it afterwards
			pattern := "unknown"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				pattern = rctx.RoutePattern()
			}
			elapsed := time.Since(start)

			metricsReg.HTTPRequestsTotal.WithLabelValues(pattern, r.Method, strconv.Itoa(rec.statusCode)).Inc()
			metricsReg.HTTPRequestDuration.WithLabelValues(pattern, r.Method).Observe(elapsed.Seconds())

			fields := []interface{}{
				"request_id", auth.GetRequestID(r.Context()),
				"method", r.Method,
				"endpoint", pattern,
				"status_code", rec.statusCode,
				"duration_ms", elapsed.Milliseconds(),
			}
			if rec.statusCode >= http.StatusInternalServerError {
				logging.Error("HTTP request failed", fields...)
				return
			}
			logging.Info("HTTP request completed", fields...)
		})
	}
}

// InFlightMiddleware tracks requests currently being served per route group.
func InFlightMiddleware(metricsReg *metrics.MetricsRegistry, group string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metricsReg.HTTPRequestsInFlight.WithLabelValues(group).Inc()
			defer metricsReg.HTTPRequestsInFlight.WithLabelValues(group).Dec()
			next.ServeHTTP(w, r)
		})
	}
}

// RequestIDMiddleware keeps a caller-supplied X-Request-ID or mints one, and
// echoes it on the response.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		next.ServeHTTP(w, r.WithContext(auth.SetRequestID(r.Context(), requestID)))
	})
}

// statusRecorder remembers the first status written. A body written without
// an explicit header counts as 200.
type statusRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.wroteHeader {
		return
	}
	r.statusCode = code
	r.wroteHeader = true
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	return r.ResponseWriter.Write(b)
}
