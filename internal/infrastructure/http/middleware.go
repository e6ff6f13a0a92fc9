package httptransport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/campusbazaar/marketplace/internal/pkg/logging"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// Metrics carries the RED metric vecs the middleware records into. Both
// fields may be nil.
type Metrics struct {
	Requests  *prometheus.CounterVec   // method, path, status
	Durations *prometheus.HistogramVec // method, path
}

// Observability wraps a handler with W3C trace-context extraction, an
// X-Request-ID, a request-scoped logger in the context, and HTTP metrics.
func Observability(base *zap.Logger, metrics Metrics) func(http.Handler) http.Handler {
	if base == nil {
		base = zap.L()
	}
	prop := otel.GetTextMapPropagator()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := prop.Extract(r.Context(), propagation.HeaderCarrier(r.Header))
			sc := trace.SpanContextFromContext(ctx)

			rid := r.Header.Get("X-Request-ID")
			if rid == "" {
				rid = uuid.NewString()
			}
			w.Header().Set("X-Request-ID", rid)

			fields := []zap.Field{zap.String("request_id", rid)}
			if sc.IsValid() {
				fields = append(fields,
					zap.String("trace_id", sc.TraceID().String()),
					zap.String("span_id", sc.SpanID().String()),
				)
			}
			reqLogger := base.With(fields...)
			ctx = logging.ContextWithLogger(ctx, reqLogger)

			start := time.Now()
			lrw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(lrw, r.WithContext(ctx))

			status := strconv.Itoa(lrw.status)
			if metrics.Requests != nil {
				metrics.Requests.WithLabelValues(r.Method, r.URL.Path, status).Inc()
			}
			if metrics.Durations != nil {
				metrics.Durations.WithLabelValues(r.Method, r.URL.Path).Observe(time.Since(start).Seconds())
			}

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", lrw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
