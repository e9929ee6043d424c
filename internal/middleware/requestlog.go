// internal/middleware/requestlog.go
//
// Access logging and latency metrics.
//
// One structured line per request at info level (debug for /metrics and
// /healthz) carrying method, path, status, bytes, duration, and the chi
// request id.  The latency histogram is labelled with the chi route
// pattern, not the raw path, so ids do not explode label cardinality.

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/linkbio/internal/metrics"
)

// RequestLog logs and times every request.
func RequestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)

		route := "unmatched"
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		metrics.HTTPRequestDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(elapsed.Seconds())

		lvl := zap.InfoLevel
		if r.URL.Path == "/metrics" || r.URL.Path == "/healthz" {
			lvl = zap.DebugLevel
		}
		if ce := zap.L().Check(lvl, "http request"); ce != nil {
			ce.Write(
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("route", route),
				zap.Int("status", status),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", elapsed),
				zap.String("request_id", chimw.GetReqID(r.Context())),
			)
		}
	})
}
