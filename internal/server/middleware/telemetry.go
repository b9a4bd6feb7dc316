package middleware

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/karan399/milkman/internal/telemetry"
)

// EventHTTPRequest is the telemetry event type emitted for every request.
const EventHTTPRequest = "http_request"

// httpRequestMetadata is the JSON shape stored in Event.Metadata for http_request events.
type httpRequestMetadata struct {
	Method     string `json:"method"`
	Route      string `json:"route"`
	StatusCode int    `json:"status_code"`
	DurationMs int64  `json:"duration_ms"`
	ClientIP   string `json:"client_ip"`
}

// Telemetry emits an http_request event after each request. Best-effort: failures are logged and do not
// affect the response. If emitter is nil, the middleware is a pass-through. skipRoutes holds chi route
// patterns (e.g. /healthz) to not emit.
func Telemetry(emitter telemetry.EventEmitter, log *zap.Logger, skipRoutes map[string]bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if emitter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
				route = rc.RoutePattern()
			}
			if skipRoutes[route] {
				return
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			meta, _ := json.Marshal(httpRequestMetadata{
				Method:     r.Method,
				Route:      route,
				StatusCode: status,
				DurationMs: time.Since(start).Milliseconds(),
				ClientIP:   RequestIP(r),
			})
			telemetry.EmitAsync(emitter, log, &telemetry.Event{
				EventType: EventHTTPRequest,
				Source:    telemetry.SourceAPI,
				Metadata:  meta,
				CreatedAt: time.Now().UTC(),
			})
		})
	}
}
