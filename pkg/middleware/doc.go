// Package middleware provides HTTP middleware for the graft live server.
//
// This package includes:
//   - OpenTelemetry request tracing
//   - Prometheus request and session metrics
//
// # OpenTelemetry Middleware
//
// OpenTelemetry starts a server span for each request, named after the
// method and the matched chi route:
//
//	r := chi.NewRouter()
//	r.Use(middleware.OpenTelemetry(
//	    middleware.WithTracerName("graft"),
//	    middleware.WithFilter(func(r *http.Request) bool {
//	        return r.URL.Path != "/healthz"
//	    }),
//	))
//
// # Prometheus Metrics
//
// NewMetrics registers these collectors:
//   - graft_http_requests_total: requests by route and status class
//   - graft_http_request_duration_seconds: request duration histogram
//   - graft_active_sessions: open live sessions
//   - graft_frames_sent_total: frames written to sessions by type
//   - graft_frame_bytes_total: encoded frame bytes written
//   - graft_session_errors_total: session failures by error category
//
//	m := middleware.NewMetrics(middleware.WithRegistry(reg))
//	r.Use(m.Handler)
package middleware
