// Package httpserver builds the process HTTP server and its ops router.
package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"cohort/internal/platform/metrics"
	dErrors "cohort/pkg/domain-errors"
	"cohort/pkg/platform/httputil"
	"cohort/pkg/platform/middleware/metadata"
	"cohort/pkg/platform/middleware/requesttime"
	"cohort/pkg/requestcontext"
)

// DefaultProbeTimeout bounds each readiness check.
const DefaultProbeTimeout = 2 * time.Second

// New builds an HTTP server with sane defaults for this project.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Check is one readiness dependency.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// OpsConfig configures the ops router.
type OpsConfig struct {
	Registry     *prometheus.Registry
	Metrics      *metrics.Metrics
	Logger       *slog.Logger
	Checks       []Check
	ProbeTimeout time.Duration
}

// NewOpsRouter serves /healthz, /readyz and /metrics.
func NewOpsRouter(cfg OpsConfig) http.Handler {
	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(metadata.RequestID)
	r.Use(metadata.ClientMetadata)
	r.Use(requesttime.Middleware)
	r.Use(accessLog(cfg.Logger, cfg.Metrics))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", readiness(cfg))
	if cfg.Registry != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(cfg.Registry))
	}
	return r
}

func readiness(cfg OpsConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		results := make(map[string]string, len(cfg.Checks))
		var failed []string
		for _, check := range cfg.Checks {
			ctx, cancel := context.WithTimeout(r.Context(), cfg.ProbeTimeout)
			err := check.Probe(ctx)
			cancel()

			if cfg.Metrics != nil {
				cfg.Metrics.IncReadinessCheck(check.Name, err == nil)
			}
			if err != nil {
				results[check.Name] = "unavailable"
				failed = append(failed, check.Name)
				if cfg.Logger != nil {
					cfg.Logger.WarnContext(r.Context(), "readiness check failed",
						"dependency", check.Name,
						"request_id", requestcontext.RequestID(r.Context()),
						"error", err,
					)
				}
				continue
			}
			results[check.Name] = "ok"
		}
		if len(failed) > 0 {
			httputil.WriteJSON(w, httputil.StatusFor(dErrors.CodeUnavailable), map[string]any{
				"status": "unavailable",
				"checks": results,
			})
			return
		}
		httputil.WriteJSON(w, http.StatusOK, map[string]any{
			"status": "ok",
			"checks": results,
		})
	}
}

func accessLog(logger *slog.Logger, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			if m != nil {
				m.IncHTTPRequest(route, strconv.Itoa(status))
			}
			if logger != nil {
				logger.DebugContext(r.Context(), "request served",
					"route", route,
					"status", status,
					"duration", time.Since(start),
					"client_ip", metadata.GetClientIP(r.Context()),
					"request_id", requestcontext.RequestID(r.Context()),
				)
			}
		})
	}
}
