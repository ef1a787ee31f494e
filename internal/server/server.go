package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/alonatarawproperties-hub/roachygames-sub005/docs"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/handler"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/hunt"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/logger"
	"github.com/alonatarawproperties-hub/roachygames-sub005/internal/metrics"
)

// Config holds the HTTP surface settings
type Config struct {
	Port           int
	APIKey         string
	TrustedProxies []string
	Version        string
}

type Server struct {
	httpServer *http.Server
}

// NewServer wires the hunt API behind the gateway middleware stack
func NewServer(cfg Config, store handler.Pinger, huntSvc hunt.Service, reset handler.DailyResetTrigger, events handler.EventLogReader) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", cfg.Port),
			Handler:           NewRouter(cfg, store, huntSvc, reset, events),
			ReadHeaderTimeout: ReadHeaderTimeout,
		},
	}
}

// NewRouter builds the route table. Middleware runs outermost first.
func NewRouter(cfg Config, store handler.Pinger, huntSvc hunt.Service, reset handler.DailyResetTrigger, events handler.EventLogReader) chi.Router {
	r := chi.NewRouter()
	detector := NewSuspiciousActivityDetector()

	r.Use(middleware.Recoverer)
	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(cfg.APIKey, cfg.TrustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(cfg.TrustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(store))
	r.Get("/version", handler.HandleVersion(cfg.Version))
	r.Handle("/metrics", promhttp.Handler())

	huntHandler := handler.NewHuntHandler(huntSvc)
	adminHandler := handler.NewAdminHandler(huntSvc, reset, events)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(RequestTimeout))

		r.Route("/spawns", func(r chi.Router) {
			r.Get("/nearby", huntHandler.HandleNearby)
			r.Route("/{spawnID}", func(r chi.Router) {
				r.Post("/reserve", huntHandler.HandleReserve)
				r.Post("/arrive", huntHandler.HandleArrive)
				r.Post("/catch", huntHandler.HandleCatch)
				r.Post("/abandon", huntHandler.HandleAbandon)
			})
		})

		r.Get("/progress", huntHandler.HandleProgress)
		r.Get("/catches", huntHandler.HandleCatches)
		r.Post("/warmth/spend", huntHandler.HandleSpendWarmth)

		r.Route("/admin", func(r chi.Router) {
			r.Post("/spawns", adminHandler.HandleCreateSpawn)
			r.Post("/sweep", adminHandler.HandleSweep)
			r.Post("/daily-reset", adminHandler.HandleDailyReset)
			r.Get("/events", adminHandler.HandleListEvents)
		})
	})

	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func isProbePath(path string) bool {
	return strings.HasPrefix(path, "/healthz") ||
		strings.HasPrefix(path, "/readyz") ||
		strings.HasPrefix(path, "/metrics")
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isProbePath(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		ctx := logger.WithRequestID(r.Context(), logger.GenerateRequestID())
		r = r.WithContext(ctx)
		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength)

		if log.Enabled(ctx, slog.LevelDebug) {
			sanitized := make(http.Header, len(r.Header))
			for k, v := range r.Header {
				if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
					sanitized[k] = []string{RedactedValue}
				} else {
					sanitized[k] = v
				}
			}
			log.Debug(LogMsgRequestHeaders, "headers", sanitized)
		}

		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds())
	})
}

// Start serves until Stop; it returns http.ErrServerClosed after a clean stop
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
