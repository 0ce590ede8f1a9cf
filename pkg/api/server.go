package api

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// apiPrefix is the path prefix of every query endpoint.
const apiPrefix = "/api/v1"

// ServerConfig holds server configuration.
type ServerConfig struct {
	Addr          string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxConcurrent int
	CORSOrigin    string
	QueryTimeout  time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig(addr string) ServerConfig {
	return ServerConfig{
		Addr:          addr,
		ReadTimeout:   5 * time.Second,
		WriteTimeout:  10 * time.Second,
		MaxConcurrent: runtime.NumCPU() * 2,
		CORSOrigin:    "",
		QueryTimeout:  5 * time.Second,
	}
}

// NewRouter registers all routes and middleware.
func NewRouter(cfg ServerConfig, h *Handlers) http.Handler {
	r := mux.NewRouter()

	// Concurrency limiter.
	sem := make(chan struct{}, cfg.MaxConcurrent)

	r.HandleFunc(apiPrefix+"/route", withMiddleware(h.HandleRoute, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/articulation", withMiddleware(h.HandleArticulation, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/roads", withMiddleware(h.HandleRoads, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/roads/{id}", withMiddleware(h.HandleRoad, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/intersections/{id}", withMiddleware(h.HandleIntersection, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/nearest", withMiddleware(h.HandleNearest, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/health", withMiddleware(h.HandleHealth, sem, cfg)).Methods(http.MethodGet)
	r.HandleFunc(apiPrefix+"/stats", withMiddleware(h.HandleStats, sem, cfg)).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	var handler http.Handler = r
	if cfg.CORSOrigin != "" {
		handler = handlers.CORS(
			handlers.AllowedOrigins([]string{cfg.CORSOrigin}),
			handlers.AllowedMethods([]string{http.MethodGet}),
		)(handler)
	}
	return handlers.CompressHandler(handler)
}

// NewServer creates an HTTP server with all routes and middleware.
func NewServer(cfg ServerConfig, h *Handlers) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      NewRouter(cfg, h),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}

// ListenAndServe starts the server and blocks until shutdown signal.
func ListenAndServe(srv *http.Server) error {
	// Graceful shutdown on SIGTERM/SIGINT.
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGTERM, syscall.SIGINT)

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Printf("Received %s, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}

// withMiddleware wraps a handler with logging, recovery, security headers,
// concurrency limiting and the query timeout.
func withMiddleware(handler http.HandlerFunc, sem chan struct{}, cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Security headers.
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		// Concurrency limiter.
		select {
		case sem <- struct{}{}:
			defer func() { <-sem }()
		default:
			w.Header().Set("Retry-After", "1")
			http.Error(w, `{"error":"service_unavailable"}`, http.StatusServiceUnavailable)
			return
		}

		// Recovery.
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("panic: %v", rec)
				http.Error(w, `{"error":"internal_error"}`, http.StatusInternalServerError)
			}
		}()

		// Request timeout.
		timeout := cfg.QueryTimeout
		if timeout <= 0 {
			timeout = 5 * time.Second
		}
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		start := time.Now()
		handler(w, r.WithContext(ctx))
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start).Round(time.Microsecond))
	}
}
