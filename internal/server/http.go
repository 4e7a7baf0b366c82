package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const (
	// DefaultHTTPAddr is the default listen address of the streamable HTTP transport.
	DefaultHTTPAddr = ":8080"

	// DefaultEndpointPath is the path the MCP endpoint is served on.
	DefaultEndpointPath = "/mcp"
)

// HTTPServerConfig holds configuration for the streamable HTTP transport.
type HTTPServerConfig struct {
	// Addr is the address to listen on (e.g., ":8080").
	Addr string

	// EndpointPath is the MCP endpoint path. Defaults to /mcp.
	EndpointPath string

	// Stateless disables MCP session tracking.
	Stateless bool
}

// HTTPServer serves the MCP streamable HTTP transport together with the
// health endpoints.
type HTTPServer struct {
	httpServer *http.Server
	handler    http.Handler
	health     *HealthChecker
	addr       string
}

// NewHTTPServer creates an HTTP server for mcpServer.
func NewHTTPServer(mcpServer *mcpserver.MCPServer, sc *ServerContext, config HTTPServerConfig) *HTTPServer {
	if config.Addr == "" {
		config.Addr = DefaultHTTPAddr
	}
	if config.EndpointPath == "" {
		config.EndpointPath = DefaultEndpointPath
	}

	s := &HTTPServer{
		health: NewHealthChecker(sc),
		addr:   config.Addr,
	}

	streamable := mcpserver.NewStreamableHTTPServer(mcpServer,
		mcpserver.WithEndpointPath(config.EndpointPath),
		mcpserver.WithStateLess(config.Stateless),
	)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestMetrics(sc))

	s.health.RegisterHealthEndpoints(r)
	r.Handle(config.EndpointPath, streamable)

	s.handler = r
	return s
}

// Handler returns the router.
func (s *HTTPServer) Handler() http.Handler {
	return s.handler
}

// Health returns the health checker of the server.
func (s *HTTPServer) Health() *HealthChecker {
	return s.health
}

// Addr returns the configured listen address.
func (s *HTTPServer) Addr() string {
	return s.addr
}

// Start starts the server in a blocking manner.
func (s *HTTPServer) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	slog.Info("starting streamable HTTP server", "addr", s.addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.health.SetReady(false)
	if s.httpServer != nil {
		slog.Info("shutting down streamable HTTP server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

// requestMetrics records http_requests_total and
// http_request_duration_seconds per route pattern.
func requestMetrics(sc *ServerContext) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			metrics := sc.Metrics()
			if metrics == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			path := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			metrics.RecordHTTPRequest(r.Context(), r.Method, path, status, time.Since(start))
		})
	}
}
