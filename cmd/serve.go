package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/teemow/mcp-todoist/internal/config"
	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/tools/todoist_tools"
)

// Supported transports.
const (
	transportStdio          = "stdio"
	transportStreamableHTTP = "streamable-http"
)

const serverInstructions = `Tools for managing the user's Todoist account.
Tasks, projects and labels can be referenced by id or by name; names are
matched case-insensitively. Task priorities range from 1 (low) to 4 (urgent).`

// MetricsConfig holds configuration for the metrics server
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server (default: true)
	Enabled bool

	// Addr is the address for the metrics server (e.g., ":9090")
	Addr string
}

// serveOptions holds the serve command flags.
type serveOptions struct {
	configFile string
	transport  string
	httpAddr   string
	debug      bool
	readOnly   bool
	stateless  bool
	metrics    MetricsConfig
}

func newServeCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server",
		Long: `Start the Model Context Protocol (MCP) server to provide Todoist tools
for AI assistants.

Supports multiple transport types:
  - stdio: Standard input/output (default)
  - streamable-http: Streamable HTTP transport with health endpoints

Configuration:
  The Todoist API token is read from TODOIST_API_TOKEN. Other settings come
  from an optional YAML file (--config or MCP_TODOIST_CONFIG), then from
  environment variables, then from flags.

Read-only Mode:
  With --read-only (or MCP_READ_ONLY=true) only the list tools are
  registered.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			applyServeFlags(cmd, cfg, &opts)
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cfg, opts)
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "Path to a YAML configuration file. Can also use MCP_TODOIST_CONFIG env var.")
	cmd.Flags().StringVar(&opts.transport, "transport", transportStdio, "Transport type: stdio or streamable-http")
	cmd.Flags().StringVar(&opts.httpAddr, "http-addr", server.DefaultHTTPAddr, "HTTP server address (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "Enable debug logging. Can also use MCP_DEBUG env var.")
	cmd.Flags().BoolVar(&opts.readOnly, "read-only", false, "Only register tools that do not modify Todoist. Can also use MCP_READ_ONLY env var.")
	cmd.Flags().BoolVar(&opts.stateless, "stateless", false, "Disable MCP session tracking (for streamable-http transport)")
	cmd.Flags().BoolVar(&opts.metrics.Enabled, "metrics-enabled", true, "Enable the metrics server on a dedicated port. Can also use METRICS_ENABLED env var.")
	cmd.Flags().StringVar(&opts.metrics.Addr, "metrics-addr", server.DefaultMetricsAddr, "Metrics server address. Can also use METRICS_ADDR env var.")

	return cmd
}

// loadConfig reads the configuration file, if any, and the environment.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path, version)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}

// applyServeFlags applies the flags the user set explicitly. Environment
// variables only fill in flags that were not set.
func applyServeFlags(cmd *cobra.Command, cfg *config.Config, opts *serveOptions) {
	flags := cmd.Flags()
	if flags.Changed("debug") {
		cfg.Debug = opts.debug
	}
	if flags.Changed("read-only") {
		cfg.ReadOnly = opts.readOnly
	}

	if !flags.Changed("metrics-enabled") {
		if v, ok := os.LookupEnv("METRICS_ENABLED"); ok {
			opts.metrics.Enabled = v == "true"
		}
	}
	if !flags.Changed("metrics-addr") {
		if addr := os.Getenv("METRICS_ADDR"); addr != "" {
			opts.metrics.Addr = addr
		}
	}
}

// newLogger builds the process logger and reports configuration warnings.
func newLogger(cfg *config.Config) *slog.Logger {
	level, err := logging.ParseLevel(cfg.LogLevel)
	logger := logging.New(level, cfg.Debug)
	if err != nil {
		logger.Warn("invalid log level, using INFO", logging.Err(err))
	}
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}
	return logger
}

func newMCPServer(cfg *config.Config) *mcpserver.MCPServer {
	return mcpserver.NewMCPServer(cfg.ServerName, cfg.ServerVersion,
		mcpserver.WithToolCapabilities(true),
		mcpserver.WithRecovery(),
		mcpserver.WithInstructions(serverInstructions),
	)
}

func runServe(cfg *config.Config, opts serveOptions) error {
	// Setup graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cfg)
	slog.SetDefault(logger)
	logger.Info("starting mcp-todoist",
		"version", cfg.ServerVersion,
		"transport", opts.transport,
		"read_only", cfg.ReadOnly)
	logger.Debug("configuration", "config", cfg.String())

	// Initialize instrumentation provider
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = cfg.ServerVersion
	for _, warning := range instrConfig.Warnings {
		logger.Warn(warning, "component", "instrumentation")
	}

	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to create instrumentation provider: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()

	serverContext, err := server.NewServerContext(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create server context: %w", err)
	}
	defer func() {
		if err := serverContext.Shutdown(); err != nil {
			logger.Warn("server context shutdown failed", logging.Err(err))
		}
	}()

	// Set metrics and audit logger on server context for tool instrumentation
	if provider.Enabled() {
		serverContext.SetMetrics(provider.Metrics())
		serverContext.SetAuditLogger(instrumentation.NewAuditLoggerWithConfig(logger, instrConfig.AuditLogging))
	}

	mcpSrv := newMCPServer(cfg)
	if err := todoist_tools.RegisterTodoistTools(mcpSrv, serverContext, cfg.ReadOnly); err != nil {
		return fmt.Errorf("failed to register Todoist tools: %w", err)
	}
	if cfg.ReadOnly {
		logger.Info("read-only mode, only list tools are available")
	}

	switch opts.transport {
	case transportStdio:
		return runStdioServer(ctx, mcpSrv, logger)
	case transportStreamableHTTP:
		return runStreamableHTTPServer(ctx, mcpSrv, serverContext, opts, provider, logger)
	default:
		return fmt.Errorf("unsupported transport type: %s (supported: %s, %s)", opts.transport, transportStdio, transportStreamableHTTP)
	}
}

func runStdioServer(ctx context.Context, mcpSrv *mcpserver.MCPServer, logger *slog.Logger) error {
	stdio := mcpserver.NewStdioServer(mcpSrv)
	stdio.SetErrorLogger(slog.NewLogLogger(logger.Handler(), slog.LevelError))

	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("server stopped with error: %w", err)
	}
	return nil
}

func runStreamableHTTPServer(
	ctx context.Context,
	mcpSrv *mcpserver.MCPServer,
	serverContext *server.ServerContext,
	opts serveOptions,
	provider *instrumentation.Provider,
	logger *slog.Logger,
) error {
	// Start metrics server if enabled
	if opts.metrics.Enabled && provider.Enabled() {
		metricsServer, err := startMetricsServer(opts.metrics, provider, logger)
		if err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown failed", logging.Err(err))
			}
		}()
	}

	httpServer := server.NewHTTPServer(mcpSrv, serverContext, server.HTTPServerConfig{
		Addr:      opts.httpAddr,
		Stateless: opts.stateless,
	})

	logger.Info("streamable HTTP server starting",
		"addr", httpServer.Addr(),
		"endpoint", server.DefaultEndpointPath,
		"health", "/healthz, /readyz, /healthz/detailed")

	serverDone := make(chan error, 1)
	go func() {
		defer close(serverDone)
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverDone <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received, stopping HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), server.DefaultShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error shutting down HTTP server: %w", err)
		}
	case err := <-serverDone:
		if err != nil {
			return fmt.Errorf("HTTP server stopped with error: %w", err)
		}
	}

	logger.Info("HTTP server gracefully stopped")
	return nil
}

// startMetricsServer starts the metrics server and waits until it listens.
func startMetricsServer(cfg MetricsConfig, provider *instrumentation.Provider, logger *slog.Logger) (*server.MetricsServer, error) {
	metricsServer, err := server.NewMetricsServer(server.MetricsServerConfig{
		Addr:                    cfg.Addr,
		Enabled:                 true,
		InstrumentationProvider: provider,
		Logger:                  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics server: %w", err)
	}

	// Use ready channel to confirm metrics server started successfully
	metricsReady := make(chan struct{})
	metricsErr := make(chan error, 1)
	go func() {
		if err := metricsServer.StartWithReadySignal(metricsReady); err != nil && !errors.Is(err, http.ErrServerClosed) {
			metricsErr <- err
		}
		close(metricsErr)
	}()

	if err := waitForMetricsReady(metricsReady, metricsErr, metricsStartupTimeout); err != nil {
		return nil, err
	}
	return metricsServer, nil
}

const metricsStartupTimeout = 5 * time.Second

// waitForMetricsReady blocks until ready is closed, the server reports an
// error, or timeout passes. errs is closed when the server returns.
func waitForMetricsReady(ready <-chan struct{}, errs <-chan error, timeout time.Duration) error {
	select {
	case <-ready:
		return nil
	case err, ok := <-errs:
		if !ok || err == nil {
			return errors.New("metrics server stopped before it was ready")
		}
		return fmt.Errorf("metrics server failed to start: %w", err)
	case <-time.After(timeout):
		return errors.New("metrics server startup timed out")
	}
}
