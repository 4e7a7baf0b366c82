package server

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/teemow/mcp-todoist/internal/config"
	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/operations"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

// ServerContext holds the context for the MCP server
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	cfg         *config.Config
	remote      operations.Remote
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	logger      *slog.Logger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. A nil cfg uses the
// defaults; a nil logger uses slog.Default().
func NewServerContext(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*ServerContext, error) {
	if cfg == nil {
		cfg = config.Default("")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}

	if !cfg.HasToken() {
		logger.Warn("no Todoist API token configured, tool calls will fail until " + config.EnvAPIToken + " is set")
	}

	shutdownCtx, cancel := context.WithCancel(ctx)
	return &ServerContext{
		ctx:    shutdownCtx,
		cancel: cancel,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Config returns the resolved configuration.
func (sc *ServerContext) Config() *config.Config {
	return sc.cfg
}

// Logger returns the server logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// Remote returns the Todoist client, creating it on first use. Creation
// fails with an AuthenticationError while no token is configured and is
// retried on the next call.
func (sc *ServerContext) Remote() (operations.Remote, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.remote != nil {
		return sc.remote, nil
	}

	client, err := todoist.NewClient(sc.cfg.APIToken,
		todoist.WithBaseURL(sc.cfg.APIURL),
		todoist.WithTimeout(sc.cfg.Timeout()),
		todoist.WithRetry(sc.cfg.RateLimitRetry),
		todoist.WithMetrics(sc.metrics),
		todoist.WithLogger(sc.logger),
	)
	if err != nil {
		return nil, err
	}
	sc.remote = client
	return client, nil
}

// SetRemote replaces the Todoist client.
func (sc *ServerContext) SetRemote(remote operations.Remote) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.remote = remote
}

// Operations returns an operations service bound to the Todoist client.
func (sc *ServerContext) Operations() (*operations.Service, error) {
	remote, err := sc.Remote()
	if err != nil {
		return nil, err
	}
	return operations.NewService(remote, logging.NewSlogAdapter(sc.logger)), nil
}

// Metrics returns the metrics recorder, or nil when instrumentation is off.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetMetrics sets the metrics recorder. A client created earlier is dropped
// so the next one records API metrics too.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	if _, ok := sc.remote.(*todoist.Client); ok {
		sc.remote = nil
	}
}

// AuditLogger returns the audit logger, or nil when auditing is off.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// SetAuditLogger sets the audit logger.
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	sc.logger.Debug("server context shut down", "config", fmt.Sprint(sc.cfg))
	return nil
}
