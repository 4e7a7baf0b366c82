// Package instrumentation provides OpenTelemetry metrics, tracing and audit
// logging for the mcp-todoist server.
//
// # Metrics
//
// Server/HTTP Metrics (streamable HTTP transport only):
//   - http_requests_total: Counter of HTTP requests by method, path, and status
//   - http_request_duration_seconds: Histogram of HTTP request durations
//
// Todoist API Metrics:
//   - todoist_api_operations_total: Counter of facade calls by operation and status
//   - todoist_api_operation_duration_seconds: Histogram of facade call durations
//   - todoist_api_errors_total: Counter of failures by operation and error kind
//
// MCP Tool Metrics:
//   - mcp_tool_invocations_total: Counter of MCP tool invocations by tool name and status
//   - mcp_tool_duration_seconds: Histogram of MCP tool execution durations
//
// # Tracing
//
// Spans are created for MCP tool invocations (tool.<name>), facade calls
// (todoist.<operation>) and the underlying HTTP requests (todoist.http <method>).
//
// # Configuration
//
// Instrumentation is configured via environment variables:
//   - INSTRUMENTATION_ENABLED: Enable/disable instrumentation (default: true)
//   - METRICS_EXPORTER: prometheus, otlp, stdout (default: prometheus)
//   - TRACING_EXPORTER: otlp, stdout, none (default: none)
//   - OTEL_EXPORTER_OTLP_ENDPOINT: OTLP endpoint for traces/metrics
//   - OTEL_TRACES_SAMPLER_ARG: Sampling rate (0.0 to 1.0, default: 0.1)
//   - OTEL_METRIC_EXPORT_INTERVAL: Push interval for otlp/stdout metrics (default: 10s)
//   - OTEL_SERVICE_NAME: Service name (default: mcp-todoist)
//   - PROMETHEUS_ENDPOINT: Path of the metrics endpoint (default: /metrics)
//   - AUDIT_LOGGING_ENABLED: Tool audit log (default: true)
//
// # Example Usage
//
//	provider, err := instrumentation.NewProvider(ctx, instrumentation.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	defer provider.Shutdown(ctx)
//
//	recorder := provider.Metrics()
//	recorder.RecordTodoistAPIOperation(ctx, "get tasks", instrumentation.StatusSuccess, time.Since(start))
//	recorder.RecordToolInvocation(ctx, "list-tasks", instrumentation.StatusSuccess, time.Since(start))
package instrumentation
