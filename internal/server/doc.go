// Package server provides the MCP server context and the HTTP servers of
// mcp-todoist.
//
// # Key Components
//
// ServerContext carries the resolved configuration and lazily creates the
// Todoist client on first use. It also holds the optional metrics recorder
// and audit logger used by the tool middleware.
//
// HTTPServer serves the streamable HTTP transport on a chi router:
//   - /mcp: the MCP endpoint
//   - /healthz, /readyz, /healthz/detailed: Kubernetes probes
//
// MetricsServer exposes Prometheus metrics on a dedicated address so that
// operational data stays off the main listener.
//
// Readiness fails while no Todoist API token is configured, since every tool
// call would be rejected.
package server
