// Package todoist provides the Todoist client used by the MCP server.
//
// The package is organised in layers:
//
//   - RESTClient talks HTTP/JSON to the Todoist REST v2 API. Authentication,
//     request ids, retries for rate limited responses and tracing are handled
//     by the http.RoundTripper chain built in transport.go.
//   - Client is the facade used by the rest of the application. Every method
//     performs exactly one remote round-trip and maps failures into the error
//     taxonomy (ValidationError, AuthenticationError, ServiceError).
//   - Resolver maps human readable project and label names to identifiers.
//   - FilterSpec composes Todoist filter expressions from independent flags.
//
// Normalize is the single place where arbitrary errors are converted into
// the taxonomy before they are reported to a tool caller.
package todoist
