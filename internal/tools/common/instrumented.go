package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

// ToolHandler is the signature of an MCP tool handler.
type ToolHandler = mcpserver.ToolHandlerFunc

// Argument names that carry the id of the entity a tool acts on.
var resourceIDArgs = []string{"task_id", "project_id", "label_id"}

// InstrumentedToolHandler wraps a tool handler with tracing, metrics, audit
// logging and error normalization.
//
// Handlers return plain Go errors. Any returned error is normalized into the
// todoist error taxonomy and converted into an MCP error result, so the
// wrapped handler never returns an error itself.
//
// Usage:
//
//	s.AddTool(tool, common.InstrumentedToolHandler("list-tasks", "task", "list", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	entity string,
	operation string,
	sc *server.ServerContext,
	handler ToolHandler,
) ToolHandler {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		resourceID := ResourceID(request.GetArguments())

		attrs := instrumentation.NewSpanAttributeBuilder().
			WithEntity(entity, operation).
			WithResourceID(resourceID)
		if sc != nil {
			attrs.WithReadOnly(sc.Config().ReadOnly)
		}
		ctx, span := instrumentation.StartToolSpan(ctx, toolName, attrs.Build()...)
		defer span.End()

		start := time.Now()
		invocation := instrumentation.NewToolInvocation(toolName).
			WithEntity(entity, operation).
			WithResourceID(resourceID).
			WithSpanContext(ctx)

		result, err := handler(ctx, request)
		duration := time.Since(start)

		status := instrumentation.StatusSuccess
		kind := ""
		switch {
		case err != nil:
			err = todoist.Normalize(toolName, err)
			kind = todoist.Kind(err)
			status = instrumentation.StatusError

			instrumentation.SetSpanErrorKind(span, err, kind)
			invocation.CompleteWithError(err, kind)
			if sc != nil {
				logging.ForTool(sc.Logger(), toolName, entity, operation).Debug("tool call failed",
					logging.Kind(kind), logging.Err(err))
			}
			result = mcp.NewToolResultError("Error: " + err.Error())
		case result != nil && result.IsError:
			status = instrumentation.StatusError
			invocation.Complete(false, nil)
		default:
			instrumentation.SetSpanSuccess(span)
			invocation.CompleteSuccess()
		}

		if sc == nil {
			return result, nil
		}

		if metrics := sc.Metrics(); metrics != nil {
			metrics.RecordToolInvocationWithEntity(ctx, toolName, status, entity, kind, duration)
		}

		if auditLogger := sc.AuditLogger(); auditLogger != nil {
			auditLogger.LogToolInvocation(invocation)
		}

		return result, nil
	}
}

// ResourceID returns the first entity id found in the tool arguments.
func ResourceID(args map[string]any) string {
	for _, key := range resourceIDArgs {
		if id, ok := args[key].(string); ok && id != "" {
			return id
		}
	}
	return ""
}
