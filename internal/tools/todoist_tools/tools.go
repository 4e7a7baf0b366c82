package todoist_tools

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/teemow/mcp-todoist/internal/operations"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/todoist"
	"github.com/teemow/mcp-todoist/internal/tools/common"
)

// RegisterTodoistTools registers all Todoist tools with the MCP server.
func RegisterTodoistTools(s *mcpserver.MCPServer, sc *server.ServerContext, readOnly bool) error {
	if s == nil {
		return fmt.Errorf("mcp server is required")
	}
	if sc == nil {
		return fmt.Errorf("server context is required")
	}

	registerTaskTools(s, sc, readOnly)
	registerProjectTools(s, sc, readOnly)
	registerLabelTools(s, sc, readOnly)
	return nil
}

// addTool registers a tool wrapped with the instrumentation middleware.
func addTool(s *mcpserver.MCPServer, sc *server.ServerContext, tool mcp.Tool, entity, operation string, handler common.ToolHandler) {
	s.AddTool(tool, common.InstrumentedToolHandler(tool.Name, entity, operation, sc, handler))
}

// withInteger is mcp.WithNumber with the JSON Schema type "integer".
func withInteger(name string, opts ...mcp.PropertyOption) mcp.ToolOption {
	return mcp.WithNumber(name, append(opts, func(schema map[string]any) {
		schema["type"] = "integer"
	})...)
}

func limitOption() mcp.ToolOption {
	return withInteger("limit",
		mcp.Description(fmt.Sprintf("Maximum number of results to return (1-%d)", operations.MaxLimit)),
		mcp.Min(1),
		mcp.Max(operations.MaxLimit),
		mcp.DefaultNumber(operations.DefaultLimit),
	)
}

func colorOption(description string) mcp.ToolOption {
	return mcp.WithString("color",
		mcp.Description(description),
		mcp.Enum(todoist.Colors...),
	)
}

func priorityOption(description string, opts ...mcp.PropertyOption) mcp.ToolOption {
	opts = append([]mcp.PropertyOption{
		mcp.Description(description),
		mcp.Min(1),
		mcp.Max(4),
	}, opts...)
	return withInteger("priority", opts...)
}
