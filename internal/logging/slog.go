package logging

import (
	"fmt"
	"log/slog"
)

// Attribute keys shared by every log record of the server.
const (
	KeyOperation = "operation"
	KeyEntity    = "entity"
	KeyID        = "id"
	KeyStatus    = "status"
	KeyKind      = "kind"
	KeyError     = "error"
	KeyTool      = "tool"
)

// ForTool returns a logger scoped to one MCP tool. Empty entity or
// operation values are left out.
func ForTool(logger *slog.Logger, tool, entity, operation string) *slog.Logger {
	args := []any{slog.String(KeyTool, tool)}
	if entity != "" {
		args = append(args, slog.String(KeyEntity, entity))
	}
	if operation != "" {
		args = append(args, Operation(operation))
	}
	return logger.With(args...)
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// ID returns a slog attribute for a Todoist identifier.
func ID(id string) slog.Attr {
	return slog.String(KeyID, id)
}

// Status returns a slog attribute for the outcome of a call.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Kind returns a slog attribute for an error taxonomy kind.
func Kind(kind string) slog.Attr {
	return slog.String(KeyKind, kind)
}

// Err returns a slog attribute for an error. A nil error yields an empty
// group, which slog omits.
//
//	logger.Info("task updated", logging.Err(err))
func Err(err error) slog.Attr {
	if err == nil {
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// SanitizeToken masks an API token. Only its length is shown.
func SanitizeToken(token string) string {
	if token == "" {
		return "<empty>"
	}
	return fmt.Sprintf("[token:%d chars]", len(token))
}
