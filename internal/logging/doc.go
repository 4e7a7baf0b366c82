// Package logging provides structured logging utilities for mcp-todoist.
//
// Logs are written with log/slog to stderr; stdout carries the stdio MCP
// transport and must never receive log output.
//
// # Usage Patterns
//
// Build the process logger from configuration:
//
//	level, err := logging.ParseLevel(cfg.LogLevel)
//	logger := logging.New(level, cfg.Debug)
//
// Create a logger with standard attributes:
//
//	logger := logging.ForTool(logger, "create-task", "task", "create")
//	logger.Info("task created", logging.ID(task.ID))
//
// API tokens are never logged directly; use SanitizeToken.
package logging
