// Package cmd implements the command-line interface for mcp-todoist.
//
// This package provides the following commands:
//   - serve: Start the MCP server to provide Todoist tools for AI assistants
//   - check: Verify the configured Todoist API token
//   - generate-docs: Generate markdown documentation for all MCP tools
//   - version: Display version information
//
// The serve command is the default command when no subcommand is specified.
package cmd
