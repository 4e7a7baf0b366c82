// Package common provides shared utilities for MCP tool implementations:
// the instrumentation and error normalization middleware every tool is
// wrapped with, and helpers for reading loosely typed tool arguments.
package common
