// Package config resolves the mcp-todoist server configuration.
//
// Values come from built in defaults, an optional YAML file (--config or
// MCP_TODOIST_CONFIG), the environment and finally command line flags,
// each overriding the previous source. Example file:
//
//	api_token: 0123456789abcdef
//	request_timeout: 15
//	read_only: true
//
// The resolved Config is created once by the serve command and handed to
// the server context; nothing reads the environment after that.
package config
