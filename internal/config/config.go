package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

// Environment variables read by Load.
const (
	EnvConfigFile     = "MCP_TODOIST_CONFIG"
	EnvServerName     = "MCP_SERVER_NAME"
	EnvServerVersion  = "MCP_SERVER_VERSION"
	EnvLogLevel       = "MCP_LOG_LEVEL"
	EnvDebug          = "MCP_DEBUG"
	EnvReadOnly       = "MCP_READ_ONLY"
	EnvAPIToken       = "TODOIST_API_TOKEN"
	EnvAPIURL         = "TODOIST_API_URL"
	EnvRequestTimeout = "TODOIST_REQUEST_TIMEOUT"
	EnvRateLimitRetry = "TODOIST_RATE_LIMIT_RETRY"
	EnvServerConfig   = "TODOIST_SERVER_CONFIG_JSON"
)

// Defaults.
const (
	DefaultServerName     = "mcp-todoist"
	DefaultLogLevel       = "INFO"
	DefaultRequestTimeout = 30
)

// Sentinel errors.
var (
	ErrNotFound = errors.New("config file not found")
	ErrInvalid  = errors.New("invalid config")
)

// Config is the resolved server configuration. It is built once at start
// and passed to the components that need it.
type Config struct {
	ServerName     string         `yaml:"server_name"`
	ServerVersion  string         `yaml:"server_version"`
	LogLevel       string         `yaml:"log_level"`
	Debug          bool           `yaml:"debug"`
	ReadOnly       bool           `yaml:"read_only"`
	APIToken       string         `yaml:"api_token"`
	APIURL         string         `yaml:"api_url"`
	RequestTimeout int            `yaml:"request_timeout"`
	RateLimitRetry bool           `yaml:"rate_limit_retry"`
	Extra          map[string]any `yaml:"extra,omitempty"`

	// Warnings collects non fatal problems found while loading.
	Warnings []string `yaml:"-"`
}

// Default returns the built in configuration.
func Default(version string) *Config {
	return &Config{
		ServerName:     DefaultServerName,
		ServerVersion:  version,
		LogLevel:       DefaultLogLevel,
		APIURL:         todoist.DefaultBaseURL,
		RequestTimeout: DefaultRequestTimeout,
		RateLimitRetry: true,
		Extra:          map[string]any{},
	}
}

// Load resolves the configuration from defaults, an optional YAML file and
// the environment, in increasing order of precedence. An empty path falls
// back to MCP_TODOIST_CONFIG; no file at all is fine.
func Load(path, version string) (*Config, error) {
	return load(path, version, os.LookupEnv)
}

func load(path, version string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := Default(version)

	if path == "" {
		path, _ = lookup(EnvConfigFile)
	}
	if path != "" {
		if err := cfg.readFile(path); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv(lookup)
	return cfg, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parsing %s: %w", ErrInvalid, path, err)
	}
	if c.Extra == nil {
		c.Extra = map[string]any{}
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}
	boolean := func(key string, dst *bool) {
		v, ok := lookup(key)
		if !ok || v == "" {
			return
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			c.warn("ignoring %s=%q: not a boolean", key, v)
			return
		}
		*dst = parsed
	}

	str(EnvServerName, &c.ServerName)
	str(EnvServerVersion, &c.ServerVersion)
	str(EnvLogLevel, &c.LogLevel)
	boolean(EnvDebug, &c.Debug)
	boolean(EnvReadOnly, &c.ReadOnly)
	str(EnvAPIToken, &c.APIToken)
	str(EnvAPIURL, &c.APIURL)
	boolean(EnvRateLimitRetry, &c.RateLimitRetry)

	if v, ok := lookup(EnvRequestTimeout); ok && v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			c.warn("ignoring %s=%q: not an integer", EnvRequestTimeout, v)
		} else {
			c.RequestTimeout = secs
		}
	}

	if v, ok := lookup(EnvServerConfig); ok && v != "" {
		var extra map[string]any
		if err := json.Unmarshal([]byte(v), &extra); err != nil {
			c.warn("ignoring invalid JSON in %s: %v", EnvServerConfig, err)
		} else {
			for k, val := range extra {
				c.Extra[k] = val
			}
		}
	}
}

func (c *Config) warn(format string, args ...any) {
	c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
}

// Timeout returns the request timeout as a duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// HasToken reports whether an API token is configured.
func (c *Config) HasToken() bool {
	return c.APIToken != ""
}

// Validate checks values that would make the server unusable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ServerName) == "" {
		return fmt.Errorf("%w: server name is required", ErrInvalid)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("%w: request timeout must be positive, got %d", ErrInvalid, c.RequestTimeout)
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("%w: api url: %w", ErrInvalid, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: api url must be an absolute http(s) URL, got %q", ErrInvalid, c.APIURL)
	}
	return nil
}

// Map returns the configuration with the API token masked.
func (c *Config) Map() map[string]any {
	token := ""
	if c.HasToken() {
		token = logging.SanitizeToken(c.APIToken)
	}
	return map[string]any{
		"server_name":      c.ServerName,
		"server_version":   c.ServerVersion,
		"log_level":        c.LogLevel,
		"debug":            c.Debug,
		"read_only":        c.ReadOnly,
		"api_token":        token,
		"api_url":          c.APIURL,
		"request_timeout":  c.RequestTimeout,
		"rate_limit_retry": c.RateLimitRetry,
		"extra":            c.Extra,
	}
}

// String renders Map as sorted key=value pairs. The token is never printed.
func (c *Config) String() string {
	m := c.Map()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m[k]))
	}
	return strings.Join(parts, " ")
}
