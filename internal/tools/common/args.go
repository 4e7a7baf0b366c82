package common

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/teemow/mcp-todoist/internal/todoist"
)

// Tool arguments arrive as decoded JSON, so numbers are float64 and arrays
// are []any. The helpers below accept the loose shapes assistants send and
// reject anything else with an error wrapping todoist.ErrInvalidArgument.

func invalid(key, want string, value any) error {
	return fmt.Errorf("%w: %s must be %s, got %T", todoist.ErrInvalidArgument, key, want, value)
}

// String returns the string argument key, or "" when it is absent.
func String(args map[string]any, key string) (string, error) {
	v, err := OptionalString(args, key)
	if err != nil || v == nil {
		return "", err
	}
	return *v, nil
}

// OptionalString returns nil when key is absent or null.
func OptionalString(args map[string]any, key string) (*string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, invalid(key, "a string", raw)
	}
	return &s, nil
}

// Bool returns the boolean argument key, or def when it is absent.
// The strings "true" and "false" are accepted too.
func Bool(args map[string]any, key string, def bool) (bool, error) {
	v, err := OptionalBool(args, key)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

// OptionalBool returns nil when key is absent or null.
func OptionalBool(args map[string]any, key string) (*bool, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	switch v := raw.(type) {
	case bool:
		return &v, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		return &b, nil
	default:
		return nil, invalid(key, "a boolean", raw)
	}
}

// Int returns the integer argument key, or def when it is absent.
func Int(args map[string]any, key string, def int) (int, error) {
	v, err := OptionalInt(args, key)
	if err != nil || v == nil {
		return def, err
	}
	return *v, nil
}

// OptionalInt returns nil when key is absent or null. Whole floats and
// numeric strings are accepted.
func OptionalInt(args map[string]any, key string) (*int, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return nil, invalid(key, "an integer", raw)
		}
		n = int(v)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key, err)
		}
		n = parsed
	default:
		return nil, invalid(key, "an integer", raw)
	}
	return &n, nil
}

// StringSlice returns the list argument key, or nil when it is absent.
func StringSlice(args map[string]any, key string) ([]string, error) {
	v, err := OptionalStringSlice(args, key)
	if err != nil || v == nil {
		return nil, err
	}
	return *v, nil
}

// OptionalStringSlice returns nil when key is absent or null. Both a JSON
// array of strings and a comma separated string are accepted; blank items
// are dropped.
func OptionalStringSlice(args map[string]any, key string) (*[]string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}

	var items []string
	switch v := raw.(type) {
	case []string:
		items = v
	case []any:
		items = make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, invalid(key, "a list of strings", raw)
			}
			items = append(items, s)
		}
	case string:
		items = strings.Split(v, ",")
	default:
		return nil, invalid(key, "a list of strings", raw)
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return &out, nil
}

// Parser reads several arguments and keeps the first error, so handlers can
// parse a whole request and check once.
type Parser struct {
	args map[string]any
	err  error
}

// NewParser creates a Parser over args.
func NewParser(args map[string]any) *Parser {
	return &Parser{args: args}
}

func parse[T any](p *Parser, key string, fn func(map[string]any, string) (T, error)) T {
	var zero T
	if p.err != nil {
		return zero
	}
	v, err := fn(p.args, key)
	if err != nil {
		p.err = err
		return zero
	}
	return v
}

// Err returns the first parse error.
func (p *Parser) Err() error { return p.err }

// String reads a string argument.
func (p *Parser) String(key string) string { return parse(p, key, String) }

// OptionalString reads an optional string argument.
func (p *Parser) OptionalString(key string) *string { return parse(p, key, OptionalString) }

// OptionalBool reads an optional boolean argument.
func (p *Parser) OptionalBool(key string) *bool { return parse(p, key, OptionalBool) }

// OptionalInt reads an optional integer argument.
func (p *Parser) OptionalInt(key string) *int { return parse(p, key, OptionalInt) }

// StringSlice reads a list argument.
func (p *Parser) StringSlice(key string) []string { return parse(p, key, StringSlice) }

// OptionalStringSlice reads an optional list argument.
func (p *Parser) OptionalStringSlice(key string) *[]string { return parse(p, key, OptionalStringSlice) }

// Bool reads a boolean argument with a default.
func (p *Parser) Bool(key string, def bool) bool {
	return parse(p, key, func(args map[string]any, key string) (bool, error) {
		return Bool(args, key, def)
	})
}

// Int reads an integer argument with a default.
func (p *Parser) Int(key string, def int) int {
	return parse(p, key, func(args map[string]any, key string) (int, error) {
		return Int(args, key, def)
	})
}
