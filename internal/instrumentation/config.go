package instrumentation

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// Constants for metric label values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusUnknown = "unknown"

	// DefaultServiceName is the OpenTelemetry service name
	DefaultServiceName = "mcp-todoist"

	ExporterPrometheus = "prometheus"
	ExporterOTLP       = "otlp"
	ExporterStdout     = "stdout"
	ExporterNone       = "none"

	DefaultMetricInterval     = 10 * time.Second
	DefaultTraceSamplingRate  = 0.1
	DefaultPrometheusEndpoint = "/metrics"
)

// Config holds the configuration for OpenTelemetry instrumentation.
type Config struct {
	ServiceName    string `validate:"required"`
	ServiceVersion string

	// ServiceInstanceID defaults to the hostname, i.e. the pod name in Kubernetes.
	ServiceInstanceID string
	K8sNamespace      string
	K8sPodName        string

	// Enabled turns metrics and tracing on. INSTRUMENTATION_ENABLED=false
	// disables both.
	Enabled bool

	MetricsExporter string `validate:"omitempty,oneof=prometheus otlp stdout"`
	TracingExporter string `validate:"omitempty,oneof=otlp stdout none"`

	// OTLPEndpoint is host:port without a scheme, e.g. "localhost:4318".
	OTLPEndpoint string

	// OTLPInsecure sends OTLP data over plain HTTP. Task content may show up
	// in trace metadata, so only use it against a local collector.
	OTLPInsecure bool

	TraceSamplingRate float64 `validate:"gte=0,lte=1"`

	// MetricInterval is the push interval of the otlp and stdout metric readers.
	MetricInterval time.Duration

	PrometheusEndpoint string `validate:"omitempty,startswith=/"`

	// DetailedLabels adds the entity label to tool metrics.
	DetailedLabels bool

	AuditLogging AuditLoggingConfig

	// Warnings lists environment values that could not be parsed and were
	// replaced by their default.
	Warnings []string
}

// AuditLoggingConfig holds configuration for audit logging.
type AuditLoggingConfig struct {
	Enabled bool
}

// DefaultConfig reads the instrumentation settings from the process environment.
func DefaultConfig() Config {
	return ConfigFromEnv(os.LookupEnv)
}

// ConfigFromEnv builds a Config from lookup, which has the signature of
// os.LookupEnv.
func ConfigFromEnv(lookup func(string) (string, bool)) Config {
	env := envReader{lookup: lookup}

	cfg := Config{
		ServiceName:        env.str("OTEL_SERVICE_NAME", DefaultServiceName),
		ServiceVersion:     "unknown",
		ServiceInstanceID:  env.str("OTEL_SERVICE_INSTANCE_ID", ""),
		K8sNamespace:       env.str("K8S_NAMESPACE", env.str("POD_NAMESPACE", "")),
		K8sPodName:         env.str("K8S_POD_NAME", env.str("HOSTNAME", "")),
		Enabled:            env.boolean("INSTRUMENTATION_ENABLED", true),
		MetricsExporter:    env.str("METRICS_EXPORTER", ExporterPrometheus),
		TracingExporter:    env.str("TRACING_EXPORTER", ExporterNone),
		OTLPEndpoint:       env.str("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		OTLPInsecure:       env.boolean("OTEL_EXPORTER_OTLP_INSECURE", false),
		TraceSamplingRate:  env.float("OTEL_TRACES_SAMPLER_ARG", DefaultTraceSamplingRate),
		MetricInterval:     env.duration("OTEL_METRIC_EXPORT_INTERVAL", DefaultMetricInterval),
		PrometheusEndpoint: env.str("PROMETHEUS_ENDPOINT", DefaultPrometheusEndpoint),
		DetailedLabels:     env.boolean("METRICS_DETAILED_LABELS", false),
		AuditLogging: AuditLoggingConfig{
			Enabled: env.boolean("AUDIT_LOGGING_ENABLED", true),
		},
	}
	cfg.Warnings = env.warnings
	return cfg
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks exporter names, the sampling rate and the OTLP endpoint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid instrumentation config: %w", err)
	}

	if c.OTLPEndpoint == "" {
		if c.TracingExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP tracing exporter")
		}
		if c.MetricsExporter == ExporterOTLP {
			return fmt.Errorf("OTLP endpoint is required when using OTLP metrics exporter")
		}
	}
	return nil
}

// envReader reads typed values and remembers the ones it had to discard.
type envReader struct {
	lookup   func(string) (string, bool)
	warnings []string
}

func (e *envReader) str(key, def string) string {
	if v, ok := e.lookup(key); ok && v != "" {
		return v
	}
	return def
}

func (e *envReader) boolean(key string, def bool) bool {
	return parseEnv(e, key, def, strconv.ParseBool)
}

func (e *envReader) float(key string, def float64) float64 {
	return parseEnv(e, key, def, func(s string) (float64, error) {
		return strconv.ParseFloat(s, 64)
	})
}

// duration accepts Go durations ("30s") and plain milliseconds ("30000"),
// the unit OpenTelemetry uses for OTEL_METRIC_EXPORT_INTERVAL.
func (e *envReader) duration(key string, def time.Duration) time.Duration {
	return parseEnv(e, key, def, func(s string) (time.Duration, error) {
		if ms, err := strconv.Atoi(s); err == nil {
			return time.Duration(ms) * time.Millisecond, nil
		}
		return time.ParseDuration(s)
	})
}

func parseEnv[T any](e *envReader, key string, def T, parse func(string) (T, error)) T {
	raw, ok := e.lookup(key)
	if !ok || raw == "" {
		return def
	}
	v, err := parse(raw)
	if err != nil {
		e.warnings = append(e.warnings, fmt.Sprintf("invalid %s %q, using default %v", key, raw, def))
		return def
	}
	return v
}
