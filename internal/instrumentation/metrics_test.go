package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newPrometheusProvider(t *testing.T, ctx context.Context) *Provider {
	t.Helper()
	provider, err := NewProvider(ctx, Config{
		ServiceName:     "test-service",
		ServiceVersion:  "1.0.0",
		Enabled:         true,
		MetricsExporter: "prometheus",
		TracingExporter: "none",
	})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })
	return provider
}

func TestMetrics_RecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	metrics := newPrometheusProvider(t, ctx).Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil")
	}

	// Should not panic
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, 100*time.Millisecond)
	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 500, 50*time.Millisecond)
}

func TestMetrics_RecordTodoistAPIOperation(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(ctx) }()

	metrics, err := NewMetrics(mp.Meter("test"), false)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	metrics.RecordTodoistAPIOperation(ctx, "get tasks", StatusSuccess, 200*time.Millisecond)
	metrics.RecordTodoistAPIOperation(ctx, "get tasks", StatusError, 500*time.Millisecond)
	metrics.RecordTodoistAPIError(ctx, "get tasks", "authentication")

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	found := map[string]bool{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			found[m.Name] = true
			if m.Name == "todoist_api_operations_total" {
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("unexpected data type %T", m.Data)
				}
				var total int64
				for _, dp := range sum.DataPoints {
					total += dp.Value
				}
				if total != 2 {
					t.Errorf("todoist_api_operations_total = %d, want 2", total)
				}
			}
		}
	}
	for _, name := range []string{"todoist_api_operations_total", "todoist_api_operation_duration_seconds", "todoist_api_errors_total"} {
		if !found[name] {
			t.Errorf("metric %s not recorded", name)
		}
	}
}

func TestMetrics_RecordToolInvocation(t *testing.T) {
	ctx := context.Background()
	metrics := newPrometheusProvider(t, ctx).Metrics()

	// Should not panic
	metrics.RecordToolInvocation(ctx, "list-tasks", StatusSuccess, 150*time.Millisecond)
	metrics.RecordToolInvocationWithEntity(ctx, "create-label", StatusError, EntityLabel, "validation", 75*time.Millisecond)
}

func TestMetrics_ToolInvocationErrorKind(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(ctx) }()

	metrics, err := NewMetrics(mp.Meter("test"), false)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}

	metrics.RecordToolInvocationWithEntity(ctx, "list-projects", StatusError, EntityProject, "authentication", time.Millisecond)
	metrics.RecordToolInvocationWithEntity(ctx, "list-projects", StatusSuccess, EntityProject, "", time.Millisecond)

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}

	kinds := map[string]int64{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch m.Name {
			case "todoist_api_errors_total":
				t.Errorf("tool invocations must not record %s", m.Name)
			case "mcp_tool_invocations_total":
				sum, ok := m.Data.(metricdata.Sum[int64])
				if !ok {
					t.Fatalf("unexpected data type %T", m.Data)
				}
				for _, dp := range sum.DataPoints {
					key := ""
					if kind, ok := dp.Attributes.Value(attrErrorKind); ok {
						key = kind.AsString()
					}
					kinds[key] += dp.Value
				}
			}
		}
	}

	if kinds["authentication"] != 1 || kinds[""] != 1 {
		t.Errorf("invocations by error_kind = %v, want one authentication and one without kind", kinds)
	}
}

func TestMetrics_NoopMeter(t *testing.T) {
	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"), true)
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	metrics.RecordToolInvocationWithEntity(ctx, "delete-project", StatusSuccess, EntityProject, "", time.Millisecond)
	metrics.RecordTodoistAPIError(ctx, "delete project", "service")
}

func TestMetrics_NoOp_WhenDisabled(t *testing.T) {
	ctx := context.Background()
	provider, err := NewProvider(ctx, Config{Enabled: false})
	if err != nil {
		t.Fatalf("failed to create provider: %v", err)
	}

	metrics := provider.Metrics()
	if metrics == nil {
		t.Fatal("expected metrics to be non-nil even when disabled")
	}

	// Uninitialized instruments must be ignored
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
	metrics.RecordTodoistAPIOperation(ctx, "get projects", StatusSuccess, time.Millisecond)
	metrics.RecordTodoistAPIError(ctx, "get projects", "service")
	metrics.RecordToolInvocation(ctx, "list-projects", StatusSuccess, time.Millisecond)
}
