package common

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/teemow/mcp-todoist/internal/config"
	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

func newServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	cfg := config.Default("test")
	cfg.APIToken = "token"
	sc, err := server.NewServerContext(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func requestWith(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func textOf(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text
}

func TestInstrumentedToolHandler_Success(t *testing.T) {
	sc := newServerContext(t)

	called := false
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		called = true
		return mcp.NewToolResultText("success"), nil
	}

	wrapped := InstrumentedToolHandler("list-tasks", instrumentation.EntityTask, instrumentation.OperationList, sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, called)
	assert.False(t, result.IsError)
	assert.Equal(t, "success", textOf(t, result))
}

func TestInstrumentedToolHandler_ErrorsBecomeResults(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "validation",
			err:  todoist.NewValidationError("Task ID is required"),
			want: "Error: Task ID is required",
		},
		{
			name: "authentication",
			err:  todoist.NewAuthenticationError("Invalid or expired Todoist API token", nil),
			want: "Error: Invalid or expired Todoist API token",
		},
		{
			name: "invalid argument",
			err:  errors.Join(todoist.ErrInvalidArgument, errors.New("limit must be an integer")),
			want: "Error: invalid argument\nlimit must be an integer",
		},
		{
			name: "unexpected",
			err:  errors.New("boom"),
			want: "Error: An unexpected error occurred: boom",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := newServerContext(t)
			handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				return nil, tt.err
			}

			wrapped := InstrumentedToolHandler("complete-task", instrumentation.EntityTask, instrumentation.OperationComplete, sc, handler)
			result, err := wrapped(context.Background(), requestWith(map[string]any{"task_id": "42"}))

			require.NoError(t, err, "errors are reported in the result")
			assert.True(t, result.IsError)
			assert.Equal(t, tt.want, textOf(t, result))
		})
	}
}

func TestInstrumentedToolHandler_ErrorResultPassesThrough(t *testing.T) {
	sc := newServerContext(t)
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultError("error message"), nil
	}

	wrapped := InstrumentedToolHandler("list-labels", instrumentation.EntityLabel, instrumentation.OperationList, sc, handler)
	result, err := wrapped(context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Equal(t, "error message", textOf(t, result))
}

func TestInstrumentedToolHandler_WithMetricsAndAudit(t *testing.T) {
	sc := newServerContext(t)

	metrics, err := instrumentation.NewMetrics(noop.NewMeterProvider().Meter("test"), false)
	require.NoError(t, err)
	sc.SetMetrics(metrics)

	var buf bytes.Buffer
	sc.SetAuditLogger(instrumentation.NewAuditLogger(slog.New(slog.NewTextHandler(&buf, nil))))

	ok := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return mcp.NewToolResultText("done"), nil
	}
	fail := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, todoist.NewServiceError("Failed to delete project", nil)
	}

	_, err = InstrumentedToolHandler("update-label", instrumentation.EntityLabel, instrumentation.OperationUpdate, sc, ok)(
		context.Background(), requestWith(map[string]any{"label_id": "l1"}))
	require.NoError(t, err)

	_, err = InstrumentedToolHandler("delete-project", instrumentation.EntityProject, instrumentation.OperationDelete, sc, fail)(
		context.Background(), requestWith(map[string]any{"project_id": "7"}))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "msg=tool_executed tool=update-label")
	assert.Contains(t, out, "resource_id=l1")
	assert.Contains(t, out, "msg=tool_failed tool=delete-project")
	assert.Contains(t, out, "error_kind=service")
}

func TestInstrumentedToolHandler_NilServerContext(t *testing.T) {
	handler := func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return nil, errors.New("Todoist is down")
	}

	result, err := InstrumentedToolHandler("list-projects", instrumentation.EntityProject, instrumentation.OperationList, nil, handler)(
		context.Background(), mcp.CallToolRequest{})

	require.NoError(t, err)
	assert.Equal(t, "Error: Todoist API error: Todoist is down", textOf(t, result))
}

func TestResourceID(t *testing.T) {
	assert.Equal(t, "", ResourceID(nil))
	assert.Equal(t, "t1", ResourceID(map[string]any{"task_id": "t1", "project_id": "p1"}))
	assert.Equal(t, "p1", ResourceID(map[string]any{"task_id": "", "project_id": "p1"}))
	assert.Equal(t, "l1", ResourceID(map[string]any{"label_id": "l1"}))
	assert.Equal(t, "", ResourceID(map[string]any{"task_id": 42}))
}

func TestInstrumentedToolHandler_RemoteFailureCountedOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	cfg := config.Default("test")
	cfg.APIToken = "expired-token"
	cfg.APIURL = srv.URL
	cfg.RateLimitRetry = false
	sc, err := server.NewServerContext(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := instrumentation.NewMetrics(mp.Meter("test"), false)
	require.NoError(t, err)
	sc.SetMetrics(metrics)

	listProjects := InstrumentedToolHandler("list-projects", instrumentation.EntityProject, instrumentation.OperationList, sc,
		func(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			ops, err := sc.Operations()
			if err != nil {
				return nil, err
			}
			_, err = ops.ListProjects(ctx, 10)
			return nil, err
		})
	rejectInput := InstrumentedToolHandler("update-task", instrumentation.EntityTask, instrumentation.OperationUpdate, sc,
		func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return nil, todoist.NewValidationError("Task ID is required")
		})

	result, err := listProjects(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.Equal(t, "Error: Invalid or expired Todoist API token", textOf(t, result))

	result, err = rejectInput(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	assert.True(t, result.IsError)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	apiErrors := findSum(t, rm, "todoist_api_errors_total")
	require.Len(t, apiErrors.DataPoints, 1)
	dp := apiErrors.DataPoints[0]
	assert.Equal(t, int64(1), dp.Value)
	operation, _ := dp.Attributes.Value("operation")
	assert.Equal(t, "get projects", operation.AsString())
	kind, _ := dp.Attributes.Value("kind")
	assert.Equal(t, todoist.KindAuthentication, kind.AsString())

	kinds := map[string]int64{}
	for _, dp := range findSum(t, rm, "mcp_tool_invocations_total").DataPoints {
		kind, ok := dp.Attributes.Value("error_kind")
		require.True(t, ok)
		kinds[kind.AsString()] += dp.Value
	}
	assert.Equal(t, map[string]int64{todoist.KindAuthentication: 1, todoist.KindValidation: 1}, kinds)
}

func findSum(t *testing.T, rm metricdata.ResourceMetrics, name string) metricdata.Sum[int64] {
	t.Helper()
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name == name {
				sum, ok := m.Data.(metricdata.Sum[int64])
				require.True(t, ok, "unexpected data type %T", m.Data)
				return sum
			}
		}
	}
	t.Fatalf("metric %s not recorded", name)
	return metricdata.Sum[int64]{}
}
