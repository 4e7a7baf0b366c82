package todoist

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/teemow/mcp-todoist/internal/instrumentation"
)

// failingAPI fails every call with err.
type failingAPI struct {
	err error
}

func (f failingAPI) GetTasks(context.Context, TaskQuery) ([]Task, error) { return nil, f.err }
func (f failingAPI) GetTask(context.Context, string) (*Task, error)      { return nil, f.err }
func (f failingAPI) AddTask(context.Context, TaskCreate) (*Task, error)  { return nil, f.err }
func (f failingAPI) UpdateTask(context.Context, string, TaskUpdate) (bool, error) {
	return false, f.err
}
func (f failingAPI) CloseTask(context.Context, string) (bool, error)      { return false, f.err }
func (f failingAPI) ReopenTask(context.Context, string) (bool, error)     { return false, f.err }
func (f failingAPI) DeleteTask(context.Context, string) (bool, error)     { return false, f.err }
func (f failingAPI) GetProjects(context.Context) ([]Project, error)       { return nil, f.err }
func (f failingAPI) GetProject(context.Context, string) (*Project, error) { return nil, f.err }
func (f failingAPI) AddProject(context.Context, ProjectCreate) (*Project, error) {
	return nil, f.err
}
func (f failingAPI) UpdateProject(context.Context, string, ProjectUpdate) (bool, error) {
	return false, f.err
}
func (f failingAPI) DeleteProject(context.Context, string) (bool, error)   { return false, f.err }
func (f failingAPI) GetLabels(context.Context) ([]Label, error)            { return nil, f.err }
func (f failingAPI) GetLabel(context.Context, string) (*Label, error)      { return nil, f.err }
func (f failingAPI) AddLabel(context.Context, LabelCreate) (*Label, error) { return nil, f.err }
func (f failingAPI) UpdateLabel(context.Context, string, LabelUpdate) (bool, error) {
	return false, f.err
}
func (f failingAPI) DeleteLabel(context.Context, string) (bool, error) { return false, f.err }

// allOperations invokes every facade method once.
func allOperations(c *Client) map[string]func(context.Context) error {
	return map[string]func(context.Context) error{
		"get tasks":      func(ctx context.Context) error { _, err := c.GetTasks(ctx, TaskQuery{}); return err },
		"get task":       func(ctx context.Context) error { _, err := c.GetTask(ctx, "1"); return err },
		"create task":    func(ctx context.Context) error { _, err := c.CreateTask(ctx, TaskCreate{Content: "x"}); return err },
		"update task":    func(ctx context.Context) error { _, err := c.UpdateTask(ctx, "1", TaskUpdate{}); return err },
		"close task":     func(ctx context.Context) error { _, err := c.CloseTask(ctx, "1"); return err },
		"reopen task":    func(ctx context.Context) error { _, err := c.ReopenTask(ctx, "1"); return err },
		"delete task":    func(ctx context.Context) error { _, err := c.DeleteTask(ctx, "1"); return err },
		"get projects":   func(ctx context.Context) error { _, err := c.GetProjects(ctx); return err },
		"get project":    func(ctx context.Context) error { _, err := c.GetProject(ctx, "1"); return err },
		"create project": func(ctx context.Context) error { _, err := c.CreateProject(ctx, ProjectCreate{Name: "x"}); return err },
		"update project": func(ctx context.Context) error { _, err := c.UpdateProject(ctx, "1", ProjectUpdate{}); return err },
		"delete project": func(ctx context.Context) error { _, err := c.DeleteProject(ctx, "1"); return err },
		"get labels":     func(ctx context.Context) error { _, err := c.GetLabels(ctx); return err },
		"get label":      func(ctx context.Context) error { _, err := c.GetLabel(ctx, "1"); return err },
		"create label":   func(ctx context.Context) error { _, err := c.CreateLabel(ctx, LabelCreate{Name: "x"}); return err },
		"update label":   func(ctx context.Context) error { _, err := c.UpdateLabel(ctx, "1", LabelUpdate{}); return err },
		"delete label":   func(ctx context.Context) error { _, err := c.DeleteLabel(ctx, "1"); return err },
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)
	assert.True(t, IsAuthentication(err))
	assert.Equal(t, "Todoist API token is required", err.Error())
}

func TestClient_UnauthorizedBecomesAuthenticationError(t *testing.T) {
	cause := errors.New("401 Client Error: Unauthorized for url: https://api.todoist.com/rest/v2/tasks")
	c, err := NewClient("token", WithAPI(failingAPI{err: cause}))
	require.NoError(t, err)

	for name, op := range allOperations(c) {
		t.Run(name, func(t *testing.T) {
			err := op(context.Background())
			require.Error(t, err)
			assert.True(t, IsAuthentication(err))
			assert.False(t, IsService(err))
			assert.Equal(t, "Invalid or expired Todoist API token", err.Error())
			assert.ErrorIs(t, err, cause)
		})
	}
}

func TestClient_OtherFailuresBecomeServiceErrors(t *testing.T) {
	cause := errors.New("connection reset")
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	require.NoError(t, err)

	c, err := NewClient("token", WithAPI(failingAPI{err: cause}), WithMetrics(metrics))
	require.NoError(t, err)

	for name, op := range allOperations(c) {
		t.Run(name, func(t *testing.T) {
			err := op(context.Background())
			require.Error(t, err)
			require.True(t, IsService(err))
			assert.Equal(t, "Failed to "+name+": connection reset", err.Error())

			var svc *ServiceError
			require.True(t, errors.As(err, &svc))
			got, ok := svc.Detail("operation")
			assert.True(t, ok)
			assert.Equal(t, name, got)
		})
	}
}

// slowAPI blocks GetProjects until release is closed.
type slowAPI struct {
	failingAPI
	release chan struct{}
	seen    chan error
}

func (s slowAPI) GetProjects(ctx context.Context) ([]Project, error) {
	<-s.release
	s.seen <- ctx.Err()
	return []Project{{ID: "1", Name: "Inbox"}}, nil
}

func TestClient_CallIgnoresCallerCancellation(t *testing.T) {
	api := slowAPI{release: make(chan struct{}), seen: make(chan error, 1)}
	c, err := NewClient("token", WithAPI(api))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	go func() {
		time.Sleep(10 * time.Millisecond)
		close(api.release)
	}()

	projects, err := c.GetProjects(ctx)
	require.NoError(t, err)
	assert.Len(t, projects, 1)
	assert.NoError(t, <-api.seen, "remote call must not observe caller cancellation")
}
