package todoist

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/teemow/mcp-todoist/internal/instrumentation"
	"github.com/teemow/mcp-todoist/internal/logging"
)

// Client is the facade over the Todoist REST API. Every method performs
// exactly one remote round-trip and returns errors from the taxonomy.
type Client struct {
	api     API
	metrics *instrumentation.Metrics
	logger  *slog.Logger
}

type clientOptions struct {
	api        API
	baseURL    string
	timeout    time.Duration
	retry      bool
	httpClient *http.Client
	metrics    *instrumentation.Metrics
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*clientOptions)

// WithAPI replaces the REST client, mostly for tests.
func WithAPI(api API) Option {
	return func(o *clientOptions) { o.api = api }
}

// WithBaseURL overrides the Todoist REST endpoint.
func WithBaseURL(baseURL string) Option {
	return func(o *clientOptions) { o.baseURL = baseURL }
}

// WithTimeout sets the per request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) { o.timeout = timeout }
}

// WithRetry enables or disables transport retries for 429 and 5xx responses.
func WithRetry(retry bool) Option {
	return func(o *clientOptions) { o.retry = retry }
}

// WithHTTPClient uses the given client as is instead of building the
// default transport chain.
func WithHTTPClient(c *http.Client) Option {
	return func(o *clientOptions) { o.httpClient = c }
}

// WithMetrics records Todoist API metrics.
func WithMetrics(m *instrumentation.Metrics) Option {
	return func(o *clientOptions) { o.metrics = m }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) { o.logger = l }
}

// NewClient creates the facade for the given API token.
func NewClient(token string, opts ...Option) (*Client, error) {
	if token == "" {
		return nil, NewAuthenticationError("Todoist API token is required", nil)
	}

	o := clientOptions{
		baseURL: DefaultBaseURL,
		timeout: defaultRequestTimeout,
		retry:   true,
	}
	for _, opt := range opts {
		opt(&o)
	}

	api := o.api
	if api == nil {
		httpClient := o.httpClient
		if httpClient == nil {
			httpClient = NewHTTPClient(TransportConfig{
				Token:   token,
				Timeout: o.timeout,
				Retry:   o.retry,
			})
		}
		api = NewRESTClient(o.baseURL, httpClient)
	}

	logger := o.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		api:     api,
		metrics: o.metrics,
		logger:  logger,
	}, nil
}

type result[T any] struct {
	value T
	err   error
}

// call runs fn on its own goroutine with a context that ignores the caller's
// cancellation. Failures are mapped into the taxonomy.
func call[T any](ctx context.Context, c *Client, operation string, fn func(context.Context) (T, error)) (T, error) {
	start := time.Now()
	ctx, span := instrumentation.StartTodoistSpan(ctx, operation)
	defer span.End()

	done := make(chan result[T], 1)
	go func(ctx context.Context) {
		v, err := fn(ctx)
		done <- result[T]{value: v, err: err}
	}(detach(ctx))
	res := <-done

	status := instrumentation.StatusSuccess
	err := res.err
	if err != nil {
		status = instrumentation.StatusError
		err = mapRemoteError(operation, err)
		instrumentation.SetSpanError(span, err)
		c.logger.Debug("Todoist call failed", logging.Operation(operation), logging.Status(status), logging.Err(err))
	} else {
		instrumentation.SetSpanSuccess(span)
	}

	if c.metrics != nil {
		c.metrics.RecordTodoistAPIOperation(ctx, operation, status, time.Since(start))
		if err != nil {
			c.metrics.RecordTodoistAPIError(ctx, operation, Kind(err))
		}
	}
	return res.value, err
}

func mapRemoteError(operation string, err error) error {
	if isTaxonomy(err) {
		return err
	}
	if isUnauthorized(err) {
		return NewAuthenticationError("Invalid or expired Todoist API token", err)
	}
	return NewServiceError(fmt.Sprintf("Failed to %s: %v", operation, err), err).WithOperation(operation)
}

// GetTasks lists active tasks.
func (c *Client) GetTasks(ctx context.Context, params TaskQuery) ([]Task, error) {
	return call(ctx, c, "get tasks", func(ctx context.Context) ([]Task, error) {
		return c.api.GetTasks(ctx, params)
	})
}

// GetTask retrieves a task by id.
func (c *Client) GetTask(ctx context.Context, id string) (*Task, error) {
	return call(ctx, c, "get task", func(ctx context.Context) (*Task, error) {
		return c.api.GetTask(ctx, id)
	})
}

// CreateTask creates a task and returns the service's response.
func (c *Client) CreateTask(ctx context.Context, task TaskCreate) (*Task, error) {
	return call(ctx, c, "create task", func(ctx context.Context) (*Task, error) {
		return c.api.AddTask(ctx, task)
	})
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error) {
	return call(ctx, c, "update task", func(ctx context.Context) (bool, error) {
		return c.api.UpdateTask(ctx, id, update)
	})
}

// CloseTask completes a task.
func (c *Client) CloseTask(ctx context.Context, id string) (bool, error) {
	return call(ctx, c, "close task", func(ctx context.Context) (bool, error) {
		return c.api.CloseTask(ctx, id)
	})
}

// ReopenTask reopens a completed task.
func (c *Client) ReopenTask(ctx context.Context, id string) (bool, error) {
	return call(ctx, c, "reopen task", func(ctx context.Context) (bool, error) {
		return c.api.ReopenTask(ctx, id)
	})
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, id string) (bool, error) {
	return call(ctx, c, "delete task", func(ctx context.Context) (bool, error) {
		return c.api.DeleteTask(ctx, id)
	})
}

// GetProjects lists all projects.
func (c *Client) GetProjects(ctx context.Context) ([]Project, error) {
	return call(ctx, c, "get projects", func(ctx context.Context) ([]Project, error) {
		return c.api.GetProjects(ctx)
	})
}

// GetProject retrieves a project by id.
func (c *Client) GetProject(ctx context.Context, id string) (*Project, error) {
	return call(ctx, c, "get project", func(ctx context.Context) (*Project, error) {
		return c.api.GetProject(ctx, id)
	})
}

// CreateProject creates a project.
func (c *Client) CreateProject(ctx context.Context, project ProjectCreate) (*Project, error) {
	return call(ctx, c, "create project", func(ctx context.Context) (*Project, error) {
		return c.api.AddProject(ctx, project)
	})
}

// UpdateProject applies a partial update.
func (c *Client) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (bool, error) {
	return call(ctx, c, "update project", func(ctx context.Context) (bool, error) {
		return c.api.UpdateProject(ctx, id, update)
	})
}

// DeleteProject deletes a project.
func (c *Client) DeleteProject(ctx context.Context, id string) (bool, error) {
	return call(ctx, c, "delete project", func(ctx context.Context) (bool, error) {
		return c.api.DeleteProject(ctx, id)
	})
}

// GetLabels lists all personal labels.
func (c *Client) GetLabels(ctx context.Context) ([]Label, error) {
	return call(ctx, c, "get labels", func(ctx context.Context) ([]Label, error) {
		return c.api.GetLabels(ctx)
	})
}

// GetLabel retrieves a label by id.
func (c *Client) GetLabel(ctx context.Context, id string) (*Label, error) {
	return call(ctx, c, "get label", func(ctx context.Context) (*Label, error) {
		return c.api.GetLabel(ctx, id)
	})
}

// CreateLabel creates a personal label.
func (c *Client) CreateLabel(ctx context.Context, label LabelCreate) (*Label, error) {
	return call(ctx, c, "create label", func(ctx context.Context) (*Label, error) {
		return c.api.AddLabel(ctx, label)
	})
}

// UpdateLabel applies a partial update.
func (c *Client) UpdateLabel(ctx context.Context, id string, update LabelUpdate) (bool, error) {
	return call(ctx, c, "update label", func(ctx context.Context) (bool, error) {
		return c.api.UpdateLabel(ctx, id, update)
	})
}

// DeleteLabel deletes a personal label.
func (c *Client) DeleteLabel(ctx context.Context, id string) (bool, error) {
	return call(ctx, c, "delete label", func(ctx context.Context) (bool, error) {
		return c.api.DeleteLabel(ctx, id)
	})
}
