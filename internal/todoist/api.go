package todoist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-querystring/query"
	"github.com/google/uuid"
)

// DefaultBaseURL is the Todoist REST v2 endpoint.
const DefaultBaseURL = "https://api.todoist.com/rest/v2"

// API is the set of Todoist REST endpoints used by the facade.
// Mutations without a response body return a success flag.
type API interface {
	GetTasks(ctx context.Context, params TaskQuery) ([]Task, error)
	GetTask(ctx context.Context, id string) (*Task, error)
	AddTask(ctx context.Context, task TaskCreate) (*Task, error)
	UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error)
	CloseTask(ctx context.Context, id string) (bool, error)
	ReopenTask(ctx context.Context, id string) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)

	GetProjects(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id string) (*Project, error)
	AddProject(ctx context.Context, project ProjectCreate) (*Project, error)
	UpdateProject(ctx context.Context, id string, update ProjectUpdate) (bool, error)
	DeleteProject(ctx context.Context, id string) (bool, error)

	GetLabels(ctx context.Context) ([]Label, error)
	GetLabel(ctx context.Context, id string) (*Label, error)
	AddLabel(ctx context.Context, label LabelCreate) (*Label, error)
	UpdateLabel(ctx context.Context, id string, update LabelUpdate) (bool, error)
	DeleteLabel(ctx context.Context, id string) (bool, error)
}

// APIError is returned for non-2xx responses.
type APIError struct {
	StatusCode int
	Status     string
	Method     string
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	status := e.Status
	if status == "" {
		status = http.StatusText(e.StatusCode)
	}
	msg := fmt.Sprintf("%d %s for url: %s", e.StatusCode, status, e.URL)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// RESTClient talks to the Todoist REST v2 API.
type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewRESTClient creates a REST client. Authentication is expected to be
// handled by httpClient's transport (see NewHTTPClient).
func NewRESTClient(baseURL string, httpClient *http.Client) *RESTClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &RESTClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetTasks lists active tasks matching params.
func (c *RESTClient) GetTasks(ctx context.Context, params TaskQuery) ([]Task, error) {
	values, err := query.Values(params)
	if err != nil {
		return nil, fmt.Errorf("failed to encode task query: %w", err)
	}
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/tasks", values, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask retrieves a single task.
func (c *RESTClient) GetTask(ctx context.Context, id string) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// AddTask creates a task.
func (c *RESTClient) AddTask(ctx context.Context, create TaskCreate) (*Task, error) {
	var task Task
	if err := c.do(ctx, http.MethodPost, "/tasks", nil, create, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// UpdateTask applies a partial update to a task.
func (c *RESTClient) UpdateTask(ctx context.Context, id string, update TaskUpdate) (bool, error) {
	return c.mutate(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id), update)
}

// CloseTask marks a task as completed.
func (c *RESTClient) CloseTask(ctx context.Context, id string) (bool, error) {
	return c.mutate(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/close", nil)
}

// ReopenTask reopens a completed task.
func (c *RESTClient) ReopenTask(ctx context.Context, id string) (bool, error) {
	return c.mutate(ctx, http.MethodPost, "/tasks/"+url.PathEscape(id)+"/reopen", nil)
}

// DeleteTask deletes a task.
func (c *RESTClient) DeleteTask(ctx context.Context, id string) (bool, error) {
	return c.mutate(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil)
}

// GetProjects lists all projects.
func (c *RESTClient) GetProjects(ctx context.Context) ([]Project, error) {
	var projects []Project
	if err := c.do(ctx, http.MethodGet, "/projects", nil, nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject retrieves a single project.
func (c *RESTClient) GetProject(ctx context.Context, id string) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodGet, "/projects/"+url.PathEscape(id), nil, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// AddProject creates a project.
func (c *RESTClient) AddProject(ctx context.Context, create ProjectCreate) (*Project, error) {
	var project Project
	if err := c.do(ctx, http.MethodPost, "/projects", nil, create, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// UpdateProject applies a partial update to a project.
func (c *RESTClient) UpdateProject(ctx context.Context, id string, update ProjectUpdate) (bool, error) {
	return c.mutate(ctx, http.MethodPost, "/projects/"+url.PathEscape(id), update)
}

// DeleteProject deletes a project and everything in it.
func (c *RESTClient) DeleteProject(ctx context.Context, id string) (bool, error) {
	return c.mutate(ctx, http.MethodDelete, "/projects/"+url.PathEscape(id), nil)
}

// GetLabels lists all personal labels.
func (c *RESTClient) GetLabels(ctx context.Context) ([]Label, error) {
	var labels []Label
	if err := c.do(ctx, http.MethodGet, "/labels", nil, nil, &labels); err != nil {
		return nil, err
	}
	return labels, nil
}

// GetLabel retrieves a single personal label.
func (c *RESTClient) GetLabel(ctx context.Context, id string) (*Label, error) {
	var label Label
	if err := c.do(ctx, http.MethodGet, "/labels/"+url.PathEscape(id), nil, nil, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// AddLabel creates a personal label.
func (c *RESTClient) AddLabel(ctx context.Context, create LabelCreate) (*Label, error) {
	var label Label
	if err := c.do(ctx, http.MethodPost, "/labels", nil, create, &label); err != nil {
		return nil, err
	}
	return &label, nil
}

// UpdateLabel applies a partial update to a personal label.
func (c *RESTClient) UpdateLabel(ctx context.Context, id string, update LabelUpdate) (bool, error) {
	return c.mutate(ctx, http.MethodPost, "/labels/"+url.PathEscape(id), update)
}

// DeleteLabel deletes a personal label.
func (c *RESTClient) DeleteLabel(ctx context.Context, id string) (bool, error) {
	return c.mutate(ctx, http.MethodDelete, "/labels/"+url.PathEscape(id), nil)
}

func (c *RESTClient) mutate(ctx context.Context, method, path string, body any) (bool, error) {
	if err := c.do(ctx, method, path, nil, body, nil); err != nil {
		return false, err
	}
	return true, nil
}

// do performs one request. Non-GET requests carry a fresh X-Request-Id so the
// service can deduplicate retried mutations.
func (c *RESTClient) do(ctx context.Context, method, path string, params url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if method != http.MethodGet {
		req.Header.Set("X-Request-Id", uuid.New().String())
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{
			StatusCode: resp.StatusCode,
			Status:     http.StatusText(resp.StatusCode),
			Method:     method,
			URL:        endpoint,
			Body:       strings.TrimSpace(string(data)),
		}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
