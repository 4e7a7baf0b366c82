package todoist_tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/require"

	"github.com/teemow/mcp-todoist/internal/config"
	"github.com/teemow/mcp-todoist/internal/server"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

// memoryRemote is an in-memory Todoist account.
type memoryRemote struct {
	mu sync.Mutex

	tasks    []todoist.Task
	projects []todoist.Project
	labels   []todoist.Label

	// err is returned by every call when set
	err    error
	nextID int

	lastQuery todoist.TaskQuery
	creates   int
}

func newMemoryRemote() *memoryRemote {
	return &memoryRemote{nextID: 100}
}

func (m *memoryRemote) id() string {
	m.nextID++
	return fmt.Sprintf("%d", m.nextID)
}

func (m *memoryRemote) GetProjects(ctx context.Context) ([]todoist.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.projects, m.err
}

func (m *memoryRemote) GetLabels(ctx context.Context) ([]todoist.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.labels, m.err
}

func (m *memoryRemote) GetTasks(ctx context.Context, params todoist.TaskQuery) ([]todoist.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = params
	return m.tasks, m.err
}

func (m *memoryRemote) task(id string) *todoist.Task {
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			return &m.tasks[i]
		}
	}
	return nil
}

func (m *memoryRemote) GetTask(ctx context.Context, id string) (*todoist.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if t := m.task(id); t != nil {
		cp := *t
		return &cp, nil
	}
	return nil, errors.New("404 Not Found")
}

func (m *memoryRemote) CreateTask(ctx context.Context, create todoist.TaskCreate) (*todoist.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.creates++
	t := todoist.Task{
		ID:          m.id(),
		Content:     create.Content,
		Description: create.Description,
		ProjectID:   create.ProjectID,
		Labels:      create.Labels,
		Priority:    create.Priority,
	}
	if create.DueString != "" || create.DueDate != "" {
		t.Due = &todoist.Due{String: create.DueString, Date: create.DueDate}
	}
	m.tasks = append(m.tasks, t)
	return &t, nil
}

func (m *memoryRemote) UpdateTask(ctx context.Context, id string, update todoist.TaskUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	t := m.task(id)
	if t == nil {
		return false, nil
	}
	if update.Content != nil {
		t.Content = *update.Content
	}
	if update.Priority != nil {
		t.Priority = *update.Priority
	}
	if update.Labels != nil {
		t.Labels = *update.Labels
	}
	if update.ProjectID != nil {
		t.ProjectID = *update.ProjectID
	}
	return true, nil
}

func (m *memoryRemote) CloseTask(ctx context.Context, id string) (bool, error) {
	return m.setCompleted(id, true)
}

func (m *memoryRemote) ReopenTask(ctx context.Context, id string) (bool, error) {
	return m.setCompleted(id, false)
}

func (m *memoryRemote) setCompleted(id string, completed bool) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	t := m.task(id)
	if t == nil {
		return false, nil
	}
	t.IsCompleted = completed
	return true, nil
}

func (m *memoryRemote) DeleteTask(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i := range m.tasks {
		if m.tasks[i].ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRemote) project(id string) *todoist.Project {
	for i := range m.projects {
		if m.projects[i].ID == id {
			return &m.projects[i]
		}
	}
	return nil
}

func (m *memoryRemote) GetProject(ctx context.Context, id string) (*todoist.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if p := m.project(id); p != nil {
		cp := *p
		return &cp, nil
	}
	return nil, errors.New("404 Not Found")
}

func (m *memoryRemote) CreateProject(ctx context.Context, create todoist.ProjectCreate) (*todoist.Project, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	p := todoist.Project{
		ID:         m.id(),
		Name:       create.Name,
		Color:      create.Color,
		ParentID:   create.ParentID,
		IsFavorite: create.IsFavorite,
	}
	m.projects = append(m.projects, p)
	return &p, nil
}

func (m *memoryRemote) UpdateProject(ctx context.Context, id string, update todoist.ProjectUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	p := m.project(id)
	if p == nil {
		return false, nil
	}
	if update.Name != nil {
		p.Name = *update.Name
	}
	if update.Color != nil {
		p.Color = *update.Color
	}
	if update.IsFavorite != nil {
		p.IsFavorite = *update.IsFavorite
	}
	return true, nil
}

func (m *memoryRemote) DeleteProject(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i := range m.projects {
		if m.projects[i].ID == id {
			m.projects = append(m.projects[:i], m.projects[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (m *memoryRemote) label(id string) *todoist.Label {
	for i := range m.labels {
		if m.labels[i].ID == id {
			return &m.labels[i]
		}
	}
	return nil
}

func (m *memoryRemote) GetLabel(ctx context.Context, id string) (*todoist.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if l := m.label(id); l != nil {
		cp := *l
		return &cp, nil
	}
	return nil, errors.New("404 Not Found")
}

func (m *memoryRemote) CreateLabel(ctx context.Context, create todoist.LabelCreate) (*todoist.Label, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	l := todoist.Label{
		ID:         m.id(),
		Name:       create.Name,
		Color:      create.Color,
		IsFavorite: create.IsFavorite,
	}
	m.labels = append(m.labels, l)
	return &l, nil
}

func (m *memoryRemote) UpdateLabel(ctx context.Context, id string, update todoist.LabelUpdate) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	l := m.label(id)
	if l == nil {
		return false, nil
	}
	if update.Name != nil {
		l.Name = *update.Name
	}
	if update.Color != nil {
		l.Color = *update.Color
	}
	if update.IsFavorite != nil {
		l.IsFavorite = *update.IsFavorite
	}
	return true, nil
}

func (m *memoryRemote) DeleteLabel(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return false, m.err
	}
	for i := range m.labels {
		if m.labels[i].ID == id {
			m.labels = append(m.labels[:i], m.labels[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// newTestServer registers the tools against remote and returns the server.
func newTestServer(t *testing.T, remote *memoryRemote, readOnly bool) *mcpserver.MCPServer {
	t.Helper()

	cfg := config.Default("test")
	cfg.APIToken = "token"
	sc, err := server.NewServerContext(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sc.Shutdown() })
	sc.SetRemote(remote)

	s := mcpserver.NewMCPServer("test", "1.0.0", mcpserver.WithToolCapabilities(true))
	require.NoError(t, RegisterTodoistTools(s, sc, readOnly))
	return s
}

// call invokes a registered tool and returns its text and error flag.
func call(t *testing.T, s *mcpserver.MCPServer, name string, args map[string]any) (string, bool) {
	t.Helper()

	tool, ok := s.ListTools()[name]
	require.True(t, ok, "tool %s is not registered", name)

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	result, err := tool.Handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.Len(t, result.Content, 1)

	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", result.Content[0])
	return text.Text, result.IsError
}

func intPtr(v int) *int { return &v }
