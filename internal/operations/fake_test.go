package operations

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

var errNotFound = errors.New("404 Not Found")

// fakeRemote is an in-memory Remote that records the calls it receives.
type fakeRemote struct {
	mu sync.Mutex

	tasks    map[string]*todoist.Task
	projects []todoist.Project
	labels   []todoist.Label

	// flag returned by update, close, reopen and delete calls
	ok bool
	// failGet makes GetTask, GetProject and GetLabel fail
	failGet bool

	nextID int
	calls  []string

	lastQuery         todoist.TaskQuery
	lastTaskCreate    todoist.TaskCreate
	lastTaskUpdate    todoist.TaskUpdate
	lastProjectCreate todoist.ProjectCreate
	lastProjectUpdate todoist.ProjectUpdate
	lastLabelCreate   todoist.LabelCreate
	lastLabelUpdate   todoist.LabelUpdate
	lastID            string
}

func newFakeRemote() *fakeRemote {
	return &fakeRemote{
		tasks:  map[string]*todoist.Task{},
		ok:     true,
		nextID: 100,
	}
}

func (f *fakeRemote) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeRemote) count(call string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeRemote) newID() string {
	f.nextID++
	return fmt.Sprintf("%d", f.nextID)
}

func (f *fakeRemote) GetProjects(ctx context.Context) ([]todoist.Project, error) {
	f.record("GetProjects")
	return f.projects, nil
}

func (f *fakeRemote) GetLabels(ctx context.Context) ([]todoist.Label, error) {
	f.record("GetLabels")
	return f.labels, nil
}

func (f *fakeRemote) GetTasks(ctx context.Context, params todoist.TaskQuery) ([]todoist.Task, error) {
	f.record("GetTasks")
	f.lastQuery = params
	out := make([]todoist.Task, 0, len(f.tasks))
	for i := 1; i <= len(f.tasks); i++ {
		if t, ok := f.tasks[fmt.Sprintf("t%d", i)]; ok {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (f *fakeRemote) GetTask(ctx context.Context, id string) (*todoist.Task, error) {
	f.record("GetTask")
	if f.failGet {
		return nil, errNotFound
	}
	t, ok := f.tasks[id]
	if !ok {
		return nil, errNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeRemote) CreateTask(ctx context.Context, task todoist.TaskCreate) (*todoist.Task, error) {
	f.record("CreateTask")
	f.lastTaskCreate = task
	id := f.newID()
	f.tasks[id] = &todoist.Task{
		ID:        id,
		Content:   task.Content,
		ProjectID: task.ProjectID,
		Priority:  task.Priority,
		Labels:    task.Labels,
		CreatedAt: "stored",
	}
	return &todoist.Task{ID: id, Content: task.Content}, nil
}

func (f *fakeRemote) UpdateTask(ctx context.Context, id string, update todoist.TaskUpdate) (bool, error) {
	f.record("UpdateTask")
	f.lastID = id
	f.lastTaskUpdate = update
	if t, ok := f.tasks[id]; ok && f.ok {
		if update.Content != nil {
			t.Content = *update.Content
		}
		if update.Priority != nil {
			t.Priority = *update.Priority
		}
		if update.ProjectID != nil {
			t.ProjectID = *update.ProjectID
		}
	}
	return f.ok, nil
}

func (f *fakeRemote) CloseTask(ctx context.Context, id string) (bool, error) {
	f.record("CloseTask")
	f.lastID = id
	return f.ok, nil
}

func (f *fakeRemote) ReopenTask(ctx context.Context, id string) (bool, error) {
	f.record("ReopenTask")
	f.lastID = id
	return f.ok, nil
}

func (f *fakeRemote) DeleteTask(ctx context.Context, id string) (bool, error) {
	f.record("DeleteTask")
	f.lastID = id
	return f.ok, nil
}

func (f *fakeRemote) GetProject(ctx context.Context, id string) (*todoist.Project, error) {
	f.record("GetProject")
	if f.failGet {
		return nil, errNotFound
	}
	for _, p := range f.projects {
		if p.ID == id {
			cp := p
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRemote) CreateProject(ctx context.Context, project todoist.ProjectCreate) (*todoist.Project, error) {
	f.record("CreateProject")
	f.lastProjectCreate = project
	p := todoist.Project{
		ID:         f.newID(),
		Name:       project.Name,
		ParentID:   project.ParentID,
		Color:      project.Color,
		IsFavorite: project.IsFavorite,
	}
	f.projects = append(f.projects, p)
	return &p, nil
}

func (f *fakeRemote) UpdateProject(ctx context.Context, id string, update todoist.ProjectUpdate) (bool, error) {
	f.record("UpdateProject")
	f.lastID = id
	f.lastProjectUpdate = update
	if !f.ok {
		return false, nil
	}
	for i := range f.projects {
		if f.projects[i].ID == id && update.Name != nil {
			f.projects[i].Name = *update.Name
		}
	}
	return true, nil
}

func (f *fakeRemote) DeleteProject(ctx context.Context, id string) (bool, error) {
	f.record("DeleteProject")
	f.lastID = id
	return f.ok, nil
}

func (f *fakeRemote) GetLabel(ctx context.Context, id string) (*todoist.Label, error) {
	f.record("GetLabel")
	if f.failGet {
		return nil, errNotFound
	}
	for _, l := range f.labels {
		if l.ID == id {
			cp := l
			return &cp, nil
		}
	}
	return nil, errNotFound
}

func (f *fakeRemote) CreateLabel(ctx context.Context, label todoist.LabelCreate) (*todoist.Label, error) {
	f.record("CreateLabel")
	f.lastLabelCreate = label
	l := todoist.Label{
		ID:         f.newID(),
		Name:       label.Name,
		Color:      label.Color,
		IsFavorite: label.IsFavorite,
	}
	f.labels = append(f.labels, l)
	return &l, nil
}

func (f *fakeRemote) UpdateLabel(ctx context.Context, id string, update todoist.LabelUpdate) (bool, error) {
	f.record("UpdateLabel")
	f.lastID = id
	f.lastLabelUpdate = update
	if !f.ok {
		return false, nil
	}
	for i := range f.labels {
		if f.labels[i].ID == id && update.Name != nil {
			f.labels[i].Name = *update.Name
		}
	}
	return true, nil
}

func (f *fakeRemote) DeleteLabel(ctx context.Context, id string) (bool, error) {
	f.record("DeleteLabel")
	f.lastID = id
	return f.ok, nil
}

func newTestService(remote Remote) *Service {
	return NewService(remote, logging.NewSlogAdapter(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func ptr[T any](v T) *T {
	return &v
}
