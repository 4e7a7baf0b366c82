package operations

import (
	"context"

	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

// List limits.
const (
	DefaultLimit = 50
	MaxLimit     = 100
)

// Remote is the subset of the Todoist facade the orchestrators depend on.
// *todoist.Client satisfies it.
type Remote interface {
	todoist.Lister

	GetTasks(ctx context.Context, params todoist.TaskQuery) ([]todoist.Task, error)
	GetTask(ctx context.Context, id string) (*todoist.Task, error)
	CreateTask(ctx context.Context, task todoist.TaskCreate) (*todoist.Task, error)
	UpdateTask(ctx context.Context, id string, update todoist.TaskUpdate) (bool, error)
	CloseTask(ctx context.Context, id string) (bool, error)
	ReopenTask(ctx context.Context, id string) (bool, error)
	DeleteTask(ctx context.Context, id string) (bool, error)

	GetProject(ctx context.Context, id string) (*todoist.Project, error)
	CreateProject(ctx context.Context, project todoist.ProjectCreate) (*todoist.Project, error)
	UpdateProject(ctx context.Context, id string, update todoist.ProjectUpdate) (bool, error)
	DeleteProject(ctx context.Context, id string) (bool, error)

	GetLabel(ctx context.Context, id string) (*todoist.Label, error)
	CreateLabel(ctx context.Context, label todoist.LabelCreate) (*todoist.Label, error)
	UpdateLabel(ctx context.Context, id string, update todoist.LabelUpdate) (bool, error)
	DeleteLabel(ctx context.Context, id string) (bool, error)
}

var _ Remote = (*todoist.Client)(nil)

// Service runs one operation per call: validate, resolve names, call the
// remote service and confirm the outcome. It holds no state of its own.
type Service struct {
	remote   Remote
	resolver *todoist.Resolver
	logger   logging.Logger
}

// NewService creates a Service backed by remote. A nil logger falls back to
// the default slog logger.
func NewService(remote Remote, logger logging.Logger) *Service {
	if logger == nil {
		logger = logging.DefaultLogger()
	}
	return &Service{
		remote:   remote,
		resolver: todoist.NewResolver(remote),
		logger:   logger,
	}
}

// Confirmation identifies the entity a complete, reopen or delete acted on.
type Confirmation struct {
	ID   string
	Name string
}

// ClampLimit bounds a requested list size to [1, MaxLimit].
func ClampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxLimit:
		return MaxLimit
	default:
		return limit
	}
}

// LimitOrDefault resolves an optional limit argument. A missing limit selects
// DefaultLimit; any given value is clamped.
func LimitOrDefault(limit *int) int {
	if limit == nil {
		return DefaultLimit
	}
	return ClampLimit(*limit)
}

func truncate[T any](items []T, limit int) []T {
	limit = ClampLimit(limit)
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// failed promotes a false success flag into a ServiceError.
func failed(ok bool, message, operation string) error {
	if ok {
		return nil
	}
	return todoist.NewServiceError(message, nil).WithOperation(operation)
}
