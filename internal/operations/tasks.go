package operations

import (
	"context"

	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

// Names used for failures promoted from a false success flag.
const (
	opUpdateTask = "update task"
	opCloseTask  = "close task"
	opReopenTask = "reopen task"
	opDeleteTask = "delete task"

	fallbackTaskName = "the task"
)

// TaskListRequest selects the tasks returned by ListTasks. Ids win over
// names. Filter flags are combined with the free text filter.
type TaskListRequest struct {
	ProjectID   string
	ProjectName string
	SectionID   string
	LabelID     string
	LabelName   string
	Filter      string
	DueToday    bool
	DueUpcoming bool
	Completed   bool
	Priority    int `validate:"omitempty,min=1,max=4"`
	Limit       int
}

// TaskCreateRequest describes a new task. ProjectName is resolved when no
// ProjectID is given. Priority 0 selects the default.
type TaskCreateRequest struct {
	Content     string `validate:"required"`
	Description string
	ProjectID   string
	ProjectName string
	SectionID   string
	ParentID    string
	Labels      []string
	Priority    int `validate:"omitempty,min=1,max=4"`
	DueString   string
	DueDate     string `validate:"due_date"`
	DueDatetime string
}

// TaskUpdateRequest is a partial task update. Nil fields are left unchanged.
type TaskUpdateRequest struct {
	Content     *string
	Description *string
	ProjectID   *string
	ProjectName string
	SectionID   *string
	ParentID    *string
	Labels      *[]string
	Priority    *int `validate:"omitnil,min=1,max=4"`
	DueString   *string
	DueDate     *string `validate:"omitnil,due_date"`
	DueDatetime *string
}

// ListTasks returns active tasks matching req, truncated to the clamped limit.
func (s *Service) ListTasks(ctx context.Context, req TaskListRequest) ([]todoist.Task, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	projectID, err := todoist.Reference{ID: req.ProjectID, Name: req.ProjectName}.
		Resolve(ctx, s.resolver.ProjectID)
	if err != nil {
		return nil, err
	}

	label, err := s.labelFilter(ctx, req.LabelID, req.LabelName)
	if err != nil {
		return nil, err
	}

	if req.Completed {
		s.logger.Info("completed tasks are not listed by the REST API, returning active tasks")
	}

	query := todoist.TaskQuery{
		ProjectID: projectID,
		SectionID: req.SectionID,
		Label:     label,
		Filter:    todoist.ComposeFilter(req.Filter, req.DueToday, req.DueUpcoming, req.Priority),
	}
	s.logger.Debug("listing tasks",
		"project_id", query.ProjectID,
		"label", query.Label,
		"filter", query.Filter)

	tasks, err := s.remote.GetTasks(ctx, query)
	if err != nil {
		return nil, err
	}
	return truncate(tasks, req.Limit), nil
}

// labelFilter returns the label name to filter by. The tasks endpoint
// filters by name, so an id is turned into the label's name.
func (s *Service) labelFilter(ctx context.Context, id, name string) (string, error) {
	if id != "" {
		label, err := s.remote.GetLabel(ctx, id)
		if err != nil {
			return "", err
		}
		return label.Name, nil
	}
	if name == "" {
		return "", nil
	}
	label, err := s.resolver.Label(ctx, name)
	if err != nil {
		return "", err
	}
	return label.Name, nil
}

// CreateTask creates a task and returns it as re-read from Todoist.
func (s *Service) CreateTask(ctx context.Context, req TaskCreateRequest) (*todoist.Task, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	projectID, err := todoist.Reference{ID: req.ProjectID, Name: req.ProjectName}.
		Resolve(ctx, s.resolver.ProjectID)
	if err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == 0 {
		priority = 1
	}

	created, err := s.remote.CreateTask(ctx, todoist.TaskCreate{
		Content:     req.Content,
		Description: req.Description,
		ProjectID:   projectID,
		SectionID:   req.SectionID,
		ParentID:    req.ParentID,
		Labels:      req.Labels,
		Priority:    priority,
		DueString:   req.DueString,
		DueDate:     req.DueDate,
		DueDatetime: req.DueDatetime,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task created", logging.ID(created.ID))

	return s.remote.GetTask(ctx, created.ID)
}

// UpdateTask applies a partial update and returns the task as re-read from
// Todoist.
func (s *Service) UpdateTask(ctx context.Context, id string, req TaskUpdateRequest) (*todoist.Task, error) {
	if id == "" {
		return nil, todoist.NewValidationError("Task ID is required")
	}
	if err := check(req); err != nil {
		return nil, err
	}

	projectID := req.ProjectID
	if projectID == nil && req.ProjectName != "" {
		resolved, err := s.resolver.ProjectID(ctx, req.ProjectName)
		if err != nil {
			return nil, err
		}
		projectID = &resolved
	}

	ok, err := s.remote.UpdateTask(ctx, id, todoist.TaskUpdate{
		Content:     req.Content,
		Description: req.Description,
		ProjectID:   projectID,
		SectionID:   req.SectionID,
		ParentID:    req.ParentID,
		Labels:      req.Labels,
		Priority:    req.Priority,
		DueString:   req.DueString,
		DueDate:     req.DueDate,
		DueDatetime: req.DueDatetime,
	})
	if err != nil {
		return nil, err
	}
	if err := failed(ok, "Failed to update task", opUpdateTask); err != nil {
		return nil, err
	}
	s.logger.Info("task updated", logging.ID(id))

	return s.remote.GetTask(ctx, id)
}

// CompleteTask marks a task as completed.
func (s *Service) CompleteTask(ctx context.Context, id string) (*Confirmation, error) {
	return s.actOnTask(ctx, id, s.remote.CloseTask, "Failed to complete task", opCloseTask)
}

// ReopenTask marks a completed task as active again.
func (s *Service) ReopenTask(ctx context.Context, id string) (*Confirmation, error) {
	return s.actOnTask(ctx, id, s.remote.ReopenTask, "Failed to reopen task", opReopenTask)
}

// DeleteTask permanently deletes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) (*Confirmation, error) {
	return s.actOnTask(ctx, id, s.remote.DeleteTask, "Failed to delete task", opDeleteTask)
}

func (s *Service) actOnTask(
	ctx context.Context,
	id string,
	action func(context.Context, string) (bool, error),
	failure, operation string,
) (*Confirmation, error) {
	if id == "" {
		return nil, todoist.NewValidationError("Task ID is required")
	}

	name := s.taskName(ctx, id)

	ok, err := action(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := failed(ok, failure, operation); err != nil {
		return nil, err
	}
	s.logger.Info("task action succeeded", logging.Operation(operation), logging.ID(id))

	return &Confirmation{ID: id, Name: name}, nil
}

// taskName looks up the task content for confirmation messages. Failures
// are not fatal.
func (s *Service) taskName(ctx context.Context, id string) string {
	task, err := s.remote.GetTask(ctx, id)
	if err != nil || task == nil {
		s.logger.Debug("task lookup failed", logging.ID(id), logging.Err(err))
		return fallbackTaskName
	}
	return task.Content
}
