package operations

import (
	"context"

	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

const (
	opUpdateProject = "update project"
	opDeleteProject = "delete project"

	fallbackProjectName = "the project"
)

// ProjectCreateRequest describes a new project. ParentName is resolved when
// no ParentID is given.
type ProjectCreateRequest struct {
	Name       string `validate:"required"`
	ParentID   string
	ParentName string
	Color      string `validate:"omitempty,todoist_color"`
	Favorite   bool
	ViewStyle  string `validate:"omitempty,oneof=list board"`
}

// ProjectResult is a project together with its parent's name, if it has a
// parent and the parent could be read.
type ProjectResult struct {
	Project    *todoist.Project
	ParentName string
}

// ListProjects returns the projects truncated to the clamped limit.
func (s *Service) ListProjects(ctx context.Context, limit int) ([]todoist.Project, error) {
	projects, err := s.remote.GetProjects(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(projects, limit), nil
}

// CreateProject creates a project and returns it as re-read from Todoist.
func (s *Service) CreateProject(ctx context.Context, req ProjectCreateRequest) (*ProjectResult, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	parentID, err := todoist.Reference{ID: req.ParentID, Name: req.ParentName}.
		Resolve(ctx, s.resolver.ParentProjectID)
	if err != nil {
		return nil, err
	}

	created, err := s.remote.CreateProject(ctx, todoist.ProjectCreate{
		Name:       req.Name,
		ParentID:   parentID,
		Color:      req.Color,
		IsFavorite: req.Favorite,
		ViewStyle:  req.ViewStyle,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("project created", logging.ID(created.ID))

	project, err := s.remote.GetProject(ctx, created.ID)
	if err != nil {
		return nil, err
	}
	return s.withParent(ctx, project), nil
}

// UpdateProject applies a partial update to the referenced project and
// returns it as re-read from Todoist.
func (s *Service) UpdateProject(ctx context.Context, ref todoist.Reference, update todoist.ProjectUpdate) (*ProjectResult, error) {
	if ref.IsZero() {
		return nil, todoist.NewValidationError("Either project_id or project_name is required")
	}
	if err := checkColor(update.Color); err != nil {
		return nil, err
	}
	if err := checkViewStyle(update.ViewStyle); err != nil {
		return nil, err
	}

	id, err := ref.Resolve(ctx, s.resolver.ProjectID)
	if err != nil {
		return nil, err
	}

	ok, err := s.remote.UpdateProject(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if err := failed(ok, "Failed to update project", opUpdateProject); err != nil {
		return nil, err
	}
	s.logger.Info("project updated", logging.ID(id))

	project, err := s.remote.GetProject(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.withParent(ctx, project), nil
}

// DeleteProject deletes the referenced project.
func (s *Service) DeleteProject(ctx context.Context, ref todoist.Reference) (*Confirmation, error) {
	if ref.IsZero() {
		return nil, todoist.NewValidationError("Either project_id or project_name is required")
	}

	id, err := ref.Resolve(ctx, s.resolver.ProjectID)
	if err != nil {
		return nil, err
	}

	name := ref.Name
	if project, err := s.remote.GetProject(ctx, id); err == nil && project != nil {
		name = project.Name
	} else if name == "" {
		name = fallbackProjectName
	}

	ok, err := s.remote.DeleteProject(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := failed(ok, "Failed to delete project", opDeleteProject); err != nil {
		return nil, err
	}
	s.logger.Info("project deleted", logging.ID(id))

	return &Confirmation{ID: id, Name: name}, nil
}

// withParent adds the parent project name. A failed lookup leaves it empty.
func (s *Service) withParent(ctx context.Context, project *todoist.Project) *ProjectResult {
	result := &ProjectResult{Project: project}
	if project.ParentID == "" {
		return result
	}
	parent, err := s.remote.GetProject(ctx, project.ParentID)
	if err != nil || parent == nil {
		s.logger.Debug("parent project lookup failed", "parent_id", project.ParentID, logging.Err(err))
		return result
	}
	result.ParentName = parent.Name
	return result
}
