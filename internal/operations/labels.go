package operations

import (
	"context"

	"github.com/teemow/mcp-todoist/internal/logging"
	"github.com/teemow/mcp-todoist/internal/todoist"
)

const (
	opUpdateLabel = "update label"
	opDeleteLabel = "delete label"

	fallbackLabelName = "the label"
)

// LabelCreateRequest describes a new personal label.
type LabelCreateRequest struct {
	Name     string `validate:"required"`
	Color    string `validate:"omitempty,todoist_color"`
	Order    int    `validate:"min=0"`
	Favorite bool
}

// ListLabels returns the labels truncated to the clamped limit.
func (s *Service) ListLabels(ctx context.Context, limit int) ([]todoist.Label, error) {
	labels, err := s.remote.GetLabels(ctx)
	if err != nil {
		return nil, err
	}
	return truncate(labels, limit), nil
}

// CreateLabel creates a label and returns it as re-read from Todoist.
func (s *Service) CreateLabel(ctx context.Context, req LabelCreateRequest) (*todoist.Label, error) {
	if err := check(req); err != nil {
		return nil, err
	}

	created, err := s.remote.CreateLabel(ctx, todoist.LabelCreate{
		Name:       req.Name,
		Color:      req.Color,
		Order:      req.Order,
		IsFavorite: req.Favorite,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("label created", logging.ID(created.ID))

	return s.remote.GetLabel(ctx, created.ID)
}

// UpdateLabel applies a partial update to the referenced label and returns
// it as re-read from Todoist.
func (s *Service) UpdateLabel(ctx context.Context, ref todoist.Reference, update todoist.LabelUpdate) (*todoist.Label, error) {
	if ref.IsZero() {
		return nil, todoist.NewValidationError("Either label_id or label_name is required")
	}
	if err := checkColor(update.Color); err != nil {
		return nil, err
	}

	id, err := ref.Resolve(ctx, s.resolver.LabelID)
	if err != nil {
		return nil, err
	}

	ok, err := s.remote.UpdateLabel(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if err := failed(ok, "Failed to update label", opUpdateLabel); err != nil {
		return nil, err
	}
	s.logger.Info("label updated", logging.ID(id))

	return s.remote.GetLabel(ctx, id)
}

// DeleteLabel deletes the referenced label.
func (s *Service) DeleteLabel(ctx context.Context, ref todoist.Reference) (*Confirmation, error) {
	if ref.IsZero() {
		return nil, todoist.NewValidationError("Either label_id or label_name is required")
	}

	id, err := ref.Resolve(ctx, s.resolver.LabelID)
	if err != nil {
		return nil, err
	}

	name := ref.Name
	if label, err := s.remote.GetLabel(ctx, id); err == nil && label != nil {
		name = label.Name
	} else if name == "" {
		name = fallbackLabelName
	}

	ok, err := s.remote.DeleteLabel(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := failed(ok, "Failed to delete label", opDeleteLabel); err != nil {
		return nil, err
	}
	s.logger.Info("label deleted", logging.ID(id))

	return &Confirmation{ID: id, Name: name}, nil
}
