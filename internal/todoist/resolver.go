package todoist

import (
	"context"
	"strings"
)

// Find returns the first item whose name matches name case-insensitively.
// Matching is exact apart from case; collection order breaks ties.
func Find[T any](name string, items []T, nameOf func(T) string) (T, bool) {
	for _, item := range items {
		if strings.EqualFold(nameOf(item), name) {
			return item, true
		}
	}
	var zero T
	return zero, false
}

// Resolve returns the id of the first item whose name matches name.
func Resolve[T any](name string, items []T, nameOf, idOf func(T) string) (string, bool) {
	item, ok := Find(name, items, nameOf)
	if !ok {
		return "", false
	}
	return idOf(item), true
}

func projectName(p Project) string { return p.Name }
func projectID(p Project) string   { return p.ID }
func labelName(l Label) string     { return l.Name }

// Lister lists the collections names are resolved against.
type Lister interface {
	GetProjects(ctx context.Context) ([]Project, error)
	GetLabels(ctx context.Context) ([]Label, error)
}

// Resolver maps project and label names to ids. Every lookup re-fetches the
// full collection.
type Resolver struct {
	lister Lister
}

// NewResolver creates a Resolver backed by lister.
func NewResolver(lister Lister) *Resolver {
	return &Resolver{lister: lister}
}

// ProjectID returns the id of the project called name.
func (r *Resolver) ProjectID(ctx context.Context, name string) (string, error) {
	return r.project(ctx, name, "Project not found: ")
}

// ParentProjectID is ProjectID with the error message used for parent references.
func (r *Resolver) ParentProjectID(ctx context.Context, name string) (string, error) {
	return r.project(ctx, name, "Parent project not found: ")
}

func (r *Resolver) project(ctx context.Context, name, notFound string) (string, error) {
	projects, err := r.lister.GetProjects(ctx)
	if err != nil {
		return "", err
	}
	id, ok := Resolve(name, projects, projectName, projectID)
	if !ok {
		return "", NewValidationError(notFound + name)
	}
	return id, nil
}

// Label returns the label called name.
func (r *Resolver) Label(ctx context.Context, name string) (*Label, error) {
	labels, err := r.lister.GetLabels(ctx)
	if err != nil {
		return nil, err
	}
	label, ok := Find(name, labels, labelName)
	if !ok {
		return nil, NewValidationError("Label not found: " + name)
	}
	return &label, nil
}

// LabelID returns the id of the label called name.
func (r *Resolver) LabelID(ctx context.Context, name string) (string, error) {
	label, err := r.Label(ctx, name)
	if err != nil {
		return "", err
	}
	return label.ID, nil
}

// Reference points at an entity by id or by name. The id always wins.
type Reference struct {
	ID   string
	Name string
}

// IsZero reports whether neither id nor name is set.
func (r Reference) IsZero() bool {
	return r.ID == "" && r.Name == ""
}

// Resolve returns the referenced id. lookup is only called when no id is
// given and a name is.
func (r Reference) Resolve(ctx context.Context, lookup func(context.Context, string) (string, error)) (string, error) {
	if r.ID != "" {
		return r.ID, nil
	}
	if r.Name == "" {
		return "", nil
	}
	return lookup(ctx, r.Name)
}
