package todoist

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubLister struct {
	projects     []Project
	labels       []Label
	err          error
	projectCalls int
	labelCalls   int
}

func (s *stubLister) GetProjects(context.Context) ([]Project, error) {
	s.projectCalls++
	return s.projects, s.err
}

func (s *stubLister) GetLabels(context.Context) ([]Label, error) {
	s.labelCalls++
	return s.labels, s.err
}

func TestResolve(t *testing.T) {
	projects := []Project{
		{ID: "1", Name: "Inbox"},
		{ID: "7", Name: "Home"},
		{ID: "9", Name: "HOME"},
	}

	tests := []struct {
		name   string
		lookup string
		wantID string
		wantOK bool
	}{
		{"exact", "Inbox", "1", true},
		{"case insensitive", "inbox", "1", true},
		{"first match wins", "home", "7", true},
		{"no partial match", "Hom", "", false},
		{"missing", "Work", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := Resolve(tt.lookup, projects, projectName, projectID)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantID, id)

			again, _ := Resolve(tt.lookup, projects, projectName, projectID)
			assert.Equal(t, id, again)
		})
	}
}

func TestResolver_ProjectID(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{projects: []Project{{ID: "7", Name: "Home"}}}
	r := NewResolver(lister)

	id, err := r.ProjectID(ctx, "home")
	require.NoError(t, err)
	assert.Equal(t, "7", id)

	_, err = r.ProjectID(ctx, "Nonexistent")
	require.Error(t, err)
	assert.True(t, IsValidation(err))
	assert.Equal(t, "Project not found: Nonexistent", err.Error())

	_, err = r.ParentProjectID(ctx, "Garden")
	require.Error(t, err)
	assert.Equal(t, "Parent project not found: Garden", err.Error())

	// every lookup re-fetches
	assert.Equal(t, 3, lister.projectCalls)
}

func TestResolver_Label(t *testing.T) {
	ctx := context.Background()
	lister := &stubLister{labels: []Label{{ID: "l1", Name: "errand"}, {ID: "l2", Name: "Work"}}}
	r := NewResolver(lister)

	label, err := r.Label(ctx, "WORK")
	require.NoError(t, err)
	assert.Equal(t, "l2", label.ID)
	assert.Equal(t, "Work", label.Name)

	id, err := r.LabelID(ctx, "Errand")
	require.NoError(t, err)
	assert.Equal(t, "l1", id)

	_, err = r.LabelID(ctx, "urgent")
	require.Error(t, err)
	assert.Equal(t, "Label not found: urgent", err.Error())
}

func TestResolver_PropagatesListErrors(t *testing.T) {
	boom := NewServiceError("Failed to get projects: boom", errors.New("boom"))
	r := NewResolver(&stubLister{err: boom})

	_, err := r.ProjectID(context.Background(), "Home")
	assert.Same(t, boom, err)
}

func TestReference_Resolve(t *testing.T) {
	ctx := context.Background()

	calls := 0
	lookup := func(_ context.Context, name string) (string, error) {
		calls++
		return "resolved-" + name, nil
	}

	id, err := Reference{ID: "42", Name: "Home"}.Resolve(ctx, lookup)
	require.NoError(t, err)
	assert.Equal(t, "42", id)
	assert.Equal(t, 0, calls, "explicit id must suppress the lookup")

	id, err = Reference{Name: "Home"}.Resolve(ctx, lookup)
	require.NoError(t, err)
	assert.Equal(t, "resolved-Home", id)
	assert.Equal(t, 1, calls)

	id, err = Reference{}.Resolve(ctx, lookup)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Equal(t, 1, calls)
	assert.True(t, Reference{}.IsZero())
}
