package operations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/mcp-todoist/internal/todoist"
)

func remoteWithLabels() *fakeRemote {
	f := newFakeRemote()
	f.labels = []todoist.Label{
		{ID: "l1", Name: "errand", Color: "red"},
		{ID: "l2", Name: "Waiting"},
	}
	return f
}

func TestListLabels_Limit(t *testing.T) {
	svc := newTestService(remoteWithLabels())

	labels, err := svc.ListLabels(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, labels, 1)
	assert.Equal(t, "errand", labels[0].Name)
}

func TestCreateLabel(t *testing.T) {
	remote := remoteWithLabels()
	svc := newTestService(remote)

	label, err := svc.CreateLabel(context.Background(), LabelCreateRequest{Name: "focus", Color: "teal", Favorite: true})
	require.NoError(t, err)
	assert.Equal(t, "focus", label.Name)
	assert.True(t, remote.lastLabelCreate.IsFavorite)
	assert.Equal(t, 1, remote.count("GetLabel"), "result should be re-fetched")

	_, err = svc.CreateLabel(context.Background(), LabelCreateRequest{})
	assert.Equal(t, "Label name is required", err.Error())

	_, err = svc.CreateLabel(context.Background(), LabelCreateRequest{Name: "x", Color: "rainbow"})
	assert.Equal(t, todoist.ColorError().Error(), err.Error())
}

func TestUpdateLabel(t *testing.T) {
	remote := remoteWithLabels()
	svc := newTestService(remote)

	label, err := svc.UpdateLabel(context.Background(),
		todoist.Reference{Name: "WAITING"},
		todoist.LabelUpdate{Name: ptr("blocked"), IsFavorite: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, "l2", remote.lastID)
	assert.Equal(t, "blocked", label.Name)
	require.NotNil(t, remote.lastLabelUpdate.IsFavorite)
	assert.Nil(t, remote.lastLabelUpdate.Color)

	_, err = svc.UpdateLabel(context.Background(), todoist.Reference{}, todoist.LabelUpdate{})
	assert.Equal(t, "Either label_id or label_name is required", err.Error())

	_, err = svc.UpdateLabel(context.Background(), todoist.Reference{Name: "someday"}, todoist.LabelUpdate{})
	assert.Equal(t, "Label not found: someday", err.Error())

	remote.ok = false
	_, err = svc.UpdateLabel(context.Background(), todoist.Reference{ID: "l1"}, todoist.LabelUpdate{})
	assert.Equal(t, "Failed to update label", err.Error())
}

func TestDeleteLabel(t *testing.T) {
	remote := remoteWithLabels()
	svc := newTestService(remote)

	conf, err := svc.DeleteLabel(context.Background(), todoist.Reference{Name: "Errand"})
	require.NoError(t, err)
	assert.Equal(t, &Confirmation{ID: "l1", Name: "errand"}, conf)

	remote.failGet = true
	conf, err = svc.DeleteLabel(context.Background(), todoist.Reference{ID: "l1"})
	require.NoError(t, err)
	assert.Equal(t, "the label", conf.Name)

	remote.ok = false
	_, err = svc.DeleteLabel(context.Background(), todoist.Reference{ID: "l1"})
	require.Error(t, err)
	assert.True(t, todoist.IsService(err))
	assert.Equal(t, "Failed to delete label", err.Error())
}
