package project_test

import (
	"context"
	"testing"

	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/notify"
	"github.com/rpggio/planboard/internal/storage"
	"github.com/rpggio/planboard/internal/store"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(context.Background(), storage.NewMemory(), "test", nil)
	require.NoError(t, err)
	return s
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	_, err := svc.Create(ctx, "   ", "desc")
	require.ErrorIs(t, err, project.ErrInvalidInput)
	require.Empty(t, st.State().Projects)
}

func TestCreateSetsActive(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	hub := notify.NewHub()
	var events []notify.Event
	hub.Subscribe(func(ev notify.Event) { events = append(events, ev) })

	svc := project.NewService(st, hub, nil, "")
	proj, err := svc.Create(ctx, "  alpha ", " first ")
	require.NoError(t, err)
	require.Equal(t, "alpha", proj.Name)
	require.Equal(t, "first", proj.Desc)
	require.Len(t, proj.Columns, 4)

	state := st.State()
	require.Equal(t, proj.ID, state.ActiveProjectID)
	require.Len(t, state.Projects, 1)

	require.Len(t, events, 1)
	require.Equal(t, notify.ProjectChanged, events[0].Kind)
	require.Equal(t, proj.ID, events[0].ProjectID)
}

func TestSelect(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)
	_, err = svc.Create(ctx, "beta", "")
	require.NoError(t, err)

	require.NoError(t, svc.Select(ctx, a.ID))
	require.Equal(t, a.ID, st.State().ActiveProjectID)

	require.ErrorIs(t, svc.Select(ctx, "ghost"), project.ErrProjectNotFound)
	require.Equal(t, a.ID, st.State().ActiveProjectID)
}

func TestDeleteCascade(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, project.DeleteCascade)

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "beta", "")
	require.NoError(t, err)

	require.NoError(t, st.Patch(ctx, func(d *store.Document) {
		d.Tasks = append(d.Tasks,
			store.Task{ID: "t1", ProjectID: a.ID, Name: "x", ColumnID: a.Columns[0].ID},
			store.Task{ID: "t2", ProjectID: b.ID, Name: "y", ColumnID: b.Columns[0].ID},
		)
	}))

	require.NoError(t, svc.Delete(ctx, a.ID))

	state := st.State()
	require.Len(t, state.Projects, 1)
	require.Len(t, state.Tasks, 1)
	require.Equal(t, "t2", state.Tasks[0].ID)
}

func TestDeleteOrphan(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, project.DeleteOrphan)

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)

	require.NoError(t, st.Patch(ctx, func(d *store.Document) {
		d.Tasks = append(d.Tasks, store.Task{ID: "t1", ProjectID: a.ID, Name: "x"})
	}))

	require.NoError(t, svc.Delete(ctx, a.ID))

	state := st.State()
	require.Empty(t, state.Projects)
	require.Len(t, state.Tasks, 1)
}

func TestDeleteResetsActive(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "beta", "")
	require.NoError(t, err)

	// beta is active; deleting it falls back to the first remaining project.
	require.NoError(t, svc.Delete(ctx, b.ID))
	require.Equal(t, a.ID, st.State().ActiveProjectID)

	require.NoError(t, svc.Delete(ctx, a.ID))
	require.Empty(t, st.State().ActiveProjectID)

	require.ErrorIs(t, svc.Delete(ctx, a.ID), project.ErrProjectNotFound)
}

func TestList(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)
	b, err := svc.Create(ctx, "beta", "")
	require.NoError(t, err)

	require.NoError(t, st.Patch(ctx, func(d *store.Document) {
		d.Tasks = append(d.Tasks, store.Task{ID: "t1", ProjectID: a.ID, Name: "x"})
	}))

	list, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, 1, list[0].TaskCount)
	require.False(t, list[0].Active)
	require.Equal(t, 0, list[1].TaskCount)
	require.True(t, list[1].Active)
	require.Equal(t, b.ID, list[1].ID)
}

func TestAddColumn(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)

	col, err := svc.AddColumn(ctx, a.ID, "blocked", store.RoleDoing, "#cc0000")
	require.NoError(t, err)
	require.Equal(t, 4, col.Order)

	proj, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, proj.Columns, 5)
	require.Equal(t, col.ID, proj.Columns[4].ID)

	_, err = svc.AddColumn(ctx, a.ID, "  ", store.RoleDoing, "")
	require.ErrorIs(t, err, project.ErrInvalidInput)
	_, err = svc.AddColumn(ctx, "ghost", "blocked", store.RoleDoing, "")
	require.ErrorIs(t, err, project.ErrProjectNotFound)
}

func TestUpdateColumn(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)

	name := "icebox"
	role := store.RoleDone
	require.NoError(t, svc.UpdateColumn(ctx, a.ID, a.Columns[0].ID, project.ColumnUpdate{
		Name: &name,
		Role: &role,
	}))

	proj, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "icebox", proj.Columns[0].Name)
	require.Equal(t, store.RoleDone, proj.Columns[0].Role)
	// Untouched fields survive.
	require.Equal(t, a.Columns[0].Color, proj.Columns[0].Color)

	empty := " "
	err = svc.UpdateColumn(ctx, a.ID, a.Columns[0].ID, project.ColumnUpdate{Name: &empty})
	require.ErrorIs(t, err, project.ErrInvalidInput)

	err = svc.UpdateColumn(ctx, a.ID, "ghost", project.ColumnUpdate{})
	require.ErrorIs(t, err, project.ErrColumnNotFound)
}

func TestMoveColumn(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)

	// Move "done" to the front; out-of-range indexes clamp.
	require.NoError(t, svc.MoveColumn(ctx, a.ID, a.Columns[3].ID, -5))

	proj, err := svc.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, a.Columns[3].ID, proj.Columns[0].ID)
	for i, col := range proj.Columns {
		require.Equal(t, i, col.Order)
	}
}

func TestDeleteColumnReassignsTasks(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)

	require.NoError(t, st.Patch(ctx, func(d *store.Document) {
		d.Tasks = append(d.Tasks,
			store.Task{ID: "t1", ProjectID: a.ID, Name: "x", ColumnID: a.Columns[1].ID},
			store.Task{ID: "t2", ProjectID: a.ID, Name: "y", ColumnID: a.Columns[2].ID},
		)
	}))

	require.NoError(t, svc.DeleteColumn(ctx, a.ID, a.Columns[1].ID))

	state := st.State()
	require.Len(t, state.Projects[0].Columns, 3)
	require.Equal(t, a.Columns[0].ID, state.Tasks[0].ColumnID)
	require.Equal(t, a.Columns[2].ID, state.Tasks[1].ColumnID)
}

func TestDeleteLastColumnRejected(t *testing.T) {
	ctx := context.Background()
	st := newStore(t)
	svc := project.NewService(st, nil, nil, "")

	a, err := svc.Create(ctx, "alpha", "")
	require.NoError(t, err)

	for _, col := range a.Columns[1:] {
		require.NoError(t, svc.DeleteColumn(ctx, a.ID, col.ID))
	}
	err = svc.DeleteColumn(ctx, a.ID, a.Columns[0].ID)
	require.ErrorIs(t, err, project.ErrLastColumn)
	require.Len(t, st.State().Projects[0].Columns, 1)
}
