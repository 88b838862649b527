package project

import (
	"context"
	"fmt"
	"strings"

	"github.com/rpggio/planboard/internal/ident"
	"github.com/rpggio/planboard/internal/notify"
	"github.com/rpggio/planboard/internal/store"
)

// ColumnUpdate carries optional column field changes; nil fields are left
// unchanged.
type ColumnUpdate struct {
	Name  *string
	Role  *store.Role
	Color *string
}

// AddColumn appends a new column to the project's workflow.
func (s *Service) AddColumn(ctx context.Context, projectID, name string, role store.Role, color string) (store.Column, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Column{}, ErrInvalidInput
	}
	if role == "" {
		role = store.RoleTodo
	}

	col := store.Column{
		ID:    ident.New(),
		Name:  name,
		Role:  role,
		Color: color,
	}
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		proj := d.Project(projectID)
		if proj == nil {
			opErr = ErrProjectNotFound
			return
		}
		col.Order = len(proj.Columns)
		proj.Columns = append(proj.Columns, col)
	})
	if err != nil {
		return store.Column{}, fmt.Errorf("adding column: %w", err)
	}
	if opErr != nil {
		return store.Column{}, opErr
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return col, nil
}

// UpdateColumn renames, re-roles or recolors a column.
func (s *Service) UpdateColumn(ctx context.Context, projectID, columnID string, upd ColumnUpdate) error {
	if upd.Name != nil && strings.TrimSpace(*upd.Name) == "" {
		return ErrInvalidInput
	}

	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		proj := d.Project(projectID)
		if proj == nil {
			opErr = ErrProjectNotFound
			return
		}
		col := proj.Column(columnID)
		if col == nil {
			opErr = ErrColumnNotFound
			return
		}
		if upd.Name != nil {
			col.Name = strings.TrimSpace(*upd.Name)
		}
		if upd.Role != nil {
			col.Role = *upd.Role
		}
		if upd.Color != nil {
			col.Color = *upd.Color
		}
	})
	if err != nil {
		return fmt.Errorf("updating column: %w", err)
	}
	if opErr != nil {
		return opErr
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}

// MoveColumn moves a column to the given index in the project's workflow,
// clamping out-of-range indexes. Order values are renumbered to match the
// final array positions.
func (s *Service) MoveColumn(ctx context.Context, projectID, columnID string, index int) error {
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		proj := d.Project(projectID)
		if proj == nil {
			opErr = ErrProjectNotFound
			return
		}

		from := -1
		for i, col := range proj.Columns {
			if col.ID == columnID {
				from = i
				break
			}
		}
		if from == -1 {
			opErr = ErrColumnNotFound
			return
		}

		if index < 0 {
			index = 0
		}
		if index > len(proj.Columns)-1 {
			index = len(proj.Columns) - 1
		}

		col := proj.Columns[from]
		proj.Columns = append(proj.Columns[:from], proj.Columns[from+1:]...)
		proj.Columns = append(proj.Columns[:index], append([]store.Column{col}, proj.Columns[index:]...)...)
		for i := range proj.Columns {
			proj.Columns[i].Order = i
		}
	})
	if err != nil {
		return fmt.Errorf("moving column: %w", err)
	}
	if opErr != nil {
		return opErr
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}

// DeleteColumn removes a column. Tasks referencing it are reassigned to the
// project's first remaining column. Removing the last column is rejected so
// every project keeps a non-empty workflow.
func (s *Service) DeleteColumn(ctx context.Context, projectID, columnID string) error {
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		proj := d.Project(projectID)
		if proj == nil {
			opErr = ErrProjectNotFound
			return
		}
		if proj.Column(columnID) == nil {
			opErr = ErrColumnNotFound
			return
		}
		if len(proj.Columns) == 1 {
			opErr = ErrLastColumn
			return
		}

		kept := proj.Columns[:0]
		for _, col := range proj.Columns {
			if col.ID != columnID {
				kept = append(kept, col)
			}
		}
		proj.Columns = kept
		for i := range proj.Columns {
			proj.Columns[i].Order = i
		}

		fallback := proj.Columns[0].ID
		for i := range d.Tasks {
			if d.Tasks[i].ProjectID == projectID && d.Tasks[i].ColumnID == columnID {
				d.Tasks[i].ColumnID = fallback
			}
		}
	})
	if err != nil {
		return fmt.Errorf("deleting column: %w", err)
	}
	if opErr != nil {
		return opErr
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}
