// Package task manages tasks within the active project: creation, editing,
// movement between columns and projects, and filtered board views. All
// mutations go through the store's patch entry point. Operations on a task
// that no longer exists are silent no-ops: a delete may race an open edit
// form, and that is expected rather than an error.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/rpggio/planboard/internal/ident"
	"github.com/rpggio/planboard/internal/notify"
	"github.com/rpggio/planboard/internal/store"
)

// MaxTags caps how many tags a task carries.
const MaxTags = 8

// Service handles task operations.
type Service struct {
	store  *store.Store
	hub    *notify.Hub
	logger *slog.Logger
}

// NewService creates a task service. hub may be nil.
func NewService(st *store.Store, hub *notify.Hub, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{store: st, hub: hub, logger: logger}
}

// CreateRequest defines task creation inputs. Tags is a comma-separated
// list as typed into the form; ColumnID empty means the project's first
// todo-role column.
type CreateRequest struct {
	Name     string
	Desc     string
	ColumnID string
	Priority string
	Deadline string
	Tags     string
}

// UpdateRequest overwrites a task's editable fields. ColumnID empty keeps
// the current column.
type UpdateRequest struct {
	Name     string
	Desc     string
	ColumnID string
	Priority string
	Deadline string
	Tags     string
}

// Create adds a task to the active project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (store.Task, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return store.Task{}, ErrInvalidInput
	}

	var created store.Task
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		proj := d.Project(d.ActiveProjectID)
		if proj == nil {
			opErr = ErrNoActiveProject
			return
		}

		columnID := req.ColumnID
		if columnID == "" {
			columnID = defaultColumn(proj).ID
		} else if proj.Column(columnID) == nil {
			opErr = ErrColumnNotFound
			return
		}

		created = store.Task{
			ID:        ident.New(),
			ProjectID: proj.ID,
			Name:      name,
			Desc:      strings.TrimSpace(req.Desc),
			ColumnID:  columnID,
			Priority:  normalizePriority(req.Priority),
			Deadline:  strings.TrimSpace(req.Deadline),
			Tags:      ParseTags(req.Tags),
			CreatedAt: time.Now().UnixMilli(),
		}
		d.Tasks = append(d.Tasks, created)
	})
	if err != nil {
		return store.Task{}, fmt.Errorf("creating task: %w", err)
	}
	if opErr != nil {
		return store.Task{}, opErr
	}

	s.logger.Info("task created", "id", created.ID, "project", created.ProjectID)
	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: created.ProjectID})
	return created, nil
}

// Update overwrites the editable fields of a task. Updating a task that no
// longer exists is a no-op.
func (s *Service) Update(ctx context.Context, id string, req UpdateRequest) error {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return ErrInvalidInput
	}

	var projectID string
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		t := d.Task(id)
		if t == nil {
			return
		}
		if req.ColumnID != "" {
			proj := d.Project(t.ProjectID)
			if proj == nil || proj.Column(req.ColumnID) == nil {
				opErr = ErrColumnNotFound
				return
			}
			t.ColumnID = req.ColumnID
		}
		t.Name = name
		t.Desc = strings.TrimSpace(req.Desc)
		t.Priority = normalizePriority(req.Priority)
		t.Deadline = strings.TrimSpace(req.Deadline)
		t.Tags = ParseTags(req.Tags)
		projectID = t.ProjectID
	})
	if err != nil {
		return fmt.Errorf("updating task: %w", err)
	}
	if opErr != nil {
		return opErr
	}
	if projectID == "" {
		return nil
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}

// Delete removes a task. An absent id is a no-op.
func (s *Service) Delete(ctx context.Context, id string) error {
	var projectID string
	err := s.store.Patch(ctx, func(d *store.Document) {
		kept := d.Tasks[:0]
		for _, t := range d.Tasks {
			if t.ID == id {
				projectID = t.ProjectID
				continue
			}
			kept = append(kept, t)
		}
		d.Tasks = kept
	})
	if err != nil {
		return fmt.Errorf("deleting task: %w", err)
	}
	if projectID == "" {
		return nil
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}

// Move reassigns a task to another column of its project. Moving an absent
// task is a no-op; an unknown column is rejected so a stale drag target
// cannot corrupt the task.
func (s *Service) Move(ctx context.Context, id, columnID string) error {
	var projectID string
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		t := d.Task(id)
		if t == nil {
			return
		}
		proj := d.Project(t.ProjectID)
		if proj == nil || proj.Column(columnID) == nil {
			opErr = ErrColumnNotFound
			return
		}
		t.ColumnID = columnID
		projectID = t.ProjectID
	})
	if err != nil {
		return fmt.Errorf("moving task: %w", err)
	}
	if opErr != nil {
		return opErr
	}
	if projectID == "" {
		return nil
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}

// MoveToProject reassigns a task to another project. Column ids are
// project-scoped, so the task lands in the destination column whose role
// matches its current column's role, falling back to the destination's
// first column.
func (s *Service) MoveToProject(ctx context.Context, id, projectID string) error {
	var moved bool
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		t := d.Task(id)
		if t == nil {
			return
		}
		dest := d.Project(projectID)
		if dest == nil || len(dest.Columns) == 0 {
			opErr = ErrProjectNotFound
			return
		}
		if t.ProjectID == projectID {
			return
		}

		role := store.RoleTodo
		if src := d.Project(t.ProjectID); src != nil {
			if col := src.Column(t.ColumnID); col != nil {
				role = col.Role
			}
		}
		target := dest.ColumnByRole(role)
		if target == nil {
			target = &dest.Columns[0]
		}
		t.ProjectID = dest.ID
		t.ColumnID = target.ID
		moved = true
	})
	if err != nil {
		return fmt.Errorf("moving task to project: %w", err)
	}
	if opErr != nil {
		return opErr
	}
	if !moved {
		return nil
	}

	s.hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: projectID})
	return nil
}

// Get returns a task snapshot, with ok reporting whether it exists.
func (s *Service) Get(ctx context.Context, id string) (store.Task, bool) {
	state := s.store.State()
	t := state.Task(id)
	if t == nil {
		return store.Task{}, false
	}
	return *t, true
}

// defaultColumn picks where new tasks land: the first todo-role column,
// else the first column.
func defaultColumn(proj *store.Project) *store.Column {
	if col := proj.ColumnByRole(store.RoleTodo); col != nil {
		return col
	}
	return &proj.Columns[0]
}

func normalizePriority(p string) string {
	switch p {
	case store.PriorityLow, store.PriorityMid, store.PriorityHigh:
		return p
	default:
		return store.PriorityMid
	}
}

// ParseTags splits a comma-separated tag list, trimming entries, dropping
// empties and capping the result at MaxTags.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		tags = append(tags, p)
		if len(tags) == MaxTags {
			break
		}
	}
	return tags
}
