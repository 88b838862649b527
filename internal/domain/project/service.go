// Package project manages the project list, the active selection and each
// project's workflow columns. All mutations go through the store's patch
// entry point.
package project

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

// DeletePolicy decides what happens to a deleted project's tasks.
type DeletePolicy string

const (
	// DeleteCascade removes the project's tasks along with it.
	DeleteCascade DeletePolicy = "cascade"
	// DeleteOrphan leaves the tasks in place, detached from any project view.
	DeleteOrphan DeletePolicy = "orphan"
)

// Service handles project operations.
type Service struct {
	store  *store.Store
	hub    *notify.Hub
	logger *slog.Logger
	policy DeletePolicy
}

// NewService creates a project service. hub may be nil; policy defaults to
// cascade when empty.
func NewService(st *store.Store, hub *notify.Hub, logger *slog.Logger, policy DeletePolicy) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if policy == "" {
		policy = DeleteCascade
	}
	return &Service{store: st, hub: hub, logger: logger, policy: policy}
}

// Summary is a lightweight project representation for listing.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Desc      string `json:"desc,omitempty"`
	TaskCount int    `json:"taskCount"`
	Active    bool   `json:"active"`
	CreatedAt int64  `json:"createdAt"`
}

// Create adds a new project with the default column set and makes it the
// active project.
func (s *Service) Create(ctx context.Context, name, desc string) (store.Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return store.Project{}, ErrInvalidInput
	}

	proj := store.Project{
		ID:        ident.New(),
		Name:      name,
		Desc:      strings.TrimSpace(desc),
		Columns:   store.DefaultColumns(),
		CreatedAt: time.Now().UnixMilli(),
	}
	err := s.store.Patch(ctx, func(d *store.Document) {
		d.Projects = append(d.Projects, proj)
		d.ActiveProjectID = proj.ID
	})
	if err != nil {
		return store.Project{}, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created", "id", proj.ID, "name", proj.Name)
	s.hub.Publish(notify.Event{Kind: notify.ProjectChanged, ProjectID: proj.ID})
	return proj, nil
}

// Select makes the project with the given id active.
func (s *Service) Select(ctx context.Context, id string) error {
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		if d.Project(id) == nil {
			opErr = ErrProjectNotFound
			return
		}
		d.ActiveProjectID = id
	})
	if err != nil {
		return fmt.Errorf("selecting project: %w", err)
	}
	if opErr != nil {
		return opErr
	}

	s.hub.Publish(notify.Event{Kind: notify.ProjectChanged, ProjectID: id})
	return nil
}

// Delete removes a project. Its tasks are removed or orphaned according to
// the service's delete policy. When the active project is deleted, the
// first remaining project becomes active.
func (s *Service) Delete(ctx context.Context, id string) error {
	var opErr error
	err := s.store.Patch(ctx, func(d *store.Document) {
		if d.Project(id) == nil {
			opErr = ErrProjectNotFound
			return
		}

		kept := d.Projects[:0]
		for _, p := range d.Projects {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		d.Projects = kept

		if s.policy == DeleteCascade {
			tasks := d.Tasks[:0]
			for _, t := range d.Tasks {
				if t.ProjectID != id {
					tasks = append(tasks, t)
				}
			}
			d.Tasks = tasks
		}

		if d.ActiveProjectID == id {
			d.ActiveProjectID = ""
			if len(d.Projects) > 0 {
				d.ActiveProjectID = d.Projects[0].ID
			}
		}
	})
	if err != nil {
		return fmt.Errorf("deleting project: %w", err)
	}
	if opErr != nil {
		return opErr
	}

	s.logger.Info("project deleted", "id", id, "policy", string(s.policy))
	s.hub.Publish(notify.Event{Kind: notify.ProjectChanged, ProjectID: s.store.State().ActiveProjectID})
	s.hub.Publish(notify.Event{Kind: notify.TasksChanged})
	return nil
}

// List returns summaries for all projects in creation order.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	state := s.store.State()

	counts := make(map[string]int, len(state.Projects))
	for _, t := range state.Tasks {
		counts[t.ProjectID]++
	}

	out := make([]Summary, 0, len(state.Projects))
	for _, p := range state.Projects {
		out = append(out, Summary{
			ID:        p.ID,
			Name:      p.Name,
			Desc:      p.Desc,
			TaskCount: counts[p.ID],
			Active:    p.ID == state.ActiveProjectID,
			CreatedAt: p.CreatedAt,
		})
	}
	return out, nil
}

// Get returns a project snapshot by id.
func (s *Service) Get(ctx context.Context, id string) (store.Project, error) {
	state := s.store.State()
	proj := state.Project(id)
	if proj == nil {
		return store.Project{}, ErrProjectNotFound
	}
	return *proj, nil
}
