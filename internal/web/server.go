// Package web serves the board to UI clients: a JSON REST API plus a
// websocket feed that pushes change notifications so independent views
// (board, project switcher) can re-render without polling.
package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/notify"
	"github.com/rpggio/planboard/internal/store"
)

// ProjectService defines project operations needed by the web surface.
type ProjectService interface {
	Create(ctx context.Context, name, desc string) (store.Project, error)
	Select(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]project.Summary, error)
	AddColumn(ctx context.Context, projectID, name string, role store.Role, color string) (store.Column, error)
	UpdateColumn(ctx context.Context, projectID, columnID string, upd project.ColumnUpdate) error
	MoveColumn(ctx context.Context, projectID, columnID string, index int) error
	DeleteColumn(ctx context.Context, projectID, columnID string) error
}

// TaskService defines task operations needed by the web surface.
type TaskService interface {
	Create(ctx context.Context, req task.CreateRequest) (store.Task, error)
	Update(ctx context.Context, id string, req task.UpdateRequest) error
	Delete(ctx context.Context, id string) error
	Move(ctx context.Context, id, columnID string) error
	MoveToProject(ctx context.Context, id, projectID string) error
	List(ctx context.Context, query string) ([]store.Task, error)
	Board(ctx context.Context, query string) (task.Board, error)
}

// StateSource provides read snapshots of the whole document.
type StateSource interface {
	State() store.Document
}

// Server bundles the web handlers and the websocket feed.
type Server struct {
	projects ProjectService
	tasks    TaskService
	state    StateSource
	feed     *Feed
	logger   *slog.Logger
}

// NewServer wires the handlers and subscribes the websocket feed to the
// notification hub. Run the feed with Serve's base context or a caller
// context via s.Feed().Run.
func NewServer(projects ProjectService, tasks TaskService, state StateSource, hub *notify.Hub, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		projects: projects,
		tasks:    tasks,
		state:    state,
		feed:     NewFeed(logger),
		logger:   logger,
	}
	if hub != nil {
		hub.Subscribe(func(ev notify.Event) { s.feed.Broadcast(ev) })
	}
	return s
}

// Feed returns the websocket feed; callers must run its loop.
func (s *Server) Feed() *Feed { return s.feed }

// Handler builds the routed, CORS-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/state", s.handleState).Methods(http.MethodGet)
	api.HandleFunc("/board", s.handleBoard).Methods(http.MethodGet)

	api.HandleFunc("/projects", s.handleListProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects", s.handleCreateProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/select", s.handleSelectProject).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}", s.handleDeleteProject).Methods(http.MethodDelete)

	api.HandleFunc("/projects/{id}/columns", s.handleAddColumn).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/columns/{col}", s.handleUpdateColumn).Methods(http.MethodPatch)
	api.HandleFunc("/projects/{id}/columns/{col}/move", s.handleMoveColumn).Methods(http.MethodPost)
	api.HandleFunc("/projects/{id}/columns/{col}", s.handleDeleteColumn).Methods(http.MethodDelete)

	api.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id}/move", s.handleMoveTask).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id}/project", s.handleMoveTaskToProject).Methods(http.MethodPost)

	api.HandleFunc("/ws", s.handleWebSocket)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
	})
	return c.Handler(r)
}
