// Package mcp exposes the planning board to agent clients as an MCP server.
// It is a thin view-coordinator layer: tools call into the project and task
// services and return snapshots; all state lives in the store.
package mcp

import (
	"context"
	"log/slog"

	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/store"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `Planboard is a local kanban-style planning board.
Projects contain ordered workflow columns; tasks live in one column of their
project. Use get_board for a render-ready view of the active project,
select_project to switch projects, and move_task to drag a task between
columns. Column ids are project-scoped: moving a task across projects remaps
it onto the destination's columns by role.`

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, name, desc string) (store.Project, error)
	Select(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]project.Summary, error)
	Get(ctx context.Context, id string) (store.Project, error)
	AddColumn(ctx context.Context, projectID, name string, role store.Role, color string) (store.Column, error)
	UpdateColumn(ctx context.Context, projectID, columnID string, upd project.ColumnUpdate) error
	MoveColumn(ctx context.Context, projectID, columnID string, index int) error
	DeleteColumn(ctx context.Context, projectID, columnID string) error
}

// TaskService defines task operations needed by MCP.
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

// Services contains everything the MCP surface needs.
type Services struct {
	Projects ProjectService
	Tasks    TaskService
	State    StateSource
}

// Config contains server configuration.
type Config struct {
	Services Services
	Logger   *slog.Logger
}

// NewServer creates and configures an MCP server with all tools.
func NewServer(cfg Config) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "planboard",
		Version: "0.1.0",
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
		Logger:       cfg.Logger,
	})

	server.AddReceivingMiddleware(trafficLoggingMiddleware(cfg.Logger, "inbound"))
	server.AddSendingMiddleware(trafficLoggingMiddleware(cfg.Logger, "outbound"))

	registerTools(server, cfg.Services)

	return server
}
