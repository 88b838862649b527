package mcp

import (
	"context"

	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/store"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

type ack struct {
	OK bool `json:"ok"`
}

type createProjectParams struct {
	Name string `json:"name" jsonschema:"project display name"`
	Desc string `json:"desc,omitempty" jsonschema:"project description"`
}

type projectIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
}

type listProjectsResult struct {
	Projects []project.Summary `json:"projects"`
}

type addColumnParams struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
	Name      string `json:"name" jsonschema:"column display name"`
	Role      string `json:"role,omitempty" jsonschema:"column role: todo, doing or done (default todo)"`
	Color     string `json:"color,omitempty" jsonschema:"display color, e.g. #4a90d9"`
}

type updateColumnParams struct {
	ProjectID string  `json:"project_id" jsonschema:"project id"`
	ColumnID  string  `json:"column_id" jsonschema:"column id"`
	Name      *string `json:"name,omitempty" jsonschema:"new column name"`
	Role      *string `json:"role,omitempty" jsonschema:"new role: todo, doing or done"`
	Color     *string `json:"color,omitempty" jsonschema:"new display color"`
}

type moveColumnParams struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
	ColumnID  string `json:"column_id" jsonschema:"column id"`
	Index     int    `json:"index" jsonschema:"target position, clamped to the column range"`
}

type columnIDParams struct {
	ProjectID string `json:"project_id" jsonschema:"project id"`
	ColumnID  string `json:"column_id" jsonschema:"column id"`
}

type createTaskParams struct {
	Name     string `json:"name" jsonschema:"task name"`
	Desc     string `json:"desc,omitempty" jsonschema:"task description"`
	ColumnID string `json:"column_id,omitempty" jsonschema:"target column id (default: the active project's todo column)"`
	Priority string `json:"priority,omitempty" jsonschema:"low, mid or high (default mid)"`
	Deadline string `json:"deadline,omitempty" jsonschema:"ISO date, e.g. 2026-09-30"`
	Tags     string `json:"tags,omitempty" jsonschema:"comma-separated tags, at most 8"`
}

type updateTaskParams struct {
	ID       string `json:"id" jsonschema:"task id"`
	Name     string `json:"name" jsonschema:"task name"`
	Desc     string `json:"desc,omitempty" jsonschema:"task description"`
	ColumnID string `json:"column_id,omitempty" jsonschema:"new column id (empty keeps the current column)"`
	Priority string `json:"priority,omitempty" jsonschema:"low, mid or high"`
	Deadline string `json:"deadline,omitempty" jsonschema:"ISO date or empty"`
	Tags     string `json:"tags,omitempty" jsonschema:"comma-separated tags"`
}

type taskIDParams struct {
	ID string `json:"id" jsonschema:"task id"`
}

type moveTaskParams struct {
	ID       string `json:"id" jsonschema:"task id"`
	ColumnID string `json:"column_id" jsonschema:"target column id within the task's project"`
}

type moveTaskToProjectParams struct {
	ID        string `json:"id" jsonschema:"task id"`
	ProjectID string `json:"project_id" jsonschema:"destination project id"`
}

type queryParams struct {
	Query string `json:"query,omitempty" jsonschema:"free-text filter over task name, description and tags"`
}

type listTasksResult struct {
	Tasks []store.Task `json:"tasks"`
}

func registerTools(server *sdkmcp.Server, svcs Services) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_project",
		Description: "Create a new project with the default column set and make it active",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createProjectParams) (*sdkmcp.CallToolResult, store.Project, error) {
		proj, err := svcs.Projects.Create(ctx, in.Name, in.Desc)
		if err != nil {
			return nil, store.Project{}, mapError(err)
		}
		return nil, proj, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List all projects with task counts and the active flag",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in struct{}) (*sdkmcp.CallToolResult, listProjectsResult, error) {
		projects, err := svcs.Projects.List(ctx)
		if err != nil {
			return nil, listProjectsResult{}, mapError(err)
		}
		return nil, listProjectsResult{Projects: projects}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "select_project",
		Description: "Make a project the active one; the board and task tools operate on it",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectIDParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Projects.Select(ctx, in.ProjectID); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_project",
		Description: "Delete a project; its tasks follow the configured delete policy",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in projectIDParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Projects.Delete(ctx, in.ProjectID); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_column",
		Description: "Append a workflow column to a project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in addColumnParams) (*sdkmcp.CallToolResult, store.Column, error) {
		col, err := svcs.Projects.AddColumn(ctx, in.ProjectID, in.Name, store.Role(in.Role), in.Color)
		if err != nil {
			return nil, store.Column{}, mapError(err)
		}
		return nil, col, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_column",
		Description: "Rename, re-role or recolor a column; omitted fields are unchanged",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateColumnParams) (*sdkmcp.CallToolResult, ack, error) {
		upd := project.ColumnUpdate{Name: in.Name, Color: in.Color}
		if in.Role != nil {
			role := store.Role(*in.Role)
			upd.Role = &role
		}
		if err := svcs.Projects.UpdateColumn(ctx, in.ProjectID, in.ColumnID, upd); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_column",
		Description: "Move a column to a new position in the project's workflow order",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in moveColumnParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Projects.MoveColumn(ctx, in.ProjectID, in.ColumnID, in.Index); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_column",
		Description: "Delete a column; its tasks move to the project's first remaining column",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in columnIDParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Projects.DeleteColumn(ctx, in.ProjectID, in.ColumnID); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "create_task",
		Description: "Create a task in the active project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in createTaskParams) (*sdkmcp.CallToolResult, store.Task, error) {
		created, err := svcs.Tasks.Create(ctx, task.CreateRequest{
			Name:     in.Name,
			Desc:     in.Desc,
			ColumnID: in.ColumnID,
			Priority: in.Priority,
			Deadline: in.Deadline,
			Tags:     in.Tags,
		})
		if err != nil {
			return nil, store.Task{}, mapError(err)
		}
		return nil, created, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_task",
		Description: "Overwrite a task's editable fields; updating a deleted task is a no-op",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in updateTaskParams) (*sdkmcp.CallToolResult, ack, error) {
		err := svcs.Tasks.Update(ctx, in.ID, task.UpdateRequest{
			Name:     in.Name,
			Desc:     in.Desc,
			ColumnID: in.ColumnID,
			Priority: in.Priority,
			Deadline: in.Deadline,
			Tags:     in.Tags,
		})
		if err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task; an unknown id is a no-op",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in taskIDParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Tasks.Delete(ctx, in.ID); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_task",
		Description: "Move a task to another column of its project",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in moveTaskParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Tasks.Move(ctx, in.ID, in.ColumnID); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_task_to_project",
		Description: "Move a task to another project, remapping its column by role",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in moveTaskToProjectParams) (*sdkmcp.CallToolResult, ack, error) {
		if err := svcs.Tasks.MoveToProject(ctx, in.ID, in.ProjectID); err != nil {
			return nil, ack{}, mapError(err)
		}
		return nil, ack{OK: true}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_tasks",
		Description: "List the active project's tasks, optionally filtered by free text",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in queryParams) (*sdkmcp.CallToolResult, listTasksResult, error) {
		tasks, err := svcs.Tasks.List(ctx, in.Query)
		if err != nil {
			return nil, listTasksResult{}, mapError(err)
		}
		return nil, listTasksResult{Tasks: tasks}, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get the active project's board: columns in order, tasks sorted by deadline",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in queryParams) (*sdkmcp.CallToolResult, task.Board, error) {
		board, err := svcs.Tasks.Board(ctx, in.Query)
		if err != nil {
			return nil, task.Board{}, mapError(err)
		}
		return nil, board, nil
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_state",
		Description: "Get a full snapshot of the persisted board document",
	}, func(ctx context.Context, req *sdkmcp.CallToolRequest, in struct{}) (*sdkmcp.CallToolResult, store.Document, error) {
		return nil, svcs.State.State(), nil
	})
}
