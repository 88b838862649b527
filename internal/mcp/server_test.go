package mcp_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/mcp"
	"github.com/rpggio/planboard/internal/storage"
	"github.com/rpggio/planboard/internal/store"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"
)

func connect(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	st, err := store.New(ctx, storage.NewMemory(), "test", nil)
	require.NoError(t, err)
	require.NoError(t, st.EnsureSeed(ctx))

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: project.NewService(st, nil, nil, ""),
			Tasks:    task.NewService(st, nil, nil),
			State:    st,
		},
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err = server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session
}

func TestToolCatalog(t *testing.T) {
	session := connect(t)

	tools, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, tool := range tools.Tools {
		names[tool.Name] = true
	}
	for _, want := range []string{
		"create_project", "list_projects", "select_project", "delete_project",
		"add_column", "update_column", "move_column", "delete_column",
		"create_task", "update_task", "delete_task", "move_task",
		"move_task_to_project", "list_tasks", "get_board", "get_state",
	} {
		require.True(t, names[want], "missing tool %s", want)
	}
}

func TestCreateTaskAndBoard(t *testing.T) {
	session := connect(t)
	ctx := context.Background()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "create_task",
		Arguments: map[string]any{"name": "write spec", "tags": "docs"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	res, err = session.CallTool(ctx, &sdkmcp.CallToolParams{
		Name:      "get_board",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	board, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)
	cols, ok := board["columns"].([]any)
	require.True(t, ok)
	require.Len(t, cols, 4)
}

func TestTrafficLogging(t *testing.T) {
	ctx := context.Background()

	st, err := store.New(ctx, storage.NewMemory(), "test", nil)
	require.NoError(t, err)
	require.NoError(t, st.EnsureSeed(ctx))

	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	server := mcp.NewServer(mcp.Config{
		Services: mcp.Services{
			Projects: project.NewService(st, nil, nil, ""),
			Tasks:    task.NewService(st, nil, nil),
			State:    st,
		},
		Logger: logger,
	})

	serverTransport, clientTransport := sdkmcp.NewInMemoryTransports()
	_, err = server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	defer session.Close()

	_, err = session.ListTools(ctx, nil)
	require.NoError(t, err)

	logged := buf.String()
	require.Contains(t, logged, "mcp traffic")
	require.Contains(t, logged, "tools/list")
	require.Contains(t, logged, "stage=request")
	require.Contains(t, logged, "stage=response")
}

func TestDomainErrorMapping(t *testing.T) {
	session := connect(t)

	res, err := session.CallTool(context.Background(), &sdkmcp.CallToolParams{
		Name:      "select_project",
		Arguments: map[string]any{"project_id": "ghost"},
	})
	require.NoError(t, err)
	require.True(t, res.IsError)

	text, ok := res.Content[0].(*sdkmcp.TextContent)
	require.True(t, ok)
	require.Contains(t, text.Text, "PROJECT_NOT_FOUND")
}
