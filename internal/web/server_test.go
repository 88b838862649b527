package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/notify"
	"github.com/rpggio/planboard/internal/storage"
	"github.com/rpggio/planboard/internal/store"
	"github.com/rpggio/planboard/internal/web"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *store.Store) {
	t.Helper()
	ctx := context.Background()

	st, err := store.New(ctx, storage.NewMemory(), "test", nil)
	require.NoError(t, err)
	require.NoError(t, st.EnsureSeed(ctx))

	hub := notify.NewHub()
	srv := web.NewServer(
		project.NewService(st, hub, nil, ""),
		task.NewService(st, hub, nil),
		st,
		hub,
		nil,
	)

	feedCtx, cancel := context.WithCancel(ctx)
	go srv.Feed().Run(feedCtx)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		cancel()
	})
	return ts, st
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func TestGetBoard(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/board")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var board task.Board
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&board))
	require.Len(t, board.Columns, 4)
	require.Equal(t, "default", board.ProjectName)
}

func TestCreateTaskEndpoint(t *testing.T) {
	ts, st := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/tasks", map[string]string{
		"name": "write spec",
		"tags": "docs, planning",
	})
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created store.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "write spec", created.Name)
	require.Len(t, st.State().Tasks, 1)
}

func TestValidationStatusCodes(t *testing.T) {
	ts, _ := newTestServer(t)

	// Empty name is a validation failure.
	resp := postJSON(t, ts.URL+"/api/tasks", map[string]string{"name": "  "})
	resp.Body.Close()
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown project is a 404.
	resp = postJSON(t, ts.URL+"/api/projects/ghost/select", map[string]string{})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Unknown move target is a 404 even for an existing task.
	created := postJSON(t, ts.URL+"/api/tasks", map[string]string{"name": "a"})
	var taskBody store.Task
	require.NoError(t, json.NewDecoder(created.Body).Decode(&taskBody))
	created.Body.Close()

	resp = postJSON(t, ts.URL+"/api/tasks/"+taskBody.ID+"/move", map[string]string{"columnId": "ghost"})
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestProjectLifecycleEndpoints(t *testing.T) {
	ts, st := newTestServer(t)

	resp := postJSON(t, ts.URL+"/api/projects", map[string]string{"name": "alpha"})
	var proj store.Project
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&proj))
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, proj.ID, st.State().ActiveProjectID)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/projects/"+proj.ID, nil)
	require.NoError(t, err)
	del, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	del.Body.Close()
	require.Equal(t, http.StatusNoContent, del.StatusCode)
	require.Len(t, st.State().Projects, 1)
}

func TestWebSocketAfterFeedStopped(t *testing.T) {
	ctx := context.Background()
	st, err := store.New(ctx, storage.NewMemory(), "test", nil)
	require.NoError(t, err)
	require.NoError(t, st.EnsureSeed(ctx))

	hub := notify.NewHub()
	srv := web.NewServer(
		project.NewService(st, hub, nil, ""),
		task.NewService(st, hub, nil),
		st,
		hub,
		nil,
	)

	feedCtx, cancel := context.WithCancel(ctx)
	stopped := make(chan struct{})
	go func() {
		srv.Feed().Run(feedCtx)
		close(stopped)
	}()
	cancel()
	<-stopped

	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	// A connection arriving after the feed stopped is closed promptly
	// instead of parking its handler on the registration channel.
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err = conn.ReadMessage()
	require.Error(t, err)
}

func TestWebSocketFeed(t *testing.T) {
	ts, _ := newTestServer(t)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// Give the feed loop a beat to register the client.
	time.Sleep(50 * time.Millisecond)

	// A mutation through the REST API shows up on the feed.
	created := postJSON(t, ts.URL+"/api/tasks", map[string]string{"name": "observed"})
	created.Body.Close()

	var ev notify.Event
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	require.NoError(t, conn.ReadJSON(&ev))
	require.Equal(t, notify.TasksChanged, ev.Kind)
}
