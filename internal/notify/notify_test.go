package notify_test

import (
	"testing"

	"github.com/rpggio/planboard/internal/notify"
	"github.com/stretchr/testify/require"
)

func TestHubFanOut(t *testing.T) {
	hub := notify.NewHub()

	var got []notify.Event
	hub.Subscribe(func(ev notify.Event) { got = append(got, ev) })
	hub.Subscribe(func(ev notify.Event) { got = append(got, ev) })

	hub.Publish(notify.Event{Kind: notify.TasksChanged, ProjectID: "p1"})
	require.Len(t, got, 2)
	require.Equal(t, notify.TasksChanged, got[0].Kind)
	require.Equal(t, "p1", got[0].ProjectID)
}

func TestHubUnsubscribe(t *testing.T) {
	hub := notify.NewHub()

	calls := 0
	unsubscribe := hub.Subscribe(func(notify.Event) { calls++ })

	hub.Publish(notify.Event{Kind: notify.ProjectChanged})
	unsubscribe()
	hub.Publish(notify.Event{Kind: notify.ProjectChanged})
	require.Equal(t, 1, calls)
}

func TestNilHubPublish(t *testing.T) {
	var hub *notify.Hub
	require.NotPanics(t, func() {
		hub.Publish(notify.Event{Kind: notify.TasksChanged})
	})
}
