package task

import (
	"context"
	"sort"
	"strings"

	"github.com/rpggio/planboard/internal/store"
)

// Board is a render-ready view of the active project: its columns in order,
// each with the matching tasks sorted for display.
type Board struct {
	ProjectID   string        `json:"projectId"`
	ProjectName string        `json:"projectName"`
	Columns     []BoardColumn `json:"columns"`
}

// BoardColumn is one column plus its tasks.
type BoardColumn struct {
	Column store.Column `json:"column"`
	Tasks  []store.Task `json:"tasks"`
}

// List returns the active project's tasks matching the query, in document
// order. An empty query matches everything; otherwise the lowercase query
// must be a substring of the task's name, description or tags.
func (s *Service) List(ctx context.Context, query string) ([]store.Task, error) {
	state := s.store.State()
	out := make([]store.Task, 0)
	for _, t := range state.Tasks {
		if t.ProjectID == state.ActiveProjectID && Matches(t, query) {
			out = append(out, t)
		}
	}
	return out, nil
}

// Board assembles the board view for the active project, filtered by query.
// With no active project the board is empty.
func (s *Service) Board(ctx context.Context, query string) (Board, error) {
	state := s.store.State()
	proj := state.Project(state.ActiveProjectID)
	if proj == nil {
		return Board{}, nil
	}

	board := Board{
		ProjectID:   proj.ID,
		ProjectName: proj.Name,
		Columns:     make([]BoardColumn, len(proj.Columns)),
	}
	for i, col := range proj.Columns {
		board.Columns[i] = BoardColumn{Column: col, Tasks: []store.Task{}}
	}
	byColumn := make(map[string]int, len(proj.Columns))
	for i, col := range proj.Columns {
		byColumn[col.ID] = i
	}

	for _, t := range state.Tasks {
		if t.ProjectID != proj.ID || !Matches(t, query) {
			continue
		}
		i, ok := byColumn[t.ColumnID]
		if !ok {
			continue
		}
		board.Columns[i].Tasks = append(board.Columns[i].Tasks, t)
	}

	for i := range board.Columns {
		SortForDisplay(board.Columns[i].Tasks)
	}
	return board, nil
}

// Matches reports whether the task matches the free-text query: the
// lowercase query must appear in the lowercase concatenation of name,
// description and tags. An empty query matches all tasks.
func Matches(t store.Task, query string) bool {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return true
	}
	hay := strings.ToLower(t.Name + " " + t.Desc + " " + strings.Join(t.Tags, " "))
	return strings.Contains(hay, query)
}

// SortForDisplay orders tasks ascending by deadline string (empty deadlines
// first, lexicographic otherwise), newest created first on ties.
func SortForDisplay(tasks []store.Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		if tasks[i].Deadline != tasks[j].Deadline {
			return tasks[i].Deadline < tasks[j].Deadline
		}
		return tasks[i].CreatedAt > tasks[j].CreatedAt
	})
}
