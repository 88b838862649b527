package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rpggio/planboard/internal/domain/project"
	"github.com/rpggio/planboard/internal/domain/task"
	"github.com/rpggio/planboard/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.respond(w, http.StatusOK, s.state.State())
}

func (s *Server) handleBoard(w http.ResponseWriter, r *http.Request) {
	board, err := s.tasks.Board(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, board)
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	list, err := s.projects.List(r.Context())
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, list)
}

type projectPayload struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var payload projectPayload
	if !s.decode(w, r, &payload) {
		return
	}
	proj, err := s.projects.Create(r.Context(), payload.Name, payload.Desc)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, proj)
}

func (s *Server) handleSelectProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Select(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.projects.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type columnPayload struct {
	Name  string `json:"name"`
	Role  string `json:"role"`
	Color string `json:"color"`
}

func (s *Server) handleAddColumn(w http.ResponseWriter, r *http.Request) {
	var payload columnPayload
	if !s.decode(w, r, &payload) {
		return
	}
	col, err := s.projects.AddColumn(r.Context(), mux.Vars(r)["id"], payload.Name, store.Role(payload.Role), payload.Color)
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, col)
}

type columnUpdatePayload struct {
	Name  *string `json:"name"`
	Role  *string `json:"role"`
	Color *string `json:"color"`
}

func (s *Server) handleUpdateColumn(w http.ResponseWriter, r *http.Request) {
	var payload columnUpdatePayload
	if !s.decode(w, r, &payload) {
		return
	}
	upd := project.ColumnUpdate{Name: payload.Name, Color: payload.Color}
	if payload.Role != nil {
		role := store.Role(*payload.Role)
		upd.Role = &role
	}
	vars := mux.Vars(r)
	if err := s.projects.UpdateColumn(r.Context(), vars["id"], vars["col"], upd); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveColumn(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Index int `json:"index"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	vars := mux.Vars(r)
	if err := s.projects.MoveColumn(r.Context(), vars["id"], vars["col"], payload.Index); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteColumn(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := s.projects.DeleteColumn(r.Context(), vars["id"], vars["col"]); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := s.tasks.List(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusOK, tasks)
}

type taskPayload struct {
	Name     string `json:"name"`
	Desc     string `json:"desc"`
	ColumnID string `json:"columnId"`
	Priority string `json:"priority"`
	Deadline string `json:"deadline"`
	Tags     string `json:"tags"`
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var payload taskPayload
	if !s.decode(w, r, &payload) {
		return
	}
	created, err := s.tasks.Create(r.Context(), task.CreateRequest{
		Name:     payload.Name,
		Desc:     payload.Desc,
		ColumnID: payload.ColumnID,
		Priority: payload.Priority,
		Deadline: payload.Deadline,
		Tags:     payload.Tags,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	s.respond(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var payload taskPayload
	if !s.decode(w, r, &payload) {
		return
	}
	err := s.tasks.Update(r.Context(), mux.Vars(r)["id"], task.UpdateRequest{
		Name:     payload.Name,
		Desc:     payload.Desc,
		ColumnID: payload.ColumnID,
		Priority: payload.Priority,
		Deadline: payload.Deadline,
		Tags:     payload.Tags,
	})
	if err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), mux.Vars(r)["id"]); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveTask(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ColumnID string `json:"columnId"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	if err := s.tasks.Move(r.Context(), mux.Vars(r)["id"], payload.ColumnID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoveTaskToProject(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ProjectID string `json:"projectId"`
	}
	if !s.decode(w, r, &payload) {
		return
	}
	if err := s.tasks.MoveToProject(r.Context(), mux.Vars(r)["id"], payload.ProjectID); err != nil {
		s.respondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.respond(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return false
	}
	return true
}

func (s *Server) respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, project.ErrProjectNotFound),
		errors.Is(err, project.ErrColumnNotFound),
		errors.Is(err, task.ErrProjectNotFound),
		errors.Is(err, task.ErrColumnNotFound):
		status = http.StatusNotFound
	case errors.Is(err, project.ErrInvalidInput),
		errors.Is(err, task.ErrInvalidInput):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, task.ErrNoActiveProject),
		errors.Is(err, project.ErrLastColumn):
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.respond(w, status, map[string]string{"error": err.Error()})
}
