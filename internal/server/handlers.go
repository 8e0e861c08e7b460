package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tasktracker/internal/app"
	"tasktracker/internal/logger"
	"tasktracker/internal/manager"
	"tasktracker/internal/models"
)

// Dispatcher is the part of *app.App the handlers need.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd app.Command) (app.Result, error)
	Snapshot() app.Result
}

type TaskHandler struct {
	app Dispatcher
}

func NewTaskHandler(d Dispatcher) *TaskHandler {
	return &TaskHandler{app: d}
}

// GET /tasks
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	res := h.app.Snapshot()

	q := r.URL.Query().Get("priority")
	if q == "" {
		writeJSON(w, http.StatusOK, newStateResponse(res, indexAll(res.Active)))
		return
	}

	p, err := models.ParsePriority(q)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, app.StatusInvalidPriority)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(res, indexByPriority(res.Active, p)))
}

// POST /tasks
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.run(w, r, app.Command{
		Action:      app.ActionAdd,
		Name:        req.Name,
		Description: req.Description,
		DueDate:     req.DueDate,
		Priority:    req.Priority,
	}, http.StatusCreated)
}

// DELETE /tasks/{index}
func (h *TaskHandler) Remove(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.run(w, r, app.Command{Action: app.ActionRemove, Index: app.Select(index)}, http.StatusOK)
}

// POST /tasks/{index}/complete
func (h *TaskHandler) Complete(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	h.run(w, r, app.Command{Action: app.ActionComplete, Index: app.Select(index)}, http.StatusOK)
}

// POST /tasks/sort?by=due_date|priority
func (h *TaskHandler) Sort(w http.ResponseWriter, r *http.Request) {
	var action app.Action
	switch r.URL.Query().Get("by") {
	case "due_date", "":
		action = app.ActionSortDueDate
	case "priority":
		action = app.ActionSortPriority
	default:
		writeError(w, http.StatusBadRequest, "by must be due_date or priority")
		return
	}
	h.run(w, r, app.Command{Action: action}, http.StatusOK)
}

// GET /completed
func (h *TaskHandler) ListCompleted(w http.ResponseWriter, r *http.Request) {
	res := h.app.Snapshot()
	writeJSON(w, http.StatusOK, newStateResponse(res, indexAll(res.Active)))
}

// DELETE /completed
func (h *TaskHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, app.Command{Action: app.ActionClearCompleted}, http.StatusOK)
}

// GET /theme
func (h *TaskHandler) Theme(w http.ResponseWriter, r *http.Request) {
	res := h.app.Snapshot()
	writeJSON(w, http.StatusOK, map[string]string{"theme": string(res.Theme)})
}

// POST /theme/toggle
func (h *TaskHandler) ToggleTheme(w http.ResponseWriter, r *http.Request) {
	h.run(w, r, app.Command{Action: app.ActionToggleTheme}, http.StatusOK)
}

func (h *TaskHandler) run(w http.ResponseWriter, r *http.Request, cmd app.Command, okStatus int) {
	res, err := h.app.Dispatch(r.Context(), cmd)
	if err != nil {
		logger.Error(r.Context(), err, "Request failed")
		writeJSON(w, http.StatusInternalServerError, newStateResponse(res, indexAll(res.Active)))
		return
	}

	code := okStatus
	if !res.OK {
		code = rejectionStatus(res.Err)
	}
	writeJSON(w, code, newStateResponse(res, indexAll(res.Active)))
}

func rejectionStatus(err error) int {
	var vErr *manager.ValidationError
	switch {
	case errors.Is(err, manager.ErrNoSelection):
		return http.StatusNotFound
	case errors.Is(err, app.ErrUnsortable):
		return http.StatusConflict
	case errors.As(err, &vErr):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadRequest
	}
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "index must be an integer")
		return 0, false
	}
	return index, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
