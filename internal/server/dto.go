package server

import (
	"tasktracker/internal/app"
	"tasktracker/internal/models"
)

type CreateTaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
}

type TaskResponse struct {
	Index       int    `json:"index"`
	Name        string `json:"name"`
	Description string `json:"description"`
	DueDate     string `json:"due_date"`
	Priority    string `json:"priority"`
	Completed   bool   `json:"completed"`
}

type CompletedTaskResponse struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	DueDate        string `json:"due_date"`
	Priority       string `json:"priority"`
	CompletionDate string `json:"completion_date"`
	CompletionTime string `json:"completion_time"`
}

// StateResponse is the body of every tracker endpoint.
type StateResponse struct {
	Status    string                  `json:"status"`
	Error     string                  `json:"error,omitempty"`
	Active    []TaskResponse          `json:"active"`
	Completed []CompletedTaskResponse `json:"completed"`
	Theme     string                  `json:"theme"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func newStateResponse(res app.Result, active []indexedTask) StateResponse {
	resp := StateResponse{
		Status:    res.Status,
		Active:    make([]TaskResponse, 0, len(active)),
		Completed: make([]CompletedTaskResponse, 0, len(res.Completed)),
		Theme:     string(res.Theme),
	}
	if res.Err != nil {
		resp.Error = res.Err.Error()
	}

	for _, it := range active {
		resp.Active = append(resp.Active, TaskResponse{
			Index:       it.index,
			Name:        it.task.Name,
			Description: it.task.Description,
			DueDate:     it.task.DueDate,
			Priority:    string(it.task.Priority),
			Completed:   it.task.Completed,
		})
	}
	for _, c := range res.Completed {
		resp.Completed = append(resp.Completed, CompletedTaskResponse{
			Name:           c.Name,
			Description:    c.Description,
			DueDate:        c.DueDate,
			Priority:       string(c.Priority),
			CompletionDate: c.CompletionDate,
			CompletionTime: c.CompletionTime,
		})
	}
	return resp
}

// indexedTask keeps a task's position in the full list when the response
// only carries a filtered subset.
type indexedTask struct {
	index int
	task  models.Task
}

func indexAll(tasks []models.Task) []indexedTask {
	out := make([]indexedTask, 0, len(tasks))
	for i, t := range tasks {
		out = append(out, indexedTask{index: i, task: t})
	}
	return out
}

func indexByPriority(tasks []models.Task, p models.Priority) []indexedTask {
	positions := models.PositionsWithPriority(tasks, p)
	out := make([]indexedTask, 0, len(positions))
	for _, i := range positions {
		out = append(out, indexedTask{index: i, task: tasks[i]})
	}
	return out
}
