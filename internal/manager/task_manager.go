package manager

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"tasktracker/internal/models"
)

// ActiveStore persists the active list.
type ActiveStore interface {
	LoadActive() ([]models.Task, error)
	SaveActive(tasks []models.Task) error
}

// TaskManager holds the active tasks. Positions are 0-based indices into
// the current order.
type TaskManager struct {
	mu        sync.Mutex
	tasks     []models.Task
	store     ActiveStore
	completed *CompletedManager
	now       func() time.Time
}

// NewTaskManager returns an unpersisted manager seeded with tasks.
func NewTaskManager(completed *CompletedManager, tasks ...models.Task) *TaskManager {
	if completed == nil {
		completed = NewCompletedManager()
	}
	return &TaskManager{
		tasks:     slices.Clone(tasks),
		completed: completed,
		now:       time.Now,
	}
}

// NewTaskManagerWithStorage loads the active list from store and persists
// every change back to it.
func NewTaskManagerWithStorage(store ActiveStore, completed *CompletedManager) (*TaskManager, error) {
	tasks, err := store.LoadActive()
	if err != nil {
		return nil, err
	}

	tm := NewTaskManager(completed)
	tm.tasks = tasks
	tm.store = store
	return tm, nil
}

// SetClock replaces the time source used for completion stamps.
func (tm *TaskManager) SetClock(now func() time.Time) {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	tm.now = now
}

func (tm *TaskManager) Completed() *CompletedManager {
	return tm.completed
}

// Add validates the fields, appends a new task and persists the list.
func (tm *TaskManager) Add(name, description, dueDate, priority string) (models.Task, error) {
	startTime := time.Now()
	defer func() {
		addTaskDuration.Observe(time.Since(startTime).Seconds())
	}()

	task, err := newTask(name, description, dueDate, priority)
	if err != nil {
		addTaskCount.WithLabelValues("error").Inc()
		return models.Task{}, err
	}

	tm.mu.Lock()
	defer tm.mu.Unlock()

	next := append(slices.Clip(tm.tasks), task)
	if err := tm.save(next); err != nil {
		addTaskCount.WithLabelValues("error").Inc()
		return models.Task{}, err
	}
	tm.tasks = next

	addTaskCount.WithLabelValues("success").Inc()
	taskDescLength.Observe(float64(len(task.Description)))
	return task, nil
}

func newTask(name, description, dueDate, priority string) (models.Task, error) {
	fields := []struct{ field, value string }{
		{"name", name},
		{"description", description},
		{"due_date", dueDate},
		{"priority", priority},
	}
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			return models.Task{}, &ValidationError{Field: f.field, Err: ErrEmptyField}
		}
	}

	due, err := models.NormalizeDueDate(dueDate)
	if err != nil {
		return models.Task{}, &ValidationError{Field: "due_date", Err: ErrInvalidDate}
	}

	p, err := models.ParsePriority(priority)
	if err != nil {
		return models.Task{}, &ValidationError{Field: "priority", Err: ErrInvalidPriority}
	}

	return models.Task{
		Name:        name,
		Description: description,
		DueDate:     due,
		Priority:    p,
		Completed:   false,
	}, nil
}

// Remove deletes the task at index and persists the list. The list is left
// as it was if the save fails.
func (tm *TaskManager) Remove(index int) (models.Task, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if index < 0 || index >= len(tm.tasks) {
		removeTaskCount.WithLabelValues("error").Inc()
		return models.Task{}, ErrNoSelection
	}

	removed := tm.tasks[index]
	next := slices.Delete(slices.Clone(tm.tasks), index, index+1)
	err := tm.save(next)
	if err == nil {
		tm.tasks = next
	}

	removeTaskCount.WithLabelValues(statusLabel(err)).Inc()
	return removed, err
}

// Complete stamps the task at index with the current date and time, moves
// it to the completed list and persists both lists. Neither list changes
// unless both saves succeed.
func (tm *TaskManager) Complete(index int) (models.CompletedTask, error) {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	if index < 0 || index >= len(tm.tasks) {
		completeTaskCount.WithLabelValues("error").Inc()
		return models.CompletedTask{}, ErrNoSelection
	}

	done := tm.tasks[index].CompleteAt(tm.now())
	next := slices.Delete(slices.Clone(tm.tasks), index, index+1)

	err := tm.save(next)
	if err == nil {
		if err = tm.completed.Append(done); err != nil {
			// Put the task back in the saved active list.
			if rerr := tm.save(tm.tasks); rerr != nil {
				err = errors.Join(err, rerr)
			}
		} else {
			tm.tasks = next
		}
	}

	completeTaskCount.WithLabelValues(statusLabel(err)).Inc()
	return done, err
}

// SortByDueDate orders the list by ascending due date. The list is left
// untouched if any stored date does not parse. The new order is kept in
// memory only.
func (tm *TaskManager) SortByDueDate() error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	dates := make(map[string]time.Time, len(tm.tasks))
	for _, t := range tm.tasks {
		d, err := models.ParseDueDate(t.DueDate)
		if err != nil {
			sortCount.WithLabelValues("due_date", "error").Inc()
			return fmt.Errorf("task %q has %w %q", t.Name, ErrInvalidDate, t.DueDate)
		}
		dates[t.DueDate] = d
	}

	slices.SortStableFunc(tm.tasks, func(a, b models.Task) int {
		return dates[a.DueDate].Compare(dates[b.DueDate])
	})

	sortCount.WithLabelValues("due_date", "success").Inc()
	return nil
}

// SortByPriority orders the list by the priority text, so High < Low < Medium.
func (tm *TaskManager) SortByPriority() {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	slices.SortStableFunc(tm.tasks, func(a, b models.Task) int {
		return cmp.Compare(a.Priority, b.Priority)
	})

	sortCount.WithLabelValues("priority", "success").Inc()
}

func (tm *TaskManager) Tasks() []models.Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return slices.Clone(tm.tasks)
}

func (tm *TaskManager) Len() int {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return len(tm.tasks)
}

func (tm *TaskManager) save(tasks []models.Task) error {
	if tm.store == nil {
		return nil
	}
	return tm.store.SaveActive(tasks)
}
