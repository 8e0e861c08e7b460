// Package app owns the tracker state and is the only entry point the
// presentation adapters use: commands in, status and lists out.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"tasktracker/internal/logger"
	"tasktracker/internal/manager"
	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

type Action string

const (
	ActionAdd            Action = "add"
	ActionRemove         Action = "remove"
	ActionComplete       Action = "complete"
	ActionClearCompleted Action = "clear_completed"
	ActionSortDueDate    Action = "sort_due_date"
	ActionSortPriority   Action = "sort_priority"
	ActionToggleTheme    Action = "toggle_theme"
	ActionRefresh        Action = "refresh"
)

// Command is one user action. Index is the selected row of the active
// list; nil means nothing is selected.
type Command struct {
	Action      Action
	Name        string
	Description string
	DueDate     string
	Priority    string
	Index       *int
}

// Select returns a pointer to i for Command.Index.
func Select(i int) *int {
	return &i
}

// Result is the state after a command together with the status line to show.
// OK is false when the command was rejected and nothing changed; Err then
// holds the reason.
type Result struct {
	OK        bool
	Status    string
	Err       error
	Active    []models.Task
	Completed []models.CompletedTask
	Theme     Theme
}

// Status messages shown to the user.
const (
	StatusAdded             = "Task added!"
	StatusFillAllFields     = "Please fill in all fields."
	StatusInvalidDate       = "Invalid due date format."
	StatusInvalidPriority   = "Priority must be High, Medium or Low."
	StatusSelectToRemove    = "Please select a task to remove."
	StatusCompleted         = "Task marked as completed!"
	StatusSelectToComplete  = "Please select a task to mark as completed."
	StatusCleared           = "Completed tasks cleared."
	StatusSortedByDueDate   = "Tasks sorted by due date."
	StatusSortedByPriority  = "Tasks sorted by priority."
	StatusDarkModeOn        = "Dark mode on."
	StatusDarkModeOff       = "Dark mode off."
	statusRemovedFormat     = "Task '%s' removed!"
	statusCannotSortFormat  = "Cannot sort by due date: %v"
	statusStorageFailFormat = "Could not save tasks: %v"
)

// App is the tracker state: both lists and the theme flag.
type App struct {
	mu        sync.Mutex
	tasks     *manager.TaskManager
	completed *manager.CompletedManager
	theme     Theme
	store     storage.Store
}

// New wraps already built managers.
func New(tasks *manager.TaskManager, theme Theme) *App {
	return &App{
		tasks:     tasks,
		completed: tasks.Completed(),
		theme:     theme.normalize(),
	}
}

// Open loads both lists from store. A malformed list is returned as a
// *storage.ParseError and should end the session.
func Open(store storage.Store, theme Theme) (*App, error) {
	completed, err := manager.NewCompletedManagerWithStorage(store)
	if err != nil {
		return nil, fmt.Errorf("load completed tasks: %w", err)
	}
	tasks, err := manager.NewTaskManagerWithStorage(store, completed)
	if err != nil {
		return nil, fmt.Errorf("load tasks: %w", err)
	}

	a := New(tasks, theme)
	a.store = store
	return a, nil
}

// Close releases the underlying store, if any.
func (a *App) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Tasks exposes the active list manager, e.g. to swap its clock in tests.
func (a *App) Tasks() *manager.TaskManager {
	return a.tasks
}

// Dispatch runs cmd to completion. Rejected commands come back with
// OK=false and a status line; the error is reserved for storage failures.
func (a *App) Dispatch(ctx context.Context, cmd Command) (Result, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx = logger.WithFields(ctx, "action", string(cmd.Action))
	logger.Debug(ctx, "Dispatching command")

	status, err := a.apply(ctx, cmd)
	res := a.snapshot()
	res.Status = status

	var vErr *manager.ValidationError
	switch {
	case err == nil:
		res.OK = true
	case errors.As(err, &vErr), errors.Is(err, manager.ErrNoSelection), errors.Is(err, ErrUnsortable):
		res.Err = err
		logger.Debug(ctx, "Command rejected", "reason", err)
	default:
		logger.Error(ctx, err, "Command failed")
		res.Err = err
		res.Status = fmt.Sprintf(statusStorageFailFormat, err)
		return res, err
	}
	return res, nil
}

// ErrUnsortable rejects a due date sort over a list holding a date that
// does not parse.
var ErrUnsortable = errors.New("unsortable list")

func (a *App) apply(ctx context.Context, cmd Command) (string, error) {
	switch cmd.Action {
	case ActionAdd:
		task, err := a.tasks.Add(cmd.Name, cmd.Description, cmd.DueDate, cmd.Priority)
		if err != nil {
			return addStatus(err), err
		}
		logger.Info(ctx, "Task added", "name", task.Name, "due", task.DueDate, "priority", task.Priority)
		return StatusAdded, nil

	case ActionRemove:
		if cmd.Index == nil {
			return StatusSelectToRemove, manager.ErrNoSelection
		}
		removed, err := a.tasks.Remove(*cmd.Index)
		if errors.Is(err, manager.ErrNoSelection) {
			return StatusSelectToRemove, err
		}
		if err != nil {
			return "", err
		}
		logger.Info(ctx, "Task removed", "name", removed.Name)
		return fmt.Sprintf(statusRemovedFormat, removed.Name), nil

	case ActionComplete:
		if cmd.Index == nil {
			return StatusSelectToComplete, manager.ErrNoSelection
		}
		done, err := a.tasks.Complete(*cmd.Index)
		if errors.Is(err, manager.ErrNoSelection) {
			return StatusSelectToComplete, err
		}
		if err != nil {
			return "", err
		}
		logger.Info(ctx, "Task completed", "name", done.Name, "at", done.CompletionDate+" "+done.CompletionTime)
		return StatusCompleted, nil

	case ActionClearCompleted:
		n, err := a.completed.Clear()
		if err != nil {
			return "", err
		}
		logger.Info(ctx, "Completed tasks cleared", "count", n)
		return StatusCleared, nil

	case ActionSortDueDate:
		if err := a.tasks.SortByDueDate(); err != nil {
			return fmt.Sprintf(statusCannotSortFormat, err), fmt.Errorf("%w: %w", ErrUnsortable, err)
		}
		return StatusSortedByDueDate, nil

	case ActionSortPriority:
		a.tasks.SortByPriority()
		return StatusSortedByPriority, nil

	case ActionToggleTheme:
		a.theme = a.theme.Toggle()
		if a.theme == ThemeDark {
			return StatusDarkModeOn, nil
		}
		return StatusDarkModeOff, nil

	case ActionRefresh:
		return "", nil
	}

	return fmt.Sprintf("Unknown action %q.", cmd.Action), &manager.ValidationError{
		Field: "action",
		Err:   fmt.Errorf("unknown action %q", cmd.Action),
	}
}

func addStatus(err error) string {
	switch {
	case errors.Is(err, manager.ErrEmptyField):
		return StatusFillAllFields
	case errors.Is(err, manager.ErrInvalidDate):
		return StatusInvalidDate
	case errors.Is(err, manager.ErrInvalidPriority):
		return StatusInvalidPriority
	}
	return ""
}

// Snapshot returns the current lists and theme without running a command.
func (a *App) Snapshot() Result {
	a.mu.Lock()
	defer a.mu.Unlock()
	res := a.snapshot()
	res.OK = true
	return res
}

func (a *App) snapshot() Result {
	return Result{
		Active:    a.tasks.Tasks(),
		Completed: a.completed.Tasks(),
		Theme:     a.theme,
	}
}
