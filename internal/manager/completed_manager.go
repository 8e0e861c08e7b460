package manager

import (
	"slices"
	"sync"

	"tasktracker/internal/models"
)

// CompletedStore persists the completed list.
type CompletedStore interface {
	LoadCompleted() ([]models.CompletedTask, error)
	SaveCompleted(tasks []models.CompletedTask) error
}

// CompletedManager holds finished tasks in the order they were completed.
type CompletedManager struct {
	mu    sync.Mutex
	tasks []models.CompletedTask
	store CompletedStore
}

// NewCompletedManager returns an unpersisted manager seeded with tasks.
func NewCompletedManager(tasks ...models.CompletedTask) *CompletedManager {
	return &CompletedManager{tasks: slices.Clone(tasks)}
}

// NewCompletedManagerWithStorage loads the completed list from store and
// persists every change back to it.
func NewCompletedManagerWithStorage(store CompletedStore) (*CompletedManager, error) {
	tasks, err := store.LoadCompleted()
	if err != nil {
		return nil, err
	}
	return &CompletedManager{tasks: tasks, store: store}, nil
}

// Append adds task to the end of the list and persists it. The list is left
// as it was if the save fails.
func (cm *CompletedManager) Append(task models.CompletedTask) error {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	task.Completed = true
	next := append(slices.Clip(cm.tasks), task)
	if err := cm.save(next); err != nil {
		return err
	}
	cm.tasks = next
	return nil
}

// Clear discards every completed task and persists the empty list.
func (cm *CompletedManager) Clear() (int, error) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	n := len(cm.tasks)
	err := cm.save([]models.CompletedTask{})
	if err == nil {
		cm.tasks = []models.CompletedTask{}
	}

	clearCompletedCount.WithLabelValues(statusLabel(err)).Inc()
	return n, err
}

func (cm *CompletedManager) Tasks() []models.CompletedTask {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return slices.Clone(cm.tasks)
}

func (cm *CompletedManager) Len() int {
	cm.mu.Lock()
	defer cm.mu.Unlock()
	return len(cm.tasks)
}

func (cm *CompletedManager) save(tasks []models.CompletedTask) error {
	if cm.store == nil {
		return nil
	}
	return cm.store.SaveCompleted(tasks)
}
