package storage

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"sync"

	"tasktracker/internal/models"
)

// Store persists the active and completed lists.
type Store interface {
	LoadActive() ([]models.Task, error)
	SaveActive(tasks []models.Task) error
	LoadCompleted() ([]models.CompletedTask, error)
	SaveCompleted(tasks []models.CompletedTask) error

	Close() error
}

const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	DataDir       string
	ActiveFile    string
	CompletedFile string
	SQLitePath    string
}

// Open returns the Store for opts.Backend. An empty backend means JSON files.
func Open(opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendJSON:
		return NewFileStore(opts.DataDir, opts.ActiveFile, opts.CompletedFile)
	case BackendSQLite:
		return NewSQLiteStore(opts.sqlitePath())
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}

// Paths lists the files opts.Backend reads and writes.
func (opts Options) Paths() []string {
	if opts.Backend == BackendSQLite {
		return []string{opts.sqlitePath()}
	}
	return []string{
		filepath.Join(opts.DataDir, cmp.Or(opts.ActiveFile, DefaultActiveFile)),
		filepath.Join(opts.DataDir, cmp.Or(opts.CompletedFile, DefaultCompletedFile)),
	}
}

func (opts Options) sqlitePath() string {
	if opts.SQLitePath != "" {
		return opts.SQLitePath
	}
	return filepath.Join(opts.DataDir, DefaultSQLiteFile)
}

// MemoryStorage keeps both lists in process memory.
type MemoryStorage struct {
	mu        sync.Mutex
	active    []models.Task
	completed []models.CompletedTask

	// Saves counts SaveActive and SaveCompleted calls.
	Saves int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		active:    []models.Task{},
		completed: []models.CompletedTask{},
	}
}

func (m *MemoryStorage) LoadActive() ([]models.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.active), nil
}

func (m *MemoryStorage) SaveActive(tasks []models.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.active = slices.Clone(tasks)
	m.Saves++
	return nil
}

func (m *MemoryStorage) LoadCompleted() ([]models.CompletedTask, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.completed), nil
}

func (m *MemoryStorage) SaveCompleted(tasks []models.CompletedTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completed = slices.Clone(tasks)
	m.Saves++
	return nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
