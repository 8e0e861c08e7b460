package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"tasktracker/internal/models"
)

const (
	DefaultActiveFile    = "todo_data.json"
	DefaultCompletedFile = "completed_data.json"
)

// LoadJSON reads a JSON array of records from path. A missing file is an
// empty list.
func LoadJSON[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []T{}, nil
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// SaveJSON overwrites path with records as a 2-space indented JSON array.
func SaveJSON[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}
	return nil
}

// FileStore keeps each list in its own JSON file.
type FileStore struct {
	activePath    string
	completedPath string
}

func NewFileStore(dir, activeFile, completedFile string) (*FileStore, error) {
	if dir == "" {
		dir = "."
	}
	if activeFile == "" {
		activeFile = DefaultActiveFile
	}
	if completedFile == "" {
		completedFile = DefaultCompletedFile
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: dir, Err: err}
	}

	return &FileStore{
		activePath:    filepath.Join(dir, activeFile),
		completedPath: filepath.Join(dir, completedFile),
	}, nil
}

func (s *FileStore) ActivePath() string    { return s.activePath }
func (s *FileStore) CompletedPath() string { return s.completedPath }

func (s *FileStore) LoadActive() ([]models.Task, error) {
	return LoadJSON[models.Task](s.activePath)
}

func (s *FileStore) SaveActive(tasks []models.Task) error {
	return SaveJSON(s.activePath, tasks)
}

func (s *FileStore) LoadCompleted() ([]models.CompletedTask, error) {
	return LoadJSON[models.CompletedTask](s.completedPath)
}

func (s *FileStore) SaveCompleted(tasks []models.CompletedTask) error {
	return SaveJSON(s.completedPath, tasks)
}

func (s *FileStore) Close() error {
	return nil
}
