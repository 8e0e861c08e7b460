package storage

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"tasktracker/internal/models"
)

func sampleTasks() []models.Task {
	return []models.Task{
		{Name: "Buy milk", Description: "2% milk", DueDate: "01/15/24", Priority: models.PriorityHigh},
		{Name: "Call mom", Description: "Sunday", DueDate: "02/01/24", Priority: models.PriorityLow},
	}
}

func TestSaveLoadJSONRoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "todo_data.json")

	want := sampleTasks()
	if err := SaveJSON(path, want); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	got, err := LoadJSON[models.Task](path)
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestSaveJSONFormat(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "todo_data.json")

	if err := SaveJSON(path, sampleTasks()[:1]); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	want := `[
  {
    "name": "Buy milk",
    "description": "2% milk",
    "due_date": "01/15/24",
    "priority": "High",
    "completed": false
  }
]
`
	if string(data) != want {
		t.Errorf("unexpected file contents:\n%s", data)
	}
}

func TestSaveJSONEmptyList(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "completed_data.json")

	if err := SaveJSON[models.CompletedTask](path, nil); err != nil {
		t.Fatalf("SaveJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if strings.TrimSpace(string(data)) != "[]" {
		t.Errorf("expected empty array, got %q", data)
	}
}

func TestLoadJSONMissingFile(t *testing.T) {
	t.Parallel()

	tasks, err := LoadJSON[models.Task](filepath.Join(t.TempDir(), "absent.json"))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Errorf("expected empty non-nil list, got %#v", tasks)
	}
}

func TestLoadJSONEmptyAndNull(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	for name, content := range map[string]string{"empty.json": "", "null.json": "null\n"} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}
		tasks, err := LoadJSON[models.Task](path)
		if err != nil {
			t.Fatalf("LoadJSON(%s) failed: %v", name, err)
		}
		if len(tasks) != 0 {
			t.Errorf("LoadJSON(%s) returned %d tasks", name, len(tasks))
		}
	}
}

func TestLoadJSONInvalid(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "todo_data.json")
	if err := os.WriteFile(path, []byte("[{not json"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := LoadJSON[models.Task](path)
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Path != path {
		t.Errorf("ParseError.Path=%q, want %q", parseErr.Path, path)
	}
}

func TestSaveJSONWriteFailure(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing-dir", "todo_data.json")

	err := SaveJSON(path, sampleTasks())
	var ioErr *IOError
	if !errors.As(err, &ioErr) {
		t.Fatalf("expected IOError, got %v", err)
	}
	if ioErr.Op != "write" {
		t.Errorf("IOError.Op=%q, want write", ioErr.Op)
	}
}

func TestFileStore(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "data")

	store, err := NewFileStore(dir, "", "")
	if err != nil {
		t.Fatalf("NewFileStore failed: %v", err)
	}
	if filepath.Base(store.ActivePath()) != DefaultActiveFile {
		t.Errorf("ActivePath=%s", store.ActivePath())
	}
	if filepath.Base(store.CompletedPath()) != DefaultCompletedFile {
		t.Errorf("CompletedPath=%s", store.CompletedPath())
	}

	if err := store.SaveActive(sampleTasks()); err != nil {
		t.Fatalf("SaveActive failed: %v", err)
	}
	done := []models.CompletedTask{sampleTasks()[0].CompleteAt(fixedTime)}
	if err := store.SaveCompleted(done); err != nil {
		t.Fatalf("SaveCompleted failed: %v", err)
	}

	active, err := store.LoadActive()
	if err != nil {
		t.Fatalf("LoadActive failed: %v", err)
	}
	if !reflect.DeepEqual(active, sampleTasks()) {
		t.Errorf("LoadActive=%+v", active)
	}

	completed, err := store.LoadCompleted()
	if err != nil {
		t.Fatalf("LoadCompleted failed: %v", err)
	}
	if !reflect.DeepEqual(completed, done) {
		t.Errorf("LoadCompleted=%+v", completed)
	}
}

func TestOpenUnknownBackend(t *testing.T) {
	t.Parallel()

	if _, err := Open(Options{Backend: "redis", DataDir: t.TempDir()}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestOptionsPaths(t *testing.T) {
	t.Parallel()

	opts := Options{Backend: BackendJSON, DataDir: "data"}
	want := []string{filepath.Join("data", DefaultActiveFile), filepath.Join("data", DefaultCompletedFile)}
	if got := opts.Paths(); !reflect.DeepEqual(got, want) {
		t.Errorf("json paths=%v, want %v", got, want)
	}

	opts.Backend = BackendSQLite
	if got := opts.Paths(); !reflect.DeepEqual(got, []string{filepath.Join("data", DefaultSQLiteFile)}) {
		t.Errorf("sqlite paths=%v", got)
	}

	opts.SQLitePath = "/tmp/tasks.db"
	if got := opts.Paths(); !reflect.DeepEqual(got, []string{"/tmp/tasks.db"}) {
		t.Errorf("explicit sqlite path=%v", got)
	}
}
