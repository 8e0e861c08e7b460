package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tasktracker/internal/app"
	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

// setup isolates HOME and the working directory and points the data
// directory at a fresh temp dir, which it returns.
func setup(t *testing.T) string {
	// Cannot use t.Parallel() - modifies working directory
	t.Helper()

	t.Setenv("HOME", t.TempDir())
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatalf("Failed to change directory: %v", err)
	}
	t.Cleanup(func() { os.Chdir(originalWd) })

	dataDir := t.TempDir()
	t.Setenv("TASKTRACKER_STORAGE_DATA_DIR", dataDir)
	t.Setenv("TASKTRACKER_STORAGE_BACKEND", "json")
	return dataDir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func mustExecute(t *testing.T, args ...string) string {
	t.Helper()

	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("%v failed: %v\n%s", args, err, out)
	}
	return out
}

func addArgs(name, due, priority string) []string {
	return []string{"add", "--name", name, "--desc", name + " details", "--due", due, "--priority", priority}
}

func TestAddListComplete(t *testing.T) {
	dataDir := setup(t)

	out := mustExecute(t, addArgs("Buy milk", "2024-01-15", "High")...)
	if strings.TrimSpace(out) != app.StatusAdded {
		t.Errorf("add output=%q", out)
	}
	mustExecute(t, addArgs("Call mom", "01/20/24", "low")...)

	out = mustExecute(t, "list")
	if !strings.Contains(out, "1. Buy milk - Buy milk details - Due: 01/15/24 - Priority: High - Status: Not Completed") ||
		!strings.Contains(out, "2. Call mom - Call mom details - Due: 01/20/24 - Priority: Low") {
		t.Errorf("list output:\n%s", out)
	}

	out = mustExecute(t, "complete", "1")
	if strings.TrimSpace(out) != app.StatusCompleted {
		t.Errorf("complete output=%q", out)
	}

	active, err := storage.LoadJSON[models.Task](filepath.Join(dataDir, storage.DefaultActiveFile))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if len(active) != 1 || active[0].Name != "Call mom" {
		t.Errorf("active file=%+v", active)
	}
	done, err := storage.LoadJSON[models.CompletedTask](filepath.Join(dataDir, storage.DefaultCompletedFile))
	if err != nil {
		t.Fatalf("LoadJSON failed: %v", err)
	}
	if len(done) != 1 || done[0].Name != "Buy milk" || !done[0].Completed {
		t.Errorf("completed file=%+v", done)
	}

	out = mustExecute(t, "clear")
	if strings.TrimSpace(out) != app.StatusCleared {
		t.Errorf("clear output=%q", out)
	}
	if out := mustExecute(t, "list"); !strings.Contains(out, "Completed:\n  (none)") {
		t.Errorf("completed list not empty:\n%s", out)
	}
}

func TestRejectedCommandsFail(t *testing.T) {
	setup(t)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"add", "--name", "a", "--due", "2024-01-15"}, app.StatusFillAllFields},
		{addArgs("a", "soon", "High"), app.StatusInvalidDate},
		{addArgs("a", "2024-01-15", "Urgent"), app.StatusInvalidPriority},
		{[]string{"remove", "1"}, app.StatusSelectToRemove},
		{[]string{"complete", "3"}, app.StatusSelectToComplete},
		{[]string{"remove", "first"}, "task number must be an integer"},
		{[]string{"sort", "--by", "name"}, "unknown sort field"},
		{[]string{"export", "--format", "xml"}, "unsupported format"},
	}

	for _, tt := range tests {
		_, err := execute(t, tt.args...)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("%v: err=%v, want %q", tt.args, err, tt.want)
		}
	}
}

func TestRemoveByPosition(t *testing.T) {
	setup(t)
	mustExecute(t, addArgs("a", "2024-01-15", "Low")...)
	mustExecute(t, addArgs("b", "2024-01-16", "Low")...)

	out := mustExecute(t, "remove", "2")
	if strings.TrimSpace(out) != "Task 'b' removed!" {
		t.Errorf("remove output=%q", out)
	}
}

func TestMalformedFileIsFatal(t *testing.T) {
	dataDir := setup(t)

	if err := os.WriteFile(filepath.Join(dataDir, storage.DefaultActiveFile), []byte("{broken"), 0644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	_, err := execute(t, "list")
	var parseErr *storage.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
}

func TestListFilterAndSort(t *testing.T) {
	setup(t)
	mustExecute(t, addArgs("m", "2024-03-01", "Medium")...)
	mustExecute(t, addArgs("h", "2024-02-01", "High")...)
	mustExecute(t, addArgs("l", "2024-01-01", "Low")...)

	out := mustExecute(t, "list", "--priority", "high")
	if strings.TrimSpace(out) != "2. h - h details - Due: 02/01/24 - Priority: High - Status: Not Completed" {
		t.Errorf("filtered list=%q", out)
	}

	out = mustExecute(t, "sort", "--by", "priority")
	if !strings.HasPrefix(out, app.StatusSortedByPriority) {
		t.Errorf("sort output=%q", out)
	}
	if strings.Index(out, "1. h") < 0 || strings.Index(out, "2. l") < 0 || strings.Index(out, "3. m") < 0 {
		t.Errorf("unexpected order:\n%s", out)
	}

	out = mustExecute(t, "list", "--sort", "due_date")
	if !strings.Contains(out, "1. l") || !strings.Contains(out, "3. m") {
		t.Errorf("sorted list:\n%s", out)
	}

	// Sorting is never saved.
	out = mustExecute(t, "list")
	if !strings.Contains(out, "1. m") {
		t.Errorf("sort was persisted:\n%s", out)
	}
}

func TestExport(t *testing.T) {
	setup(t)
	mustExecute(t, addArgs("a", "2024-01-15", "Low")...)

	out := mustExecute(t, "export")
	if !strings.HasPrefix(out, "list,name,description,due_date,priority,completed,completion_date,completion_time\n") {
		t.Errorf("csv output=%q", out)
	}

	path := filepath.Join(t.TempDir(), "tasks.json")
	out = mustExecute(t, "export", "--format", "json", "--out", path)
	if !strings.Contains(out, "Exported 1 active and 0 completed tasks") {
		t.Errorf("export output=%q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !strings.Contains(string(data), `"active": [`) || !strings.Contains(string(data), `"name": "a"`) {
		t.Errorf("json export:\n%s", data)
	}
}

func TestMigrateToSQLite(t *testing.T) {
	setup(t)
	mustExecute(t, addArgs("a", "2024-01-15", "Low")...)
	mustExecute(t, addArgs("b", "2024-01-16", "High")...)
	mustExecute(t, "complete", "1")

	out := mustExecute(t, "migrate", "--to", "sqlite")
	if !strings.Contains(out, "Copied 1 active and 1 completed tasks from json to sqlite") {
		t.Errorf("migrate output=%q", out)
	}

	t.Setenv("TASKTRACKER_STORAGE_BACKEND", "sqlite")
	out = mustExecute(t, "list")
	if !strings.Contains(out, "1. b - b details") || !strings.Contains(out, "1. a - a details - Completed on:") {
		t.Errorf("sqlite list:\n%s", out)
	}

	if _, err := execute(t, "migrate", "--to", "sqlite"); err == nil {
		t.Error("expected error migrating onto the active backend")
	}
}

func TestConfigShowAndPath(t *testing.T) {
	dataDir := setup(t)

	out := mustExecute(t, "config", "show")
	if !strings.Contains(out, "backend: json") || !strings.Contains(out, "data_dir: "+dataDir) {
		t.Errorf("config show:\n%s", out)
	}

	out = mustExecute(t, "config", "path")
	if !strings.Contains(out, filepath.Join(dataDir, storage.DefaultActiveFile)) {
		t.Errorf("config path:\n%s", out)
	}
}

func TestBotRequiresToken(t *testing.T) {
	setup(t)
	t.Setenv("TASKTRACKER_TELEGRAM_TOKEN", "")

	_, err := execute(t, "bot")
	if err == nil || !strings.Contains(err.Error(), "telegram.token") {
		t.Errorf("err=%v", err)
	}
}
