package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tasktracker/internal/models"
)

const DefaultSQLiteFile = "tasktracker.db"

// SQLiteStore keeps both lists in one database. The position column
// preserves list order; every save replaces a table's rows.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if strings.HasPrefix(dbPath, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, &IOError{Op: "mkdir", Path: filepath.Dir(dbPath), Err: err}
	}

	db, err := sql.Open(driverName, dbPath)
	if err != nil {
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, &IOError{Op: "open", Path: dbPath, Err: err}
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, &IOError{Op: "migrate", Path: dbPath, Err: err}
	}

	return &SQLiteStore{db: db, path: dbPath}, nil
}

func createTables(db *sql.DB) error {
	createActiveTable := `
	CREATE TABLE IF NOT EXISTS active_tasks (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TEXT NOT NULL,
		priority TEXT NOT NULL
	)`

	createCompletedTable := `
	CREATE TABLE IF NOT EXISTS completed_tasks (
		position INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL,
		due_date TEXT NOT NULL,
		priority TEXT NOT NULL,
		completion_date TEXT NOT NULL,
		completion_time TEXT NOT NULL
	)`

	if _, err := db.Exec(createActiveTable); err != nil {
		return fmt.Errorf("create table active_tasks: %w", err)
	}
	if _, err := db.Exec(createCompletedTable); err != nil {
		return fmt.Errorf("create table completed_tasks: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) LoadActive() ([]models.Task, error) {
	rows, err := s.db.Query(`
	SELECT name, description, due_date, priority
	FROM active_tasks ORDER BY position`)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	defer rows.Close()

	tasks := []models.Task{}
	for rows.Next() {
		var task models.Task
		var priority string
		if err := rows.Scan(&task.Name, &task.Description, &task.DueDate, &priority); err != nil {
			return nil, &ParseError{Path: s.path, Err: err}
		}
		task.Priority = models.Priority(priority)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return tasks, nil
}

func (s *SQLiteStore) LoadCompleted() ([]models.CompletedTask, error) {
	rows, err := s.db.Query(`
	SELECT name, description, due_date, priority, completion_date, completion_time
	FROM completed_tasks ORDER BY position`)
	if err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	defer rows.Close()

	tasks := []models.CompletedTask{}
	for rows.Next() {
		var task models.CompletedTask
		var priority string
		err := rows.Scan(
			&task.Name, &task.Description, &task.DueDate, &priority,
			&task.CompletionDate, &task.CompletionTime,
		)
		if err != nil {
			return nil, &ParseError{Path: s.path, Err: err}
		}
		task.Priority = models.Priority(priority)
		task.Completed = true
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, &IOError{Op: "read", Path: s.path, Err: err}
	}
	return tasks, nil
}

func (s *SQLiteStore) SaveActive(tasks []models.Task) error {
	err := s.replace("active_tasks", len(tasks), func(stmt *sql.Stmt, i int) error {
		t := tasks[i]
		_, err := stmt.Exec(i, t.Name, t.Description, t.DueDate, string(t.Priority))
		return err
	}, `INSERT INTO active_tasks (position, name, description, due_date, priority)
	VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

func (s *SQLiteStore) SaveCompleted(tasks []models.CompletedTask) error {
	err := s.replace("completed_tasks", len(tasks), func(stmt *sql.Stmt, i int) error {
		t := tasks[i]
		_, err := stmt.Exec(i, t.Name, t.Description, t.DueDate, string(t.Priority),
			t.CompletionDate, t.CompletionTime)
		return err
	}, `INSERT INTO completed_tasks
	(position, name, description, due_date, priority, completion_date, completion_time)
	VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return &IOError{Op: "write", Path: s.path, Err: err}
	}
	return nil
}

// replace deletes every row of table and inserts n rows through insert.
func (s *SQLiteStore) replace(table string, n int, insert func(*sql.Stmt, int) error, query string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("clear %s: %w", table, err)
	}

	stmt, err := tx.Prepare(query)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i := 0; i < n; i++ {
		if err := insert(stmt, i); err != nil {
			return fmt.Errorf("insert into %s: %w", table, err)
		}
	}

	return tx.Commit()
}
