package models

import (
	"fmt"
	"strings"
	"time"
)

// Date and time layouts used in the persisted files.
const (
	DateLayout       = "01/02/06" // MM/DD/YY
	TimeLayout       = "03:04 PM" // 12-hour clock
	PickerDateLayout = "2006-01-02"
)

type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Priorities lists the accepted values in the order the form offers them.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority accepts any casing of High, Medium or Low.
func ParsePriority(s string) (Priority, error) {
	for _, p := range Priorities {
		if strings.EqualFold(strings.TrimSpace(s), string(p)) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// PositionsWithPriority returns the 0-based positions of the tasks whose
// priority is p.
func PositionsWithPriority(tasks []Task, p Priority) []int {
	var out []int
	for i, t := range tasks {
		if t.Priority == p {
			out = append(out, i)
		}
	}
	return out
}

// Task is a record in the active list.
type Task struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	DueDate     string   `json:"due_date"`
	Priority    Priority `json:"priority"`
	Completed   bool     `json:"completed"`
}

// CompletedTask is a Task moved to the completed list with the moment it was finished.
type CompletedTask struct {
	Name           string   `json:"name"`
	Description    string   `json:"description"`
	DueDate        string   `json:"due_date"`
	Priority       Priority `json:"priority"`
	Completed      bool     `json:"completed"`
	CompletionDate string   `json:"completion_date"`
	CompletionTime string   `json:"completion_time"`
}

// CompleteAt stamps the task with the date and time of at.
func (t Task) CompleteAt(at time.Time) CompletedTask {
	return CompletedTask{
		Name:           t.Name,
		Description:    t.Description,
		DueDate:        t.DueDate,
		Priority:       t.Priority,
		Completed:      true,
		CompletionDate: at.Format(DateLayout),
		CompletionTime: at.Format(TimeLayout),
	}
}

// NormalizeDueDate converts a picker date (YYYY-MM-DD) or an already
// normalized date (MM/DD/YY) to MM/DD/YY.
func NormalizeDueDate(s string) (string, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{PickerDateLayout, DateLayout} {
		if d, err := time.Parse(layout, s); err == nil {
			return d.Format(DateLayout), nil
		}
	}
	return "", fmt.Errorf("invalid due date %q", s)
}

// ParseDueDate parses a stored MM/DD/YY date.
func ParseDueDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
