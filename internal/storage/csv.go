package storage

import (
	"encoding/csv"
	"io"
	"strconv"

	"tasktracker/internal/models"
)

var csvHeader = []string{
	"list", "name", "description", "due_date", "priority", "completed",
	"completion_date", "completion_time",
}

// ExportCSV writes both lists as CSV, active tasks first.
func ExportCSV(w io.Writer, active []models.Task, completed []models.CompletedTask) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, t := range active {
		row := []string{
			"active", t.Name, t.Description, t.DueDate, string(t.Priority),
			strconv.FormatBool(t.Completed), "", "",
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	for _, t := range completed {
		row := []string{
			"completed", t.Name, t.Description, t.DueDate, string(t.Priority),
			strconv.FormatBool(t.Completed), t.CompletionDate, t.CompletionTime,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}
