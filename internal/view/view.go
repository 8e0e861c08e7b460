// Package view turns task lists into the text rows and colors every
// front-end shows.
package view

import (
	"fmt"
	"strings"

	"tasktracker/internal/app"
	"tasktracker/internal/models"
)

// PriorityColors are the row colors of the active list.
var PriorityColors = map[models.Priority]string{
	models.PriorityHigh:   "#FF0000",
	models.PriorityMedium: "#FFA500",
	models.PriorityLow:    "#008000",
}

// PriorityColor falls back to white for unknown priorities.
func PriorityColor(p models.Priority) string {
	if c, ok := PriorityColors[p]; ok {
		return c
	}
	return "#FFFFFF"
}

type Palette struct {
	Background       string
	Foreground       string
	SelectBackground string
	SelectForeground string
}

var palettes = map[app.Theme]Palette{
	app.ThemeLight: {
		Background:       "#FFFFFF",
		Foreground:       "#000000",
		SelectBackground: "#E1EFFF",
		SelectForeground: "#000000",
	},
	app.ThemeDark: {
		Background:       "#2E2E2E",
		Foreground:       "#FFFFFF",
		SelectBackground: "#000000",
		SelectForeground: "#FFFFFF",
	},
}

func PaletteFor(t app.Theme) Palette {
	if p, ok := palettes[t]; ok {
		return p
	}
	return palettes[app.ThemeLight]
}

func status(completed bool) string {
	if completed {
		return "Completed"
	}
	return "Not Completed"
}

// ActiveRow renders the task at 0-based position i.
func ActiveRow(i int, t models.Task) string {
	return fmt.Sprintf("%d. %s - %s - Due: %s - Priority: %s - Status: %s",
		i+1, t.Name, t.Description, t.DueDate, t.Priority, status(t.Completed))
}

// CompletedRow renders the completed task at 0-based position i.
func CompletedRow(i int, t models.CompletedTask) string {
	return fmt.Sprintf("%d. %s - %s - Completed on: %s %s",
		i+1, t.Name, t.Description, t.CompletionDate, t.CompletionTime)
}

func ActiveRows(tasks []models.Task) []string {
	rows := make([]string, len(tasks))
	for i, t := range tasks {
		rows[i] = ActiveRow(i, t)
	}
	return rows
}

func CompletedRows(tasks []models.CompletedTask) []string {
	rows := make([]string, len(tasks))
	for i, t := range tasks {
		rows[i] = CompletedRow(i, t)
	}
	return rows
}

// Text renders both lists as plain text sections.
func Text(res app.Result) string {
	var b strings.Builder

	b.WriteString("Tasks:\n")
	if len(res.Active) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, row := range ActiveRows(res.Active) {
		b.WriteString("  " + row + "\n")
	}

	b.WriteString("Completed:\n")
	if len(res.Completed) == 0 {
		b.WriteString("  (none)\n")
	}
	for _, row := range CompletedRows(res.Completed) {
		b.WriteString("  " + row + "\n")
	}

	return b.String()
}
