// Package tui is the interactive terminal front-end.
package tui

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tasktracker/internal/app"
	"tasktracker/internal/logger"
	"tasktracker/internal/models"
	"tasktracker/internal/view"
)

// Dispatcher is the part of *app.App the terminal UI needs.
type Dispatcher interface {
	Dispatch(ctx context.Context, cmd app.Command) (app.Result, error)
	Snapshot() app.Result
}

type mode int

const (
	modeList mode = iota
	modeAdd
)

// Form field order.
const (
	fieldName = iota
	fieldDescription
	fieldDueDate
	fieldPriority
	fieldCount
)

const defaultPriority = string(models.PriorityMedium)

const helpLine = "a add • ↑/↓ select • d remove • c complete • x clear completed • s sort by date • p sort by priority • t theme • q quit"
const formHelpLine = "tab next field • enter save • esc cancel"

type Model struct {
	ctx    context.Context
	app    Dispatcher
	state  app.Result
	cursor int
	mode   mode
	inputs []textinput.Model
	focus  int
	status string
	failed bool
	// err is the storage failure that ends the session.
	err error
}

// New builds the model over d.
func New(ctx context.Context, d Dispatcher) Model {
	inputs := make([]textinput.Model, fieldCount)
	placeholders := [fieldCount]string{"Task name", "Description", "YYYY-MM-DD", "High, Medium or Low"}
	for i := range inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 256
		ti.Width = 40
		inputs[i] = ti
	}
	inputs[fieldPriority].SetValue(defaultPriority)

	return Model{
		ctx:    ctx,
		app:    d,
		state:  d.Snapshot(),
		inputs: inputs,
		status: "Press 'a' to add a task.",
	}
}

// LogFile is where log lines go while the terminal UI owns the screen.
var LogFile = filepath.Join(os.TempDir(), "tasktracker-tui.log")

// Run blocks until the user quits or a change cannot be saved, in which case
// the storage error is returned.
func Run(ctx context.Context, d Dispatcher) error {
	restore := redirectLog(LogFile)
	defer restore()

	final, err := tea.NewProgram(New(ctx, d), tea.WithContext(ctx)).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(Model); ok && m.err != nil {
		return m.err
	}
	return nil
}

// redirectLog sends the std logger to path, or discards it when path cannot
// be opened, until the returned func is called.
func redirectLog(path string) func() {
	out, prefix := log.Writer(), log.Prefix()
	f, err := tea.LogToFile(path, prefix)
	if err != nil {
		log.SetOutput(io.Discard)
	}
	return func() {
		log.SetOutput(out)
		log.SetPrefix(prefix)
		if f != nil {
			f.Close()
		}
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		var cmd tea.Cmd
		if m.mode == modeAdd {
			m, cmd = m.updateAddMode(msg)
		} else {
			m, cmd = m.updateListMode(msg.String())
		}
		if m.err != nil {
			return m, tea.Quit
		}
		return m, cmd
	case tea.WindowSizeMsg:
		for i := range m.inputs {
			m.inputs[i].Width = max(msg.Width-20, 10)
		}
	}
	return m, nil
}

func (m Model) updateListMode(key string) (Model, tea.Cmd) {
	switch key {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.state.Active)-1 {
			m.cursor++
		}
	case "a":
		m.mode = modeAdd
		m.focus = fieldName
		return m, m.focusField()
	case "d":
		m.dispatch(app.Command{Action: app.ActionRemove, Index: m.selection()})
	case "c":
		m.dispatch(app.Command{Action: app.ActionComplete, Index: m.selection()})
	case "x":
		m.dispatch(app.Command{Action: app.ActionClearCompleted})
	case "s":
		m.dispatch(app.Command{Action: app.ActionSortDueDate})
	case "p":
		m.dispatch(app.Command{Action: app.ActionSortPriority})
	case "t":
		m.dispatch(app.Command{Action: app.ActionToggleTheme})
	}
	return m, nil
}

func (m Model) updateAddMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.resetForm()
		m.mode = modeList
		m.status = "Cancelled."
		m.failed = false
		return m, nil
	case "tab", "down":
		m.focus = (m.focus + 1) % fieldCount
		return m, m.focusField()
	case "shift+tab", "up":
		m.focus = (m.focus + fieldCount - 1) % fieldCount
		return m, m.focusField()
	case "enter":
		ok := m.dispatch(app.Command{
			Action:      app.ActionAdd,
			Name:        m.inputs[fieldName].Value(),
			Description: m.inputs[fieldDescription].Value(),
			DueDate:     m.inputs[fieldDueDate].Value(),
			Priority:    m.inputs[fieldPriority].Value(),
		})
		if ok {
			m.resetForm()
			m.mode = modeList
			m.cursor = len(m.state.Active) - 1
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// dispatch runs cmd and reports whether it was accepted. A storage error is
// kept in m.err so Update can end the session.
func (m *Model) dispatch(cmd app.Command) bool {
	res, err := m.app.Dispatch(m.ctx, cmd)
	if err != nil {
		logger.Error(m.ctx, err, "Quitting after failed save", "action", string(cmd.Action))
		m.err = err
	}

	m.state = res
	m.status = res.Status
	m.failed = !res.OK
	m.cursor = min(m.cursor, max(len(res.Active)-1, 0))
	return res.OK
}

func (m Model) selection() *int {
	if len(m.state.Active) == 0 {
		return nil
	}
	return app.Select(m.cursor)
}

func (m *Model) focusField() tea.Cmd {
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == m.focus {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) resetForm() {
	for i := range m.inputs {
		m.inputs[i].SetValue("")
		m.inputs[i].Blur()
	}
	m.inputs[fieldPriority].SetValue(defaultPriority)
	m.focus = fieldName
}

func (m Model) View() string {
	pal := view.PaletteFor(m.state.Theme)
	base := lipgloss.NewStyle().
		Foreground(lipgloss.Color(pal.Foreground)).
		Background(lipgloss.Color(pal.Background))
	title := base.Bold(true)
	selected := lipgloss.NewStyle().
		Foreground(lipgloss.Color(pal.SelectForeground)).
		Background(lipgloss.Color(pal.SelectBackground))

	var b strings.Builder
	b.WriteString(title.Render("Tasks"))
	b.WriteString("\n")

	if len(m.state.Active) == 0 {
		b.WriteString(base.Render("  No tasks yet."))
		b.WriteString("\n")
	}
	for i, t := range m.state.Active {
		row := view.ActiveRow(i, t)
		if i == m.cursor && m.mode == modeList {
			b.WriteString(selected.Render("> " + row))
		} else {
			rowStyle := base.Foreground(lipgloss.Color(view.PriorityColor(t.Priority)))
			b.WriteString(rowStyle.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(title.Render("Completed"))
	b.WriteString("\n")
	if len(m.state.Completed) == 0 {
		b.WriteString(base.Render("  None."))
		b.WriteString("\n")
	}
	for _, row := range view.CompletedRows(m.state.Completed) {
		b.WriteString(base.Render("  " + row))
		b.WriteString("\n")
	}

	if m.mode == modeAdd {
		labels := [fieldCount]string{"Name", "Description", "Due date", "Priority"}
		b.WriteString("\n")
		b.WriteString(title.Render("New task"))
		b.WriteString("\n")
		for i, in := range m.inputs {
			b.WriteString(base.Render(labels[i]+": ") + in.View())
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	statusStyle := base
	if m.failed {
		statusStyle = statusStyle.Foreground(lipgloss.Color(view.PriorityColor(models.PriorityHigh)))
	}
	b.WriteString(statusStyle.Render(m.status))
	b.WriteString("\n")
	if m.mode == modeAdd {
		b.WriteString(formHelpLine)
	} else {
		b.WriteString(helpLine)
	}
	b.WriteString("\n")
	return b.String()
}
