package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"tasktracker/internal/app"
	"tasktracker/internal/models"
	"tasktracker/internal/view"
)

func newAddCmd(s *session) *cobra.Command {
	var name, desc, due, priority string

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a task",
		Example: `  tasktracker add --name "Buy milk" --desc "2% milk" --due 2024-01-15 --priority High`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = run(cmd.Context(), cmd, a, app.Command{
				Action:      app.ActionAdd,
				Name:        name,
				Description: desc,
				DueDate:     due,
				Priority:    priority,
			})
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task name")
	cmd.Flags().StringVar(&desc, "desc", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due date, YYYY-MM-DD or MM/DD/YY")
	cmd.Flags().StringVar(&priority, "priority", string(models.PriorityMedium), "High, Medium or Low")
	return cmd
}

func newListCmd(s *session) *cobra.Command {
	var priority, sortBy string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show active and completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			if sortBy != "" {
				action, err := sortAction(sortBy)
				if err != nil {
					return err
				}
				res, err := a.Dispatch(cmd.Context(), app.Command{Action: action})
				if err != nil {
					return err
				}
				if !res.OK {
					return errors.New(res.Status)
				}
			}

			res := a.Snapshot()
			out := cmd.OutOrStdout()
			if priority == "" {
				fmt.Fprint(out, view.Text(res))
				return nil
			}

			p, err := models.ParsePriority(priority)
			if err != nil {
				return errors.New(app.StatusInvalidPriority)
			}
			positions := models.PositionsWithPriority(res.Active, p)
			if len(positions) == 0 {
				fmt.Fprintf(out, "No %s tasks.\n", p)
				return nil
			}
			for _, i := range positions {
				fmt.Fprintln(out, view.ActiveRow(i, res.Active[i]))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&priority, "priority", "", "Only show tasks with this priority")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort before listing: due_date or priority")
	return cmd
}

// positionArg turns the 1-based number printed by list into an index.
func positionArg(arg string) (*int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return nil, fmt.Errorf("task number must be an integer, got %q", arg)
	}
	return app.Select(n - 1), nil
}

func newRemoveCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "remove N",
		Short: "Remove task N",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := positionArg(args[0])
			if err != nil {
				return err
			}

			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = run(cmd.Context(), cmd, a, app.Command{Action: app.ActionRemove, Index: index})
			return err
		},
	}
}

func newCompleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "complete N",
		Short: "Mark task N as completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := positionArg(args[0])
			if err != nil {
				return err
			}

			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = run(cmd.Context(), cmd, a, app.Command{Action: app.ActionComplete, Index: index})
			return err
		},
	}
}

func newClearCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Discard all completed tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			_, err = run(cmd.Context(), cmd, a, app.Command{Action: app.ActionClearCompleted})
			return err
		},
	}
}

func sortAction(by string) (app.Action, error) {
	switch by {
	case "due_date", "due":
		return app.ActionSortDueDate, nil
	case "priority":
		return app.ActionSortPriority, nil
	}
	return "", fmt.Errorf("unknown sort field %q, use due_date or priority", by)
}

// Sorting is kept in memory only, so the command prints the sorted lists
// rather than saving them.
func newSortCmd(s *session) *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "sort",
		Short: "Print the active tasks in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := sortAction(by)
			if err != nil {
				return err
			}

			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			res, err := run(cmd.Context(), cmd, a, app.Command{Action: action})
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), view.Text(res))
			return nil
		},
	}

	cmd.Flags().StringVar(&by, "by", "due_date", "due_date or priority")
	return cmd
}
