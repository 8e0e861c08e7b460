package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"tasktracker/internal/logger"
	"tasktracker/internal/models"
	"tasktracker/internal/storage"
)

func newExportCmd(s *session) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write both lists as CSV or JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "csv" && format != "json" {
				return fmt.Errorf("unsupported format %q, use csv or json", format)
			}

			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()
			res := a.Snapshot()

			w := cmd.OutOrStdout()
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if format == "csv" {
				err = storage.ExportCSV(w, res.Active, res.Completed)
			} else {
				err = exportJSON(w, res.Active, res.Completed)
			}
			if err != nil {
				return fmt.Errorf("failed to export tasks: %w", err)
			}

			if w != cmd.OutOrStdout() {
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d active and %d completed tasks to %s\n",
					len(res.Active), len(res.Completed), out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "csv or json")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "Output file, - for stdout")
	return cmd
}

func exportJSON(w io.Writer, active []models.Task, completed []models.CompletedTask) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(struct {
		Active    []models.Task          `json:"active"`
		Completed []models.CompletedTask `json:"completed"`
	}{active, completed})
}

func newMigrateCmd(s *session) *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Copy both lists from the configured backend to another one",
		Long: `migrate reads both lists from the configured storage backend and
replaces the lists held by the target backend with them. Switch
storage.backend afterwards to start using the target.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from := s.cfg.StorageOptions()
			if to == from.Backend {
				return fmt.Errorf("storage is already %s", to)
			}
			target := from
			target.Backend = to

			src, err := storage.Open(from)
			if err != nil {
				return fmt.Errorf("failed to open %s storage: %w", from.Backend, err)
			}
			defer src.Close()

			dst, err := storage.Open(target)
			if err != nil {
				return fmt.Errorf("failed to open %s storage: %w", to, err)
			}
			defer dst.Close()

			active, completed, err := storage.Copy(dst, src)
			if err != nil {
				return err
			}

			logger.Info(cmd.Context(), "Migration finished", "from", from.Backend, "to", to)
			fmt.Fprintf(cmd.OutOrStdout(), "Copied %d active and %d completed tasks from %s to %s\n",
				active, completed, from.Backend, to)
			return nil
		},
	}

	cmd.Flags().StringVar(&to, "to", storage.BackendSQLite, "Target backend: json or sqlite")
	return cmd
}
