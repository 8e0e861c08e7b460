// Package cli is the tasktracker command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tasktracker/internal/app"
	"tasktracker/internal/config"
	"tasktracker/internal/logger"
	"tasktracker/internal/storage"
)

// session carries what the persistent flags resolve to.
type session struct {
	configPath string
	verbose    bool
	cfg        *config.Config
}

// NewRootCmd builds the full command tree.
func NewRootCmd() *cobra.Command {
	s := &session{}

	rootCmd := &cobra.Command{
		Use:   "tasktracker",
		Short: "Track active and completed tasks",
		Long: `tasktracker keeps a list of active tasks and a list of completed ones.

Both lists are saved after every change, to JSON files by default or to a
SQLite database. The same lists can be served over HTTP, driven from a
Telegram bot or edited in a terminal UI.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return s.load()
		},
	}

	rootCmd.PersistentFlags().StringVar(&s.configPath, "config", "", "Config file (default ~/.tasktracker/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&s.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newAddCmd(s),
		newListCmd(s),
		newRemoveCmd(s),
		newCompleteCmd(s),
		newClearCmd(s),
		newSortCmd(s),
		newExportCmd(s),
		newMigrateCmd(s),
		newServeCmd(s),
		newBotCmd(s),
		newTUICmd(s),
		newConfigCmd(s),
	)
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute(version string) error {
	rootCmd := NewRootCmd()
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (s *session) load() error {
	cfg, err := config.Load(s.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	s.cfg = cfg

	level := cfg.LogLevel()
	if s.verbose {
		level = logger.LevelDebug
	}
	logger.SetLevel(level)
	return nil
}

// openApp opens the configured store and loads both lists. A malformed data
// file ends the command with an error.
func (s *session) openApp() (*app.App, error) {
	store, err := storage.Open(s.cfg.StorageOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	a, err := app.Open(store, app.ThemeFor(s.cfg.Theme.Dark))
	if err != nil {
		store.Close()
		return nil, err
	}
	return a, nil
}

// run dispatches one command and turns a rejection into an error so the
// process exits non-zero.
func run(ctx context.Context, cmd *cobra.Command, a *app.App, c app.Command) (app.Result, error) {
	res, err := a.Dispatch(ctx, c)
	if err != nil {
		return res, err
	}
	if !res.OK {
		return res, errors.New(res.Status)
	}
	fmt.Fprintln(cmd.OutOrStdout(), res.Status)
	return res, nil
}
