package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"tasktracker/internal/bot"
	"tasktracker/internal/config"
	"tasktracker/internal/server"
	"tasktracker/internal/tui"
)

func newServeCmd(s *session) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = s.cfg.HTTP.Addr
			}

			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Serve(ctx, addr, server.NewRouter(server.NewTaskHandler(a)))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from http.addr)")
	return cmd
}

func newBotCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if s.cfg.Telegram.Token == "" {
				return errors.New("telegram.token is not set (TASKTRACKER_TELEGRAM_TOKEN)")
			}

			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			b, err := bot.New(s.cfg.Telegram.Token, s.cfg.Telegram.Debug, a)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return b.Run(ctx)
		},
	}
}

func newTUICmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Open the terminal UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := s.openApp()
			if err != nil {
				return err
			}
			defer a.Close()

			return tui.Run(cmd.Context(), a)
		},
	}
}

func newConfigCmd(s *session) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show merged configuration",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				data, err := yaml.Marshal(s.cfg)
				if err != nil {
					return fmt.Errorf("failed to marshal config: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), "# Merged configuration (defaults + file + environment)")
				fmt.Fprint(cmd.OutOrStdout(), string(data))
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Show configuration and data file paths",
			Args:  cobra.NoArgs,
			Run: func(cmd *cobra.Command, args []string) {
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Global config: %s\n", config.GlobalConfigPath())
				if s.configPath != "" {
					fmt.Fprintf(out, "Config flag:   %s\n", s.configPath)
				}
				for _, p := range s.cfg.StorageOptions().Paths() {
					fmt.Fprintf(out, "Data:          %s\n", p)
				}
			},
		},
	)
	return configCmd
}
