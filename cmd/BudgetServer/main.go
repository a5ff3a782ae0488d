package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sebuszqo/BudgetTracker/internal/config"
	"github.com/sebuszqo/BudgetTracker/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

type serveOptions struct {
	host     string
	port     int
	dataPath string
}

func newRootCommand() *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:           "budget-server",
		Short:         "Budget tracking API server",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
	cmd.PersistentFlags().StringVar(&opts.host, "host", "", "bind host (overrides SERVER_HOST)")
	cmd.PersistentFlags().IntVar(&opts.port, "port", 0, "bind port (overrides SERVER_PORT)")
	cmd.PersistentFlags().StringVar(&opts.dataPath, "data-path", "", "data directory (overrides DATABASE_PATH)")

	cmd.AddCommand(serve)
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})

	return cmd
}

// applyFlags overrides loaded values with the flags that were set.
func (o *serveOptions) applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("host") {
		cfg.Server.Host = o.host
	}
	if flags.Changed("port") {
		cfg.Server.Port = o.port
	}
	if flags.Changed("data-path") {
		cfg.Database.Path = o.dataPath
	}
	return cfg.Validate()
}

func runServe(cmd *cobra.Command, opts *serveOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := opts.applyFlags(cmd, cfg); err != nil {
		return fmt.Errorf("config: validate: %w", err)
	}

	logger := logging.New(cfg.Log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, err := NewServer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := server.Close(); err != nil {
			logger.Error("close stores", "error", err)
		}
	}()

	return server.Run(ctx)
}

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
