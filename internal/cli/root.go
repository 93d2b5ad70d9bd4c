package cli

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Starpact/tlc/internal/config"
	"github.com/Starpact/tlc/internal/enginestub"
	"github.com/Starpact/tlc/internal/tui"
)

const version = "0.1.0"

func NewRoot(logger *slog.Logger) *cobra.Command {
	root := &cobra.Command{
		Use:   "tlc",
		Short: "TLC is the operator console for transient liquid crystal experiments",
	}

	root.AddCommand(newTUICommand(logger))
	root.AddCommand(newEngineCommand(logger))
	root.AddCommand(newVersionCommand())

	return root
}

func newTUICommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the experiment operator terminal UI",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return tui.Run(ctx, config.FromEnv(), logger)
		},
	}
}

func newEngineCommand(logger *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "engine",
		Short: "Run a local computation engine stub with synthetic data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromEnv()
			service, err := enginestub.NewService(cfg, logger)
			if err != nil {
				return err
			}
			defer service.Close()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return service.Run(ctx)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print CLI version",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(version)
		},
	}
}
