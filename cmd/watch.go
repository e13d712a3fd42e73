package cmd

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/project"
	"github.com/chriserin/ftl/internal/ui"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Relink feature files as they change",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()
		return RunWatch(ctx, cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

// RunWatch links once, then relinks on every change until ctx is done.
func RunWatch(ctx context.Context, w io.Writer, cfg *config.Config) error {
	p, err := loadProject(cfg)
	if err != nil {
		return err
	}
	report, err := p.LinkAll(ctx)
	if err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	printReport(w, report, hintsFor(report, p.Definitions()))

	paths := append(append([]string(nil), cfg.Features...), cfg.Interactions...)
	return p.Watch(ctx, func(c project.Change) {
		fmt.Fprintln(w)
		if c.Removed {
			ui.RemovedLine(w, displayPath(c.Path))
		}
		printReport(w, c.Report, hintsFor(c.Report, p.Definitions()))
	}, paths...)
}
