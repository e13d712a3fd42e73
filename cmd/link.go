package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/ui"
)

// ErrLinkFailed is returned by link when any error diagnostic was reported.
var ErrLinkFailed = errors.New("link failed")

var formatFlag string

var linkCmd = &cobra.Command{
	Use:   "link [paths...]",
	Short: "Link feature files without recording the result",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunLink(cmd.Context(), cmd.OutOrStdout(), settings, formatFlag, args...)
	},
}

func init() {
	linkCmd.Flags().StringVar(&formatFlag, "format", "text", "Output format: text or yaml")
	rootCmd.AddCommand(linkCmd)
}

// RunLink links the feature files under paths, or the configured feature
// directories when none are given.
func RunLink(ctx context.Context, w io.Writer, cfg *config.Config, format string, paths ...string) error {
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown format %q", format)
	}

	p, err := loadProject(cfg, paths...)
	if err != nil {
		return err
	}
	report, err := p.LinkAll(ctx)
	if err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	hints := hintsFor(report, p.Definitions())

	if format == "yaml" {
		if err := ui.WriteYAML(w, ui.NewYAMLReport(report, hints)); err != nil {
			return err
		}
	} else {
		printReport(w, report, hints)
	}

	if !report.Success {
		return ErrLinkFailed
	}
	return nil
}
