package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/db"
	"github.com/chriserin/ftl/internal/logger"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Link every feature file and record the result in the index",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSync(cmd.Context(), cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func RunSync(ctx context.Context, w io.Writer, cfg *config.Config) error {
	sqlDB, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	p, err := loadProject(cfg)
	if err != nil {
		return err
	}

	report, err := p.LinkAll(ctx)
	if err != nil {
		return fmt.Errorf("linking: %w", err)
	}
	printReport(w, report, hintsFor(report, p.Definitions()))

	runID, err := db.RecordRun(sqlDB, report)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	logger.Debug("Recorded run", "run", runID, "files", report.Files)
	return nil
}
