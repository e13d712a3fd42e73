package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/db"
	"github.com/chriserin/ftl/internal/ui"
)

var statusFlag string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the step references recorded by the last sync",
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunList(cmd.OutOrStdout(), settings, statusFlag)
	},
}

func init() {
	listCmd.Flags().StringVar(&statusFlag, "status", "", "Filter by status: bound, unbound or ambiguous")
	rootCmd.AddCommand(listCmd)
}

func RunList(w io.Writer, cfg *config.Config, statusFilter string) error {
	switch statusFilter {
	case "", db.StatusBound, db.StatusUnbound, db.StatusAmbiguous:
	default:
		return fmt.Errorf("unknown status %q", statusFilter)
	}

	sqlDB, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	run, err := db.LastRun(sqlDB)
	if err != nil {
		return err
	}
	results, err := db.Bindings(sqlDB, run.ID, statusFilter)
	if err != nil {
		return err
	}

	if len(results) == 0 {
		return nil
	}

	// Compute column widths
	idWidth, locWidth, stepWidth := 0, 0, 0
	for _, r := range results {
		idWidth = max(idWidth, len(fmt.Sprintf("@ftl:%d", r.ID)))
		locWidth = max(locWidth, len(baseLocation(r.File, r.Line)))
		stepWidth = max(stepWidth, len(r.Step))
	}

	for _, r := range results {
		ui.ListRow(w, r.ID, baseLocation(r.File, r.Line), r.Step, r.Status, idWidth, locWidth, stepWidth)
	}

	return nil
}
