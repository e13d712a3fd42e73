package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/db"
	"github.com/chriserin/ftl/internal/ui"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the binding counts of the last sync",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunStatus(cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func RunStatus(w io.Writer, cfg *config.Config) error {
	sqlDB, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	run, err := db.LastRun(sqlDB)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Last sync: %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Files: %d\n", run.Files)
	fmt.Fprintf(w, "Steps: %d\n", run.Bound+run.Unbound)

	counts, err := db.StatusCounts(sqlDB, run.ID)
	if err != nil {
		return err
	}
	for _, c := range counts {
		if c.Count > 0 {
			ui.StatusLine(w, c.Status, c.Count)
		}
	}

	msgs, err := db.Messages(sqlDB, run.ID)
	if err != nil {
		return err
	}
	errs := 0
	for _, m := range msgs {
		if m.Severity == "error" {
			errs++
		}
	}
	if errs > 0 {
		fmt.Fprintf(w, "Errors: %d\n", errs)
	}
	return nil
}
