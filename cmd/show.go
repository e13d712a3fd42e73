package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/db"
	"github.com/chriserin/ftl/internal/ui"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a recorded step reference and the other uses of its definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunShow(cmd.OutOrStdout(), settings, args[0])
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func RunShow(w io.Writer, cfg *config.Config, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		return err
	}

	sqlDB, err := openIndex(cfg)
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	b, err := db.BindingByID(sqlDB, id)
	if err != nil {
		return err
	}

	ui.ShowHeader(w, b.ID, location(b.File, b.Line))
	ui.ShowField(w, "Step", b.Step)
	ui.ShowStatus(w, b.Status)
	if b.Message != "" {
		ui.ShowField(w, "Message", b.Message)
	}
	if b.DefinitionID == "" {
		return nil
	}

	ui.ShowField(w, "Definition", b.Definition)
	ui.ShowField(w, "Source", b.DefinitionSource)

	usages, err := db.Usages(sqlDB, b.RunID, b.DefinitionID)
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Usages (%d):\n", len(usages))

	idWidth, locWidth, stepWidth := 0, 0, 0
	for _, u := range usages {
		idWidth = max(idWidth, len(fmt.Sprintf("@ftl:%d", u.ID)))
		locWidth = max(locWidth, len(location(u.File, u.Line)))
		stepWidth = max(stepWidth, len(u.Step))
	}
	for _, u := range usages {
		ui.ListRow(w, u.ID, location(u.File, u.Line), u.Step, u.Status, idWidth, locWidth, stepWidth)
	}
	return nil
}
