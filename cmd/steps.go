package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/ui"
)

var stepsCmd = &cobra.Command{
	Use:   "steps",
	Short: "List every step definition",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunSteps(cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(stepsCmd)
}

func RunSteps(w io.Writer, cfg *config.Config) error {
	p, err := loadProject(cfg)
	if err != nil {
		return err
	}

	defs := p.Definitions()
	if len(defs) == 0 {
		fmt.Fprintln(w, "no step definitions")
		return nil
	}
	sort.SliceStable(defs, func(i, j int) bool {
		if defs[i].Type != defs[j].Type {
			return defs[i].Type < defs[j].Type
		}
		return defs[i].Declaration < defs[j].Declaration
	})

	for _, def := range defs {
		ui.DefinitionLine(w, def.String(), location(def.Source, def.Span.StartLine), def.Description)
	}
	return nil
}
