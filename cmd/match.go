package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/ui"
)

var matchCmd = &cobra.Command{
	Use:   "match <step text>",
	Short: "Show the definitions that match or could complete a step",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunMatch(cmd.OutOrStdout(), settings, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

// RunMatch completes text, which starts with Given, When or Then.
func RunMatch(w io.Writer, cfg *config.Config, text string) error {
	p, err := loadProject(cfg)
	if err != nil {
		return err
	}

	matches := p.Complete(text)
	if len(matches) == 0 {
		fmt.Fprintln(w, "no matching definitions")
		return nil
	}
	for _, m := range matches {
		ui.MatchLine(w, m.Definition.String(), m.Exact, m.MatchedTokens)
	}
	return nil
}
