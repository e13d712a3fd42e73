package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/interaction"
	"github.com/chriserin/ftl/internal/project"
	"github.com/chriserin/ftl/internal/ui"
)

var interactionsCmd = &cobra.Command{
	Use:   "interactions",
	Short: "List the resolved interaction components",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return RunInteractions(cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(interactionsCmd)
}

func RunInteractions(w io.Writer, cfg *config.Config) error {
	p := project.New()
	msgs, err := p.LoadInteractions(cfg.Interactions...)
	if err != nil {
		return fmt.Errorf("loading interactions: %w", err)
	}

	comps := p.Interactions().Components()
	if len(comps) == 0 {
		fmt.Fprintln(w, "no components")
	}
	for i, c := range comps {
		if i > 0 {
			fmt.Fprintln(w)
		}
		printComponent(w, c)
	}

	if len(msgs) > 0 {
		fmt.Fprintln(w)
	}
	for _, m := range msgs {
		m.Source = displayPath(m.Source)
		ui.MessageLine(w, m)
	}
	return nil
}

func printComponent(w io.Writer, c *interaction.ResolvedComponent) {
	ui.ComponentHeader(w, c.Name, c.Inherits, c.Traits)
	for _, name := range c.Methods.Names() {
		m := c.Methods.MustGet(name)
		if m.Native {
			continue
		}
		origin := ""
		if m.DefinedBy != c.Name {
			origin = m.DefinedBy
		}
		kind := "method"
		if m.NeedsDefining {
			kind = "needs"
		}
		ui.ComponentItem(w, kind, signature(m), origin)
	}
	for _, s := range c.Steps {
		ui.ComponentItem(w, "step", s.Type.String()+" "+s.Declaration, s.Trait)
	}
}

// signature renders "name(a, b[]) -> out".
func signature(m *interaction.Method) string {
	names := func(vars []interaction.Variable) string {
		parts := make([]string, len(vars))
		for i, v := range vars {
			parts[i] = v.String()
		}
		return strings.Join(parts, ", ")
	}
	sig := m.Name + "(" + names(m.Parameters) + ")"
	if len(m.Outputs) > 0 {
		sig += " -> " + names(m.Outputs)
	}
	return sig
}
