package cmd

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/chriserin/ftl/internal/config"
	"github.com/chriserin/ftl/internal/db"
	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/chriserin/ftl/internal/project"
	"github.com/chriserin/ftl/internal/suggest"
	"github.com/chriserin/ftl/internal/ui"
)

const maxHints = 3

// openIndex opens the link index created by `ftl init`.
func openIndex(cfg *config.Config) (*sql.DB, error) {
	if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
		return nil, fmt.Errorf("run `ftl init` first")
	}
	sqlDB, err := db.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	return sqlDB, nil
}

// loadProject reads the configured interaction and feature files. Their
// diagnostics are reported by LinkAll.
func loadProject(cfg *config.Config, features ...string) (*project.Project, error) {
	if len(features) == 0 {
		features = cfg.Features
	}
	p := project.New()
	if _, err := p.LoadInteractions(cfg.Interactions...); err != nil {
		return nil, fmt.Errorf("loading interactions: %w", err)
	}
	if _, err := p.LoadFeatures(features...); err != nil {
		return nil, fmt.Errorf("loading features: %w", err)
	}
	return p, nil
}

// hintsFor suggests definitions for every reference that matched nothing.
func hintsFor(report *project.Report, defs []*elements.StepDefinitionElement) map[string][]string {
	hints := make(map[string][]string)
	for _, result := range report.Results {
		for _, ref := range result.Output.StepReferences() {
			m := ref.Message()
			if ref.State() != elements.Unbound || m == nil || m.Code != messages.LinkerNoMatchingStepDefinition {
				continue
			}
			key := ui.HintKey(m.Source, m.StartLine, m.StartColumn)
			for _, s := range suggest.Nearest(ref, defs, maxHints) {
				hints[key] = append(hints[key], s.Definition.String())
			}
		}
	}
	return hints
}

func printReport(w io.Writer, report *project.Report, hints map[string][]string) {
	for _, result := range report.Results {
		ui.FileLine(w, displayPath(result.Output.Path), result.Bound, result.Unbound)
	}

	if len(report.Messages) > 0 {
		fmt.Fprintln(w)
	}
	for _, m := range report.Messages {
		key := ui.HintKey(m.Source, m.StartLine, m.StartColumn)
		m.Source = displayPath(m.Source)
		ui.MessageLine(w, m)
		for _, hint := range hints[key] {
			ui.HintLine(w, hint)
		}
	}

	fmt.Fprintln(w)
	ui.SummaryLine(w, report.Files, report.Bound, report.Unbound)
}

// parseID accepts "12" or "@ftl:12".
func parseID(raw string) (int64, error) {
	raw = strings.TrimPrefix(raw, "@ftl:")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid binding ID: %s", raw)
	}
	return id, nil
}

func location(path string, line int) string {
	return fmt.Sprintf("%s:%d", displayPath(path), line)
}

func baseLocation(path string, line int) string {
	return fmt.Sprintf("%s:%d", filepath.Base(path), line)
}
