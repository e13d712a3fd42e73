package ui

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/project"
)

// YAMLReport is the machine-readable form of a link report.
type YAMLReport struct {
	Success  bool          `yaml:"success"`
	Files    int           `yaml:"files"`
	Bound    int           `yaml:"bound"`
	Unbound  int           `yaml:"unbound"`
	Results  []YAMLFile    `yaml:"results,omitempty"`
	Messages []YAMLMessage `yaml:"messages,omitempty"`
}

type YAMLFile struct {
	Path  string     `yaml:"path"`
	Steps []YAMLStep `yaml:"steps,omitempty"`
}

type YAMLStep struct {
	Line       int               `yaml:"line"`
	Step       string            `yaml:"step"`
	Status     string            `yaml:"status"`
	Definition string            `yaml:"definition,omitempty"`
	Source     string            `yaml:"source,omitempty"`
	Arguments  map[string]string `yaml:"arguments,omitempty"`
}

type YAMLMessage struct {
	Source   string   `yaml:"source"`
	Line     int      `yaml:"line"`
	Column   int      `yaml:"column"`
	Severity string   `yaml:"severity"`
	Code     string   `yaml:"code"`
	Text     string   `yaml:"text"`
	Hints    []string `yaml:"hints,omitempty"`
}

// NewYAMLReport converts a link report. hints maps a message's position key
// (see HintKey) to its suggestions.
func NewYAMLReport(report *project.Report, hints map[string][]string) *YAMLReport {
	out := &YAMLReport{
		Success: report.Success,
		Files:   report.Files,
		Bound:   report.Bound,
		Unbound: report.Unbound,
	}

	for _, result := range report.Results {
		f := YAMLFile{Path: result.Output.Path}
		for _, ref := range result.Output.StepReferences() {
			f.Steps = append(f.Steps, yamlStep(ref))
		}
		out.Results = append(out.Results, f)
	}

	for _, m := range report.Messages {
		out.Messages = append(out.Messages, YAMLMessage{
			Source:   m.Source,
			Line:     m.StartLine,
			Column:   m.StartColumn,
			Severity: m.Severity.String(),
			Code:     m.Code.ID(),
			Text:     m.Text,
			Hints:    hints[HintKey(m.Source, m.StartLine, m.StartColumn)],
		})
	}
	return out
}

func yamlStep(ref *elements.StepReferenceElement) YAMLStep {
	s := YAMLStep{Line: ref.Span.StartLine, Step: ref.String(), Status: ref.State().String()}
	b := ref.Binding()
	if b == nil {
		return s
	}
	s.Definition = b.Definition.String()
	s.Source = b.Definition.Source
	for _, arg := range b.Arguments {
		if s.Arguments == nil {
			s.Arguments = make(map[string]string)
		}
		s.Arguments[arg.Argument.Name] = arg.Text(ref, nil)
	}
	return s
}

// HintKey identifies the message a hint belongs to.
func HintKey(source string, line, column int) string {
	return fmt.Sprintf("%s:%d:%d", source, line, column)
}

// WriteYAML writes the report as a YAML document.
func WriteYAML(w io.Writer, report *YAMLReport) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	return enc.Close()
}
