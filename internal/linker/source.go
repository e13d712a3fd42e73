package linker

import (
	"github.com/chriserin/ftl/internal/elements"
)

// StepDefinition is one declaration offered by a source. When Element is
// nil the linker compiles Declaration in definition mode.
type StepDefinition struct {
	Type        elements.StepType
	Declaration string

	// UID optionally overrides the compiled definition's identity.
	UID string

	// Source names the file the declaration came from when it differs from
	// the source's Name.
	Source string

	// Line and Column locate the first byte of Declaration for diagnostics.
	Line   int
	Column int

	Description    string
	Implementation any

	Element *elements.StepDefinitionElement
}

// StepDefinitionSource supplies step definitions to the linker. Sources are
// replaced as a whole when added again under the same UID.
type StepDefinitionSource interface {
	UID() string
	Name() string
	StepDefinitions() []StepDefinition
}

// FileSource offers the in-file step definitions of a built feature file.
type FileSource struct {
	file *elements.BuiltFile
}

func NewFileSource(file *elements.BuiltFile) *FileSource {
	return &FileSource{file: file}
}

func (s *FileSource) UID() string  { return s.file.Path }
func (s *FileSource) Name() string { return s.file.Path }

func (s *FileSource) StepDefinitions() []StepDefinition {
	defs := make([]StepDefinition, 0, len(s.file.StepDefinitions))
	for _, d := range s.file.StepDefinitions {
		defs = append(defs, StepDefinition{
			Type:        d.Type,
			Declaration: d.Declaration,
			Line:        d.Span.StartLine,
			Column:      d.Span.StartColumn,
			Element:     d,
		})
	}
	return defs
}

// StaticSource is a fixed list of declarations, e.g. from a step library.
type StaticSource struct {
	uid  string
	name string
	defs []StepDefinition
}

func NewStaticSource(uid, name string, defs ...StepDefinition) *StaticSource {
	return &StaticSource{uid: uid, name: name, defs: defs}
}

func (s *StaticSource) UID() string                       { return s.uid }
func (s *StaticSource) Name() string                      { return s.name }
func (s *StaticSource) StepDefinitions() []StepDefinition { return s.defs }
