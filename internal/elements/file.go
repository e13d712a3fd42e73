package elements

import "sort"

// BuiltFile is a parsed and compiled feature file.
type BuiltFile struct {
	Path            string
	Feature         *FeatureElement
	StepDefinitions []*StepDefinitionElement
}

type FeatureElement struct {
	Name        string
	Description string
	Tags        []string
	Span        Span
	Background  *BackgroundElement
	Scenarios   []*ScenarioElement
}

type BackgroundElement struct {
	Span  Span
	Steps []*StepReferenceElement
}

// ScenarioKind separates plain scenarios from outlines.
type ScenarioKind int

const (
	ScenarioPlain ScenarioKind = iota
	ScenarioOutline
)

type ScenarioElement struct {
	Kind        ScenarioKind
	Name        string
	Description string
	Tags        []string
	Span        Span
	Steps       []*StepReferenceElement
	Examples    []*ExamplesElement
}

// Variables returns the example column names available to an outline's steps.
func (s *ScenarioElement) Variables() map[string]bool {
	vars := make(map[string]bool)
	for _, ex := range s.Examples {
		if ex.Table == nil {
			continue
		}
		for _, h := range ex.Table.Header.Cells {
			vars[h] = true
		}
	}
	return vars
}

type ExamplesElement struct {
	Name  string
	Tags  []string
	Span  Span
	Table *TableElement
}

type TableElement struct {
	Span   Span
	Header TableRow
	Rows   []TableRow
}

type TableRow struct {
	Line  int
	Cells []string
}

// StepReferences returns every step reference in the file, including the
// bodies of in-file definitions, in declaration order.
func (f *BuiltFile) StepReferences() []*StepReferenceElement {
	var refs []*StepReferenceElement
	if f.Feature != nil {
		if f.Feature.Background != nil {
			refs = append(refs, f.Feature.Background.Steps...)
		}
		for _, sc := range f.Feature.Scenarios {
			refs = append(refs, sc.Steps...)
		}
	}
	for _, def := range f.StepDefinitions {
		refs = append(refs, def.Steps...)
	}
	sort.SliceStable(refs, func(i, j int) bool {
		if refs[i].Span.StartLine != refs[j].Span.StartLine {
			return refs[i].Span.StartLine < refs[j].Span.StartLine
		}
		return refs[i].Span.StartColumn < refs[j].Span.StartColumn
	})
	return refs
}
