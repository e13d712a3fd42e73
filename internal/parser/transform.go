package parser

import (
	"sort"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
)

// BuildFile parses content and transforms it into a BuiltFile. Messages from
// both layers are returned in source order.
func BuildFile(filename string, content []byte) (*elements.BuiltFile, []messages.CompilerMessage) {
	doc, parseMsgs := Parse(filename, content)
	file, msgs := Transform(doc, filename)
	all := append(parseMsgs, msgs...)
	sort.SliceStable(all, func(i, j int) bool { return messages.Before(all[i], all[j]) })
	return file, all
}

// Transform converts a Layer 1 Document into a BuiltFile: steps are
// tokenized and in-file step definitions compiled.
func Transform(doc *Document, filename string) (*elements.BuiltFile, []messages.CompilerMessage) {
	t := &transformer{filename: filename}
	file := &elements.BuiltFile{Path: filename}

	if doc.Feature == nil {
		return file, nil
	}
	f := doc.Feature

	feature := &elements.FeatureElement{
		Name:        f.Header.Name,
		Description: f.Header.Description,
		Tags:        tagNames(f.Header.Tags),
		Span:        lineSpan(f.Header.Line, 1, len("Feature:")+len(f.Header.Name)),
	}
	file.Feature = feature

	if f.Background != nil {
		feature.Background = &elements.BackgroundElement{
			Span:  lineSpan(f.Background.Line, 1, len("Background:")),
			Steps: t.steps(f.Background.Steps, nil),
		}
	}

	for _, sd := range f.Scenarios {
		sc := &elements.ScenarioElement{
			Name:        sd.Scenario.Name,
			Description: sd.Scenario.Description,
			Tags:        tagNames(sd.Tags),
			Span:        lineSpan(sd.Line, sd.Column, len("Scenario:")+len(sd.Scenario.Name)),
		}
		if sd.Outline {
			sc.Kind = elements.ScenarioOutline
			for _, ex := range sd.Examples {
				sc.Examples = append(sc.Examples, &elements.ExamplesElement{
					Name:  ex.Name,
					Tags:  tagNames(ex.Tags),
					Span:  lineSpan(ex.Line, sd.Column, len("Examples:")+len(ex.Name)),
					Table: table(ex.Table),
				})
			}
			if len(sc.Examples) == 0 {
				t.add(messages.New(filename, messages.OutlineWithoutExamples,
					sc.Span.StartLine, sc.Span.StartColumn, sc.Span.EndLine, sc.Span.EndColumn, sc.Name))
			}
			sc.Steps = t.steps(sd.Scenario.Steps, sc.Variables())
		} else {
			sc.Steps = t.steps(sd.Scenario.Steps, nil)
		}
		feature.Scenarios = append(feature.Scenarios, sc)
	}

	for _, sd := range f.StepDefinitions {
		if def := t.definition(sd); def != nil {
			file.StepDefinitions = append(file.StepDefinitions, def)
		}
	}

	return file, t.msgs
}

type transformer struct {
	filename string
	msgs     []messages.CompilerMessage
}

func (t *transformer) add(msgs ...messages.CompilerMessage) {
	t.msgs = append(t.msgs, msgs...)
}

func (t *transformer) definition(sd StepDefinition) *elements.StepDefinitionElement {
	if sd.Keyword == "" {
		t.add(messages.New(t.filename, messages.StepDefinitionMissingText, sd.Line, sd.Column, sd.Line, sd.Column))
		return nil
	}
	stepType, ok := elements.ParseStepType(sd.Keyword)
	if !ok {
		t.add(messages.New(t.filename, messages.StepDefinitionUnknownKeyword,
			sd.Line, sd.Column, sd.Line, sd.Column+len(sd.Keyword), sd.Keyword+" "+sd.Text))
		return nil
	}

	def, msgs := CompileDefinition(t.filename, stepType, sd.Text, sd.Line, sd.TextColumn)
	t.add(msgs...)
	if def == nil {
		return nil
	}
	def.Description = sd.Description

	vars := make(map[string]bool)
	for _, a := range def.Arguments() {
		vars[a.Name] = true
	}
	def.Steps = t.steps(sd.Steps, vars)
	return def
}

// steps builds references for one block. vars holds the variable names the
// block may use; nil means no variables are in scope.
func (t *transformer) steps(steps []Step, vars map[string]bool) []*elements.StepReferenceElement {
	var refs []*elements.StepReferenceElement
	previous := elements.StepTypeUnknown

	for _, s := range steps {
		stepType, _ := elements.ParseStepType(s.Keyword)
		bindingType := stepType
		if stepType.IsConjunction() {
			if previous == elements.StepTypeUnknown {
				t.add(messages.New(t.filename, messages.AndMustFollowStep,
					s.Line, s.Column, s.Line, s.Column+len(s.Keyword), s.Keyword))
			}
			bindingType = previous
		} else {
			previous = stepType
		}

		ref := &elements.StepReferenceElement{
			Type:        stepType,
			BindingType: bindingType,
			Text:        s.Text,
			Tokens:      Tokenize(s.Text, ReferenceMode),
			Span:        lineSpan(s.Line, s.Column, s.TextColumn-s.Column+len(s.Text)),
			TextColumn:  s.TextColumn,
		}
		if s.Argument != nil {
			ref.Table = table(s.Argument.DataTable)
			if s.Argument.DocString != nil {
				content := s.Argument.DocString.Content
				ref.DocString = &content
			}
		}

		for i, tok := range ref.Tokens {
			if tok.Kind == elements.TokenVariable && !vars[tok.Name] {
				span := ref.TokenSpan(i, i+1)
				t.add(messages.New(t.filename, messages.StepVariableDoesNotExist,
					span.StartLine, span.StartColumn, span.EndLine, span.EndColumn, tok.Name))
			}
		}

		refs = append(refs, ref)
	}
	return refs
}

func table(dt *DataTable) *elements.TableElement {
	if dt == nil {
		return nil
	}
	tbl := &elements.TableElement{
		Span:   lineSpan(dt.Line, 1, 0),
		Header: elements.TableRow{Line: dt.Line, Cells: dt.HeaderRow},
	}
	for i, row := range dt.Rows {
		tbl.Rows = append(tbl.Rows, elements.TableRow{Line: dt.RowLines[i], Cells: row})
	}
	if n := len(dt.RowLines); n > 0 {
		tbl.Span.EndLine = dt.RowLines[n-1]
	}
	return tbl
}

func tagNames(tags []Tag) []string {
	var names []string
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	return names
}

func lineSpan(line, col, length int) elements.Span {
	return elements.Span{StartLine: line, StartColumn: col, EndLine: line, EndColumn: col + length}
}
