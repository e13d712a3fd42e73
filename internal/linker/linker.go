// Package linker binds step references to the step definitions registered
// from one or more sources.
package linker

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/logger"
	"github.com/chriserin/ftl/internal/matching"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/chriserin/ftl/internal/parser"
)

var (
	ErrNilSource = errors.New("step definition source is nil")
	ErrNoUID     = errors.New("step definition source has no UID")
	ErrNilFile   = errors.New("built file is nil")
)

type registration struct {
	source      StepDefinitionSource
	definitions []*elements.StepDefinitionElement
}

// Linker owns the registered sources and the matching tree built from them.
// It does no locking: callers serialise AddStepDefinitionSource and
// RemoveStepDefinitionSource against everything else.
type Linker struct {
	sources map[string]*registration
	order   []string
	tree    *matching.Tree
}

func New() *Linker {
	return &Linker{
		sources: make(map[string]*registration),
		tree:    matching.NewTree(),
	}
}

// AddStepDefinitionSource registers src, replacing any source with the same
// UID. Declarations that fail to compile are reported and left out; the
// rest of the source is still registered.
func (l *Linker) AddStepDefinitionSource(src StepDefinitionSource) ([]messages.CompilerMessage, error) {
	if src == nil {
		return nil, ErrNilSource
	}
	uid := src.UID()
	if uid == "" {
		return nil, ErrNoUID
	}

	defs, msgs := compileSource(src)
	reg := &registration{source: src, definitions: defs}

	if _, replacing := l.sources[uid]; replacing {
		l.sources[uid] = reg
		l.rebuild()
		logger.SourceOperation("replace", uid, len(defs))
		return msgs, nil
	}

	l.sources[uid] = reg
	l.order = append(l.order, uid)
	for _, d := range defs {
		l.tree.AddDefinition(d)
	}
	logger.SourceOperation("add", uid, len(defs))
	return msgs, nil
}

// RemoveStepDefinitionSource unregisters a source. It reports whether the
// source was registered.
func (l *Linker) RemoveStepDefinitionSource(uid string) bool {
	if _, ok := l.sources[uid]; !ok {
		return false
	}
	delete(l.sources, uid)
	for i, u := range l.order {
		if u == uid {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}
	l.rebuild()
	logger.SourceOperation("remove", uid, 0)
	return true
}

// rebuild derives a fresh tree from every registered source, in
// registration order.
func (l *Linker) rebuild() {
	tree := matching.NewTree()
	for _, uid := range l.order {
		for _, d := range l.sources[uid].definitions {
			tree.AddDefinition(d)
		}
	}
	l.tree = tree
}

func compileSource(src StepDefinitionSource) ([]*elements.StepDefinitionElement, []messages.CompilerMessage) {
	var defs []*elements.StepDefinitionElement
	var msgs []messages.CompilerMessage

	for _, sd := range src.StepDefinitions() {
		def := sd.Element
		if def == nil {
			name := sd.Source
			if name == "" {
				name = src.Name()
			}
			compiled, compileMsgs := parser.CompileDefinition(name, sd.Type, sd.Declaration, sd.Line, sd.Column)
			msgs = append(msgs, compileMsgs...)
			if compiled == nil {
				continue
			}
			compiled.Description = sd.Description
			compiled.Implementation = sd.Implementation
			def = compiled
		}
		if sd.UID != "" {
			def.UID = sd.UID
		}
		defs = append(defs, def)
	}
	return defs, msgs
}

// Definitions returns every registered definition in registration order.
func (l *Linker) Definitions() []*elements.StepDefinitionElement {
	var defs []*elements.StepDefinitionElement
	for _, uid := range l.order {
		defs = append(defs, l.sources[uid].definitions...)
	}
	return defs
}

// Sources returns the registered source UIDs in registration order.
func (l *Linker) Sources() []string {
	return append([]string(nil), l.order...)
}

// Match queries the tree directly, e.g. for completion.
func (l *Linker) Match(ref *elements.StepReferenceElement, exactOnly bool) (exact, partial []matching.Match) {
	return l.tree.Match(ref, exactOnly)
}

// LinkResult is the outcome of linking one file. Output is the file itself;
// references that could be bound stay bound even when others failed.
type LinkResult struct {
	Success  bool
	Messages []messages.CompilerMessage
	Output   *elements.BuiltFile

	Bound   int
	Unbound int
}

// Link binds every step reference of file. Linking again with an unchanged
// set of sources gives the same result.
func (l *Linker) Link(file *elements.BuiltFile) (*LinkResult, error) {
	if file == nil {
		return nil, ErrNilFile
	}

	result := &LinkResult{Output: file}
	for _, ref := range file.StepReferences() {
		ref.Reset()
		exact, _ := l.tree.Match(ref, true)

		switch len(exact) {
		case 0:
			msg := referenceMessage(file.Path, ref, messages.LinkerNoMatchingStepDefinition)
			ref.Unbind(msg)
			result.Messages = append(result.Messages, msg)
			result.Unbound++
		case 1:
			ref.Bind(&elements.StepReferenceBinding{
				Definition: exact[0].Definition,
				Arguments:  exact[0].Arguments,
			})
			result.Bound++
		default:
			msg := referenceMessage(file.Path, ref, messages.LinkerMultipleMatchingDefinitions, candidates(exact))
			ref.Unbind(msg)
			result.Messages = append(result.Messages, msg)
			result.Unbound++
		}
	}

	result.Success = !messages.HasErrors(result.Messages)
	logger.LinkSummary(file.Path, result.Bound, result.Unbound)
	return result, nil
}

func referenceMessage(source string, ref *elements.StepReferenceElement, code messages.Code, args ...any) messages.CompilerMessage {
	s := ref.Span
	return messages.New(source, code, s.StartLine, s.StartColumn, s.EndLine, s.EndColumn, args...)
}

func candidates(ms []matching.Match) string {
	parts := make([]string, 0, len(ms))
	for _, m := range ms {
		d := m.Definition
		parts = append(parts, fmt.Sprintf("'%s' (%s:%d)", d, d.Source, d.Span.StartLine))
	}
	return strings.Join(parts, ", ")
}
