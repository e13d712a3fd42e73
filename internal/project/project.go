// Package project owns the shared step definition registry for a set of
// feature and interaction files.
package project

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/interaction"
	"github.com/chriserin/ftl/internal/linker"
	"github.com/chriserin/ftl/internal/loader"
	"github.com/chriserin/ftl/internal/logger"
	"github.com/chriserin/ftl/internal/matching"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/chriserin/ftl/internal/parser"
)

type featureFile struct {
	// mu serialises links of this file; they write its reference slots.
	mu    sync.Mutex
	built *elements.BuiltFile
	msgs  []messages.CompilerMessage
}

func (f *featureFile) link(l *linker.Linker) (*linker.LinkResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return l.Link(f.built)
}

// Project is safe for concurrent use. Adding or removing sources takes the
// write lock; linking and completion take the read lock.
type Project struct {
	mu sync.RWMutex

	linker   *linker.Linker
	features map[string]*featureFile

	interactionPaths []string
	interactionMsgs  []messages.CompilerMessage
	set              *interaction.Set
}

func New() *Project {
	return &Project{
		linker:   linker.New(),
		features: make(map[string]*featureFile),
	}
}

// AddFeature parses content and registers its in-file step definitions,
// replacing any earlier version of path. The returned messages cover
// parsing and definition compilation.
func (p *Project) AddFeature(path string, content []byte) ([]messages.CompilerMessage, error) {
	built, msgs := parser.BuildFile(path, content)

	p.mu.Lock()
	defer p.mu.Unlock()

	compileMsgs, err := p.linker.AddStepDefinitionSource(linker.NewFileSource(built))
	if err != nil {
		return nil, fmt.Errorf("registering %s: %w", path, err)
	}
	msgs = append(msgs, compileMsgs...)
	msgs = dedupe(msgs)

	p.features[path] = &featureFile{built: built, msgs: msgs}
	return msgs, nil
}

// LoadFeatures reads every feature file under paths.
func (p *Project) LoadFeatures(paths ...string) ([]messages.CompilerMessage, error) {
	names, err := loader.FindFeatureFiles(paths...)
	if err != nil {
		return nil, err
	}

	var all []messages.CompilerMessage
	for _, name := range names {
		content, err := os.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		msgs, err := p.AddFeature(name, content)
		if err != nil {
			return nil, err
		}
		all = append(all, msgs...)
	}
	return all, nil
}

// RemoveFeature forgets path and its definitions.
func (p *Project) RemoveFeature(path string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.features[path]; !ok {
		return false
	}
	delete(p.features, path)
	p.linker.RemoveStepDefinitionSource(path)
	return true
}

// LoadInteractions rebuilds the interaction set from every file under paths
// and registers its steps, replacing the previous set.
func (p *Project) LoadInteractions(paths ...string) ([]messages.CompilerMessage, error) {
	files, msgs, err := loader.LoadInteractions(paths...)
	if err != nil {
		return nil, err
	}

	b := interaction.NewBuilder(nil)
	for _, f := range files {
		if err := b.AddFile(f); err != nil {
			return nil, err
		}
	}
	result := b.Build()
	msgs = append(msgs, result.Messages...)

	p.mu.Lock()
	defer p.mu.Unlock()

	compileMsgs, err := p.linker.AddStepDefinitionSource(result.Set.StepDefinitionSource())
	if err != nil {
		return nil, fmt.Errorf("registering interactions: %w", err)
	}
	msgs = append(msgs, compileMsgs...)

	p.interactionPaths = append([]string(nil), paths...)
	p.interactionMsgs = msgs
	p.set = result.Set
	logger.Debug("Loaded interactions", "files", len(files), "components", len(result.Set.Components()))
	return msgs, nil
}

// reloadInteractions rebuilds from the paths of the last LoadInteractions.
func (p *Project) reloadInteractions() ([]messages.CompilerMessage, error) {
	p.mu.RLock()
	paths := p.interactionPaths
	p.mu.RUnlock()
	return p.LoadInteractions(paths...)
}

// Interactions returns the current interaction set, or nil before
// LoadInteractions.
func (p *Project) Interactions() *interaction.Set {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.set
}

// Files returns the loaded feature file paths, sorted.
func (p *Project) Files() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.files()
}

func (p *Project) files() []string {
	paths := make([]string, 0, len(p.features))
	for path := range p.features {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// File returns the built form of a loaded feature file.
func (p *Project) File(path string) (*elements.BuiltFile, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	f, ok := p.features[path]
	if !ok {
		return nil, false
	}
	return f.built, true
}

// Definitions returns every registered step definition.
func (p *Project) Definitions() []*elements.StepDefinitionElement {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.linker.Definitions()
}

// Link links a single loaded feature file.
func (p *Project) Link(path string) (*linker.LinkResult, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	f, ok := p.features[path]
	if !ok {
		return nil, fmt.Errorf("feature file %s is not loaded", path)
	}
	return f.link(p.linker)
}

// Report is the outcome of linking every loaded file.
type Report struct {
	Results []*linker.LinkResult

	// Messages holds every parse, compile, interaction and link diagnostic,
	// sorted by source and position.
	Messages []messages.CompilerMessage

	Files   int
	Bound   int
	Unbound int
	Success bool
}

// LinkAll links every loaded file in path order. ctx is checked between
// files.
func (p *Project) LinkAll(ctx context.Context) (*Report, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	report := &Report{}
	report.Messages = append(report.Messages, p.interactionMsgs...)

	for _, path := range p.files() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f := p.features[path]
		result, err := f.link(p.linker)
		if err != nil {
			return nil, err
		}
		report.Results = append(report.Results, result)
		report.Messages = append(report.Messages, f.msgs...)
		report.Messages = append(report.Messages, result.Messages...)
		report.Files++
		report.Bound += result.Bound
		report.Unbound += result.Unbound
	}

	sort.SliceStable(report.Messages, func(i, j int) bool {
		return messages.Before(report.Messages[i], report.Messages[j])
	})
	report.Success = !messages.HasErrors(report.Messages)
	return report, nil
}

// Complete returns the definitions that could complete a partially typed
// step such as "Given I log". Exact matches come first.
func (p *Project) Complete(text string) []matching.Match {
	stepType, rest, ok := parser.SplitKeyword(text)
	if !ok || stepType.IsConjunction() {
		return nil
	}
	ref := &elements.StepReferenceElement{
		Type:        stepType,
		BindingType: stepType,
		Text:        rest,
		Tokens:      parser.Tokenize(rest, parser.ReferenceMode),
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	exact, partial := p.linker.Match(ref, false)
	return append(exact, partial...)
}

func dedupe(msgs []messages.CompilerMessage) []messages.CompilerMessage {
	seen := make(map[messages.CompilerMessage]bool, len(msgs))
	out := msgs[:0]
	for _, m := range msgs {
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}
