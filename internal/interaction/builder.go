package interaction

import (
	"errors"
	"sort"
	"strings"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/logger"
	"github.com/chriserin/ftl/internal/messages"
)

// ComponentPlaceholder in a trait step declaration is replaced with the name
// of each component the trait is applied to.
const ComponentPlaceholder = "$component$"

var ErrNilFile = errors.New("interaction file is nil")

// Builder collects interaction files and resolves them into a Set.
type Builder struct {
	root   *MethodTable
	traits []*Trait

	declarations map[string][]*Component
	order        []string
}

// NewBuilder returns a builder whose components all derive from root.
// Pass nil for an empty root. The builder writes natives into its own layer
// and never into root.
func NewBuilder(root *MethodTable) *Builder {
	if root == nil {
		root = NewMethodTable()
	}
	return &Builder{
		root:         root.Derive(),
		declarations: make(map[string][]*Component),
	}
}

// AddFile queues a file. Copies of its natives are defined in the root table
// immediately.
func (b *Builder) AddFile(f *File) error {
	if f == nil {
		return ErrNilFile
	}
	for _, n := range f.Natives {
		native := *n
		native.Native = true
		b.root.Set(&native)
	}
	for _, c := range f.Components {
		if _, ok := b.declarations[c.Name]; !ok {
			b.order = append(b.order, c.Name)
		}
		b.declarations[c.Name] = append(b.declarations[c.Name], c)
	}
	b.traits = append(b.traits, f.Traits...)
	return nil
}

// ResolvedComponent is a component after inheritance and traits.
type ResolvedComponent struct {
	Name     string
	Inherits string
	Traits   []string
	Methods  *MethodTable
	Steps    []*Step
	Source   string
	Span     elements.Span
}

// BuildResult holds the resolved set and every diagnostic found while
// building it. Components with errors are still present in the set.
type BuildResult struct {
	Success  bool
	Messages []messages.CompilerMessage
	Set      *Set
}

// Build resolves every component. It may be called again after more files
// are added.
func (b *Builder) Build() *BuildResult {
	d := &diagnostics{seen: make(map[messages.CompilerMessage]bool)}
	traits := b.uniqueTraits(d)

	r := &resolver{
		declarations: b.declarations,
		state:        make(map[string]visitState),
		resolved:     make(map[string]*componentState),
		diag:         d,
	}

	set := &Set{root: b.root, components: make(map[string]*ResolvedComponent)}
	for _, name := range b.order {
		state := r.resolve(name)
		comp := b.apply(state, traits)
		validateComponent(comp, d)
		set.components[name] = comp
		set.order = append(set.order, name)
		logger.Debug("Resolved component", "component", name, "methods", comp.Methods.Len(), "steps", len(comp.Steps))
	}
	sort.Strings(set.order)

	sort.SliceStable(d.msgs, func(i, j int) bool { return messages.Before(d.msgs[i], d.msgs[j]) })
	return &BuildResult{
		Success:  !messages.HasErrors(d.msgs),
		Messages: d.msgs,
		Set:      set,
	}
}

func (b *Builder) uniqueTraits(d *diagnostics) []*Trait {
	seen := make(map[string]bool)
	var traits []*Trait
	for _, t := range b.traits {
		key := strings.Join(t.Names, "+")
		if seen[key] {
			d.add(t.Source, t.Span, messages.InteractionDuplicateTrait, t.Name())
			continue
		}
		seen[key] = true
		traits = append(traits, t)
	}
	return traits
}

// apply layers the applicable traits, simplest first, and then the
// component's own methods on tables derived from the root.
func (b *Builder) apply(state *componentState, traits []*Trait) *ResolvedComponent {
	var applicable []*Trait
	for _, t := range traits {
		if t.AppliesTo(state.traits) {
			applicable = append(applicable, t)
		}
	}
	sort.SliceStable(applicable, func(i, j int) bool {
		return len(applicable[i].Names) < len(applicable[j].Names)
	})

	comp := &ResolvedComponent{
		Name:     state.name,
		Inherits: state.inherits,
		Traits:   state.traits,
		Source:   state.source,
		Span:     state.span,
	}

	table := b.root
	for _, t := range applicable {
		if len(t.Methods) > 0 {
			table = table.Derive()
			for _, m := range t.Methods {
				// A placeholder never hides an implementation from a simpler trait.
				if existing, ok := table.Get(m.Name); ok && m.NeedsDefining && !existing.NeedsDefining {
					continue
				}
				table.Set(m)
			}
		}
	}
	table = table.Derive()
	for _, name := range state.methodOrder {
		table.Set(state.methods[name])
	}
	comp.Methods = table

	for _, s := range state.steps {
		comp.Steps = append(comp.Steps, tagStep(s, state.name, ""))
	}
	for _, t := range applicable {
		for _, s := range t.Steps {
			comp.Steps = append(comp.Steps, tagStep(s, state.name, t.Name()))
		}
	}
	return comp
}

func tagStep(s *Step, component, trait string) *Step {
	tagged := *s
	if tagged.origin == nil {
		tagged.origin = s
	}
	tagged.Component = component
	tagged.Trait = trait
	tagged.Declaration = strings.ReplaceAll(s.Declaration, ComponentPlaceholder, component)
	return &tagged
}

type diagnostics struct {
	msgs []messages.CompilerMessage
	seen map[messages.CompilerMessage]bool
}

func (d *diagnostics) add(source string, s elements.Span, code messages.Code, args ...any) {
	msg := messages.New(source, code, s.StartLine, s.StartColumn, s.EndLine, s.EndColumn, args...)
	if d.seen[msg] {
		return
	}
	d.seen[msg] = true
	d.msgs = append(d.msgs, msg)
}
