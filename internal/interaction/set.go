package interaction

import (
	"github.com/chriserin/ftl/internal/linker"
)

// SourceUID is the UID the interaction set registers its steps under.
const SourceUID = "interactions"

// Set is a resolved interaction set.
type Set struct {
	root       *MethodTable
	components map[string]*ResolvedComponent
	order      []string
}

// Root returns the table every component derives from.
func (s *Set) Root() *MethodTable {
	return s.root
}

func (s *Set) Component(name string) (*ResolvedComponent, bool) {
	c, ok := s.components[name]
	return c, ok
}

// Components returns the resolved components sorted by name.
func (s *Set) Components() []*ResolvedComponent {
	comps := make([]*ResolvedComponent, 0, len(s.order))
	for _, name := range s.order {
		comps = append(comps, s.components[name])
	}
	return comps
}

// Steps returns every component step, in component order.
func (s *Set) Steps() []*Step {
	var steps []*Step
	for _, c := range s.Components() {
		steps = append(steps, c.Steps...)
	}
	return steps
}

// StepDefinitionSource exposes the set's steps to the linker. Each
// definition's Implementation is the *Step it runs. A step inherited
// unchanged from a base component is offered once.
func (s *Set) StepDefinitionSource() linker.StepDefinitionSource {
	type key struct {
		origin      *Step
		declaration string
	}
	seen := make(map[key]bool)

	var defs []linker.StepDefinition
	for _, step := range s.Steps() {
		k := key{step.origin, step.Declaration}
		if seen[k] {
			continue
		}
		seen[k] = true
		defs = append(defs, linker.StepDefinition{
			Type:           step.Type,
			Declaration:    step.Declaration,
			Source:         step.Source,
			Line:           step.Span.StartLine,
			Column:         step.Span.StartColumn,
			Description:    "component " + step.Component,
			Implementation: step,
		})
	}
	return linker.NewStaticSource(SourceUID, SourceUID, defs...)
}
