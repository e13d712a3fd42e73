package interaction

import (
	"strings"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
)

type visitState int

const (
	unvisited visitState = iota
	resolving
	visited
)

// componentState accumulates a component's declarations before traits are
// applied.
type componentState struct {
	name        string
	inherits    string
	traits      []string
	methods     map[string]*Method
	methodOrder []string
	steps       []*Step
	source      string
	span        elements.Span
}

func newComponentState(decl *Component) *componentState {
	return &componentState{
		name:    decl.Name,
		methods: make(map[string]*Method),
		source:  decl.Source,
		span:    decl.Span,
	}
}

// merge layers decl on top: methods by name with the last write winning,
// steps appended, traits replaced when decl lists any.
func (c *componentState) merge(decl *Component) {
	for _, m := range decl.Methods {
		if _, ok := c.methods[m.Name]; !ok {
			c.methodOrder = append(c.methodOrder, m.Name)
		}
		c.methods[m.Name] = m
	}
	c.steps = append(c.steps, decl.Steps...)
	if len(decl.Traits) > 0 {
		c.traits = append([]string(nil), decl.Traits...)
	}
}

// derive copies c for a component named name; later merges never touch c.
func (c *componentState) derive(name string) *componentState {
	d := &componentState{
		name:        name,
		inherits:    c.name,
		traits:      append([]string(nil), c.traits...),
		methods:     make(map[string]*Method, len(c.methods)),
		methodOrder: append([]string(nil), c.methodOrder...),
		steps:       append([]*Step(nil), c.steps...),
	}
	for k, v := range c.methods {
		d.methods[k] = v
	}
	return d
}

type resolver struct {
	declarations map[string][]*Component
	state        map[string]visitState
	resolved     map[string]*componentState
	stack        []string
	diag         *diagnostics
}

// resolve returns the merged state of the named component, resolving its
// bases first. Results are memoised.
func (r *resolver) resolve(name string) *componentState {
	if r.state[name] == visited {
		return r.resolved[name]
	}
	r.state[name] = resolving
	r.stack = append(r.stack, name)

	var acc *componentState
	// merged holds the declarations folded into acc since the last
	// replacing declaration.
	var merged []*Component
	for _, decl := range r.declarations[name] {
		switch decl.Inherits {
		case "":
			acc, merged = newComponentState(decl), nil
		case name:
			if acc == nil {
				acc = newComponentState(decl)
			}
		default:
			base := r.base(decl)
			switch {
			case base != nil:
				acc = base.derive(name)
				for _, m := range merged {
					acc.merge(m)
				}
			case acc == nil:
				acc = newComponentState(decl)
			}
		}
		acc.source, acc.span = decl.Source, decl.Span
		if acc.inherits == "" && decl.Inherits != name {
			acc.inherits = decl.Inherits
		}
		acc.merge(decl)
		merged = append(merged, decl)
	}

	r.stack = r.stack[:len(r.stack)-1]
	r.state[name] = visited
	r.resolved[name] = acc
	return acc
}

// base resolves the component decl inherits from, reporting unknown
// components and loops. It returns nil when there is no usable base.
func (r *resolver) base(decl *Component) *componentState {
	target := decl.Inherits
	if _, ok := r.declarations[target]; !ok {
		r.diag.add(decl.Source, decl.Span, messages.InteractionComponentInheritsUnknown, decl.Name, target)
		return nil
	}
	if r.state[target] == resolving {
		r.diag.add(decl.Source, decl.Span, messages.InteractionComponentInheritanceLoop, r.cycle(target))
		return nil
	}
	return r.resolve(target)
}

// cycle renders the loop closing at target, e.g. "a -> b -> a".
func (r *resolver) cycle(target string) string {
	start := 0
	for i, n := range r.stack {
		if n == target {
			start = i
			break
		}
	}
	chain := append(append([]string(nil), r.stack[start:]...), target)
	return strings.Join(chain, " -> ")
}
