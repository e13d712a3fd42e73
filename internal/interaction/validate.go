package interaction

import (
	"github.com/chriserin/ftl/internal/messages"
	"github.com/chriserin/ftl/internal/parser"
)

// scope is the set of variables visible at a point in a call chain.
type scope map[string]Variable

func (s scope) declare(vars ...Variable) {
	for _, v := range vars {
		s[v.Name] = v
	}
}

func validateComponent(comp *ResolvedComponent, d *diagnostics) {
	for _, name := range comp.Methods.Names() {
		m := comp.Methods.MustGet(name)
		switch {
		case m.Native:
		case m.NeedsDefining:
			d.add(comp.Source, comp.Span, messages.InteractionMethodFromTraitRequiredButNotDefined,
				comp.Name, m.Name, describeOwner(m))
		default:
			s := make(scope)
			s.declare(m.Parameters...)
			validateChain(comp.Methods, m.Calls, s, m.Name, m.Source, d)
		}
	}

	for _, step := range comp.Steps {
		s := make(scope)
		for _, name := range parser.ArgumentNames(step.Declaration) {
			s.declare(Variable{Name: name})
		}
		validateChain(comp.Methods, step.Calls, s, "", step.Source, d)
	}
}

func describeOwner(m *Method) string {
	if m.DefinedBy == "" {
		return "a trait"
	}
	return "trait '" + m.DefinedBy + "'"
}

// validateChain checks each call against table. self is the method owning
// the chain, or "" for a step. s grows with every callee's outputs.
func validateChain(table *MethodTable, calls []Call, s scope, self, source string, d *diagnostics) {
	for _, call := range calls {
		if self != "" && call.Name == self {
			d.add(source, call.Span, messages.InteractionMethodCircularReference, self)
			continue
		}

		for _, arg := range call.Arguments {
			switch arg.Kind {
			case ArgVariable:
				if _, ok := s[arg.Variable]; !ok {
					d.add(source, arg.Span, messages.InteractionVariableNotDeclared, arg.Variable)
				}
			case ArgArrayElement:
				v, ok := s[arg.Variable]
				switch {
				case !ok:
					d.add(source, arg.Span, messages.InteractionVariableNotDeclared, arg.Variable)
				case !v.Array:
					d.add(source, arg.Span, messages.InteractionVariableNotAnArray, arg.Variable)
				}
			}
		}

		m, ok := table.Get(call.Name)
		if !ok {
			d.add(source, call.Span, messages.InteractionMethodNotFound, call.Name)
			continue
		}
		if len(call.Arguments) != len(m.Parameters) {
			d.add(source, call.Span, messages.InteractionMethodArgumentCountMismatch,
				call.Name, len(m.Parameters), len(call.Arguments))
		}
		s.declare(m.Outputs...)
	}
}
