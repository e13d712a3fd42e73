// Package interaction resolves components, traits and methods into an
// interaction set and validates the call chains of its methods and steps.
package interaction

import (
	"sort"
	"strings"

	"github.com/chriserin/ftl/internal/elements"
)

// ArgumentKind identifies the variant of a call argument.
type ArgumentKind int

const (
	ArgString ArgumentKind = iota
	ArgInt
	ArgFloat
	ArgVariable
	// ArgArrayElement is var[index].
	ArgArrayElement
	// ArgInvalid holds the place of an argument the loader rejected, so the
	// call keeps its arity.
	ArgInvalid
)

// CallArgument is one argument of a method call.
type CallArgument struct {
	Kind  ArgumentKind
	Text  string
	Int   int64
	Float float64

	// Variable and Index are set for ArgVariable and ArgArrayElement.
	Variable string
	Index    int

	Span elements.Span
}

// Call is one link of a call chain.
type Call struct {
	Name      string
	Arguments []CallArgument
	Span      elements.Span
}

// Variable is a method parameter or output. Array variables may be indexed.
type Variable struct {
	Name  string
	Array bool
}

// ParseVariable reads "name" or "name[]".
func ParseVariable(s string) Variable {
	s = strings.TrimSpace(s)
	if name, ok := strings.CutSuffix(s, "[]"); ok {
		return Variable{Name: name, Array: true}
	}
	return Variable{Name: s}
}

func (v Variable) String() string {
	if v.Array {
		return v.Name + "[]"
	}
	return v.Name
}

type Method struct {
	Name       string
	Parameters []Variable
	Calls      []Call
	Outputs    []Variable

	// NeedsDefining marks a placeholder a trait expects components to
	// implement.
	NeedsDefining bool
	Native        bool

	// DefinedBy names the component or trait that declared the method.
	DefinedBy string
	Source    string
	Span      elements.Span
}

type Step struct {
	Type        elements.StepType
	Declaration string
	Calls       []Call

	// Component is the component the step belongs to once resolved, and
	// Trait the trait it came from, if any.
	Component string
	Trait     string

	Source string
	Span   elements.Span

	origin *Step
}

type Component struct {
	Name     string
	Inherits string
	Traits   []string
	Methods  []*Method
	Steps    []*Step
	Source   string
	Span     elements.Span
}

// Trait applies to every component whose traits include all of Names.
type Trait struct {
	Names   []string
	Methods []*Method
	Steps   []*Step
	Source  string
	Span    elements.Span
}

// ParseTraitName splits "a + b" into its sorted, de-duplicated names.
func ParseTraitName(s string) []string {
	seen := make(map[string]bool)
	var names []string
	for _, part := range strings.Split(s, "+") {
		n := strings.TrimSpace(part)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Name renders the trait's name set, e.g. "clickable + focusable".
func (t *Trait) Name() string {
	return strings.Join(t.Names, " + ")
}

// AppliesTo reports whether every trait name is in traits.
func (t *Trait) AppliesTo(traits []string) bool {
	have := make(map[string]bool, len(traits))
	for _, n := range traits {
		have[n] = true
	}
	for _, n := range t.Names {
		if !have[n] {
			return false
		}
	}
	return true
}

// File is the content of one interaction source file.
type File struct {
	Path       string
	Natives    []*Method
	Components []*Component
	Traits     []*Trait
}
