package elements

import (
	"strings"

	"github.com/chriserin/ftl/internal/messages"
)

// StepType is the keyword a step was written with.
type StepType int

const (
	StepTypeUnknown StepType = iota
	StepTypeGiven
	StepTypeWhen
	StepTypeThen
	StepTypeAnd
	StepTypeBut
)

func (t StepType) String() string {
	switch t {
	case StepTypeGiven:
		return "Given"
	case StepTypeWhen:
		return "When"
	case StepTypeThen:
		return "Then"
	case StepTypeAnd:
		return "And"
	case StepTypeBut:
		return "But"
	default:
		return "Unknown"
	}
}

// IsConjunction reports whether the type inherits its binding type from the
// preceding step.
func (t StepType) IsConjunction() bool {
	return t == StepTypeAnd || t == StepTypeBut
}

// ParseStepType maps a keyword to its StepType.
func ParseStepType(keyword string) (StepType, bool) {
	switch keyword {
	case "Given":
		return StepTypeGiven, true
	case "When":
		return StepTypeWhen, true
	case "Then":
		return StepTypeThen, true
	case "And":
		return StepTypeAnd, true
	case "But":
		return StepTypeBut, true
	}
	return StepTypeUnknown, false
}

// ArgumentHint is the optional type declared on a definition argument.
type ArgumentHint int

const (
	HintNone ArgumentHint = iota
	HintInt
	HintDecimal
	HintText
)

func (h ArgumentHint) String() string {
	switch h {
	case HintInt:
		return "int"
	case HintDecimal:
		return "decimal"
	case HintText:
		return "text"
	default:
		return ""
	}
}

// ParseArgumentHint maps a hint name to its ArgumentHint.
func ParseArgumentHint(name string) (ArgumentHint, bool) {
	switch strings.ToLower(name) {
	case "":
		return HintNone, true
	case "int":
		return HintInt, true
	case "decimal":
		return HintDecimal, true
	case "text":
		return HintText, true
	}
	return HintNone, false
}

// DefinitionPart is either a *WordPart or an *ArgumentPart.
type DefinitionPart interface {
	definitionPart()
}

// WordPart must match a literal token of a reference.
type WordPart struct {
	Text string
}

// ArgumentPart matches an argument span of a reference.
type ArgumentPart struct {
	Name string
	Hint ArgumentHint
}

func (*WordPart) definitionPart()     {}
func (*ArgumentPart) definitionPart() {}

// StepDefinitionElement is a compiled step pattern.
type StepDefinitionElement struct {
	Source      string
	UID         string
	Type        StepType
	Declaration string
	Description string
	Tokens      []StepToken
	Parts       []DefinitionPart
	Span        Span

	// Steps is the body of an in-file definition.
	Steps []*StepReferenceElement

	// Implementation is whatever the execution engine invokes for this
	// definition, e.g. an interaction step.
	Implementation any
}

// ID returns the definition's identity: its external UID when supplied,
// otherwise the source and declaration.
func (d *StepDefinitionElement) ID() string {
	if d.UID != "" {
		return d.UID
	}
	return d.Source + "|" + d.Type.String() + " " + d.Declaration
}

// Arguments returns the argument parts in declaration order.
func (d *StepDefinitionElement) Arguments() []*ArgumentPart {
	var args []*ArgumentPart
	for _, p := range d.Parts {
		if a, ok := p.(*ArgumentPart); ok {
			args = append(args, a)
		}
	}
	return args
}

// Argument finds an argument part by name.
func (d *StepDefinitionElement) Argument(name string) (*ArgumentPart, bool) {
	for _, a := range d.Arguments() {
		if a.Name == name {
			return a, true
		}
	}
	return nil, false
}

func (d *StepDefinitionElement) String() string {
	return d.Type.String() + " " + d.Declaration
}

// LinkState records what the linker decided for a reference.
type LinkState int

const (
	Unlinked LinkState = iota
	Bound
	Unbound
)

func (s LinkState) String() string {
	switch s {
	case Bound:
		return "bound"
	case Unbound:
		return "unbound"
	default:
		return "unlinked"
	}
}

// StepReferenceElement is a concrete step invocation.
type StepReferenceElement struct {
	Type        StepType
	BindingType StepType
	Text        string
	Tokens      []StepToken
	Table       *TableElement
	DocString   *string
	Span        Span

	// TextColumn is the column of the first byte of Text.
	TextColumn int

	state   LinkState
	binding *StepReferenceBinding
	message *messages.CompilerMessage
}

// State returns the reference's link state.
func (r *StepReferenceElement) State() LinkState {
	return r.state
}

// Binding returns the binding, or nil when the reference is not bound.
func (r *StepReferenceElement) Binding() *StepReferenceBinding {
	return r.binding
}

// Message returns the diagnostic explaining why the reference is unbound.
func (r *StepReferenceElement) Message() *messages.CompilerMessage {
	return r.message
}

// Bind attaches the reference to exactly one definition.
func (r *StepReferenceElement) Bind(b *StepReferenceBinding) {
	r.state = Bound
	r.binding = b
	r.message = nil
}

// Unbind leaves the reference explicitly unbound with a diagnostic.
func (r *StepReferenceElement) Unbind(msg messages.CompilerMessage) {
	r.state = Unbound
	r.binding = nil
	r.message = &msg
}

// Reset clears any previous link decision.
func (r *StepReferenceElement) Reset() {
	r.state = Unlinked
	r.binding = nil
	r.message = nil
}

func (r *StepReferenceElement) String() string {
	return r.Type.String() + " " + r.Text
}

// TokenSpan returns the source span covered by tokens[start:end].
func (r *StepReferenceElement) TokenSpan(start, end int) Span {
	s := r.Span
	if start >= end || end > len(r.Tokens) {
		return s
	}
	first, last := r.Tokens[start], r.Tokens[end-1]
	return Span{
		StartLine:   s.StartLine,
		StartColumn: r.TextColumn + first.Start,
		EndLine:     s.StartLine,
		EndColumn:   r.TextColumn + last.End(),
	}
}
