package elements

import (
	"fmt"
	"strconv"
	"strings"
)

// StepReferenceBinding is the result of binding a reference to exactly one
// definition.
type StepReferenceBinding struct {
	Definition *StepDefinitionElement
	Arguments  []ArgumentBinding
}

// Argument returns the binding for the named argument.
func (b *StepReferenceBinding) Argument(name string) (ArgumentBinding, bool) {
	for _, a := range b.Arguments {
		if a.Argument != nil && a.Argument.Name == name {
			return a, true
		}
	}
	return ArgumentBinding{}, false
}

// ArgumentBinding ties one argument part of a definition to the token range
// [Start, End) of a reference. StartExclusive and EndExclusive drop the
// boundary tokens (the surrounding quotes) when rendering.
type ArgumentBinding struct {
	Argument       *ArgumentPart
	Start          int
	End            int
	StartExclusive bool
	EndExclusive   bool
}

// Variables supplies values for variable tokens while rendering.
type Variables interface {
	Lookup(name string) (string, bool)
}

// VariableSet is a map-backed Variables.
type VariableSet map[string]string

func (v VariableSet) Lookup(name string) (string, bool) {
	val, ok := v[name]
	return val, ok
}

// bounds returns the token index range actually rendered.
func (a ArgumentBinding) bounds() (int, int) {
	start, end := a.Start, a.End
	if a.StartExclusive {
		start++
	}
	if a.EndExclusive {
		end--
	}
	if end < start {
		end = start
	}
	return start, end
}

// Render reconstructs the argument's literal text from the statement text
// and tokens it was bound against. Whitespace between tokens is copied
// verbatim from text. Variables without a value render as "". vars may be nil.
func (a ArgumentBinding) Render(text string, tokens []StepToken, vars Variables) string {
	start, end := a.bounds()
	if start >= end {
		return ""
	}

	// First pass: measure.
	size := 0
	for i := start; i < end; i++ {
		if i > start {
			size += tokens[i].Start - tokens[i-1].End()
		}
		size += len(tokenValue(text, tokens[i], vars))
	}

	// Second pass: copy into a single allocation.
	var sb strings.Builder
	sb.Grow(size)
	for i := start; i < end; i++ {
		if i > start {
			sb.WriteString(text[tokens[i-1].End():tokens[i].Start])
		}
		sb.WriteString(tokenValue(text, tokens[i], vars))
	}
	return sb.String()
}

func tokenValue(text string, t StepToken, vars Variables) string {
	switch t.Kind {
	case TokenVariable:
		if vars == nil {
			return ""
		}
		v, _ := vars.Lookup(t.Name)
		return v
	case TokenEscapedChar:
		return text[t.Start+1 : t.End()]
	default:
		return t.Text(text)
	}
}

// Text renders the argument against the reference it was bound to.
func (a ArgumentBinding) Text(ref *StepReferenceElement, vars Variables) string {
	return a.Render(ref.Text, ref.Tokens, vars)
}

// Value renders the argument and converts it according to its hint:
// int64 for int, float64 for decimal, string otherwise.
func (a ArgumentBinding) Value(ref *StepReferenceElement, vars Variables) (any, error) {
	raw := a.Text(ref, vars)
	if a.Argument == nil {
		return raw, nil
	}
	switch a.Argument.Hint {
	case HintInt:
		v, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %q is not an integer", a.Argument.Name, raw)
		}
		return v, nil
	case HintDecimal:
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %q is not a decimal", a.Argument.Name, raw)
		}
		return v, nil
	}
	return raw, nil
}
