package parser

import (
	"strings"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
)

// SplitKeyword splits "Given I click" into its step type and the remaining
// text. ok is false when the first word is not a step keyword.
func SplitKeyword(line string) (elements.StepType, string, bool) {
	trimmed := strings.TrimSpace(line)
	keyword, rest, _ := strings.Cut(trimmed, " ")
	t, ok := elements.ParseStepType(keyword)
	if !ok {
		return elements.StepTypeUnknown, trimmed, false
	}
	return t, strings.TrimSpace(rest), true
}

// CompileDefinition compiles the declaration text of a step definition.
// line and column locate the first byte of text. A nil definition is
// returned when the declaration has errors; the messages explain why.
func CompileDefinition(source string, stepType elements.StepType, text string, line, column int) (*elements.StepDefinitionElement, []messages.CompilerMessage) {
	trimmed := strings.TrimLeft(text, " \t")
	column += len(text) - len(trimmed)
	trimmed = strings.TrimRight(trimmed, " \t\r\n")
	span := elements.Span{StartLine: line, StartColumn: column, EndLine: line, EndColumn: column + len(trimmed)}

	var msgs []messages.CompilerMessage
	errorAt := func(code messages.Code, s elements.Span, args ...any) {
		msgs = append(msgs, messages.New(source, code, s.StartLine, s.StartColumn, s.EndLine, s.EndColumn, args...))
	}

	if stepType.IsConjunction() {
		errorAt(messages.CannotDefineAStepWithAnd, span, stepType.String())
		return nil, msgs
	}
	if stepType == elements.StepTypeUnknown {
		errorAt(messages.StepDefinitionUnknownKeyword, span, trimmed)
		return nil, msgs
	}
	if trimmed == "" {
		errorAt(messages.StepDefinitionMissingText, span)
		return nil, msgs
	}

	def := &elements.StepDefinitionElement{
		Source:      source,
		Type:        stepType,
		Declaration: trimmed,
		Tokens:      Tokenize(trimmed, DefinitionMode),
		Span:        span,
	}

	seen := make(map[string]bool)
	for _, tok := range def.Tokens {
		tokSpan := elements.Span{StartLine: line, StartColumn: column + tok.Start, EndLine: line, EndColumn: column + tok.End()}

		switch tok.Kind {
		case elements.TokenVariable, elements.TokenInterpolateStart:
			errorAt(messages.CannotSpecifyDynamicValueInStepDefinition, tokSpan, tok.Text(trimmed))
		case elements.TokenPlaceholder:
			if tok.Name == "" {
				errorAt(messages.StepVariableNameRequired, tokSpan)
				continue
			}
			hint, ok := elements.ParseArgumentHint(tok.Hint)
			if !ok {
				errorAt(messages.StepDefinitionUnknownHint, tokSpan, tok.Hint, tok.Name)
				continue
			}
			if seen[tok.Name] {
				errorAt(messages.StepVariableNameDuplicate, tokSpan, tok.Name)
				continue
			}
			seen[tok.Name] = true
			def.Parts = append(def.Parts, &elements.ArgumentPart{Name: tok.Name, Hint: hint})
		default:
			def.Parts = append(def.Parts, &elements.WordPart{Text: tok.Text(trimmed)})
		}
	}

	if messages.HasErrors(msgs) {
		return nil, msgs
	}
	return def, msgs
}
