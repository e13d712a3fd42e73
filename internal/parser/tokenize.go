package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/chriserin/ftl/internal/elements"
)

// Mode selects how statement text is tokenized.
type Mode int

const (
	// ReferenceMode tokenizes the text of a step reference.
	ReferenceMode Mode = iota
	// DefinitionMode additionally recognises {name} and {name:hint}
	// argument placeholders.
	DefinitionMode
)

var (
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?[0-9]+\.[0-9]+$`)
)

// Tokenize splits statement text into step tokens. It never fails: text
// that does not form a variable or placeholder is kept as words.
func Tokenize(text string, mode Mode) []elements.StepToken {
	var tokens []elements.StepToken
	inQuote := false
	justOpened := false

	i := 0
	for i < len(text) {
		c := text[i]

		if isSpace(c) {
			justOpened = false
			i++
			continue
		}

		switch {
		case c == '"':
			tokens = append(tokens, elements.StepToken{Kind: elements.TokenQuote, Start: i, Length: 1})
			inQuote = !inQuote
			justOpened = inQuote
			i++
			continue
		case c == ':' && justOpened:
			tokens = append(tokens, elements.StepToken{Kind: elements.TokenInterpolateStart, Start: i, Length: 1})
			justOpened = false
			i++
			continue
		case c == '\\' && i+1 < len(text):
			_, size := utf8.DecodeRuneInString(text[i+1:])
			tokens = append(tokens, elements.StepToken{Kind: elements.TokenEscapedChar, Start: i, Length: 1 + size})
			justOpened = false
			i += 1 + size
			continue
		case c == '<':
			if inner, n, ok := scanEnclosed(text[i:], '>'); ok && inner != "" && !strings.ContainsAny(inner, " \t") {
				tokens = append(tokens, elements.StepToken{Kind: elements.TokenVariable, Start: i, Length: n, Name: inner})
				justOpened = false
				i += n
				continue
			}
		case c == '{' && mode == DefinitionMode:
			if inner, n, ok := scanEnclosed(text[i:], '}'); ok {
				name, hint, _ := strings.Cut(inner, ":")
				tokens = append(tokens, elements.StepToken{
					Kind:   elements.TokenPlaceholder,
					Start:  i,
					Length: n,
					Name:   strings.TrimSpace(name),
					Hint:   strings.TrimSpace(hint),
				})
				justOpened = false
				i += n
				continue
			}
		}

		justOpened = false
		start := i
		i++
		for i < len(text) && !isBreak(text[i], mode) {
			i++
		}
		tokens = append(tokens, elements.StepToken{Kind: classify(text[start:i]), Start: start, Length: i - start})
	}

	return tokens
}

// scanEnclosed finds the closing delimiter for the opener at s[0] on the
// same line. It returns the inner text and the full length consumed.
func scanEnclosed(s string, closer byte) (string, int, bool) {
	for j := 1; j < len(s); j++ {
		switch s[j] {
		case closer:
			return s[1:j], j + 1, true
		case '\n', '"':
			return "", 0, false
		}
	}
	return "", 0, false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

func isBreak(c byte, mode Mode) bool {
	if isSpace(c) || c == '"' || c == '\\' || c == '<' {
		return true
	}
	return mode == DefinitionMode && c == '{'
}

func classify(word string) elements.TokenKind {
	switch {
	case intPattern.MatchString(word):
		return elements.TokenInt
	case floatPattern.MatchString(word):
		return elements.TokenFloat
	default:
		return elements.TokenText
	}
}

// ArgumentNames returns the placeholder names declared in definition text,
// in order, ignoring unnamed placeholders.
func ArgumentNames(text string) []string {
	var names []string
	for _, t := range Tokenize(text, DefinitionMode) {
		if t.Kind == elements.TokenPlaceholder && t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}
