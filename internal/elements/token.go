// Package elements holds the built element trees the linker consumes:
// tokenized steps, step definitions, argument bindings and files.
package elements

// Span is a 1-based source range.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// TokenKind identifies the variant of a StepToken.
type TokenKind int

const (
	TokenText TokenKind = iota
	TokenInt
	TokenFloat
	TokenQuote
	TokenEscapedChar
	TokenVariable
	TokenInterpolateStart
	// TokenPlaceholder is an argument placeholder, only produced when
	// tokenizing definition text.
	TokenPlaceholder
)

func (k TokenKind) String() string {
	switch k {
	case TokenText:
		return "text"
	case TokenInt:
		return "int"
	case TokenFloat:
		return "float"
	case TokenQuote:
		return "quote"
	case TokenEscapedChar:
		return "escaped"
	case TokenVariable:
		return "variable"
	case TokenInterpolateStart:
		return "interpolate"
	case TokenPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}

// StepToken is one positioned unit of a step's statement text. Start and
// Length are byte offsets into the owning text.
type StepToken struct {
	Kind   TokenKind
	Start  int
	Length int

	// Name is set for variables and placeholders; Hint for placeholders.
	Name string
	Hint string
}

// End returns the offset just past the token.
func (t StepToken) End() int {
	return t.Start + t.Length
}

// Text returns the raw text of the token within owner.
func (t StepToken) Text(owner string) string {
	return owner[t.Start:t.End()]
}

// IsWord reports whether the token can be matched against a literal word
// part of a definition.
func (t StepToken) IsWord() bool {
	switch t.Kind {
	case TokenText, TokenInt, TokenFloat, TokenQuote, TokenEscapedChar:
		return true
	}
	return false
}
