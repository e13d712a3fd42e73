package parser

import (
	"testing"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(tokens []elements.StepToken) []elements.TokenKind {
	var ks []elements.TokenKind
	for _, t := range tokens {
		ks = append(ks, t.Kind)
	}
	return ks
}

func texts(text string, tokens []elements.StepToken) []string {
	var ts []string
	for _, t := range tokens {
		ts = append(ts, t.Text(text))
	}
	return ts
}

func TestTokenize_Words(t *testing.T) {
	text := "I click   the button"
	tokens := Tokenize(text, ReferenceMode)
	assert.Equal(t, []string{"I", "click", "the", "button"}, texts(text, tokens))
	assert.Equal(t, 10, tokens[2].Start)
}

func TestTokenize_Numbers(t *testing.T) {
	text := "I have 5 apples costing 1.50 and -3 v1.2"
	tokens := Tokenize(text, ReferenceMode)
	assert.Equal(t, []elements.TokenKind{
		elements.TokenText, elements.TokenText, elements.TokenInt, elements.TokenText,
		elements.TokenText, elements.TokenFloat, elements.TokenText, elements.TokenInt, elements.TokenText,
	}, kinds(tokens))
}

func TestTokenize_Quotes(t *testing.T) {
	text := `I click "the button"`
	tokens := Tokenize(text, ReferenceMode)
	assert.Equal(t, []string{"I", "click", `"`, "the", "button", `"`}, texts(text, tokens))
	assert.Equal(t, elements.TokenQuote, tokens[2].Kind)
	assert.Equal(t, elements.TokenQuote, tokens[5].Kind)
}

func TestTokenize_Variable(t *testing.T) {
	text := "I have <count> apples and a < b"
	tokens := Tokenize(text, ReferenceMode)
	require.Len(t, tokens, 8)
	assert.Equal(t, elements.TokenVariable, tokens[2].Kind)
	assert.Equal(t, "count", tokens[2].Name)
	assert.Equal(t, "<count>", tokens[2].Text(text))
	assert.Equal(t, elements.TokenText, tokens[6].Kind)
	assert.Equal(t, "<", tokens[6].Text(text))
}

func TestTokenize_InterpolateStart(t *testing.T) {
	text := `I see ":name" and "a:b"`
	tokens := Tokenize(text, ReferenceMode)
	assert.Equal(t, []elements.TokenKind{
		elements.TokenText, elements.TokenText,
		elements.TokenQuote, elements.TokenInterpolateStart, elements.TokenText, elements.TokenQuote,
		elements.TokenText,
		elements.TokenQuote, elements.TokenText, elements.TokenQuote,
	}, kinds(tokens))
}

func TestTokenize_EscapedChar(t *testing.T) {
	text := `say \"hi\"`
	tokens := Tokenize(text, ReferenceMode)
	assert.Equal(t, []elements.TokenKind{
		elements.TokenText, elements.TokenEscapedChar, elements.TokenText, elements.TokenEscapedChar,
	}, kinds(tokens))
	assert.Equal(t, `\"`, tokens[1].Text(text))
}

func TestTokenize_Placeholders(t *testing.T) {
	text := "I have {count:int} apples"

	def := Tokenize(text, DefinitionMode)
	require.Len(t, def, 4)
	assert.Equal(t, elements.TokenPlaceholder, def[2].Kind)
	assert.Equal(t, "count", def[2].Name)
	assert.Equal(t, "int", def[2].Hint)
	assert.Equal(t, "{count:int}", def[2].Text(text))

	ref := Tokenize(text, ReferenceMode)
	require.Len(t, ref, 4)
	assert.Equal(t, elements.TokenText, ref[2].Kind)
}

func TestTokenize_Empty(t *testing.T) {
	assert.Empty(t, Tokenize("", ReferenceMode))
	assert.Empty(t, Tokenize("   ", DefinitionMode))
}

func TestArgumentNames(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, ArgumentNames("{a} and {b:int} and {}"))
	assert.Empty(t, ArgumentNames("no arguments here"))
}
