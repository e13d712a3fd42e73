package parser

import (
	"testing"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitKeyword(t *testing.T) {
	st, rest, ok := SplitKeyword("  Given I click  ")
	assert.True(t, ok)
	assert.Equal(t, elements.StepTypeGiven, st)
	assert.Equal(t, "I click", rest)

	_, rest, ok = SplitKeyword("Click it")
	assert.False(t, ok)
	assert.Equal(t, "Click it", rest)
}

func TestCompileDefinition(t *testing.T) {
	def, msgs := CompileDefinition("steps.ft", elements.StepTypeGiven, "I have {count:int} apples", 1, 1)
	require.Empty(t, msgs)
	require.NotNil(t, def)
	assert.Equal(t, "I have {count:int} apples", def.Declaration)
	require.Len(t, def.Parts, 4)
	assert.Equal(t, &elements.WordPart{Text: "I"}, def.Parts[0])
	assert.Equal(t, &elements.ArgumentPart{Name: "count", Hint: elements.HintInt}, def.Parts[2])
	assert.Equal(t, &elements.WordPart{Text: "apples"}, def.Parts[3])
	assert.Equal(t, "steps.ft|Given I have {count:int} apples", def.ID())
}

func TestCompileDefinition_TrimsAndAdjustsColumn(t *testing.T) {
	def, msgs := CompileDefinition("steps.ft", elements.StepTypeWhen, "  hello  ", 3, 10)
	require.Empty(t, msgs)
	assert.Equal(t, "hello", def.Declaration)
	assert.Equal(t, elements.Span{StartLine: 3, StartColumn: 12, EndLine: 3, EndColumn: 17}, def.Span)
}

func TestCompileDefinition_QuotedPlaceholder(t *testing.T) {
	def, msgs := CompileDefinition("steps.ft", elements.StepTypeWhen, `I click "{label}"`, 1, 1)
	require.Empty(t, msgs)
	require.Len(t, def.Parts, 5)
	assert.Equal(t, &elements.WordPart{Text: `"`}, def.Parts[2])
	assert.Equal(t, &elements.ArgumentPart{Name: "label"}, def.Parts[3])
}

func TestCompileDefinition_Errors(t *testing.T) {
	tests := []struct {
		name     string
		stepType elements.StepType
		text     string
		code     messages.Code
	}{
		{"conjunction", elements.StepTypeAnd, "I log in", messages.CannotDefineAStepWithAnd},
		{"unknown type", elements.StepTypeUnknown, "I log in", messages.StepDefinitionUnknownKeyword},
		{"empty", elements.StepTypeGiven, "   ", messages.StepDefinitionMissingText},
		{"unknown hint", elements.StepTypeGiven, "I have {n:bool}", messages.StepDefinitionUnknownHint},
		{"unnamed", elements.StepTypeGiven, "I have {}", messages.StepVariableNameRequired},
		{"duplicate", elements.StepTypeGiven, "{a} and {a}", messages.StepVariableNameDuplicate},
		{"variable", elements.StepTypeGiven, "I have <count>", messages.CannotSpecifyDynamicValueInStepDefinition},
		{"interpolation", elements.StepTypeGiven, `I see ":name"`, messages.CannotSpecifyDynamicValueInStepDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, msgs := CompileDefinition("steps.ft", tt.stepType, tt.text, 1, 1)
			assert.Nil(t, def)
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.code, msgs[0].Code)
			assert.True(t, msgs[0].IsError())
		})
	}
}

func TestCompileDefinition_ErrorSpan(t *testing.T) {
	_, msgs := CompileDefinition("steps.ft", elements.StepTypeGiven, "I have {n:bool}", 4, 20)
	require.Len(t, msgs, 1)
	assert.Equal(t, 4, msgs[0].StartLine)
	assert.Equal(t, 27, msgs[0].StartColumn)
	assert.Equal(t, 35, msgs[0].EndColumn)
}
