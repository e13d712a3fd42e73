package parser

import (
	"testing"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransform_FeatureAndSteps(t *testing.T) {
	content := []byte(`@auth
Feature: Login
  Scenario: User logs in
    Given a user
    And a password
    When  they log in
    But not twice
    Then  they see the dashboard
`)
	file, msgs := BuildFile("login.ft", content)
	require.Empty(t, msgs)
	assert.Equal(t, "login.ft", file.Path)
	require.NotNil(t, file.Feature)
	assert.Equal(t, "Login", file.Feature.Name)
	assert.Equal(t, []string{"@auth"}, file.Feature.Tags)

	steps := file.Feature.Scenarios[0].Steps
	require.Len(t, steps, 5)
	assert.Equal(t, elements.StepTypeAnd, steps[1].Type)
	assert.Equal(t, elements.StepTypeGiven, steps[1].BindingType)
	assert.Equal(t, elements.StepTypeWhen, steps[3].BindingType)
	assert.Equal(t, elements.Span{StartLine: 4, StartColumn: 5, EndLine: 4, EndColumn: 17}, steps[0].Span)

	require.Len(t, steps[0].Tokens, 2)
	assert.Equal(t, "user", steps[0].Tokens[1].Text(steps[0].Text))
}

func TestTransform_ConjunctionWithoutPrecedingStep(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    And a user
`)
	file, msgs := BuildFile("login.ft", content)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.AndMustFollowStep, msgs[0].Code)
	assert.Equal(t, elements.StepTypeUnknown, file.Feature.Scenarios[0].Steps[0].BindingType)
}

func TestTransform_ConjunctionResetsPerBlock(t *testing.T) {
	content := []byte(`Feature: Login
  Background:
    Given a user

  Scenario: User logs in
    And they log in
`)
	_, msgs := BuildFile("login.ft", content)
	assert.Equal(t, []messages.Code{messages.AndMustFollowStep}, codesOf(msgs))
}

func TestTransform_OutlineVariables(t *testing.T) {
	content := []byte(`Feature: Cart
  Scenario Outline: Adding items
    Given I have <count> apples
    Then I see <missing>

    Examples:
      | count |
      | 1     |
`)
	file, msgs := BuildFile("cart.ft", content)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.StepVariableDoesNotExist, msgs[0].Code)
	assert.Equal(t, 4, msgs[0].StartLine)
	assert.Equal(t, 16, msgs[0].StartColumn)
	assert.Equal(t, 25, msgs[0].EndColumn)
	assert.Contains(t, msgs[0].Text, "missing")

	sc := file.Feature.Scenarios[0]
	assert.Equal(t, elements.ScenarioOutline, sc.Kind)
	require.Len(t, sc.Examples, 1)
	assert.Equal(t, []string{"count"}, sc.Examples[0].Table.Header.Cells)
	assert.Equal(t, elements.TokenVariable, sc.Steps[0].Tokens[2].Kind)
}

func TestTransform_VariableInPlainScenario(t *testing.T) {
	content := []byte(`Feature: Cart
  Scenario: Adding items
    Given I have <count> apples
`)
	_, msgs := BuildFile("cart.ft", content)
	assert.Equal(t, []messages.Code{messages.StepVariableDoesNotExist}, codesOf(msgs))
}

func TestTransform_OutlineWithoutExamples(t *testing.T) {
	content := []byte(`Feature: Cart
  Scenario Outline: Adding items
    Given I have apples
`)
	_, msgs := BuildFile("cart.ft", content)
	require.Len(t, msgs, 1)
	assert.Equal(t, messages.OutlineWithoutExamples, msgs[0].Code)
	assert.Equal(t, messages.SeverityWarning, msgs[0].Severity)
	assert.False(t, messages.HasErrors(msgs))
}

func TestTransform_StepDefinition(t *testing.T) {
	content := []byte(`Feature: Steps
  Step: Given I log in as {user}
    Given I open the login page
    When I type "<user>"
`)
	file, msgs := BuildFile("steps.ft", content)
	require.Empty(t, msgs)
	require.Len(t, file.StepDefinitions, 1)

	def := file.StepDefinitions[0]
	assert.Equal(t, "steps.ft", def.Source)
	assert.Equal(t, elements.StepTypeGiven, def.Type)
	assert.Equal(t, "I log in as {user}", def.Declaration)
	require.Len(t, def.Parts, 5)
	arg, ok := def.Argument("user")
	require.True(t, ok)
	assert.Equal(t, elements.HintNone, arg.Hint)
	assert.Equal(t, elements.Span{StartLine: 2, StartColumn: 15, EndLine: 2, EndColumn: 33}, def.Span)
	assert.Len(t, def.Steps, 2)

	refs := file.StepReferences()
	require.Len(t, refs, 2)
	assert.Equal(t, "I open the login page", refs[0].Text)
}

func TestTransform_StepDefinitionErrors(t *testing.T) {
	content := []byte(`Feature: Steps
  Step: Click the button
  Step: And I log in
  Step: Given I have {count:bool} apples
  Step:
`)
	file, msgs := BuildFile("steps.ft", content)
	assert.Empty(t, file.StepDefinitions)
	assert.Equal(t, []messages.Code{
		messages.StepDefinitionUnknownKeyword,
		messages.CannotDefineAStepWithAnd,
		messages.StepDefinitionUnknownHint,
		messages.StepDefinitionMissingText,
	}, codesOf(msgs))
}

func TestTransform_TablesAndDocStrings(t *testing.T) {
	content := []byte(`Feature: Api
  Scenario: Posting
    Given users:
      | name |
      | bob  |
    When I post:
      """
      hello
      """
`)
	file, msgs := BuildFile("api.ft", content)
	require.Empty(t, msgs)
	steps := file.Feature.Scenarios[0].Steps
	require.NotNil(t, steps[0].Table)
	assert.Equal(t, []string{"name"}, steps[0].Table.Header.Cells)
	require.Len(t, steps[0].Table.Rows, 1)
	assert.Equal(t, 5, steps[0].Table.Rows[0].Line)
	assert.Equal(t, 5, steps[0].Table.Span.EndLine)
	require.NotNil(t, steps[1].DocString)
	assert.Equal(t, "hello", *steps[1].DocString)
}

func TestBuildFile_MessagesInSourceOrder(t *testing.T) {
	content := []byte(`Feature: Mixed
  Scenario: First
    And nothing before
    stray words
`)
	_, msgs := BuildFile("mixed.ft", content)
	assert.Equal(t, []messages.Code{messages.AndMustFollowStep, messages.UnexpectedLine}, codesOf(msgs))
}
