package parser

import (
	"testing"

	"github.com/chriserin/ftl/internal/messages"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codesOf(msgs []messages.CompilerMessage) []messages.Code {
	var codes []messages.Code
	for _, m := range msgs {
		codes = append(codes, m.Code)
	}
	return codes
}

func TestParse_SingleScenario(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user
    When  they log in
    Then  they see the dashboard
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	assert.Equal(t, "Login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
	sc := doc.Feature.Scenarios[0]
	assert.Equal(t, "User logs in", sc.Scenario.Name)
	assert.Equal(t, 2, sc.Line)
	assert.Equal(t, 3, sc.Column)

	require.Len(t, sc.Scenario.Steps, 3)
	given := sc.Scenario.Steps[0]
	assert.Equal(t, "Given", given.Keyword)
	assert.Equal(t, "a user", given.Text)
	assert.Equal(t, 3, given.Line)
	assert.Equal(t, 5, given.Column)
	assert.Equal(t, 11, given.TextColumn)

	when := sc.Scenario.Steps[1]
	assert.Equal(t, "they log in", when.Text)
	assert.Equal(t, 11, when.TextColumn)
}

func TestParse_MultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user

  Scenario: User fails login
    Given a user
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 2)
	assert.Equal(t, "User logs in", doc.Feature.Scenarios[0].Scenario.Name)
	assert.Equal(t, "User fails login", doc.Feature.Scenarios[1].Scenario.Name)
}

func TestParse_Background(t *testing.T) {
	content := []byte(`Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When  they log in
    Then  they see the dashboard
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	require.NotNil(t, doc.Feature.Background)
	require.Len(t, doc.Feature.Background.Steps, 1)
	assert.Equal(t, "a registered user", doc.Feature.Background.Steps[0].Text)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 2)
}

func TestParse_Descriptions(t *testing.T) {
	content := []byte(`Feature: Login
  As a user
  I want to log in

  Scenario: User logs in
    Only the happy path.
    Given a user
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	assert.Equal(t, "As a user\nI want to log in", doc.Feature.Header.Description)
	assert.Equal(t, "Only the happy path.", doc.Feature.Scenarios[0].Scenario.Description)
}

func TestParse_MultipleTags(t *testing.T) {
	content := []byte(`@auth
Feature: Login
  @smoke @ft:5 @regression
  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Header.Tags, 1)
	assert.Equal(t, "@auth", doc.Feature.Header.Tags[0].Name)
	tags := doc.Feature.Scenarios[0].Tags
	require.Len(t, tags, 3)
	assert.Equal(t, "@smoke", tags[0].Name)
	assert.Equal(t, "@ft:5", tags[1].Name)
	assert.Equal(t, "@regression", tags[2].Name)
}

func TestParse_TagsBeforeMultipleScenarios(t *testing.T) {
	content := []byte(`Feature: Login
  @tag1
  Scenario: First
    Given a

  @tag2
  Scenario: Second
    Given b
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 2)
	require.Len(t, doc.Feature.Scenarios[0].Tags, 1)
	assert.Equal(t, "@tag1", doc.Feature.Scenarios[0].Tags[0].Name)
	require.Len(t, doc.Feature.Scenarios[1].Tags, 1)
	assert.Equal(t, "@tag2", doc.Feature.Scenarios[1].Tags[0].Name)
}

func TestParse_Comments(t *testing.T) {
	content := []byte(`# This is a comment
Feature: Login
  # Another comment
  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("login.ft", content)
	require.Empty(t, errors)
	assert.Equal(t, "Login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
}

func TestParse_EmptyFile(t *testing.T) {
	doc, errors := Parse("empty.ft", []byte(""))
	require.Empty(t, errors)
	assert.Equal(t, "empty", doc.Feature.Header.Name)
	assert.Equal(t, 0, doc.Feature.Header.Line)
}

func TestParse_NoFeatureLine(t *testing.T) {
	content := []byte(`  Scenario: User logs in
    Given a user
`)
	doc, errors := Parse("fts/login.ft", content)
	require.Empty(t, errors)
	assert.Equal(t, "login", doc.Feature.Header.Name)
	require.Len(t, doc.Feature.Scenarios, 1)
}

func TestParse_ScenarioOutline(t *testing.T) {
	content := []byte(`Feature: Cart
  Scenario Outline: Adding items
    Given I have <count> apples

    @fast
    Examples: small
      | count |
      | 1     |
      | 2     |
`)
	doc, errors := Parse("cart.ft", content)
	require.Empty(t, errors)
	sc := doc.Feature.Scenarios[0]
	assert.True(t, sc.Outline)
	require.Len(t, sc.Examples, 1)
	ex := sc.Examples[0]
	assert.Equal(t, "small", ex.Name)
	require.Len(t, ex.Tags, 1)
	require.NotNil(t, ex.Table)
	assert.Equal(t, []string{"count"}, ex.Table.HeaderRow)
	assert.Equal(t, [][]string{{"1"}, {"2"}}, ex.Table.Rows)
	assert.Equal(t, []int{8, 9}, ex.Table.RowLines)
}

func TestParse_ExamplesOutsideOutline(t *testing.T) {
	content := []byte(`Feature: Login
  Examples: Table
    | a |
`)
	_, errors := Parse("login.ft", content)
	require.Len(t, errors, 1)
	assert.Equal(t, messages.ExamplesOutsideOutline, errors[0].Code)
	assert.Equal(t, 2, errors[0].StartLine)
}

func TestParse_RuleNotSupported(t *testing.T) {
	content := []byte(`Feature: Login
  Rule: Business rule
    Some rule text
  Scenario: Test
    Given a
`)
	doc, errors := Parse("login.ft", content)
	require.Len(t, errors, 1)
	assert.Equal(t, messages.RuleNotSupported, errors[0].Code)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, "Test", doc.Feature.Scenarios[0].Scenario.Name)
}

func TestParse_DuplicateFeature(t *testing.T) {
	content := []byte(`Feature: One
Feature: Two
`)
	doc, errors := Parse("dup.ft", content)
	assert.Equal(t, []messages.Code{messages.DuplicateFeature}, codesOf(errors))
	assert.Equal(t, "One", doc.Feature.Header.Name)
}

func TestParse_StepOutsideBlock(t *testing.T) {
	content := []byte(`Feature: Login
  Given a user
`)
	_, errors := Parse("login.ft", content)
	require.Len(t, errors, 1)
	assert.Equal(t, messages.StepOutsideBlock, errors[0].Code)
	assert.Equal(t, 2, errors[0].StartLine)
	assert.Equal(t, 3, errors[0].StartColumn)
}

func TestParse_UnexpectedLine(t *testing.T) {
	content := []byte(`Feature: Login
  Scenario: User logs in
    Given a user
    stray words
`)
	_, errors := Parse("login.ft", content)
	require.Len(t, errors, 1)
	assert.Equal(t, messages.UnexpectedLine, errors[0].Code)
	assert.Equal(t, 4, errors[0].StartLine)
	assert.Contains(t, errors[0].Text, "stray words")
}

func TestParse_DataTable(t *testing.T) {
	content := []byte(`Feature: Users
  Scenario: Listing
    Given users:
      | name | age |
      | bob  | 3   |
      | amy  |
`)
	doc, errors := Parse("users.ft", content)
	require.Len(t, errors, 1)
	assert.Equal(t, messages.TableCellCountMismatch, errors[0].Code)
	assert.Equal(t, 6, errors[0].StartLine)

	step := doc.Feature.Scenarios[0].Scenario.Steps[0]
	require.NotNil(t, step.Argument)
	require.NotNil(t, step.Argument.DataTable)
	assert.Equal(t, []string{"name", "age"}, step.Argument.DataTable.HeaderRow)
	assert.Len(t, step.Argument.DataTable.Rows, 2)
}

func TestParse_TableOutsideStep(t *testing.T) {
	content := []byte(`Feature: Users
  Scenario: Listing
    | a |
`)
	_, errors := Parse("users.ft", content)
	assert.Equal(t, []messages.Code{messages.TableOutsideStep}, codesOf(errors))
}

func TestParse_DocStringContent(t *testing.T) {
	content := []byte(`Feature: Api
  Scenario: Posting
    Given the payload:
      """json
      {"a": 1}
        nested
      """
    Then it works
`)
	doc, errors := Parse("api.ft", content)
	require.Empty(t, errors)
	steps := doc.Feature.Scenarios[0].Scenario.Steps
	require.Len(t, steps, 2)
	require.NotNil(t, steps[0].Argument)
	ds := steps[0].Argument.DocString
	require.NotNil(t, ds)
	assert.Equal(t, "json", ds.MediaType)
	assert.Equal(t, "{\"a\": 1}\n  nested", ds.Content)
	assert.Equal(t, 4, ds.Line)
}

func TestParse_DocStringContentIsOpaque(t *testing.T) {
	content := []byte(`Feature: Parse Scenarios
  Scenario: Already-tagged scenario is skipped
    Given the file fts/login.ft contains:
      """
      Feature: Login
        @ft:1
        Scenario: User logs in
          Given a user
      """
    When the user runs sync
    Then no new scenarios record is created
`)
	doc, errors := Parse("test.ft", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Len(t, doc.Feature.Scenarios[0].Scenario.Steps, 3)
}

func TestParse_DocStringWithBackticks(t *testing.T) {
	content := []byte("Feature: Test\n  Scenario: Has code block\n    Given content:\n      ```\n      Scenario: Not real\n      @ft:99\n      ```\n    Then it works\n")
	doc, errors := Parse("test.ft", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.Scenarios, 1)
	assert.Equal(t, "Has code block", doc.Feature.Scenarios[0].Scenario.Name)
}

func TestParse_UnterminatedDocString(t *testing.T) {
	content := []byte(`Feature: Api
  Scenario: Posting
    Given the payload:
      """
      never closed
`)
	_, errors := Parse("api.ft", content)
	require.Len(t, errors, 1)
	assert.Equal(t, messages.UnterminatedDocString, errors[0].Code)
	assert.Equal(t, 4, errors[0].StartLine)
}

func TestParse_StepDefinition(t *testing.T) {
	content := []byte(`Feature: Steps
  Step: Given I log in as {user}
    Logs in a user.
    Given I open the login page
    When I type "<user>"
`)
	doc, errors := Parse("steps.ft", content)
	require.Empty(t, errors)
	require.Len(t, doc.Feature.StepDefinitions, 1)
	def := doc.Feature.StepDefinitions[0]
	assert.Equal(t, "Given", def.Keyword)
	assert.Equal(t, "I log in as {user}", def.Text)
	assert.Equal(t, "Logs in a user.", def.Description)
	assert.Equal(t, 2, def.Line)
	assert.Equal(t, 9, def.Column)
	assert.Equal(t, 15, def.TextColumn)
	assert.Len(t, def.Steps, 2)
}
