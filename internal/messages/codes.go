package messages

import "fmt"

// Code is a stable numeric diagnostic code. Codes are a contract with
// other tooling and must never be renumbered.
type Code int

const (
	UnexpectedLine               Code = 1
	UnterminatedDocString        Code = 2
	StepOutsideBlock             Code = 3
	AndMustFollowStep            Code = 4
	ExamplesOutsideOutline       Code = 5
	TableCellCountMismatch       Code = 6
	OutlineWithoutExamples       Code = 7
	RuleNotSupported             Code = 8
	DuplicateFeature             Code = 9
	TableOutsideStep             Code = 10
	StepDefinitionMissingText    Code = 11
	StepDefinitionUnknownKeyword Code = 12
	StepDefinitionUnknownHint    Code = 13
	StepVariableNameDuplicate    Code = 14

	StepVariableDoesNotExist                  Code = 15
	CannotSpecifyDynamicValueInStepDefinition Code = 16
	CannotDefineAStepWithAnd                  Code = 17
	StepVariableNameRequired                  Code = 18

	LinkerNoMatchingStepDefinition    Code = 20001
	LinkerMultipleMatchingDefinitions Code = 20002

	InteractionSyntaxError                          Code = 30001
	InteractionComponentInheritanceLoop             Code = 30002
	InteractionComponentInheritsUnknown             Code = 30003
	InteractionMethodNotFound                       Code = 30004
	InteractionMethodArgumentCountMismatch          Code = 30005
	InteractionMethodFromTraitRequiredButNotDefined Code = 30006
	InteractionMethodCircularReference              Code = 30007
	InteractionVariableNotDeclared                  Code = 30008
	InteractionVariableNotAnArray                   Code = 30009
	InteractionDuplicateTrait                       Code = 30010
	InteractionInvalidCallArgument                  Code = 30011
)

type codeInfo struct {
	name     string
	severity Severity
	format   string
}

var codes = map[Code]codeInfo{
	UnexpectedLine:               {"UnexpectedLine", SeverityError, "Unexpected text '%s'."},
	UnterminatedDocString:        {"UnterminatedDocString", SeverityError, "Doc string opened here is never closed."},
	StepOutsideBlock:             {"StepOutsideBlock", SeverityError, "Steps must appear inside a Background, Scenario or Step definition."},
	AndMustFollowStep:            {"AndMustFollowStep", SeverityError, "'%s' must follow a Given, When or Then step."},
	ExamplesOutsideOutline:       {"ExamplesOutsideOutline", SeverityError, "Examples can only be used inside a Scenario Outline."},
	TableCellCountMismatch:       {"TableCellCountMismatch", SeverityError, "Table row has %d cells but the header has %d."},
	OutlineWithoutExamples:       {"OutlineWithoutExamples", SeverityWarning, "Scenario Outline '%s' has no Examples and will never run."},
	RuleNotSupported:             {"RuleNotSupported", SeverityError, "Rule is not supported."},
	DuplicateFeature:             {"DuplicateFeature", SeverityError, "Only one Feature can be declared per file."},
	TableOutsideStep:             {"TableOutsideStep", SeverityError, "A table must follow a step or an Examples block."},
	StepDefinitionMissingText:    {"StepDefinitionMissingText", SeverityError, "Step definition has no text to match."},
	StepDefinitionUnknownKeyword: {"StepDefinitionUnknownKeyword", SeverityError, "Step definition '%s' must start with Given, When or Then."},
	StepDefinitionUnknownHint:    {"StepDefinitionUnknownHint", SeverityError, "Unknown type hint '%s' on argument '%s'; expected int, decimal or text."},
	StepVariableNameDuplicate:    {"StepVariableNameDuplicate", SeverityError, "Argument '%s' is declared more than once in this step definition."},

	StepVariableDoesNotExist:                  {"StepVariableDoesNotExist", SeverityError, "Variable '%s' is not declared here."},
	CannotSpecifyDynamicValueInStepDefinition: {"CannotSpecifyDynamicValueInStepDefinition", SeverityError, "Step definitions cannot contain dynamic values such as '%s'."},
	CannotDefineAStepWithAnd:                  {"CannotDefineAStepWithAnd", SeverityError, "Cannot define a step with '%s'; use Given, When or Then."},
	StepVariableNameRequired:                  {"StepVariableNameRequired", SeverityError, "Step definition arguments must have a name."},

	LinkerNoMatchingStepDefinition:    {"LinkerNoMatchingStepDefinition", SeverityError, "No step definitions could be found that match this step."},
	LinkerMultipleMatchingDefinitions: {"LinkerMultipleMatchingDefinitions", SeverityError, "There are multiple matching step definitions that match this step: %s."},

	InteractionSyntaxError:                          {"InteractionSyntaxError", SeverityError, "%s"},
	InteractionComponentInheritanceLoop:             {"InteractionComponentInheritanceLoop", SeverityError, "Component inheritance loop detected: %s."},
	InteractionComponentInheritsUnknown:             {"InteractionComponentInheritsUnknown", SeverityError, "Component '%s' inherits from unknown component '%s'."},
	InteractionMethodNotFound:                       {"InteractionMethodNotFound", SeverityError, "Method '%s' is not defined."},
	InteractionMethodArgumentCountMismatch:          {"InteractionMethodArgumentCountMismatch", SeverityError, "Method '%s' expects %d argument(s) but was given %d."},
	InteractionMethodFromTraitRequiredButNotDefined: {"InteractionMethodFromTraitRequiredButNotDefined", SeverityError, "Component '%s' must define method '%s' required by %s."},
	InteractionMethodCircularReference:              {"InteractionMethodCircularReference", SeverityError, "Method '%s' calls itself."},
	InteractionVariableNotDeclared:                  {"InteractionVariableNotDeclared", SeverityError, "Variable '%s' has not been declared."},
	InteractionVariableNotAnArray:                   {"InteractionVariableNotAnArray", SeverityError, "Variable '%s' is not an array and cannot be indexed."},
	InteractionDuplicateTrait:                       {"InteractionDuplicateTrait", SeverityError, "Trait '%s' is already defined."},
	InteractionInvalidCallArgument:                  {"InteractionInvalidCallArgument", SeverityError, "Call argument must be a string, number, variable or indexed variable."},
}

// ID returns the code formatted for display, e.g. "FTL20001".
func (c Code) ID() string {
	return fmt.Sprintf("FTL%05d", int(c))
}

func (c Code) String() string {
	if info, ok := codes[c]; ok {
		return info.name
	}
	return c.ID()
}

// Severity returns the fixed severity of the code.
func (c Code) Severity() Severity {
	if info, ok := codes[c]; ok {
		return info.severity
	}
	return SeverityError
}

// Format renders the message text for the code.
func (c Code) Format(args ...any) string {
	info, ok := codes[c]
	if !ok {
		return fmt.Sprint(args...)
	}
	if len(args) == 0 {
		return info.format
	}
	return fmt.Sprintf(info.format, args...)
}
