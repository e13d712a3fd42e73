package parser

// Layer 1: line-oriented AST for .ft files

type Document struct {
	Feature *Feature
}

type Feature struct {
	Header          FeatureHeader
	Background      *Background
	Scenarios       []ScenarioDefinition
	StepDefinitions []StepDefinition
}

type FeatureHeader struct {
	Tags        []Tag
	Name        string
	Description string
	Line        int // 0 when the file has no Feature: line
}

type Background struct {
	Line        int
	Description string
	Steps       []Step
}

type ScenarioDefinition struct {
	Tags     []Tag
	Scenario Scenario
	Outline  bool
	Examples []Examples
	Line     int // 1-based line number of Scenario: line
	Column   int
}

type Scenario struct {
	Name        string
	Description string
	Steps       []Step
}

type Examples struct {
	Tags  []Tag
	Name  string
	Line  int
	Table *DataTable
}

// StepDefinition is an in-file "Step: Given ..." block.
type StepDefinition struct {
	Keyword     string
	Text        string
	Description string
	Line        int
	Column      int
	TextColumn  int
	Steps       []Step
}

type Tag struct {
	Name string // e.g. "@smoke"
}

type Step struct {
	Keyword    string // Given, When, Then, And, But
	Text       string
	Line       int
	Column     int
	TextColumn int
	Argument   *StepArgument
}

type StepArgument struct {
	DocString *DocString
	DataTable *DataTable
}

type DocString struct {
	MediaType string
	Content   string
	Line      int
}

type DataTable struct {
	Line      int
	HeaderRow []string
	Rows      [][]string
	RowLines  []int
}
