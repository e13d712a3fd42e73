package parser

import (
	"regexp"
	"strings"

	"github.com/chriserin/ftl/internal/messages"
)

var tagPattern = regexp.MustCompile(`@[^@\s]+`)

var stepKeywords = []string{"Given", "When", "Then", "And", "But"}

type blockKind int

const (
	blockNone blockKind = iota
	blockFeature
	blockBackground
	blockScenario
	blockExamples
	blockDefinition
)

type lineParser struct {
	filename string
	lines    []string
	i        int
	msgs     []messages.CompilerMessage

	feature     *Feature
	sawFeature  bool
	pendingTags []Tag

	block       blockKind
	desc        *string
	background  *Background
	scenario    *ScenarioDefinition
	definition  *StepDefinition
	scenarios   []*ScenarioDefinition
	definitions []*StepDefinition
}

// Parse parses a .ft file and returns a Document AST and any parse errors.
func Parse(filename string, content []byte) (*Document, []messages.CompilerMessage) {
	p := &lineParser{
		filename: filename,
		lines:    strings.Split(strings.ReplaceAll(string(content), "\r\n", "\n"), "\n"),
		feature:  &Feature{},
	}

	for p.i < len(p.lines) {
		p.parseLine()
	}

	if !p.sawFeature {
		// No Feature: line, use the filename without extension
		p.feature.Header.Name = filenameWithoutExt(filename)
	}
	for _, sd := range p.scenarios {
		p.feature.Scenarios = append(p.feature.Scenarios, *sd)
	}
	for _, def := range p.definitions {
		p.feature.StepDefinitions = append(p.feature.StepDefinitions, *def)
	}

	return &Document{Feature: p.feature}, p.msgs
}

func (p *lineParser) parseLine() {
	raw := p.lines[p.i]
	trimmed := strings.TrimSpace(raw)
	line := p.i + 1
	col := indentOf(raw) + 1

	switch {
	case trimmed == "" || strings.HasPrefix(trimmed, "#"):
		p.i++

	case isDocStringDelimiter(trimmed):
		p.parseDocString(col)

	case isTagLine(trimmed):
		p.pendingTags = append(p.pendingTags, parseTags(trimmed)...)
		p.i++

	case strings.HasPrefix(trimmed, "Feature:"):
		p.i++
		if p.sawFeature {
			p.errorAt(messages.DuplicateFeature, line, col, len(trimmed))
			return
		}
		p.sawFeature = true
		p.feature.Header = FeatureHeader{
			Tags: p.pendingTags,
			Name: afterKeyword(trimmed, "Feature:"),
			Line: line,
		}
		p.pendingTags = nil
		p.block = blockFeature
		p.desc = &p.feature.Header.Description

	case strings.HasPrefix(trimmed, "Background:"):
		p.i++
		p.pendingTags = nil // Background doesn't get tags
		p.background = &Background{Line: line}
		p.feature.Background = p.background
		p.block = blockBackground
		p.desc = &p.background.Description

	case strings.HasPrefix(trimmed, "Scenario Outline:"), strings.HasPrefix(trimmed, "Scenario Template:"):
		p.i++
		_, name, _ := strings.Cut(trimmed, ":")
		p.startScenario(strings.TrimSpace(name), true, line, col)

	case strings.HasPrefix(trimmed, "Scenario:"), strings.HasPrefix(trimmed, "Example:"):
		p.i++
		_, name, _ := strings.Cut(trimmed, ":")
		p.startScenario(strings.TrimSpace(name), false, line, col)

	case strings.HasPrefix(trimmed, "Examples:"), strings.HasPrefix(trimmed, "Scenarios:"):
		p.i++
		p.startExamples(trimmed, line, col)

	case strings.HasPrefix(trimmed, "Step:"):
		p.i++
		p.startDefinition(raw, line, col)

	case strings.HasPrefix(trimmed, "Rule:"):
		p.errorAt(messages.RuleNotSupported, line, col, len(trimmed))
		p.i++
		p.i = consumeBlock(p.lines, p.i)
		p.block = blockNone
		p.desc = nil

	case strings.HasPrefix(trimmed, "|"):
		p.i++
		p.parseTableRow(trimmed, line, col)

	case isStepLine(trimmed):
		p.i++
		p.parseStep(raw, trimmed, line, col)

	default:
		p.i++
		if p.desc == nil {
			p.errorAt(messages.UnexpectedLine, line, col, len(trimmed), trimmed)
			return
		}
		if *p.desc != "" {
			*p.desc += "\n"
		}
		*p.desc += trimmed
	}
}

func (p *lineParser) startScenario(name string, outline bool, line, col int) {
	sd := &ScenarioDefinition{
		Tags:     p.pendingTags,
		Scenario: Scenario{Name: name},
		Outline:  outline,
		Line:     line,
		Column:   col,
	}
	p.pendingTags = nil
	p.scenarios = append(p.scenarios, sd)
	p.scenario = sd
	p.block = blockScenario
	p.desc = &sd.Scenario.Description
}

func (p *lineParser) startExamples(trimmed string, line, col int) {
	if p.scenario == nil || !p.scenario.Outline || (p.block != blockScenario && p.block != blockExamples) {
		p.errorAt(messages.ExamplesOutsideOutline, line, col, len(trimmed))
		p.pendingTags = nil
		// Skip the table that belongs to the misplaced Examples.
		for p.i < len(p.lines) && strings.HasPrefix(strings.TrimSpace(p.lines[p.i]), "|") {
			p.i++
		}
		return
	}
	_, name, _ := strings.Cut(trimmed, ":")
	p.scenario.Examples = append(p.scenario.Examples, Examples{
		Tags: p.pendingTags,
		Name: strings.TrimSpace(name),
		Line: line,
	})
	p.pendingTags = nil
	p.block = blockExamples
	p.desc = nil
}

func (p *lineParser) startDefinition(raw string, line, col int) {
	afterStep := raw[col-1+len("Step:"):]
	kwCol := col + len("Step:") + indentOf(afterStep)
	body := strings.TrimSpace(afterStep)
	keyword, rest, _ := strings.Cut(body, " ")
	textCol := kwCol + len(keyword) + 1 + indentOf(rest)

	def := &StepDefinition{
		Keyword:    keyword,
		Text:       strings.TrimSpace(rest),
		Line:       line,
		Column:     kwCol,
		TextColumn: textCol,
	}
	p.pendingTags = nil
	p.definitions = append(p.definitions, def)
	p.definition = def
	p.block = blockDefinition
	p.desc = &def.Description
}

func (p *lineParser) currentSteps() *[]Step {
	switch p.block {
	case blockBackground:
		return &p.background.Steps
	case blockScenario:
		return &p.scenario.Scenario.Steps
	case blockDefinition:
		return &p.definition.Steps
	}
	return nil
}

func (p *lineParser) lastStep() *Step {
	steps := p.currentSteps()
	if steps == nil || len(*steps) == 0 {
		return nil
	}
	return &(*steps)[len(*steps)-1]
}

func (p *lineParser) parseStep(raw, trimmed string, line, col int) {
	steps := p.currentSteps()
	if steps == nil {
		p.errorAt(messages.StepOutsideBlock, line, col, len(trimmed))
		return
	}
	keyword, rest, _ := strings.Cut(trimmed, " ")
	*steps = append(*steps, Step{
		Keyword:    keyword,
		Text:       strings.TrimSpace(rest),
		Line:       line,
		Column:     col,
		TextColumn: col + len(keyword) + 1 + indentOf(rest),
	})
	p.desc = nil
}

func (p *lineParser) parseTableRow(trimmed string, line, col int) {
	cells := parseRow(trimmed)

	var table *DataTable
	switch {
	case p.block == blockExamples:
		ex := &p.scenario.Examples[len(p.scenario.Examples)-1]
		if ex.Table == nil {
			ex.Table = &DataTable{Line: line}
		}
		table = ex.Table
	case p.lastStep() != nil:
		step := p.lastStep()
		if step.Argument == nil {
			step.Argument = &StepArgument{}
		}
		if step.Argument.DataTable == nil {
			step.Argument.DataTable = &DataTable{Line: line}
		}
		table = step.Argument.DataTable
	default:
		p.errorAt(messages.TableOutsideStep, line, col, len(trimmed))
		return
	}

	if table.HeaderRow == nil {
		table.HeaderRow = cells
		return
	}
	if len(cells) != len(table.HeaderRow) {
		p.errorAt(messages.TableCellCountMismatch, line, col, len(trimmed), len(cells), len(table.HeaderRow))
	}
	table.Rows = append(table.Rows, cells)
	table.RowLines = append(table.RowLines, line)
}

func (p *lineParser) parseDocString(col int) {
	openLine := p.i + 1
	opener := strings.TrimSpace(p.lines[p.i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	mediaType := strings.TrimSpace(strings.TrimPrefix(opener, delimiter))

	end := skipDocString(p.lines, p.i)
	closed := end <= len(p.lines) && strings.TrimSpace(p.lines[end-1]) == delimiter && end-1 > p.i
	contentEnd := end
	if closed {
		contentEnd = end - 1
	}

	var content []string
	for _, l := range p.lines[p.i+1 : contentEnd] {
		content = append(content, trimIndent(l, col-1))
	}
	p.i = end

	if !closed {
		p.errorAt(messages.UnterminatedDocString, openLine, col, len(opener))
		return
	}
	step := p.lastStep()
	if step == nil {
		p.errorAt(messages.UnexpectedLine, openLine, col, len(opener), opener)
		return
	}
	if step.Argument == nil {
		step.Argument = &StepArgument{}
	}
	step.Argument.DocString = &DocString{
		MediaType: mediaType,
		Content:   strings.Join(content, "\n"),
		Line:      openLine,
	}
}

func (p *lineParser) errorAt(code messages.Code, line, col, length int, args ...any) {
	p.msgs = append(p.msgs, messages.New(p.filename, code, line, col, line, col+length, args...))
}

func parseTags(line string) []Tag {
	matches := tagPattern.FindAllString(line, -1)
	var tags []Tag
	for _, m := range matches {
		tags = append(tags, Tag{Name: m})
	}
	return tags
}

func parseRow(trimmed string) []string {
	inner := strings.TrimPrefix(trimmed, "|")
	inner = strings.TrimSuffix(inner, "|")
	parts := strings.Split(inner, "|")
	cells := make([]string, 0, len(parts))
	for _, c := range parts {
		cells = append(cells, strings.TrimSpace(c))
	}
	return cells
}

func isTagLine(trimmed string) bool {
	return strings.HasPrefix(trimmed, "@")
}

func isStepLine(trimmed string) bool {
	for _, kw := range stepKeywords {
		if trimmed == kw || strings.HasPrefix(trimmed, kw+" ") {
			return true
		}
	}
	return false
}

func isKeyword(trimmed string) bool {
	return strings.HasPrefix(trimmed, "Feature:") ||
		strings.HasPrefix(trimmed, "Background:") ||
		strings.HasPrefix(trimmed, "Scenario:") ||
		strings.HasPrefix(trimmed, "Scenario Outline:") ||
		strings.HasPrefix(trimmed, "Rule:") ||
		strings.HasPrefix(trimmed, "Examples:") ||
		strings.HasPrefix(trimmed, "Step:")
}

func isDocStringDelimiter(trimmed string) bool {
	return strings.HasPrefix(trimmed, `"""`) || strings.HasPrefix(trimmed, "```")
}

// skipDocString advances past a doc string block. i points at the opening delimiter.
// Returns the index of the line after the closing delimiter.
func skipDocString(lines []string, i int) int {
	opener := strings.TrimSpace(lines[i])
	delimiter := `"""`
	if strings.HasPrefix(opener, "```") {
		delimiter = "```"
	}
	i++ // move past opening delimiter
	for i < len(lines) {
		if strings.TrimSpace(lines[i]) == delimiter {
			return i + 1 // past the closing delimiter
		}
		i++
	}
	return i // EOF without closing delimiter
}

// consumeBlock advances past content lines, skipping over doc strings,
// until the next keyword, tag line, or EOF.
func consumeBlock(lines []string, i int) int {
	for i < len(lines) {
		t := strings.TrimSpace(lines[i])
		if isDocStringDelimiter(t) {
			i = skipDocString(lines, i)
			continue
		}
		if isKeyword(t) || isTagLine(t) {
			break
		}
		i++
	}
	return i
}

func afterKeyword(trimmed, keyword string) string {
	return strings.TrimSpace(strings.TrimPrefix(trimmed, keyword))
}

func indentOf(s string) int {
	return len(s) - len(strings.TrimLeft(s, " \t"))
}

func trimIndent(line string, indent int) string {
	n := indentOf(line)
	if n > indent {
		n = indent
	}
	return line[n:]
}

func filenameWithoutExt(filename string) string {
	name := filename
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[:idx]
	}
	return name
}
