// Package messages defines the compiler diagnostics produced while parsing,
// linking and building interaction sets.
package messages

import (
	"fmt"
	"path/filepath"
)

// Severity is how serious a CompilerMessage is.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// CompilerMessage is a single positioned diagnostic. Lines and columns are
// 1-based; a zero end position means the message covers a single point.
type CompilerMessage struct {
	Source      string
	Severity    Severity
	Code        Code
	Text        string
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// New builds a message for code, formatting the code's template with args.
func New(source string, code Code, startLine, startColumn, endLine, endColumn int, args ...any) CompilerMessage {
	return CompilerMessage{
		Source:      source,
		Severity:    code.Severity(),
		Code:        code,
		Text:        code.Format(args...),
		StartLine:   startLine,
		StartColumn: startColumn,
		EndLine:     endLine,
		EndColumn:   endColumn,
	}
}

// String renders the message the way the CLI prints it, e.g.
// "login.ft(3,5,3,21): error FTL20001: No step definitions ...".
func (m CompilerMessage) String() string {
	return fmt.Sprintf("%s(%d,%d,%d,%d): %s %s: %s",
		filepath.Base(m.Source), m.StartLine, m.StartColumn, m.EndLine, m.EndColumn,
		m.Severity, m.Code.ID(), m.Text)
}

// IsError reports whether the message has error severity.
func (m CompilerMessage) IsError() bool {
	return m.Severity == SeverityError
}

// HasErrors reports whether any message in msgs is an error.
func HasErrors(msgs []CompilerMessage) bool {
	for _, m := range msgs {
		if m.IsError() {
			return true
		}
	}
	return false
}

// Before orders messages by source, then position, then code.
func Before(a, b CompilerMessage) bool {
	if a.Source != b.Source {
		return a.Source < b.Source
	}
	if a.StartLine != b.StartLine {
		return a.StartLine < b.StartLine
	}
	if a.StartColumn != b.StartColumn {
		return a.StartColumn < b.StartColumn
	}
	return a.Code < b.Code
}
