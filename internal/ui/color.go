package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/chriserin/ftl/internal/messages"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	faintStyle   = lipgloss.NewStyle().Faint(true)
	boldStyle    = lipgloss.NewStyle().Bold(true)
	hintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "bound":
		return okStyle
	case "ambiguous":
		return warnStyle
	case "unbound":
		return errStyle
	}
	return faintStyle
}

// FileLine prints one linked file, e.g. "ok   fts/login.ft  3 bound".
func FileLine(w io.Writer, path string, bound, unbound int) {
	if unbound == 0 {
		fmt.Fprintf(w, "%s  %s  %s\n", okStyle.Render("ok "), path, faintStyle.Render(fmt.Sprintf("%d bound", bound)))
		return
	}
	fmt.Fprintf(w, "%s  %s  %s\n", errStyle.Render("err"), path,
		faintStyle.Render(fmt.Sprintf("%d bound, %d unbound", bound, unbound)))
}

// RemovedLine prints a file that is no longer loaded.
func RemovedLine(w io.Writer, path string) {
	fmt.Fprintln(w, removedStyle.Render("del")+"  "+path)
}

// MessageLine prints a diagnostic in compiler format.
func MessageLine(w io.Writer, m messages.CompilerMessage) {
	style := errStyle
	switch m.Severity {
	case messages.SeverityWarning:
		style = warnStyle
	case messages.SeverityInfo:
		style = faintStyle
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s %s\n",
		m.Source, m.StartLine, m.StartColumn, style.Render(m.Severity.String()), faintStyle.Render(m.Code.ID()), m.Text)
}

// HintLine prints a "did you mean" suggestion under a message.
func HintLine(w io.Writer, declaration string) {
	fmt.Fprintln(w, "    "+hintStyle.Render("did you mean")+" '"+declaration+"'?")
}

func SummaryLine(w io.Writer, files, bound, unbound int) {
	line := fmt.Sprintf("linked %d files: %d bound, %d unbound", files, bound, unbound)
	if unbound > 0 {
		fmt.Fprintln(w, errStyle.Render(line))
		return
	}
	fmt.Fprintln(w, okStyle.Render(line))
}

// StatusLine prints one status count of a run.
func StatusLine(w io.Writer, status string, count int) {
	fmt.Fprintf(w, "  %s: %d\n", statusStyle(status).Render(status), count)
}

// ListRow prints one recorded binding with padded columns.
func ListRow(w io.Writer, id int64, location, step, status string, idWidth, locWidth, stepWidth int) {
	tag := fmt.Sprintf("@ftl:%d", id)
	fmt.Fprintf(w, "%-*s  %-*s  %-*s  %s\n",
		idWidth, tag, locWidth, location, stepWidth, step, statusStyle(status).Render(status))
}

// ShowHeader prints the heading of the show command.
func ShowHeader(w io.Writer, id int64, location string) {
	fmt.Fprintln(w, boldStyle.Render(fmt.Sprintf("@ftl:%d", id))+"  "+faintStyle.Render(location))
}

// ShowField prints a labelled value.
func ShowField(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", faintStyle.Render(label+":"), value)
}

func ShowStatus(w io.Writer, status string) {
	ShowField(w, "Status", statusStyle(status).Render(status))
}

// DefinitionLine prints a step definition and where it comes from.
func DefinitionLine(w io.Writer, declaration, location, description string) {
	line := boldStyle.Render(declaration) + "  " + faintStyle.Render(location)
	if description != "" {
		line += "  " + faintStyle.Render("("+description+")")
	}
	fmt.Fprintln(w, line)
}

// MatchLine prints a completion candidate.
func MatchLine(w io.Writer, declaration string, exact bool, matched int) {
	kind := faintStyle.Render("partial")
	if exact {
		kind = okStyle.Render("exact  ")
	}
	fmt.Fprintf(w, "%s  %s  %s\n", kind, declaration, faintStyle.Render(fmt.Sprintf("%d tokens", matched)))
}

// ComponentHeader prints a resolved component heading.
func ComponentHeader(w io.Writer, name, inherits string, traits []string) {
	line := boldStyle.Render(name)
	if inherits != "" {
		line += faintStyle.Render(" inherits ") + inherits
	}
	if len(traits) > 0 {
		line += faintStyle.Render(" traits ") + strings.Join(traits, ", ")
	}
	fmt.Fprintln(w, line)
}

// ComponentItem prints an indented method or step of a component.
func ComponentItem(w io.Writer, kind, text, origin string) {
	line := "  " + faintStyle.Render(fmt.Sprintf("%-6s", kind)) + " " + text
	if origin != "" {
		line += "  " + faintStyle.Render("("+origin+")")
	}
	fmt.Fprintln(w, line)
}
