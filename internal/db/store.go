package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chriserin/ftl/internal/elements"
	"github.com/chriserin/ftl/internal/messages"
	"github.com/chriserin/ftl/internal/project"
)

// Binding statuses.
const (
	StatusBound     = "bound"
	StatusUnbound   = "unbound"
	StatusAmbiguous = "ambiguous"
)

var ErrNoRuns = errors.New("no link runs recorded; run `ftl sync` first")

type Run struct {
	ID        string
	Files     int
	Bound     int
	Unbound   int
	Success   bool
	StartedAt time.Time
}

// Binding is one recorded step reference.
type Binding struct {
	ID               int64
	RunID            string
	File             string
	Line             int
	Column           int
	Step             string
	Status           string
	DefinitionID     string
	Definition       string
	DefinitionSource string
	Message          string
}

type Message struct {
	Source      string
	Code        messages.Code
	Severity    string
	Text        string
	StartLine   int
	StartColumn int
}

// StatusCount is the number of bindings with one status.
type StatusCount struct {
	Status string
	Count  int
}

// RecordRun stores a link report as a new run and returns its id.
func RecordRun(sqlDB *sql.DB, report *project.Report) (string, error) {
	runID := uuid.NewString()

	tx, err := sqlDB.Begin()
	if err != nil {
		return "", fmt.Errorf("beginning run: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(`INSERT INTO runs (id, files, bound, unbound, success) VALUES (?, ?, ?, ?, ?)`,
		runID, report.Files, report.Bound, report.Unbound, report.Success)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	for _, result := range report.Results {
		fileID, err := upsertFile(tx, result.Output.Path)
		if err != nil {
			return "", err
		}
		for _, ref := range result.Output.StepReferences() {
			b := bindingOf(ref)
			_, err := tx.Exec(`
				INSERT INTO bindings (run_id, file_id, line, col, step, status, definition_id, definition, definition_source, message)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, runID, fileID, b.Line, b.Column, b.Step, b.Status, b.DefinitionID, b.Definition, b.DefinitionSource, b.Message)
			if err != nil {
				return "", fmt.Errorf("inserting binding for %s:%d: %w", result.Output.Path, b.Line, err)
			}
		}
	}

	for _, m := range report.Messages {
		_, err := tx.Exec(`
			INSERT INTO messages (run_id, source, code, severity, text, start_line, start_column)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`, runID, m.Source, int(m.Code), m.Severity.String(), m.Text, m.StartLine, m.StartColumn)
		if err != nil {
			return "", fmt.Errorf("inserting message: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return runID, nil
}

func upsertFile(tx *sql.Tx, path string) (int64, error) {
	var id int64
	err := tx.QueryRow(`SELECT id FROM files WHERE file_path = ?`, path).Scan(&id)
	if err == sql.ErrNoRows {
		res, err := tx.Exec(`INSERT INTO files (file_path) VALUES (?)`, path)
		if err != nil {
			return 0, fmt.Errorf("inserting %s: %w", path, err)
		}
		return res.LastInsertId()
	} else if err != nil {
		return 0, fmt.Errorf("querying %s: %w", path, err)
	}

	if _, err := tx.Exec(`UPDATE files SET updated_at = datetime('now') WHERE id = ?`, id); err != nil {
		return 0, fmt.Errorf("updating %s: %w", path, err)
	}
	return id, nil
}

func bindingOf(ref *elements.StepReferenceElement) Binding {
	b := Binding{
		Line:   ref.Span.StartLine,
		Column: ref.Span.StartColumn,
		Step:   ref.String(),
		Status: StatusUnbound,
	}
	if binding := ref.Binding(); binding != nil {
		def := binding.Definition
		b.Status = StatusBound
		b.DefinitionID = def.ID()
		b.Definition = def.String()
		b.DefinitionSource = def.Source
	}
	if msg := ref.Message(); msg != nil {
		b.Message = msg.Text
		if msg.Code == messages.LinkerMultipleMatchingDefinitions {
			b.Status = StatusAmbiguous
		}
	}
	return b
}

// LastRun returns the most recent run.
func LastRun(sqlDB *sql.DB) (*Run, error) {
	var r Run
	var started int64
	err := sqlDB.QueryRow(`
		SELECT id, files, bound, unbound, success, CAST(strftime('%s', started_at) AS INTEGER)
		FROM runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT 1
	`).Scan(&r.ID, &r.Files, &r.Bound, &r.Unbound, &r.Success, &started)
	if err == sql.ErrNoRows {
		return nil, ErrNoRuns
	}
	if err != nil {
		return nil, fmt.Errorf("querying last run: %w", err)
	}
	r.StartedAt = time.Unix(started, 0).UTC()
	return &r, nil
}

// StatusCounts counts the bindings of a run by status, largest first.
func StatusCounts(sqlDB *sql.DB, runID string) ([]StatusCount, error) {
	rows, err := sqlDB.Query(`
		SELECT status, COUNT(*) AS cnt
		FROM bindings
		WHERE run_id = ?
		GROUP BY status
		ORDER BY cnt DESC, status
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying status counts: %w", err)
	}
	defer rows.Close()

	var counts []StatusCount
	for rows.Next() {
		var c StatusCount
		if err := rows.Scan(&c.Status, &c.Count); err != nil {
			return nil, fmt.Errorf("scanning status row: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

const bindingColumns = `
	b.id, b.run_id, f.file_path, b.line, b.col, b.step, b.status,
	b.definition_id, b.definition, b.definition_source, b.message
`

func scanBindings(rows *sql.Rows) ([]Binding, error) {
	defer rows.Close()
	var bindings []Binding
	for rows.Next() {
		var b Binding
		err := rows.Scan(&b.ID, &b.RunID, &b.File, &b.Line, &b.Column, &b.Step, &b.Status,
			&b.DefinitionID, &b.Definition, &b.DefinitionSource, &b.Message)
		if err != nil {
			return nil, fmt.Errorf("scanning binding: %w", err)
		}
		bindings = append(bindings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating bindings: %w", err)
	}
	return bindings, nil
}

// Bindings lists a run's bindings by file and line. An empty status lists
// all of them.
func Bindings(sqlDB *sql.DB, runID, status string) ([]Binding, error) {
	rows, err := sqlDB.Query(`
		SELECT `+bindingColumns+`
		FROM bindings b
		JOIN files f ON b.file_id = f.id
		WHERE b.run_id = ? AND (? = '' OR b.status = ?)
		ORDER BY f.file_path, b.line, b.col
	`, runID, status, status)
	if err != nil {
		return nil, fmt.Errorf("querying bindings: %w", err)
	}
	return scanBindings(rows)
}

// BindingByID finds one recorded binding.
func BindingByID(sqlDB *sql.DB, id int64) (*Binding, error) {
	rows, err := sqlDB.Query(`
		SELECT `+bindingColumns+`
		FROM bindings b
		JOIN files f ON b.file_id = f.id
		WHERE b.id = ?
	`, id)
	if err != nil {
		return nil, fmt.Errorf("querying binding %d: %w", id, err)
	}
	bindings, err := scanBindings(rows)
	if err != nil {
		return nil, err
	}
	if len(bindings) == 0 {
		return nil, fmt.Errorf("binding %d not found", id)
	}
	return &bindings[0], nil
}

// Usages lists the bindings of a run that bound to a definition.
func Usages(sqlDB *sql.DB, runID, definitionID string) ([]Binding, error) {
	rows, err := sqlDB.Query(`
		SELECT `+bindingColumns+`
		FROM bindings b
		JOIN files f ON b.file_id = f.id
		WHERE b.run_id = ? AND b.definition_id = ?
		ORDER BY f.file_path, b.line, b.col
	`, runID, definitionID)
	if err != nil {
		return nil, fmt.Errorf("querying usages: %w", err)
	}
	return scanBindings(rows)
}

// Messages lists the diagnostics recorded for a run.
func Messages(sqlDB *sql.DB, runID string) ([]Message, error) {
	rows, err := sqlDB.Query(`
		SELECT source, code, severity, text, start_line, start_column
		FROM messages
		WHERE run_id = ?
		ORDER BY id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying messages: %w", err)
	}
	defer rows.Close()

	var msgs []Message
	for rows.Next() {
		var m Message
		var code int
		if err := rows.Scan(&m.Source, &code, &m.Severity, &m.Text, &m.StartLine, &m.StartColumn); err != nil {
			return nil, fmt.Errorf("scanning message: %w", err)
		}
		m.Code = messages.Code(code)
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
