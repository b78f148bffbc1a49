package docs

import (
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Justify aligns a table column.
type Justify int

const (
	Left Justify = iota
	Center
	Right
)

func (j Justify) separator() string {
	switch j {
	case Center:
		return ":-:"
	case Right:
		return "-:"
	default:
		return ":-"
	}
}

// Table is a markdown pipe table.
type Table struct {
	columns []string
	rows    [][]string
	justify []Justify
}

// NewTable checks that every row and the justification match the columns.
// Columns are left justified unless told otherwise.
func NewTable(columns []string, rows [][]string, justify ...Justify) (*Table, error) {
	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, errors.Errorf("row %d has %d cells, want %d", i, len(row), len(columns))
		}
	}
	if justify == nil {
		justify = make([]Justify, len(columns))
	}
	if len(justify) != len(columns) {
		return nil, errors.Errorf("got %d justifications for %d columns", len(justify), len(columns))
	}
	return &Table{columns: columns, rows: rows, justify: justify}, nil
}

func (t *Table) String() string {
	seps := make([]string, len(t.justify))
	for i, j := range t.justify {
		seps[i] = j.separator()
	}

	lines := []string{strings.Join(t.columns, " | "), strings.Join(seps, " | ")}
	for _, row := range t.rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return strings.Join(lines, "\n")
}

// Markdown builds a document one block at a time. The first error sticks and
// later calls are ignored.
type Markdown struct {
	sb  strings.Builder
	err error
}

func (m *Markdown) block(s string) *Markdown {
	if m.err == nil {
		m.sb.WriteString("\n" + s + "\n")
	}
	return m
}

func (m *Markdown) Heading(title string, level int) *Markdown {
	if level < 1 || level > 4 {
		if m.err == nil {
			m.err = errors.Errorf("heading level %d out of range 1-4", level)
		}
		return m
	}
	return m.block(strings.Repeat("#", level) + " " + title)
}

func (m *Markdown) Rule() *Markdown {
	return m.block(strings.Repeat("-", 24))
}

func (m *Markdown) Paragraph(s string) *Markdown {
	return m.block(s)
}

func (m *Markdown) Table(columns []string, rows [][]string) *Markdown {
	t, err := NewTable(columns, rows)
	if err != nil {
		if m.err == nil {
			m.err = errors.Errorf("building table: %w", err)
		}
		return m
	}
	return m.block(t.String())
}

func (m *Markdown) CodeBlock(source, language string) *Markdown {
	return m.block("```" + language + "\n" + source + "\n```")
}

func (m *Markdown) Err() error {
	return m.err
}

func (m *Markdown) String() string {
	return m.sb.String()
}
