// Package diagnostic turns evaluator problem reports into document diagnostics.
package diagnostic

import (
	"fmt"

	"github.com/walteh/spinasm-lsp/pkg/position"
)

// Source tags every diagnostic produced here.
const Source = "SPINAsm"

// Severity uses the LSP numbering.
type Severity int

const (
	Error Severity = iota + 1
	Warning
	Information
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Information:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Diagnostic is a single problem found in a document.
type Diagnostic struct {
	Message  string
	Range    position.Range
	Severity Severity
	Source   string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d:%d: %s: %s", d.Range.Start.Line+1, d.Range.Start.Character+1, d.Severity, d.Message)
}

// Cursor is the scan state a report is positioned against.
type Cursor interface {
	// Column is the start column of the last symbol scanned.
	Column() int
	// PrevLine is the 1-indexed line of the symbol before the current one.
	PrevLine() int
}

// Collector accumulates diagnostics in report order. It implements fv1.Reporter.
type Collector struct {
	cursor      Cursor
	diagnostics []Diagnostic
}

func NewCollector(cursor Cursor) *Collector {
	return &Collector{cursor: cursor}
}

func (c *Collector) ParseError(msg string, line int) {
	c.add(msg, c.parseLine(line), Error)
}

func (c *Collector) ParseWarning(msg string, line int) {
	c.add(msg, c.parseLine(line), Warning)
}

// ScanError is only ever raised with the line being scanned.
func (c *Collector) ScanError(msg string, line int) {
	c.add(msg, line-1, Error)
}

// Diagnostics returns everything collected so far.
func (c *Collector) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(c.diagnostics))
	copy(out, c.diagnostics)
	return out
}

func (c *Collector) parseLine(line int) int {
	if line == 0 {
		line = c.cursor.PrevLine()
	}
	return line - 1
}

func (c *Collector) add(msg string, line int, severity Severity) {
	place := position.Place{Line: max(line, 0), Character: c.cursor.Column()}
	c.diagnostics = append(c.diagnostics, Diagnostic{
		Message:  msg,
		Range:    position.Point(place),
		Severity: severity,
		Source:   Source,
	})
}
