package diagnostic_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/walteh/spinasm-lsp/pkg/diagnostic"
	"github.com/walteh/spinasm-lsp/pkg/position"
)

type cursor struct {
	column   int
	prevLine int
}

func (c *cursor) Column() int   { return c.column }
func (c *cursor) PrevLine() int { return c.prevLine }

func TestCollector(t *testing.T) {
	tests := []struct {
		name   string
		cursor cursor
		report func(c *diagnostic.Collector)
		want   diagnostic.Diagnostic
	}{
		{
			name:   "parse error defaults to previous line",
			cursor: cursor{column: 7, prevLine: 1},
			report: func(c *diagnostic.Collector) { c.ParseError("Undefined label a", 0) },
			want: diagnostic.Diagnostic{
				Message:  "Undefined label a",
				Range:    position.NewRange(0, 7, 7),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			},
		},
		{
			name:   "explicit line wins",
			cursor: cursor{column: 3, prevLine: 9},
			report: func(c *diagnostic.Collector) { c.ParseError("Undefined target x", 4) },
			want: diagnostic.Diagnostic{
				Message:  "Undefined target x",
				Range:    position.NewRange(3, 3, 3),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			},
		},
		{
			name:   "warning",
			cursor: cursor{column: 9, prevLine: 1},
			report: func(c *diagnostic.Collector) { c.ParseWarning("Label REG0 re-defined", 0) },
			want: diagnostic.Diagnostic{
				Message:  "Label REG0 re-defined",
				Range:    position.NewRange(0, 9, 9),
				Severity: diagnostic.Warning,
				Source:   "SPINAsm",
			},
		},
		{
			name:   "scan error uses its own line",
			cursor: cursor{column: 2, prevLine: 7},
			report: func(c *diagnostic.Collector) { c.ScanError("Unrecognised input @", 3) },
			want: diagnostic.Diagnostic{
				Message:  "Unrecognised input @",
				Range:    position.NewRange(2, 2, 2),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			},
		},
		{
			name:   "nothing scanned yet",
			cursor: cursor{},
			report: func(c *diagnostic.Collector) { c.ParseError("Unexpected input ,", 0) },
			want: diagnostic.Diagnostic{
				Message:  "Unexpected input ,",
				Range:    position.NewRange(0, 0, 0),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := diagnostic.NewCollector(&tt.cursor)
			tt.report(c)
			assert.Equal(t, []diagnostic.Diagnostic{tt.want}, c.Diagnostics())
		})
	}
}

func TestCollectorKeepsOrder(t *testing.T) {
	cur := &cursor{column: 1, prevLine: 1}
	c := diagnostic.NewCollector(cur)
	c.ParseError("first", 0)
	cur.column, cur.prevLine = 4, 2
	c.ParseWarning("second", 0)
	c.ParseError("third", 1)

	got := c.Diagnostics()
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"first", "second", "third"}, []string{got[0].Message, got[1].Message, got[2].Message})
	assert.Equal(t, position.NewRange(1, 4, 4), got[1].Range)
	assert.Equal(t, position.NewRange(0, 4, 4), got[2].Range)
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "error", diagnostic.Error.String())
	assert.Equal(t, "warning", diagnostic.Warning.String())
	assert.Equal(t, "1:8: error: Undefined label a", diagnostic.Diagnostic{
		Message:  "Undefined label a",
		Range:    position.NewRange(0, 7, 7),
		Severity: diagnostic.Error,
	}.String())
}
