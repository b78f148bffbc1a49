package completion_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/completion"
)

func reverb(t *testing.T) *analysis.Result {
	t.Helper()
	src, err := os.ReadFile("../analysis/testdata/reverb.spn")
	require.NoError(t, err)
	return analysis.Parse(context.Background(), string(src), analysis.DefaultOptions())
}

func TestItems(t *testing.T) {
	items := completion.Items(reverb(t))

	tests := []struct {
		name       string
		label      string
		kind       completion.Kind
		detail     string
		docContain string
	}{
		{name: "equate", label: "APOUT", kind: completion.Variable, detail: "(variable) APOUT: Literal[33]"},
		{name: "memory", label: "LAP", kind: completion.Variable, detail: "(variable) LAP: Literal[892]"},
		{name: "builtin", label: "REG0", kind: completion.Constant, detail: "(constant) REG0: Literal[32]"},
		{name: "label", label: "ENDCLR", kind: completion.Module, detail: "(label) ENDCLR: Offset[2]"},
		{name: "opcode", label: "SOF", kind: completion.Function, detail: "(opcode)", docContain: "## `SOF C, D`"},
		{name: "multi-word opcode", label: "CHO RDA", kind: completion.Function, detail: "(opcode)", docContain: "`CHO RDA, N, C, D`"},
		{name: "assembler", label: "EQU", kind: completion.Operator, detail: "(assembler)", docContain: "**`EQU`** allows one to define symbolic operands"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var matches []completion.Item
			for _, item := range items {
				if item.Label == tt.label {
					matches = append(matches, item)
				}
			}
			require.Len(t, matches, 1)
			assert.Equal(t, tt.kind, matches[0].Kind)
			assert.Equal(t, tt.detail, matches[0].Detail)
			assert.Contains(t, matches[0].Documentation, tt.docContain)
		})
	}
}

func TestItemsAreUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, item := range completion.Items(reverb(t)) {
		assert.False(t, seen[item.Label], item.Label)
		seen[item.Label] = true
	}
	assert.False(t, seen["CHO"], "the bare stem is not an opcode")
	assert.False(t, seen["LAP#"], "address forms are typed after the base name")
	assert.False(t, seen["LAP^"])
}

func TestItemsForEmptyDocument(t *testing.T) {
	items := completion.Items(analysis.Parse(context.Background(), "", analysis.DefaultOptions()))
	require.NotEmpty(t, items)

	for _, item := range items {
		assert.NotEqual(t, completion.Variable, item.Kind, item.Label)
		assert.NotEqual(t, completion.Module, item.Kind, item.Label)
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "function", completion.Function.String())
	assert.Equal(t, "module", completion.Module.String())
	assert.Equal(t, "unknown", completion.Kind(0).String())
}
