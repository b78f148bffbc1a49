package analysis_test

import (
	"bytes"
	"context"
	"os"
	"slices"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/diagnostic"
	"github.com/walteh/spinasm-lsp/pkg/diff"
	"github.com/walteh/spinasm-lsp/pkg/fv1"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

func at(line, character int) position.Place {
	return position.Place{Line: line, Character: character}
}

func parseFile(t *testing.T, name string) *analysis.Result {
	t.Helper()
	src, err := os.ReadFile("testdata/" + name)
	require.NoError(t, err)
	return analysis.Parse(context.Background(), string(src), analysis.DefaultOptions())
}

func TestParseReverb(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	assert.Empty(t, res.Diagnostics)
	assert.False(t, res.HasErrors())
	assert.Equal(t, map[string]int{"ENDCLR": 2}, res.Jumps)
	assert.Equal(t, fv1.Block{Start: 335, Size: 556}, res.Memory["AP2"])
	assert.True(t, res.IsBuiltin("REG0"))
	assert.False(t, res.IsBuiltin("KRT"))
}

func TestSemanticTokens(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []uint32
	}{
		{
			name:   "variable definition",
			source: "Delay MEM REG0",
			want: []uint32{
				0, 0, 5, 8, 0b10,
				0, 6, 3, 21, 0b0,
				0, 4, 4, 8, 0b1000000100,
			},
		},
		{
			name:   "label and opcode",
			source: "start:\nsof 0,0",
			want: []uint32{
				0, 0, 5, 0, 0b10,
				1, 0, 3, 12, 0b0,
				0, 4, 1, 19, 0b0,
				0, 1, 1, 21, 0b0,
				0, 1, 1, 19, 0b0,
			},
		},
		{
			name:   "merged cho",
			source: "CHO RDAL, SIN0",
			want: []uint32{
				0, 0, 8, 12, 0b0,
				0, 8, 1, 21, 0b0,
				0, 2, 4, 8, 0b1000000100,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analysis.Parse(context.Background(), tt.source, analysis.DefaultOptions())
			got := res.SemanticTokens()
			if d := diff.Values(tt.want, got); d != "" {
				t.Fatalf("unexpected semantic tokens: %s", d)
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   []diagnostic.Diagnostic
	}{
		{
			name:   "undefined label",
			source: "SOF 0, a\n",
			want: []diagnostic.Diagnostic{{
				Message:  "Undefined label a",
				Range:    position.NewRange(0, 7, 7),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			}},
		},
		{
			name:   "undefined label on a later line",
			source: "CLR\nSOF 0,a",
			want: []diagnostic.Diagnostic{{
				Message:  "Undefined label a",
				Range:    position.NewRange(1, 6, 6),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			}},
		},
		{
			name:   "redefined builtin",
			source: "REG0 EQU 4",
			want: []diagnostic.Diagnostic{{
				Message:  "Label REG0 re-defined",
				Range:    position.NewRange(0, 9, 9),
				Severity: diagnostic.Warning,
				Source:   "SPINAsm",
			}},
		},
		{
			name:   "register out of range",
			source: "MULX 100",
			want: []diagnostic.Diagnostic{{
				Message:  "Register 0x64 out of range for MULX",
				Range:    position.NewRange(0, 5, 5),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			}},
		},
		{
			// the scanner has already moved on to the next line
			name:   "register out of range before another line",
			source: "MULX 100\nCLR",
			want: []diagnostic.Diagnostic{{
				Message:  "Register 0x64 out of range for MULX",
				Range:    position.NewRange(0, 0, 0),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			}},
		},
		{
			name:   "undefined skip target",
			source: "CLR\nSKP RUN, nowhere\nCLR\n",
			want: []diagnostic.Diagnostic{{
				Message:  "Undefined target nowhere",
				Range:    position.NewRange(1, 0, 0),
				Severity: diagnostic.Error,
				Source:   "SPINAsm",
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := analysis.Parse(context.Background(), tt.source, analysis.DefaultOptions())
			assert.Equal(t, tt.want, res.Diagnostics)
		})
	}
}

func TestTokenAt(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	tests := []struct {
		name     string
		place    position.Place
		wantText string
		wantKind token.Kind
		found    bool
	}{
		{name: "directive", place: at(3, 0), wantText: "MEM", wantKind: token.Assembler, found: true},
		{name: "inside a name", place: at(8, 6), wantText: "APOUT", wantKind: token.Label, found: true},
		{name: "end of a name", place: at(8, 9), wantText: "APOUT", wantKind: token.Label, found: true},
		{name: "address modifier", place: at(21, 7), wantText: "AP1#", wantKind: token.Label, found: true},
		{name: "target", place: at(13, 3), wantText: "ENDCLR", wantKind: token.Target, found: true},
		{name: "merged cho start", place: at(33, 0), wantText: "CHO RDA", wantKind: token.Mnemonic, found: true},
		{name: "merged cho gap", place: at(33, 3), wantText: "CHO RDA", wantKind: token.Mnemonic, found: true},
		{name: "merged cho end", place: at(33, 6), wantText: "CHO RDA", wantKind: token.Mnemonic, found: true},
		{name: "operator", place: at(33, 18), wantText: "|", wantKind: token.Operator, found: true},
		{name: "comment line", place: at(0, 4), found: false},
		{name: "blank line", place: at(2, 0), found: false},
		{name: "after the last token", place: at(12, 20), found: false},
		{name: "past the end", place: at(99, 0), found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := res.TokenAt(tt.place)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.wantText, tok.Text)
			assert.Equal(t, tt.wantKind, tok.Kind)
		})
	}
}

func TestChoTypeOnNextLine(t *testing.T) {
	res := analysis.Parse(context.Background(), "CHO\nRDA 0, 0\n", analysis.DefaultOptions())

	tok, ok := res.TokenAt(at(0, 0))
	require.True(t, ok)
	assert.Equal(t, "CHO", tok.Text)
	assert.Equal(t, token.Mnemonic, tok.Kind)

	tok, ok = res.TokenAt(at(1, 0))
	require.True(t, ok)
	assert.Equal(t, "RDA", tok.Text)
	assert.Equal(t, token.Mnemonic, tok.Kind)

	require.Len(t, res.Diagnostics, 1)
	assert.Equal(t, "Expected CHO type but got RDA", res.Diagnostics[0].Message)
}

func TestEvaluatedValues(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	tests := []struct {
		name         string
		place        position.Place
		wantValue    fv1.Value
		wantConstant bool
		wantLabel    bool
	}{
		{name: "memory", place: at(4, 5), wantValue: fv1.Int(335)},
		{name: "memory end", place: at(23, 5), wantValue: fv1.Int(891)},
		{name: "memory middle", place: at(33, 31), wantValue: fv1.Int(892 + 1234)},
		{name: "register alias", place: at(8, 5), wantValue: fv1.Int(0x21)},
		{name: "real", place: at(9, 5), wantValue: fv1.Real(0.6)},
		{name: "builtin", place: at(7, 9), wantValue: fv1.Int(0x20), wantConstant: true},
		{name: "label", place: at(11, 10), wantValue: fv1.Int(2), wantLabel: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tok, ok := res.TokenAt(tt.place)
			require.True(t, ok)
			require.NotNil(t, tok.Value)
			assert.Equal(t, tt.wantValue, *tok.Value)
			assert.Equal(t, tt.wantConstant, tok.Constant)
			assert.Equal(t, tt.wantLabel, tok.IsLabel)
		})
	}
}

func TestDefinition(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	tests := []struct {
		name  string
		place position.Place
		want  position.Range
		found bool
	}{
		{name: "use of memory", place: at(22, 6), want: position.NewRange(3, 4, 7), found: true},
		{name: "address modifier use", place: at(21, 5), want: position.NewRange(3, 4, 7), found: true},
		{name: "forward jump", place: at(11, 10), want: position.NewRange(13, 0, 6), found: true},
		{name: "definition itself", place: at(8, 4), want: position.NewRange(8, 4, 9), found: true},
		{name: "builtin", place: at(7, 9), found: false},
		{name: "mnemonic", place: at(28, 1), found: false},
		{name: "whitespace", place: at(10, 0), found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := res.Definition(tt.place)
			require.Equal(t, tt.found, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReferences(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	assert.Equal(t, []position.Range{
		position.NewRange(8, 4, 9),
		position.NewRange(12, 5, 10),
		position.NewRange(25, 5, 10),
		position.NewRange(29, 5, 10),
	}, res.References(at(29, 7)))

	assert.Equal(t, []position.Range{
		position.NewRange(5, 4, 7),
		position.NewRange(27, 4, 7),
		position.NewRange(30, 4, 7),
		position.NewRange(33, 30, 33),
	}, res.References(at(33, 32)))

	assert.Nil(t, res.References(at(3, 1)))
	assert.Nil(t, res.References(at(2, 0)))
}

func TestRenameMemoryAliases(t *testing.T) {
	source := "Delay MEM 1024\nrda Delay#, 0.5\nwra Delay, 0\n"
	res := analysis.Parse(context.Background(), source, analysis.DefaultOptions())
	require.Empty(t, res.Diagnostics)

	named := res.Tokens.Named("delay")
	require.Len(t, named, 3)
	assert.Equal(t, []int{0, 1, 2}, []int{named[0].Range.Start.Line, named[1].Range.Start.Line, named[2].Range.Start.Line})
	assert.Equal(t, named, res.Tokens.Named("DELAY#"))

	for _, place := range []position.Place{at(0, 2), at(1, 9), at(2, 4)} {
		edits, err := res.Rename(context.Background(), place, "Echo")
		require.NoError(t, err)
		assert.Equal(t, []analysis.Edit{
			{Range: position.NewRange(0, 0, 5), NewText: "Echo"},
			{Range: position.NewRange(1, 4, 9), NewText: "Echo"},
			{Range: position.NewRange(2, 4, 9), NewText: "Echo"},
		}, edits, place.String())
	}

	renamed := source
	edits, err := res.Rename(context.Background(), at(1, 4), "Echo")
	require.NoError(t, err)
	for _, edit := range slices.Backward(edits) {
		renamed = position.ReplaceRange(renamed, edit.Range, edit.NewText)
	}
	assert.Equal(t, "Echo MEM 1024\nrda Echo#, 0.5\nwra Echo, 0\n", renamed)

	again := analysis.Parse(context.Background(), renamed, analysis.DefaultOptions())
	assert.Len(t, again.Tokens.Named("ECHO"), 3)
	assert.Empty(t, again.Tokens.Named("DELAY"))
}

func TestPrepareRename(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	tests := []struct {
		name    string
		place   position.Place
		wantErr error
		wantLog string
		want    string
	}{
		{name: "directive", place: at(3, 0), wantErr: analysis.ErrNotUserDefined, wantLog: "Can't rename non-user defined token MEM."},
		{name: "builtin", place: at(7, 10), wantErr: analysis.ErrNotUserDefined, wantLog: "Can't rename non-user defined token REG0."},
		{name: "whitespace", place: at(6, 0), wantErr: analysis.ErrNoToken},
		{name: "memory", place: at(3, 4), want: "AP1"},
		{name: "aliased memory", place: at(21, 6), want: "AP1"},
		{name: "jump", place: at(11, 12), want: "ENDCLR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			ctx := zerolog.New(&buf).WithContext(context.Background())

			tok, err := res.PrepareRename(ctx, tt.place)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				if tt.wantErr == analysis.ErrNoToken {
					assert.False(t, errors.Is(err, analysis.ErrNotUserDefined))
				}
				if tt.wantLog != "" {
					assert.Contains(t, buf.String(), tt.wantLog)
					assert.Contains(t, buf.String(), `"level":"info"`)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, tok.Text)
			assert.Empty(t, buf.String())
		})
	}
}

func TestDocumentSymbols(t *testing.T) {
	res := parseFile(t, "reverb.spn")

	assert.Equal(t, []analysis.Symbol{
		{Name: "AP1", Range: position.NewRange(3, 4, 7)},
		{Name: "AP2", Range: position.NewRange(4, 4, 7)},
		{Name: "LAP", Range: position.NewRange(5, 4, 7)},
		{Name: "KRT", Range: position.NewRange(7, 4, 7)},
		{Name: "APOUT", Range: position.NewRange(8, 4, 9)},
		{Name: "KAP", Range: position.NewRange(9, 4, 7)},
		{Name: "ENDCLR", Range: position.NewRange(13, 0, 6), IsLabel: true},
	}, res.DocumentSymbols())
}

func TestPartialInput(t *testing.T) {
	sources := []string{
		"",
		"cho",
		"cho rda,",
		"equ",
		"Delay mem",
		"sof (1 +",
		"start:\nskp run,",
		"rda Delay#",
		"\n\n\n",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			var res *analysis.Result
			require.NotPanics(t, func() {
				res = analysis.Parse(context.Background(), src, analysis.DefaultOptions())
			})
			for range res.Tokens.All() {
			}
			assert.NotPanics(t, func() { res.SemanticTokens() })
		})
	}
}

func TestParseIsRepeatable(t *testing.T) {
	src, err := os.ReadFile("testdata/reverb.spn")
	require.NoError(t, err)

	a := analysis.Parse(context.Background(), string(src), analysis.DefaultOptions())
	b := analysis.Parse(context.Background(), string(src), analysis.DefaultOptions())

	assert.NotSame(t, a, b)
	assert.Equal(t, slices.Collect(a.Tokens.All()), slices.Collect(b.Tokens.All()))
	assert.Equal(t, a.Definitions, b.Definitions)
	assert.Equal(t, a.Diagnostics, b.Diagnostics)
	assert.Equal(t, a.SemanticTokens(), b.SemanticTokens())
}

func TestCache(t *testing.T) {
	ctx := context.Background()
	cache := analysis.NewCache()

	first := cache.Parse(ctx, "CLR", analysis.DefaultOptions())
	assert.Same(t, first, cache.Parse(ctx, "CLR", analysis.DefaultOptions()))

	other := cache.Parse(ctx, "CLR", analysis.Options{Clamp: false})
	assert.NotSame(t, first, other)

	changed := cache.Parse(ctx, "NOP", analysis.Options{Clamp: false})
	assert.NotSame(t, other, changed)
	assert.NotSame(t, first, cache.Parse(ctx, "CLR", analysis.DefaultOptions()))
}
