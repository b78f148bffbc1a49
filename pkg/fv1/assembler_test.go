package fv1_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/spinasm-lsp/pkg/fv1"
)

type report struct {
	Severity string
	Message  string
	Line     int
}

type recorder struct {
	reports []report
}

func (r *recorder) ParseError(msg string, line int) {
	r.reports = append(r.reports, report{"error", msg, line})
}

func (r *recorder) ParseWarning(msg string, line int) {
	r.reports = append(r.reports, report{"warning", msg, line})
}

func (r *recorder) ScanError(msg string, line int) {
	r.reports = append(r.reports, report{"scan", msg, line})
}

type symbolLog struct {
	symbols []fv1.Symbol
}

func (s *symbolLog) Advance(sym fv1.Symbol, _ fv1.Tables) {
	s.symbols = append(s.symbols, sym)
}

func assemble(t *testing.T, source string, opts ...fv1.Option) (*fv1.Assembler, *recorder) {
	t.Helper()
	rec := &recorder{}
	asm := fv1.New(source, append([]fv1.Option{fv1.WithReporter(rec)}, opts...)...)
	asm.Parse()
	return asm, rec
}

func TestChoTypeStaysOnItsLine(t *testing.T) {
	log := &symbolLog{}
	asm := fv1.New("CHO\nRDA 0, 0\nCHO\nsin0 EQU 1\n", fv1.WithObserver(log))
	asm.Parse()

	kinds := map[string]fv1.Kind{}
	for _, s := range log.symbols {
		kinds[s.Name] = s.Kind
	}
	assert.Equal(t, fv1.Mnemonic, kinds["RDA"])
	assert.Equal(t, fv1.Label, kinds["SIN0"])
	assert.Equal(t, fv1.Directive, kinds["EQU"])
}

func TestScanKinds(t *testing.T) {
	log := &symbolLog{}
	asm := fv1.New("start: cho rda, SIN0, $3f, delay^ ; comment\nDelay MEM 0x10 * 2\n", fv1.WithObserver(log))
	asm.Parse()

	type sym struct {
		Kind   fv1.Kind
		Name   string
		Line   int
		Column int
	}
	var got []sym
	for _, s := range log.symbols {
		got = append(got, sym{s.Kind, s.Name, s.Line, s.Column})
	}

	assert.Equal(t, []sym{
		{fv1.Target, "START", 1, 0},
		{fv1.Mnemonic, "CHO", 1, 7},
		{fv1.Label, "RDA", 1, 11},
		{fv1.ArgSep, ",", 1, 14},
		{fv1.Label, "SIN0", 1, 16},
		{fv1.ArgSep, ",", 1, 20},
		{fv1.Integer, "$3F", 1, 22},
		{fv1.ArgSep, ",", 1, 25},
		{fv1.Label, "DELAY^", 1, 27},
		{fv1.Label, "DELAY", 2, 0},
		{fv1.Directive, "MEM", 2, 6},
		{fv1.Integer, "0X10", 2, 10},
		{fv1.Operator, "*", 2, 15},
		{fv1.Integer, "2", 2, 17},
		{fv1.EOF, "", 3, 0},
	}, got)
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		name   string
		source string
		want   fv1.Value
	}{
		{name: "decimal", source: "X EQU 42", want: fv1.Int(42)},
		{name: "dollar hex", source: "X EQU $7fFF", want: fv1.Int(0x7fff)},
		{name: "c hex", source: "X EQU 0x1F", want: fv1.Int(0x1f)},
		{name: "binary", source: "X EQU %1010_0101", want: fv1.Int(0xa5)},
		{name: "float", source: "X EQU 0.25", want: fv1.Real(0.25)},
		{name: "exponent", source: "X EQU 1e-3", want: fv1.Real(0.001)},
		{name: "precedence", source: "X EQU 1 + 2 * 3", want: fv1.Int(7)},
		{name: "parentheses", source: "X EQU (1 + 2) * 3", want: fv1.Int(9)},
		{name: "true division", source: "X EQU 7 / 2", want: fv1.Real(3.5)},
		{name: "floor division", source: "X EQU -7 // 2", want: fv1.Int(-4)},
		{name: "power binds right of unary", source: "X EQU -2 ** 2", want: fv1.Int(-4)},
		{name: "shift and or", source: "X EQU 1 << 4 | 1", want: fv1.Int(17)},
		{name: "xor", source: "X EQU 6 ^ 3", want: fv1.Int(5)},
		{name: "invert", source: "X EQU ~0 & $ff", want: fv1.Int(0xff)},
		{name: "builtin reference", source: "X EQU REG3 + 1", want: fv1.Int(0x24)},
		{name: "mixed real", source: "X EQU 2 * 0.5", want: fv1.Real(1.0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, rec := assemble(t, tt.source)
			require.Empty(t, rec.reports)
			got, ok := asm.Symbol("X")
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDirectives(t *testing.T) {
	asm, rec := assemble(t, "Delay MEM 100\nMEM tap 9\nEQU gain 0.5\nmono equ reg0\n")
	require.Empty(t, rec.reports)

	for name, want := range map[string]fv1.Value{
		"DELAY":  fv1.Int(0),
		"DELAY^": fv1.Int(50),
		"DELAY#": fv1.Int(100),
		"TAP":    fv1.Int(101),
		"TAP^":   fv1.Int(105),
		"TAP#":   fv1.Int(110),
		"GAIN":   fv1.Real(0.5),
		"MONO":   fv1.Int(0x20),
	} {
		got, ok := asm.Symbol(name)
		require.True(t, ok, name)
		assert.Equal(t, want, got, name)
	}

	assert.Equal(t, map[string]fv1.Block{
		"DELAY": {Start: 0, Size: 100},
		"TAP":   {Start: 101, Size: 9},
	}, asm.Memory())
	assert.False(t, asm.IsBuiltin("MONO"))
	assert.True(t, asm.IsBuiltin("REG0"))
	assert.Contains(t, asm.Builtins(), "ADDR_PTR")
}

func TestTargets(t *testing.T) {
	asm, rec := assemble(t, "skp run, endclr\nclr\nwrax reg0, 0\nendclr:\nsof 0, 0\n")
	require.Empty(t, rec.reports)

	jump, ok := asm.Jump("ENDCLR")
	require.True(t, ok)
	assert.Equal(t, 3, jump)
	assert.Equal(t, 4, asm.Instructions())
}

func TestReports(t *testing.T) {
	tests := []struct {
		name   string
		source string
		opts   []fv1.Option
		want   []report
	}{
		{
			name:   "undefined label",
			source: "SOF 0, a\n",
			want:   []report{{"error", "Undefined label a", 0}},
		},
		{
			name:   "redefined builtin",
			source: "REG0 EQU 4",
			want:   []report{{"warning", "Label REG0 re-defined", 0}},
		},
		{
			name:   "register out of range",
			source: "MULX 100",
			want:   []report{{"error", "Register 0x64 out of range for MULX", 0}},
		},
		{
			name:   "address out of range",
			source: "RDA 40000, 0.5",
			want:   []report{{"error", "Address 40000 out of range for RDA", 0}},
		},
		{
			name:   "clamped real",
			source: "SOF 2.5, 0",
			opts:   []fv1.Option{fv1.WithClamp(true)},
			want:   []report{{"warning", "S1.14 value 2.5 clamped to 1.99993896484375 for SOF", 0}},
		},
		{
			name:   "unclamped real",
			source: "SOF 0, -1.5",
			want:   []report{{"error", "S.10 value -1.5 out of range for SOF", 0}},
		},
		{
			name:   "integer literal is raw",
			source: "SOF 0, 1",
			want:   nil,
		},
		{
			name:   "spinreals",
			source: "SOF 0, 1",
			opts:   []fv1.Option{fv1.WithSpinReals(true)},
			want:   []report{{"error", "S.10 value 1.0 out of range for SOF", 0}},
		},
		{
			name:   "spinreals ignores expressions",
			source: "SOF 0, 0 + 1",
			opts:   []fv1.Option{fv1.WithSpinReals(true)},
			want:   nil,
		},
		{
			name:   "missing separator",
			source: "RDAX ADCL 0.5",
			want:   []report{{"error", "Expected , in RDAX but got 0.5", 0}, {"error", "Unexpected input 0.5", 0}},
		},
		{
			name:   "missing operand",
			source: "SOF 0,",
			want:   []report{{"error", "Expected value but got end of file", 0}},
		},
		{
			name:   "unrecognised input",
			source: "CLR\nSOF 0, 0 @",
			want:   []report{{"scan", "Unrecognised input @", 2}},
		},
		{
			name:   "backward skip",
			source: "loop:\nclr\nskp run, loop\n",
			want:   []report{{"error", "Target loop does not follow SKP", 3}},
		},
		{
			name:   "undefined skip target",
			source: "skp run, nowhere\n",
			want:   []report{{"error", "Undefined target nowhere", 1}},
		},
		{
			name:   "ramp amplitude",
			source: "WLDR RMP0, 100, 300",
			want:   []report{{"error", "Invalid amplitude 300 for WLDR", 0}},
		},
		{
			name:   "invalid cho type",
			source: "CHO WAT, SIN0",
			want:   []report{{"error", "Invalid CHO type WAT", 0}, {"error", "Unexpected input ,", 0}, {"error", "Expected EQU or MEM after SIN0 but got end of file", 0}},
		},
		{
			name:   "cho type on next line",
			source: "cho\nrda 0, 0",
			want:   []report{{"error", "Expected CHO type but got rda", 0}},
		},
		{
			name:   "cho rdal optional flags",
			source: "CHO RDAL, SIN0\nCHO RDAL, RMP0, COMPC",
			want:   nil,
		},
		{
			name:   "delay exhausted",
			source: "big MEM 40000",
			want:   []report{{"error", "Delay exhausted: requested 40000 exceeds 32768 available", 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rec := assemble(t, tt.source, tt.opts...)
			assert.Equal(t, tt.want, rec.reports)
		})
	}
}

func TestParseNeverPanicsOnPartialInput(t *testing.T) {
	sources := []string{
		"",
		"CHO",
		"CHO RDA,",
		"EQU",
		"Delay MEM",
		"SOF (1 +",
		"))",
		"start:",
		":::",
		"RDA delay#,",
	}

	for _, src := range sources {
		t.Run(src, func(t *testing.T) {
			assert.NotPanics(t, func() {
				assemble(t, src)
			})
		})
	}
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "32", fv1.Int(32).String())
	assert.Equal(t, "1.0", fv1.Real(1).String())
	assert.Equal(t, "0.5", fv1.Real(0.5).String())
	assert.Equal(t, "-2.0", fv1.Real(-2).String())
}
