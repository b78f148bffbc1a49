package fv1

import (
	"fmt"
	"math"
	"slices"
)

type intField struct {
	name     string
	min, max int64
	hex      bool
}

var intFields = map[argKind]intField{
	argRegister:  {"Register", 0, 63, true},
	argAddress:   {"Address", 0, DelaySize - 1, false},
	argMask:      {"Mask", -(1 << 24), 1<<24 - 1, true},
	argCondition: {"Condition", 0, 0x1f, true},
	argSkip:      {"Offset", 0, MaxSkip, false},
	argSinLFO:    {"LFO", 0, 1, false},
	argRampLFO:   {"LFO", 0, 3, false},
	argSinFreq:   {"Frequency", 0, 511, false},
	argSinAmp:    {"Amplitude", 0, DelaySize - 1, false},
	argRampFreq:  {"Frequency", -16384, DelaySize - 1, false},
	argChoLFO:    {"LFO", 0, 3, false},
	argChoFlags:  {"Flags", 0, 0x3f, true},
	argRaw:       {"Value", 0, math.MaxUint32, true},
}

var rampAmplitudes = []int64{512, 1024, 2048, 4096}

func (a *Assembler) operand(op string, kind argKind) {
	if kind == argSkip && a.sym.Kind == Label {
		if _, ok := a.symbols[a.sym.Name]; !ok {
			a.skips = append(a.skips, pendingSkip{
				target: a.sym.Name,
				text:   a.sym.Text,
				icnt:   a.icnt,
				line:   a.sym.Line,
			})
			a.advance()
			return
		}
	}

	first := a.sym
	before := a.consumed
	v := a.expression()
	single := a.consumed-before == 1

	if field, ok := realFields[kind]; ok {
		if a.spinreals && single && first.Kind == Integer && (first.Text == "1" || first.Text == "2") {
			v = Real(v.Float())
		}
		a.checkReal(op, field.name, field.min, field.max, field.bits, v)
		return
	}

	a.checkInt(op, kind, v)
}

func (a *Assembler) checkReal(op, name string, lo, hi float64, bits uint, v Value) {
	if !v.IsReal() {
		raw := v.Int()
		if raw < -(int64(1)<<(bits-1)) || raw > int64(1)<<bits-1 {
			a.parseError(fmt.Sprintf("Value %s out of range for %s", v, op))
		}
		return
	}

	x := v.Float()
	if x >= lo && x <= hi {
		return
	}
	if a.clamp {
		a.parseWarning(fmt.Sprintf("%s value %s clamped to %s for %s", name, v, Real(math.Max(lo, math.Min(hi, x))), op))
		return
	}
	a.parseError(fmt.Sprintf("%s value %s out of range for %s", name, v, op))
}

func (a *Assembler) checkInt(op string, kind argKind, v Value) {
	n := v.Int()

	if kind == argRampAmp {
		if !slices.Contains(rampAmplitudes, n) {
			a.parseError(fmt.Sprintf("Invalid amplitude %d for %s", n, op))
		}
		return
	}

	field := intFields[kind]
	if n >= field.min && n <= field.max {
		return
	}

	text := fmt.Sprintf("%d", n)
	if field.hex && n >= 0 {
		text = fmt.Sprintf("0x%02x", n)
	}
	a.parseError(fmt.Sprintf("%s %s out of range for %s", field.name, text, op))
}
