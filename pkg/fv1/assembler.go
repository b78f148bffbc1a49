// Package fv1 scans and evaluates Spin Semiconductor FV-1 assembly.
//
// The assembler validates a program the way SpinASM does, maintaining a symbol
// table and a jump table, but never emits machine code. Problems are reported
// through a Reporter and scanning always runs to the end of the source.
package fv1

import (
	"fmt"
	"maps"
	"slices"
)

// Reporter receives problems found while assembling. A line of 0 means the
// caller did not name a line.
type Reporter interface {
	ParseError(msg string, line int)
	ParseWarning(msg string, line int)
	ScanError(msg string, line int)
}

// Tables is the live view of the assembler's symbol and jump tables.
type Tables interface {
	Symbol(name string) (Value, bool)
	Jump(name string) (int, bool)
}

// Observer sees every symbol as it becomes the current symbol, including the
// final EOF.
type Observer interface {
	Advance(sym Symbol, tables Tables)
}

// Block is a delay memory allocation.
type Block struct {
	Start int
	Size  int
}

type Option func(*Assembler)

// WithClamp turns out of range real arguments into warnings and clamps them.
func WithClamp(clamp bool) Option {
	return func(a *Assembler) { a.clamp = clamp }
}

// WithSpinReals reads the integer literals 1 and 2 in real arguments as 1.0 and 2.0.
func WithSpinReals(spinreals bool) Option {
	return func(a *Assembler) { a.spinreals = spinreals }
}

func WithReporter(r Reporter) Option {
	return func(a *Assembler) { a.reporter = r }
}

func WithObserver(o Observer) Option {
	return func(a *Assembler) { a.observer = o }
}

type pendingSkip struct {
	target string
	text   string
	icnt   int
	line   int
}

type Assembler struct {
	scan *scanner
	sym  Symbol

	line     int
	prevLine int
	consumed int

	symbols  map[string]Value
	builtins map[string]struct{}
	jumps    map[string]int
	memory   map[string]Block
	memTop   int
	icnt     int
	skips    []pendingSkip

	clamp     bool
	spinreals bool
	reporter  Reporter
	observer  Observer
}

func New(source string, opts ...Option) *Assembler {
	a := &Assembler{
		symbols:  builtins(),
		builtins: map[string]struct{}{},
		jumps:    map[string]int{},
		memory:   map[string]Block{},
		reporter: discard{},
	}
	for name := range a.symbols {
		a.builtins[name] = struct{}{}
	}
	for _, opt := range opts {
		opt(a)
	}
	a.scan = newScanner(source, a.reporter.ScanError)
	return a
}

// Parse assembles the whole source. It may only be called once.
func (a *Assembler) Parse() {
	a.advance()
	for a.sym.Kind != EOF {
		a.statement()
	}
	a.resolveSkips()
	if a.icnt > MaxInstructions {
		a.parseError(fmt.Sprintf("Program too long: %d instructions exceeds %d", a.icnt, MaxInstructions))
	}
}

// Line is the 1-indexed line of the current symbol.
func (a *Assembler) Line() int {
	return a.line
}

// PrevLine is the 1-indexed line of the symbol before the current one.
func (a *Assembler) PrevLine() int {
	return a.prevLine
}

func (a *Assembler) Symbol(name string) (Value, bool) {
	v, ok := a.symbols[name]
	return v, ok
}

func (a *Assembler) Jump(name string) (int, bool) {
	v, ok := a.jumps[name]
	return v, ok
}

func (a *Assembler) Symbols() map[string]Value {
	return maps.Clone(a.symbols)
}

func (a *Assembler) Jumps() map[string]int {
	return maps.Clone(a.jumps)
}

func (a *Assembler) Memory() map[string]Block {
	return maps.Clone(a.memory)
}

// IsBuiltin reports whether name was in the symbol table before any source was read.
func (a *Assembler) IsBuiltin(name string) bool {
	_, ok := a.builtins[name]
	return ok
}

// Builtins returns the predefined symbol names, sorted.
func (a *Assembler) Builtins() []string {
	return slices.Sorted(maps.Keys(a.builtins))
}

// Instructions is the number of instructions assembled so far.
func (a *Assembler) Instructions() int {
	return a.icnt
}

func (a *Assembler) advance() {
	a.prevLine = a.line
	a.sym = a.scan.next()
	a.line = a.sym.Line
	a.consumed++
	if a.observer != nil {
		a.observer.Advance(a.sym, a)
	}
}

func (a *Assembler) parseError(msg string) {
	a.reporter.ParseError(msg, 0)
}

func (a *Assembler) parseWarning(msg string) {
	a.reporter.ParseWarning(msg, 0)
}

func (a *Assembler) statement() {
	switch a.sym.Kind {
	case Target:
		name := a.sym.Name
		if _, ok := a.jumps[name]; ok {
			a.parseError(fmt.Sprintf("Target %s re-defined", name))
		}
		a.jumps[name] = a.icnt
		a.advance()
	case Mnemonic:
		a.instruction()
	case Directive:
		directive := a.sym.Name
		a.advance()
		if a.sym.Kind != Label {
			a.parseError(fmt.Sprintf("Expected label after %s but got %s", directive, a.sym))
			return
		}
		name := a.sym
		a.advance()
		a.assign(directive, name)
	case Label:
		name := a.sym
		a.advance()
		if a.sym.Kind != Directive {
			a.parseError(fmt.Sprintf("Expected EQU or MEM after %s but got %s", name.Text, a.sym))
			return
		}
		directive := a.sym.Name
		a.advance()
		a.assign(directive, name)
	default:
		a.parseError(fmt.Sprintf("Unexpected input %s", a.sym))
		a.advance()
	}
}

func (a *Assembler) assign(directive string, name Symbol) {
	value := a.expression()

	switch directive {
	case "EQU":
		if _, ok := a.symbols[name.Name]; ok {
			a.parseWarning(fmt.Sprintf("Label %s re-defined", name.Name))
		}
		a.symbols[name.Name] = value
	case "MEM":
		a.allocate(name, value)
	}
}

func (a *Assembler) allocate(name Symbol, size Value) {
	if !size.Integral() || size.Int() < 0 {
		a.parseError(fmt.Sprintf("Invalid memory size %s for %s", size, name.Name))
		return
	}

	n := int(size.Int())
	start := a.memTop
	if start+n >= DelaySize {
		a.parseError(fmt.Sprintf("Delay exhausted: requested %d exceeds %d available", n, DelaySize-start))
		return
	}
	if _, ok := a.symbols[name.Name]; ok {
		a.parseWarning(fmt.Sprintf("Label %s re-defined", name.Name))
	}

	a.symbols[name.Name] = Int(int64(start))
	a.symbols[name.Name+"^"] = Int(int64(start + n/2))
	a.symbols[name.Name+"#"] = Int(int64(start + n))
	a.memory[name.Name] = Block{Start: start, Size: n}
	a.memTop = start + n + 1
}

func (a *Assembler) instruction() {
	op, line := a.sym.Name, a.sym.Line
	a.advance()

	if op == "CHO" {
		a.cho(line)
	} else {
		for i, arg := range opcodes[op] {
			if i > 0 && !a.separator(op) {
				break
			}
			a.operand(op, arg)
		}
	}
	a.icnt++
}

// cho parses the type and operands of a CHO on line. The type must share
// the line with the mnemonic.
func (a *Assembler) cho(line int) {
	if a.sym.Kind != Label || a.sym.Line != line {
		a.parseError(fmt.Sprintf("Expected CHO type but got %s", a.sym))
		return
	}
	typ, ok := choTypes[a.sym.Name]
	if !ok {
		a.parseError(fmt.Sprintf("Invalid CHO type %s", a.sym.Text))
		a.advance()
		return
	}
	op := "CHO " + a.sym.Name
	a.advance()

	for i, arg := range typ.args {
		if i >= typ.required && a.sym.Kind != ArgSep {
			return
		}
		if !a.separator(op) {
			return
		}
		a.operand(op, arg)
	}
}

func (a *Assembler) separator(op string) bool {
	if a.sym.Kind != ArgSep {
		a.parseError(fmt.Sprintf("Expected , in %s but got %s", op, a.sym))
		return false
	}
	a.advance()
	return true
}

func (a *Assembler) resolveSkips() {
	for _, s := range a.skips {
		dest, ok := a.jumps[s.target]
		if !ok {
			a.reporter.ParseError(fmt.Sprintf("Undefined target %s", s.text), s.line)
			continue
		}
		offset := dest - s.icnt - 1
		switch {
		case offset < 0:
			a.reporter.ParseError(fmt.Sprintf("Target %s does not follow SKP", s.text), s.line)
		case offset > MaxSkip:
			a.reporter.ParseError(fmt.Sprintf("Offset from SKP to %s (%d) too large", s.text, offset), s.line)
		}
	}
}

type discard struct{}

func (discard) ParseError(string, int)   {}
func (discard) ParseWarning(string, int) {}
func (discard) ScanError(string, int)    {}
