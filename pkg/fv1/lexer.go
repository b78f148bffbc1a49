package fv1

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
)

var (
	// LexerRules tokenizes FV-1 assembly. Rules are tried in order.
	LexerRules = lexer.Rules{
		"Root": {
			{Name: "Comment", Pattern: `;[^\n]*`, Action: nil},
			{Name: "Newline", Pattern: `\r?\n`, Action: nil},
			{Name: "Whitespace", Pattern: `[ \t\r\f\v]+`, Action: nil},
			{Name: "Hex", Pattern: `(\$|0[xX])[0-9A-Fa-f_]+`, Action: nil},
			{Name: "Binary", Pattern: `%[01_]+`, Action: nil},
			{Name: "Float", Pattern: `(\d+\.\d*|\.\d+)([eE][-+]?\d+)?|\d+[eE][-+]?\d+`, Action: nil},
			{Name: "Integer", Pattern: `\d+`, Action: nil},
			{Name: "Name", Pattern: `[A-Za-z_][A-Za-z0-9_]*[#^]?`, Action: nil},
			{Name: "Colon", Pattern: `:`, Action: nil},
			{Name: "Comma", Pattern: `,`, Action: nil},
			{Name: "Operator", Pattern: `\*\*|//|<<|>>|[-+*/|^&~()]`, Action: nil},
			{Name: "Char", Pattern: `.`, Action: nil},
		},
	}

	// Lexer is the stateful lexer for FV-1 assembly.
	Lexer = lexer.MustStateful(LexerRules)
)

type Kind int

const (
	EOF Kind = iota
	Directive
	Integer
	Label
	Target
	Mnemonic
	Operator
	Float
	ArgSep
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Directive:
		return "ASSEMBLER"
	case Integer:
		return "INTEGER"
	case Label:
		return "LABEL"
	case Target:
		return "TARGET"
	case Mnemonic:
		return "MNEMONIC"
	case Operator:
		return "OPERATOR"
	case Float:
		return "FLOAT"
	case ArgSep:
		return "ARGSEP"
	default:
		return "UNKNOWN"
	}
}

// Symbol is one scanned unit of source.
type Symbol struct {
	Kind Kind
	// Text is the source spelling.
	Text string
	// Name is the canonical uppercase spelling. Targets exclude the colon.
	Name string
	// Value is set for Integer and Float symbols.
	Value Value
	// Line is 1-indexed.
	Line int
	// Column is the 0-indexed start column.
	Column int
}

func (s Symbol) String() string {
	if s.Kind == EOF {
		return "end of file"
	}
	return s.Text
}

type scanner struct {
	lex      *lexer.PeekingLexer
	symbols  map[string]lexer.TokenType
	prev     Symbol
	lastLine int
	onError  func(msg string, line int)
}

func newScanner(source string, onError func(msg string, line int)) *scanner {
	s := &scanner{
		symbols: Lexer.Symbols(),
		onError: onError,
	}

	lex, err := Lexer.LexString("", source)
	if err == nil {
		s.lex, err = lexer.Upgrade(lex, s.symbols["Comment"], s.symbols["Newline"], s.symbols["Whitespace"])
	}
	if err != nil {
		onError(fmt.Sprintf("Unable to scan source: %s", err), 1)
	}
	return s
}

func (s *scanner) is(tok *lexer.Token, name string) bool {
	return tok.Type == s.symbols[name]
}

// next returns the next symbol, reporting and skipping anything unscannable.
func (s *scanner) next() Symbol {
	for {
		if s.lex == nil {
			return Symbol{Kind: EOF, Line: max(s.lastLine, 1)}
		}

		tok := s.lex.Next()
		s.lastLine = tok.Pos.Line
		base := Symbol{Text: tok.Value, Name: strings.ToUpper(tok.Value), Line: tok.Pos.Line, Column: tok.Pos.Column - 1}

		var sym Symbol
		switch {
		case tok.EOF():
			sym = Symbol{Kind: EOF, Line: max(tok.Pos.Line, 1), Column: base.Column}
		case s.is(tok, "Hex"), s.is(tok, "Binary"), s.is(tok, "Integer"):
			v, err := parseInteger(tok.Value)
			if err != nil {
				s.onError(fmt.Sprintf("Invalid integer %s", tok.Value), tok.Pos.Line)
				continue
			}
			sym = base
			sym.Kind = Integer
			sym.Value = v
		case s.is(tok, "Float"):
			f, err := strconv.ParseFloat(tok.Value, 64)
			if err != nil {
				s.onError(fmt.Sprintf("Invalid number %s", tok.Value), tok.Pos.Line)
				continue
			}
			sym = base
			sym.Kind = Float
			sym.Value = Real(f)
		case s.is(tok, "Name"):
			sym = s.name(base)
		case s.is(tok, "Comma"):
			sym = base
			sym.Kind = ArgSep
		case s.is(tok, "Operator"):
			sym = base
			sym.Kind = Operator
		default:
			s.onError(fmt.Sprintf("Unrecognised input %s", tok.Value), tok.Pos.Line)
			continue
		}

		s.prev = sym
		return sym
	}
}

func (s *scanner) name(sym Symbol) Symbol {
	if peek := s.lex.Peek(); s.is(peek, "Colon") {
		s.lex.Next()
		sym.Kind = Target
		return sym
	}

	switch {
	case s.prev.Kind == Mnemonic && s.prev.Name == "CHO" && s.prev.Line == sym.Line:
		sym.Kind = Label
	case sym.Name == "EQU" || sym.Name == "MEM":
		sym.Kind = Directive
	case IsOpcode(sym.Name):
		sym.Kind = Mnemonic
	default:
		sym.Kind = Label
	}
	return sym
}

func parseInteger(text string) (Value, error) {
	clean := strings.ReplaceAll(text, "_", "")
	base := 10
	switch {
	case strings.HasPrefix(clean, "$"):
		clean, base = clean[1:], 16
	case strings.HasPrefix(clean, "0x"), strings.HasPrefix(clean, "0X"):
		clean, base = clean[2:], 16
	case strings.HasPrefix(clean, "%"):
		clean, base = clean[1:], 2
	}
	i, err := strconv.ParseInt(clean, base, 64)
	if err != nil {
		return Value{}, err
	}
	return Int(i), nil
}
