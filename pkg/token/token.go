// Package token models the lexical tokens of an FV-1 assembly document before and
// after evaluation.
package token

import (
	"fmt"
	"strings"

	"github.com/walteh/spinasm-lsp/pkg/position"
)

type Kind int

const (
	Assembler Kind = iota + 1
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
	case Assembler:
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

// UserDefinable reports whether tokens of this kind can name a user definition.
func (k Kind) UserDefinable() bool {
	return k == Label || k == Target
}

// Stem is the first word of the two-word CHO opcodes.
const Stem = "CHO"

// Qualifiers are the words that may follow Stem.
var Qualifiers = []string{"RDA", "RDAL", "SOF"}

const addressModifiers = "#^"

// Token is a parsed token with its canonical uppercase text and the range it covers.
type Token struct {
	Kind  Kind
	Text  string
	Range position.Range
}

func New(kind Kind, text string, line, column int) *Token {
	text = strings.ToUpper(text)
	return &Token{
		Kind:  kind,
		Text:  text,
		Range: position.NewRange(line, column, column+len(text)),
	}
}

func (t *Token) String() string {
	return fmt.Sprintf("%s(%s)@%s", t.Kind, t.Text, t.Range)
}

// Name is the text the token is indexed under by position.
func (t *Token) Name() string {
	return t.Text
}

func (t *Token) Span() position.Range {
	return t.Range
}

// HasAddressModifier reports whether the text carries a trailing # or ^.
func (t *Token) HasAddressModifier() bool {
	return HasAddressModifier(t.Text)
}

// Base returns the token with a trailing address modifier removed and the range
// shortened to match. Tokens without a modifier are returned as is.
func (t *Token) Base() *Token {
	if !t.HasAddressModifier() {
		return t
	}
	base := *t
	base.Text = t.Text[:len(t.Text)-1]
	base.Range.End.Character--
	return &base
}

// Absorb folds a CHO qualifier into t when t is a bare CHO stem. It returns false
// and leaves t untouched when next cannot be merged.
func (t *Token) Absorb(next *Token) bool {
	if !CanMerge(t, next) {
		return false
	}
	t.Text = t.Text + " " + next.Text
	t.Range.End = next.Range.End
	return true
}

// CanMerge reports whether prev is a bare CHO stem and next is one of its qualifiers
// on the same line.
func CanMerge(prev, next *Token) bool {
	if prev == nil || next == nil || prev.Text != Stem {
		return false
	}
	if prev.Range.Start.Line != next.Range.Start.Line {
		return false
	}
	for _, q := range Qualifiers {
		if next.Text == q {
			return true
		}
	}
	return false
}

// HasAddressModifier reports whether name ends in # or ^.
func HasAddressModifier(name string) bool {
	return name != "" && strings.ContainsRune(addressModifiers, rune(name[len(name)-1]))
}

// BaseName strips at most one trailing address modifier.
func BaseName(name string) string {
	if HasAddressModifier(name) {
		return name[:len(name)-1]
	}
	return name
}
