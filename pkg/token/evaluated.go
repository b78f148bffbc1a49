package token

import (
	"github.com/walteh/spinasm-lsp/pkg/fv1"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/semtok"
)

// Evaluated is a token together with what evaluation learned about it.
type Evaluated struct {
	Token

	// Value is set when the literal name is in the jump or symbol table.
	Value *fv1.Value
	// Constant is true for names present before any source was evaluated.
	Constant bool
	// IsLabel is true for jump table entries.
	IsLabel bool
	// Definition is where the base name is defined, if anywhere.
	Definition *position.Range
}

func (e *Evaluated) Span() position.Range {
	return e.Range
}

// Base returns the evaluated token with its address modifier removed.
func (e *Evaluated) Base() *Evaluated {
	if !e.HasAddressModifier() {
		return e
	}
	base := *e
	base.Token = *e.Token.Base()
	return &base
}

func (e *Evaluated) Absorb(next *Evaluated) bool {
	return e.Token.Absorb(&next.Token)
}

// IsDefinition reports whether this token is the site of its own definition.
func (e *Evaluated) IsDefinition() bool {
	return e.Definition != nil && *e.Definition == e.Base().Range
}

// UserDefined reports whether the token refers to a name defined in source.
func (e *Evaluated) UserDefined() bool {
	return e.Definition != nil
}

func (e *Evaluated) SemanticType() semtok.TokenType {
	switch e.Kind {
	case Mnemonic:
		return semtok.TypeFunction
	case Integer, Float:
		return semtok.TypeNumber
	case Operator, Assembler, ArgSep:
		return semtok.TypeOperator
	case Label, Target:
		if e.IsLabel {
			return semtok.TypeNamespace
		}
		return semtok.TypeVariable
	}
	return semtok.TokenType(len(semtok.TokenTypes))
}

func (e *Evaluated) SemanticModifiers() []semtok.TokenModifier {
	var mods []semtok.TokenModifier
	if e.Constant {
		mods = append(mods, semtok.ModifierReadonly, semtok.ModifierDefaultLibrary)
	}
	if e.IsDefinition() {
		mods = append(mods, semtok.ModifierDefinition)
	}
	return mods
}

func (e *Evaluated) Semantic() semtok.Token {
	return semtok.Token{
		Type:      e.SemanticType(),
		Modifiers: e.SemanticModifiers(),
		Range:     e.Range,
	}
}

// SemanticEncoding encodes the token relative to the previous token start.
func (e *Evaluated) SemanticEncoding(prev position.Place) []uint32 {
	return semtok.Encode(e.Semantic(), prev)
}
