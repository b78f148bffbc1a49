package analysis

import (
	"github.com/walteh/spinasm-lsp/pkg/fv1"
	"github.com/walteh/spinasm-lsp/pkg/lookup"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

var kinds = map[fv1.Kind]token.Kind{
	fv1.Directive: token.Assembler,
	fv1.Integer:   token.Integer,
	fv1.Label:     token.Label,
	fv1.Target:    token.Target,
	fv1.Mnemonic:  token.Mnemonic,
	fv1.Operator:  token.Operator,
	fv1.Float:     token.Float,
	fv1.ArgSep:    token.ArgSep,
}

// tracker follows the assembler as it advances, recording raw tokens, their
// columns and where each user name is defined. It is the diagnostic cursor.
type tracker struct {
	asm         *fv1.Assembler
	column      int
	tokens      *lookup.Lookup[*token.Token]
	definitions map[string]position.Range
}

func newTracker() *tracker {
	return &tracker{
		tokens:      lookup.New[*token.Token](),
		definitions: map[string]position.Range{},
	}
}

func (t *tracker) Column() int {
	return t.column
}

func (t *tracker) PrevLine() int {
	if t.asm == nil {
		return 0
	}
	return t.asm.PrevLine()
}

func (t *tracker) Advance(sym fv1.Symbol, tables fv1.Tables) {
	kind, ok := kinds[sym.Kind]
	if !ok {
		return
	}
	t.column = sym.Column

	tok := token.New(kind, sym.Name, sym.Line-1, sym.Column)
	t.tokens.Add(tok)

	base := tok.Base()
	switch base.Kind {
	case token.Target:
		// targets are often used before they appear, so they always win
		t.definitions[base.Text] = base.Range
	case token.Label:
		if _, ok := t.definitions[base.Text]; ok {
			return
		}
		_, isJump := tables.Jump(base.Text)
		_, isSymbol := tables.Symbol(base.Text)
		if !isJump && !isSymbol {
			t.definitions[base.Text] = base.Range
		}
	}
}
