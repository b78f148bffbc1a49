// Package signature computes signature help for the instruction under the cursor.
package signature

import (
	"strings"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/docs"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

// Help describes the instruction being typed and which operand the cursor is in.
type Help struct {
	Label         string
	Documentation string
	Parameters    []string
	Active        int
}

// At returns signature help for place. The line must start with a documented
// opcode that takes operands and the cursor must be past the opcode.
func At(res *analysis.Result, place position.Place) *Help {
	toks := res.Tokens.OnLine(place.Line)
	if len(toks) == 0 {
		return nil
	}

	first := toks[0]
	if first.Kind != token.Mnemonic || place.Character <= first.Range.End.Character {
		return nil
	}

	in, ok := docs.LookupInstruction(first.Text)
	if !ok || len(in.Parameters) == 0 {
		return nil
	}

	active := 0
	for _, tok := range toks[1:] {
		if tok.Kind == token.ArgSep && tok.Range.Start.Character < place.Character {
			active++
		}
	}
	// the first separator of a CHO instruction follows the type, not an operand
	if strings.HasPrefix(first.Text, token.Stem) {
		active--
	}
	if active < 0 {
		return nil
	}

	help := &Help{
		Label:         in.Title(),
		Documentation: in.Description(),
		Active:        min(active, len(in.Parameters)-1),
	}
	for _, p := range in.Parameters {
		help.Parameters = append(help.Parameters, p.Label())
	}
	return help
}
