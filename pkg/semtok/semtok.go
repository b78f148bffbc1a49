package semtok

import (
	"github.com/walteh/spinasm-lsp/pkg/position"
)

// Token is a highlighted span of a single line.
type Token struct {
	Type      TokenType
	Modifiers []TokenModifier
	Range     position.Range
}

// Encode returns the five-integer record for tok relative to the start of the
// previously encoded token. It returns nil when the type or a modifier is not in
// the legend, and callers skip the token.
func Encode(tok Token, prev position.Place) []uint32 {
	if !tok.Type.Valid() {
		return nil
	}

	var mask uint32
	for _, m := range tok.Modifiers {
		if !m.Valid() {
			return nil
		}
		mask |= 1 << m
	}

	start := tok.Range.Start
	deltaLine := start.Line - prev.Line
	deltaStart := start.Character
	if deltaLine == 0 {
		deltaStart = start.Character - prev.Character
	}

	return []uint32{
		uint32(deltaLine),
		uint32(deltaStart),
		uint32(tok.Range.Len()),
		uint32(tok.Type),
		mask,
	}
}

// EncodeAll encodes tokens ordered by (line, column) into one flat stream.
func EncodeAll(tokens []Token) []uint32 {
	data := make([]uint32, 0, len(tokens)*5)
	prev := position.Place{}
	for _, tok := range tokens {
		enc := Encode(tok, prev)
		if enc == nil {
			continue
		}
		data = append(data, enc...)
		prev = tok.Range.Start
	}
	return data
}
