// Package hover builds the hover text shown for a token in an FV-1 document.
package hover

import (
	"fmt"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/docs"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

// Info is the markdown content to display and the range it describes.
type Info struct {
	Content string
	Range   position.Range
}

// At returns the hover for the token at place, or nil when there is nothing
// to show.
func At(res *analysis.Result, place position.Place) *Info {
	tok, ok := res.TokenAt(place)
	if !ok {
		return nil
	}

	content := Describe(tok)
	if content == "" {
		return nil
	}

	return &Info{Content: content, Range: tok.Range}
}

// Describe formats what is known about tok. Evaluated names get a one line
// summary and opcodes and directives get their documentation page.
func Describe(tok *token.Evaluated) string {
	switch tok.Kind {
	case token.Label, token.Target:
		return Detail(tok)
	case token.Mnemonic, token.Assembler:
		if entry, ok := docs.Lookup(tok.Text); ok {
			return entry.Markdown()
		}
	}
	return ""
}

// Detail is the one line summary of an evaluated name, empty if the name has
// no value.
func Detail(tok *token.Evaluated) string {
	if tok.Value == nil {
		return ""
	}

	switch {
	case tok.IsLabel:
		return fmt.Sprintf("(label) %s: Offset[%s]", tok.Text, tok.Value)
	case tok.Constant:
		return fmt.Sprintf("(constant) %s: Literal[%s]", tok.Text, tok.Value)
	default:
		return fmt.Sprintf("(variable) %s: Literal[%s]", tok.Text, tok.Value)
	}
}
