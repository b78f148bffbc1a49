package analysis

import (
	"cmp"
	"context"
	"slices"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

var (
	ErrNoToken        = errors.Base("no token at position")
	ErrNotUserDefined = errors.Base("token is not user defined")
)

// Edit replaces Range with NewText.
type Edit struct {
	Range   position.Range
	NewText string
}

// Symbol is a user definition in the document.
type Symbol struct {
	Name    string
	Range   position.Range
	IsLabel bool
}

// TokenAt returns the token covering place.
func (r *Result) TokenAt(place position.Place) (*token.Evaluated, bool) {
	return r.Tokens.At(place)
}

// Definition returns where the name at place is defined.
func (r *Result) Definition(place position.Place) (position.Range, bool) {
	tok, ok := r.TokenAt(place)
	if !ok || tok.Definition == nil {
		return position.Range{}, false
	}
	return *tok.Definition, true
}

// References returns every occurrence of the base name at place, in scan order.
func (r *Result) References(place position.Place) []position.Range {
	tok, ok := r.TokenAt(place)
	if !ok || !tok.Kind.UserDefinable() {
		return nil
	}

	var refs []position.Range
	for _, named := range r.Tokens.Named(tok.Base().Text) {
		if named.Kind.UserDefinable() {
			refs = append(refs, named.Range)
		}
	}
	return refs
}

// PrepareRename returns the base token at place if it can be renamed.
func (r *Result) PrepareRename(ctx context.Context, place position.Place) (*token.Evaluated, error) {
	tok, ok := r.TokenAt(place)
	if !ok {
		return nil, errors.WithStack(ErrNoToken)
	}

	base := tok.Base()
	if !base.UserDefined() {
		zerolog.Ctx(ctx).Info().Msgf("Can't rename non-user defined token %s.", base.Text)
		return nil, errors.Errorf("renaming %s: %w", base.Text, ErrNotUserDefined)
	}

	return base, nil
}

// Rename returns one edit per occurrence of the base name at place.
func (r *Result) Rename(ctx context.Context, place position.Place, newName string) ([]Edit, error) {
	if _, err := r.PrepareRename(ctx, place); err != nil {
		return nil, err
	}

	refs := r.References(place)
	edits := make([]Edit, 0, len(refs))
	for _, ref := range refs {
		edits = append(edits, Edit{Range: ref, NewText: newName})
	}
	return edits, nil
}

// SemanticTokens encodes every token in document order. Tokens that cannot be
// encoded are left out.
func (r *Result) SemanticTokens() []uint32 {
	var (
		data []uint32
		prev position.Place
	)
	for tok := range r.Tokens.All() {
		enc := tok.SemanticEncoding(prev)
		if enc == nil {
			continue
		}
		data = append(data, enc...)
		prev = tok.Range.Start
	}
	return data
}

// DocumentSymbols returns every user definition ordered by position.
func (r *Result) DocumentSymbols() []Symbol {
	syms := make([]Symbol, 0, len(r.Definitions))
	for name, rng := range r.Definitions {
		_, isLabel := r.Jumps[name]
		syms = append(syms, Symbol{Name: name, Range: rng, IsLabel: isLabel})
	}
	slices.SortFunc(syms, func(a, b Symbol) int {
		if c := a.Range.Start.Compare(b.Range.Start); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return syms
}
