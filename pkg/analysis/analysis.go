// Package analysis parses FV-1 assembly into a frozen, queryable index of
// evaluated tokens, definitions and diagnostics.
package analysis

import (
	"context"
	"slices"

	"github.com/rs/zerolog"

	"github.com/walteh/spinasm-lsp/pkg/diagnostic"
	"github.com/walteh/spinasm-lsp/pkg/fv1"
	"github.com/walteh/spinasm-lsp/pkg/lookup"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

// Options are the assembler settings a document is parsed with.
type Options struct {
	Clamp     bool
	SpinReals bool
}

// DefaultOptions matches SpinASM's defaults.
func DefaultOptions() Options {
	return Options{Clamp: true}
}

// Result is everything known about one snapshot of a document. It is read only.
type Result struct {
	Source      string
	Options     Options
	Tokens      *lookup.Lookup[*token.Evaluated]
	Definitions map[string]position.Range
	Diagnostics []diagnostic.Diagnostic

	Symbols map[string]fv1.Value
	Jumps   map[string]int
	Memory  map[string]fv1.Block

	builtins []string
}

// Parse scans, evaluates and indexes source. It never fails: problems in the
// source become diagnostics and the index covers whatever could be scanned.
func Parse(ctx context.Context, source string, opts Options) *Result {
	t := newTracker()
	collector := diagnostic.NewCollector(t)

	asm := fv1.New(source,
		fv1.WithClamp(opts.Clamp),
		fv1.WithSpinReals(opts.SpinReals),
		fv1.WithReporter(collector),
		fv1.WithObserver(t),
	)
	t.asm = asm
	asm.Parse()

	res := &Result{
		Source:      source,
		Options:     opts,
		Definitions: t.definitions,
		Diagnostics: collector.Diagnostics(),
		Symbols:     asm.Symbols(),
		Jumps:       asm.Jumps(),
		Memory:      asm.Memory(),
		builtins:    asm.Builtins(),
	}
	res.Tokens = resolve(t.tokens, res, asm)

	zerolog.Ctx(ctx).Debug().
		Int("tokens", res.Tokens.Len()).
		Int("definitions", len(res.Definitions)).
		Int("diagnostics", len(res.Diagnostics)).
		Int("instructions", asm.Instructions()).
		Msg("parsed document")

	return res
}

// resolve evaluates every scanned token against the final tables.
func resolve(raw *lookup.Lookup[*token.Token], res *Result, asm *fv1.Assembler) *lookup.Lookup[*token.Evaluated] {
	evaluated := lookup.New[*token.Evaluated]()

	for tok := range raw.All() {
		ev := &token.Evaluated{Token: *tok}

		if tok.Kind.UserDefinable() {
			if addr, ok := res.Jumps[tok.Text]; ok {
				v := fv1.Int(int64(addr))
				ev.Value = &v
				ev.IsLabel = true
			} else if v, ok := res.Symbols[tok.Text]; ok {
				ev.Value = &v
			}
			ev.Constant = asm.IsBuiltin(tok.Text)

			if def, ok := res.Definitions[tok.Base().Text]; ok {
				ev.Definition = &def
			}
		}

		evaluated.Add(ev)
	}

	return evaluated
}

// IsBuiltin reports whether name is predefined by the assembler.
func (r *Result) IsBuiltin(name string) bool {
	_, ok := slices.BinarySearch(r.builtins, name)
	return ok
}

// Builtins returns the predefined symbol names, sorted.
func (r *Result) Builtins() []string {
	return slices.Clone(r.builtins)
}

// HasErrors reports whether any diagnostic is an error.
func (r *Result) HasErrors() bool {
	return slices.ContainsFunc(r.Diagnostics, func(d diagnostic.Diagnostic) bool {
		return d.Severity == diagnostic.Error
	})
}
