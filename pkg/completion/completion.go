// Package completion lists the names that can be typed in an FV-1 document.
package completion

import (
	"maps"
	"slices"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/docs"
	"github.com/walteh/spinasm-lsp/pkg/fv1"
	"github.com/walteh/spinasm-lsp/pkg/hover"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

type Kind int

const (
	Function Kind = iota + 1
	Operator
	Constant
	Variable
	Module
)

func (k Kind) String() string {
	switch k {
	case Function:
		return "function"
	case Operator:
		return "operator"
	case Constant:
		return "constant"
	case Variable:
		return "variable"
	case Module:
		return "module"
	default:
		return "unknown"
	}
}

// Item is a single completion suggestion. Documentation is markdown.
type Item struct {
	Label         string
	Kind          Kind
	Detail        string
	Documentation string
}

type provider func(res *analysis.Result) []Item

var providers = []provider{
	instructions,
	directives,
	builtins,
	symbols,
	labels,
}

// Items returns every suggestion for the document. Each label appears once,
// the first provider to offer it wins.
func Items(res *analysis.Result) []Item {
	var (
		items []Item
		seen  = map[string]bool{}
	)
	for _, p := range providers {
		for _, item := range p(res) {
			if seen[item.Label] {
				continue
			}
			seen[item.Label] = true
			items = append(items, item)
		}
	}
	return items
}

func instructions(*analysis.Result) []Item {
	var items []Item
	for _, in := range docs.Instructions() {
		items = append(items, Item{
			Label:         in.Name(),
			Kind:          Function,
			Detail:        "(opcode)",
			Documentation: in.Markdown(),
		})
	}
	return items
}

func directives(*analysis.Result) []Item {
	var items []Item
	for _, d := range docs.Directives() {
		items = append(items, Item{
			Label:         d.Name(),
			Kind:          Operator,
			Detail:        "(assembler)",
			Documentation: d.Markdown(),
		})
	}
	return items
}

func builtins(res *analysis.Result) []Item {
	var items []Item
	for _, name := range res.Builtins() {
		v, ok := res.Symbols[name]
		if !ok {
			continue
		}
		items = append(items, named(name, v, Constant, false, true))
	}
	return items
}

// symbols offers user equates and memory blocks. The # and ^ forms of a block
// are left to the user to type after the base name.
func symbols(res *analysis.Result) []Item {
	var items []Item
	for _, name := range slices.Sorted(maps.Keys(res.Symbols)) {
		if res.IsBuiltin(name) || token.HasAddressModifier(name) {
			continue
		}
		items = append(items, named(name, res.Symbols[name], Variable, false, false))
	}
	return items
}

func labels(res *analysis.Result) []Item {
	var items []Item
	for _, name := range slices.Sorted(maps.Keys(res.Jumps)) {
		items = append(items, named(name, fv1.Int(int64(res.Jumps[name])), Module, true, false))
	}
	return items
}

func named(name string, v fv1.Value, kind Kind, isLabel, constant bool) Item {
	tok := &token.Evaluated{
		Token:    token.Token{Kind: token.Label, Text: name},
		Value:    &v,
		IsLabel:  isLabel,
		Constant: constant,
	}
	return Item{
		Label:  name,
		Kind:   kind,
		Detail: hover.Detail(tok),
	}
}
