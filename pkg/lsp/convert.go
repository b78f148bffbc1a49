package lsp

import (
	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/completion"
	"github.com/walteh/spinasm-lsp/pkg/diagnostic"
	"github.com/walteh/spinasm-lsp/pkg/lsp/protocol"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/signature"
)

func toPlace(p protocol.Position) position.Place {
	return position.Place{Line: int(p.Line), Character: int(p.Character)}
}

func toRange(r protocol.Range) position.Range {
	return position.Range{Start: toPlace(r.Start), End: toPlace(r.End)}
}

func fromPlace(p position.Place) protocol.Position {
	return protocol.Position{Line: uint32(max(p.Line, 0)), Character: uint32(max(p.Character, 0))}
}

func fromRange(r position.Range) protocol.Range {
	return protocol.Range{Start: fromPlace(r.Start), End: fromPlace(r.End)}
}

func fromDiagnostics(diags []diagnostic.Diagnostic) []protocol.Diagnostic {
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		out = append(out, protocol.Diagnostic{
			Range:    fromRange(d.Range),
			Severity: protocol.DiagnosticSeverity(d.Severity),
			Source:   d.Source,
			Message:  d.Message,
		})
	}
	return out
}

var completionKinds = map[completion.Kind]protocol.CompletionItemKind{
	completion.Function: protocol.FunctionCompletion,
	completion.Operator: protocol.OperatorCompletion,
	completion.Constant: protocol.ConstantCompletion,
	completion.Variable: protocol.VariableCompletion,
	completion.Module:   protocol.ModuleCompletion,
}

func fromCompletionItems(items []completion.Item) []protocol.CompletionItem {
	out := make([]protocol.CompletionItem, 0, len(items))
	for _, it := range items {
		kind, ok := completionKinds[it.Kind]
		if !ok {
			kind = protocol.TextCompletion
		}
		item := protocol.CompletionItem{
			Label:  it.Label,
			Kind:   kind,
			Detail: it.Detail,
		}
		if it.Documentation != "" {
			item.Documentation = &protocol.MarkupContent{Kind: protocol.Markdown, Value: it.Documentation}
		}
		out = append(out, item)
	}
	return out
}

func fromSignature(help *signature.Help) *protocol.SignatureHelp {
	params := make([]protocol.ParameterInformation, 0, len(help.Parameters))
	for _, p := range help.Parameters {
		params = append(params, protocol.ParameterInformation{Label: p})
	}

	info := protocol.SignatureInformation{
		Label:           help.Label,
		Parameters:      params,
		ActiveParameter: uint32(help.Active),
	}
	if help.Documentation != "" {
		info.Documentation = &protocol.MarkupContent{Kind: protocol.Markdown, Value: help.Documentation}
	}

	return &protocol.SignatureHelp{
		Signatures:      []protocol.SignatureInformation{info},
		ActiveSignature: 0,
		ActiveParameter: uint32(help.Active),
	}
}

func fromSymbols(syms []analysis.Symbol) []protocol.DocumentSymbol {
	out := make([]protocol.DocumentSymbol, 0, len(syms))
	for _, s := range syms {
		kind := protocol.VariableSymbol
		if s.IsLabel {
			kind = protocol.ModuleSymbol
		}
		rng := fromRange(s.Range)
		out = append(out, protocol.DocumentSymbol{
			Name:           s.Name,
			Kind:           kind,
			Range:          rng,
			SelectionRange: rng,
		})
	}
	return out
}

func fromEdits(edits []analysis.Edit) []protocol.TextEdit {
	out := make([]protocol.TextEdit, 0, len(edits))
	for _, e := range edits {
		out = append(out, protocol.TextEdit{Range: fromRange(e.Range), NewText: e.NewText})
	}
	return out
}
