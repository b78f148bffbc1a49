// Copyright 2023 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package protocol

// The server half of the LSP 3.17 methods this language server implements.

import (
	"context"

	"github.com/creachadair/jrpc2/handler"
)

type Server interface {
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#setTrace
	SetTrace(context.Context, *SetTraceParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#exit
	Exit(context.Context) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#initialize
	Initialize(context.Context, *ParamInitialize) (*InitializeResult, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#initialized
	Initialized(context.Context, *InitializedParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#shutdown
	Shutdown(context.Context) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_completion
	Completion(context.Context, *CompletionParams) (*CompletionList, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_definition
	Definition(context.Context, *DefinitionParams) ([]Location, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didChange
	DidChange(context.Context, *DidChangeTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didClose
	DidClose(context.Context, *DidCloseTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didOpen
	DidOpen(context.Context, *DidOpenTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_didSave
	DidSave(context.Context, *DidSaveTextDocumentParams) error
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_documentSymbol
	DocumentSymbol(context.Context, *DocumentSymbolParams) ([]DocumentSymbol, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_hover
	Hover(context.Context, *HoverParams) (*Hover, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_prepareRename
	PrepareRename(context.Context, *PrepareRenameParams) (*PrepareRenameResult, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_references
	References(context.Context, *ReferenceParams) ([]Location, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_rename
	Rename(context.Context, *RenameParams) (*WorkspaceEdit, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_semanticTokens
	SemanticTokensFull(context.Context, *SemanticTokensParams) (*SemanticTokens, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#textDocument_signatureHelp
	SignatureHelp(context.Context, *SignatureHelpParams) (*SignatureHelp, error)
	// See https://microsoft.github.io/language-server-protocol/specifications/lsp/3.17/specification#workspace_didChangeConfiguration
	DidChangeConfiguration(context.Context, *DidChangeConfigurationParams) error
}

func buildServerDispatchMap(server Server) handler.Map {
	return handler.Map{
		"$/setTrace":                       createEmptyResultHandler(server.SetTrace),
		"exit":                             createEmptyHandler(server.Exit),
		"initialize":                       createHandler(server.Initialize),
		"initialized":                      createEmptyResultHandler(server.Initialized),
		"shutdown":                         createEmptyHandler(server.Shutdown),
		"textDocument/completion":          createHandler(server.Completion),
		"textDocument/definition":          createHandler(server.Definition),
		"textDocument/didChange":           createEmptyResultHandler(server.DidChange),
		"textDocument/didClose":            createEmptyResultHandler(server.DidClose),
		"textDocument/didOpen":             createEmptyResultHandler(server.DidOpen),
		"textDocument/didSave":             createEmptyResultHandler(server.DidSave),
		"textDocument/documentSymbol":      createHandler(server.DocumentSymbol),
		"textDocument/hover":               createHandler(server.Hover),
		"textDocument/prepareRename":       createHandler(server.PrepareRename),
		"textDocument/references":          createHandler(server.References),
		"textDocument/rename":              createHandler(server.Rename),
		"textDocument/semanticTokens/full": createHandler(server.SemanticTokensFull),
		"textDocument/signatureHelp":       createHandler(server.SignatureHelp),
		"workspace/didChangeConfiguration": createEmptyResultHandler(server.DidChangeConfiguration),
	}
}

func (s *CallbackServer) SetTrace(ctx context.Context, params *SetTraceParams) error {
	return createNotify(ctx, s, "$/setTrace", params)
}
func (s *CallbackServer) Exit(ctx context.Context) error {
	return createEmptyNotify(ctx, s, "exit")
}
func (s *CallbackServer) Initialize(ctx context.Context, params *ParamInitialize) (*InitializeResult, error) {
	var result *InitializeResult
	if err := createCallback(ctx, s, "initialize", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) Initialized(ctx context.Context, params *InitializedParams) error {
	return createNotify(ctx, s, "initialized", params)
}
func (s *CallbackServer) Shutdown(ctx context.Context) error {
	return createEmptyCallback(ctx, s, "shutdown")
}
func (s *CallbackServer) Completion(ctx context.Context, params *CompletionParams) (*CompletionList, error) {
	var result *CompletionList
	if err := createCallback(ctx, s, "textDocument/completion", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) Definition(ctx context.Context, params *DefinitionParams) ([]Location, error) {
	var result []Location
	if err := createCallback(ctx, s, "textDocument/definition", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) DidChange(ctx context.Context, params *DidChangeTextDocumentParams) error {
	return createNotify(ctx, s, "textDocument/didChange", params)
}
func (s *CallbackServer) DidClose(ctx context.Context, params *DidCloseTextDocumentParams) error {
	return createNotify(ctx, s, "textDocument/didClose", params)
}
func (s *CallbackServer) DidOpen(ctx context.Context, params *DidOpenTextDocumentParams) error {
	return createNotify(ctx, s, "textDocument/didOpen", params)
}
func (s *CallbackServer) DidSave(ctx context.Context, params *DidSaveTextDocumentParams) error {
	return createNotify(ctx, s, "textDocument/didSave", params)
}
func (s *CallbackServer) DocumentSymbol(ctx context.Context, params *DocumentSymbolParams) ([]DocumentSymbol, error) {
	var result []DocumentSymbol
	if err := createCallback(ctx, s, "textDocument/documentSymbol", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) Hover(ctx context.Context, params *HoverParams) (*Hover, error) {
	var result *Hover
	if err := createCallback(ctx, s, "textDocument/hover", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) PrepareRename(ctx context.Context, params *PrepareRenameParams) (*PrepareRenameResult, error) {
	var result *PrepareRenameResult
	if err := createCallback(ctx, s, "textDocument/prepareRename", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) References(ctx context.Context, params *ReferenceParams) ([]Location, error) {
	var result []Location
	if err := createCallback(ctx, s, "textDocument/references", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) Rename(ctx context.Context, params *RenameParams) (*WorkspaceEdit, error) {
	var result *WorkspaceEdit
	if err := createCallback(ctx, s, "textDocument/rename", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) SemanticTokensFull(ctx context.Context, params *SemanticTokensParams) (*SemanticTokens, error) {
	var result *SemanticTokens
	if err := createCallback(ctx, s, "textDocument/semanticTokens/full", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) SignatureHelp(ctx context.Context, params *SignatureHelpParams) (*SignatureHelp, error) {
	var result *SignatureHelp
	if err := createCallback(ctx, s, "textDocument/signatureHelp", params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
func (s *CallbackServer) DidChangeConfiguration(ctx context.Context, params *DidChangeConfigurationParams) error {
	return createNotify(ctx, s, "workspace/didChangeConfiguration", params)
}
