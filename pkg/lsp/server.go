package lsp

import (
	"context"
	"fmt"
	"sync"

	"github.com/creachadair/jrpc2"
	"github.com/google/uuid"
	"github.com/rs/xid"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/completion"
	"github.com/walteh/spinasm-lsp/pkg/config"
	"github.com/walteh/spinasm-lsp/pkg/hover"
	"github.com/walteh/spinasm-lsp/pkg/lsp/protocol"
	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/semtok"
	"github.com/walteh/spinasm-lsp/pkg/signature"
)

const (
	ServerName = "spinasm-lsp"

	codeRequestFailed = -32803
)

var errShutdown = &jrpc2.Error{Code: jrpc2.InvalidRequest, Message: "server is shutting down"}

// Server answers LSP requests for FV-1 assembly documents.
type Server struct {
	documents *DocumentManager
	fs        afero.Fs

	id      string
	version string

	mu          sync.RWMutex
	config      *config.Config
	configPath  string
	configDirs  []string
	initialized bool
	shutdown    bool

	callbackClient protocol.Client
}

var _ protocol.Server = (*Server)(nil)

type Option func(*Server)

// WithFs sets the file system used for config discovery and unopened documents.
func WithFs(fs afero.Fs) Option {
	return func(s *Server) { s.fs = fs }
}

// WithConfig replaces the default configuration. Discovery at initialize
// still applies unless WithConfigPath is also given.
func WithConfig(cfg *config.Config) Option {
	return func(s *Server) { s.config = cfg }
}

// WithConfigPath loads configuration from path at initialize.
func WithConfigPath(path string) Option {
	return func(s *Server) { s.configPath = path }
}

// WithConfigDirs adds directories searched for a config file after the workspace root.
func WithConfigDirs(dirs ...string) Option {
	return func(s *Server) { s.configDirs = append(s.configDirs, dirs...) }
}

func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

func NewServer(ctx context.Context, opts ...Option) *Server {
	s := &Server{
		id:     xid.New().String(),
		config: config.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.fs == nil {
		s.fs = afero.NewOsFs()
	}
	s.documents = NewDocumentManager(s.fs)

	zerolog.Ctx(ctx).Debug().Str("server_id", s.id).Msg("created server")
	return s
}

func (s *Server) SetCallbackClient(client protocol.Client) {
	s.callbackClient = client
}

func (s *Server) Documents() *DocumentManager {
	return s.documents
}

func (s *Server) ID() string {
	return s.id
}

// Config returns a copy of the active configuration.
func (s *Server) Config() config.Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return *s.config
}

func (s *Server) analysisOptions() analysis.Options {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.AnalysisOptions()
}

func (s *Server) Initialize(ctx context.Context, params *protocol.ParamInitialize) (*protocol.InitializeResult, error) {
	logger := zerolog.Ctx(ctx)

	dirs := []string{}
	if params.RootURI != "" {
		dirs = append(dirs, params.RootURI.Path())
	}
	for _, folder := range params.WorkspaceFolders {
		dirs = append(dirs, folder.URI.Path())
	}
	dirs = append(dirs, s.configDirs...)

	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.shutdown:
		return nil, errShutdown
	case s.initialized:
		return nil, &jrpc2.Error{Code: jrpc2.InvalidRequest, Message: "server already initialized"}
	}

	if s.configPath != "" || len(dirs) > 0 {
		cfg, path, err := config.Resolve(s.fs, s.configPath, dirs...)
		switch {
		case err != nil:
			logger.Error().Err(err).Str("path", path).Msg("ignoring configuration")
		case path != "":
			logger.Info().Str("path", path).Msg("loaded configuration")
			s.config = cfg
		}
	}

	if err := s.config.ApplyInitializationOptions(params.InitializationOptions); err != nil {
		logger.Warn().Err(err).Msg("ignoring initializationOptions")
	}

	s.initialized = true

	logger.Debug().
		Bool("clamp", s.config.Assembler.Clamp).
		Bool("spinreals", s.config.Assembler.SpinReals).
		Msg("initialized")

	return &protocol.InitializeResult{
		Capabilities: protocol.ServerCapabilities{
			TextDocumentSync: &protocol.TextDocumentSyncOptions{
				OpenClose: true,
				Change:    protocol.Incremental,
				Save:      &protocol.SaveOptions{IncludeText: true},
			},
			HoverProvider:      true,
			CompletionProvider: &protocol.CompletionOptions{},
			SignatureHelpProvider: &protocol.SignatureHelpOptions{
				TriggerCharacters: []string{" ", ","},
			},
			DefinitionProvider:     true,
			ReferencesProvider:     true,
			DocumentSymbolProvider: true,
			RenameProvider:         &protocol.RenameOptions{PrepareProvider: true},
			SemanticTokensProvider: &protocol.SemanticTokensOptions{
				Legend: protocol.SemanticTokensLegend{
					TokenTypes:     semtok.TokenTypes,
					TokenModifiers: semtok.TokenModifiers,
				},
				Full: true,
			},
		},
		ServerInfo: &protocol.ServerInfo{Name: ServerName, Version: s.version},
	}, nil
}

func (s *Server) Initialized(ctx context.Context, params *protocol.InitializedParams) error {
	zerolog.Ctx(ctx).Debug().Msg("client initialized")
	return nil
}

func (s *Server) SetTrace(ctx context.Context, params *protocol.SetTraceParams) error {
	zerolog.Ctx(ctx).Debug().Str("value", params.Value).Msg("trace changed")
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.shutdown {
		return errShutdown
	}
	s.shutdown = true
	zerolog.Ctx(ctx).Info().Msg("shutting down")
	return nil
}

func (s *Server) Exit(ctx context.Context) error {
	if srv := jrpc2.ServerFromContext(ctx); srv != nil {
		go srv.Stop()
	}
	return nil
}

// DidChangeConfiguration accepts the same keys as initializationOptions.
func (s *Server) DidChangeConfiguration(ctx context.Context, params *protocol.DidChangeConfigurationParams) error {
	s.mu.Lock()
	err := s.config.ApplyInitializationOptions(params.Settings)
	s.mu.Unlock()
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("ignoring settings")
		return nil
	}

	s.documents.store.Range(func(_, v any) bool {
		doc := v.(*Document)
		if err := s.publishDiagnostics(ctx, doc); err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Str("uri", string(doc.URI)).Msg("publishing diagnostics")
		}
		return true
	})
	return nil
}

func (s *Server) DidOpen(ctx context.Context, params *protocol.DidOpenTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document opened")

	doc := s.documents.Open(params.TextDocument)
	return s.publishDiagnostics(ctx, doc)
}

func (s *Server) DidChange(ctx context.Context, params *protocol.DidChangeTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document changed")

	doc, ok := s.documents.GetOpen(params.TextDocument.URI)
	if !ok {
		return errors.Errorf("changing %s: %w", params.TextDocument.URI, ErrDocumentNotFound)
	}
	if len(params.ContentChanges) == 0 {
		return nil
	}

	doc.Apply(ctx, params.TextDocument.Version, params.ContentChanges)
	return s.publishDiagnostics(ctx, doc)
}

func (s *Server) DidSave(ctx context.Context, params *protocol.DidSaveTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document saved")

	doc, err := s.documents.Get(ctx, params.TextDocument.URI)
	if err != nil {
		return err
	}
	if params.Text != nil {
		doc.SetContent(*params.Text)
	}
	return s.publishDiagnostics(ctx, doc)
}

func (s *Server) DidClose(ctx context.Context, params *protocol.DidCloseTextDocumentParams) error {
	zerolog.Ctx(ctx).Debug().Str("uri", string(params.TextDocument.URI)).Msg("document closed")

	s.documents.Close(params.TextDocument.URI)
	return s.notifyDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

func (s *Server) publishDiagnostics(ctx context.Context, doc *Document) error {
	res := doc.Analyze(ctx, s.analysisOptions())
	zerolog.Ctx(ctx).Debug().Str("uri", string(doc.URI)).Int("count", len(res.Diagnostics)).Msg("publishing diagnostics")

	return s.notifyDiagnostics(ctx, &protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     doc.Version(),
		Diagnostics: fromDiagnostics(res.Diagnostics),
	})
}

func (s *Server) notifyDiagnostics(ctx context.Context, params *protocol.PublishDiagnosticsParams) error {
	if s.callbackClient == nil {
		return nil
	}
	if err := s.callbackClient.PublishDiagnostics(ctx, params); err != nil {
		return errors.Errorf("publishing diagnostics for %s: %w", params.URI, err)
	}
	return nil
}

// checkActive rejects requests that arrive after shutdown.
func (s *Server) checkActive() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.shutdown {
		return errShutdown
	}
	return nil
}

func (s *Server) analyze(ctx context.Context, uri protocol.DocumentURI) (*analysis.Result, error) {
	if err := s.checkActive(); err != nil {
		return nil, err
	}
	doc, err := s.documents.Get(ctx, uri)
	if err != nil {
		return nil, err
	}
	return doc.Analyze(ctx, s.analysisOptions()), nil
}

func (s *Server) Hover(ctx context.Context, params *protocol.HoverParams) (*protocol.Hover, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	info := hover.At(res, toPlace(params.Position))
	if info == nil {
		return nil, nil
	}

	rng := fromRange(info.Range)
	return &protocol.Hover{
		Contents: protocol.MarkupContent{Kind: protocol.Markdown, Value: info.Content},
		Range:    &rng,
	}, nil
}

func (s *Server) Completion(ctx context.Context, params *protocol.CompletionParams) (*protocol.CompletionList, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.CompletionList{
		Items: fromCompletionItems(completion.Items(res)),
	}, nil
}

func (s *Server) Definition(ctx context.Context, params *protocol.DefinitionParams) ([]protocol.Location, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	rng, ok := res.Definition(toPlace(params.Position))
	if !ok {
		return nil, nil
	}
	return []protocol.Location{{URI: params.TextDocument.URI, Range: fromRange(rng)}}, nil
}

func (s *Server) References(ctx context.Context, params *protocol.ReferenceParams) ([]protocol.Location, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	refs := res.References(toPlace(params.Position))
	if refs == nil {
		return nil, nil
	}
	locs := make([]protocol.Location, 0, len(refs))
	for _, r := range refs {
		locs = append(locs, protocol.Location{URI: params.TextDocument.URI, Range: fromRange(r)})
	}
	return locs, nil
}

func (s *Server) PrepareRename(ctx context.Context, params *protocol.PrepareRenameParams) (*protocol.PrepareRenameResult, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	place := toPlace(params.Position)
	tok, err := res.PrepareRename(ctx, place)
	if err != nil {
		return nil, renameError(res, place, err)
	}

	return &protocol.PrepareRenameResult{
		Range:       fromRange(tok.Range),
		Placeholder: tok.Text,
	}, nil
}

func (s *Server) Rename(ctx context.Context, params *protocol.RenameParams) (*protocol.WorkspaceEdit, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	place := toPlace(params.Position)
	edits, err := res.Rename(ctx, place, params.NewName)
	if err != nil {
		return nil, renameError(res, place, err)
	}

	return &protocol.WorkspaceEdit{
		Changes: map[protocol.DocumentURI][]protocol.TextEdit{
			params.TextDocument.URI: fromEdits(edits),
		},
	}, nil
}

// renameError turns a missing token into an empty result and a built-in into
// a request failure the editor shows to the user.
func renameError(res *analysis.Result, place position.Place, err error) error {
	switch {
	case errors.Is(err, analysis.ErrNoToken):
		return nil
	case errors.Is(err, analysis.ErrNotUserDefined):
		name := ""
		if tok, ok := res.TokenAt(place); ok {
			name = tok.Base().Text
		}
		return &jrpc2.Error{Code: codeRequestFailed, Message: fmt.Sprintf("Can't rename non-user defined token %s.", name)}
	default:
		return err
	}
}

func (s *Server) DocumentSymbol(ctx context.Context, params *protocol.DocumentSymbolParams) ([]protocol.DocumentSymbol, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}
	return fromSymbols(res.DocumentSymbols()), nil
}

func (s *Server) SignatureHelp(ctx context.Context, params *protocol.SignatureHelpParams) (*protocol.SignatureHelp, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	help := signature.At(res, toPlace(params.Position))
	if help == nil {
		return nil, nil
	}
	return fromSignature(help), nil
}

func (s *Server) SemanticTokensFull(ctx context.Context, params *protocol.SemanticTokensParams) (*protocol.SemanticTokens, error) {
	res, err := s.analyze(ctx, params.TextDocument.URI)
	if err != nil {
		return nil, err
	}

	return &protocol.SemanticTokens{
		ResultID: uuid.NewString(),
		Data:     protocol.NonNilSlice(res.SemanticTokens()),
	}, nil
}
