package lsp

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/lsp/protocol"
	"github.com/walteh/spinasm-lsp/pkg/position"
)

var ErrDocumentNotFound = errors.Base("document not found")

// Document is an open text document and the parse of its latest content.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string

	mu      sync.Mutex
	version int32
	content string
	cache   *analysis.Cache
}

func newDocument(uri protocol.DocumentURI, languageID string, version int32, content string) *Document {
	return &Document{
		URI:        uri,
		LanguageID: languageID,
		version:    version,
		content:    content,
		cache:      analysis.NewCache(),
	}
}

func (d *Document) Content() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.content
}

func (d *Document) Version() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.version
}

// Apply applies content changes in order. A change without a range replaces
// the whole document.
func (d *Document) Apply(ctx context.Context, version int32, changes []protocol.TextDocumentContentChangeEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, change := range changes {
		if change.Range == nil {
			d.content = change.Text
			continue
		}
		rng := toRange(*change.Range)
		zerolog.Ctx(ctx).Trace().Str("range", rng.String()).Int("text_len", len(change.Text)).Msg("applying change")
		d.content = position.ReplaceRange(d.content, rng, change.Text)
	}
	d.version = version
}

// SetContent replaces the document text, as a save with included text does.
func (d *Document) SetContent(content string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.content = content
}

// Analyze parses the current content. Calls on one document are serialized
// and an unchanged document reuses its previous result.
func (d *Document) Analyze(ctx context.Context, opts analysis.Options) *analysis.Result {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cache.Parse(ctx, d.content, opts)
}

// DocumentManager holds the open documents, keyed by file path.
type DocumentManager struct {
	store *sync.Map // map[string]*Document
	fs    afero.Fs
}

func NewDocumentManager(fs afero.Fs) *DocumentManager {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &DocumentManager{
		store: &sync.Map{},
		fs:    fs,
	}
}

func documentKey(uri protocol.DocumentURI) string {
	return uri.Path()
}

// Open records a document as open, replacing any previous version.
func (m *DocumentManager) Open(item protocol.TextDocumentItem) *Document {
	doc := newDocument(item.URI, item.LanguageID, item.Version, item.Text)
	m.store.Store(documentKey(item.URI), doc)
	return doc
}

// GetOpen returns the document only if the client opened it.
func (m *DocumentManager) GetOpen(uri protocol.DocumentURI) (*Document, bool) {
	v, ok := m.store.Load(documentKey(uri))
	if !ok {
		return nil, false
	}
	return v.(*Document), true
}

// Get returns the open document, or reads an unopened one from the file
// system. Documents read from disk are not retained.
func (m *DocumentManager) Get(ctx context.Context, uri protocol.DocumentURI) (*Document, error) {
	if doc, ok := m.GetOpen(uri); ok {
		return doc, nil
	}

	path := documentKey(uri)
	data, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, errors.Errorf("%w: reading %s: %s", ErrDocumentNotFound, path, err.Error())
	}

	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("read unopened document from disk")
	return newDocument(uri, "", 0, string(data)), nil
}

func (m *DocumentManager) Close(uri protocol.DocumentURI) {
	m.store.Delete(documentKey(uri))
}

// Len is the number of open documents.
func (m *DocumentManager) Len() int {
	n := 0
	m.store.Range(func(_, _ any) bool {
		n++
		return true
	})
	return n
}
