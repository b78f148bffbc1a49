package lsp_test

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/lsp"
	"github.com/walteh/spinasm-lsp/pkg/lsp/protocol"
)

func TestDocumentApply(t *testing.T) {
	tests := []struct {
		name    string
		initial string
		changes []protocol.TextDocumentContentChangeEvent
		want    string
	}{
		{
			name:    "full replacement",
			initial: "CLR\n",
			changes: []protocol.TextDocumentContentChangeEvent{{Text: "SOF 0, 0\n"}},
			want:    "SOF 0, 0\n",
		},
		{
			name:    "insert",
			initial: "SOF 0, 0\n",
			changes: []protocol.TextDocumentContentChangeEvent{
				{Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 3}, End: protocol.Position{Line: 0, Character: 3}}, Text: "X"},
			},
			want: "SOFX 0, 0\n",
		},
		{
			name:    "changes apply in order",
			initial: "rdax pot0, 1.0\n",
			changes: []protocol.TextDocumentContentChangeEvent{
				{Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 5}, End: protocol.Position{Line: 0, Character: 9}}, Text: "pot1"},
				{Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 11}, End: protocol.Position{Line: 0, Character: 14}}, Text: "0.5"},
			},
			want: "rdax pot1, 0.5\n",
		},
		{
			name:    "delete across lines",
			initial: "CLR\nCLR\nCLR\n",
			changes: []protocol.TextDocumentContentChangeEvent{
				{Range: &protocol.Range{Start: protocol.Position{Line: 0, Character: 3}, End: protocol.Position{Line: 2, Character: 3}}, Text: ""},
			},
			want: "CLR\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := lsp.NewDocumentManager(afero.NewMemMapFs())
			doc := m.Open(protocol.TextDocumentItem{URI: "file:///a.spn", Version: 1, Text: tt.initial})

			doc.Apply(context.Background(), 2, tt.changes)
			assert.Equal(t, tt.want, doc.Content())
			assert.Equal(t, int32(2), doc.Version())
		})
	}
}

func TestDocumentAnalyzeReusesResult(t *testing.T) {
	m := lsp.NewDocumentManager(afero.NewMemMapFs())
	doc := m.Open(protocol.TextDocumentItem{URI: "file:///a.spn", Text: "SOF 0, a\n"})

	first := doc.Analyze(context.Background(), analysis.DefaultOptions())
	second := doc.Analyze(context.Background(), analysis.DefaultOptions())
	assert.Same(t, first, second)
	assert.Len(t, first.Diagnostics, 1)

	doc.SetContent("CLR\n")
	third := doc.Analyze(context.Background(), analysis.DefaultOptions())
	assert.NotSame(t, first, third)
	assert.Empty(t, third.Diagnostics)
}

func TestDocumentManagerGet(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/work/on disk.spn", []byte("CLR\n"), 0o644))

	m := lsp.NewDocumentManager(fs)
	m.Open(protocol.TextDocumentItem{URI: "file:///work/open.spn", Text: "SOF 0, 0\n"})

	tests := []struct {
		name    string
		uri     protocol.DocumentURI
		want    string
		wantErr bool
	}{
		{name: "open document", uri: "file:///work/open.spn", want: "SOF 0, 0\n"},
		{name: "read from disk", uri: protocol.URIFromPath("/work/on disk.spn"), want: "CLR\n"},
		{name: "missing", uri: "file:///work/missing.spn", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := m.Get(context.Background(), tt.uri)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, lsp.ErrDocumentNotFound))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, doc.Content())
		})
	}

	assert.Equal(t, 1, m.Len())
	_, ok := m.GetOpen(protocol.URIFromPath("/work/on disk.spn"))
	assert.False(t, ok)

	m.Close("file:///work/open.spn")
	assert.Equal(t, 0, m.Len())
}
