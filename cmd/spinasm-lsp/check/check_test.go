package check_test

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/cmd/spinasm-lsp/check"
	"github.com/walteh/spinasm-lsp/pkg/config"
)

func workspace(t *testing.T) afero.Fs {
	t.Helper()
	color.NoColor = true

	fs := afero.NewMemMapFs()
	files := map[string]string{
		"/work/clean.spn":           "CLR\nSOF 0, 0\n",
		"/work/patches/bad.spn":     "SOF 0, a\n",
		"/work/patches/warn.spn":    "REG0 EQU 4\n",
		"/work/patches/old/x.spn":   "SOF 0, b\n",
		"/work/notes.txt":           "not assembly\n",
		"/work/custom/.spinasm.hcl": "check {\n  include = [\"patches/**/*.spn\"]\n  exclude = [\"patches/old/**\"]\n}\n",
	}
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return fs
}

func TestFiles(t *testing.T) {
	fs := workspace(t)

	tests := []struct {
		name  string
		args  []string
		check config.Check
		want  []string
	}{
		{
			name:  "default include",
			check: config.Default().Check,
			want:  []string{"clean.spn", "patches/bad.spn", "patches/old/x.spn", "patches/warn.spn"},
		},
		{
			name:  "exclude",
			check: config.Check{Include: []string{"**/*.spn"}, Exclude: []string{"patches/old/**"}},
			want:  []string{"clean.spn", "patches/bad.spn", "patches/warn.spn"},
		},
		{
			name:  "args replace include",
			args:  []string{"patches/*.spn", "clean.spn", "patches/bad.spn"},
			check: config.Default().Check,
			want:  []string{"clean.spn", "patches/bad.spn", "patches/warn.spn"},
		},
		{
			name:  "missing explicit file is kept",
			args:  []string{"gone.spn"},
			check: config.Default().Check,
			want:  []string{"gone.spn"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := check.Files(fs, "/work", tt.args, tt.check)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRunText(t *testing.T) {
	fs := workspace(t)

	var out bytes.Buffer
	err := check.Run(context.Background(), fs, "/work", []string{"clean.spn", "patches/warn.spn"}, check.Options{}, &out)
	require.NoError(t, err)
	assert.Equal(t, "patches/warn.spn:1:10: warning: Label REG0 re-defined\n", out.String())

	out.Reset()
	err = check.Run(context.Background(), fs, "/work", []string{"patches/bad.spn"}, check.Options{}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, check.ErrProblems))
	assert.Equal(t, "patches/bad.spn:1:8: error: Undefined label a\n", out.String())
}

func TestRunJSONWithConfig(t *testing.T) {
	fs := workspace(t)

	var out bytes.Buffer
	err := check.Run(context.Background(), fs, "/work", nil, check.Options{
		ConfigPath: "/work/custom/.spinasm.hcl",
		Format:     "json",
	}, &out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, check.ErrProblems))

	var reports []check.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &reports))
	assert.Equal(t, []check.Report{
		{File: "patches/bad.spn", Line: 1, Column: 8, Severity: "error", Source: "SPINAsm", Message: "Undefined label a"},
		{File: "patches/warn.spn", Line: 1, Column: 10, Severity: "warning", Source: "SPINAsm", Message: "Label REG0 re-defined"},
	}, reports)
}

func TestRunReadErrorsDoNotStopOthers(t *testing.T) {
	fs := workspace(t)

	var out bytes.Buffer
	err := check.Run(context.Background(), fs, "/work", []string{"gone.spn", "patches/warn.spn"}, check.Options{}, &out)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading gone.spn")
	assert.False(t, errors.Is(err, check.ErrProblems))
	assert.Contains(t, out.String(), "patches/warn.spn:1:10")
}

func TestRunRejectsUnknownFormat(t *testing.T) {
	err := check.Run(context.Background(), workspace(t), "/work", nil, check.Options{Format: "xml"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown format "xml"`)
}
