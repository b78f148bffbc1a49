// Package config loads the optional .spinasm.hcl / .spinasm.yaml project file.
package config

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/zclconf/go-cty/cty"
	"gitlab.com/tozd/go/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
)

// FileNames are tried in order when no config path is given.
var FileNames = []string{".spinasm.hcl", ".spinasm.yaml", ".spinasm.yml"}

type Config struct {
	Assembler Assembler
	Log       Log
	Check     Check
}

type Assembler struct {
	Clamp     bool
	SpinReals bool
}

type Log struct {
	Level string
}

type Check struct {
	Include []string
	Exclude []string
}

func Default() *Config {
	opts := analysis.DefaultOptions()
	return &Config{
		Assembler: Assembler{Clamp: opts.Clamp, SpinReals: opts.SpinReals},
		Log:       Log{Level: zerolog.LevelInfoValue},
		Check:     Check{Include: []string{"**/*.spn"}},
	}
}

// file is the on-disk schema. Every field is optional and overrides Default.
type file struct {
	Assembler *assemblerBlock `hcl:"assembler,block" yaml:"assembler,omitempty"`
	Log       *logBlock       `hcl:"log,block" yaml:"log,omitempty"`
	Check     *checkBlock     `hcl:"check,block" yaml:"check,omitempty"`
}

type assemblerBlock struct {
	Clamp     *bool `hcl:"clamp,optional" yaml:"clamp,omitempty"`
	SpinReals *bool `hcl:"spinreals,optional" yaml:"spinreals,omitempty"`
}

type logBlock struct {
	Level *string `hcl:"level,optional" yaml:"level,omitempty"`
}

type checkBlock struct {
	Include []string `hcl:"include,optional" yaml:"include,omitempty"`
	Exclude []string `hcl:"exclude,optional" yaml:"exclude,omitempty"`
}

// Load reads and decodes the file at path. The format follows the extension:
// .yaml and .yml are YAML, anything else is HCL.
func Load(fs afero.Fs, path string) (*Config, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}
	cfg, err := Parse(data, path)
	if err != nil {
		return nil, errors.Errorf("loading %s: %w", path, err)
	}
	return cfg, nil
}

func Parse(data []byte, filename string) (*Config, error) {
	var f file

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		if err := decoder.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
			return nil, errors.Errorf("parsing YAML: %w", err)
		}
	default:
		parser := hclparse.NewParser()
		hclFile, diags := parser.ParseHCL(data, filename)
		if diags.HasErrors() {
			return nil, errors.Errorf("parsing HCL: %s", diags.Error())
		}
		diags = gohcl.DecodeBody(hclFile.Body, evalContext(), &f)
		if diags.HasErrors() {
			return nil, errors.Errorf("decoding HCL: %s", diags.Error())
		}
	}

	cfg := Default()
	f.applyTo(cfg)
	return cfg, nil
}

// evalContext exposes the process environment to HCL as env.NAME.
func evalContext() *hcl.EvalContext {
	vars := map[string]cty.Value{}
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && validName(k) {
			vars[k] = cty.StringVal(v)
		}
	}
	env := cty.MapValEmpty(cty.String)
	if len(vars) > 0 {
		env = cty.MapVal(vars)
	}
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{"env": env},
	}
}

func validName(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && (r >= '0' && r <= '9'):
		default:
			return false
		}
	}
	return true
}

func (f *file) applyTo(cfg *Config) {
	if a := f.Assembler; a != nil {
		if a.Clamp != nil {
			cfg.Assembler.Clamp = *a.Clamp
		}
		if a.SpinReals != nil {
			cfg.Assembler.SpinReals = *a.SpinReals
		}
	}
	if l := f.Log; l != nil && l.Level != nil {
		cfg.Log.Level = *l.Level
	}
	if c := f.Check; c != nil {
		if c.Include != nil {
			cfg.Check.Include = c.Include
		}
		if c.Exclude != nil {
			cfg.Check.Exclude = c.Exclude
		}
	}
}

// Discover returns the first config file found in dirs, searched in order.
func Discover(fs afero.Fs, dirs ...string) (string, bool) {
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		for _, name := range FileNames {
			path := filepath.Join(dir, name)
			if ok, err := afero.Exists(fs, path); err == nil && ok {
				return path, true
			}
		}
	}
	return "", false
}

// Resolve loads explicit when set, otherwise the first file Discover finds,
// otherwise the defaults. The returned path is empty when nothing was loaded.
func Resolve(fs afero.Fs, explicit string, dirs ...string) (*Config, string, error) {
	path := explicit
	if path == "" {
		found, ok := Discover(fs, dirs...)
		if !ok {
			return Default(), "", nil
		}
		path = found
	}

	cfg, err := Load(fs, path)
	if err != nil {
		return nil, path, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, path, errors.Errorf("validating %s: %w", path, err)
	}
	return cfg, path, nil
}

// Validate reports every problem with the config at once.
func (c *Config) Validate() error {
	var err error
	if _, lerr := zerolog.ParseLevel(c.Log.Level); lerr != nil || c.Log.Level == "" {
		err = multierr.Append(err, errors.Errorf("unknown log level %q", c.Log.Level))
	}
	if len(c.Check.Include) == 0 {
		err = multierr.Append(err, errors.New("check.include must name at least one glob"))
	}
	for i, g := range c.Check.Include {
		if strings.TrimSpace(g) == "" {
			err = multierr.Append(err, errors.Errorf("check.include[%d] is empty", i))
		}
	}
	for i, g := range c.Check.Exclude {
		if strings.TrimSpace(g) == "" {
			err = multierr.Append(err, errors.Errorf("check.exclude[%d] is empty", i))
		}
	}
	return err
}

func (c *Config) LogLevel() zerolog.Level {
	level, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil || c.Log.Level == "" {
		return zerolog.InfoLevel
	}
	return level
}

func (c *Config) AnalysisOptions() analysis.Options {
	return analysis.Options{Clamp: c.Assembler.Clamp, SpinReals: c.Assembler.SpinReals}
}

// InitializationOptions are the editor-supplied overrides sent with initialize.
type InitializationOptions struct {
	Clamp     *bool `json:"clamp,omitempty"`
	SpinReals *bool `json:"spinreals,omitempty"`
}

// ApplyInitializationOptions overrides assembler settings from the raw
// initializationOptions of an initialize request. Empty and null are no-ops.
func (c *Config) ApplyInitializationOptions(raw json.RawMessage) error {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	var opts InitializationOptions
	if err := json.Unmarshal(trimmed, &opts); err != nil {
		return errors.Errorf("decoding initializationOptions: %w", err)
	}
	if opts.Clamp != nil {
		c.Assembler.Clamp = *opts.Clamp
	}
	if opts.SpinReals != nil {
		c.Assembler.SpinReals = *opts.SpinReals
	}
	return nil
}
