// Package check implements the check command, which reports diagnostics for
// FV-1 assembly files without an editor.
package check

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/spinasm-lsp/pkg/analysis"
	"github.com/walteh/spinasm-lsp/pkg/config"
	"github.com/walteh/spinasm-lsp/pkg/diagnostic"
)

// ErrProblems is returned when any file has an error-severity diagnostic.
var ErrProblems = errors.Base("problems found")

type Handler struct {
	configPath string
	format     string
	spinreals  bool
	noClamp    bool
	noColor    bool
}

func NewCheckCommand() *cobra.Command {
	me := &Handler{}

	cmd := &cobra.Command{
		Use:   "check [file or glob...]",
		Short: "report diagnostics for FV-1 assembly files",
		Long:  "Report diagnostics for the given files, or for every file matching the configured include globs.",
	}

	cmd.Flags().StringVar(&me.configPath, "config", "", "path to a .spinasm.hcl or .spinasm.yaml file")
	cmd.Flags().StringVar(&me.format, "format", "text", "output format: text or json")
	cmd.Flags().BoolVar(&me.spinreals, "spinreals", false, "treat 1 and 2 as reals rather than integers")
	cmd.Flags().BoolVar(&me.noClamp, "no-clamp", false, "report out of range values instead of clamping them")
	cmd.Flags().BoolVar(&me.noColor, "no-color", false, "disable colored output")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		wd, err := os.Getwd()
		if err != nil {
			return errors.Errorf("getting working directory: %w", err)
		}
		if me.noColor {
			color.NoColor = true
		}
		opts := Options{
			ConfigPath: me.configPath,
			Format:     me.format,
		}
		if cmd.Flags().Changed("spinreals") {
			opts.SpinReals = &me.spinreals
		}
		if cmd.Flags().Changed("no-clamp") {
			clamp := !me.noClamp
			opts.Clamp = &clamp
		}
		return Run(cmd.Context(), afero.NewOsFs(), wd, args, opts, cmd.OutOrStdout())
	}

	return cmd
}

// Options override the configuration file. Nil fields keep the configured value.
type Options struct {
	ConfigPath string
	Format     string
	Clamp      *bool
	SpinReals  *bool
}

// Report is one diagnostic in a checked file, positions 1-based.
type Report struct {
	File     string `json:"file"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Severity string `json:"severity"`
	Source   string `json:"source"`
	Message  string `json:"message"`
}

// Run checks the files named by args, or the configured globs when args is
// empty, relative to dir on fs. Unreadable files do not stop the others
// from being checked.
func Run(ctx context.Context, fs afero.Fs, dir string, args []string, opts Options, out io.Writer) error {
	if opts.Format == "" {
		opts.Format = "text"
	}
	if opts.Format != "text" && opts.Format != "json" {
		return errors.Errorf("unknown format %q", opts.Format)
	}

	cfg, path, err := config.Resolve(fs, opts.ConfigPath, dir)
	if err != nil {
		return err
	}
	if path != "" {
		zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loaded configuration")
	}
	if opts.Clamp != nil {
		cfg.Assembler.Clamp = *opts.Clamp
	}
	if opts.SpinReals != nil {
		cfg.Assembler.SpinReals = *opts.SpinReals
	}

	files, err := Files(fs, dir, args, cfg.Check)
	if err != nil {
		return err
	}

	var result *multierror.Error
	reports := []Report{}
	failed := false

	for _, file := range files {
		data, err := afero.ReadFile(fs, filepath.Join(dir, file))
		if err != nil {
			result = multierror.Append(result, errors.Errorf("reading %s: %w", file, err))
			continue
		}

		res := analysis.Parse(ctx, string(data), cfg.AnalysisOptions())
		for _, d := range res.Diagnostics {
			if d.Severity == diagnostic.Error {
				failed = true
			}
			reports = append(reports, Report{
				File:     file,
				Line:     d.Range.Start.Line + 1,
				Column:   d.Range.Start.Character + 1,
				Severity: d.Severity.String(),
				Source:   d.Source,
				Message:  d.Message,
			})
		}
	}

	if err := write(out, opts.Format, reports); err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Int("files", len(files)).Int("diagnostics", len(reports)).Msg("checked")

	if failed {
		result = multierror.Append(result, ErrProblems)
	}
	return result.ErrorOrNil()
}

// Files resolves args, or the include globs when args is empty, to sorted
// slash-separated paths relative to dir. Excludes apply in both cases.
func Files(fs afero.Fs, dir string, args []string, check config.Check) ([]string, error) {
	fsys := afero.NewIOFS(afero.NewBasePathFs(fs, dir))

	patterns := args
	if len(patterns) == 0 {
		patterns = check.Include
	}

	seen := map[string]bool{}
	files := []string{}
	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if !doublestar.ValidatePattern(pattern) {
			return nil, errors.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("matching %q: %w", pattern, err)
		}
		if len(matches) == 0 && len(args) > 0 {
			// an explicit file that does not exist is reported when read
			matches = []string{pattern}
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			excluded, err := isExcluded(m, check.Exclude)
			if err != nil {
				return nil, err
			}
			if excluded {
				continue
			}
			seen[m] = true
			files = append(files, m)
		}
	}

	slices.Sort(files)
	return files, nil
}

func isExcluded(file string, excludes []string) (bool, error) {
	for _, pattern := range excludes {
		ok, err := doublestar.Match(filepath.ToSlash(pattern), file)
		if err != nil {
			return false, errors.Errorf("matching exclude %q: %w", pattern, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

var severityColors = map[string]*color.Color{
	"error":   color.New(color.FgRed, color.Bold),
	"warning": color.New(color.FgYellow, color.Bold),
	"info":    color.New(color.FgBlue),
	"hint":    color.New(color.Faint),
}

func write(out io.Writer, format string, reports []Report) error {
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(reports); err != nil {
			return errors.Errorf("writing reports: %w", err)
		}
		return nil
	}

	bold := color.New(color.Bold)
	for _, r := range reports {
		sev := r.Severity
		if c, ok := severityColors[sev]; ok {
			sev = c.Sprint(sev)
		}
		if _, err := fmt.Fprintf(out, "%s:%d:%d: %s: %s\n", bold.Sprint(r.File), r.Line, r.Column, sev, r.Message); err != nil {
			return errors.Errorf("writing reports: %w", err)
		}
	}
	return nil
}
