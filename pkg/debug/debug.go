// Package debug holds the zerolog hooks and logger construction shared by the
// language server and the command line.
package debug

import (
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

const TimeFormat = "2006-01-02T15:04:05.0000Z"

// CustomTimeHook stamps events with millisecond precision and no zone.
type CustomTimeHook struct {
	Format string
}

func (t CustomTimeHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	format := t.Format
	if format == "" {
		format = TimeFormat
	}
	e.Str("time", time.Now().UTC().Format(format))
}

// CustomCallerHook records the package, file and line of the logging call.
type CustomCallerHook struct {
	WithColor bool
}

func (c CustomCallerHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	pc, file, line, ok := runtime.Caller(skipFrames(e) + 3)
	if !ok {
		return
	}

	pkg := "unknown"
	if fn := runtime.FuncForPC(pc); fn != nil {
		pkg, _ = SplitFuncName(fn.Name())
	}

	e.Str("caller", FormatCaller(pkg, file, line, c.WithColor))
}

// skipFrames reads the event's CallerSkipFrame count, which zerolog keeps private.
func skipFrames(e *zerolog.Event) int {
	field := reflect.ValueOf(e).Elem().FieldByName("skipFrame")
	if !field.IsValid() {
		return 0
	}
	return int(field.Int())
}

// SplitFuncName splits a runtime function name such as
// "github.com/x/y/pkg.(*T).Method" into its package and function parts.
func SplitFuncName(name string) (pkg, function string) {
	lastSlash := max(strings.LastIndexByte(name, '/'), 0)
	dot := strings.IndexByte(name[lastSlash:], '.')
	if dot < 0 {
		return name, ""
	}
	dot += lastSlash

	pkg, function = name[:dot], name[dot+1:]
	if before, after, ok := strings.Cut(pkg, ".("); ok {
		pkg = before
		function = "(" + after + "." + function
	}
	return pkg, function
}

func FormatCaller(pkg, path string, line int, colorize bool) string {
	file := filepath.Base(path)
	if !colorize {
		return fmt.Sprintf("%s:%s:%d", pkg, file, line)
	}

	sep := color.New(color.Faint).Sprint(":")
	return pkg + sep + color.New(color.Bold).Sprint(file) + sep + color.New(color.FgHiRed, color.Bold).Sprint(line)
}

// NewLogger builds the process logger. Human output goes through a console
// writer, otherwise one JSON object is written per line.
func NewLogger(w io.Writer, level zerolog.Level, human bool) zerolog.Logger {
	if human {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: TimeFormat, NoColor: color.NoColor}
	}
	return zerolog.New(w).
		Level(level).
		Hook(CustomTimeHook{}).
		Hook(CustomCallerHook{WithColor: human && !color.NoColor})
}
