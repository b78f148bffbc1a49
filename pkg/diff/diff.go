// Package diff renders readable differences for test failures.
package diff

import (
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/kylelemons/godebug/diff"
)

// Values pretty-prints both values without unexported fields and returns the
// line diff that turns got into want. It is empty when they print the same.
func Values[T any](want, got T) string {
	printer := pp.New()
	printer.SetExportedOnly(true)
	printer.SetColoringEnabled(false)
	return render(diff.Diff(printer.Sprint(got), printer.Sprint(want)))
}

// Text diffs two documents line by line.
func Text(want, got string) string {
	return render(diff.Diff(got, want))
}

func render(d string) string {
	if d == "" {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("\n\nto convert ACTUAL ⏩️ EXPECTED:\n\n")
	sb.WriteString("add:    ➕\nremove: ➖\n\n")
	sb.WriteString(strings.NewReplacer("\n-", "\n➖", "\n+", "\n➕").Replace("\n" + d)[1:])
	return sb.String()
}
