// Package docs holds reference documentation for FV-1 instructions and
// assembler directives, rendered as markdown.
package docs

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

const copyright = "*Adapted from Spin Semiconductor SPINAsm & FV-1 Instruction Set reference manual. " +
	"Copyright 2008 by Spin Semiconductor.*"

// Parameter is one operand of an instruction.
type Parameter struct {
	Name    string
	Width   int
	Formats []string
}

// Label is the parameter as shown in signature help, e.g. "N: Decimal (1-63) | Label".
func (p Parameter) Label() string {
	return p.Name + ": " + strings.ReplaceAll(strings.Join(p.Formats, " | "), " - ", "-")
}

// Entry is a documented opcode or directive.
type Entry interface {
	Name() string
	Title() string
	Description() string
	Markdown() string
}

// Instruction documents an opcode.
type Instruction struct {
	Opcode     string
	Parameters []Parameter
	Operation  string
	Coding     string
	Summary    string
	Example    string
}

func (i *Instruction) Name() string {
	return i.Opcode
}

// Title is the opcode with its parameter names, e.g. "SKP CMASK, N" or
// "CHO RDA, N, C, D".
func (i *Instruction) Title() string {
	names := make([]string, len(i.Parameters))
	for n, p := range i.Parameters {
		names[n] = p.Name
	}
	switch {
	case len(names) == 0:
		return i.Opcode
	case strings.HasPrefix(i.Opcode, "CHO "):
		return i.Opcode + ", " + strings.Join(names, ", ")
	default:
		return i.Opcode + " " + strings.Join(names, ", ")
	}
}

func (i *Instruction) Description() string {
	return "**`" + i.Title() + "`**" + i.Summary
}

func (i *Instruction) Markdown() string {
	md := &Markdown{}
	md.Heading("`"+i.Title()+"`", 2).
		Rule().
		Paragraph(i.Description()).
		Heading("Operation", 3).
		Paragraph("`" + i.Operation + "`").
		Heading("Parameters", 3)

	if len(i.Parameters) == 0 {
		md.Paragraph("None.")
	} else {
		rows := make([][]string, len(i.Parameters))
		for n, p := range i.Parameters {
			rows[n] = []string{p.Name, widthString(p.Width), strings.Join(p.Formats, "<br>")}
		}
		md.Table([]string{"Name", "Width", "Entry formats, range"}, rows)
	}

	md.Heading("Instruction Coding", 3).
		Paragraph("**" + i.Coding + "**").
		Heading("Example", 3).
		CodeBlock(i.Example, "assembly").
		Rule().
		Paragraph(copyright)

	return md.String()
}

func widthString(bits int) string {
	return strconv.Itoa(bits) + " Bit"
}

// Directive documents an assembler directive.
type Directive struct {
	Keyword string
	Summary string
	Example string
}

func (d *Directive) Name() string {
	return d.Keyword
}

func (d *Directive) Title() string {
	return d.Keyword
}

func (d *Directive) Description() string {
	return "**`" + d.Keyword + "`**" + d.Summary
}

func (d *Directive) Markdown() string {
	md := &Markdown{}
	md.Heading("`"+d.Keyword+"`", 2).
		Rule().
		Paragraph(d.Description()).
		Heading("Example", 3).
		CodeBlock(d.Example, "assembly").
		Rule().
		Paragraph(copyright)
	return md.String()
}

var entries = func() map[string]Entry {
	m := map[string]Entry{}
	for _, i := range instructions {
		m[i.Opcode] = i
	}
	for _, d := range directives {
		m[d.Keyword] = d
	}
	return m
}()

// Lookup finds documentation by name, ignoring case. Merged CHO opcodes are
// looked up with a single space, e.g. "CHO RDAL".
func Lookup(name string) (Entry, bool) {
	e, ok := entries[strings.ToUpper(strings.Join(strings.Fields(name), " "))]
	return e, ok
}

// LookupInstruction is Lookup restricted to opcodes.
func LookupInstruction(name string) (*Instruction, bool) {
	e, ok := Lookup(name)
	if !ok {
		return nil, false
	}
	i, ok := e.(*Instruction)
	return i, ok
}

// Names returns every documented name, sorted.
func Names() []string {
	return slices.Sorted(maps.Keys(entries))
}

// Instructions returns every documented opcode in manual order.
func Instructions() []*Instruction {
	return slices.Clone(instructions)
}

// Directives returns the documented assembler directives.
func Directives() []*Directive {
	return slices.Clone(directives)
}
