package position

import (
	"fmt"
	"strings"
)

// Place is a zero-indexed line and column in a document.
type Place struct {
	Line      int
	Character int
}

func (p Place) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Character)
}

// Compare orders places by line, then column.
func (p Place) Compare(other Place) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Character < other.Character:
		return -1
	case p.Character > other.Character:
		return 1
	}
	return 0
}

// Range is a half-open [Start, End) span.
type Range struct {
	Start Place
	End   Place
}

func NewRange(line, start, end int) Range {
	return Range{
		Start: Place{Line: line, Character: start},
		End:   Place{Line: line, Character: end},
	}
}

// Point returns a zero-width range at p.
func Point(p Place) Range {
	return Range{Start: p, End: p}
}

func (r Range) String() string {
	return fmt.Sprintf("%s-%s", r.Start, r.End)
}

// Len is the column width of a single-line range.
func (r Range) Len() int {
	return r.End.Character - r.Start.Character
}

// RawPosition is a byte offset into a document, with the text found there.
type RawPosition struct {
	Offset int
	Text   string
}

// NewRawPositionFromPlace converts a line/column into a byte offset in fileText.
// Places past the end of a line clamp to the line end, places past the last line
// clamp to the end of the text.
func NewRawPositionFromPlace(place Place, text, fileText string) RawPosition {
	offset := 0
	lines := strings.SplitAfter(fileText, "\n")
	for i := 0; i < place.Line; i++ {
		if i >= len(lines) {
			return RawPosition{Text: text, Offset: len(fileText)}
		}
		offset += len(lines[i])
	}

	if place.Line < len(lines) {
		width := len(strings.TrimRight(lines[place.Line], "\r\n"))
		offset += min(place.Character, width)
	}

	return RawPosition{Text: text, Offset: min(offset, len(fileText))}
}

// Place calculates the zero-based line and column of the position in text.
func (p RawPosition) Place(text string) Place {
	line := 0
	lastNewline := -1
	for i := 0; i < p.Offset && i < len(text); i++ {
		if text[i] == '\n' {
			line++
			lastNewline = i
		}
	}

	return Place{Line: line, Character: p.Offset - lastNewline - 1}
}

func (p RawPosition) String() string {
	return fmt.Sprintf("%s@%d", p.Text, p.Offset)
}

// ReplaceRange substitutes the text between two places, as an incremental
// document change does.
func ReplaceRange(content string, r Range, text string) string {
	start := NewRawPositionFromPlace(r.Start, "", content)
	end := NewRawPositionFromPlace(r.End, "", content)
	if end.Offset < start.Offset {
		start, end = end, start
	}
	return content[:start.Offset] + text + content[end.Offset:]
}
