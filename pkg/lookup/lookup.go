// Package lookup indexes tokens by position and by base name.
package lookup

import (
	"iter"
	"slices"
	"sort"
	"strings"

	"github.com/walteh/spinasm-lsp/pkg/position"
	"github.com/walteh/spinasm-lsp/pkg/token"
)

// Entry is implemented by *token.Token and *token.Evaluated.
type Entry[T any] interface {
	Name() string
	Span() position.Range
	Base() T
	Absorb(T) bool
}

// Lookup is the dual index for one parse of one document. Tokens are added in scan
// order and the index is read only once the parse completes.
type Lookup[T Entry[T]] struct {
	lines map[int][]T
	names map[string][]T
	order []int
	prev  T
	empty bool
}

func New[T Entry[T]]() *Lookup[T] {
	return &Lookup[T]{
		lines: map[int][]T{},
		names: map[string][]T{},
		empty: true,
	}
}

// Add indexes tok. A CHO qualifier is folded into the previous token instead of
// being stored on its own, in which case Add returns false.
func (l *Lookup[T]) Add(tok T) bool {
	if !l.empty {
		stem := l.prev.Base().Name()
		if l.prev.Absorb(tok) {
			l.rename(stem, l.prev)
			return false
		}
	}

	line := tok.Span().Start.Line
	if _, ok := l.lines[line]; !ok {
		l.order = append(l.order, line)
	}
	l.lines[line] = append(l.lines[line], tok)

	base := tok.Base()
	l.names[base.Name()] = append(l.names[base.Name()], base)

	l.prev = tok
	l.empty = false
	return true
}

// rename moves the most recent entry for name to the merged token's name.
func (l *Lookup[T]) rename(name string, merged T) {
	if entries := l.names[name]; len(entries) > 0 {
		l.names[name] = entries[:len(entries)-1]
		if len(l.names[name]) == 0 {
			delete(l.names, name)
		}
	}
	base := merged.Base()
	l.names[base.Name()] = append(l.names[base.Name()], base)
}

// At returns the token covering place. A place on a token's end column still
// resolves to that token unless another token starts there.
func (l *Lookup[T]) At(place position.Place) (T, bool) {
	var zero T

	toks := l.lines[place.Line]
	if len(toks) == 0 {
		return zero, false
	}

	// index of the first token starting after the column
	idx := sort.Search(len(toks), func(i int) bool {
		return toks[i].Span().Start.Character > place.Character
	})
	if idx == 0 {
		return zero, false
	}

	tok := toks[idx-1]
	if place.Character > tok.Span().End.Character {
		return zero, false
	}
	return tok, true
}

// Named returns the base-name clones of every token sharing base name, in scan order.
func (l *Lookup[T]) Named(name string) []T {
	return slices.Clone(l.names[token.BaseName(strings.ToUpper(name))])
}

func (l *Lookup[T]) OnLine(line int) []T {
	return slices.Clone(l.lines[line])
}

// All yields every token ordered by line, then column.
func (l *Lookup[T]) All() iter.Seq[T] {
	lines := slices.Clone(l.order)
	slices.Sort(lines)
	return func(yield func(T) bool) {
		for _, line := range lines {
			for _, tok := range l.lines[line] {
				if !yield(tok) {
					return
				}
			}
		}
	}
}

func (l *Lookup[T]) Len() int {
	n := 0
	for _, toks := range l.lines {
		n += len(toks)
	}
	return n
}
