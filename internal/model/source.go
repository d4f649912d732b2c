package model

import (
	"fmt"
	"sort"
	"strings"
)

// Range is a half-open [Start, End) byte span into one SourceBuffer version.
type Range struct {
	Start int
	End   int
}

// Len returns the width of the range in bytes.
func (r Range) Len() int { return r.End - r.Start }

// Binding is the result of scope resolution: a declared identifier name and
// every occurrence range that refers to it in one SourceBuffer version.
// Bindings must never be reused after the buffer is mutated.
type Binding struct {
	Name   string
	Ranges []Range
}

// SourceBuffer holds one immutable version of the source text. Every rename
// produces a new buffer with a bumped version; token ranges and bindings
// derived from an older version are invalid against the new one.
type SourceBuffer struct {
	text    string
	version int
}

// NewSourceBuffer wraps raw source text as version 0.
func NewSourceBuffer(text string) *SourceBuffer {
	return &SourceBuffer{text: text}
}

// Text returns the source text of this version.
func (b *SourceBuffer) Text() string { return b.text }

// Version returns the mutation counter for this buffer.
func (b *SourceBuffer) Version() int { return b.version }

// Len returns the byte length of this version.
func (b *SourceBuffer) Len() int { return len(b.text) }

// Splice replaces every given range with replacement and returns the next
// buffer version. Ranges must not overlap and must lie inside the buffer.
func (b *SourceBuffer) Splice(ranges []Range, replacement string) (*SourceBuffer, error) {
	sorted := make([]Range, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	var sb strings.Builder

	prev := 0

	for _, r := range sorted {
		if r.Start < prev || r.End > len(b.text) || r.End < r.Start {
			return nil, fmt.Errorf("splice range [%d,%d) invalid for buffer version %d (len %d)",
				r.Start, r.End, b.version, len(b.text))
		}

		sb.WriteString(b.text[prev:r.Start])
		sb.WriteString(replacement)
		prev = r.End
	}

	sb.WriteString(b.text[prev:])

	return &SourceBuffer{text: sb.String(), version: b.version + 1}, nil
}

// RenameCounter mints the numeric component of synthetic names. It is
// created by the caller and threaded through explicitly so that repeated
// per-file runs are independently reproducible.
type RenameCounter struct {
	next int
}

// NewRenameCounter returns a counter starting at zero.
func NewRenameCounter() *RenameCounter { return &RenameCounter{} }

// Next returns the current value and advances the counter.
func (c *RenameCounter) Next() int {
	n := c.next
	c.next++

	return n
}

// Value returns the number of names minted so far.
func (c *RenameCounter) Value() int { return c.next }
