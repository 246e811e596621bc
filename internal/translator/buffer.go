package translator

import (
	"fmt"

	"logalizer/internal/interpolation"
	"logalizer/internal/ruleset"
)

// Buffer accumulates the output lines of one run together with the
// occurrence counters used by the count policies.
type Buffer struct {
	lines  []string
	first  map[string]int
	counts map[int]int
}

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		first:  make(map[string]int),
		counts: make(map[int]int),
	}
}

// Record applies policy to line and reports whether a new entry was appended.
func (b *Buffer) Record(line string, policy ruleset.DuplicatePolicy) bool {
	switch policy {
	case ruleset.Allowed:
		return b.recordAllowed(line)
	case ruleset.RemoveAll:
		return b.recordRemoveAll(line)
	case ruleset.RemoveContinuous:
		return b.recordRemoveContinuous(line)
	case ruleset.CountAll:
		return b.recordCountAll(line)
	case ruleset.CountContinuous:
		return b.recordCountContinuous(line)
	}
	panic(fmt.Sprintf("translator: unknown duplicate policy %v", policy))
}

func (b *Buffer) recordAllowed(line string) bool {
	b.push(line)
	return true
}

func (b *Buffer) recordRemoveAll(line string) bool {
	if _, seen := b.first[line]; seen {
		return false
	}
	b.push(line)
	return true
}

func (b *Buffer) recordRemoveContinuous(line string) bool {
	if b.lastIs(line) {
		return false
	}
	b.push(line)
	return true
}

func (b *Buffer) recordCountAll(line string) bool {
	if i, seen := b.first[line]; seen {
		b.counts[i]++
		return false
	}
	b.push(line)
	b.counts[len(b.lines)-1]++
	return true
}

func (b *Buffer) recordCountContinuous(line string) bool {
	appended := !b.lastIs(line)
	if appended {
		b.push(line)
	}
	b.counts[len(b.lines)-1]++
	return appended
}

func (b *Buffer) push(line string) {
	if _, seen := b.first[line]; !seen {
		b.first[line] = len(b.lines)
	}
	b.lines = append(b.lines, line)
}

func (b *Buffer) lastIs(line string) bool {
	return len(b.lines) > 0 && b.lines[len(b.lines)-1] == line
}

// Len returns the number of entries.
func (b *Buffer) Len() int { return len(b.lines) }

// Count returns the counter of entry i. Entries untouched by count policies report 0.
func (b *Buffer) Count(i int) int { return b.counts[i] }

// Lines returns a copy of the entries with ${count} substituted in every
// counted entry. Uncounted entries are returned as recorded.
func (b *Buffer) Lines() []string {
	out := make([]string, len(b.lines))
	copy(out, b.lines)
	for i, n := range b.counts {
		if n > 0 {
			out[i] = interpolation.FillCount(out[i], n)
		}
	}
	return out
}
