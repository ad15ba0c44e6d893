package filter

import (
	"github.com/Geun-Oh/logsieve/internal/buffer"
	"github.com/Geun-Oh/logsieve/internal/entry"
	"github.com/Geun-Oh/logsieve/internal/interval"
)

// Assembler provides grep-like context around matched entries.
// It holds at most k trailing unmatched entries plus the group being built, and
// merges windows that overlap or touch so no line is emitted twice.
// Entries must be pushed with consecutive indices.
type Assembler struct {
	k         int
	ring      *buffer.Ring[entry.LogEntry] // unmatched entries not yet in a group
	cur       *entry.Group
	lastMatch int
}

// NewAssembler creates an assembler with k lines of context on each side of a match.
func NewAssembler(k int) *Assembler {
	if k < 0 {
		k = 0
	}
	return &Assembler{
		k:    k,
		ring: buffer.NewRing[entry.LogEntry](k),
	}
}

// Push adds the next entry. It returns a group once that group can no longer grow.
func (a *Assembler) Push(e entry.LogEntry) (entry.Group, bool) {
	// Inside the after-window of the last match.
	if a.cur != nil && e.Index <= a.lastMatch+a.k {
		a.append(e)
		if e.Matched {
			a.lastMatch = e.Index
		}
		return entry.Group{}, false
	}

	if e.Matched {
		// Buffered lines are either this match's before-window or the gap to the
		// open group; in both cases they join the group.
		for _, b := range a.ring.Drain() {
			a.append(b)
		}
		a.append(e)
		a.lastMatch = e.Index
		return entry.Group{}, false
	}

	a.ring.Push(e)

	// No later match can reach back to the open group any more.
	if a.cur != nil && e.Index >= a.lastMatch+2*a.k+1 {
		return a.finish(), true
	}
	return entry.Group{}, false
}

// Flush returns the open group, if any, at end of stream.
func (a *Assembler) Flush() (entry.Group, bool) {
	a.ring.Reset()
	if a.cur == nil {
		return entry.Group{}, false
	}
	return a.finish(), true
}

func (a *Assembler) append(e entry.LogEntry) {
	if a.cur == nil {
		a.cur = &entry.Group{Start: e.Index}
	}
	a.cur.Lines = append(a.cur.Lines, e)
	a.cur.End = e.Index
}

func (a *Assembler) finish() entry.Group {
	g := *a.cur
	a.cur = nil
	return g
}

// Assemble is the whole-stream form of Assembler: entries are indexed 0..n-1 in order.
func Assemble(entries []entry.LogEntry, k int) []entry.Group {
	var matches []int
	for _, e := range entries {
		if e.Matched {
			matches = append(matches, e.Index)
		}
	}

	windows := interval.Windows(matches, k, len(entries))
	if len(windows) == 0 {
		return nil
	}

	groups := make([]entry.Group, 0, len(windows))
	for _, w := range windows {
		lines := make([]entry.LogEntry, w.Len())
		copy(lines, entries[w.Start:w.End+1])
		groups = append(groups, entry.Group{Start: w.Start, End: w.End, Lines: lines})
	}
	return groups
}
