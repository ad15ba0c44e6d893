// Package interval merges closed integer intervals.
package interval

import "sort"

// Interval is the closed range [Start, End].
type Interval struct {
	Start int
	End   int
}

// Len returns the number of integers covered by the interval.
func (iv Interval) Len() int {
	if iv.End < iv.Start {
		return 0
	}
	return iv.End - iv.Start + 1
}

// Touches reports whether next overlaps iv or begins right after it.
func (iv Interval) Touches(next Interval) bool {
	return next.Start <= iv.End+1 && iv.Start <= next.End+1
}

// Merge combines overlapping or adjacent intervals and returns them sorted by Start.
// The input slice is not modified.
func Merge(ivs []Interval) []Interval {
	if len(ivs) == 0 {
		return nil
	}

	sorted := make([]Interval, len(ivs))
	copy(sorted, ivs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Start < sorted[j].Start })

	out := []Interval{sorted[0]}
	for _, iv := range sorted[1:] {
		last := &out[len(out)-1]
		if last.Touches(iv) {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		out = append(out, iv)
	}
	return out
}

// Windows expands every point p to [p-radius, p+radius], clipped to [0, n-1], and merges the result.
func Windows(points []int, radius, n int) []Interval {
	if n <= 0 || radius < 0 {
		return nil
	}

	ivs := make([]Interval, 0, len(points))
	for _, p := range points {
		if p < 0 || p >= n {
			continue
		}
		ivs = append(ivs, Interval{Start: max(p-radius, 0), End: min(p+radius, n-1)})
	}
	return Merge(ivs)
}
