// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package standoff converts marker-normalized document text into plain text
// with standoff annotations: page boundaries, highlighted spans, milestones,
// and structural divisions, all addressed by byte offset into the final text.
//
// The conversion is a fixed sequence of string-rewrite passes. Every pass can
// shrink or grow the string, so coordinates recorded against an earlier
// version are remapped through a Tracker after each pass.
package standoff

import "sort"

// Tracker maps byte offsets recorded against the input of one rewrite pass to
// offsets in that pass's output. A pass records a breakpoint each time the
// cumulative length shift changes; everything between two breakpoints shifts
// by a constant amount, so resolution is a binary search instead of a re-walk
// of the whole string.
type Tracker struct {
	breaks []int
	diffs  []int
	spans  []rewrittenSpan
}

// rewrittenSpan remembers one replaced match so offsets interior to it can be
// clamped into the replacement instead of resolved past its end.
type rewrittenSpan struct {
	start, end int // matched range in input coordinates
	outStart   int // where the replacement begins in the output
	replLen    int
}

// Record appends a (breakpoint, cumulative shift) entry. Breakpoints must be
// produced in non-decreasing order; a breakpoint that does not exceed the last
// recorded one overwrites the last entry's shift.
func (t *Tracker) Record(breakpoint, cumulativeDiff int) {
	if len(t.breaks) == 0 || breakpoint > t.breaks[len(t.breaks)-1] {
		t.breaks = append(t.breaks, breakpoint)
		t.diffs = append(t.diffs, cumulativeDiff)
		return
	}
	t.diffs[len(t.diffs)-1] = cumulativeDiff
}

// RecordSpan remembers a replaced match so that offsets falling inside it are
// remapped onto the replacement. Spans must be recorded in input order and
// must not overlap.
func (t *Tracker) RecordSpan(start, end, outStart, replLen int) {
	t.spans = append(t.spans, rewrittenSpan{start: start, end: end, outStart: outStart, replLen: replLen})
}

// Resolve maps an input offset to the corresponding output offset. Offsets
// interior to a replaced match are clamped to the replacement's extent; all
// other offsets shift by the cumulative diff of the last breakpoint at or
// before them, or stay unchanged when no breakpoint precedes them.
func (t *Tracker) Resolve(offset int) int {
	if i := sort.Search(len(t.spans), func(i int) bool { return t.spans[i].end > offset }); i < len(t.spans) {
		if s := t.spans[i]; offset >= s.start {
			rel := offset - s.start
			if rel > s.replLen {
				rel = s.replLen
			}
			return s.outStart + rel
		}
	}
	i := sort.SearchInts(t.breaks, offset+1) - 1
	if i < 0 {
		return offset
	}
	return offset + t.diffs[i]
}
