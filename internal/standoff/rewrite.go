// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"regexp"
	"strings"

	"github.com/buda-base/etext-sync/pkg/types"
)

// Match gives a replacement function access to one regex match.
type Match struct {
	re   *regexp.Regexp
	text string
	idx  []int
}

// Start returns the match's start offset in the input.
func (m Match) Start() int { return m.idx[0] }

// End returns the match's end offset in the input.
func (m Match) End() int { return m.idx[1] }

// Group returns the text captured by the named group, or "" when the group
// did not participate in the match.
func (m Match) Group(name string) string {
	i := m.re.SubexpIndex(name)
	if i < 0 || m.idx[2*i] < 0 {
		return ""
	}
	return m.text[m.idx[2*i]:m.idx[2*i+1]]
}

// Text returns the full matched text.
func (m Match) Text() string { return m.text[m.idx[0]:m.idx[1]] }

// rewrite replaces every match of re in text with the result of repl and
// returns the output together with a Tracker describing the offset shifts.
// repl receives the match and the output offset at which its replacement will
// be written, so passes can record annotations directly in output coordinates.
func rewrite(text string, re *regexp.Regexp, repl func(m Match, out int) string) (string, *Tracker) {
	t := &Tracker{}
	matches := re.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return text, t
	}

	var b strings.Builder
	b.Grow(len(text))
	cumulative := 0
	last := 0
	for _, idx := range matches {
		ms, me := idx[0], idx[1]
		b.WriteString(text[last:ms])
		r := repl(Match{re: re, text: text, idx: idx}, b.Len())
		if len(r) != me-ms {
			t.RecordSpan(ms, me, b.Len(), len(r))
			cumulative += len(r) - (me - ms)
			t.Record(me, cumulative)
		}
		b.WriteString(r)
		last = me
	}
	b.WriteString(text[last:])
	return b.String(), t
}

// apply remaps every coordinate in a through the tracker. Called once after
// each pass, before the pass's own annotations are merged in (those are
// already recorded in output coordinates).
func apply(t *Tracker, a *types.AnnotationSet) {
	for i := range a.Pages {
		a.Pages[i].Start = t.Resolve(a.Pages[i].Start)
		a.Pages[i].End = t.Resolve(a.Pages[i].End)
	}
	for i := range a.Spans {
		a.Spans[i].Start = t.Resolve(a.Spans[i].Start)
		a.Spans[i].End = t.Resolve(a.Spans[i].End)
	}
	for id, pos := range a.Milestones {
		a.Milestones[id] = t.Resolve(pos)
	}
	for i := range a.Divisions {
		a.Divisions[i].Start = t.Resolve(a.Divisions[i].Start)
		a.Divisions[i].End = t.Resolve(a.Divisions[i].End)
	}
}
