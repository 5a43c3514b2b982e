// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/buda-base/etext-sync/pkg/types"
)

// pageSeparator is inserted between consecutive pages; a page's End is the
// next page's Start minus its length.
const pageSeparator = "\n\n"

var (
	divMarkerRE  = regexp.MustCompile(`<div_(?P<kind>start|end)_marker\s*/>`)
	milestoneRE  = regexp.MustCompile(`(?s)[\r\n\s]*<milestone_marker>(?P<id>.*?)</milestone_marker>`)
	pageMarkerRE = regexp.MustCompile(`(?s)[\r\n\s]*<pb_marker>(?P<pname>.*?)</pb_marker>[\r\n\s]*`)
	hiOpenRE     = regexp.MustCompile(`<hi_(?P<rend>[^>]+)>`)
	anyTagRE     = regexp.MustCompile(`(?s)</?[^>]*?>`)
	entityRE     = regexp.MustCompile(`&(?:quot|apos|lt|gt|amp|#\d+);`)
	lineSpaceRE  = regexp.MustCompile(`[\t \r]*\n[\t \r]*`)
	newlineRunRE = regexp.MustCompile(`\n{3,}`)
)

var entityLiteral = map[string]string{
	"&quot;": `"`,
	"&apos;": "'",
	"&lt;":   "<",
	"&gt;":   ">",
	"&amp;":  "&",
}

// convertDivBoundaries removes division boundary markers, writing two
// newlines after each division so adjacent divisions stay separated, and
// records each division's start/end offset pair.
func convertDivBoundaries(text string, a *types.AnnotationSet) string {
	var divs []types.Division
	var open []int
	out, t := rewrite(text, divMarkerRE, func(m Match, pos int) string {
		if m.Group("kind") == "start" {
			open = append(open, len(divs))
			divs = append(divs, types.Division{Start: pos, End: -1})
			return ""
		}
		if n := len(open); n > 0 {
			divs[open[n-1]].End = pos
			open = open[:n-1]
		}
		return pageSeparator
	})
	apply(t, a)
	for _, d := range divs {
		if d.End >= 0 {
			a.Divisions = append(a.Divisions, d)
		}
	}
	return out
}

// convertMilestones removes milestone markers and records each milestone id
// at the marker's offset. Only leading whitespace is consumed so spacing
// between surrounding elements survives.
func convertMilestones(text string, a *types.AnnotationSet) string {
	coords := map[string]int{}
	out, t := rewrite(text, milestoneRE, func(m Match, pos int) string {
		coords[m.Group("id")] = pos
		return ""
	})
	apply(t, a)
	if len(coords) > 0 {
		if a.Milestones == nil {
			a.Milestones = map[string]int{}
		}
		for id, pos := range coords {
			a.Milestones[id] = pos
		}
	}
	return out
}

// convertPages removes page markers, separating consecutive pages with two
// newlines, and records the page partition: each page ends where the next
// one's separator begins, the last at the end of the text. Page numbers are
// assigned sequentially from 1.
func convertPages(text string, a *types.AnnotationSet) string {
	var pages []types.Page
	out, t := rewrite(text, pageMarkerRE, func(m Match, pos int) string {
		if pos == 0 {
			pages = append(pages, types.Page{Label: m.Group("pname")})
			return ""
		}
		pages = append(pages, types.Page{Label: m.Group("pname"), Start: pos + len(pageSeparator)})
		return pageSeparator
	})
	apply(t, a)
	for i := range pages {
		pages[i].Number = i + 1
		if i < len(pages)-1 {
			pages[i].End = pages[i+1].Start - len(pageSeparator)
		} else {
			pages[i].End = len(out)
		}
	}
	a.Pages = append(a.Pages, pages...)
	return out
}

// convertHighlights unwraps highlight markers and records a span for each,
// keyed by the marker's render kind. An open marker pairs with the nearest
// close marker of the same kind; mismatched or unpaired markers stay in place
// for the residual-tag pass. Nested highlights unwrap outside-in over repeated
// sweeps, each sweep remapping the spans the earlier ones recorded.
func convertHighlights(text string, a *types.AnnotationSet) string {
	for {
		out, t, spans, changed := unwrapHighlights(text)
		apply(t, a)
		a.Spans = append(a.Spans, spans...)
		text = out
		if !changed {
			return text
		}
	}
}

// unwrapHighlights makes one left-to-right sweep, deleting each paired
// open/close marker as two separate rewrites so offsets interior to the
// highlighted content shift by exactly the open tag's length.
func unwrapHighlights(text string) (string, *Tracker, []types.Span, bool) {
	t := &Tracker{}
	var spans []types.Span
	var b strings.Builder
	b.Grow(len(text))
	cumulative := 0
	last := 0
	changed := false
	for {
		idx := hiOpenRE.FindStringSubmatchIndex(text[last:])
		if idx == nil {
			break
		}
		os, oe := last+idx[0], last+idx[1]
		rend := text[last+idx[2] : last+idx[3]]
		closing := "</hi_" + rend + ">"
		ci := strings.Index(text[oe:], closing)
		if ci < 0 {
			b.WriteString(text[last:oe])
			last = oe
			continue
		}
		cs := oe + ci
		ce := cs + len(closing)

		b.WriteString(text[last:os])
		start := b.Len()
		t.RecordSpan(os, oe, start, 0)
		cumulative -= oe - os
		t.Record(oe, cumulative)
		b.WriteString(text[oe:cs])
		t.RecordSpan(cs, ce, b.Len(), 0)
		cumulative -= ce - cs
		t.Record(ce, cumulative)
		spans = append(spans, types.Span{Kind: rend, Start: start, End: b.Len()})
		last = ce
		changed = true
	}
	b.WriteString(text[last:])
	return b.String(), t, spans, changed
}

// removeTags strips every remaining tag-like substring.
func removeTags(text string, a *types.AnnotationSet) string {
	out, t := rewrite(text, anyTagRE, func(Match, int) string { return "" })
	apply(t, a)
	return out
}

// unescapeEntities replaces the five named markup character references and
// decimal numeric references with their literal characters.
func unescapeEntities(text string, a *types.AnnotationSet) string {
	out, t := rewrite(text, entityRE, func(m Match, _ int) string {
		e := m.Text()
		if lit, ok := entityLiteral[e]; ok {
			return lit
		}
		n, err := strconv.Atoi(e[2 : len(e)-1])
		if err != nil {
			return e
		}
		return string(rune(n))
	})
	apply(t, a)
	return out
}

// normalizeNewlines collapses horizontal whitespace around each newline into
// a bare newline.
func normalizeNewlines(text string, a *types.AnnotationSet) string {
	out, t := rewrite(text, lineSpaceRE, func(Match, int) string { return "\n" })
	apply(t, a)
	return out
}

// collapseNewlines reduces runs of three or more newlines to exactly two.
func collapseNewlines(text string, a *types.AnnotationSet) string {
	out, t := rewrite(text, newlineRunRE, func(Match, int) string { return pageSeparator })
	apply(t, a)
	return out
}
