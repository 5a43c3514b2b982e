// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/buda-base/etext-sync/internal/tei"
	"github.com/buda-base/etext-sync/pkg/types"
)

// Convert runs the marker-normalized text through the full pass sequence and
// returns the plain text with its annotations. In preserve mode the
// structural passes (division boundaries, newline collapsing, division
// snapping) are skipped so spacing survives verbatim.
func Convert(marked string, preserve bool) (string, *types.AnnotationSet) {
	a := &types.AnnotationSet{}
	text := marked
	if !preserve {
		text = convertDivBoundaries(text, a)
	}
	text = convertMilestones(text, a)
	text = convertPages(text, a)
	text = convertHighlights(text, a)
	text = removeTags(text, a)
	text = unescapeEntities(text, a)
	text = normalizeNewlines(text, a)
	if !preserve {
		text = collapseNewlines(text, a)
	}
	text = trim(text, a)
	if !preserve {
		snapDivisionsToMilestones(text, a)
	}
	synthesizePageMilestones(a)
	return text, a
}

// ConvertRoot normalizes and converts a parsed document. name identifies the
// etext, usually the source file name without extension.
func ConvertRoot(doc *tei.Document, name string) (*types.ConvertedEtext, error) {
	text, annotations := Convert(doc.Normalize(), doc.Preserve)
	return &types.ConvertedEtext{
		Name:        name,
		Text:        text,
		Annotations: *annotations,
		SourcePath:  doc.SourcePath,
	}, nil
}

// ConvertFile parses and converts one source document.
func ConvertFile(path string) (*types.ConvertedEtext, error) {
	doc, err := tei.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return ConvertRoot(doc, name)
}

// trim strips leading and trailing ASCII whitespace and shifts every
// annotation left by the amount trimmed from the front, clamping the result
// into the final text.
func trim(text string, a *types.AnnotationSet) string {
	const cutset = " \t\r\n"
	trimmed := strings.Trim(text, cutset)
	lead := strings.Index(text, trimmed)
	if lead < 0 {
		// all whitespace
		lead = 0
	}
	if lead == 0 && len(trimmed) == len(text) {
		return text
	}

	clamp := func(pos int) int {
		pos -= lead
		if pos < 0 {
			return 0
		}
		if pos > len(trimmed) {
			return len(trimmed)
		}
		return pos
	}
	for i := range a.Pages {
		a.Pages[i].Start = clamp(a.Pages[i].Start)
		a.Pages[i].End = clamp(a.Pages[i].End)
	}
	for i := range a.Spans {
		a.Spans[i].Start = clamp(a.Spans[i].Start)
		a.Spans[i].End = clamp(a.Spans[i].End)
	}
	for id, pos := range a.Milestones {
		a.Milestones[id] = clamp(pos)
	}
	for i := range a.Divisions {
		a.Divisions[i].Start = clamp(a.Divisions[i].Start)
		a.Divisions[i].End = clamp(a.Divisions[i].End)
	}
	return trimmed
}

// snapDivisionsToMilestones closes the gap between consecutive divisions when
// a milestone sits just past the earlier division's end, separated only by
// newlines. The milestone then marks both the end of one division and the
// start of the next, so segmentation cuts fall on division boundaries.
func snapDivisionsToMilestones(text string, a *types.AnnotationSet) {
	if len(a.Milestones) == 0 {
		return
	}
	atMilestone := make(map[int]bool, len(a.Milestones))
	for _, pos := range a.Milestones {
		atMilestone[pos] = true
	}
	for i := 0; i+1 < len(a.Divisions); i++ {
		e := a.Divisions[i].End
		for e < len(text) && text[e] == '\n' {
			e++
		}
		if atMilestone[e] && e <= a.Divisions[i+1].Start {
			a.Divisions[i].End = e
			a.Divisions[i+1].Start = e
		}
	}
}

// synthesizePageMilestones adds beginning-of-page:N and end-of-page:N
// milestones for every page so content locations can address page boundaries
// without explicit milestones in the source.
func synthesizePageMilestones(a *types.AnnotationSet) {
	if len(a.Pages) == 0 {
		return
	}
	if a.Milestones == nil {
		a.Milestones = map[string]int{}
	}
	for _, p := range a.Pages {
		a.Milestones[fmt.Sprintf("beginning-of-page:%d", p.Number)] = p.Start
		a.Milestones[fmt.Sprintf("end-of-page:%d", p.Number)] = p.End
	}
}
