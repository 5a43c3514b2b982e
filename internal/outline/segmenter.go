// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/buda-base/etext-sync/pkg/types"
)

// interval is one content location resolved to concrete character coordinates
// in the volume-wide concatenation of converted documents.
type interval struct {
	cl         types.ContentLocation
	start, end int
	startEtext int

	// satisfied counts the milestone constraints that applied to this volume
	// and resolved to a milestone. More satisfied constraints means a more
	// specific claim when two locations overlap.
	satisfied int
}

// SegmentVolume cuts the converted documents of one volume into logical
// documents along outline content locations. Coordinates are volume-wide:
// each document's text begins at its VolumeOffset in the concatenation of all
// documents.
//
// Locations never abort the run: an unresolvable location is skipped with a
// warning, an uncovered stretch of text is emitted under a fallback id, and
// overlapping claims are resolved deterministically and recorded as errors in
// the report. With no locations at all, each source document becomes its own
// logical document.
func SegmentVolume(volName string, volNum int, docs []*types.ConvertedEtext, locs []types.ContentLocation, fallbackID string) ([]types.LogicalDocument, types.VolumeReport) {
	report := types.VolumeReport{Volume: volName}
	if len(docs) == 0 {
		report.Warnf("volume %s has no converted documents", volName)
		return nil, report
	}

	if len(locs) == 0 {
		return segmentWithoutOutline(docs, fallbackID), report
	}

	last := docs[len(docs)-1]
	totalLen := last.VolumeOffset + len(last.Text)

	intervals := resolveIntervals(volNum, docs, locs, &report)
	runs := assignRuns(intervals, totalLen, &report)

	var out []types.LogicalDocument
	for _, r := range runs {
		text, ann := extractRange(docs, r.start, r.end)
		target := r.target
		if r.gap {
			if strings.TrimSpace(text) == "" {
				report.Warnf("no content location covers [%d,%d) (whitespace only, dropped)", r.start, r.end)
				continue
			}
			target = fmt.Sprintf("%s_gap_%d", fallbackID, r.start)
			report.Warnf("no content location covers [%d,%d); emitting %d character(s) as %s", r.start, r.end, len(text), target)
		}
		out = append(out, types.LogicalDocument{
			TargetID:    target,
			Text:        text,
			Annotations: ann,
			StartOffset: r.start,
			EndOffset:   r.end,
		})
	}

	renumberPages(out)
	return out, report
}

// segmentWithoutOutline turns each source document into its own logical
// document, ids derived from the fallback id and the document index.
func segmentWithoutOutline(docs []*types.ConvertedEtext, fallbackID string) []types.LogicalDocument {
	out := make([]types.LogicalDocument, 0, len(docs))
	for _, doc := range docs {
		out = append(out, types.LogicalDocument{
			TargetID:    fmt.Sprintf("%s_%04d", fallbackID, doc.Index),
			Text:        doc.Text,
			Annotations: doc.Annotations.Clone(),
			StartOffset: doc.VolumeOffset,
			EndOffset:   doc.VolumeOffset + len(doc.Text),
		})
	}
	renumberPages(out)
	return out
}

// resolveIntervals maps each location that covers this volume to character
// coordinates. An etext range constraint applies only in the volume where the
// range starts or ends; in interior volumes the location spans every
// document. Likewise a milestone constraint binds only inside its boundary
// document; a milestone that cannot be found degrades to the document
// boundary with a warning.
func resolveIntervals(volNum int, docs []*types.ConvertedEtext, locs []types.ContentLocation, report *types.VolumeReport) []interval {
	var intervals []interval
	for _, cl := range locs {
		if !cl.CoversVolume(volNum) {
			continue
		}
		volEnd := cl.VolEnd
		if volEnd == 0 {
			volEnd = cl.VolStart
		}

		startEtext := 1
		if volNum == cl.VolStart && cl.EtextStart > 0 {
			startEtext = cl.EtextStart
		}
		endEtext := len(docs)
		if volNum == volEnd {
			switch {
			case cl.EtextEnd > 0:
				endEtext = cl.EtextEnd
			case volNum == cl.VolStart && cl.EtextStart > 0:
				endEtext = cl.EtextStart
			}
		}
		if startEtext > len(docs) {
			report.Warnf("location %s starts at document %d but volume has only %d; skipped", cl.TargetID, startEtext, len(docs))
			continue
		}
		if endEtext > len(docs) {
			report.Warnf("location %s ends at document %d but volume has only %d; truncated", cl.TargetID, endEtext, len(docs))
			endEtext = len(docs)
		}
		if endEtext < startEtext {
			report.Warnf("location %s has empty document range [%d,%d]; skipped", cl.TargetID, startEtext, endEtext)
			continue
		}

		iv := interval{cl: cl, startEtext: startEtext}
		startDoc := docs[startEtext-1]
		iv.start = startDoc.VolumeOffset
		if volNum == cl.VolStart && cl.StartMilestoneID != "" {
			if pos, ok := startDoc.Annotations.Milestones[cl.StartMilestoneID]; ok {
				iv.start += pos
				iv.satisfied++
			} else {
				report.Warnf("location %s: start milestone %q not found in %s; using document start", cl.TargetID, cl.StartMilestoneID, startDoc.Name)
			}
		}
		endDoc := docs[endEtext-1]
		iv.end = endDoc.VolumeOffset + len(endDoc.Text)
		if volNum == volEnd && cl.EndMilestoneID != "" {
			if pos, ok := endDoc.Annotations.Milestones[cl.EndMilestoneID]; ok {
				iv.end = endDoc.VolumeOffset + pos
				iv.satisfied++
			} else {
				report.Warnf("location %s: end milestone %q not found in %s; using document end", cl.TargetID, cl.EndMilestoneID, endDoc.Name)
			}
		}
		if iv.end <= iv.start {
			report.Warnf("location %s resolves to empty range [%d,%d); skipped", cl.TargetID, iv.start, iv.end)
			continue
		}
		intervals = append(intervals, iv)
	}
	return intervals
}

// run is a maximal stretch of the volume claimed by one target (or by no one).
type run struct {
	target     string
	start, end int
	gap        bool
}

// assignRuns sweeps the volume between every interval boundary, picks the
// owning location for each stretch, and merges adjacent stretches with the
// same owner. Overlapping claims are an outline error; the sweep still picks
// a deterministic winner (most satisfied milestone constraints, then lowest
// starting document, then lexicographic target id) so the volume syncs.
func assignRuns(intervals []interval, totalLen int, report *types.VolumeReport) []run {
	cutset := map[int]bool{0: true, totalLen: true}
	for _, iv := range intervals {
		cutset[iv.start] = true
		cutset[iv.end] = true
	}
	cuts := make([]int, 0, len(cutset))
	for c := range cutset {
		if c >= 0 && c <= totalLen {
			cuts = append(cuts, c)
		}
	}
	sort.Ints(cuts)

	var runs []run
	for i := 0; i+1 < len(cuts); i++ {
		a, b := cuts[i], cuts[i+1]
		var covering []interval
		for _, iv := range intervals {
			if iv.start <= a && iv.end >= b {
				covering = append(covering, iv)
			}
		}

		var r run
		switch len(covering) {
		case 0:
			r = run{start: a, end: b, gap: true}
		case 1:
			r = run{target: covering[0].cl.TargetID, start: a, end: b}
		default:
			winner := pickWinner(covering)
			names := make([]string, 0, len(covering))
			for _, iv := range covering {
				names = append(names, iv.cl.TargetID)
			}
			report.Errorf("locations %s overlap in [%d,%d); keeping %s", strings.Join(names, ", "), a, b, winner.cl.TargetID)
			r = run{target: winner.cl.TargetID, start: a, end: b}
		}

		if n := len(runs); n > 0 && runs[n-1].gap == r.gap && runs[n-1].target == r.target {
			runs[n-1].end = r.end
			continue
		}
		runs = append(runs, r)
	}
	return runs
}

func pickWinner(covering []interval) interval {
	winner := covering[0]
	for _, iv := range covering[1:] {
		switch {
		case iv.satisfied != winner.satisfied:
			if iv.satisfied > winner.satisfied {
				winner = iv
			}
		case iv.startEtext != winner.startEtext:
			if iv.startEtext < winner.startEtext {
				winner = iv
			}
		case iv.cl.TargetID < winner.cl.TargetID:
			winner = iv
		}
	}
	return winner
}

// extractRange slices [start,end) out of the volume-wide concatenation,
// rebasing every annotation to the extracted text. An annotation belongs to
// the range that contains its start; its end is clamped to the range. A
// milestone sitting exactly on the range's end boundary is kept in both
// neighbors, since it names the cut itself.
func extractRange(docs []*types.ConvertedEtext, start, end int) (string, types.AnnotationSet) {
	var sb strings.Builder
	sb.Grow(end - start)
	var ann types.AnnotationSet

	for _, doc := range docs {
		off := doc.VolumeOffset
		s, e := off, off+len(doc.Text)
		if s < start {
			s = start
		}
		if e > end {
			e = end
		}
		if e <= s {
			continue
		}
		sb.WriteString(doc.Text[s-off : e-off])

		for _, p := range doc.Annotations.Pages {
			vs := off + p.Start
			if vs < start || vs >= end {
				continue
			}
			ve := off + p.End
			if ve > end {
				ve = end
			}
			ann.Pages = append(ann.Pages, types.Page{Label: p.Label, Number: p.Number, Start: vs - start, End: ve - start})
		}
		for _, sp := range doc.Annotations.Spans {
			vs := off + sp.Start
			if vs < start || vs >= end {
				continue
			}
			ve := off + sp.End
			if ve > end {
				ve = end
			}
			ann.Spans = append(ann.Spans, types.Span{Kind: sp.Kind, Start: vs - start, End: ve - start})
		}
		for _, d := range doc.Annotations.Divisions {
			vs := off + d.Start
			if vs < start || vs >= end {
				continue
			}
			ve := off + d.End
			if ve > end {
				ve = end
			}
			ann.Divisions = append(ann.Divisions, types.Division{Start: vs - start, End: ve - start})
		}
		for id, pos := range doc.Annotations.Milestones {
			vp := off + pos
			if vp < start || vp > end {
				continue
			}
			if ann.Milestones == nil {
				ann.Milestones = map[string]int{}
			}
			ann.Milestones[id] = vp - start
		}
	}
	return sb.String(), ann
}

// renumberPages assigns sequential page numbers across the logical documents
// of a volume, so numbering continues over document boundaries the way folio
// numbers continue through a physical volume.
func renumberPages(docs []types.LogicalDocument) {
	n := 0
	for i := range docs {
		for j := range docs[i].Annotations.Pages {
			n++
			docs[i].Annotations.Pages[j].Number = n
		}
	}
}
