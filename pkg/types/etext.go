// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConversionStatus indicates the state of TEI-to-standoff conversion for one
// source document.
type ConversionStatus string

const (
	ConversionNone   ConversionStatus = "none"
	ConversionDone   ConversionStatus = "converted"
	ConversionFailed ConversionStatus = "failed"
)

// Page is a page of the source print, addressed by character offsets into the
// converted plain text. Page numbers are 1-based and strictly increasing;
// consecutive pages are separated by a two-character "\n\n" separator in the
// text, so a page's End is the next page's Start minus two (the last page ends
// at the text length).
type Page struct {
	// Label is the page name printed in the source (e.g. "1a"), empty when
	// the page break carried no label.
	Label string `json:"pname,omitempty" yaml:"pname,omitempty"`

	// Number is the sequential page number within the document (or, after
	// segmentation, within the volume).
	Number int `json:"pnum" yaml:"pnum"`

	Start int `json:"cstart" yaml:"cstart"`
	End   int `json:"cend" yaml:"cend"`
}

// Span is a highlighted or heading range of the text. Kind carries the
// original render value ("head" for headings, "unclear" for unclear passages).
type Span struct {
	Kind  string `json:"rend" yaml:"rend"`
	Start int    `json:"cstart" yaml:"cstart"`
	End   int    `json:"cend" yaml:"cend"`
}

// Division is a structural division boundary pair. Divisions are ordered and
// non-overlapping.
type Division struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// AnnotationSet holds the standoff annotations of one converted text. Every
// offset is an index into the same plain-text string, in [0, len(text)].
type AnnotationSet struct {
	Pages      []Page         `json:"pages,omitempty" yaml:"pages,omitempty"`
	Spans      []Span         `json:"hi,omitempty" yaml:"hi,omitempty"`
	Milestones map[string]int `json:"milestones,omitempty" yaml:"milestones,omitempty"`
	Divisions  []Division     `json:"div_boundaries,omitempty" yaml:"div_boundaries,omitempty"`
}

// Clone returns a deep copy of the annotation set.
func (a AnnotationSet) Clone() AnnotationSet {
	out := AnnotationSet{
		Pages:     append([]Page(nil), a.Pages...),
		Spans:     append([]Span(nil), a.Spans...),
		Divisions: append([]Division(nil), a.Divisions...),
	}
	if a.Milestones != nil {
		out.Milestones = make(map[string]int, len(a.Milestones))
		for id, pos := range a.Milestones {
			out.Milestones[id] = pos
		}
	}
	return out
}

// ConvertedEtext is the output of converting one source document: the plain
// text, its annotations, and the source path read from the document metadata
// (empty when absent). Index and VolumeOffset are filled in by the volume
// walker: Index is the 1-based position of the document within its volume in
// filename order, VolumeOffset its absolute character position within the
// concatenation of all converted documents of the volume.
type ConvertedEtext struct {
	Name         string        `json:"name" yaml:"name"`
	Text         string        `json:"text" yaml:"text"`
	Annotations  AnnotationSet `json:"annotations" yaml:"annotations"`
	SourcePath   string        `json:"source_path,omitempty" yaml:"source_path,omitempty"`
	Index        int           `json:"etext_num" yaml:"etext_num"`
	VolumeOffset int           `json:"volume_offset" yaml:"volume_offset"`
}

// ContentLocation is one outline record mapping a milestone-delimited range of
// source material to a target logical-document id. Etext ranges are inclusive;
// a zero EtextStart means the location is not constrained to particular
// documents within its volume range, and a zero EtextEnd means the range ends
// with EtextStart. Milestone ids, when present, name the first and last
// milestone of the range inside the boundary documents.
type ContentLocation struct {
	TargetID         string `json:"target_id" yaml:"target_id"`
	VolStart         int    `json:"vol_start" yaml:"vol_start"`
	VolEnd           int    `json:"vol_end,omitempty" yaml:"vol_end,omitempty"`
	EtextStart       int    `json:"etext_start,omitempty" yaml:"etext_start,omitempty"`
	EtextEnd         int    `json:"etext_end,omitempty" yaml:"etext_end,omitempty"`
	StartMilestoneID string `json:"start_milestone_id,omitempty" yaml:"start_milestone_id,omitempty"`
	EndMilestoneID   string `json:"end_milestone_id,omitempty" yaml:"end_milestone_id,omitempty"`
}

// CoversVolume reports whether the location's volume range contains vnum.
func (cl ContentLocation) CoversVolume(vnum int) bool {
	end := cl.VolEnd
	if end == 0 {
		end = cl.VolStart
	}
	return vnum >= cl.VolStart && vnum <= end
}

// LogicalDocument is one re-segmented output unit: text accumulated from one
// or more source-document segments, with merged annotations. Character offsets
// in Annotations are relative to Text; StartOffset/EndOffset locate the
// document within the volume-wide concatenation.
type LogicalDocument struct {
	TargetID    string        `json:"target_id" yaml:"target_id"`
	Text        string        `json:"text" yaml:"text"`
	Annotations AnnotationSet `json:"annotations" yaml:"annotations"`
	StartOffset int           `json:"start_offset" yaml:"start_offset"`
	EndOffset   int           `json:"end_offset" yaml:"end_offset"`
}

// VolumeReport collects the per-volume warnings and errors of a segmentation
// run. Problems with single documents or segments never abort a run; they are
// reported here so a batch over many volumes can complete and summarize.
type VolumeReport struct {
	Volume   string   `json:"volume" yaml:"volume"`
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	Errors   []string `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Warnf appends a formatted warning to the report.
func (r *VolumeReport) Warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

// Errorf appends a formatted error to the report.
func (r *VolumeReport) Errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}
