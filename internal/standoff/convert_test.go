// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buda-base/etext-sync/internal/tei"
	"github.com/buda-base/etext-sync/pkg/types"
)

func TestConvert_Pages(t *testing.T) {
	marked := "<pb_marker>1a</pb_marker>hello world<pb_marker>1b</pb_marker>second page"

	text, a := Convert(marked, false)

	assert.Equal(t, "hello world\n\nsecond page", text)
	require.Len(t, a.Pages, 2)
	assert.Equal(t, types.Page{Label: "1a", Number: 1, Start: 0, End: 11}, a.Pages[0])
	assert.Equal(t, types.Page{Label: "1b", Number: 2, Start: 13, End: 24}, a.Pages[1])

	// Every page gets a synthetic boundary milestone pair.
	assert.Equal(t, 0, a.Milestones["beginning-of-page:1"])
	assert.Equal(t, 11, a.Milestones["end-of-page:1"])
	assert.Equal(t, 13, a.Milestones["beginning-of-page:2"])
	assert.Equal(t, 24, a.Milestones["end-of-page:2"])
}

func TestConvert_HighlightSurvivesLaterShrink(t *testing.T) {
	// The entity after the highlight shrinks the text; the span recorded by
	// the highlight pass must shift with it.
	marked := "before <hi_italic>text &amp; more</hi_italic> after"

	text, a := Convert(marked, false)

	assert.Equal(t, "before text & more after", text)
	require.Len(t, a.Spans, 1)
	sp := a.Spans[0]
	assert.Equal(t, "italic", sp.Kind)
	assert.Equal(t, "text & more", text[sp.Start:sp.End])
}

func TestConvert_Divisions(t *testing.T) {
	marked := "<div_start_marker/>first<div_end_marker/>" +
		"<milestone_marker>M2</milestone_marker>" +
		"<div_start_marker/>second<div_end_marker/>"

	text, a := Convert(marked, false)

	assert.Equal(t, "firstsecond", text)
	require.Len(t, a.Divisions, 2)
	assert.Equal(t, types.Division{Start: 0, End: 5}, a.Divisions[0])
	assert.Equal(t, types.Division{Start: 5, End: 11}, a.Divisions[1])
	assert.Equal(t, 5, a.Milestones["M2"])
}

func TestConvert_DivisionSnapsToMilestone(t *testing.T) {
	// A page break sits between the two divisions, so the first division ends
	// before the separator newlines while the milestone lands after them; the
	// snap moves the division boundary onto the milestone.
	marked := "<div_start_marker/>first<div_end_marker/>" +
		"<pb_marker>2</pb_marker><milestone_marker>M2</milestone_marker>" +
		"<div_start_marker/>second<div_end_marker/>"

	text, a := Convert(marked, false)

	assert.Equal(t, "first\n\nsecond", text)
	require.Len(t, a.Divisions, 2)
	assert.Equal(t, 7, a.Milestones["M2"])
	assert.Equal(t, types.Division{Start: 0, End: 7}, a.Divisions[0])
	assert.Equal(t, types.Division{Start: 7, End: 13}, a.Divisions[1])
}

func TestConvert_NoSnapAcrossText(t *testing.T) {
	// Text between the division end and the milestone blocks the snap.
	marked := "<div_start_marker/>first<div_end_marker/>" +
		"x<milestone_marker>M2</milestone_marker>" +
		"<div_start_marker/>second<div_end_marker/>"

	text, a := Convert(marked, false)

	assert.Equal(t, "first\n\nxsecond", text)
	require.Len(t, a.Divisions, 2)
	assert.Equal(t, 8, a.Milestones["M2"])
	assert.Equal(t, types.Division{Start: 0, End: 5}, a.Divisions[0])
	assert.Equal(t, types.Division{Start: 8, End: 14}, a.Divisions[1])
}

func TestConvert_NestedHighlights(t *testing.T) {
	marked := "<hi_head>title <hi_italic>em</hi_italic></hi_head>"

	text, a := Convert(marked, false)

	assert.Equal(t, "title em", text)
	require.Len(t, a.Spans, 2)
	assert.Equal(t, "head", a.Spans[0].Kind)
	assert.Equal(t, "title em", text[a.Spans[0].Start:a.Spans[0].End])
	assert.Equal(t, "italic", a.Spans[1].Kind)
	assert.Equal(t, "em", text[a.Spans[1].Start:a.Spans[1].End])
}

func TestConvert_MismatchedHighlightClose(t *testing.T) {
	// An open marker with no close of the same kind records no span; both
	// markers fall through to the residual-tag pass.
	marked := "a<hi_small>x</hi_head>b"

	text, a := Convert(marked, false)

	assert.Equal(t, "axb", text)
	assert.Empty(t, a.Spans)
}

func TestConvert_ResidualTagsStripped(t *testing.T) {
	marked := `a<unknown attr="x">b</unknown>c`
	text, a := Convert(marked, false)
	assert.Equal(t, "abc", text)
	assert.Empty(t, a.Spans)
}

func TestConvert_Entities(t *testing.T) {
	tests := []struct {
		name   string
		marked string
		want   string
	}{
		{"named", "a &lt;b&gt; &amp; &quot;c&quot; &apos;d&apos;", `a <b> & "c" 'd'`},
		{"numeric decimal", "&#65;&#3904;", "Aཀ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, _ := Convert(tt.marked, false)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestConvert_NewlineNormalization(t *testing.T) {
	marked := "a \t\n  b\n\n\n\nc"
	text, _ := Convert(marked, false)
	assert.Equal(t, "a\nb\n\nc", text)
}

func TestConvert_PreserveKeepsSpacing(t *testing.T) {
	marked := "a\n\n\n\nb"
	text, _ := Convert(marked, true)
	assert.Equal(t, "a\n\n\n\nb", text)
}

func TestConvert_TrimClampsAnnotations(t *testing.T) {
	marked := "  \n<pb_marker>1a</pb_marker>text\n  "
	text, a := Convert(marked, false)

	assert.Equal(t, "text", text)
	require.Len(t, a.Pages, 1)
	assert.Equal(t, types.Page{Label: "1a", Number: 1, Start: 0, End: 4}, a.Pages[0])
}

func TestConvert_MilestoneOffsets(t *testing.T) {
	marked := "alpha<milestone_marker>M1</milestone_marker>beta"
	text, a := Convert(marked, false)
	assert.Equal(t, "alphabeta", text)
	assert.Equal(t, 5, a.Milestones["M1"])
}

func TestConvertRoot_CarriesAnnotations(t *testing.T) {
	doc, err := tei.Parse(strings.NewReader(
		`<TEI><text><body><p>a<hi rend="italic">b</hi>c</p></body></text></TEI>`))
	require.NoError(t, err)

	out, err := ConvertRoot(doc, "d1")
	require.NoError(t, err)

	assert.Equal(t, "d1", out.Name)
	assert.Equal(t, "abc", out.Text)
	require.Len(t, out.Annotations.Spans, 1)
	sp := out.Annotations.Spans[0]
	assert.Equal(t, "italic", sp.Kind)
	assert.Equal(t, "b", out.Text[sp.Start:sp.End])
}

func TestConvert_Empty(t *testing.T) {
	text, a := Convert("", false)
	assert.Equal(t, "", text)
	assert.Empty(t, a.Pages)
	assert.Empty(t, a.Milestones)
}
