// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tei parses TEI documents and normalizes the fixed markup subset
// into synthetic single-purpose marker tags, serialized to a flat string for
// the standoff conversion passes. Only the documented subset is interpreted;
// unrecognized elements pass through and are stripped later at the text
// level.
package tei

import (
	"errors"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/antchfx/xmlquery"
)

// ErrNoBody is returned when a document has no body element. The conversion
// of that one document abstains entirely; callers log it and move on to
// sibling documents.
var ErrNoBody = errors.New("no body element in document")

// gapPlaceholder stands in for illegible or missing source text.
const gapPlaceholder = "X"

// Document is a parsed source document ready for normalization.
type Document struct {
	root *xmlquery.Node
	body *xmlquery.Node

	// Preserve reports xml:space="preserve" on the body: verbatim spacing
	// instead of structural reflow.
	Preserve bool

	// SourcePath is the path recorded in the document metadata, or "".
	SourcePath string
}

// Parse reads a TEI document from r.
func Parse(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromRoot(root)
}

// ParseFile reads a TEI document from the file at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// FromRoot wraps an already-parsed tree. Returns ErrNoBody when the tree has
// no body element.
func FromRoot(root *xmlquery.Node) (*Document, error) {
	body := xmlquery.FindOne(root, "//body")
	if body == nil {
		return nil, ErrNoBody
	}
	d := &Document{root: root, body: body}
	for _, attr := range body.Attr {
		if attr.Name.Local == "space" && attr.Value == "preserve" {
			d.Preserve = true
		}
	}
	if idno := xmlquery.FindOne(root, `//idno[@type="src_path"]`); idno != nil {
		d.SourcePath = idno.InnerText()
	}
	return d, nil
}

// Normalize rewrites the body tree into marker form and returns its
// serialization, ready for the standoff passes. The tree is modified in
// place. Rules, in order: divisions get start/end marker children (skipped in
// preserve mode), milestones become id-carrying markers or are dropped,
// headings and highlights become render-kind markers, notes are deleted, gaps
// become a placeholder character, figures collapse to their caption text,
// unclear passages collapse to their inner text, corrections replace their
// original reading, page breaks and line breaks become their markers.
func (d *Document) Normalize() string {
	if !d.Preserve {
		for _, div := range xmlquery.Find(d.body, ".//div") {
			insertFirst(div, newElement("div_start_marker"))
			appendChild(div, newElement("div_end_marker"))
		}
	}

	for _, ms := range xmlquery.Find(d.body, ".//milestone") {
		if id := attr(ms, "id"); id != "" {
			replaceNode(ms, markerWithText("milestone_marker", id))
		} else {
			removeNode(ms)
		}
	}

	for _, head := range xmlquery.Find(d.body, ".//head") {
		el := newElement("hi_head")
		adoptChildren(el, head)
		replaceNode(head, el)
	}

	for _, note := range xmlquery.Find(d.body, ".//note") {
		removeNode(note)
	}

	for _, gap := range xmlquery.Find(d.body, ".//gap") {
		replaceNode(gap, markerWithText("text_marker", gapPlaceholder))
	}

	for _, figure := range xmlquery.Find(d.body, ".//figure") {
		replaceNode(figure, markerWithText("text_marker", captionText(figure)))
	}

	for _, hi := range xmlquery.Find(d.body, ".//hi") {
		el := newElement("hi_" + attr(hi, "rend"))
		adoptChildren(el, hi)
		replaceNode(hi, el)
	}

	for _, unclear := range xmlquery.Find(d.body, ".//unclear") {
		replaceNode(unclear, markerWithText("hi_unclear", unclear.InnerText()))
	}

	for _, choice := range xmlquery.Find(d.body, ".//choice") {
		if corr := xmlquery.FindOne(choice, ".//corr"); corr != nil {
			replaceNode(choice, markerWithText("text_marker", corr.InnerText()))
		}
	}

	for _, pb := range xmlquery.Find(d.body, ".//pb") {
		replaceNode(pb, markerWithText("pb_marker", attr(pb, "n")))
	}

	for _, lb := range xmlquery.Find(d.body, ".//lb") {
		replaceNode(lb, markerWithText("lb_marker", "\n"))
	}

	var b strings.Builder
	serialize(d.body, &b)
	return presubstitute(b.String(), d.Preserve)
}

var (
	preserveBlockRE = regexp.MustCompile(`(?s)[\r\n\t ]*</?(?:body|p|div)(?: +[^>]+)*>[\r\n\t ]*`)
	divOpenRE       = regexp.MustCompile(`<div(?: +[^>]+)*>`)
	pOpenRE         = regexp.MustCompile(`<p(?: +[^>]+)*>`)
	bodyTagRE       = regexp.MustCompile(`</?body(?: +[^>]+)*>`)
	textMarkerRE    = regexp.MustCompile(`(?s)(?:\n\s*)?<text_marker>(.*?)</text_marker>(?:\n\s*)?`)
	lbMarkerRE      = regexp.MustCompile(`(?s)[\r\n\t ]*<lb_marker>(.*?)</lb_marker>[\r\n\t ]*`)
)

// presubstitute applies the untracked string substitutions that run before
// any annotation exists: byte-order marks vanish, body/p/div tags are removed
// (preserve mode) or turned into blank-line separators (reflow mode), and
// text/line-break markers unwrap to their content.
func presubstitute(s string, preserve bool) string {
	s = strings.ReplaceAll(s, "\ufeff", "")
	if preserve {
		s = preserveBlockRE.ReplaceAllString(s, "")
	} else {
		s = divOpenRE.ReplaceAllString(s, "\n\n")
		s = strings.ReplaceAll(s, "</div>", "\n\n")
		s = pOpenRE.ReplaceAllString(s, "\n\n")
		s = strings.ReplaceAll(s, "</p>", "\n\n")
		s = bodyTagRE.ReplaceAllString(s, "")
	}
	s = textMarkerRE.ReplaceAllString(s, "$1")
	s = lbMarkerRE.ReplaceAllString(s, "$1")
	return s
}

// captionText joins the stripped text fragments of a figure's captions with
// single spaces.
func captionText(figure *xmlquery.Node) string {
	var parts []string
	for _, caption := range xmlquery.Find(figure, ".//caption") {
		collectText(caption, &parts)
	}
	return strings.Join(parts, " ")
}

func collectText(n *xmlquery.Node, parts *[]string) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == xmlquery.TextNode || c.Type == xmlquery.CharDataNode {
			if t := strings.TrimSpace(c.Data); t != "" {
				*parts = append(*parts, t)
			}
			continue
		}
		collectText(c, parts)
	}
}

// attr returns the value of the first attribute with the given local name,
// regardless of namespace prefix.
func attr(n *xmlquery.Node, local string) string {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
