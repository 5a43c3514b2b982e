// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package tei

import (
	"fmt"
	"sort"

	"github.com/antchfx/xmlquery"
)

// knownTags is the markup subset the normalizer interprets. Anything else in
// a body survives normalization only as residual markup that gets stripped at
// the text level, so validation surfaces it ahead of a sync.
var knownTags = map[string]bool{
	"body":      true,
	"div":       true,
	"p":         true,
	"milestone": true,
	"head":      true,
	"note":      true,
	"gap":       true,
	"figure":    true,
	"caption":   true,
	"hi":        true,
	"unclear":   true,
	"choice":    true,
	"corr":      true,
	"sic":       true,
	"orig":      true,
	"reg":       true,
	"pb":        true,
	"lb":        true,
}

// Validate reports elements in the document body outside the interpreted
// markup subset. Issues are advisory: conversion still runs, dropping the
// offending tags.
func (d *Document) Validate() []string {
	counts := map[string]int{}
	var walk func(n *xmlquery.Node)
	walk = func(n *xmlquery.Node) {
		if n.Type == xmlquery.ElementNode && !knownTags[n.Data] {
			counts[n.Data]++
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(d.body)

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	issues := make([]string, 0, len(names))
	for _, name := range names {
		issues = append(issues, fmt.Sprintf("unsupported element <%s> (%d occurrence(s))", name, counts[name]))
	}
	return issues
}
