// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package indexdoc builds search-index documents from segmented logical
// documents and uploads them in bulk. Field names follow the index mapping,
// which predates this tool; offsets keep the cstart/cend convention of the
// standoff annotations.
package indexdoc

import (
	"fmt"

	"github.com/buda-base/etext-sync/internal/chunker"
	"github.com/buda-base/etext-sync/pkg/types"
)

// Meta identifies the instance a volume's documents belong to.
type Meta struct {
	// Instance is the etext instance id.
	Instance string

	// RootInstance and WorkInstance link the etext to the catalog records it
	// reproduces.
	RootInstance string
	WorkInstance string

	// Volume is the volume name, VolumeNumber its position in the instance.
	Volume       string
	VolumeNumber int

	// Quality is the provider-reported transcription quality, 0 when unknown.
	Quality float64
}

// JoinField ties an etext document to its parent instance document in the
// index's parent/join mapping.
type JoinField struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
}

// Chunk is one index-friendly slice of the document text.
type Chunk struct {
	Start int    `json:"cstart"`
	End   int    `json:"cend"`
	Text  string `json:"text_bo"`
}

// Document is one bulk-indexable search document.
type Document struct {
	ID      string `json:"-"`
	Routing string `json:"-"`

	Type            []string     `json:"type"`
	EtextInstance   string       `json:"etext_instance"`
	ForRootInstance string       `json:"etext_for_root_instance,omitempty"`
	ForInstance     string       `json:"etext_for_instance,omitempty"`
	JoinField       JoinField    `json:"join_field"`
	EtextNumber     int          `json:"etextNumber"`
	Volume          string       `json:"etext_vol"`
	VolumeNumber    int          `json:"volumeNumber"`
	SourcePath      string       `json:"source_path,omitempty"`
	Pages           []types.Page `json:"etext_pages,omitempty"`
	Spans           []types.Span `json:"etext_spans,omitempty"`
	Quality         float64      `json:"etext_quality,omitempty"`
	Chunks          []Chunk      `json:"chunks"`
}

// Build converts one logical document into an index document. number is the
// document's 1-based position within the volume; provider cuts the text into
// chunks of at most maxSize runes.
func Build(doc types.LogicalDocument, meta Meta, number int, provider chunker.Provider, maxSize int) *Document {
	out := &Document{
		ID:              fmt.Sprintf("%s_%s", meta.Instance, doc.TargetID),
		Routing:         meta.Instance,
		Type:            []string{"Etext"},
		EtextInstance:   meta.Instance,
		ForRootInstance: meta.RootInstance,
		ForInstance:     meta.WorkInstance,
		JoinField:       JoinField{Name: "etext", Parent: meta.Instance},
		EtextNumber:     number,
		Volume:          meta.Volume,
		VolumeNumber:    meta.VolumeNumber,
		Pages:           doc.Annotations.Pages,
		Spans:           doc.Annotations.Spans,
		Quality:         meta.Quality,
	}

	bounds := provider.Chunk(doc.Text, maxSize, 0, len(doc.Text))
	for i := 0; i+1 < len(bounds); i++ {
		s, e := bounds[i], bounds[i+1]
		if e <= s {
			continue
		}
		out.Chunks = append(out.Chunks, Chunk{Start: s, End: e, Text: doc.Text[s:e]})
	}
	return out
}

// BuildVolume builds index documents for every logical document of a volume,
// numbering them in segmentation order.
func BuildVolume(docs []types.LogicalDocument, meta Meta, provider chunker.Provider, maxSize int) []*Document {
	out := make([]*Document, 0, len(docs))
	for i, doc := range docs {
		out = append(out, Build(doc, meta, i+1, provider, maxSize))
	}
	return out
}
