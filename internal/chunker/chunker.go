// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package chunker cuts long text into index-friendly chunks at natural
// boundaries. Chunk boundaries are byte offsets; the cut points prefer
// sentence-final punctuation so highlighting snippets read cleanly.
package chunker

import "unicode/utf8"

// DefaultMaxSize is the chunk budget, in runes, used when a configuration
// leaves it unset.
const DefaultMaxSize = 1500

// Provider produces chunk boundaries for a range of text. The returned slice
// always starts with start and ends with end; consecutive entries delimit one
// chunk each.
type Provider interface {
	Chunk(text string, maxSize, start, end int) []int
}

// Easy is a boundary provider tuned for Tibetan: it cuts after a shad (the
// sentence delimiter U+0F0D) or, failing that, after whitespace, and falls
// back to a hard cut at a rune boundary when a run has neither.
type Easy struct{}

// breakQuality rates a rune as a cut point. Higher is better; the cut goes
// immediately after the rune.
func breakQuality(r rune) int {
	switch {
	case r == 0x0F0D || r == 0x0F0E: // shad, nyis shad
		return 2
	case r == ' ' || r == '\n' || r == '\t':
		return 1
	}
	return 0
}

// Chunk returns boundaries for text[start:end] with at most maxSize runes per
// chunk. Within each budget window the rightmost best-quality break wins.
func (Easy) Chunk(text string, maxSize, start, end int) []int {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	if end > len(text) {
		end = len(text)
	}
	boundaries := []int{start}
	pos := start
	for pos < end {
		cut, done := findCut(text, pos, end, maxSize)
		if done {
			break
		}
		boundaries = append(boundaries, cut)
		pos = cut
	}
	boundaries = append(boundaries, end)
	return boundaries
}

// findCut scans at most maxSize runes from pos and returns the best cut
// offset. done reports that the remaining text fits in one chunk.
func findCut(text string, pos, end, maxSize int) (cut int, done bool) {
	best, bestQuality := -1, 0
	i := pos
	for n := 0; n < maxSize; n++ {
		if i >= end {
			return 0, true
		}
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if q := breakQuality(r); q >= bestQuality {
			best, bestQuality = i, q
		}
	}
	if i >= end {
		return 0, true
	}
	// A quality-0 rune still updates best, so a window with no real break
	// degrades to a hard cut at the window's last rune boundary.
	return best, false
}
