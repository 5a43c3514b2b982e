// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package chunker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEasy_FitsInOneChunk(t *testing.T) {
	got := Easy{}.Chunk("short text", 100, 0, 10)
	assert.Equal(t, []int{0, 10}, got)
}

func TestEasy_CutsAfterWhitespace(t *testing.T) {
	text := "ab cd ef"
	got := Easy{}.Chunk(text, 4, 0, len(text))
	assert.Equal(t, []int{0, 3, 7, 8}, got)

	// Boundaries partition the text exactly.
	var rebuilt strings.Builder
	for i := 0; i+1 < len(got); i++ {
		rebuilt.WriteString(text[got[i]:got[i+1]])
	}
	assert.Equal(t, text, rebuilt.String())
}

func TestEasy_PrefersShadOverWhitespace(t *testing.T) {
	// Shad (U+0F0D) later in the window beats earlier whitespace.
	text := "ཀ ཁ།ག"
	got := Easy{}.Chunk(text, 4, 0, len(text))
	require.Len(t, got, 3)
	// Cut right after the shad.
	assert.Equal(t, strings.Index(text, "།")+3, got[1])
}

func TestEasy_HardCutWithoutBreaks(t *testing.T) {
	text := strings.Repeat("a", 10)
	got := Easy{}.Chunk(text, 4, 0, len(text))
	assert.Equal(t, []int{0, 4, 8, 10}, got)
}

func TestEasy_MultibyteRuneBoundaries(t *testing.T) {
	text := strings.Repeat("ཀ", 5) // 3 bytes per rune
	got := Easy{}.Chunk(text, 2, 0, len(text))
	assert.Equal(t, []int{0, 6, 12, 15}, got)
}

func TestEasy_EmptyRange(t *testing.T) {
	got := Easy{}.Chunk("", 10, 0, 0)
	assert.Equal(t, []int{0, 0}, got)
}

func TestEasy_DefaultMaxSize(t *testing.T) {
	text := strings.Repeat("a", DefaultMaxSize+10)
	got := Easy{}.Chunk(text, 0, 0, len(text))
	assert.Equal(t, []int{0, DefaultMaxSize, len(text)}, got)
}
