// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDoc(t *testing.T, dir, name, body string) {
	t.Helper()
	content := `<TEI><text>` + body + `</text></TEI>`
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestConvertFile(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "doc.xml", `<body><p>hello <hi rend="italic">world</hi></p></body>`)

	doc, err := ConvertFile(filepath.Join(dir, "doc.xml"))
	require.NoError(t, err)

	assert.Equal(t, "doc", doc.Name)
	assert.Equal(t, "hello world", doc.Text)
	require.Len(t, doc.Annotations.Spans, 1)
	sp := doc.Annotations.Spans[0]
	assert.Equal(t, "italic", sp.Kind)
	assert.Equal(t, "world", doc.Text[sp.Start:sp.End])
}

func TestConvertDir(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "b.xml", `<body><p>world</p></body>`)
	writeDoc(t, dir, "a.xml", `<body><p>hello</p></body>`)

	var log bytes.Buffer
	docs, err := ConvertDir(dir, &log)
	require.NoError(t, err)
	require.Len(t, docs, 2)

	// Lexical file order, one-based indexes, cumulative offsets.
	assert.Equal(t, "a", docs[0].Name)
	assert.Equal(t, 1, docs[0].Index)
	assert.Equal(t, 0, docs[0].VolumeOffset)
	assert.Equal(t, "hello", docs[0].Text)

	assert.Equal(t, "b", docs[1].Name)
	assert.Equal(t, 2, docs[1].Index)
	assert.Equal(t, len("hello"), docs[1].VolumeOffset)

	assert.Contains(t, log.String(), "converted 2/2 documents")
}

func TestConvertDir_SkipsBrokenDocuments(t *testing.T) {
	dir := t.TempDir()
	writeDoc(t, dir, "a.xml", `<body><p>good</p></body>`)
	writeDoc(t, dir, "b.xml", `<front>no body here</front>`)

	var log bytes.Buffer
	docs, err := ConvertDir(dir, &log)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "good", docs[0].Text)
	assert.Contains(t, log.String(), "skipping")
	assert.Contains(t, log.String(), "converted 1/2 documents")
}

func TestConvertDir_EmptyDirectory(t *testing.T) {
	var log bytes.Buffer
	_, err := ConvertDir(t.TempDir(), &log)
	assert.Error(t, err)
}
