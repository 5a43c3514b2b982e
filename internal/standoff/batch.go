// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"github.com/buda-base/etext-sync/pkg/types"
)

// ConvertDir converts every *.xml document in dir, in lexical file-name
// order. Documents that fail to parse or have no body are logged to w and
// skipped; the remaining conversions get sequential one-based indexes and
// cumulative volume offsets so a downstream segmenter can address the volume
// as one concatenated text.
func ConvertDir(dir string, w io.Writer) ([]*types.ConvertedEtext, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.xml"))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no source documents in %s", dir)
	}
	sort.Strings(paths)

	var docs []*types.ConvertedEtext
	failed := 0
	offset := 0
	for _, path := range paths {
		doc, err := ConvertFile(path)
		if err != nil {
			fmt.Fprintf(w, "skipping %s: %v\n", path, err)
			failed++
			continue
		}
		doc.Index = len(docs) + 1
		doc.VolumeOffset = offset
		offset += len(doc.Text)
		docs = append(docs, doc)
	}

	fmt.Fprintf(w, "converted %d/%d documents in %s\n", len(docs), len(paths), dir)
	if len(docs) == 0 {
		return nil, fmt.Errorf("all %d documents in %s failed to convert", failed, dir)
	}
	return docs, nil
}
