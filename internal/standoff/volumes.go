// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Volume is one volume directory of an archive, numbered by its position in
// name order.
type Volume struct {
	Name   string
	Number int
	Dir    string
}

// Volumes lists the volume directories of an archive. Archives keep their
// volumes under an archive/ subdirectory; when root has no such subdirectory
// it is treated as the volume container itself.
func Volumes(root string) ([]Volume, error) {
	dir := filepath.Join(root, "archive")
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = root
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading archive %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no volume directories in %s", dir)
	}
	sort.Strings(names)

	vols := make([]Volume, 0, len(names))
	for i, name := range names {
		vols = append(vols, Volume{Name: name, Number: i + 1, Dir: filepath.Join(dir, name)})
	}
	return vols, nil
}
