// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package outline loads outline content locations and re-segments converted
// volumes into logical documents along the boundaries they describe.
package outline

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/buda-base/etext-sync/pkg/types"
)

// Outline is the on-disk representation of a work's content locations. The
// operator can save a fetched outline to a file, adjust it, and segment from
// the file without re-fetching.
type Outline struct {
	// Work identifies the work the outline describes.
	Work string `yaml:"work,omitempty" json:"work,omitempty"`

	Locations []types.ContentLocation `yaml:"content_locations" json:"content_locations"`
}

// ForVolume returns the locations whose volume range covers vnum, in their
// outline order.
func (o *Outline) ForVolume(vnum int) []types.ContentLocation {
	var out []types.ContentLocation
	for _, cl := range o.Locations {
		if cl.CoversVolume(vnum) {
			out = append(out, cl)
		}
	}
	return out
}

// WriteFile saves the outline to a YAML file.
func (o *Outline) WriteFile(path string) error {
	data, err := yaml.Marshal(o)
	if err != nil {
		return fmt.Errorf("marshaling outline: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadFile loads a previously saved outline file from disk.
func ReadFile(path string) (*Outline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading outline file: %w", err)
	}
	var o Outline
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parsing outline file: %w", err)
	}
	return &o, nil
}
