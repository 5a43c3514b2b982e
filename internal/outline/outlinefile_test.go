// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package outline

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buda-base/etext-sync/pkg/types"
)

func TestOutlineFile_RoundTrip(t *testing.T) {
	o := &Outline{
		Work: "W123",
		Locations: []types.ContentLocation{
			{TargetID: "T1", VolStart: 1, EtextStart: 1, EtextEnd: 3, EndMilestoneID: "M5"},
			{TargetID: "T2", VolStart: 1, VolEnd: 2, EtextStart: 3, StartMilestoneID: "M5"},
		},
	}

	path := filepath.Join(t.TempDir(), "outline.yaml")
	require.NoError(t, o.WriteFile(path))

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, o.Work, got.Work)
	assert.Equal(t, o.Locations, got.Locations)
}

func TestReadFile_Missing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestForVolume(t *testing.T) {
	o := &Outline{Locations: []types.ContentLocation{
		{TargetID: "A", VolStart: 1},
		{TargetID: "B", VolStart: 1, VolEnd: 3},
		{TargetID: "C", VolStart: 2},
	}}

	tests := []struct {
		vnum int
		want []string
	}{
		{1, []string{"A", "B"}},
		{2, []string{"B", "C"}},
		{3, []string{"B"}},
		{4, nil},
	}
	for _, tt := range tests {
		var got []string
		for _, cl := range o.ForVolume(tt.vnum) {
			got = append(got, cl.TargetID)
		}
		assert.Equal(t, tt.want, got, "volume %d", tt.vnum)
	}
}
