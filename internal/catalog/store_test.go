// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buda-base/etext-sync/pkg/types"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewStore(types.CatalogConfig{CatalogDir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_RunLifecycle(t *testing.T) {
	s := testStore(t)

	runID, err := s.BeginRun("IE1")
	require.NoError(t, err)

	docs := []types.LogicalDocument{
		{
			TargetID:    "T1",
			Text:        "hello",
			StartOffset: 0,
			EndOffset:   5,
			Annotations: types.AnnotationSet{Pages: []types.Page{{Number: 1, Start: 0, End: 5}}},
		},
		{TargetID: "T2", Text: "world", StartOffset: 5, EndOffset: 10},
	}
	report := types.VolumeReport{Volume: "v001", Warnings: []string{"w"}}
	require.NoError(t, s.RecordVolume(runID, 1, docs, report))
	require.NoError(t, s.FinishRun(runID, "ok"))

	sum, err := s.LastRun("IE1")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, runID, sum.ID)
	assert.Equal(t, "ok", sum.Status)
	assert.Equal(t, 1, sum.Volumes)
	assert.Equal(t, 2, sum.Documents)
	assert.NotEmpty(t, sum.Finished)
}

func TestStore_LastRunPicksNewest(t *testing.T) {
	s := testStore(t)

	first, err := s.BeginRun("IE1")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(first, "failed"))

	second, err := s.BeginRun("IE1")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(second, "ok"))

	sum, err := s.LastRun("IE1")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, second, sum.ID)
	assert.Equal(t, "ok", sum.Status)
}

func TestStore_LastRunUnknownInstance(t *testing.T) {
	s := testStore(t)
	sum, err := s.LastRun("IE-never")
	require.NoError(t, err)
	assert.Nil(t, sum)
}

func TestStore_ReopenKeepsData(t *testing.T) {
	dir := t.TempDir()
	cfg := types.CatalogConfig{CatalogDir: dir}

	s, err := NewStore(cfg)
	require.NoError(t, err)
	runID, err := s.BeginRun("IE1")
	require.NoError(t, err)
	require.NoError(t, s.FinishRun(runID, "ok"))
	require.NoError(t, s.Close())

	s2, err := NewStore(cfg)
	require.NoError(t, err)
	defer s2.Close()

	sum, err := s2.LastRun("IE1")
	require.NoError(t, err)
	require.NotNil(t, sum)
	assert.Equal(t, runID, sum.ID)
}
