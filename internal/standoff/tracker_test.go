// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package standoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_Empty(t *testing.T) {
	tr := &Tracker{}
	assert.Equal(t, 0, tr.Resolve(0))
	assert.Equal(t, 42, tr.Resolve(42))
}

func TestTracker_ShiftAfterBreakpoint(t *testing.T) {
	// A 10-byte match at [5,15) replaced by 2 bytes: everything at or after
	// 15 shifts left by 8, everything before 5 stays.
	tr := &Tracker{}
	tr.RecordSpan(5, 15, 5, 2)
	tr.Record(15, -8)

	tests := []struct {
		name   string
		offset int
		want   int
	}{
		{"before match", 3, 3},
		{"match start", 5, 5},
		{"interior clamped to replacement", 8, 7},
		{"interior far past replacement", 14, 7},
		{"match end", 15, 7},
		{"after match", 20, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Resolve(tt.offset))
		})
	}
}

func TestTracker_MultipleBreakpoints(t *testing.T) {
	tr := &Tracker{}
	tr.RecordSpan(2, 6, 2, 0)
	tr.Record(6, -4)
	tr.RecordSpan(10, 12, 6, 5)
	tr.Record(12, -1)

	assert.Equal(t, 1, tr.Resolve(1))
	assert.Equal(t, 2, tr.Resolve(6))  // first match end
	assert.Equal(t, 4, tr.Resolve(8))  // between matches
	assert.Equal(t, 11, tr.Resolve(12))
	assert.Equal(t, 19, tr.Resolve(20))
}

func TestTracker_OverwriteLastBreakpoint(t *testing.T) {
	tr := &Tracker{}
	tr.Record(10, -2)
	tr.Record(10, -5)
	assert.Equal(t, 15, tr.Resolve(20))
}
