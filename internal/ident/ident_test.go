package ident

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNextID_Table(t *testing.T) {
	tests := []struct {
		name string
		ids  []int64
		want int64
	}{
		{"empty", nil, 1},
		{"single", []int64{1}, 2},
		{"dense", []int64{1, 2, 3}, 4},
		{"sparse", []int64{1, 7, 3}, 8},
		{"unordered", []int64{9, 2, 5}, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NextID(tt.ids))
		})
	}
}

func TestNextID_AlwaysAboveExisting(t *testing.T) {
	// Simulate interleaved create/delete traffic; the allocated id must be
	// strictly greater than every id present at allocation time.
	ids := []int64{}
	for i := 0; i < 100; i++ {
		next := NextID(ids)
		for _, id := range ids {
			require.Greater(t, next, id)
		}
		ids = append(ids, next)
		if i%3 == 0 && len(ids) > 1 {
			ids = ids[1:] // drop the oldest
		}
	}
}
