package service

import (
	"testing"

	"github.com/Avi18971911/tracegraph/internal/graph/model"
	"github.com/stretchr/testify/assert"
)

func TestMergeIntervals(t *testing.T) {
	t.Run("Returns zero for no intervals", func(t *testing.T) {
		assert.Equal(t, 0.0, MergeIntervals(nil))
		assert.Equal(t, 0.0, MergeIntervals([]model.Interval{}))
	})

	t.Run("Returns the length of a single interval", func(t *testing.T) {
		assert.Equal(t, 10.0, MergeIntervals([]model.Interval{{Start: 0, End: 10}}))
	})

	t.Run("Sums disjoint intervals", func(t *testing.T) {
		intervals := []model.Interval{{Start: 0, End: 5}, {Start: 10, End: 15}}
		assert.Equal(t, 10.0, MergeIntervals(intervals))
	})

	t.Run("Merges overlapping intervals", func(t *testing.T) {
		intervals := []model.Interval{{Start: 0, End: 5}, {Start: 3, End: 8}}
		assert.Equal(t, 8.0, MergeIntervals(intervals))
	})

	t.Run("Discards nested intervals", func(t *testing.T) {
		intervals := []model.Interval{{Start: 0, End: 10}, {Start: 2, End: 5}, {Start: 6, End: 9}}
		assert.Equal(t, 10.0, MergeIntervals(intervals))
	})

	t.Run("Joins touching intervals", func(t *testing.T) {
		intervals := []model.Interval{{Start: 0, End: 5}, {Start: 5, End: 10}}
		assert.Equal(t, 10.0, MergeIntervals(intervals))
	})

	t.Run("Sorts unordered input before merging", func(t *testing.T) {
		intervals := []model.Interval{{Start: 20, End: 30}, {Start: 0, End: 5}, {Start: 3, End: 12}}
		assert.Equal(t, 22.0, MergeIntervals(intervals))
	})

	t.Run("Keeps negative length of a degenerate interval", func(t *testing.T) {
		assert.Equal(t, -2.0, MergeIntervals([]model.Interval{{Start: 5, End: 3}}))
	})

	t.Run("Never exceeds the plain sum of lengths", func(t *testing.T) {
		intervals := []model.Interval{
			{Start: 1, End: 4},
			{Start: 2, End: 3},
			{Start: 3.5, End: 9},
			{Start: 12, End: 13},
			{Start: 12.5, End: 20},
		}
		var sum float64
		for _, interval := range intervals {
			sum += interval.End - interval.Start
		}
		merged := MergeIntervals(intervals)
		assert.Less(t, merged, sum)
		assert.Equal(t, 16.0, merged)
	})
}
