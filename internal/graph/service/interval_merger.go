package service

import (
	"sort"

	"github.com/Avi18971911/tracegraph/internal/graph/model"
)

// MergeIntervals returns the total time covered by the intervals once overlapping and
// nested intervals are merged. The input slice is sorted in place.
func MergeIntervals(intervals []model.Interval) float64 {
	if len(intervals) == 0 {
		return 0
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].Start < intervals[j].Start
	})

	merged := []model.Interval{intervals[0]}
	for _, interval := range intervals[1:] {
		current := &merged[len(merged)-1]
		if interval.End < current.End {
			// nested inside the current interval
			continue
		}
		if interval.Start > current.End {
			merged = append(merged, interval)
		} else {
			current.End = interval.End
		}
	}

	var total float64
	for _, interval := range merged {
		total += interval.End - interval.Start
	}
	return total
}
