package heuristic

import (
	"cmp"
	"slices"

	"github.com/matzehuels/setupsched/pkg/sched"
)

// bestInsertion starts from the earliest released job and inserts the
// remaining jobs one at a time. Each step scans every unplaced job at every
// position and keeps the pair with the lowest total completion time; ties go
// to the earlier candidate in ready-time order and the earlier position.
func bestInsertion(inst *sched.Instance) []int {
	n := inst.N()
	pending := make([]int, n)
	for i := range pending {
		pending[i] = i
	}
	slices.SortStableFunc(pending, func(a, b int) int {
		return cmp.Compare(inst.Ready(a), inst.Ready(b))
	})

	s := sched.NewSchedule(inst, make([]int, 0, n))
	s.Insert(0, pending[0])
	pending = pending[1:]

	for len(pending) > 0 {
		bestIdx, bestPos := 0, 0
		var bestCost int64 = -1
		for idx, job := range pending {
			for pos := 0; pos <= s.Len(); pos++ {
				cost := s.InsertionCost(pos, job)
				if bestCost < 0 || cost < bestCost {
					bestIdx, bestPos, bestCost = idx, pos, cost
				}
			}
		}
		s.Insert(bestPos, pending[bestIdx])
		pending = slices.Delete(pending, bestIdx, bestIdx+1)
	}
	return s.Sequence
}
