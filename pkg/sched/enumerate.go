package sched

import "github.com/matzehuels/setupsched/pkg/perm"

// MaxEnumerate is the largest instance Enumerate accepts.
const MaxEnumerate = 10

// Enumerate returns an optimal solution by trying every permutation.
// It returns false when the instance is empty or larger than MaxEnumerate.
func Enumerate(inst *Instance) (Solution, bool) {
	n := inst.N()
	if n == 0 || n > MaxEnumerate {
		return Solution{}, false
	}
	var best Solution
	found := false
	perm.Each(n, func(p []int) bool {
		cost, makespan := Evaluate(inst, p)
		if !found || cost < best.Cost {
			best = Solution{Sequence: append(best.Sequence[:0:0], p...), Cost: cost, Makespan: makespan}
			found = true
		}
		return true
	})
	return best, true
}
