package heuristic

import (
	"cmp"
	"math"
	"slices"

	"github.com/matzehuels/setupsched/pkg/sched"
)

// K scales the setup term of the ACTS index.
const K = 2.0

// minAvgSetup is the average setup below which ACTS ignores setups.
const minAvgSetup = 0.001

// priority scores a released job; the highest score is dispatched next.
// last is -1 before the first job.
type priority func(last, job int) float64

// actsIndex returns the apparent-setup index
//
//	I_j = (1 / p_j) * exp(-s(last→j) / (K * avgSetup))
//
// A zero processing time gets the maximum priority.
func actsIndex(inst *sched.Instance) priority {
	avgSetup := inst.Metrics.AvgSetup
	return func(last, job int) float64 {
		p := float64(inst.Processing(job))
		if p == 0 {
			return math.MaxFloat64
		}
		factor := 1.0
		if avgSetup > minAvgSetup && last >= 0 {
			factor = math.Exp(-float64(inst.SetupTime(last, job)) / (K * avgSetup))
		}
		return factor / p
	}
}

func sptIndex(inst *sched.Instance) priority {
	return func(_, job int) float64 {
		p := float64(inst.Processing(job))
		if p == 0 {
			return math.MaxFloat64
		}
		return 1 / p
	}
}

// dispatch simulates the machine clock. At each step it picks the released
// job with the highest priority; when nothing is released it jumps to the
// earliest ready time and takes the shortest newly released job.
func dispatch(inst *sched.Instance, score priority) []int {
	n := inst.N()
	seq := make([]int, 0, n)
	pending := sched.FullBitset(n)
	members := make([]int, 0, n)

	var t int64
	last := -1
	for len(seq) < n {
		members = pending.Members(members[:0])

		next, best := -1, 0.0
		for _, j := range members {
			if inst.Ready(j) > t {
				continue
			}
			if v := score(last, j); next < 0 || v > best {
				next, best = j, v
			}
		}

		if next < 0 {
			minReady := inst.Ready(members[0])
			for _, j := range members[1:] {
				minReady = min(minReady, inst.Ready(j))
			}
			t = max(t, minReady)
			for _, j := range members {
				if inst.Ready(j) <= t && (next < 0 || inst.Processing(j) < inst.Processing(next)) {
					next = j
				}
			}
		}

		t = sched.Complete(inst, last, next, t)
		seq = append(seq, next)
		pending.Clear(next)
		last = next
	}
	return seq
}

// erd orders jobs by ready time, breaking ties by processing time.
func erd(inst *sched.Instance) []int {
	seq := make([]int, inst.N())
	for i := range seq {
		seq[i] = i
	}
	slices.SortStableFunc(seq, func(a, b int) int {
		if c := cmp.Compare(inst.Ready(a), inst.Ready(b)); c != 0 {
			return c
		}
		return cmp.Compare(inst.Processing(a), inst.Processing(b))
	})
	return seq
}
