package bound

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/matzehuels/setupsched/pkg/sched"
)

// UnconstrainedEstimate returns the optimal total completion time of the
// remaining jobs with setups removed and preemption allowed, starting at
// node.Time. Shortest remaining processing time is optimal for that
// relaxation, so the result never exceeds any feasible completion.
func UnconstrainedEstimate(inst *sched.Instance, node *sched.Node) int64 {
	jobs := node.Remaining.Members(nil)
	if len(jobs) == 0 {
		return 0
	}
	slices.SortFunc(jobs, func(a, b int) int {
		return cmp.Compare(inst.Ready(a), inst.Ready(b))
	})

	var (
		total int64
		t     = node.Time
		next  = 0
		pq    = make(remainingHeap, 0, len(jobs))
	)
	for next < len(jobs) || pq.Len() > 0 {
		for next < len(jobs) && inst.Ready(jobs[next]) <= t {
			heap.Push(&pq, inst.Processing(jobs[next]))
			next++
		}
		if pq.Len() == 0 {
			t = inst.Ready(jobs[next])
			continue
		}
		rest := pq[0]
		if next < len(jobs) {
			if release := inst.Ready(jobs[next]); t+rest > release {
				pq[0] -= release - t
				t = release
				heap.Fix(&pq, 0)
				continue
			}
		}
		heap.Pop(&pq)
		t += rest
		total += t
	}
	return total
}

// AssignmentEstimate relaxes each remaining job j to the duration
// p_j + min setup into j, where the minimum ranges over the last placed job
// and every other remaining job. A job with no possible predecessor (the
// first job at the root) pays no setup.
//
// The k-th remaining completion is bounded two ways: the k shortest relaxed
// durations run back to back from node.Time, or the k shortest processing
// times run from the earliest release. A setup may overlap idle time before
// a release, so only the first sum charges setups. The larger of the two
// is taken for each k.
func AssignmentEstimate(inst *sched.Instance, node *sched.Node) int64 {
	jobs := node.Remaining.Members(nil)
	if len(jobs) == 0 {
		return 0
	}

	relaxed := make([]int64, len(jobs))
	processing := make([]int64, len(jobs))
	minReady := inst.Ready(jobs[0])
	for k, j := range jobs {
		minReady = min(minReady, inst.Ready(j))

		var setup int64
		if node.Last >= 0 {
			setup = inst.SetupTime(node.Last, j)
			for _, i := range jobs {
				if i != j {
					setup = min(setup, inst.SetupTime(i, j))
				}
			}
		}
		processing[k] = inst.Processing(j)
		relaxed[k] = processing[k] + setup
	}
	slices.Sort(relaxed)
	slices.Sort(processing)

	var total int64
	busy, released := node.Time, minReady
	for k := range jobs {
		busy += relaxed[k]
		released += processing[k]
		total += max(busy, released)
	}
	return total
}

// remainingHeap is a min-heap of remaining processing times.
type remainingHeap []int64

func (h remainingHeap) Len() int           { return len(h) }
func (h remainingHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h remainingHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *remainingHeap) Push(x any)        { *h = append(*h, x.(int64)) }
func (h *remainingHeap) Pop() any {
	old := *h
	x := old[len(old)-1]
	*h = old[:len(old)-1]
	return x
}
