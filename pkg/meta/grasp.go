package meta

import (
	"cmp"
	"math/rand"
	"slices"

	"github.com/matzehuels/setupsched/pkg/sched"
)

type candidate struct {
	job, pos int
	cost     int64
}

// Construct builds a schedule with the randomized greedy insertion of GRASP.
//
// At every step each unplaced job is evaluated at every insertion position.
// Candidates are ranked by the resulting total completion time and the next
// insertion is drawn uniformly from the best max(1, ⌊alpha·|candidates|⌋).
// alpha close to 0 is greedy, alpha = 1 is uniformly random.
func Construct(inst *sched.Instance, alpha float64, rng *rand.Rand) *sched.Schedule {
	n := inst.N()
	s := sched.NewSchedule(inst, make([]int, 0, n))
	pending := make([]int, n)
	for i := range pending {
		pending[i] = i
	}

	cands := make([]candidate, 0, n*n)
	for len(pending) > 0 {
		cands = cands[:0]
		for _, job := range pending {
			for pos := 0; pos <= s.Len(); pos++ {
				cands = append(cands, candidate{job: job, pos: pos, cost: s.InsertionCost(pos, job)})
			}
		}
		slices.SortStableFunc(cands, func(a, b candidate) int {
			return cmp.Compare(a.cost, b.cost)
		})

		pick := cands[rng.Intn(rclSize(len(cands), alpha))]
		s.Insert(pick.pos, pick.job)
		pending = slices.DeleteFunc(pending, func(j int) bool { return j == pick.job })
	}
	return s
}

// rclSize returns the restricted candidate list length, never below 1.
func rclSize(candidates int, alpha float64) int {
	k := int(alpha * float64(candidates))
	return min(max(k, 1), candidates)
}
