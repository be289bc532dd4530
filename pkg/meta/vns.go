package meta

import (
	"context"
	"math/rand"

	"github.com/matzehuels/setupsched/pkg/sched"
)

// VND runs variable neighborhood descent on s: it applies improving moves
// from kinds in order, restarting at the first kind after every improvement,
// until no kind improves or ctx is done. It reports the number of improving
// moves applied.
func VND(ctx context.Context, s *sched.Schedule, kinds []Kind, policy Policy) int {
	moves := 0
	for k := 0; k < len(kinds); {
		if ctx.Err() != nil {
			break
		}
		if Improve(s, kinds[k], policy) {
			moves++
			k = 0
			continue
		}
		k++
	}
	return moves
}

// vnsRound performs one pass of variable neighborhood search over kinds.
// For kind index k the incumbent is copied, shaken with k+1 random moves,
// recomputed in full and descended with VND. A strictly better result
// replaces the incumbent and restarts at the first kind. It reports whether
// the incumbent improved.
func vnsRound(ctx context.Context, incumbent, work *sched.Schedule, kinds []Kind, policy Policy, rng *rand.Rand) bool {
	improved := false
	for k := 0; k < len(kinds); {
		if ctx.Err() != nil {
			break
		}
		work.CopyFrom(incumbent)
		Shake(work, kinds[k], k+1, rng)
		VND(ctx, work, kinds, policy)

		if work.Score < incumbent.Score {
			incumbent.CopyFrom(work)
			improved = true
			k = 0
			continue
		}
		k++
	}
	return improved
}
