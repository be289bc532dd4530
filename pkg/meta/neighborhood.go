package meta

import (
	"math/rand"
	"strings"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// Policy controls how a neighborhood is scanned.
type Policy string

const (
	// BestImprovement scans the whole neighborhood and applies the best move.
	BestImprovement Policy = "best"
	// FirstImprovement applies the first improving move found.
	FirstImprovement Policy = "first"
)

// ParsePolicy converts a name into a Policy. The empty string means
// BestImprovement.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return BestImprovement, nil
	case BestImprovement, FirstImprovement:
		return p, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown improvement policy %q (want best or first)", s)
}

// Improve searches the kind neighborhood of s and applies an improving move
// according to policy. It reports whether s changed.
func Improve(s *sched.Schedule, kind Kind, policy Policy) bool {
	n := s.Len()
	if n < 2 {
		return false
	}

	var (
		found     bool
		bestMove  Move
		bestScore = s.Score
	)
	eachMove(kind, n, func(m Move) bool {
		permute(s.Sequence, m)
		score := s.ScoreFrom(m.from())
		permute(s.Sequence, m.Inverse())

		if score < bestScore {
			found, bestMove, bestScore = true, m, score
			return policy != FirstImprovement
		}
		return true
	})

	if !found {
		return false
	}
	Apply(s, bestMove)
	return true
}

// Shake applies k random moves of kind and rebuilds the caches from scratch.
func Shake(s *sched.Schedule, kind Kind, k int, rng *rand.Rand) {
	n := s.Len()
	if n < 2 {
		return
	}
	for range k {
		if m, ok := randomMove(kind, n, rng); ok {
			permute(s.Sequence, m)
		}
	}
	s.Recalculate()
}

func randomMove(kind Kind, n int, rng *rand.Rand) (Move, bool) {
	switch kind {
	case Swap, TwoOpt:
		i, j := distinct(n, rng)
		return Move{Kind: kind, I: min(i, j), J: max(i, j)}, true
	case Relocate:
		i, j := distinct(n, rng)
		return Move{Kind: kind, I: i, J: j, Size: 1}, true
	case BlockMove:
		if n < 3 {
			return Move{}, false
		}
		size := 2 + rng.Intn(min(MaxBlockSize, n-1)-1)
		i, j := distinct(n-size+1, rng)
		return Move{Kind: kind, I: i, J: j, Size: size}, true
	}
	return Move{}, false
}

// distinct returns two different values in [0, n). n must be at least 2.
func distinct(n int, rng *rand.Rand) (int, int) {
	i := rng.Intn(n)
	j := rng.Intn(n - 1)
	if j >= i {
		j++
	}
	return i, j
}
