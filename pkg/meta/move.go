package meta

import (
	"fmt"
	"strings"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// Kind identifies a neighborhood.
type Kind int

const (
	// Swap exchanges the jobs at two positions.
	Swap Kind = iota
	// Relocate removes one job and reinserts it elsewhere.
	Relocate
	// TwoOpt reverses the subsequence between two positions.
	TwoOpt
	// BlockMove moves a run of 2 or 3 consecutive jobs.
	BlockMove
)

// Kinds lists the neighborhoods in order of increasing size.
var Kinds = []Kind{Swap, Relocate, TwoOpt, BlockMove}

// MaxBlockSize is the largest block moved by BlockMove.
const MaxBlockSize = 3

var kindNames = [...]string{"swap", "relocate", "two-opt", "block-move"}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// ParseKind converts a neighborhood name into a Kind.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return Kind(k), nil
		}
	}
	return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown neighborhood %q", s)
}

// Move is a single neighborhood move.
//
// For Swap and TwoOpt, I < J are positions. For Relocate and BlockMove, I is
// the start of the moved block, J its insertion index in the sequence with the
// block removed, and Size the block length (1 for Relocate).
type Move struct {
	Kind Kind
	I, J int
	Size int
}

// Inverse returns the move that undoes m.
func (m Move) Inverse() Move {
	switch m.Kind {
	case Relocate, BlockMove:
		return Move{Kind: m.Kind, I: m.J, J: m.I, Size: m.Size}
	}
	return m
}

// from returns the first position m can change.
func (m Move) from() int { return min(m.I, m.J) }

// Apply performs m on s and re-scores the affected suffix.
func Apply(s *sched.Schedule, m Move) {
	permute(s.Sequence, m)
	s.RecalculateFrom(m.from())
}

// permute rearranges seq in place without touching any cache.
func permute(seq []int, m Move) {
	switch m.Kind {
	case Swap:
		seq[m.I], seq[m.J] = seq[m.J], seq[m.I]
	case TwoOpt:
		reverse(seq[m.I : m.J+1])
	case Relocate, BlockMove:
		size := max(m.Size, 1)
		switch {
		case m.I < m.J:
			rotateLeft(seq[m.I:m.J+size], size)
		case m.J < m.I:
			seg := seq[m.J : m.I+size]
			rotateLeft(seg, len(seg)-size)
		}
	}
}

func reverse(s []int) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func rotateLeft(s []int, k int) {
	reverse(s[:k])
	reverse(s[k:])
	reverse(s)
}

// eachMove calls fn with every move of kind on a sequence of length n,
// stopping when fn returns false.
func eachMove(kind Kind, n int, fn func(Move) bool) {
	switch kind {
	case Swap, TwoOpt:
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				if !fn(Move{Kind: kind, I: i, J: j}) {
					return
				}
			}
		}
	case Relocate:
		eachBlock(kind, n, 1, fn)
	case BlockMove:
		for size := 2; size <= min(MaxBlockSize, n-1); size++ {
			if !eachBlock(kind, n, size, fn) {
				return
			}
		}
	}
}

func eachBlock(kind Kind, n, size int, fn func(Move) bool) bool {
	for i := 0; i+size <= n; i++ {
		for j := 0; j+size <= n; j++ {
			if i == j {
				continue
			}
			if !fn(Move{Kind: kind, I: i, J: j, Size: size}) {
				return false
			}
		}
	}
	return true
}
