package sched

import (
	"fmt"
	"time"

	"github.com/matzehuels/setupsched/pkg/errors"
)

// Solution is a complete ordering of all jobs and its cost.
type Solution struct {
	Sequence []int         `json:"sequence"`
	Cost     int64         `json:"cost"`
	Makespan int64         `json:"makespan"`
	Elapsed  time.Duration `json:"elapsed"`
}

// NewSolution scores seq against inst. seq is copied.
func NewSolution(inst *Instance, seq []int) Solution {
	cost, makespan := Evaluate(inst, seq)
	return Solution{
		Sequence: append([]int(nil), seq...),
		Cost:     cost,
		Makespan: makespan,
	}
}

// Clone returns a copy that shares no memory with s.
func (s Solution) Clone() Solution {
	s.Sequence = append([]int(nil), s.Sequence...)
	return s
}

// Empty reports whether s holds no sequence.
func (s Solution) Empty() bool { return len(s.Sequence) == 0 }

// Check verifies that s is a permutation of the jobs of inst and that its
// reported cost matches the recomputed objective.
func (s Solution) Check(inst *Instance) error {
	n := inst.N()
	if len(s.Sequence) != n {
		return errors.New(errors.ErrCodeInvalidSolution, "expected %d jobs, got %d", n, len(s.Sequence))
	}
	seen := make([]bool, n)
	for pos, j := range s.Sequence {
		if j < 0 || j >= n {
			return errors.New(errors.ErrCodeInvalidSolution, "position %d: job id %d out of range", pos, j)
		}
		if seen[j] {
			return errors.New(errors.ErrCodeInvalidSolution, "position %d: job %d scheduled twice", pos, j)
		}
		seen[j] = true
	}
	if cost, _ := Evaluate(inst, s.Sequence); cost != s.Cost {
		return errors.New(errors.ErrCodeInvalidSolution, "reported cost %d does not match computed cost %d", s.Cost, cost)
	}
	return nil
}

// String formats the solution for logs.
func (s Solution) String() string {
	return fmt.Sprintf("cost=%d makespan=%d jobs=%d", s.Cost, s.Makespan, len(s.Sequence))
}
