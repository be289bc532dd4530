package sched

import "slices"

// Schedule is a complete job sequence with prefix caches.
//
// scores[i] holds ΣC over positions 0..i and times[i] holds C_i. A mutation
// that leaves positions < i untouched is re-scored by [Schedule.RecalculateFrom]
// starting from the cached values at i-1. Non-local mutations (shaking) must
// be followed by [Schedule.Recalculate].
type Schedule struct {
	inst     *Instance
	Sequence []int
	Score    int64

	scores []int64
	times  []int64
}

// NewSchedule takes ownership of seq and scores it.
func NewSchedule(inst *Instance, seq []int) *Schedule {
	s := &Schedule{
		inst:     inst,
		Sequence: seq,
		scores:   make([]int64, len(seq)),
		times:    make([]int64, len(seq)),
	}
	s.Recalculate()
	return s
}

// Instance returns the instance the schedule belongs to.
func (s *Schedule) Instance() *Instance { return s.inst }

// Len returns the number of positions.
func (s *Schedule) Len() int { return len(s.Sequence) }

// Makespan returns the completion time of the last job.
func (s *Schedule) Makespan() int64 {
	if len(s.times) == 0 {
		return 0
	}
	return s.times[len(s.times)-1]
}

// CompletionAt returns the cached completion time of position i.
func (s *Schedule) CompletionAt(i int) int64 { return s.times[i] }

// Recalculate rebuilds both caches from scratch and returns the score.
func (s *Schedule) Recalculate() int64 {
	return s.RecalculateFrom(0)
}

// RecalculateFrom rebuilds the caches from position idx onward, assuming
// positions < idx are unchanged, and returns the new score.
func (s *Schedule) RecalculateFrom(idx int) int64 {
	if len(s.scores) != len(s.Sequence) {
		s.scores = make([]int64, len(s.Sequence))
		s.times = make([]int64, len(s.Sequence))
		idx = 0
	}
	if idx < 0 {
		idx = 0
	}
	score, t, prev := s.prefix(idx)
	for i := idx; i < len(s.Sequence); i++ {
		j := s.Sequence[i]
		t = Complete(s.inst, prev, j, t)
		score += t
		s.times[i] = t
		s.scores[i] = score
		prev = j
	}
	s.Score = score
	return score
}

// ScoreFrom returns the score the sequence would have if positions >= idx were
// re-scored, without touching the caches. It is used to evaluate trial moves:
// mutate Sequence, call ScoreFrom, then undo or commit with RecalculateFrom.
func (s *Schedule) ScoreFrom(idx int) int64 {
	if idx < 0 {
		idx = 0
	}
	score, t, prev := s.prefix(idx)
	for i := idx; i < len(s.Sequence); i++ {
		j := s.Sequence[i]
		t = Complete(s.inst, prev, j, t)
		score += t
		prev = j
	}
	return score
}

func (s *Schedule) prefix(idx int) (score, t int64, prev int) {
	if idx == 0 || len(s.Sequence) == 0 {
		return 0, 0, -1
	}
	return s.scores[idx-1], s.times[idx-1], s.Sequence[idx-1]
}

// InsertionCost returns the score obtained by inserting job at position pos
// (0 <= pos <= Len), without modifying the schedule.
func (s *Schedule) InsertionCost(pos, job int) int64 {
	score, t, prev := s.prefix(pos)
	t = Complete(s.inst, prev, job, t)
	score += t
	prev = job
	for _, j := range s.Sequence[pos:] {
		t = Complete(s.inst, prev, j, t)
		score += t
		prev = j
	}
	return score
}

// Insert places job at position pos and re-scores the suffix.
func (s *Schedule) Insert(pos, job int) {
	s.Sequence = slices.Insert(s.Sequence, pos, job)
	s.scores = append(s.scores, 0)
	s.times = append(s.times, 0)
	s.RecalculateFrom(pos)
}

// RemoveAt removes and returns the job at position pos, re-scoring the suffix.
func (s *Schedule) RemoveAt(pos int) int {
	job := s.Sequence[pos]
	s.Sequence = slices.Delete(s.Sequence, pos, pos+1)
	s.scores = s.scores[:len(s.Sequence)]
	s.times = s.times[:len(s.Sequence)]
	s.RecalculateFrom(pos)
	return job
}

// Clone returns a deep copy.
func (s *Schedule) Clone() *Schedule {
	return &Schedule{
		inst:     s.inst,
		Sequence: append([]int(nil), s.Sequence...),
		Score:    s.Score,
		scores:   append([]int64(nil), s.scores...),
		times:    append([]int64(nil), s.times...),
	}
}

// CopyFrom overwrites s with the contents of o without reallocating.
func (s *Schedule) CopyFrom(o *Schedule) {
	s.inst = o.inst
	s.Sequence = append(s.Sequence[:0], o.Sequence...)
	s.scores = append(s.scores[:0], o.scores...)
	s.times = append(s.times[:0], o.times...)
	s.Score = o.Score
}

// Solution snapshots the schedule.
func (s *Schedule) Solution() Solution {
	return Solution{
		Sequence: append([]int(nil), s.Sequence...),
		Cost:     s.Score,
		Makespan: s.Makespan(),
	}
}
