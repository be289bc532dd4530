package sched

import (
	"sync"
	"sync/atomic"
)

// Best holds the best solution found so far by concurrent searches.
//
// Cost is a lock-free read that may be briefly stale; it is only used to
// decide whether taking the lock is worthwhile. Offer re-checks under the
// mutex before replacing, so concurrent improvements are never lost.
type Best struct {
	cost atomic.Int64

	mu  sync.Mutex
	sol Solution
}

// NewBest seeds the cell with an initial solution.
func NewBest(initial Solution) *Best {
	b := &Best{sol: initial.Clone()}
	b.cost.Store(initial.Cost)
	return b
}

// Cost returns the current best cost.
func (b *Best) Cost() int64 { return b.cost.Load() }

// Offer replaces the best solution if sol is strictly cheaper. It reports
// whether sol was accepted. sol is copied.
func (b *Best) Offer(sol Solution) bool {
	if sol.Cost >= b.cost.Load() {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if sol.Cost >= b.sol.Cost {
		return false
	}
	b.sol = sol.Clone()
	b.cost.Store(sol.Cost)
	return true
}

// Solution returns a copy of the best solution.
func (b *Best) Solution() Solution {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sol.Clone()
}
