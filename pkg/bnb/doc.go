// Package bnb implements exact branch-and-bound search for single-machine
// scheduling with ready times and sequence-dependent setups.
//
// # Algorithm
//
// The search tree grows one job at a time from the empty sequence. At every
// node each unplaced job yields a child whose accrued cost is exact and whose
// lower bound comes from [bound.Lower]. Children whose bound is not strictly
// below the current best cost are pruned; the rest are explored in ascending
// bound order. A leaf is a complete sequence and is offered to the shared
// [sched.Best] cell.
//
// The initial upper bound is a construction heuristic chosen to match the
// bound strategy: best insertion for setup-light instances, ACTS for
// setup-heavy ones.
//
// # Concurrency
//
// Sibling subtrees are explored as a fork-join computation. A weighted
// semaphore caps the number of extra goroutines; when no token is available
// the child is explored inline by the current goroutine, so the search never
// blocks waiting for a worker. Each node joins its forked children with an
// errgroup before returning.
//
// [sched.Best] is the only state shared across goroutines. Its cost is read
// lock-free when pruning and re-read before each child is entered, so an
// improvement found by one branch tightens pruning in all others.
//
// # Deadlines
//
// The context and [Search.Timeout] are checked at the entry of every node.
// When either expires the search unwinds and returns the best solution found
// so far; running out of time is not an error. With no timeout and no
// context deadline the search runs to exhaustion and the result is optimal.
package bnb
