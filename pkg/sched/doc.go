// Package sched models the single-machine scheduling problem with ready
// times and sequence-dependent setups, minimizing the sum of completion
// times (1 | r_j, s_ij | ΣC_j).
//
// # Overview
//
// An [Instance] holds N [Task] values. Each task has a processing time, a
// ready time before which it cannot start, and a row of setup times: the
// setup incurred by every possible successor. Derived [Metrics] summarize the
// instance and drive strategy selection in the bound and heuristic packages.
//
// # Objective
//
// Jobs run back to back on a single machine. The completion time of the job
// at position k is
//
//	C_k = max(r_k, C_{k-1} + s(k-1 → k)) + p_k
//
// where the first job has no setup and starts no earlier than its ready time.
// The cost of a sequence is ΣC_k. [Evaluate] computes it for any complete or
// partial ordering; all arithmetic is int64.
//
// # Search State
//
// Three types carry search state:
//
//   - [Schedule]: a full sequence with prefix caches of cumulative cost and
//     completion time, so a suffix mutation at index i is re-scored from the
//     cached prefix at i-1 instead of from scratch.
//   - [Node]: a partial sequence used by tree search, with a [Bitset] of
//     unplaced jobs and the running time and cost.
//   - [Best]: the best [Solution] found so far, shared by concurrent search
//     branches. Reads of its cost are lock-free; replacement happens under a
//     mutex with a double check so no improvement is lost.
//
// Instances are immutable once built and safe for concurrent readers. Nodes
// and Schedules are owned by a single goroutine.
package sched
