package sched

// Node is a partial sequence explored by tree search.
type Node struct {
	Placed    []int
	Remaining Bitset
	Time      int64 // completion time of the last placed job
	Cost      int64 // ΣC over placed jobs
	Last      int   // last placed job, -1 at the root
}

// Root returns the empty partial sequence for inst.
func Root(inst *Instance) *Node {
	n := inst.N()
	return &Node{
		Placed:    make([]int, 0, n),
		Remaining: FullBitset(n),
		Last:      -1,
	}
}

// Append returns the child obtained by scheduling job next. The receiver is
// not modified.
func (nd *Node) Append(inst *Instance, next int) *Node {
	t := Complete(inst, nd.Last, next, nd.Time)
	placed := make([]int, len(nd.Placed), len(nd.Placed)+1)
	copy(placed, nd.Placed)
	rem := nd.Remaining.Clone()
	rem.Clear(next)
	return &Node{
		Placed:    append(placed, next),
		Remaining: rem,
		Time:      t,
		Cost:      nd.Cost + t,
		Last:      next,
	}
}

// Leaf reports whether every job has been placed.
func (nd *Node) Leaf() bool { return nd.Remaining.Len() == 0 }

// Depth returns the number of placed jobs.
func (nd *Node) Depth() int { return len(nd.Placed) }
