package sched

// Evaluate returns the total completion time and makespan of seq.
// seq may be partial; jobs not in seq are ignored.
func Evaluate(inst *Instance, seq []int) (cost, makespan int64) {
	var t int64
	prev := -1
	for _, j := range seq {
		t = Complete(inst, prev, j, t)
		cost += t
		prev = j
	}
	return cost, t
}

// Complete returns the completion time of job j when it follows prev, which
// finished at time t. prev < 0 means j is first and incurs no setup.
func Complete(inst *Instance, prev, j int, t int64) int64 {
	start := t
	if prev >= 0 {
		start += inst.SetupTime(prev, j)
	}
	task := &inst.Tasks[j]
	if task.Ready > start {
		start = task.Ready
	}
	return start + task.Processing
}
