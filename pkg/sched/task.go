package sched

import (
	"github.com/matzehuels/setupsched/pkg/errors"
)

// Task is a single job.
type Task struct {
	ID         int     `json:"id"`
	Processing int64   `json:"processing"`
	Ready      int64   `json:"ready"`
	Setup      []int64 `json:"setup"` // Setup[j] is incurred when job j directly follows this task
}

// Instance is an immutable problem instance.
type Instance struct {
	Tasks   []Task  `json:"tasks"`
	Metrics Metrics `json:"metrics"`
}

// NewInstance builds an instance from tasks and computes its metrics.
// Tasks must be indexed by ID and carry a full setup row.
func NewInstance(tasks []Task) *Instance {
	inst := &Instance{Tasks: tasks}
	inst.Metrics = Analyze(inst)
	return inst
}

// FromMatrix builds an instance from parallel slices and a setup matrix whose
// row i holds the setups of every job following job i.
func FromMatrix(processing, ready []int64, setup [][]int64) *Instance {
	tasks := make([]Task, len(processing))
	for i := range tasks {
		tasks[i] = Task{
			ID:         i,
			Processing: processing[i],
			Ready:      ready[i],
			Setup:      setup[i],
		}
	}
	return NewInstance(tasks)
}

// N returns the number of jobs.
func (inst *Instance) N() int { return len(inst.Tasks) }

// SetupTime returns the setup incurred when job to directly follows job from.
func (inst *Instance) SetupTime(from, to int) int64 {
	return inst.Tasks[from].Setup[to]
}

// Processing returns the processing time of job j.
func (inst *Instance) Processing(j int) int64 { return inst.Tasks[j].Processing }

// Ready returns the ready time of job j.
func (inst *Instance) Ready(j int) int64 { return inst.Tasks[j].Ready }

// Validate checks the structural invariants every algorithm relies on.
func (inst *Instance) Validate() error {
	n := inst.N()
	if err := errors.ValidateJobCount(n); err != nil {
		return err
	}
	for i, t := range inst.Tasks {
		if t.ID != i {
			return errors.New(errors.ErrCodeInvalidInstance, "task at index %d has id %d", i, t.ID)
		}
		if t.Processing <= 0 {
			return errors.New(errors.ErrCodeInvalidInstance, "task %d: processing time must be positive, got %d", i, t.Processing)
		}
		if t.Ready < 0 {
			return errors.New(errors.ErrCodeInvalidInstance, "task %d: ready time cannot be negative, got %d", i, t.Ready)
		}
		if len(t.Setup) != n {
			return errors.New(errors.ErrCodeInvalidInstance, "task %d: expected %d setup times, got %d", i, n, len(t.Setup))
		}
		for j, s := range t.Setup {
			if s < 0 {
				return errors.New(errors.ErrCodeInvalidInstance, "setup %d->%d cannot be negative, got %d", i, j, s)
			}
		}
		if t.Setup[i] != 0 {
			return errors.New(errors.ErrCodeInvalidInstance, "diagonal setup %d->%d must be 0, got %d", i, i, t.Setup[i])
		}
	}
	return nil
}
