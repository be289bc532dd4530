// Package meta refines schedules with GRASP construction and variable
// neighborhood search.
//
// [Construct] builds a sequence by randomized greedy insertion. [Improve]
// scans one neighborhood ([Swap], [Relocate], [TwoOpt] or [BlockMove]) under
// a first- or best-improvement [Policy], evaluating each trial move against
// the schedule's prefix caches. [VND] cycles through neighborhoods until none
// improves. [Refiner] combines them: each round descends with VND, then
// shakes the incumbent in progressively larger neighborhoods and keeps any
// strictly better result.
//
// Every move has an exact inverse (see [Move.Inverse]), so trial moves are
// undone without copying the sequence.
package meta
