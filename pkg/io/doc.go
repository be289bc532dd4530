// Package io reads and writes scheduling instances and solutions.
//
// # Overview
//
// Two plain-text formats are supported, plus a JSON encoding of instances for
// the HTTP API and the result cache. Every reader validates structure as it
// parses and reports the offending line.
//
// # Instance Format
//
// Line 1 holds N, the number of jobs. The next N lines hold the processing
// time and ready time of each job. The final N lines form the setup matrix:
// row i lists the setups incurred by each job when it directly follows job i.
// Diagonal entries must be 0.
//
//	3
//	3 0
//	2 0
//	4 0
//	0 1 1
//	1 0 1
//	1 1 0
//
// Validation rules:
//   - N must be positive
//   - The file has exactly 1 + 2N non-empty lines (trailing blank lines are ignored)
//   - Each job line has exactly 2 integers; processing time is positive
//   - Each matrix row has exactly N non-negative integers
//   - Diagonal setups are 0
//
// # Solution Format
//
// Line 1 holds the total completion time; line 2 lists the job ids in
// scheduled order separated by spaces:
//
//	19
//	1 0 2
//
// [VerifySolution] checks that the ids form a permutation of the instance's
// jobs and that the reported cost matches the recomputed objective.
//
// # Import and Export
//
// Use [ImportInstance] and [ExportInstance] for files, or [ReadInstance] and
// [WriteInstance] for any reader or writer. Solutions mirror this with
// [ImportSolution], [ExportSolution], [ReadSolution] and [WriteSolution].
// Writing and re-reading an instance reproduces it exactly.
//
// # Concurrency
//
// All functions are safe to call concurrently. Returned instances are
// immutable and may be shared by concurrent solvers.
package io
