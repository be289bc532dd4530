package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/matzehuels/setupsched/pkg/sched"
)

type instanceJSON struct {
	Processing []int64   `json:"processing"`
	Ready      []int64   `json:"ready"`
	Setup      [][]int64 `json:"setup"`
}

// WriteInstance encodes inst in the instance text format.
// The output can be re-read with [ReadInstance] for round-trip processing.
func WriteInstance(inst *sched.Instance, w io.Writer) error {
	bw := bufio.NewWriter(w)
	n := inst.N()
	fmt.Fprintln(bw, n)
	for _, t := range inst.Tasks {
		fmt.Fprintf(bw, "%d %d\n", t.Processing, t.Ready)
	}
	buf := make([]byte, 0, 8*n)
	for _, t := range inst.Tasks {
		buf = buf[:0]
		for j, s := range t.Setup {
			if j > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendInt(buf, s, 10)
		}
		buf = append(buf, '\n')
		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("write: %w", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportInstance writes inst to a file at path.
// This is a convenience wrapper around [WriteInstance] for file-based output.
func ExportInstance(inst *sched.Instance, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteInstance(inst, f)
}

// WriteSolution encodes sol in the solution text format.
func WriteSolution(sol sched.Solution, w io.Writer) error {
	buf := strconv.AppendInt(nil, sol.Cost, 10)
	buf = append(buf, '\n')
	for i, j := range sol.Sequence {
		if i > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(j), 10)
	}
	buf = append(buf, '\n')
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ExportSolution writes sol to a file at path.
func ExportSolution(sol sched.Solution, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteSolution(sol, f)
}

// WriteJSON encodes inst as JSON with parallel processing, ready and setup
// arrays. The setup matrix uses the same row convention as the text format.
func WriteJSON(inst *sched.Instance, w io.Writer) error {
	out := instanceJSON{
		Processing: make([]int64, inst.N()),
		Ready:      make([]int64, inst.N()),
		Setup:      make([][]int64, inst.N()),
	}
	for i, t := range inst.Tasks {
		out.Processing[i] = t.Processing
		out.Ready[i] = t.Ready
		out.Setup[i] = t.Setup
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}
