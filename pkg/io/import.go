package io

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// ReadInstance parses the instance text format from r.
//
// ReadInstance returns an error with code INVALID_INSTANCE if the text
// violates any of the rules described in the package documentation. The
// error wraps an [errors.LineError] locating the first problem.
// ReadInstance does not close r.
func ReadInstance(r io.Reader) (*sched.Instance, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}
	return parseInstance(lines)
}

// ImportInstance reads an instance file at path.
func ImportInstance(path string) (*sched.Instance, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "instance file not found: %s", path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadInstance(f)
}

// ValidateInstance checks the instance text format without keeping the result.
func ValidateInstance(r io.Reader) error {
	_, err := ReadInstance(r)
	return err
}

// ReadSolution parses the solution text format from r. The reported cost
// is returned as-is; use [VerifySolution] to check it against an instance.
func ReadSolution(r io.Reader) (sched.Solution, error) {
	lines, err := readLines(r)
	if err != nil {
		return sched.Solution{}, err
	}
	if len(lines) == 0 {
		return sched.Solution{}, solutionErr(0, "solution is empty")
	}
	cost, err := strconv.ParseInt(strings.TrimSpace(lines[0]), 10, 64)
	if err != nil {
		return sched.Solution{}, solutionErr(1, "failed to parse reported cost %q", strings.TrimSpace(lines[0]))
	}
	if len(lines) < 2 {
		return sched.Solution{}, solutionErr(2, "no scheduled jobs found")
	}
	if len(lines) > 2 {
		return sched.Solution{}, solutionErr(3, "unexpected content after job sequence")
	}

	fields := strings.Fields(lines[1])
	seq := make([]int, len(fields))
	for i, f := range fields {
		id, err := strconv.Atoi(f)
		if err != nil {
			return sched.Solution{}, solutionErr(2, "failed to parse job id %q at position %d", f, i)
		}
		seq[i] = id
	}
	return sched.Solution{Sequence: seq, Cost: cost}, nil
}

// ImportSolution reads a solution file at path.
func ImportSolution(path string) (sched.Solution, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return sched.Solution{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "solution file not found: %s", path)
		}
		return sched.Solution{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadSolution(f)
}

// VerifySolution checks sol against inst: the sequence must be a permutation
// of all jobs and the reported cost must equal the recomputed objective. On
// success the makespan of sol is filled in.
func VerifySolution(inst *sched.Instance, sol *sched.Solution) error {
	if err := sol.Check(inst); err != nil {
		return err
	}
	_, sol.Makespan = sched.Evaluate(inst, sol.Sequence)
	return nil
}

// ReadJSON decodes an instance from its JSON encoding (see [WriteJSON]) and
// validates it.
func ReadJSON(r io.Reader) (*sched.Instance, error) {
	var data instanceJSON
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInstance, err, "decode instance")
	}
	n := len(data.Processing)
	if len(data.Ready) != n || len(data.Setup) != n {
		return nil, errors.New(errors.ErrCodeInvalidInstance, "processing, ready and setup must all have %d entries", n)
	}
	inst := sched.FromMatrix(data.Processing, data.Ready, data.Setup)
	if err := inst.Validate(); err != nil {
		return nil, err
	}
	return inst, nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

func parseInstance(lines []string) (*sched.Instance, error) {
	if len(lines) == 0 {
		return nil, instanceErr(0, "file is empty, cannot read the number of jobs")
	}
	n, err := strconv.Atoi(strings.TrimSpace(lines[0]))
	if err != nil {
		return nil, instanceErr(1, "failed to parse the number of jobs from %q", lines[0])
	}
	if n <= 0 {
		return nil, instanceErr(1, "number of jobs must be positive, got %d", n)
	}
	if want := 1 + 2*n; len(lines) != want {
		return nil, instanceErr(0, "incorrect number of lines: expected %d, found %d", want, len(lines))
	}

	processing := make([]int64, n)
	ready := make([]int64, n)
	for i := 0; i < n; i++ {
		lineNum := i + 2
		parts := strings.Fields(lines[i+1])
		if len(parts) != 2 {
			return nil, instanceErr(lineNum, "expected 2 values (processing, ready), found %d", len(parts))
		}
		p, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, instanceErr(lineNum, "failed to parse processing time %q", parts[0])
		}
		if p <= 0 {
			return nil, instanceErr(lineNum, "processing time must be positive, got %d", p)
		}
		r, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || r < 0 {
			return nil, instanceErr(lineNum, "failed to parse ready time %q", parts[1])
		}
		processing[i], ready[i] = p, r
	}

	setup := make([][]int64, n)
	for i := 0; i < n; i++ {
		lineNum := i + 2 + n
		parts := strings.Fields(lines[i+1+n])
		if len(parts) != n {
			return nil, instanceErr(lineNum, "expected %d setup values, found %d", n, len(parts))
		}
		row := make([]int64, n)
		for j, v := range parts {
			s, err := strconv.ParseInt(v, 10, 64)
			if err != nil || s < 0 {
				return nil, instanceErr(lineNum, "failed to parse setup time at column %d", j+1)
			}
			if i == j && s != 0 {
				return nil, instanceErr(lineNum, "diagonal setup S_%d%d must be 0, got %d", i, i, s)
			}
			row[j] = s
		}
		setup[i] = row
	}

	return sched.FromMatrix(processing, ready, setup), nil
}

func instanceErr(line int, format string, args ...any) error {
	return lineErr(errors.ErrCodeInvalidInstance, line, format, args...)
}

func solutionErr(line int, format string, args ...any) error {
	return lineErr(errors.ErrCodeInvalidSolution, line, format, args...)
}

func lineErr(code errors.Code, line int, format string, args ...any) error {
	le := &errors.LineError{Line: line, Message: fmt.Sprintf(format, args...)}
	return &errors.Error{Code: code, Message: le.Error(), Cause: le}
}
