// Package bound computes admissible lower bounds on the total completion time
// reachable from a partial sequence.
//
// Every bound returned by [Lower] is the cost already accrued by the node plus
// an optimistic estimate for the unplaced jobs. Three estimates exist:
//
//   - [Unconstrained] drops setups and allows preemption, then schedules the
//     remaining jobs by shortest remaining processing time from the node's
//     clock while honoring ready times. When every remaining job is already
//     released this is the plain shortest-processing-time schedule.
//   - [Assignment] charges each remaining job its processing time plus the
//     cheapest setup into it from any job that could precede it, orders the
//     relaxed durations shortest first and adds the earliest possible start.
//   - Hybrid takes the larger of the two.
//
// [Pick] chooses between the first two from the setup severity of an
// instance: setup-light instances are bounded well by the unconstrained
// relaxation, setup-heavy ones by the assignment relaxation.
package bound

import (
	"strings"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// Strategy selects a lower-bound estimate.
type Strategy string

const (
	Auto          Strategy = "auto"
	Unconstrained Strategy = "unconstrained"
	Assignment    Strategy = "assignment"
	Hybrid        Strategy = "hybrid"
)

// Strategies lists the concrete strategies.
var Strategies = []Strategy{Unconstrained, Assignment, Hybrid}

// ParseStrategy converts a name into a Strategy. The empty string means Auto.
func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return Auto, nil
	case Auto, Unconstrained, Assignment, Hybrid:
		return st, nil
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown bound strategy %q (want auto, unconstrained, assignment or hybrid)", s)
}

// Pick returns Unconstrained for setup-light instances and Assignment when
// severity reaches sched.SeverityThreshold.
func Pick(m sched.Metrics) Strategy {
	if m.SetupHeavy() {
		return Assignment
	}
	return Unconstrained
}

// Resolve replaces Auto with the severity-selected strategy.
func Resolve(s Strategy, m sched.Metrics) Strategy {
	if s == Auto || s == "" {
		return Pick(m)
	}
	return s
}

// Lower returns node.Cost plus the remaining estimate of the strategy.
// Auto is resolved against the instance metrics.
func Lower(inst *sched.Instance, node *sched.Node, s Strategy) int64 {
	return node.Cost + Remaining(inst, node, Resolve(s, inst.Metrics))
}

// Remaining returns the estimate for the unplaced jobs only.
func Remaining(inst *sched.Instance, node *sched.Node, s Strategy) int64 {
	switch s {
	case Assignment:
		return AssignmentEstimate(inst, node)
	case Hybrid:
		return max(UnconstrainedEstimate(inst, node), AssignmentEstimate(inst, node))
	default:
		return UnconstrainedEstimate(inst, node)
	}
}
