// Package heuristic builds initial schedules by construction.
//
// Four rules are available. [BestInsertion] grows a sequence by repeatedly
// inserting the job and position pair that minimizes the total completion
// time. [ACTS] dispatches released jobs by an apparent-setup index that trades
// processing time against the setup from the previous job. [ERD] and [SPT]
// are plain dispatch rules kept as cheap baselines.
//
// [Initial] picks between best insertion and ACTS from the instance's setup
// severity; [Portfolio] runs every rule and keeps the cheapest result.
package heuristic

import (
	"fmt"
	"strings"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

// Rule names a construction heuristic.
type Rule string

const (
	BestInsertion Rule = "insertion"
	ACTS          Rule = "acts"
	ERD           Rule = "erd"
	SPT           Rule = "spt"
)

// Rules lists every construction rule in portfolio order.
var Rules = []Rule{BestInsertion, ACTS, ERD, SPT}

// ParseRule converts a name into a Rule.
func ParseRule(s string) (Rule, error) {
	r := Rule(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Rules {
		if r == known {
			return r, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidConfig, "unknown construction rule %q (want one of %s)", s, ruleNames())
}

func ruleNames() string {
	names := make([]string, len(Rules))
	for i, r := range Rules {
		names[i] = string(r)
	}
	return strings.Join(names, ", ")
}

// Build constructs a complete schedule with the given rule.
func Build(inst *sched.Instance, rule Rule) (sched.Solution, error) {
	if inst.N() == 0 {
		return sched.Solution{}, errors.New(errors.ErrCodeNoFeasible, "no feasible initial solution: instance has no jobs")
	}

	var seq []int
	switch rule {
	case BestInsertion:
		seq = bestInsertion(inst)
	case ACTS:
		seq = dispatch(inst, actsIndex(inst))
	case ERD:
		seq = erd(inst)
	case SPT:
		seq = dispatch(inst, sptIndex(inst))
	default:
		return sched.Solution{}, fmt.Errorf("build: unknown rule %q", rule)
	}
	return sched.NewSolution(inst, seq), nil
}

// ForSeverity returns the rule suited to an instance: best insertion when
// setups are light, ACTS when they dominate.
func ForSeverity(m sched.Metrics) Rule {
	if m.SetupHeavy() {
		return ACTS
	}
	return BestInsertion
}

// Initial builds the severity-selected initial solution.
func Initial(inst *sched.Instance) (sched.Solution, Rule, error) {
	rule := ForSeverity(inst.Metrics)
	sol, err := Build(inst, rule)
	return sol, rule, err
}

// Portfolio runs every rule and returns the cheapest solution. Ties keep the
// earlier rule in [Rules].
func Portfolio(inst *sched.Instance) (sched.Solution, Rule, error) {
	var (
		best     sched.Solution
		bestRule Rule
	)
	for _, rule := range Rules {
		sol, err := Build(inst, rule)
		if err != nil {
			return sched.Solution{}, "", err
		}
		if bestRule == "" || sol.Cost < best.Cost {
			best, bestRule = sol, rule
		}
	}
	return best, bestRule, nil
}
