// Package generate synthesizes random scheduling instances.
//
// Processing times are drawn from [MinProcessing, MaxProcessing) and setups
// from [MinSetup, MaxSetup). Ready times are spread over [0, Σp/Spread):
// short jobs tend to be released late and long jobs early, which keeps the
// machine contended and makes ready times matter.
package generate

import (
	"math/rand"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

const (
	MinProcessing = 1
	MaxProcessing = 35
	MinSetup      = 1
	MaxSetup      = 20
	Spread        = 2
)

// Options controls instance synthesis. Zero fields take the package defaults.
type Options struct {
	Jobs          int
	Seed          int64
	MaxProcessing int64
	MaxSetup      int64
}

// Random returns a random instance with n jobs drawn from a source seeded
// with seed.
func Random(n int, seed int64) (*sched.Instance, error) {
	return New(Options{Jobs: n, Seed: seed})
}

// New returns a random instance described by opts.
func New(opts Options) (*sched.Instance, error) {
	if err := errors.ValidateJobCount(opts.Jobs); err != nil {
		return nil, err
	}
	maxP := opts.MaxProcessing
	if maxP == 0 {
		maxP = MaxProcessing
	}
	maxS := opts.MaxSetup
	if maxS == 0 {
		maxS = MaxSetup
	}
	if maxP <= MinProcessing || maxS <= MinSetup {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "processing and setup ranges must be non-empty")
	}

	seed := opts.Seed
	if seed == 0 {
		seed = 1
	}
	rng := rand.New(rand.NewSource(seed))
	n := opts.Jobs

	processing := make([]int64, n)
	var total int64
	for i := range processing {
		processing[i] = MinProcessing + rng.Int63n(maxP-MinProcessing)
		total += processing[i]
	}

	setup := make([][]int64, n)
	for i := range setup {
		setup[i] = make([]int64, n)
		for j := range setup[i] {
			if i != j {
				setup[i][j] = MinSetup + rng.Int63n(maxS-MinSetup)
			}
		}
	}

	upper := total / Spread
	ready := make([]int64, n)
	for i, p := range processing {
		inverse := float64(maxP-p) / float64(maxP)
		lower := int64(inverse * float64(upper))
		if lower >= upper {
			ready[i] = upper
			continue
		}
		ready[i] = lower + rng.Int63n(upper-lower)
	}

	return sched.FromMatrix(processing, ready, setup), nil
}
