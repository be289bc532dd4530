package heuristic

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/setupsched/pkg/errors"
	"github.com/matzehuels/setupsched/pkg/sched"
)

func threeJobs() *sched.Instance {
	return sched.FromMatrix(
		[]int64{3, 2, 4},
		[]int64{0, 0, 0},
		[][]int64{{0, 1, 1}, {1, 0, 1}, {1, 1, 0}},
	)
}

func randomInstance(rng *rand.Rand, n int, maxSetup int64) *sched.Instance {
	p := make([]int64, n)
	r := make([]int64, n)
	s := make([][]int64, n)
	for i := 0; i < n; i++ {
		p[i] = 1 + rng.Int63n(20)
		r[i] = rng.Int63n(40)
		s[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i != j {
				s[i][j] = rng.Int63n(maxSetup)
			}
		}
	}
	return sched.FromMatrix(p, r, s)
}

func TestBuildThreeJobs(t *testing.T) {
	inst := threeJobs()
	for _, rule := range Rules {
		t.Run(string(rule), func(t *testing.T) {
			sol, err := Build(inst, rule)
			require.NoError(t, err)
			require.Equal(t, []int{1, 0, 2}, sol.Sequence)
			require.Equal(t, int64(19), sol.Cost)
			require.Equal(t, int64(11), sol.Makespan)
		})
	}
}

func TestBuildProducesValidSolutions(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for trial := 0; trial < 30; trial++ {
		inst := randomInstance(rng, 1+rng.Intn(15), 1+rng.Int63n(40))
		for _, rule := range Rules {
			sol, err := Build(inst, rule)
			require.NoError(t, err)
			require.NoError(t, sol.Check(inst), "rule %s", rule)
		}
	}
}

func TestBuildEmptyInstance(t *testing.T) {
	for _, rule := range Rules {
		_, err := Build(sched.NewInstance(nil), rule)
		if !errors.Is(err, errors.ErrCodeNoFeasible) {
			t.Errorf("Build(%s, empty) error = %v, want %v", rule, err, errors.ErrCodeNoFeasible)
		}
	}
}

func TestDispatchAdvancesIdleClock(t *testing.T) {
	inst := sched.FromMatrix(
		[]int64{4, 1},
		[]int64{3, 5},
		[][]int64{{0, 0}, {0, 0}},
	)
	sol, err := Build(inst, ACTS)
	require.NoError(t, err)
	// nothing is released at 0; the clock jumps to 3 where only job 0 is ready
	require.Equal(t, []int{0, 1}, sol.Sequence)
	require.Equal(t, int64(7+8), sol.Cost)
}

func TestACTSPrefersCheapSetup(t *testing.T) {
	// job 1 and job 2 have equal processing; after job 0, the setup to job 2
	// is much cheaper so ACTS must pick it.
	inst := sched.FromMatrix(
		[]int64{1, 5, 5},
		[]int64{0, 0, 0},
		[][]int64{{0, 30, 1}, {30, 0, 30}, {1, 30, 0}},
	)
	sol, err := Build(inst, ACTS)
	require.NoError(t, err)
	require.Equal(t, []int{0, 2, 1}, sol.Sequence)
}

func TestForSeverity(t *testing.T) {
	tests := []struct {
		severity float64
		want     Rule
	}{
		{0, BestInsertion},
		{0.49, BestInsertion},
		{0.5, ACTS},
		{3, ACTS},
	}
	for _, tt := range tests {
		if got := ForSeverity(sched.Metrics{Severity: tt.severity}); got != tt.want {
			t.Errorf("ForSeverity(%v) = %v, want %v", tt.severity, got, tt.want)
		}
	}
}

func TestPortfolioIsCheapest(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	inst := randomInstance(rng, 12, 25)

	best, rule, err := Portfolio(inst)
	require.NoError(t, err)
	require.True(t, slices.Contains(Rules, rule))
	for _, r := range Rules {
		sol, err := Build(inst, r)
		require.NoError(t, err)
		require.LessOrEqual(t, best.Cost, sol.Cost, "rule %s beat the portfolio", r)
	}
}

func TestParseRule(t *testing.T) {
	for _, r := range Rules {
		got, err := ParseRule(" " + string(r) + " ")
		require.NoError(t, err)
		require.Equal(t, r, got)
	}
	got, err := ParseRule("ACTS")
	require.NoError(t, err)
	require.Equal(t, ACTS, got)

	_, err = ParseRule("edd")
	require.True(t, errors.Is(err, errors.ErrCodeInvalidConfig))
}
