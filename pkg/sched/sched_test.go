package sched

import (
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/matzehuels/setupsched/pkg/errors"
)

// threeJobs has p=[3,2,4], r=0 and setup 1 between any two distinct jobs.
func threeJobs() *Instance {
	return FromMatrix(
		[]int64{3, 2, 4},
		[]int64{0, 0, 0},
		[][]int64{
			{0, 1, 1},
			{1, 0, 1},
			{1, 1, 0},
		},
	)
}

func randomInstance(rng *rand.Rand, n int) *Instance {
	p := make([]int64, n)
	r := make([]int64, n)
	s := make([][]int64, n)
	for i := 0; i < n; i++ {
		p[i] = 1 + rng.Int63n(20)
		r[i] = rng.Int63n(30)
		s[i] = make([]int64, n)
		for j := 0; j < n; j++ {
			if i != j {
				s[i][j] = rng.Int63n(15)
			}
		}
	}
	return FromMatrix(p, r, s)
}

func TestEvaluateThreeJobs(t *testing.T) {
	inst := threeJobs()
	s := NewSchedule(inst, []int{0, 1, 2})

	want := []int64{3, 6, 11}
	for i, c := range want {
		if got := s.CompletionAt(i); got != c {
			t.Errorf("CompletionAt(%d) = %d, want %d", i, got, c)
		}
	}
	if s.Score != 20 {
		t.Errorf("Score = %d, want 20", s.Score)
	}
	if cost, makespan := Evaluate(inst, []int{0, 1, 2}); cost != 20 || makespan != 11 {
		t.Errorf("Evaluate() = (%d, %d), want (20, 11)", cost, makespan)
	}
}

func TestEvaluateSingleJob(t *testing.T) {
	inst := FromMatrix([]int64{5}, []int64{7}, [][]int64{{0}})
	if cost, _ := Evaluate(inst, []int{0}); cost != 12 {
		t.Errorf("Evaluate() = %d, want 12", cost)
	}
}

func TestEvaluateHonorsReadyTime(t *testing.T) {
	inst := FromMatrix(
		[]int64{2, 2},
		[]int64{0, 10},
		[][]int64{{0, 3}, {3, 0}},
	)
	// job 1 waits for its release at 10 even though setup ends at 5
	if cost, makespan := Evaluate(inst, []int{0, 1}); cost != 14 || makespan != 12 {
		t.Errorf("Evaluate() = (%d, %d), want (14, 12)", cost, makespan)
	}
}

func TestAnalyze(t *testing.T) {
	m := threeJobs().Metrics
	if m.AvgProcessing != 3 {
		t.Errorf("AvgProcessing = %v, want 3", m.AvgProcessing)
	}
	if m.AvgSetup != 1 {
		t.Errorf("AvgSetup = %v, want 1", m.AvgSetup)
	}
	if m.Severity != 1.0/3.0 {
		t.Errorf("Severity = %v, want %v", m.Severity, 1.0/3.0)
	}
	if m.TotalWork != 9 {
		t.Errorf("TotalWork = %v, want 9", m.TotalWork)
	}

	if got := Analyze(&Instance{}); got != (Metrics{}) {
		t.Errorf("Analyze(empty) = %+v, want zero", got)
	}
}

func TestInstanceValidate(t *testing.T) {
	if err := threeJobs().Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	bad := threeJobs()
	bad.Tasks[1].Setup[1] = 4
	if err := bad.Validate(); !errors.Is(err, errors.ErrCodeInvalidInstance) {
		t.Errorf("Validate() diagonal error = %v, want %v", err, errors.ErrCodeInvalidInstance)
	}

	zero := threeJobs()
	zero.Tasks[0].Processing = 0
	if err := zero.Validate(); err == nil {
		t.Error("Validate() accepted zero processing time")
	}

	if err := NewInstance(nil).Validate(); err == nil {
		t.Error("Validate() accepted empty instance")
	}
}

func TestRecalculateFromMatchesFull(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for trial := 0; trial < 50; trial++ {
		n := 2 + rng.Intn(12)
		inst := randomInstance(rng, n)
		s := NewSchedule(inst, rng.Perm(n))

		for idx := 0; idx < n; idx++ {
			// mutate only the suffix starting at idx
			suffix := s.Sequence[idx:]
			rng.Shuffle(len(suffix), func(a, b int) { suffix[a], suffix[b] = suffix[b], suffix[a] })

			peek := s.ScoreFrom(idx)
			got := s.RecalculateFrom(idx)
			want, _ := Evaluate(inst, s.Sequence)
			require.Equal(t, want, got, "RecalculateFrom(%d)", idx)
			require.Equal(t, want, peek, "ScoreFrom(%d)", idx)

			full := NewSchedule(inst, slices.Clone(s.Sequence))
			for i := 0; i < n; i++ {
				require.Equal(t, full.CompletionAt(i), s.CompletionAt(i), "cache at %d after RecalculateFrom(%d)", i, idx)
			}
		}
	}
}

func TestScheduleCloneIsIndependent(t *testing.T) {
	s := NewSchedule(threeJobs(), []int{0, 1, 2})
	c := s.Clone()
	c.Sequence[0], c.Sequence[2] = c.Sequence[2], c.Sequence[0]
	c.Recalculate()

	if s.Sequence[0] != 0 || s.Score != 20 {
		t.Errorf("original mutated: seq=%v score=%d", s.Sequence, s.Score)
	}

	s.CopyFrom(c)
	if !slices.Equal(s.Sequence, c.Sequence) || s.Score != c.Score {
		t.Errorf("CopyFrom() = %v/%d, want %v/%d", s.Sequence, s.Score, c.Sequence, c.Score)
	}
}

func TestNodeAppend(t *testing.T) {
	inst := threeJobs()
	root := Root(inst)
	if root.Last != -1 || root.Remaining.Len() != 3 {
		t.Fatalf("Root() = %+v", root)
	}

	a := root.Append(inst, 0)
	b := a.Append(inst, 1)
	c := b.Append(inst, 2)

	if a.Remaining.Len() != 3-1 || root.Remaining.Len() != 3 {
		t.Error("Append() modified the parent")
	}
	if c.Cost != 20 || c.Time != 11 || !c.Leaf() {
		t.Errorf("leaf = cost %d time %d leaf %v, want 20 11 true", c.Cost, c.Time, c.Leaf())
	}
	if !(a.Cost < b.Cost && b.Cost < c.Cost) {
		t.Errorf("cost not strictly increasing: %d %d %d", a.Cost, b.Cost, c.Cost)
	}
}

func TestBitset(t *testing.T) {
	b := NewBitset(130)
	for _, i := range []int{0, 5, 63, 64, 129} {
		b.Set(i)
	}
	b.Clear(5)

	if got := b.Members(nil); !slices.Equal(got, []int{0, 63, 64, 129}) {
		t.Errorf("Members() = %v", got)
	}
	if b.Len() != 4 {
		t.Errorf("Len() = %d, want 4", b.Len())
	}
	if !b.Has(64) || b.Has(65) {
		t.Error("Has() mismatch")
	}
	if FullBitset(70).Len() != 70 {
		t.Error("FullBitset(70).Len() != 70")
	}
}

func TestSolutionCheck(t *testing.T) {
	inst := threeJobs()
	ok := NewSolution(inst, []int{0, 1, 2})
	if err := ok.Check(inst); err != nil {
		t.Fatalf("Check() error = %v", err)
	}

	tests := []struct {
		name string
		sol  Solution
	}{
		{"wrong cost", Solution{Sequence: []int{0, 1, 2}, Cost: 19}},
		{"duplicate", Solution{Sequence: []int{0, 0, 2}, Cost: 20}},
		{"missing", Solution{Sequence: []int{0, 1}, Cost: 9}},
		{"out of range", Solution{Sequence: []int{0, 1, 3}, Cost: 20}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.sol.Check(inst); !errors.Is(err, errors.ErrCodeInvalidSolution) {
				t.Errorf("Check() error = %v, want %v", err, errors.ErrCodeInvalidSolution)
			}
		})
	}
}

func TestBestConcurrentOffers(t *testing.T) {
	inst := threeJobs()
	best := NewBest(Solution{Sequence: []int{2, 1, 0}, Cost: 1 << 40})

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for c := int64(1000); c >= 100; c-- {
				best.Offer(Solution{Sequence: []int{w % 3, 0, 0}, Cost: c + int64(w)})
			}
		}(w)
	}
	wg.Wait()

	if got := best.Cost(); got != 100 {
		t.Errorf("Cost() = %d, want 100", got)
	}
	if sol := best.Solution(); sol.Cost != 100 || sol.Sequence[0] != 0 {
		t.Errorf("Solution() = %+v, want cost 100 from worker 0", sol)
	}
	if best.Offer(Solution{Sequence: []int{0, 1, 2}, Cost: 100}) {
		t.Error("Offer() accepted a solution that is not strictly better")
	}
	if !best.Offer(NewSolution(inst, []int{0, 1, 2})) {
		t.Error("Offer() rejected a strictly better solution")
	}
}

func TestEnumerate(t *testing.T) {
	sol, ok := Enumerate(threeJobs())
	require.True(t, ok)
	// SPT order with uniform setups is optimal: 2,4,... -> [1,0,2]: 2, 6, 11 = 19
	require.Equal(t, int64(19), sol.Cost)
	require.Equal(t, []int{1, 0, 2}, sol.Sequence)

	_, ok = Enumerate(NewInstance(nil))
	require.False(t, ok)
}

func TestInsertAndRemove(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	inst := randomInstance(rng, 8)
	s := NewSchedule(inst, []int{3, 1, 5})

	for pos := 0; pos <= s.Len(); pos++ {
		trial := slices.Insert(slices.Clone(s.Sequence), pos, 6)
		want, _ := Evaluate(inst, trial)
		require.Equal(t, want, s.InsertionCost(pos, 6), "InsertionCost(%d)", pos)
	}

	s.Insert(1, 6)
	require.Equal(t, []int{3, 6, 1, 5}, s.Sequence)
	want, _ := Evaluate(inst, s.Sequence)
	require.Equal(t, want, s.Score)

	require.Equal(t, 1, s.RemoveAt(2))
	want, _ = Evaluate(inst, s.Sequence)
	require.Equal(t, want, s.Score)
	require.Equal(t, []int{3, 6, 5}, s.Sequence)
}
