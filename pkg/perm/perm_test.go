package perm

import (
	"slices"
	"testing"
)

func TestSeq(t *testing.T) {
	if got := Seq(4); !slices.Equal(got, []int{0, 1, 2, 3}) {
		t.Errorf("Seq(4) = %v, want [0 1 2 3]", got)
	}
	if got := Seq(0); len(got) != 0 {
		t.Errorf("Seq(0) = %v, want empty", got)
	}
	if got := Seq(-2); len(got) != 0 {
		t.Errorf("Seq(-2) = %v, want empty", got)
	}
}

func TestEachVisitsAllDistinct(t *testing.T) {
	for n := 0; n <= 6; n++ {
		seen := make(map[string]bool)
		Each(n, func(p []int) bool {
			key := string(rune(len(p))) + fmtPerm(p)
			if seen[key] {
				t.Fatalf("n=%d: permutation %v visited twice", n, p)
			}
			seen[key] = true
			return true
		})
		if len(seen) != Factorial(n) {
			t.Errorf("n=%d: visited %d permutations, want %d", n, len(seen), Factorial(n))
		}
	}
}

func TestEachStopsEarly(t *testing.T) {
	calls := 0
	Each(5, func([]int) bool {
		calls++
		return calls < 7
	})
	if calls != 7 {
		t.Errorf("calls = %d, want 7", calls)
	}
}

func fmtPerm(p []int) string {
	b := make([]byte, len(p))
	for i, v := range p {
		b[i] = byte('a' + v)
	}
	return string(b)
}
