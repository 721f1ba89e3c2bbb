package strategy

import (
	"slices"
	"testing"
)

func TestAlternateOffset(t *testing.T) {
	want := []int{1, 2, 0, 1, 2, 0}
	for r := 1; r <= len(want); r++ {
		if got := alternateOffset(r); got != want[r-1] {
			t.Errorf("alternateOffset(%d) = %d, want %d", r, got, want[r-1])
		}
	}
}

func TestAlternateGroupsAreDisjoint(t *testing.T) {
	for n := 1; n <= 40; n++ {
		l := mustLine(t, make([]int64, n)...)
		for r := 1; r <= max(n-1, 3); r++ {
			plan := Alternate{}.Plan(l, r)
			if len(plan.Steps) != 1 {
				t.Fatalf("n=%d round %d: %d steps, want 1", n, r, len(plan.Steps))
			}
			seen := make([]bool, n)
			for _, g := range plan.Steps[0].Groups {
				if len(g.Members) < 2 || len(g.Members) > 3 {
					t.Errorf("n=%d round %d: group %v has %d members", n, r, g.Members, len(g.Members))
				}
				for _, m := range g.Members {
					if seen[m] {
						t.Fatalf("n=%d round %d: processor %d in two groups", n, r, m)
					}
					seen[m] = true
				}
			}
		}
	}
}

func TestAlternatePlanBoundaries(t *testing.T) {
	tests := []struct {
		n, round int
		want     [][]int
	}{
		{6, 1, [][]int{{0, 1, 2}, {3, 4, 5}}},
		{6, 2, [][]int{{1, 2, 3}, {4, 5}}},
		{6, 3, [][]int{{0, 1}, {2, 3, 4}}},
		{2, 1, [][]int{{0, 1}}},
		{2, 3, [][]int{{0, 1}}},
		{1, 1, nil},
	}

	for _, tt := range tests {
		l := mustLine(t, make([]int64, tt.n)...)
		var got [][]int
		for _, g := range (Alternate{}).Plan(l, tt.round).Steps[0].Groups {
			got = append(got, g.Members)
		}
		if !slices.EqualFunc(got, tt.want, slices.Equal) {
			t.Errorf("n=%d round %d: groups = %v, want %v", tt.n, tt.round, got, tt.want)
		}
	}
}

func TestSort3(t *testing.T) {
	l := mustLine(t, 9, -4, 9)
	sort3(l.At(0), l.At(1), l.At(2))
	if got := l.Values(); !slices.Equal(got, []int64{-4, 9, 9}) {
		t.Errorf("sort3 = %v, want [-4 9 9]", got)
	}
}
