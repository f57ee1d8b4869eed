package rerank

import (
	"context"
	"testing"

	"github.com/rushteam/contentrec/core"
)

func recs(genres ...string) []*core.Recommendation {
	out := make([]*core.Recommendation, len(genres))
	for i, g := range genres {
		out[i] = core.NewRecommendation(core.NewItem(i, "t", g, ""), 1-float64(i)/10)
	}
	return out
}

func rows(in []*core.Recommendation) []int {
	out := make([]int, len(in))
	for i, r := range in {
		out[i] = r.Item.Row
	}
	return out
}

func TestTopNNode(t *testing.T) {
	tests := []struct {
		name string
		n    int
		in   int
		want int
	}{
		{name: "truncate", n: 2, in: 5, want: 2},
		{name: "fewer than n", n: 5, in: 3, want: 3},
		{name: "no limit", n: 0, in: 4, want: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := recs(make([]string, tt.in)...)
			out, err := (&TopNNode{N: tt.n}).Process(context.Background(), nil, in)
			if err != nil {
				t.Fatal(err)
			}
			if len(out) != tt.want {
				t.Errorf("len = %d, want %d", len(out), tt.want)
			}
		})
	}
}

func TestDiversity(t *testing.T) {
	in := recs("Drama, Crime", "drama", "Action", "", "Crime", "Action, Drama")

	out, err := (&Diversity{}).Process(context.Background(), nil, in)
	if err != nil {
		t.Fatal(err)
	}
	got := rows(out)
	want := []int{0, 2, 3, 4}
	if len(got) != len(want) {
		t.Fatalf("rows = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rows = %v, want %v", got, want)
		}
	}

	out, err = (&Diversity{MaxPerCategory: 2}).Process(context.Background(), nil, in)
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 6 {
		t.Errorf("MaxPerCategory=2 kept %d, want 6", len(out))
	}
}

func TestPrimaryGenre(t *testing.T) {
	if got := PrimaryGenre(" , Thriller, Action"); got != "thriller" {
		t.Errorf("PrimaryGenre() = %q", got)
	}
}
