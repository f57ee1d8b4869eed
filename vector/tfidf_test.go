package vector

import (
	"context"
	"errors"
	"math"
	"reflect"
	"sort"
	"testing"
)

const eps = 1e-9

func TestWordTokenizer(t *testing.T) {
	tok := NewWordTokenizer()
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "lowercase and stopwords", in: "The Lovers MEET again", want: []string{"lovers", "meet"}},
		{name: "punctuation splits", in: "Romance, Comedy", want: []string{"romance", "comedy"}},
		{name: "single chars dropped", in: "a b cd 7 42", want: []string{"cd", "42"}},
		{name: "unicode letters", in: "Café déjà-vu", want: []string{"café", "déjà", "vu"}},
		{name: "combining mark splits", in: "cafe\u0301 noir", want: []string{"cafe", "noir"}},
		{name: "lone letter before mark dropped", in: "x\u0301yz", want: []string{"yz"}},
		{name: "empty", in: "   ", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tok.Tokenize(tt.in)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFit_Example(t *testing.T) {
	docs := []string{
		"Romance lovers meet",
		"Romance lovers meet again",
		"Action explosions",
	}
	m, err := NewTFIDF().Fit(context.Background(), docs)
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}

	wantTerms := []string{"action", "explosions", "lovers", "meet", "romance"}
	if !reflect.DeepEqual(m.Terms, wantTerms) {
		t.Fatalf("Terms = %v, want %v", m.Terms, wantTerms)
	}

	// df(lovers)=2, N=3 => ln(4/3)+1
	id, _ := m.TermID("lovers")
	if want := math.Log(4.0/3.0) + 1; math.Abs(m.IDF[id]-want) > eps {
		t.Errorf("idf(lovers) = %v, want %v", m.IDF[id], want)
	}
	id, _ = m.TermID("action")
	if want := math.Log(4.0/2.0) + 1; math.Abs(m.IDF[id]-want) > eps {
		t.Errorf("idf(action) = %v, want %v", m.IDF[id], want)
	}

	for i, v := range m.Vectors {
		if math.Abs(v.Norm()-1) > eps {
			t.Errorf("vector %d norm = %v, want 1", i, v.Norm())
		}
		if !sort.IntsAreSorted(v.Indices) {
			t.Errorf("vector %d indices not sorted: %v", i, v.Indices)
		}
	}

	if got := Dot(m.Vectors[0], m.Vectors[1]); math.Abs(got-1) > eps {
		t.Errorf("Dot(A, B) = %v, want 1", got)
	}
	if got := Dot(m.Vectors[0], m.Vectors[2]); got != 0 {
		t.Errorf("Dot(A, C) = %v, want 0", got)
	}
}

func TestFit_TermFrequency(t *testing.T) {
	m, err := NewTFIDF(WithStopWords(nil)).Fit(context.Background(), []string{"drama drama crime", "crime"})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	crime, _ := m.TermID("crime")
	drama, _ := m.TermID("drama")
	d := m.Vectors[0].Dense(m.Dim())

	wantRatio := 2 * m.IDF[drama] / m.IDF[crime]
	if got := d[drama] / d[crime]; math.Abs(got-wantRatio) > eps {
		t.Errorf("drama/crime weight ratio = %v, want %v", got, wantRatio)
	}
}

func TestFit_ZeroVector(t *testing.T) {
	m, err := NewTFIDF().Fit(context.Background(), []string{" ", "the and of", "crime story"})
	if err != nil {
		t.Fatalf("Fit() error = %v", err)
	}
	for i := 0; i < 2; i++ {
		if !m.Vectors[i].IsZero() || m.Vectors[i].Len() != 0 {
			t.Errorf("vector %d = %+v, want zero", i, m.Vectors[i])
		}
		if got := Dot(m.Vectors[i], m.Vectors[2]); got != 0 {
			t.Errorf("Dot(%d, 2) = %v, want 0", i, got)
		}
	}
}

func TestFit_Deterministic(t *testing.T) {
	docs := []string{"space opera war", "war drama", "opera house mystery", "mystery drama crime"}
	a, err := NewTFIDF().Fit(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewTFIDF().Fit(context.Background(), docs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a.Terms, b.Terms) || !reflect.DeepEqual(a.IDF, b.IDF) || !reflect.DeepEqual(a.Vectors, b.Vectors) {
		t.Error("two fits over the same corpus differ")
	}
}

func TestFit_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewTFIDF().Fit(ctx, []string{"x y"}); !errors.Is(err, context.Canceled) {
		t.Errorf("Fit() error = %v, want context.Canceled", err)
	}
}

func TestDot(t *testing.T) {
	a := Sparse{Indices: []int{0, 2, 5}, Values: []float64{1, 2, 3}}
	b := Sparse{Indices: []int{2, 3, 5}, Values: []float64{4, 1, 2}}
	if got := Dot(a, b); got != 14 {
		t.Errorf("Dot() = %v, want 14", got)
	}
	if got := Dot(a, Sparse{}); got != 0 {
		t.Errorf("Dot(a, zero) = %v, want 0", got)
	}
}
