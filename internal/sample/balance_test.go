package sample

import (
	"errors"
	"math"
	"testing"

	"github.com/haircolorlab/tress/internal/colour"
)

// rowWithProportions builds a row whose cluster proportions are the given
// values; the Lab colours are irrelevant to balance scoring.
func rowWithProportions(p1, p2, p3 float64) Row {
	var r Row
	for i, p := range []float64{p1, p2, p3} {
		r.Clusters[i] = Cluster{Colour: colour.Lab{L: 50}, Proportion: p}
	}
	return r
}

func TestBalanceScore(t *testing.T) {
	tests := []struct {
		name        string
		proportions [3]float64
		want        float64
		tolerance   float64
	}{
		{
			name:        "near-even split is near zero",
			proportions: [3]float64{33.33, 33.33, 33.34},
			want:        0,
			tolerance:   0.02,
		},
		{
			name:        "single cluster dominates",
			proportions: [3]float64{100, 0, 0},
			want:        400.0 / 3,
			tolerance:   1e-9,
		},
		{
			name:        "exactly even",
			proportions: [3]float64{100.0 / 3, 100.0 / 3, 100.0 / 3},
			want:        0,
			tolerance:   1e-9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BalanceScore(tt.proportions)
			if math.Abs(got-tt.want) > tt.tolerance {
				t.Errorf("BalanceScore(%v) = %v, want %v ± %v", tt.proportions, got, tt.want, tt.tolerance)
			}
		})
	}
}

func TestSelectMostBalanced(t *testing.T) {
	// Scores are roughly 10, 2, 7; the middle row must win.
	rows := []Row{
		rowWithProportions(38.33, 33.33, 28.34),
		rowWithProportions(34.33, 33.33, 32.34),
		rowWithProportions(36.83, 33.33, 29.84),
	}

	got, err := SelectMostBalanced(rows)
	if err != nil {
		t.Fatalf("SelectMostBalanced returned error: %v", err)
	}
	if got.Clusters != rows[1].Clusters {
		t.Errorf("SelectMostBalanced picked %v, want row 1", got.Proportions())
	}
}

func TestSelectMostBalancedTieBreak(t *testing.T) {
	rows := []Row{
		rowWithProportions(40, 30, 30),
		rowWithProportions(30, 40, 30),
		rowWithProportions(30, 30, 40),
	}
	rows[0].Filename = "first"

	got, err := SelectMostBalanced(rows)
	if err != nil {
		t.Fatalf("SelectMostBalanced returned error: %v", err)
	}
	if got.Filename != "first" {
		t.Errorf("tie should go to the first row, got %q", got.Filename)
	}
}

func TestSelectMostBalancedEmpty(t *testing.T) {
	if _, err := SelectMostBalanced(nil); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("SelectMostBalanced(nil) error = %v, want ErrEmptyInput", err)
	}
}

func TestSelectByIndex(t *testing.T) {
	rows := []Row{
		{Filename: "a"},
		{Filename: "b"},
		{Filename: "c"},
	}

	tests := []struct {
		name    string
		index   int
		want    string
		wantErr bool
	}{
		{name: "first", index: 0, want: "a"},
		{name: "last", index: 2, want: "c"},
		{name: "negative", index: -1, wantErr: true},
		{name: "past end", index: 3, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SelectByIndex(rows, tt.index)
			if tt.wantErr {
				if !errors.Is(err, ErrIndexOutOfRange) {
					t.Fatalf("SelectByIndex(rows, %d) error = %v, want ErrIndexOutOfRange", tt.index, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("SelectByIndex(rows, %d) returned error: %v", tt.index, err)
			}
			if got.Filename != tt.want {
				t.Errorf("SelectByIndex(rows, %d) = %q, want %q", tt.index, got.Filename, tt.want)
			}
		})
	}
}

func TestSelectByIndexEmpty(t *testing.T) {
	if _, err := SelectByIndex(nil, 0); !errors.Is(err, ErrEmptyInput) {
		t.Errorf("SelectByIndex(nil, 0) error = %v, want ErrEmptyInput", err)
	}
}
