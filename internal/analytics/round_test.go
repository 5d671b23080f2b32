package analytics

import "testing"

func TestRound1(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{10.25, 10.3},
		{0.25, 0.3},
		{-10.25, -10.3},
		{0.75, 0.8},
		{1.0 / 3, 0.3},
		{66.66666, 66.7},
		{0, 0},
	}

	for _, tt := range tests {
		if got := round1(tt.in); got != tt.want {
			t.Errorf("round1(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestAverage(t *testing.T) {
	if got := Average(41, 4); got != 10.3 {
		t.Errorf("Average(41, 4) = %v, want 10.3", got)
	}
	if got := Average(5, 0); got != 0 {
		t.Errorf("Average(5, 0) = %v, want 0", got)
	}
}
