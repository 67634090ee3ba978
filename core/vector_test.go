package core

import (
	"math"
	"testing"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
	}{
		{name: "simple vector", input: []float32{3, 4}},
		{name: "negative components", input: []float32{-1, 2, -3}},
		{name: "already normalized", input: []float32{1, 0, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.input)
			if len(got) != len(tt.input) {
				t.Fatalf("NormalizeVector() length = %d, want %d", len(got), len(tt.input))
			}

			var magnitude float64
			for _, v := range got {
				magnitude += float64(v) * float64(v)
			}
			magnitude = math.Sqrt(magnitude)

			if math.Abs(magnitude-1.0) > 1e-5 {
				t.Errorf("NormalizeVector() magnitude = %f, want 1.0", magnitude)
			}
		})
	}
}

func TestNormalizeVector_ZeroVector(t *testing.T) {
	got := NormalizeVector([]float32{0, 0, 0})
	for i, v := range got {
		if v != 0 {
			t.Errorf("NormalizeVector() zero vector component %d = %f, want 0", i, v)
		}
	}
}

func TestNormalizeVector_Empty(t *testing.T) {
	got := NormalizeVector(nil)
	if len(got) != 0 {
		t.Errorf("NormalizeVector() on nil returned %d elements", len(got))
	}
}
