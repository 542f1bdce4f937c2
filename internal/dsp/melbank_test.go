package dsp

import (
	"math"
	"testing"
)

func TestHzMelRoundTrip(t *testing.T) {
	for _, hz := range []float64{0, 20, 440, 1000, 8000, 20000} {
		mel := hzToMel(hz)
		back := melToHz(mel)
		if math.Abs(back-hz) > 1e-6 {
			t.Errorf("hz=%v: round trip got %v", hz, back)
		}
	}
}

func TestMelFrequencyEdgesMonotonic(t *testing.T) {
	edges := melFrequencyEdges(10, 20, 12000)
	if len(edges) != 12 {
		t.Fatalf("len(edges) = %d, want 12", len(edges))
	}
	for i := 1; i < len(edges); i++ {
		if edges[i] <= edges[i-1] {
			t.Fatalf("edges not strictly increasing at %d: %v <= %v", i, edges[i], edges[i-1])
		}
	}
}

func TestComputeMelMatrixShape(t *testing.T) {
	m := ComputeMelMatrix(24, 512, 20, 12000, 44100)
	if len(m) != 24 {
		t.Fatalf("len(m) = %d, want 24", len(m))
	}
	for i, row := range m {
		if len(row) != 512 {
			t.Fatalf("row %d len = %d, want 512", i, len(row))
		}
		for j, w := range row {
			if w < 0 || w > 1 {
				t.Fatalf("m[%d][%d] = %v, out of [0,1]", i, j, w)
			}
		}
	}
}

func TestComputeMelMatrixRowsHaveWeight(t *testing.T) {
	m := ComputeMelMatrix(16, 1024, 20, 12000, 44100)
	for i, row := range m {
		var sum float64
		for _, w := range row {
			sum += w
		}
		if sum <= 0 {
			t.Errorf("mel bin %d has zero total weight", i)
		}
	}
}

func TestApplyMelMatrixZeros(t *testing.T) {
	spectrum := make([]float32, 256)
	out := ApplyMelMatrix(spectrum, 20, 12000, 10, 44100)
	if len(out) != 10 {
		t.Fatalf("len(out) = %d, want 10", len(out))
	}
	for i, v := range out {
		if v != 0 {
			t.Errorf("out[%d] = %v, want 0", i, v)
		}
	}
}
