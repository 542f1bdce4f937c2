package dsp

import "testing"

func TestTickDropsFrameOnLengthMismatch(t *testing.T) {
	state := NewState()
	settings := DefaultSettings()

	first := make([]float32, 512)
	if _, ok := Tick(state, first, settings, 44100, [3]uint8{255, 255, 255}, settings.NBins); !ok {
		t.Fatalf("first tick should succeed")
	}

	second := make([]float32, 256)
	if _, ok := Tick(state, second, settings, 44100, [3]uint8{255, 255, 255}, settings.NBins); ok {
		t.Fatalf("tick with a different buffer length should be dropped")
	}
}

func TestTickZeroesSilentInput(t *testing.T) {
	state := NewState()
	settings := DefaultSettings()
	silence := make([]float32, 512)

	data, ok := Tick(state, silence, settings, 44100, [3]uint8{255, 255, 255}, settings.NBins)
	if !ok {
		t.Fatalf("tick on silence should succeed")
	}
	for i, v := range data.Melbank {
		if v != 0 {
			t.Fatalf("melbank[%d] = %v, want 0 for silent input", i, v)
		}
	}
}

func TestTickProducesMelbankOfRequestedLength(t *testing.T) {
	state := NewState()
	settings := DefaultSettings()
	data := make([]float32, 512)
	for i := range data {
		data[i] = float32(i%7) * 0.1
	}

	out, ok := Tick(state, data, settings, 44100, [3]uint8{255, 255, 255}, 32)
	if !ok {
		t.Fatalf("tick should succeed")
	}
	if len(out.Melbank) != 32 {
		t.Fatalf("len(Melbank) = %d, want 32", len(out.Melbank))
	}
	if len(out.PowerSpectrum) != len(data) {
		t.Fatalf("len(PowerSpectrum) = %d, want %d", len(out.PowerSpectrum), len(data))
	}
}

func TestPreEmphasisFirstSampleUnchanged(t *testing.T) {
	x := []float32{1, 2, 3}
	y := preEmphasis(x)
	if y[0] != 1 {
		t.Fatalf("y[0] = %v, want unchanged x[0]=1", y[0])
	}
	if y[1] != 2-0.9*1 {
		t.Fatalf("y[1] = %v, want %v", y[1], 2-0.9*1)
	}
}

func TestThresholdGateZeroesQuietBuffer(t *testing.T) {
	x := []float32{0.0001, -0.0001, 0.00005}
	thresholdGate(x)
	for i, v := range x {
		if v != 0 {
			t.Errorf("x[%d] = %v, want 0 below threshold", i, v)
		}
	}
}

func TestThresholdGatePassesLoudBuffer(t *testing.T) {
	x := []float32{0.1, -0.2, 0.05}
	orig := append([]float32(nil), x...)
	thresholdGate(x)
	for i := range x {
		if x[i] != orig[i] {
			t.Fatalf("x[%d] changed from %v to %v, should pass through gate unchanged", i, orig[i], x[i])
		}
	}
}
