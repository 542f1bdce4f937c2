package dsp

import (
	"reflect"
	"testing"
)

func TestGaussianCurvePeaksAtCenter(t *testing.T) {
	curve := GaussianCurve(9, 2.0)
	if len(curve) != 9 {
		t.Fatalf("len = %d, want 9", len(curve))
	}
	center := curve[4]
	for i, v := range curve {
		if i != 4 && v > center {
			t.Errorf("curve[%d] = %v > center %v", i, v, center)
		}
	}
}

func TestReversed(t *testing.T) {
	in := []float32{1, 2, 3}
	got := Reversed(in)
	want := []float32{3, 2, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	if in[0] != 1 {
		t.Fatalf("Reversed mutated its input")
	}
}

func TestMirror(t *testing.T) {
	in := []float32{1, 2}
	got := Mirror(in)
	want := []float32{2, 1, 1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTransposeLengthAndStartCode(t *testing.T) {
	v := []float32{0.0, 0.5, 1.0}
	out := Transpose(v, [3]uint8{100, 200, 0})
	if len(out) != len(v)*3+1 {
		t.Fatalf("len(out) = %d, want %d", len(out), len(v)*3+1)
	}
	if out[0] != 0x00 {
		t.Fatalf("out[0] = %v, want start code 0x00", out[0])
	}
	// v[0] is intentionally skipped: v[1] fills bytes [1..4), v[2] fills
	// [4..7), and the final triple [7..10) is never written.
	for i := 7; i < 10; i++ {
		if out[i] != 0 {
			t.Errorf("out[%d] = %v, want 0 (v[0] skipped by design)", i, out[i])
		}
	}
	// v[1]=0.5 against (100,200,0) -> (50,100,0)
	if out[1] != 50 || out[2] != 100 || out[3] != 0 {
		t.Fatalf("triple for v[1] = %v,%v,%v, want 50,100,0", out[1], out[2], out[3])
	}
	// v[2]=1.0 against (100,200,0) -> (100,200,0)
	if out[4] != 100 || out[5] != 200 || out[6] != 0 {
		t.Fatalf("triple for v[2] = %v,%v,%v, want 100,200,0", out[4], out[5], out[6])
	}
}

func TestTransposeWhiteColorSaturates(t *testing.T) {
	v := []float32{0, 1.0}
	out := Transpose(v, [3]uint8{255, 255, 255})
	if out[1] != 255 || out[2] != 255 || out[3] != 255 {
		t.Fatalf("white triple = %v,%v,%v, want 255,255,255", out[1], out[2], out[3])
	}
}

func TestClampByteRoundsHalfAwayFromZero(t *testing.T) {
	cases := map[float64]byte{
		0.4:   0,
		0.5:   1,
		254.5: 255,
		300:   255,
		-10:   0,
	}
	for in, want := range cases {
		if got := clampByte(in); got != want {
			t.Errorf("clampByte(%v) = %v, want %v", in, got, want)
		}
	}
}
