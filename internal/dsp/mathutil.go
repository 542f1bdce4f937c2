package dsp

import "math"

// GaussianCurve returns a length-len Gaussian bump centered on the curve,
// g[i] = exp(-(i-(len-1)/2)^2 / (2*sigma^2)).
func GaussianCurve(length int, sigma float64) []float32 {
	curve := make([]float32, length)
	center := float64(length-1) / 2
	sigma2 := 2 * sigma * sigma

	for i := range curve {
		x := float64(i) - center
		curve[i] = float32(math.Exp(-(x * x) / sigma2))
	}
	return curve
}

// Reversed returns a new slice with v's elements in reverse order.
func Reversed(v []float32) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[len(out)-1-i] = x
	}
	return out
}

// Mirror returns reversed(v) ++ v.
func Mirror(v []float32) []float32 {
	out := make([]float32, 0, len(v)*2)
	out = append(out, Reversed(v)...)
	out = append(out, v...)
	return out
}

// Transpose expands an intensity vector and an RGB triple into a DMX byte
// buffer of length 3*len(v)+1: a leading 0x00 start code followed by
// (r,g,b) triples. The loop below starts at v[1], so v[0] is never
// written: v[i] lands at bytes [3i-2, 3i+1) and the final triple of the
// buffer stays zero. This mirrors the original implementation; see
// DESIGN.md for why it is kept.
func Transpose(v []float32, rgb [3]uint8) []byte {
	out := make([]byte, len(v)*3+1)
	out[0] = 0x00

	idx := 1
	for i := 1; i < len(v); i++ {
		out[idx] = clampByte(float64(v[i]) * float64(rgb[0]))
		out[idx+1] = clampByte(float64(v[i]) * float64(rgb[1]))
		out[idx+2] = clampByte(float64(v[i]) * float64(rgb[2]))
		idx += 3
	}
	return out
}

func clampByte(x float64) byte {
	r := math.Round(x)
	switch {
	case r <= 0:
		return 0
	case r >= 255:
		return 255
	default:
		return byte(r)
	}
}
